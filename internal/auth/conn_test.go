package auth_test

import (
	"io"
	"net"
	"testing"

	"github.com/aidoo/vpad/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	ca, err := auth.WrapConn(a, nil, key)
	require.NoError(t, err)
	cb, err := auth.WrapConn(b, nil, key)
	require.NoError(t, err)

	msgs := [][]byte{{0x02, 0x01, 0x00, 0x01, 0x10}, []byte("second frame")}
	go func() {
		for _, m := range msgs {
			_, _ = ca.Write(m)
		}
	}()

	for _, m := range msgs {
		got := make([]byte, len(m))
		_, err := io.ReadFull(cb, got)
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
}

func TestConnRejectsWrongKey(t *testing.T) {
	k1 := make([]byte, 32)
	k2 := make([]byte, 32)
	k2[0] = 0xFF
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	ca, err := auth.WrapConn(a, nil, k1)
	require.NoError(t, err)
	cb, err := auth.WrapConn(b, nil, k2)
	require.NoError(t, err)

	go func() { _, _ = ca.Write([]byte("hello")) }()
	_, err = cb.Read(make([]byte, 16))
	assert.Error(t, err)
}

func TestWrapConnInvalidKey(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	_, err := auth.WrapConn(a, nil, []byte("short"))
	assert.Error(t, err)
}
