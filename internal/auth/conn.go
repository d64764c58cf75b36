package auth

import (
	"bytes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
)

// maxPacketSize bounds a sealed packet; HID frames are tiny.
const maxPacketSize = 64 * 1024

// Conn seals every Write into one length-prefixed chacha20poly1305 packet.
type Conn struct {
	net.Conn
	r       io.Reader
	aead    cipher.AEAD
	sendCtr uint64
	recvBuf bytes.Buffer
	writeMu sync.Mutex
	readMu  sync.Mutex
}

// WrapConn returns conn encrypted with sessionKey. Reads come from r when it
// is non-nil, so bytes already buffered during the handshake are not lost.
func WrapConn(conn net.Conn, r io.Reader, sessionKey []byte) (net.Conn, error) {
	aead, err := chacha20poly1305.New(sessionKey)
	if err != nil {
		return nil, err
	}
	if r == nil {
		r = conn
	}
	return &Conn{Conn: conn, r: r, aead: aead}, nil
}

func (c *Conn) Write(p []byte) (int, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	nonce := make([]byte, c.aead.NonceSize())
	binary.BigEndian.PutUint64(nonce[len(nonce)-8:], c.sendCtr)
	c.sendCtr++

	sealed := c.aead.Seal(nonce, nonce, p, nil)
	pkt := make([]byte, 4+len(sealed))
	binary.BigEndian.PutUint32(pkt[:4], uint32(len(sealed)))
	copy(pkt[4:], sealed)
	if _, err := c.Conn.Write(pkt); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *Conn) Read(p []byte) (int, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	if c.recvBuf.Len() == 0 {
		var hdr [4]byte
		if _, err := io.ReadFull(c.r, hdr[:]); err != nil {
			return 0, err
		}
		length := binary.BigEndian.Uint32(hdr[:])
		ns := c.aead.NonceSize()
		if length > maxPacketSize || int(length) < ns+c.aead.Overhead() {
			return 0, fmt.Errorf("invalid packet length %d", length)
		}
		pkt := make([]byte, length)
		if _, err := io.ReadFull(c.r, pkt); err != nil {
			return 0, err
		}
		pt, err := c.aead.Open(nil, pkt[:ns], pkt[ns:], nil)
		if err != nil {
			return 0, err
		}
		c.recvBuf.Write(pt)
	}
	return c.recvBuf.Read(p)
}
