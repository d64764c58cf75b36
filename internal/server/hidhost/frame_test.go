package hidhost_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidoo/vpad/apitypes"
	"github.com/aidoo/vpad/internal/server/hidhost"
)

func TestEncodeFrame(t *testing.T) {
	type testCase struct {
		name     string
		typ      hidhost.FrameType
		payload  []byte
		expected []byte
	}
	testCases := []testCase{
		{
			name:     "Input report",
			typ:      hidhost.FrameInput,
			payload:  []byte{0x01, 0x18},
			expected: []byte{0x02, 0x02, 0x00, 0x01, 0x18},
		},
		{
			name:     "Get report",
			typ:      hidhost.FrameGetReport,
			payload:  []byte{0x01, 0x01, 0x40, 0x00},
			expected: []byte{0x10, 0x04, 0x00, 0x01, 0x01, 0x40, 0x00},
		},
		{
			name:     "Empty payload",
			typ:      hidhost.FrameInterrupt,
			payload:  nil,
			expected: []byte{0x12, 0x00, 0x00},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := hidhost.EncodeFrame(tc.typ, tc.payload)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, b)
		})
	}
}

func TestEncodeFrameTooLarge(t *testing.T) {
	_, err := hidhost.EncodeFrame(hidhost.FrameInput, make([]byte, hidhost.MaxPayload+1))
	assert.Error(t, err)
}

func TestReadFrame(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, hidhost.WriteFrame(&buf, hidhost.FrameReply, []byte{0x01, 0x01, 0x10}))
	require.NoError(t, hidhost.WriteFrame(&buf, hidhost.FrameInput, []byte{0x01, 0x00}))

	typ, payload, raw, err := hidhost.ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, hidhost.FrameReply, typ)
	assert.Equal(t, []byte{0x01, 0x01, 0x10}, payload)
	assert.Equal(t, []byte{0x03, 0x03, 0x00, 0x01, 0x01, 0x10}, raw)

	typ, payload, _, err = hidhost.ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, hidhost.FrameInput, typ)
	assert.Equal(t, []byte{0x01, 0x00}, payload)

	_, _, _, err = hidhost.ReadFrame(&buf)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadFrameTruncated(t *testing.T) {
	_, _, _, err := hidhost.ReadFrame(bytes.NewReader([]byte{0x02, 0x05, 0x00, 0x01}))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDescriptorPayload(t *testing.T) {
	info := apitypes.DeviceInfo{Name: "pad", Description: "desc", Provider: "prov", ReportID: 1}
	desc := []byte{0x05, 0x01, 0x09, 0x05}

	payload, err := hidhost.EncodeDescriptor(info, desc)
	require.NoError(t, err)

	gotInfo, gotDesc, err := hidhost.DecodeDescriptor(payload)
	require.NoError(t, err)
	assert.Equal(t, info, gotInfo)
	assert.Equal(t, desc, gotDesc)

	_, _, err = hidhost.DecodeDescriptor(payload[:5])
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDecodeError(t *testing.T) {
	err := hidhost.DecodeError([]byte(`{"status":409,"title":"Conflict","detail":"busy"}`))
	var apiErr apitypes.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.Status)
	assert.Equal(t, "409 Conflict: busy", apiErr.Error())
}
