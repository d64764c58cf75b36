package hidhost

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aidoo/vpad/apitypes"
)

// FrameType is the first byte of every frame.
type FrameType uint8

// Device to host.
const (
	FrameDescriptor FrameType = 0x01
	FrameInput      FrameType = 0x02
	FrameReply      FrameType = 0x03
	FrameError      FrameType = 0x7F
)

// Host to device.
const (
	FrameGetReport FrameType = 0x10
	FrameSetReport FrameType = 0x11
	FrameInterrupt FrameType = 0x12
)

// MaxPayload is the largest payload a frame can carry.
const MaxPayload = 0xFFFF

const frameHeaderSize = 3

func (t FrameType) String() string {
	switch t {
	case FrameDescriptor:
		return "descriptor"
	case FrameInput:
		return "input"
	case FrameReply:
		return "reply"
	case FrameError:
		return "error"
	case FrameGetReport:
		return "get_report"
	case FrameSetReport:
		return "set_report"
	case FrameInterrupt:
		return "interrupt"
	default:
		return fmt.Sprintf("frame(0x%02x)", uint8(t))
	}
}

// EncodeFrame builds type | length u16 LE | payload.
func EncodeFrame(t FrameType, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayload {
		return nil, fmt.Errorf("frame payload too large: %d bytes", len(payload))
	}
	b := make([]byte, frameHeaderSize+len(payload))
	b[0] = byte(t)
	binary.LittleEndian.PutUint16(b[1:3], uint16(len(payload)))
	copy(b[frameHeaderSize:], payload)
	return b, nil
}

// WriteFrame encodes and writes a single frame.
func WriteFrame(w io.Writer, t FrameType, payload []byte) error {
	b, err := EncodeFrame(t, payload)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// ReadFrame reads one frame. The returned raw slice holds header and payload.
func ReadFrame(r io.Reader) (t FrameType, payload []byte, raw []byte, err error) {
	var hdr [frameHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, nil, nil, err
	}
	n := int(binary.LittleEndian.Uint16(hdr[1:3]))
	raw = make([]byte, frameHeaderSize+n)
	copy(raw, hdr[:])
	if _, err := io.ReadFull(r, raw[frameHeaderSize:]); err != nil {
		return 0, nil, nil, fmt.Errorf("read %s payload: %w", FrameType(hdr[0]), err)
	}
	return FrameType(hdr[0]), raw[frameHeaderSize:], raw, nil
}

// EncodeDescriptor builds the descriptor frame payload:
// json length u16 LE | DeviceInfo JSON | descriptor bytes.
func EncodeDescriptor(info apitypes.DeviceInfo, descriptor []byte) ([]byte, error) {
	js, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("marshal device info: %w", err)
	}
	b := make([]byte, 2, 2+len(js)+len(descriptor))
	binary.LittleEndian.PutUint16(b, uint16(len(js)))
	b = append(b, js...)
	b = append(b, descriptor...)
	return b, nil
}

// DecodeDescriptor splits a descriptor frame payload.
func DecodeDescriptor(payload []byte) (apitypes.DeviceInfo, []byte, error) {
	var info apitypes.DeviceInfo
	if len(payload) < 2 {
		return info, nil, io.ErrUnexpectedEOF
	}
	n := int(binary.LittleEndian.Uint16(payload[:2]))
	if len(payload) < 2+n {
		return info, nil, io.ErrUnexpectedEOF
	}
	if err := json.Unmarshal(payload[2:2+n], &info); err != nil {
		return info, nil, fmt.Errorf("decode device info: %w", err)
	}
	return info, payload[2+n:], nil
}

// DecodeError parses an error frame payload.
func DecodeError(payload []byte) error {
	var apiErr apitypes.ApiError
	if err := json.Unmarshal(payload, &apiErr); err != nil {
		return fmt.Errorf("decode error frame: %w", err)
	}
	return apiErr
}
