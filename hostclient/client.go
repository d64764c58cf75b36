// Package hostclient is the host side of the vpad HID transport. It attaches
// to a running vpad server, receives the device descriptor and input
// reports, and can poll reports with GET_REPORT.
package hostclient

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/aidoo/vpad/apitypes"
	"github.com/aidoo/vpad/internal/auth"
	"github.com/aidoo/vpad/internal/server/hidhost"
)

// ErrClosed is returned once the connection has ended.
var ErrClosed = errors.New("host connection closed")

// Config controls dial behavior and timeouts.
type Config struct {
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Password     string
	// Buffer is the number of input reports held for a slow reader.
	Buffer int
}

func defaultConfig() Config {
	return Config{
		DialTimeout:  3 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		Buffer:       64,
	}
}

// Report is one input report received from the device.
type Report struct {
	ID   uint8
	Data []byte
}

// Reply answers a GetReport request.
type Reply struct {
	Type uint8
	ID   uint8
	Data []byte
}

// Client is an attached host.
type Client struct {
	conn       net.Conn
	cfg        Config
	info       apitypes.DeviceInfo
	descriptor []byte

	reports chan Report
	replies chan Reply
	done    chan struct{}
	once    sync.Once
	writeMu sync.Mutex
	getMu   sync.Mutex

	errMu sync.Mutex
	err   error
}

// Dial connects to addr and waits for the device descriptor. A nil cfg uses
// default timeouts and no password.
func Dial(ctx context.Context, addr string, cfg *Config) (*Client, error) {
	c := defaultConfig()
	if cfg != nil {
		c = *cfg
		if c.Buffer <= 0 {
			c.Buffer = defaultConfig().Buffer
		}
	}

	d := &net.Dialer{Timeout: c.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if err := tcpConn.SetNoDelay(true); err != nil {
			slog.Warn("failed to set TCP_NODELAY", "error", err)
		}
	}

	var r io.Reader = conn
	if c.Password != "" {
		wrapped, err := handshake(conn, c)
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		conn = wrapped
		r = wrapped
	}
	br := bufio.NewReader(r)

	if c.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(c.ReadTimeout))
	}
	t, payload, _, err := hidhost.ReadFrame(br)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	_ = conn.SetReadDeadline(time.Time{})

	switch t {
	case hidhost.FrameDescriptor:
	case hidhost.FrameError:
		_ = conn.Close()
		return nil, hidhost.DecodeError(payload)
	default:
		_ = conn.Close()
		return nil, fmt.Errorf("expected descriptor frame, got %s", t)
	}
	info, desc, err := hidhost.DecodeDescriptor(payload)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	cl := &Client{
		conn:       conn,
		cfg:        c,
		info:       info,
		descriptor: desc,
		reports:    make(chan Report, c.Buffer),
		replies:    make(chan Reply, 1),
		done:       make(chan struct{}),
	}
	go cl.readLoop(br)
	return cl, nil
}

func handshake(conn net.Conn, c Config) (net.Conn, error) {
	key, err := auth.DeriveKey(c.Password)
	if err != nil {
		return nil, err
	}
	if c.ReadTimeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(c.ReadTimeout))
	}
	br := bufio.NewReader(conn)
	clientNonce, serverNonce, err := auth.ClientHandshake(br, conn, key)
	if err != nil {
		return nil, err
	}
	_ = conn.SetDeadline(time.Time{})
	return auth.WrapConn(conn, br, auth.DeriveSessionKey(key, serverNonce, clientNonce))
}

// Info returns the service record sent by the device.
func (c *Client) Info() apitypes.DeviceInfo { return c.info }

// Descriptor returns the HID report descriptor sent by the device.
func (c *Client) Descriptor() []byte { return c.descriptor }

// Reports delivers input reports in arrival order. It is closed when the
// connection ends.
func (c *Client) Reports() <-chan Report { return c.reports }

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} { return c.done }

// Err returns the reason the connection ended, if any.
func (c *Client) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

// Close detaches from the device.
func (c *Client) Close() error {
	c.fail(ErrClosed)
	return nil
}

func (c *Client) fail(err error) {
	c.once.Do(func() {
		c.errMu.Lock()
		c.err = err
		c.errMu.Unlock()
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *Client) readLoop(br *bufio.Reader) {
	defer close(c.reports)
	for {
		t, payload, _, err := hidhost.ReadFrame(br)
		if err != nil {
			c.fail(err)
			return
		}
		switch t {
		case hidhost.FrameInput:
			if len(payload) < 1 {
				continue
			}
			rep := Report{ID: payload[0], Data: payload[1:]}
			select {
			case c.reports <- rep:
			case <-c.done:
				return
			}
		case hidhost.FrameReply:
			if len(payload) < 2 {
				continue
			}
			rep := Reply{Type: payload[0], ID: payload[1], Data: payload[2:]}
			// Replies nobody waits for are dropped.
			select {
			case c.replies <- rep:
			default:
			}
		case hidhost.FrameError:
			c.fail(hidhost.DecodeError(payload))
			return
		}
	}
}

func (c *Client) write(t hidhost.FrameType, payload []byte) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.cfg.WriteTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	}
	if err := hidhost.WriteFrame(c.conn, t, payload); err != nil {
		return fmt.Errorf("write %s: %w", t, err)
	}
	return nil
}

// GetReport asks the device for a report and waits for the reply. Devices
// drop requests they do not recognize, so callers should bound ctx.
func (c *Client) GetReport(ctx context.Context, reportType, id uint8, bufferSize int) (Reply, error) {
	c.getMu.Lock()
	defer c.getMu.Unlock()

	// Discard a late reply from an earlier, timed-out request.
	select {
	case <-c.replies:
	default:
	}

	payload := make([]byte, 4)
	payload[0], payload[1] = reportType, id
	binary.LittleEndian.PutUint16(payload[2:], uint16(bufferSize))
	if err := c.write(hidhost.FrameGetReport, payload); err != nil {
		return Reply{}, err
	}
	for {
		select {
		case rep := <-c.replies:
			if rep.Type == reportType && rep.ID == id {
				return rep, nil
			}
		case <-c.done:
			return Reply{}, ErrClosed
		case <-ctx.Done():
			return Reply{}, ctx.Err()
		}
	}
}

// SetReport sends a SET_REPORT request.
func (c *Client) SetReport(reportType, id uint8, data []byte) error {
	return c.write(hidhost.FrameSetReport, append([]byte{reportType, id}, data...))
}

// SendInterrupt sends data on the interrupt channel.
func (c *Client) SendInterrupt(id uint8, data []byte) error {
	return c.write(hidhost.FrameInterrupt, append([]byte{id}, data...))
}
