// Package hidhost implements gamepad.Profile over TCP. A remote host plays
// the role of the Bluetooth HID host: it receives the device info and report
// descriptor when it attaches, then input reports and GET_REPORT replies.
package hidhost

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/aidoo/vpad/apitypes"
	"github.com/aidoo/vpad/device/gamepad"
	"github.com/aidoo/vpad/internal/auth"
	"github.com/aidoo/vpad/internal/log"
)

var (
	ErrNotRegistered = errors.New("no hid app registered")
	ErrNoPeer        = errors.New("peer not connected")
	ErrQueueFull     = errors.New("send queue full")
	ErrClosed        = errors.New("server closed")
)

const (
	defaultQueueSize = 64
	eventQueueSize   = 256
)

// Server is a gamepad.Profile reachable over TCP.
//
// All callbacks run on a single executor goroutine, in the order the
// underlying events happened. SendReport and ReplyReport only enqueue.
type Server struct {
	config ServerConfig
	logger *slog.Logger
	raw    log.RawLogger
	key    []byte

	ln     net.Listener
	events chan func()
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup

	mu         sync.Mutex
	registered bool
	settings   gamepad.AppSettings
	descriptor []byte
	cb         gamepad.Callback
	peer       *peerConn
	conns      map[net.Conn]struct{}
}

type peerConn struct {
	conn      net.Conn
	peer      gamepad.Peer
	out       chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func (p *peerConn) close() {
	p.closeOnce.Do(func() {
		close(p.closed)
		_ = p.conn.Close()
	})
}

// New creates a server. The callback executor starts immediately; Start
// begins accepting hosts.
func New(config ServerConfig, logger *slog.Logger, raw log.RawLogger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaultQueueSize
	}
	s := &Server{
		config: config,
		logger: logger,
		raw:    raw,
		events: make(chan func(), eventQueueSize),
		done:   make(chan struct{}),
		conns:  make(map[net.Conn]struct{}),
	}
	s.wg.Add(1)
	go s.runExecutor()
	return s
}

// Config returns the server configuration.
func (s *Server) Config() ServerConfig { return s.config }

// Addr returns the listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Start listens on the configured address.
func (s *Server) Start() error {
	if s.config.Password != "" {
		key, err := auth.DeriveKey(s.config.Password)
		if err != nil {
			return fmt.Errorf("derive key: %w", err)
		}
		s.key = key
	}
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.logger.Info("HID host listening", "addr", ln.Addr().String(), "auth", s.key != nil)
	s.wg.Add(1)
	go s.serve()
	return nil
}

// Close stops accepting, drops the attached host and stops the executor.
// Pending callbacks are discarded.
func (s *Server) Close() {
	s.once.Do(func() {
		close(s.done)
		if s.ln != nil {
			_ = s.ln.Close()
		}
		s.mu.Lock()
		p := s.peer
		s.peer = nil
		for c := range s.conns {
			_ = c.Close()
		}
		s.mu.Unlock()
		if p != nil {
			p.close()
		}
	})
	s.wg.Wait()
}

func (s *Server) runExecutor() {
	defer s.wg.Done()
	for {
		select {
		case fn := <-s.events:
			fn()
		case <-s.done:
			return
		}
	}
}

func (s *Server) post(fn func()) {
	select {
	case s.events <- fn:
	case <-s.done:
	}
}

// RegisterApp implements gamepad.Profile.
func (s *Server) RegisterApp(settings gamepad.AppSettings, descriptor []byte, cb gamepad.Callback) error {
	if cb == nil {
		return errors.New("nil callback")
	}
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	s.mu.Lock()
	if s.registered {
		s.mu.Unlock()
		return gamepad.ErrAlreadyRegistered
	}
	s.registered = true
	s.settings = settings
	s.descriptor = append([]byte(nil), descriptor...)
	s.cb = cb
	s.mu.Unlock()

	s.logger.Info("HID app registered", "name", settings.Name, "descriptor_len", len(descriptor))
	s.post(func() { cb.OnAppStatusChanged(true) })
	return nil
}

// UnregisterApp implements gamepad.Profile. An attached host is dropped.
func (s *Server) UnregisterApp() error {
	s.mu.Lock()
	if !s.registered {
		s.mu.Unlock()
		return ErrNotRegistered
	}
	cb := s.cb
	p := s.peer
	s.registered = false
	s.cb = nil
	s.peer = nil
	s.mu.Unlock()

	if p != nil {
		p.close()
		s.post(func() { cb.OnConnectionStateChanged(p.peer, gamepad.StateDisconnected) })
	}
	s.logger.Info("HID app unregistered")
	s.post(func() { cb.OnAppStatusChanged(false) })
	return nil
}

// SendReport implements gamepad.Profile.
func (s *Server) SendReport(peer gamepad.Peer, id uint8, data []byte) error {
	payload := make([]byte, 0, 1+len(data))
	payload = append(payload, id)
	payload = append(payload, data...)
	return s.enqueue(peer, FrameInput, payload)
}

// ReplyReport implements gamepad.Profile.
func (s *Server) ReplyReport(peer gamepad.Peer, reportType, id uint8, data []byte) error {
	payload := make([]byte, 0, 2+len(data))
	payload = append(payload, reportType, id)
	payload = append(payload, data...)
	return s.enqueue(peer, FrameReply, payload)
}

func (s *Server) enqueue(peer gamepad.Peer, t FrameType, payload []byte) error {
	frame, err := EncodeFrame(t, payload)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.registered {
		return ErrNotRegistered
	}
	p := s.peer
	if p == nil || p.peer.Address != peer.Address {
		return fmt.Errorf("%w: %s", ErrNoPeer, peer)
	}
	select {
	case p.out <- frame:
		return nil
	default:
		return ErrQueueFull
	}
}

func (s *Server) serve() {
	defer s.wg.Done()
	for {
		c, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || strings.Contains(strings.ToLower(err.Error()), "use of closed network connection") {
				s.logger.Info("HID host server stopped")
				return
			}
			s.logger.Error("HID host accept error", "error", err)
			return
		}
		if !s.track(c) {
			_ = c.Close()
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(c)
			s.handleConn(c)
		}()
	}
}

func (s *Server) track(c net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
		return false
	default:
	}
	s.conns[c] = struct{}{}
	return true
}

func (s *Server) untrack(c net.Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	_ = c.Close()
}

func (s *Server) writeErrorFrame(w io.Writer, err error) {
	apiErr := apitypes.WrapError(err)
	js, _ := json.Marshal(apiErr)
	if werr := WriteFrame(w, FrameError, js); werr == nil {
		s.raw.Log(false, js)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	connLogger := s.logger.With("remote", conn.RemoteAddr().String())
	connLogger.Info("HID host connected")

	var rw net.Conn = conn
	var r io.Reader = conn
	if s.key != nil {
		wrapped, br, err := s.authenticate(conn, connLogger)
		if err != nil {
			_ = conn.Close()
			return
		}
		rw = wrapped
		r = br
	}

	p := &peerConn{
		conn:   rw,
		peer:   gamepad.Peer{Address: conn.RemoteAddr().String()},
		out:    make(chan []byte, s.config.QueueSize),
		closed: make(chan struct{}),
	}

	s.mu.Lock()
	switch {
	case !s.registered:
		s.mu.Unlock()
		connLogger.Warn("rejecting host: no HID app registered")
		s.writeErrorFrame(rw, apitypes.ErrServiceUnavailable("no hid app registered"))
		_ = rw.Close()
		return
	case s.peer != nil:
		busy := s.peer.peer
		s.mu.Unlock()
		connLogger.Warn("rejecting host: peer already attached", "peer", busy.String())
		s.writeErrorFrame(rw, apitypes.ErrConflict(fmt.Sprintf("peer %s already attached", busy)))
		_ = rw.Close()
		return
	}
	descPayload, err := EncodeDescriptor(apitypes.DeviceInfo{
		Name:        s.settings.Name,
		Description: s.settings.Description,
		Provider:    s.settings.Provider,
		Subclass:    s.settings.Subclass,
		ReportID:    gamepad.ReportID,
	}, s.descriptor)
	if err != nil {
		s.mu.Unlock()
		connLogger.Error("encode descriptor", "error", err)
		s.writeErrorFrame(rw, err)
		_ = rw.Close()
		return
	}
	descFrame, _ := EncodeFrame(FrameDescriptor, descPayload)
	p.out <- descFrame
	s.peer = p
	cb := s.cb
	s.mu.Unlock()

	s.post(func() { cb.OnConnectionStateChanged(p.peer, gamepad.StateConnecting) })
	s.post(func() { cb.OnConnectionStateChanged(p.peer, gamepad.StateConnected) })

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.writeLoop(p, connLogger)
	}()
	s.readLoop(p, r, cb, connLogger)
	connLogger.Info("HID host disconnected")
}

func (s *Server) authenticate(conn net.Conn, l *slog.Logger) (net.Conn, io.Reader, error) {
	if s.config.HandshakeTimeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(s.config.HandshakeTimeout))
	}
	br := bufio.NewReader(conn)
	clientNonce, serverNonce, err := auth.ServerHandshake(br, conn, s.key)
	if err != nil {
		l.Warn("HID host authentication failed", "error", err)
		var apiErr apitypes.ApiError
		if errors.As(err, &apiErr) {
			js, _ := json.Marshal(apiErr)
			_, _ = fmt.Fprintf(conn, "%s\n", js)
		}
		return nil, nil, err
	}
	_ = conn.SetDeadline(time.Time{})
	wrapped, err := auth.WrapConn(conn, br, auth.DeriveSessionKey(s.key, serverNonce, clientNonce))
	if err != nil {
		l.Error("wrap encrypted connection", "error", err)
		return nil, nil, err
	}
	return wrapped, wrapped, nil
}

func (s *Server) writeLoop(p *peerConn, l *slog.Logger) {
	for {
		select {
		case f := <-p.out:
			if _, err := p.conn.Write(f); err != nil {
				l.Debug("HID host write failed", "error", err)
				s.dropPeer(p)
				return
			}
			s.raw.Log(false, f)
		case <-p.closed:
			return
		}
	}
}

func (s *Server) readLoop(p *peerConn, r io.Reader, cb gamepad.Callback, l *slog.Logger) {
	br := bufio.NewReader(r)
	for {
		t, payload, raw, err := ReadFrame(br)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				l.Debug("HID host read failed", "error", err)
			}
			s.dropPeer(p)
			return
		}
		s.raw.Log(true, raw)

		switch t {
		case FrameGetReport:
			if len(payload) < 4 {
				l.Warn("short get_report frame", "len", len(payload))
				continue
			}
			reportType, id := payload[0], payload[1]
			size := int(payload[2]) | int(payload[3])<<8
			s.post(func() { cb.OnGetReport(p.peer, reportType, id, size) })
		case FrameSetReport:
			if len(payload) < 2 {
				l.Warn("short set_report frame", "len", len(payload))
				continue
			}
			reportType, id, data := payload[0], payload[1], payload[2:]
			s.post(func() { cb.OnSetReport(p.peer, reportType, id, data) })
		case FrameInterrupt:
			if len(payload) < 1 {
				l.Warn("short interrupt frame")
				continue
			}
			id, data := payload[0], payload[1:]
			s.post(func() { cb.OnInterruptData(p.peer, id, data) })
		default:
			l.Warn("unexpected frame from host", "type", t.String())
		}
	}
}

// dropPeer detaches p if it is still the current host.
func (s *Server) dropPeer(p *peerConn) {
	s.mu.Lock()
	current := s.peer == p
	if current {
		s.peer = nil
	}
	cb := s.cb
	registered := s.registered
	s.mu.Unlock()

	p.close()
	if current && registered {
		s.post(func() { cb.OnConnectionStateChanged(p.peer, gamepad.StateDisconnected) })
	}
}
