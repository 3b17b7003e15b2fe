package msdp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jpillora/backoff"
)

// -------------------------------------------------------------------------
// Peer Configuration
// -------------------------------------------------------------------------

// Protocol timer defaults (RFC 3618 Section 11 and deployed practice).
const (
	// DefaultKeepaliveInterval is the KEEPALIVE timer period: a
	// KeepAlive TLV is sent whenever this long passes without any other
	// TLV being sent.
	DefaultKeepaliveInterval = 60 * time.Second

	// DefaultHoldTime is the hold timer: the session is torn down when
	// this long passes without receiving any TLV. Must exceed the
	// peer's keepalive interval.
	DefaultHoldTime = 75 * time.Second

	// DefaultConnectRetryInterval caps the active side's dial backoff.
	DefaultConnectRetryInterval = 30 * time.Second

	// DefaultSAAdvertisementInterval is how often local sources are
	// re-advertised to all established peers.
	DefaultSAAdvertisementInterval = 60 * time.Second

	// DefaultSAHoldTime is the lifetime granted to a remote cache entry
	// on each insert or refresh. Sized to survive one missed
	// advertisement interval.
	DefaultSAHoldTime = 90 * time.Second
)

const (
	// sendChSize is the buffer size of the per-session outbound TLV
	// queue. Sized so a full SA burst to a slow peer does not block
	// the engine.
	sendChSize = 64

	// acceptChSize buffers inbound connections handed over by the
	// listener while the session goroutine is between states.
	acceptChSize = 1

	// writeTimeout bounds a single TLV write on the peering connection.
	writeTimeout = 30 * time.Second
)

// Sentinel errors for PeerConfig validation.
var (
	// ErrSameAddress indicates identical local and peer addresses.
	ErrSameAddress = errors.New("peer and local address are identical")

	// ErrMissingPeerAS indicates a non-mesh peer without a configured
	// remote AS. The peer-RPF check needs the AS to compare against.
	ErrMissingPeerAS = errors.New("peer AS required for non-mesh peer")

	// ErrInvalidHoldTime indicates a hold time not exceeding the
	// keepalive interval.
	ErrInvalidHoldTime = errors.New("hold time must exceed keepalive interval")

	// ErrNegativeSALimit indicates a negative SA limit.
	ErrNegativeSALimit = errors.New("SA limit must not be negative")
)

// PeerConfig contains the parameters needed to create an MSDP peering
// session.
type PeerConfig struct {
	// PeerAddr is the remote peer's IPv4 address.
	PeerAddr netip.Addr

	// LocalAddr is the local IPv4 address used for the peering TCP
	// connection. Together with PeerAddr it determines the connection
	// role (RFC 3618 Section 11: higher address connects).
	LocalAddr netip.Addr

	// RemoteAS is the peer's autonomous system number, compared against
	// the origin AS of the best route toward an advertisement's RP for
	// the peer-RPF check. Required unless the peer is in a mesh group.
	RemoteAS uint32

	// MeshGroup names the mesh group the peer belongs to, or "" for
	// none. Mesh-group peers bypass the peer-RPF check and do not have
	// SAs re-flooded among each other (RFC 3618 Section 10.2).
	MeshGroup string

	// FilterIn, when set, is evaluated against every received SA entry
	// before it reaches the cache.
	FilterIn *Filter

	// FilterOut, when set, is evaluated against every SA entry before
	// it is forwarded to this peer.
	FilterOut *Filter

	// SALimit caps the number of cache entries accepted from this peer.
	// Zero means unlimited.
	SALimit int

	// Shutdown administratively disables the peer. The session reports
	// Inactive and performs no connection activity.
	Shutdown bool

	// KeepaliveInterval, HoldTime, and ConnectRetryInterval override
	// the protocol defaults when nonzero.
	KeepaliveInterval    time.Duration
	HoldTime             time.Duration
	ConnectRetryInterval time.Duration
}

// withDefaults returns a copy with zero timer fields replaced by the
// protocol defaults.
func (c PeerConfig) withDefaults() PeerConfig {
	if c.KeepaliveInterval == 0 {
		c.KeepaliveInterval = DefaultKeepaliveInterval
	}
	if c.HoldTime == 0 {
		c.HoldTime = DefaultHoldTime
	}
	if c.ConnectRetryInterval == 0 {
		c.ConnectRetryInterval = DefaultConnectRetryInterval
	}
	return c
}

// validatePeerConfig checks all config parameters.
func validatePeerConfig(cfg PeerConfig) error {
	if !cfg.PeerAddr.Is4() {
		return fmt.Errorf("peer address %s: %w", cfg.PeerAddr, ErrNotIPv4)
	}
	if !cfg.LocalAddr.Is4() {
		return fmt.Errorf("local address %s: %w", cfg.LocalAddr, ErrNotIPv4)
	}
	if cfg.PeerAddr == cfg.LocalAddr {
		return fmt.Errorf("peer %s: %w", cfg.PeerAddr, ErrSameAddress)
	}
	if cfg.RemoteAS == 0 && cfg.MeshGroup == "" {
		return fmt.Errorf("peer %s: %w", cfg.PeerAddr, ErrMissingPeerAS)
	}
	if cfg.HoldTime <= cfg.KeepaliveInterval {
		return fmt.Errorf("hold %v, keepalive %v: %w",
			cfg.HoldTime, cfg.KeepaliveInterval, ErrInvalidHoldTime)
	}
	if cfg.SALimit < 0 {
		return fmt.Errorf("peer %s limit %d: %w", cfg.PeerAddr, cfg.SALimit, ErrNegativeSALimit)
	}
	return nil
}

// StateChange is emitted when a session transitions between states.
type StateChange struct {
	// PeerAddr is the remote peer's address.
	PeerAddr netip.Addr

	// OldState is the session state before the transition.
	OldState State

	// NewState is the session state after the transition.
	NewState State

	// Timestamp is when the transition occurred.
	Timestamp time.Time
}

// -------------------------------------------------------------------------
// Session — RFC 3618 Section 11
// -------------------------------------------------------------------------

// Session implements a single MSDP peering session.
//
// All mutable connection state is owned by the session goroutine started
// via Run(). External reads use atomic operations (State, counters).
// Inbound TCP connections from the listener are delivered via OfferConn();
// outbound SA messages from the engine via SendSA().
type Session struct {
	cfg  PeerConfig
	role Role

	// state is the FSM state. Atomic for lock-free external reads.
	state atomic.Uint32

	// acceptCh delivers inbound connections from the listener to the
	// session goroutine.
	acceptCh chan net.Conn

	// sendCh carries marshaled TLVs to the writer goroutine. Writes
	// are non-blocking; a full queue drops the TLV.
	sendCh chan []byte

	// --- Per-session atomic counters ---
	// Updated on the hot path by the session goroutines and read
	// atomically by snapshot methods.

	keepalivesSent     atomic.Uint64
	keepalivesReceived atomic.Uint64
	saMessagesSent     atomic.Uint64
	saMessagesReceived atomic.Uint64
	sendDrops          atomic.Uint64

	// lastStateChange and lastMessage store Unix nanosecond timestamps.
	// Zero means never.
	lastStateChange atomic.Int64
	lastMessage     atomic.Int64
	establishedAt   atomic.Int64

	engine   *Engine
	logger   *slog.Logger
	notifyCh chan<- StateChange

	dialFunc func(ctx context.Context) (net.Conn, error)
}

// NewSession creates an MSDP session for the given peer. The session
// goroutine is NOT started until Run() is called.
//
// engine receives SA traffic and up/down transitions for this peer.
// notifyCh may be nil if no state change notifications are needed.
func NewSession(
	cfg PeerConfig,
	engine *Engine,
	notifyCh chan<- StateChange,
	logger *slog.Logger,
) (*Session, error) {
	cfg = cfg.withDefaults()
	if err := validatePeerConfig(cfg); err != nil {
		return nil, err
	}

	s := &Session{
		cfg:      cfg,
		role:     RoleFor(cfg.LocalAddr, cfg.PeerAddr),
		acceptCh: make(chan net.Conn, acceptChSize),
		sendCh:   make(chan []byte, sendChSize),
		engine:   engine,
		notifyCh: notifyCh,
		logger: logger.With(
			slog.String("peer", cfg.PeerAddr.String()),
			slog.String("local", cfg.LocalAddr.String()),
		),
	}
	s.state.Store(uint32(StateInactive))

	s.dialFunc = s.dialPeer

	return s, nil
}

// -------------------------------------------------------------------------
// Public Accessors — Thread-safe via atomic
// -------------------------------------------------------------------------

// State returns the current session state (atomic read).
func (s *Session) State() State {
	return State(s.state.Load()) //nolint:gosec // G115: State is 0-3, fits uint8
}

// PeerAddr returns the remote peer's address.
func (s *Session) PeerAddr() netip.Addr { return s.cfg.PeerAddr }

// LocalAddr returns the local address of the peering connection.
func (s *Session) LocalAddr() netip.Addr { return s.cfg.LocalAddr }

// Role returns the connection role derived from the address pair.
func (s *Session) Role() Role { return s.role }

// RemoteAS returns the peer's configured autonomous system number.
func (s *Session) RemoteAS() uint32 { return s.cfg.RemoteAS }

// MeshGroup returns the peer's mesh group name, or "".
func (s *Session) MeshGroup() string { return s.cfg.MeshGroup }

// FilterIn returns the inbound SA filter, or nil.
func (s *Session) FilterIn() *Filter { return s.cfg.FilterIn }

// FilterOut returns the outbound SA filter, or nil.
func (s *Session) FilterOut() *Filter { return s.cfg.FilterOut }

// SALimit returns the SA cache entry limit for this peer (0 = none).
func (s *Session) SALimit() int { return s.cfg.SALimit }

// KeepalivesSent returns the total KeepAlive TLVs transmitted.
func (s *Session) KeepalivesSent() uint64 { return s.keepalivesSent.Load() }

// KeepalivesReceived returns the total KeepAlive TLVs received.
func (s *Session) KeepalivesReceived() uint64 { return s.keepalivesReceived.Load() }

// SAMessagesSent returns the total Source-Active TLVs transmitted.
func (s *Session) SAMessagesSent() uint64 { return s.saMessagesSent.Load() }

// SAMessagesReceived returns the total Source-Active TLVs received.
func (s *Session) SAMessagesReceived() uint64 { return s.saMessagesReceived.Load() }

// LastStateChange returns the timestamp of the most recent state
// transition, or the zero time.
func (s *Session) LastStateChange() time.Time {
	return timeFromUnixNano(s.lastStateChange.Load())
}

// LastMessage returns the timestamp of the most recent TLV received, or
// the zero time.
func (s *Session) LastMessage() time.Time {
	return timeFromUnixNano(s.lastMessage.Load())
}

// EstablishedSince returns when the session last reached Established, or
// the zero time when it is not established.
func (s *Session) EstablishedSince() time.Time {
	if s.State() != StateEstablished {
		return time.Time{}
	}
	return timeFromUnixNano(s.establishedAt.Load())
}

func timeFromUnixNano(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// OfferConn hands an inbound TCP connection to the session. Returns
// false when the session is not listening for one (wrong state, or a
// connection is already pending); the caller closes the connection in
// that case.
//
// Only passive-role sessions accept inbound connections: the RFC 3618
// Section 11 role rule resolves connect collisions by construction.
func (s *Session) OfferConn(conn net.Conn) bool {
	if s.role != RolePassive || s.State() != StateListen {
		return false
	}
	select {
	case s.acceptCh <- conn:
		return true
	default:
		return false
	}
}

// SendSA queues a marshaled Source-Active TLV for transmission. Safe to
// call from any goroutine. If the session is not established or the send
// queue is full, the TLV is dropped; the periodic re-advertisement makes
// up for dropped SAs.
func (s *Session) SendSA(msg *SAMessage) {
	if s.State() != StateEstablished {
		return
	}

	buf := make([]byte, msg.WireSize())
	n, err := MarshalSA(msg, buf)
	if err != nil {
		s.logger.Error("failed to marshal source-active",
			slog.String("error", err.Error()),
		)
		return
	}

	select {
	case s.sendCh <- buf[:n]:
	default:
		s.sendDrops.Add(1)
		s.logger.Debug("send queue full, dropping source-active")
	}
}

// -------------------------------------------------------------------------
// Main Goroutine — RFC 3618 Section 11 Session Lifecycle
// -------------------------------------------------------------------------

// Run starts the session event loop. It blocks until ctx is cancelled.
//
// An administratively shut down peer stays Inactive and performs no
// connection activity until destroyed or reconfigured. Otherwise the
// session enables itself into the role's idle state and cycles:
//
//	active:  dial with backoff -> established -> teardown -> dial ...
//	passive: await accept      -> established -> teardown -> await ...
func (s *Session) Run(ctx context.Context) {
	if s.cfg.Shutdown {
		s.logger.Info("peer administratively shut down")
		<-ctx.Done()
		s.drainAccepts()
		return
	}

	s.applyEvent(EventEnable)
	s.logger.Info("session started",
		slog.String("role", s.role.String()),
		slog.String("state", s.State().String()),
	)

	for {
		var conn net.Conn
		switch s.State() {
		case StateConnecting:
			conn = s.connectLoop(ctx)
		case StateListen:
			conn = s.awaitAccept(ctx)
		default:
			// Inactive mid-run only happens via Disable; nothing to do
			// until shutdown.
			<-ctx.Done()
		}

		if ctx.Err() != nil {
			if conn != nil {
				conn.Close()
			}
			s.drainAccepts()
			s.logger.Info("session stopped")
			return
		}

		s.applyEvent(EventTCPEstablished)
		s.runEstablished(ctx, conn)
	}
}

// drainAccepts closes any connection left in the accept queue after the
// session loop exits.
func (s *Session) drainAccepts() {
	for {
		select {
		case conn := <-s.acceptCh:
			conn.Close()
		default:
			return
		}
	}
}

// connectLoop dials the peer until a connection is established or ctx is
// cancelled. Retries use jittered exponential backoff capped at the
// connect retry interval.
func (s *Session) connectLoop(ctx context.Context) net.Conn {
	b := &backoff.Backoff{
		Min:    time.Second,
		Max:    s.cfg.ConnectRetryInterval,
		Factor: 1.5,
		Jitter: true,
	}

	for {
		conn, err := s.dialFunc(ctx)
		if err == nil {
			return conn
		}
		if ctx.Err() != nil {
			return nil
		}

		s.applyEvent(EventConnectFail)
		wait := b.Duration()
		s.logger.Debug("connect failed, retrying",
			slog.String("error", err.Error()),
			slog.Duration("retry_in", wait),
		)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}

// dialPeer opens the peering TCP connection from the configured local
// address to the peer's MSDP port.
func (s *Session) dialPeer(ctx context.Context) (net.Conn, error) {
	d := net.Dialer{
		LocalAddr: &net.TCPAddr{IP: s.cfg.LocalAddr.AsSlice()},
	}
	addr := net.JoinHostPort(s.cfg.PeerAddr.String(), fmt.Sprintf("%d", Port))

	conn, err := d.DialContext(ctx, "tcp4", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	return conn, nil
}

// awaitAccept blocks until the listener hands over an inbound connection
// or ctx is cancelled.
func (s *Session) awaitAccept(ctx context.Context) net.Conn {
	select {
	case <-ctx.Done():
		return nil
	case conn := <-s.acceptCh:
		return conn
	}
}

// -------------------------------------------------------------------------
// Established Connection — keepalive, hold timer, TLV exchange
// -------------------------------------------------------------------------

// runEstablished exchanges TLVs on conn until the session tears down.
// The reader runs on the session goroutine; a writer goroutine drains
// sendCh and paces keepalives. The hold timer is implemented as a read
// deadline: no TLV within the hold time fails the read.
func (s *Session) runEstablished(ctx context.Context, conn net.Conn) {
	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Unblock the reader on shutdown; it has no other way to observe
	// cancellation while parked in a read.
	go func() {
		<-connCtx.Done()
		conn.Close()
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.writeLoop(connCtx, conn)
	}()

	s.engine.PeerUp(s)
	event := s.readLoop(conn)
	s.engine.PeerDown(s)

	cancel()
	wg.Wait()
	s.drainSendQueue()

	if ctx.Err() != nil {
		return
	}
	s.applyEvent(event)
}

// drainSendQueue discards TLVs queued for a connection that no longer
// exists, so a re-established session does not replay stale traffic.
func (s *Session) drainSendQueue() {
	for {
		select {
		case <-s.sendCh:
		default:
			return
		}
	}
}

// readLoop reads and dispatches TLVs until the connection fails, the
// hold time passes without traffic, or a protocol violation occurs.
// Returns the FSM event describing why the loop ended.
func (s *Session) readLoop(conn net.Conn) Event {
	bufp := TLVPool.Get().(*[]byte)
	defer TLVPool.Put(bufp)

	var msg SAMessage
	for {
		// The hold timer (RFC 3618 Section 11): every received TLV
		// pushes the deadline out.
		if err := conn.SetReadDeadline(time.Now().Add(s.cfg.HoldTime)); err != nil {
			return EventConnClosed
		}

		msgType, value, err := ReadTLV(conn, *bufp)
		if err != nil {
			return s.classifyReadError(err)
		}

		s.lastMessage.Store(time.Now().UnixNano())

		if err := ValidateTLV(msgType, value); err != nil {
			s.logger.Warn("protocol violation",
				slog.String("type", msgType.String()),
				slog.String("error", err.Error()),
			)
			return EventProtocolError
		}

		switch msgType {
		case MsgTypeKeepalive:
			s.keepalivesReceived.Add(1)

		case MsgTypeSourceActive:
			if err := UnmarshalSA(value, &msg); err != nil {
				s.logger.Warn("protocol violation",
					slog.String("type", msgType.String()),
					slog.String("error", err.Error()),
				)
				return EventProtocolError
			}
			s.saMessagesReceived.Add(1)
			s.engine.SubmitSA(s.cfg.PeerAddr, &msg)

		case MsgTypeSARequest, MsgTypeSAResponse:
			// Recognized but unused; both TLV types are deprecated in
			// deployed MSDP.
			s.logger.Debug("ignoring TLV", slog.String("type", msgType.String()))
		}
	}
}

// classifyReadError maps a ReadTLV failure to the FSM event that tears
// the session down.
func (s *Session) classifyReadError(err error) Event {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		s.logger.Warn("hold timer expired",
			slog.Duration("hold_time", s.cfg.HoldTime),
		)
		return EventHoldExpired
	}

	switch {
	case errors.Is(err, ErrTLVTooShort),
		errors.Is(err, ErrTLVTooLong):
		s.logger.Warn("protocol violation", slog.String("error", err.Error()))
		return EventProtocolError
	default:
		s.logger.Info("connection closed", slog.String("error", err.Error()))
		return EventConnClosed
	}
}

// writeLoop drains the send queue and paces keepalives. A KeepAlive TLV
// goes out whenever the keepalive interval passes without any other TLV
// being sent (RFC 3618 Section 11).
func (s *Session) writeLoop(ctx context.Context, conn net.Conn) {
	kaTimer := time.NewTimer(s.cfg.KeepaliveInterval)
	defer kaTimer.Stop()

	var kaBuf [KeepaliveLength]byte
	if _, err := MarshalKeepalive(kaBuf[:]); err != nil {
		s.logger.Error("failed to marshal keepalive", slog.String("error", err.Error()))
		return
	}

	for {
		select {
		case <-ctx.Done():
			return

		case buf := <-s.sendCh:
			if !s.writeTLV(conn, buf) {
				return
			}
			s.saMessagesSent.Add(1)
			resetKeepaliveTimer(kaTimer, s.cfg.KeepaliveInterval)

		case <-kaTimer.C:
			if !s.writeTLV(conn, kaBuf[:]) {
				return
			}
			s.keepalivesSent.Add(1)
			kaTimer.Reset(s.cfg.KeepaliveInterval)
		}
	}
}

// writeTLV writes one TLV with a bounded deadline. A failed write lets
// the reader observe the broken connection and drive the FSM; the writer
// just exits.
func (s *Session) writeTLV(conn net.Conn, buf []byte) bool {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return false
	}
	if _, err := conn.Write(buf); err != nil {
		s.logger.Debug("write failed", slog.String("error", err.Error()))
		conn.Close()
		return false
	}
	return true
}

// resetKeepaliveTimer pushes the keepalive deadline out after a non-
// keepalive TLV was sent.
func resetKeepaliveTimer(t *time.Timer, interval time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(interval)
}

// -------------------------------------------------------------------------
// FSM Event Application
// -------------------------------------------------------------------------

// applyEvent runs the FSM and records the outcome. Connection-level
// side effects (dialing, accepting, closing) are performed by the
// session loop itself; the actions list only drives notifications here.
func (s *Session) applyEvent(event Event) {
	result := ApplyEvent(s.role, s.State(), event)
	if !result.Changed {
		return
	}

	s.state.Store(uint32(result.NewState))
	now := time.Now()
	s.lastStateChange.Store(now.UnixNano())
	if result.NewState == StateEstablished {
		s.establishedAt.Store(now.UnixNano())
	}

	// Log line format is part of the operational contract; external
	// tooling greps for it.
	s.logger.Info(fmt.Sprintf("MSDP peer %s state changed to %s",
		s.cfg.PeerAddr, result.NewState),
		slog.String("old_state", result.OldState.String()),
		slog.String("new_state", result.NewState.String()),
	)

	s.emitNotification(result, now)
}

// emitNotification sends a StateChange to the notification channel if set.
func (s *Session) emitNotification(result FSMResult, now time.Time) {
	if s.notifyCh == nil {
		return
	}
	sc := StateChange{
		PeerAddr:  s.cfg.PeerAddr,
		OldState:  result.OldState,
		NewState:  result.NewState,
		Timestamp: now,
	}
	select {
	case s.notifyCh <- sc:
	default:
		s.logger.Warn("notification channel full, dropping state change")
	}
}
