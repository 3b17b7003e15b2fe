package msdp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"sync"
	"time"
)

// -------------------------------------------------------------------------
// Manager Errors
// -------------------------------------------------------------------------

// Sentinel errors for Manager operations.
var (
	// ErrPeerNotFound indicates no session exists for the given peer
	// address.
	ErrPeerNotFound = errors.New("peer not found")

	// ErrDuplicatePeer indicates a session already exists for the given
	// peer address.
	ErrDuplicatePeer = errors.New("duplicate session for peer")

	// ErrInvalidPeerAddr indicates the peer address is not valid.
	ErrInvalidPeerAddr = errors.New("peer address must be valid")
)

// createPeerErrPrefix is the common error prefix for peer creation
// failures.
const createPeerErrPrefix = "create peer"

// -------------------------------------------------------------------------
// Peer Snapshot — read-only view for external consumers
// -------------------------------------------------------------------------

// PeerSnapshot is a read-only view of a session's state at a point in
// time. Used by the status API and monitoring interfaces. All fields are
// copied; no references to mutable state are held.
type PeerSnapshot struct {
	// PeerAddr is the remote peer's address.
	PeerAddr netip.Addr

	// LocalAddr is the local address of the peering connection.
	LocalAddr netip.Addr

	// State is the current session FSM state (atomic snapshot).
	State State

	// Role is the connection role derived from the address pair.
	Role Role

	// RemoteAS is the peer's configured autonomous system number.
	RemoteAS uint32

	// MeshGroup is the peer's mesh group name, or "".
	MeshGroup string

	// SALimit is the SA cache entry limit (0 = none).
	SALimit int

	// SACount is the number of cache entries attributed to the peer.
	SACount int

	// EstablishedSince is when the session last reached Established,
	// zero when it is not established.
	EstablishedSince time.Time

	// LastStateChange is the timestamp of the most recent state
	// transition. Zero means none since creation.
	LastStateChange time.Time

	// LastMessage is the timestamp of the most recent TLV received.
	LastMessage time.Time

	// Counters contains per-session TLV counters.
	Counters PeerCounters
}

// PeerCounters holds per-session atomic counter snapshots. These are
// monotonically increasing for the lifetime of the session.
type PeerCounters struct {
	// KeepalivesSent and KeepalivesReceived count KeepAlive TLVs.
	KeepalivesSent     uint64
	KeepalivesReceived uint64

	// SAMessagesSent and SAMessagesReceived count Source-Active TLVs.
	SAMessagesSent     uint64
	SAMessagesReceived uint64
}

const (
	// notifyChSize is the buffer size for the aggregated state change
	// channel. Sized to absorb bursts of transitions across peers
	// without blocking session goroutines.
	notifyChSize = 64

	// acceptBackoff is the pause after a transient listener accept
	// error before retrying.
	acceptBackoff = 100 * time.Millisecond
)

// -------------------------------------------------------------------------
// Manager — MSDP Peer Manager
// -------------------------------------------------------------------------

// Manager owns all MSDP peering sessions, runs the shared TCP listener
// for the passive side, and provides the session lifecycle API.
//
// Inbound connection routing: the listener accepts on the MSDP port and
// routes each connection to the session configured for the remote
// address. Connections from unconfigured addresses, or for sessions not
// currently listening, are closed immediately -- the RFC 3618 Section 11
// role rule means only passive-role peers legitimately connect to us.
type Manager struct {
	// sessions indexed by peer address.
	sessions map[netip.Addr]*sessionEntry

	mu sync.RWMutex

	engine *Engine

	// rawNotifyCh receives state changes from all sessions. The
	// Manager's dispatch goroutine forwards them to publicNotifyCh.
	rawNotifyCh chan StateChange

	// publicNotifyCh is the fan-out channel exposed via StateChanges().
	publicNotifyCh chan StateChange

	logger *slog.Logger
}

// sessionEntry holds a session and its cancellation function. The cancel
// function is used by DestroyPeer to stop the session goroutine.
type sessionEntry struct {
	session *Session
	cancel  context.CancelFunc
}

// NewManager creates an MSDP peer manager. All sessions it creates are
// attached to the given engine.
func NewManager(engine *Engine, logger *slog.Logger) *Manager {
	return &Manager{
		sessions:       make(map[netip.Addr]*sessionEntry),
		engine:         engine,
		rawNotifyCh:    make(chan StateChange, notifyChSize),
		publicNotifyCh: make(chan StateChange, notifyChSize),
		logger:         logger.With(slog.String("component", "msdp.manager")),
	}
}

// -------------------------------------------------------------------------
// Peer CRUD
// -------------------------------------------------------------------------

// CreatePeer creates a session for the given peer configuration,
// attaches it to the engine, and starts its Run goroutine.
//
// Returns ErrDuplicatePeer if a session already exists for the peer
// address.
func (m *Manager) CreatePeer(ctx context.Context, cfg PeerConfig) (*Session, error) {
	if !cfg.PeerAddr.IsValid() {
		return nil, fmt.Errorf("%s: %w", createPeerErrPrefix, ErrInvalidPeerAddr)
	}

	sess, err := NewSession(cfg, m.engine, m.rawNotifyCh, m.logger)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", createPeerErrPrefix, cfg.PeerAddr, err)
	}

	m.mu.Lock()
	if _, dup := m.sessions[cfg.PeerAddr]; dup {
		m.mu.Unlock()
		return nil, fmt.Errorf("%s %s: %w", createPeerErrPrefix, cfg.PeerAddr, ErrDuplicatePeer)
	}

	entry := &sessionEntry{session: sess}
	// Decouple session lifetime from the parent context so that SIGTERM
	// does not immediately kill sessions mid-write. Graceful shutdown
	// cancels each session explicitly via Close.
	sessCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	entry.cancel = cancel

	m.engine.AttachPeer(sess)
	go sess.Run(sessCtx)

	m.sessions[cfg.PeerAddr] = entry
	m.mu.Unlock()

	m.logger.Info("peer created",
		slog.String("peer", cfg.PeerAddr.String()),
		slog.String("local", cfg.LocalAddr.String()),
		slog.String("role", sess.Role().String()),
		slog.Uint64("remote_as", uint64(cfg.RemoteAS)),
		slog.String("mesh_group", cfg.MeshGroup),
		slog.Bool("shutdown", cfg.Shutdown),
	)

	return sess, nil
}

// DestroyPeer stops and removes the session for the given peer address.
// Cached SA entries learned from the peer are not flushed; they age out.
//
// Returns ErrPeerNotFound if no session exists for the address.
func (m *Manager) DestroyPeer(peer netip.Addr) error {
	m.mu.Lock()
	entry, ok := m.sessions[peer]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("destroy peer %s: %w", peer, ErrPeerNotFound)
	}
	delete(m.sessions, peer)
	m.mu.Unlock()

	// Cancel outside the lock to avoid holding it during goroutine
	// teardown.
	entry.cancel()
	m.engine.DetachPeer(peer)

	m.logger.Info("peer destroyed", slog.String("peer", peer.String()))

	return nil
}

// LookupPeer returns the session for the given peer address.
func (m *Manager) LookupPeer(peer netip.Addr) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.sessions[peer]
	if !ok {
		return nil, false
	}

	return entry.session, true
}

// -------------------------------------------------------------------------
// Inbound Listener
// -------------------------------------------------------------------------

// RunListener accepts inbound peering connections on addr (typically
// ":639") and routes them to the session configured for the remote
// address. Blocks until ctx is cancelled.
func (m *Manager) RunListener(ctx context.Context, addr string) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp4", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	m.logger.Info("listener started", slog.String("addr", ln.Addr().String()))

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				m.logger.Info("listener stopped")
				return nil
			}
			m.logger.Warn("accept failed", slog.String("error", err.Error()))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(acceptBackoff):
			}
			continue
		}

		m.routeConn(conn)
	}
}

// routeConn hands an accepted connection to the owning session, or
// closes it when no session wants it.
func (m *Manager) routeConn(conn net.Conn) {
	remote, err := remoteAddr(conn)
	if err != nil {
		m.logger.Warn("rejecting connection with unparseable remote address",
			slog.String("remote", conn.RemoteAddr().String()),
		)
		conn.Close()
		return
	}

	sess, ok := m.LookupPeer(remote)
	if !ok {
		m.logger.Warn("rejecting connection from unconfigured peer",
			slog.String("remote", remote.String()),
		)
		conn.Close()
		return
	}

	if !sess.OfferConn(conn) {
		m.logger.Debug("rejecting connection, session not listening",
			slog.String("remote", remote.String()),
			slog.String("state", sess.State().String()),
		)
		conn.Close()
	}
}

// remoteAddr extracts the remote IP of a connection as a netip.Addr,
// unmapped so it compares equal to configured IPv4 peer addresses.
func remoteAddr(conn net.Conn) (netip.Addr, error) {
	tcpAddr, ok := conn.RemoteAddr().(*net.TCPAddr)
	if !ok {
		return netip.Addr{}, fmt.Errorf("remote address %v: %w",
			conn.RemoteAddr(), ErrInvalidPeerAddr)
	}
	addr, ok := netip.AddrFromSlice(tcpAddr.IP)
	if !ok {
		return netip.Addr{}, fmt.Errorf("remote address %v: %w",
			conn.RemoteAddr(), ErrInvalidPeerAddr)
	}

	return addr.Unmap(), nil
}

// -------------------------------------------------------------------------
// Snapshot — read-only peer listing
// -------------------------------------------------------------------------

// Peers returns a snapshot of all configured peers. The returned slice
// contains copies of session state; no references to mutable data are
// held.
func (m *Manager) Peers() []PeerSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshots := make([]PeerSnapshot, 0, len(m.sessions))

	for _, entry := range m.sessions {
		s := entry.session
		snapshots = append(snapshots, PeerSnapshot{
			PeerAddr:         s.PeerAddr(),
			LocalAddr:        s.LocalAddr(),
			State:            s.State(),
			Role:             s.Role(),
			RemoteAS:         s.RemoteAS(),
			MeshGroup:        s.MeshGroup(),
			SALimit:          s.SALimit(),
			SACount:          m.engine.Cache().PeerEntryCount(s.PeerAddr()),
			EstablishedSince: s.EstablishedSince(),
			LastStateChange:  s.LastStateChange(),
			LastMessage:      s.LastMessage(),
			Counters: PeerCounters{
				KeepalivesSent:     s.KeepalivesSent(),
				KeepalivesReceived: s.KeepalivesReceived(),
				SAMessagesSent:     s.SAMessagesSent(),
				SAMessagesReceived: s.SAMessagesReceived(),
			},
		})
	}

	return snapshots
}

// -------------------------------------------------------------------------
// State Change Notifications
// -------------------------------------------------------------------------

// StateChanges returns a read-only channel that receives state change
// notifications from all sessions. Intended for the metrics wiring and
// monitoring consumers.
//
// The channel is buffered. If the consumer falls behind, session
// goroutines drop notifications (logged at warn level).
func (m *Manager) StateChanges() <-chan StateChange {
	return m.publicNotifyCh
}

// RunDispatch forwards state change notifications from all sessions to
// the public StateChanges channel. This goroutine MUST be running for
// notifications to reach external consumers; without it the raw channel
// fills up and sessions drop notifications.
//
// Blocks until ctx is cancelled.
func (m *Manager) RunDispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case sc := <-m.rawNotifyCh:
			select {
			case m.publicNotifyCh <- sc:
			default:
				m.logger.Warn("public notification channel full, dropping state change",
					slog.String("peer", sc.PeerAddr.String()),
					slog.String("new_state", sc.NewState.String()),
				)
			}
		}
	}
}

// -------------------------------------------------------------------------
// Peer Reconciliation — SIGHUP reload
// -------------------------------------------------------------------------

// ReconcilePeers diffs the desired peer set against the current
// sessions. Peers present in desired but absent are created; peers
// absent from desired are destroyed; peers whose configuration changed
// are destroyed and re-created (an MSDP session cannot renegotiate
// policy in place).
//
// Returns the number of sessions created and destroyed, and any errors
// encountered. Partial failures are logged and accumulated;
// reconciliation continues for all peers.
func (m *Manager) ReconcilePeers(ctx context.Context, desired []PeerConfig) (int, int, error) {
	desiredByAddr := make(map[netip.Addr]PeerConfig, len(desired))
	for _, cfg := range desired {
		desiredByAddr[cfg.PeerAddr] = cfg
	}

	current := m.currentPeerConfigs()

	var created, destroyed int
	var errs []error

	// Destroy removed and changed peers.
	for addr, cur := range current {
		want, ok := desiredByAddr[addr]
		if ok && peerConfigEqual(cur, want) {
			continue
		}

		m.logger.Info("reconcile: destroying peer",
			slog.String("peer", addr.String()),
			slog.Bool("reconfigured", ok),
		)

		if dErr := m.DestroyPeer(addr); dErr != nil {
			errs = append(errs, fmt.Errorf("reconcile destroy %s: %w", addr, dErr))
			continue
		}
		destroyed++
	}

	// Create missing peers (including re-creates from the loop above).
	for addr, want := range desiredByAddr {
		if cur, ok := current[addr]; ok && peerConfigEqual(cur, want) {
			continue
		}

		m.logger.Info("reconcile: creating peer", slog.String("peer", addr.String()))

		if _, cErr := m.CreatePeer(ctx, want); cErr != nil {
			errs = append(errs, fmt.Errorf("reconcile create %s: %w", addr, cErr))
			continue
		}
		created++
	}

	var err error
	if len(errs) > 0 {
		err = errors.Join(errs...)
	}

	m.logger.Info("peer reconciliation complete",
		slog.Int("created", created),
		slog.Int("destroyed", destroyed),
	)

	return created, destroyed, err
}

// currentPeerConfigs returns the configuration of every active session.
func (m *Manager) currentPeerConfigs() map[netip.Addr]PeerConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[netip.Addr]PeerConfig, len(m.sessions))
	for addr, entry := range m.sessions {
		out[addr] = entry.session.cfg
	}

	return out
}

// peerConfigEqual compares the fields that require a session restart
// when changed. Filters compare by list name: a renamed or re-attached
// list restarts the session, while in-place rule edits take effect on
// the next advertisement without one.
func peerConfigEqual(a, b PeerConfig) bool {
	return a.PeerAddr == b.PeerAddr &&
		a.LocalAddr == b.LocalAddr &&
		a.RemoteAS == b.RemoteAS &&
		a.MeshGroup == b.MeshGroup &&
		a.FilterIn.Name() == b.FilterIn.Name() &&
		a.FilterOut.Name() == b.FilterOut.Name() &&
		a.SALimit == b.SALimit &&
		a.Shutdown == b.Shutdown &&
		a.KeepaliveInterval == b.KeepaliveInterval &&
		a.HoldTime == b.HoldTime &&
		a.ConnectRetryInterval == b.ConnectRetryInterval
}

// -------------------------------------------------------------------------
// Lifecycle
// -------------------------------------------------------------------------

// Close cancels all session goroutines and releases resources. After
// Close returns, no new peers can be created and the StateChanges
// channel should no longer be read.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for addr, entry := range m.sessions {
		entry.cancel()
		m.engine.DetachPeer(addr)
	}

	// Clear the map to prevent use-after-close.
	m.sessions = make(map[netip.Addr]*sessionEntry)

	m.logger.Info("manager closed")
}
