package msdp_test

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/dantte-lp/gomsdp/internal/msdp"
)

// startManager builds a manager over a running engine and starts its
// notification dispatch.
func startManager(t *testing.T) *msdp.Manager {
	t.Helper()

	e := startEngine(t, msdp.EngineConfig{}, nil, nil)
	m := msdp.NewManager(e, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.RunDispatch(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		m.Close()
		cancel()
		<-done
	})

	return m
}

func managerPeerConfig(peer string) msdp.PeerConfig {
	return msdp.PeerConfig{
		PeerAddr:  netip.MustParseAddr(peer),
		LocalAddr: netip.MustParseAddr("10.0.0.1"),
		MeshGroup: "dc1",
	}
}

// -------------------------------------------------------------------------
// TestManagerCreateDestroy
// -------------------------------------------------------------------------

func TestManagerCreateDestroy(t *testing.T) {
	t.Parallel()

	m := startManager(t)
	ctx := context.Background()

	sess, err := m.CreatePeer(ctx, managerPeerConfig("10.0.0.2"))
	if err != nil {
		t.Fatalf("CreatePeer: %v", err)
	}
	if sess.PeerAddr() != netip.MustParseAddr("10.0.0.2") {
		t.Errorf("PeerAddr: got %s", sess.PeerAddr())
	}

	// Duplicate address is refused.
	if _, err := m.CreatePeer(ctx, managerPeerConfig("10.0.0.2")); !errors.Is(err, msdp.ErrDuplicatePeer) {
		t.Errorf("duplicate CreatePeer: got %v, want ErrDuplicatePeer", err)
	}

	// Invalid config is refused before registration.
	bad := managerPeerConfig("10.0.0.3")
	bad.MeshGroup = ""
	if _, err := m.CreatePeer(ctx, bad); !errors.Is(err, msdp.ErrMissingPeerAS) {
		t.Errorf("invalid CreatePeer: got %v, want ErrMissingPeerAS", err)
	}

	if got, ok := m.LookupPeer(netip.MustParseAddr("10.0.0.2")); !ok || got != sess {
		t.Error("LookupPeer did not return the created session")
	}

	if err := m.DestroyPeer(netip.MustParseAddr("10.0.0.2")); err != nil {
		t.Fatalf("DestroyPeer: %v", err)
	}
	if err := m.DestroyPeer(netip.MustParseAddr("10.0.0.2")); !errors.Is(err, msdp.ErrPeerNotFound) {
		t.Errorf("repeat DestroyPeer: got %v, want ErrPeerNotFound", err)
	}
	if _, ok := m.LookupPeer(netip.MustParseAddr("10.0.0.2")); ok {
		t.Error("LookupPeer found a destroyed session")
	}
}

// -------------------------------------------------------------------------
// TestManagerPeersSnapshot
// -------------------------------------------------------------------------

func TestManagerPeersSnapshot(t *testing.T) {
	t.Parallel()

	m := startManager(t)
	ctx := context.Background()

	cfg := managerPeerConfig("10.0.0.2")
	cfg.SALimit = 4
	if _, err := m.CreatePeer(ctx, cfg); err != nil {
		t.Fatalf("CreatePeer: %v", err)
	}
	if _, err := m.CreatePeer(ctx, managerPeerConfig("10.0.0.3")); err != nil {
		t.Fatalf("CreatePeer: %v", err)
	}

	snaps := m.Peers()
	if len(snaps) != 2 {
		t.Fatalf("Peers: got %d snapshots, want 2", len(snaps))
	}

	for _, snap := range snaps {
		if snap.Role != msdp.RolePassive {
			t.Errorf("peer %s role: got %s, want passive", snap.PeerAddr, snap.Role)
		}
		if snap.MeshGroup != "dc1" {
			t.Errorf("peer %s mesh group: got %q, want dc1", snap.PeerAddr, snap.MeshGroup)
		}
		if snap.PeerAddr == netip.MustParseAddr("10.0.0.2") && snap.SALimit != 4 {
			t.Errorf("peer %s SALimit: got %d, want 4", snap.PeerAddr, snap.SALimit)
		}
	}
}

// -------------------------------------------------------------------------
// TestManagerStateChanges — dispatch fan-out
// -------------------------------------------------------------------------

func TestManagerStateChanges(t *testing.T) {
	t.Parallel()

	m := startManager(t)

	if _, err := m.CreatePeer(context.Background(), managerPeerConfig("10.0.0.2")); err != nil {
		t.Fatalf("CreatePeer: %v", err)
	}

	// The enable transition (inactive->listen) reaches the public
	// channel through RunDispatch.
	select {
	case sc := <-m.StateChanges():
		if sc.PeerAddr != netip.MustParseAddr("10.0.0.2") {
			t.Errorf("PeerAddr: got %s, want 10.0.0.2", sc.PeerAddr)
		}
		if sc.NewState != msdp.StateListen {
			t.Errorf("NewState: got %s, want listen", sc.NewState)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no state change dispatched")
	}
}

// -------------------------------------------------------------------------
// TestManagerReconcilePeers — SIGHUP reload diff
// -------------------------------------------------------------------------

func TestManagerReconcilePeers(t *testing.T) {
	t.Parallel()

	m := startManager(t)
	ctx := context.Background()

	// Initial set: two peers.
	created, destroyed, err := m.ReconcilePeers(ctx, []msdp.PeerConfig{
		managerPeerConfig("10.0.0.2"),
		managerPeerConfig("10.0.0.3"),
	})
	if err != nil {
		t.Fatalf("ReconcilePeers: %v", err)
	}
	if created != 2 || destroyed != 0 {
		t.Fatalf("initial reconcile: created %d destroyed %d, want 2/0", created, destroyed)
	}

	// Unchanged reconcile is a no-op.
	created, destroyed, err = m.ReconcilePeers(ctx, []msdp.PeerConfig{
		managerPeerConfig("10.0.0.2"),
		managerPeerConfig("10.0.0.3"),
	})
	if err != nil {
		t.Fatalf("ReconcilePeers: %v", err)
	}
	if created != 0 || destroyed != 0 {
		t.Errorf("no-op reconcile: created %d destroyed %d, want 0/0", created, destroyed)
	}

	// Drop .3, add .4, change .2 (SA limit). The changed peer is
	// destroyed and re-created.
	changed := managerPeerConfig("10.0.0.2")
	changed.SALimit = 10
	created, destroyed, err = m.ReconcilePeers(ctx, []msdp.PeerConfig{
		changed,
		managerPeerConfig("10.0.0.4"),
	})
	if err != nil {
		t.Fatalf("ReconcilePeers: %v", err)
	}
	if created != 2 || destroyed != 2 {
		t.Errorf("mutating reconcile: created %d destroyed %d, want 2/2", created, destroyed)
	}

	snaps := m.Peers()
	if len(snaps) != 2 {
		t.Fatalf("Peers after reconcile: got %d, want 2", len(snaps))
	}
	for _, snap := range snaps {
		switch snap.PeerAddr {
		case netip.MustParseAddr("10.0.0.2"):
			if snap.SALimit != 10 {
				t.Errorf("reconfigured peer SALimit: got %d, want 10", snap.SALimit)
			}
		case netip.MustParseAddr("10.0.0.4"):
		default:
			t.Errorf("unexpected peer %s after reconcile", snap.PeerAddr)
		}
	}

	// Empty desired set removes everything.
	created, destroyed, err = m.ReconcilePeers(ctx, nil)
	if err != nil {
		t.Fatalf("ReconcilePeers: %v", err)
	}
	if created != 0 || destroyed != 2 {
		t.Errorf("teardown reconcile: created %d destroyed %d, want 0/2", created, destroyed)
	}
	if len(m.Peers()) != 0 {
		t.Errorf("Peers after teardown: got %d, want 0", len(m.Peers()))
	}
}

// -------------------------------------------------------------------------
// TestManagerListenerRouting — inbound connections reach their session
// -------------------------------------------------------------------------

func TestManagerListenerRouting(t *testing.T) {
	t.Parallel()

	m := startManager(t)

	// A loopback peer so a real dial lands on the session. The local
	// address is lower, keeping the session passive.
	cfg := msdp.PeerConfig{
		PeerAddr:  netip.MustParseAddr("127.0.0.1"),
		LocalAddr: netip.MustParseAddr("10.0.0.1"),
		MeshGroup: "dc1",
	}
	sess, err := m.CreatePeer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("CreatePeer: %v", err)
	}
	waitUntil(t, func() bool { return sess.State() == msdp.StateListen }, "session listening")

	// Listener on an ephemeral port; the well-known port needs
	// privileges the tests do not have.
	ctx, cancel := context.WithCancel(context.Background())
	lnDone := make(chan struct{})

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	go func() {
		if lErr := m.RunListener(ctx, addr); lErr != nil {
			t.Errorf("RunListener: %v", lErr)
		}
		close(lnDone)
	}()
	t.Cleanup(func() {
		cancel()
		<-lnDone
	})

	// Dialing from 127.0.0.1 routes the connection to the session.
	var conn net.Conn
	waitUntil(t, func() bool {
		conn, err = net.Dial("tcp4", addr)
		return err == nil
	}, "listener accepting")
	t.Cleanup(func() { conn.Close() })

	waitUntil(t, func() bool { return sess.State() == msdp.StateEstablished }, "session established via listener")

	// A second connection while established is refused and closed.
	second, err := net.Dial("tcp4", addr)
	if err != nil {
		t.Fatalf("second dial: %v", err)
	}
	defer second.Close()

	buf := make([]byte, 1)
	if err := second.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline: %v", err)
	}
	if _, err := second.Read(buf); err == nil {
		t.Error("second connection: read succeeded, want closed")
	}
}
