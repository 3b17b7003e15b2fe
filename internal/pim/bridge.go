// Package pim bridges the MSDP engine to local PIM-SM state.
//
// The bridge keeps a receiver-interest registry (which multicast groups
// have local receivers, normally driven by IGMP/MLD group membership)
// and decides, per accepted remote Source-Active, whether a shortest-path
// tree join toward the source is worth requesting. Joined (S,G) pairs
// are tracked so withdrawals tear the state back down.
package pim

import (
	"log/slog"
	"net/netip"
	"sync"
)

// sgPair identifies one joined (source, group) flow.
type sgPair struct {
	source netip.Addr
	group  netip.Addr
}

// Bridge implements the MSDP engine's PIM-SM contract. Safe for
// concurrent use: the engine calls the SA announcements from its own
// goroutine while group interest changes arrive from the operator API
// or an IGMP listener.
type Bridge struct {
	mu sync.RWMutex

	// interest holds groups with at least one local receiver.
	interest map[netip.Addr]struct{}

	// joined holds flows with a requested SPT join.
	joined map[sgPair]struct{}

	logger *slog.Logger
}

// NewBridge creates a bridge with no receiver interest.
func NewBridge(logger *slog.Logger) *Bridge {
	return &Bridge{
		interest: make(map[netip.Addr]struct{}),
		joined:   make(map[sgPair]struct{}),
		logger:   logger.With(slog.String("component", "pim.bridge")),
	}
}

// RegisterInterest records local receiver interest in a group. Remote
// sources for the group accepted afterwards get SPT joins requested.
func (b *Bridge) RegisterInterest(group netip.Addr) {
	b.mu.Lock()
	b.interest[group] = struct{}{}
	b.mu.Unlock()

	b.logger.Debug("receiver interest registered", slog.String("group", group.String()))
}

// UnregisterInterest removes receiver interest in a group and drops all
// joins toward its sources.
func (b *Bridge) UnregisterInterest(group netip.Addr) {
	b.mu.Lock()
	delete(b.interest, group)
	for pair := range b.joined {
		if pair.group == group {
			delete(b.joined, pair)
		}
	}
	b.mu.Unlock()

	b.logger.Debug("receiver interest removed", slog.String("group", group.String()))
}

// HasInterest reports whether the group has local receivers.
func (b *Bridge) HasInterest(group netip.Addr) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, ok := b.interest[group]
	return ok
}

// Joined reports whether an SPT join is outstanding for the flow.
func (b *Bridge) Joined(source, group netip.Addr) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, ok := b.joined[sgPair{source: source, group: group}]
	return ok
}

// JoinCount returns the number of outstanding SPT joins.
func (b *Bridge) JoinCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.joined)
}

// RemoteSAAccepted decides whether to join the shortest-path tree for a
// newly learned remote source. A join is requested only when the group
// has local receivers; sources for quiet groups stay cached in MSDP but
// pull no traffic.
func (b *Bridge) RemoteSAAccepted(source, group, rp netip.Addr) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.interest[group]; !ok {
		return false
	}

	b.joined[sgPair{source: source, group: group}] = struct{}{}
	b.logger.Info("SPT join requested",
		slog.String("source", source.String()),
		slog.String("group", group.String()),
		slog.String("rp", rp.String()),
	)

	return true
}

// RemoteSAWithdrawn drops the SPT join for an expired or flushed remote
// entry.
func (b *Bridge) RemoteSAWithdrawn(source, group netip.Addr) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pair := sgPair{source: source, group: group}
	if _, ok := b.joined[pair]; !ok {
		return
	}
	delete(b.joined, pair)

	b.logger.Info("SPT join released",
		slog.String("source", source.String()),
		slog.String("group", group.String()),
	)
}
