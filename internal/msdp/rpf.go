package msdp

// Peer-RPF forwarding support (RFC 3618 Section 10). An SA learned from a
// peer is accepted only when that peer lies on the reverse path toward
// the advertisement's originating RP. The check used here is the AS-match
// rule: the origin AS of the best unicast route toward the RP must equal
// the configured AS of the sending peer. Mesh-group peers are exempt.
//
// The resolver behind the check is pluggable: a static table for tests
// and small deployments, or the GoBGP-backed resolver in internal/gobgp
// for live BGP state.

import (
	"context"
	"errors"
	"net/netip"
	"sort"
	"sync"
)

// ErrNoRoute indicates the resolver has no route toward the RP. The
// peer-RPF check fails closed: no route, no acceptance.
var ErrNoRoute = errors.New("no route toward RP")

// RPFResolver resolves the origin AS of the best unicast route toward an
// RP address. Implementations must be safe for concurrent use.
type RPFResolver interface {
	// OriginAS returns the origin AS of the best route covering rp.
	// Returns ErrNoRoute (possibly wrapped) when no route covers rp.
	OriginAS(ctx context.Context, rp netip.Addr) (uint32, error)
}

// StaticResolver is an RPFResolver over a fixed route table with
// longest-prefix-match semantics. Routes can be replaced at runtime
// (SIGHUP reload).
type StaticResolver struct {
	mu     sync.RWMutex
	routes []StaticRoute
}

// StaticRoute maps a unicast prefix to the origin AS of its best route.
type StaticRoute struct {
	Prefix   netip.Prefix
	OriginAS uint32
}

// NewStaticResolver builds a resolver from the given routes. The slice
// is copied and kept sorted by descending prefix length so the first
// match is the longest match.
func NewStaticResolver(routes []StaticRoute) *StaticResolver {
	r := &StaticResolver{}
	r.Replace(routes)
	return r
}

// Replace swaps the route table.
func (r *StaticResolver) Replace(routes []StaticRoute) {
	sorted := make([]StaticRoute, len(routes))
	copy(sorted, routes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Prefix.Bits() > sorted[j].Prefix.Bits()
	})

	r.mu.Lock()
	r.routes = sorted
	r.mu.Unlock()
}

// OriginAS implements RPFResolver.
func (r *StaticResolver) OriginAS(_ context.Context, rp netip.Addr) (uint32, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.routes {
		if r.routes[i].Prefix.Contains(rp) {
			return r.routes[i].OriginAS, nil
		}
	}

	return 0, ErrNoRoute
}
