// Package gobgp integrates the MSDP daemon with GoBGP via its gRPC API.
//
// The peer-RPF check needs the origin AS of the best unicast route
// toward an advertisement's RP. This package resolves those lookups
// against a running GoBGP instance's global RIB.
package gobgp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/netip"
	"sync"

	apipb "github.com/osrg/gobgp/v3/api"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/dantte-lp/gomsdp/internal/msdp"
)

// -------------------------------------------------------------------------
// Sentinel Errors
// -------------------------------------------------------------------------

var (
	// ErrDialFailed indicates the gRPC client to GoBGP could not be
	// created.
	ErrDialFailed = errors.New("gobgp gRPC dial failed")

	// ErrResolverClosed indicates the resolver has been closed.
	ErrResolverClosed = errors.New("gobgp resolver is closed")

	// ErrNoOriginAS indicates the best route toward the RP carries an
	// empty AS path, so no origin AS can be extracted. Locally
	// originated and iBGP-internal routes look like this.
	ErrNoOriginAS = errors.New("best route has no origin AS")
)

// -------------------------------------------------------------------------
// Resolver — GoBGP-backed origin-AS lookup
// -------------------------------------------------------------------------

// Resolver answers origin-AS queries for the peer-RPF check from a
// running GoBGP instance's global RIB, via gRPC.
//
// For each query the resolver lists all global-RIB routes covering the
// RP address, picks the longest-match destination that has a best path,
// and extracts the origin AS (the last AS of the AS_PATH) from that
// path. The underlying gRPC connection uses insecure credentials;
// GoBGP's API is typically accessed on localhost.
type Resolver struct {
	conn   *grpc.ClientConn
	api    apipb.GobgpApiClient
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// ResolverConfig holds connection parameters for the GoBGP gRPC API.
type ResolverConfig struct {
	// Addr is the GoBGP gRPC listen address (e.g., "127.0.0.1:50051").
	Addr string
}

// NewResolver creates a GoBGP-backed resolver. The connection is lazy
// (grpc.NewClient does not block); connectivity is verified on the
// first query.
func NewResolver(cfg ResolverConfig, logger *slog.Logger) (*Resolver, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("create gobgp resolver: %w", ErrDialFailed)
	}

	conn, err := grpc.NewClient(
		cfg.Addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("create gobgp resolver to %s: %w: %w", cfg.Addr, ErrDialFailed, err)
	}

	r := &Resolver{
		conn: conn,
		api:  apipb.NewGobgpApiClient(conn),
		logger: logger.With(
			slog.String("component", "gobgp.resolver"),
			slog.String("addr", cfg.Addr),
		),
	}

	r.logger.Info("gobgp resolver created")

	return r, nil
}

// OriginAS returns the origin AS of the best global-RIB route covering
// rp. Returns an error wrapping the lookup failure when GoBGP is
// unreachable, and ErrNoOriginAS when the best route has an empty
// AS path; the caller's peer-RPF check fails closed either way.
func (r *Resolver) OriginAS(ctx context.Context, rp netip.Addr) (uint32, error) {
	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return 0, fmt.Errorf("origin AS for %s: %w", rp, ErrResolverClosed)
	}
	api := r.api
	r.mu.RUnlock()

	stream, err := api.ListPath(ctx, &apipb.ListPathRequest{
		TableType: apipb.TableType_GLOBAL,
		Family: &apipb.Family{
			Afi:  apipb.Family_AFI_IP,
			Safi: apipb.Family_SAFI_UNICAST,
		},
		Prefixes: []*apipb.TableLookupPrefix{
			{
				// SHORTER returns every covering prefix; the
				// longest match is selected below.
				Prefix: netip.PrefixFrom(rp, rp.BitLen()).String(),
				Type:   apipb.TableLookupPrefix_SHORTER,
			},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("origin AS for %s: list path: %w", rp, err)
	}

	best, bestBits, found, err := drainBestPaths(stream)
	if err != nil {
		return 0, fmt.Errorf("origin AS for %s: %w", rp, err)
	}
	if !found {
		return 0, fmt.Errorf("origin AS for %s: %w", rp, msdp.ErrNoRoute)
	}

	origin, ok := pathOriginAS(best)
	if !ok {
		return 0, fmt.Errorf("origin AS for %s (match /%d): %w", rp, bestBits, ErrNoOriginAS)
	}

	return origin, nil
}

// drainBestPaths consumes a ListPath stream and returns the best path of
// the longest-prefix destination.
func drainBestPaths(stream apipb.GobgpApi_ListPathClient) (*apipb.Path, int, bool, error) {
	var (
		best     *apipb.Path
		bestBits = -1
		found    bool
	)

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, false, fmt.Errorf("receive path: %w", err)
		}

		dst := resp.GetDestination()
		if dst == nil {
			continue
		}
		prefix, err := netip.ParsePrefix(dst.GetPrefix())
		if err != nil || prefix.Bits() <= bestBits {
			continue
		}

		for _, p := range dst.GetPaths() {
			if p.GetBest() {
				best = p
				bestBits = prefix.Bits()
				found = true
				break
			}
		}
	}

	return best, bestBits, found, nil
}

// pathOriginAS extracts the rightmost AS of the path's AS_PATH.
func pathOriginAS(path *apipb.Path) (uint32, bool) {
	for _, attr := range path.GetPattrs() {
		m, err := attr.UnmarshalNew()
		if err != nil {
			continue
		}
		asPath, ok := m.(*apipb.AsPathAttribute)
		if !ok {
			continue
		}

		segments := asPath.GetSegments()
		for i := len(segments) - 1; i >= 0; i-- {
			numbers := segments[i].GetNumbers()
			if len(numbers) > 0 {
				return numbers[len(numbers)-1], true
			}
		}
	}

	return 0, false
}

// Close releases the gRPC connection. After Close, OriginAS returns
// ErrResolverClosed.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if err := r.conn.Close(); err != nil {
		return fmt.Errorf("close gobgp resolver: %w", err)
	}

	r.logger.Info("gobgp resolver closed")

	return nil
}
