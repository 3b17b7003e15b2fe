// Package server implements the ConnectRPC server for the MSDP daemon.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"sort"

	"connectrpc.com/connect"

	"github.com/dantte-lp/gomsdp/internal/msdp"
	appversion "github.com/dantte-lp/gomsdp/internal/version"
	msdpv1 "github.com/dantte-lp/gomsdp/pkg/msdppb/msdp/v1"
	"github.com/dantte-lp/gomsdp/pkg/msdppb/msdp/v1/msdpv1connect"
)

// MSDPServer implements msdpv1connect.MsdpServiceHandler.
//
// Each RPC is a thin adapter between the Connect API and the internal
// domain: reads snapshot the peer Manager and the SA cache, the single
// control operation delegates to the engine.
type MSDPServer struct {
	manager *msdp.Manager
	engine  *msdp.Engine
	logger  *slog.Logger
}

// verify interface compliance at compile time.
var _ msdpv1connect.MsdpServiceHandler = (*MSDPServer)(nil)

// New creates a new MSDPServer and returns the HTTP handler and path.
func New(manager *msdp.Manager, engine *msdp.Engine, logger *slog.Logger, opts ...connect.HandlerOption) (string, http.Handler) {
	srv := &MSDPServer{
		manager: manager,
		engine:  engine,
		logger:  logger.With(slog.String("component", "server")),
	}
	return msdpv1connect.NewMsdpServiceHandler(srv, opts...)
}

// ListPeers returns every configured peer with its session state,
// sorted by peer address.
func (s *MSDPServer) ListPeers(ctx context.Context, _ *msdpv1.ListPeersRequest) (*msdpv1.ListPeersResponse, error) {
	snapshots := s.manager.Peers()
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].PeerAddr.Less(snapshots[j].PeerAddr)
	})

	resp := &msdpv1.ListPeersResponse{
		Peers: make([]*msdpv1.PeerStatus, 0, len(snapshots)),
	}
	for _, p := range snapshots {
		st := &msdpv1.PeerStatus{
			Peer:      p.PeerAddr.String(),
			Local:     p.LocalAddr.String(),
			State:     p.State.String(),
			Role:      p.Role.String(),
			RemoteAs:  p.RemoteAS,
			MeshGroup: p.MeshGroup,
			SaLimit:   uint32(p.SALimit),
			SaCount:   uint32(p.SACount),
		}
		if !p.EstablishedSince.IsZero() {
			st.EstablishedSince = p.EstablishedSince.Unix()
		}
		resp.Peers = append(resp.Peers, st)
	}

	return resp, nil
}

// ListSACache returns the Source-Active cache, sorted by group then
// source.
func (s *MSDPServer) ListSACache(ctx context.Context, _ *msdpv1.ListSACacheRequest) (*msdpv1.ListSACacheResponse, error) {
	entries := s.engine.Cache().Snapshot()
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Group != entries[j].Group {
			return entries[i].Group.Less(entries[j].Group)
		}
		return entries[i].Source.Less(entries[j].Source)
	})

	resp := &msdpv1.ListSACacheResponse{
		Entries: make([]*msdpv1.SAStatus, 0, len(entries)),
	}
	for i := range entries {
		resp.Entries = append(resp.Entries, saStatus(&entries[i]))
	}

	return resp, nil
}

// saStatus converts one cache entry to its wire shape. RP, Peer and
// SptSetup stay empty for locally originated entries.
func saStatus(e *msdp.CacheEntry) *msdpv1.SAStatus {
	st := &msdpv1.SAStatus{
		Source: e.Source.String(),
		Group:  e.Group.String(),
		Local:  e.Origin == msdp.OriginLocal,
	}
	if e.Origin == msdp.OriginRemote {
		st.Rp = e.RP.String()
		st.Peer = e.Peer.String()
		st.SptSetup = e.SPTSetup
	}
	return st
}

// ClearSACache flushes every remotely learned cache entry.
func (s *MSDPServer) ClearSACache(ctx context.Context, _ *msdpv1.ClearSACacheRequest) (*msdpv1.ClearSACacheResponse, error) {
	flushed, err := s.engine.FlushRemote(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "sa cache flush failed",
			slog.String("error", err.Error()),
		)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}

	return &msdpv1.ClearSACacheResponse{Flushed: int64(flushed)}, nil
}

// GetVersion returns daemon build information.
func (s *MSDPServer) GetVersion(ctx context.Context, _ *msdpv1.GetVersionRequest) (*msdpv1.GetVersionResponse, error) {
	return &msdpv1.GetVersionResponse{
		Version: appversion.Version,
		Commit:  appversion.GitCommit,
		Built:   appversion.BuildDate,
	}, nil
}
