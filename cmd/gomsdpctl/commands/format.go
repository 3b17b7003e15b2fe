// Package commands implements the gomsdpctl CLI commands.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	msdpv1 "github.com/dantte-lp/gomsdp/pkg/msdppb/msdp/v1"
)

const (
	formatJSON  = "json"
	formatTable = "table"
	valueNone   = "-"
)

// errUnsupportedFormat is returned when the requested output format is not supported.
var errUnsupportedFormat = errors.New("unsupported output format")

// formatPeers renders the peer view in the requested format.
func formatPeers(peers []*msdpv1.PeerStatus, format string) (string, error) {
	switch format {
	case formatJSON:
		return formatPeersJSON(peers)
	case formatTable:
		return formatPeersTable(peers)
	default:
		return "", fmt.Errorf("%w: %q", errUnsupportedFormat, format)
	}
}

// formatSACache renders the Source-Active cache view in the requested
// format.
func formatSACache(entries []*msdpv1.SAStatus, format string) (string, error) {
	switch format {
	case formatJSON:
		return formatSACacheJSON(entries)
	case formatTable:
		return formatSACacheTable(entries)
	default:
		return "", fmt.Errorf("%w: %q", errUnsupportedFormat, format)
	}
}

// --- Table formatters ---

func formatPeersTable(peers []*msdpv1.PeerStatus) (string, error) {
	var buf strings.Builder
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PEER\tLOCAL\tSTATE\tROLE\tAS\tMESH-GROUP\tSA-COUNT\tUPTIME")

	for _, p := range peers {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			p.GetPeer(),
			p.GetLocal(),
			p.GetState(),
			p.GetRole(),
			p.GetRemoteAs(),
			orNone(p.GetMeshGroup()),
			formatSACount(p),
			formatUptime(p.GetEstablishedSince()),
		)
	}

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("flush tabwriter: %w", err)
	}

	return buf.String(), nil
}

func formatSACacheTable(entries []*msdpv1.SAStatus) (string, error) {
	var buf strings.Builder
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tGROUP\tRP\tPEER\tLOCAL\tSPT-SETUP")

	for _, e := range entries {
		local, sptSetup := "no", valueNone
		if e.GetLocal() {
			// Local entries have no SPT join decision to report.
			local = "yes"
		} else {
			sptSetup = "no"
			if e.GetSptSetup() {
				sptSetup = "yes"
			}
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.GetSource(),
			e.GetGroup(),
			orNone(e.GetRp()),
			orNone(e.GetPeer()),
			local,
			sptSetup,
		)
	}

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("flush tabwriter: %w", err)
	}

	return buf.String(), nil
}

// formatSACount renders the entry count, with the configured limit when
// one is set.
func formatSACount(p *msdpv1.PeerStatus) string {
	if p.GetSaLimit() > 0 {
		return fmt.Sprintf("%d/%d", p.GetSaCount(), p.GetSaLimit())
	}
	return fmt.Sprintf("%d", p.GetSaCount())
}

// formatUptime renders the time since the session last reached
// Established, or "-" for a session that never did.
func formatUptime(since int64) string {
	if since == 0 {
		return valueNone
	}
	return time.Since(time.Unix(since, 0)).Truncate(time.Second).String()
}

func orNone(s string) string {
	if s == "" {
		return valueNone
	}
	return s
}

// --- JSON formatters ---

func formatPeersJSON(peers []*msdpv1.PeerStatus) (string, error) {
	data, err := json.MarshalIndent(peersToView(peers), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal peers to JSON: %w", err)
	}

	return string(data) + "\n", nil
}

func formatSACacheJSON(entries []*msdpv1.SAStatus) (string, error) {
	data, err := json.MarshalIndent(saCacheToView(entries), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal sa cache to JSON: %w", err)
	}

	return string(data) + "\n", nil
}

// --- View types for clean JSON output ---

type peerView struct {
	Peer             string `json:"peer"`
	Local            string `json:"local"`
	State            string `json:"state"`
	Role             string `json:"role"`
	RemoteAS         uint32 `json:"remote_as"`
	MeshGroup        string `json:"mesh_group,omitempty"`
	SALimit          uint32 `json:"sa_limit,omitempty"`
	SACount          uint32 `json:"sa_count"`
	EstablishedSince string `json:"established_since,omitempty"`
}

type saView struct {
	Source   string `json:"source"`
	Group    string `json:"group"`
	RP       string `json:"rp,omitempty"`
	Peer     string `json:"peer,omitempty"`
	Local    bool   `json:"local"`
	SPTSetup bool   `json:"spt_setup"`
}

// peersToView keys peers by address, matching the operator's mental
// model of per-peer configuration.
func peersToView(peers []*msdpv1.PeerStatus) map[string]*peerView {
	out := make(map[string]*peerView, len(peers))
	for _, p := range peers {
		v := &peerView{
			Peer:      p.GetPeer(),
			Local:     p.GetLocal(),
			State:     p.GetState(),
			Role:      p.GetRole(),
			RemoteAS:  p.GetRemoteAs(),
			MeshGroup: p.GetMeshGroup(),
			SALimit:   p.GetSaLimit(),
			SACount:   p.GetSaCount(),
		}
		if since := p.GetEstablishedSince(); since != 0 {
			v.EstablishedSince = time.Unix(since, 0).UTC().Format(time.RFC3339)
		}
		out[p.GetPeer()] = v
	}
	return out
}

// saCacheToView groups entries by group address, then source, matching
// the (S,G) notation used everywhere else in multicast tooling.
func saCacheToView(entries []*msdpv1.SAStatus) map[string]map[string]*saView {
	out := make(map[string]map[string]*saView)
	for _, e := range entries {
		group := e.GetGroup()
		if out[group] == nil {
			out[group] = make(map[string]*saView)
		}
		out[group][e.GetSource()] = &saView{
			Source:   e.GetSource(),
			Group:    group,
			RP:       e.GetRp(),
			Peer:     e.GetPeer(),
			Local:    e.GetLocal(),
			SPTSetup: e.GetSptSetup(),
		}
	}
	return out
}
