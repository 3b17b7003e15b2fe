package msdp_test

import (
	"net/netip"
	"slices"
	"testing"

	"github.com/dantte-lp/gomsdp/internal/msdp"
)

// TestFSMTransitionTable verifies every transition in the MSDP peering
// FSM table against the state machine in RFC 3618 Section 11, for both
// connection roles.
func TestFSMTransitionTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		role        msdp.Role
		state       msdp.State
		event       msdp.Event
		wantState   msdp.State
		wantChanged bool
		wantActions []msdp.Action
	}{
		// =============================================================
		// Inactive state (administratively disabled)
		// =============================================================
		{
			name:        "active Inactive+Enable->Connecting",
			role:        msdp.RoleActive,
			state:       msdp.StateInactive,
			event:       msdp.EventEnable,
			wantState:   msdp.StateConnecting,
			wantChanged: true,
			wantActions: []msdp.Action{msdp.ActionStartConnect},
		},
		{
			name:        "passive Inactive+Enable->Listen",
			role:        msdp.RolePassive,
			state:       msdp.StateInactive,
			event:       msdp.EventEnable,
			wantState:   msdp.StateListen,
			wantChanged: true,
			wantActions: []msdp.Action{msdp.ActionAwaitAccept},
		},
		{
			name:        "Inactive ignores connection events",
			role:        msdp.RoleActive,
			state:       msdp.StateInactive,
			event:       msdp.EventTCPEstablished,
			wantState:   msdp.StateInactive,
			wantChanged: false,
			wantActions: nil,
		},

		// =============================================================
		// Connecting state (active side)
		// =============================================================
		{
			name:        "Connecting+TCPEstablished->Established",
			role:        msdp.RoleActive,
			state:       msdp.StateConnecting,
			event:       msdp.EventTCPEstablished,
			wantState:   msdp.StateEstablished,
			wantChanged: true,
			wantActions: []msdp.Action{msdp.ActionStartTimers, msdp.ActionNotifyUp},
		},
		{
			name:        "Connecting+ConnectFail self-loop",
			role:        msdp.RoleActive,
			state:       msdp.StateConnecting,
			event:       msdp.EventConnectFail,
			wantState:   msdp.StateConnecting,
			wantChanged: false,
			wantActions: nil,
		},
		{
			name:        "Connecting+Disable->Inactive",
			role:        msdp.RoleActive,
			state:       msdp.StateConnecting,
			event:       msdp.EventDisable,
			wantState:   msdp.StateInactive,
			wantChanged: true,
			wantActions: []msdp.Action{msdp.ActionCloseConn},
		},

		// =============================================================
		// Listen state (passive side)
		// =============================================================
		{
			name:        "Listen+TCPEstablished->Established",
			role:        msdp.RolePassive,
			state:       msdp.StateListen,
			event:       msdp.EventTCPEstablished,
			wantState:   msdp.StateEstablished,
			wantChanged: true,
			wantActions: []msdp.Action{msdp.ActionStartTimers, msdp.ActionNotifyUp},
		},
		{
			name:        "Listen+Disable->Inactive",
			role:        msdp.RolePassive,
			state:       msdp.StateListen,
			event:       msdp.EventDisable,
			wantState:   msdp.StateInactive,
			wantChanged: true,
			wantActions: []msdp.Action{msdp.ActionCloseConn},
		},
		{
			name:        "Listen ignores hold expiry",
			role:        msdp.RolePassive,
			state:       msdp.StateListen,
			event:       msdp.EventHoldExpired,
			wantState:   msdp.StateListen,
			wantChanged: false,
			wantActions: nil,
		},

		// =============================================================
		// Established state — teardown restarts per role
		// =============================================================
		{
			name:        "active Established+HoldExpired->Connecting",
			role:        msdp.RoleActive,
			state:       msdp.StateEstablished,
			event:       msdp.EventHoldExpired,
			wantState:   msdp.StateConnecting,
			wantChanged: true,
			wantActions: []msdp.Action{
				msdp.ActionCloseConn, msdp.ActionNotifyDown, msdp.ActionStartConnect,
			},
		},
		{
			name:        "passive Established+HoldExpired->Listen",
			role:        msdp.RolePassive,
			state:       msdp.StateEstablished,
			event:       msdp.EventHoldExpired,
			wantState:   msdp.StateListen,
			wantChanged: true,
			wantActions: []msdp.Action{
				msdp.ActionCloseConn, msdp.ActionNotifyDown, msdp.ActionAwaitAccept,
			},
		},
		{
			name:        "active Established+ConnClosed->Connecting",
			role:        msdp.RoleActive,
			state:       msdp.StateEstablished,
			event:       msdp.EventConnClosed,
			wantState:   msdp.StateConnecting,
			wantChanged: true,
			wantActions: []msdp.Action{
				msdp.ActionCloseConn, msdp.ActionNotifyDown, msdp.ActionStartConnect,
			},
		},
		{
			name:        "passive Established+ConnClosed->Listen",
			role:        msdp.RolePassive,
			state:       msdp.StateEstablished,
			event:       msdp.EventConnClosed,
			wantState:   msdp.StateListen,
			wantChanged: true,
			wantActions: []msdp.Action{
				msdp.ActionCloseConn, msdp.ActionNotifyDown, msdp.ActionAwaitAccept,
			},
		},
		{
			name:        "active Established+ProtocolError->Connecting",
			role:        msdp.RoleActive,
			state:       msdp.StateEstablished,
			event:       msdp.EventProtocolError,
			wantState:   msdp.StateConnecting,
			wantChanged: true,
			wantActions: []msdp.Action{
				msdp.ActionCloseConn, msdp.ActionNotifyDown, msdp.ActionStartConnect,
			},
		},
		{
			name:        "passive Established+ProtocolError->Listen",
			role:        msdp.RolePassive,
			state:       msdp.StateEstablished,
			event:       msdp.EventProtocolError,
			wantState:   msdp.StateListen,
			wantChanged: true,
			wantActions: []msdp.Action{
				msdp.ActionCloseConn, msdp.ActionNotifyDown, msdp.ActionAwaitAccept,
			},
		},
		{
			name:        "active Established+Disable->Inactive",
			role:        msdp.RoleActive,
			state:       msdp.StateEstablished,
			event:       msdp.EventDisable,
			wantState:   msdp.StateInactive,
			wantChanged: true,
			wantActions: []msdp.Action{msdp.ActionCloseConn, msdp.ActionNotifyDown},
		},
		{
			name:        "passive Established+Disable->Inactive",
			role:        msdp.RolePassive,
			state:       msdp.StateEstablished,
			event:       msdp.EventDisable,
			wantState:   msdp.StateInactive,
			wantChanged: true,
			wantActions: []msdp.Action{msdp.ActionCloseConn, msdp.ActionNotifyDown},
		},
		{
			name:        "Established ignores Enable",
			role:        msdp.RoleActive,
			state:       msdp.StateEstablished,
			event:       msdp.EventEnable,
			wantState:   msdp.StateEstablished,
			wantChanged: false,
			wantActions: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := msdp.ApplyEvent(tt.role, tt.state, tt.event)

			if result.OldState != tt.state {
				t.Errorf("OldState: got %s, want %s", result.OldState, tt.state)
			}
			if result.NewState != tt.wantState {
				t.Errorf("NewState: got %s, want %s", result.NewState, tt.wantState)
			}
			if result.Changed != tt.wantChanged {
				t.Errorf("Changed: got %t, want %t", result.Changed, tt.wantChanged)
			}
			if !slices.Equal(result.Actions, tt.wantActions) {
				t.Errorf("Actions: got %v, want %v", result.Actions, tt.wantActions)
			}
		})
	}
}

// TestRoleFor verifies the RFC 3618 Section 11 role rule: the side with
// the numerically higher address opens the connection.
func TestRoleFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		local string
		peer  string
		want  msdp.Role
	}{
		{
			name:  "higher local is active",
			local: "10.0.0.2",
			peer:  "10.0.0.1",
			want:  msdp.RoleActive,
		},
		{
			name:  "lower local is passive",
			local: "10.0.0.1",
			peer:  "10.0.0.2",
			want:  msdp.RolePassive,
		},
		{
			name:  "last octet decides",
			local: "192.0.2.255",
			peer:  "192.0.2.254",
			want:  msdp.RoleActive,
		},
		{
			name:  "first octet dominates",
			local: "9.255.255.255",
			peer:  "10.0.0.0",
			want:  msdp.RolePassive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			local := netip.MustParseAddr(tt.local)
			peer := netip.MustParseAddr(tt.peer)

			if got := msdp.RoleFor(local, peer); got != tt.want {
				t.Errorf("RoleFor(%s, %s): got %s, want %s", local, peer, got, tt.want)
			}
		})
	}
}

// TestStateString verifies the lowercase state names used in status views
// and state-change log lines.
func TestStateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state msdp.State
		want  string
	}{
		{msdp.StateInactive, "inactive"},
		{msdp.StateListen, "listen"},
		{msdp.StateConnecting, "connecting"},
		{msdp.StateEstablished, "established"},
		{msdp.State(42), "Unknown(42)"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String(): got %q, want %q", uint8(tt.state), got, tt.want)
		}
	}
}
