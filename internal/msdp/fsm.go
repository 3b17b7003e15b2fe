package msdp

// This file implements the MSDP peering state machine (RFC 3618 Section 11).
// The FSM is implemented as a pure function over a transition table -- no
// side effects, no Session dependency. This makes it trivially testable and
// auditable against the RFC event list.
//
// Connection roles (RFC 3618 Section 11): the peer with the HIGHER address
// actively opens the TCP connection; the peer with the lower address
// listens. The role therefore selects both the state entered on enable and
// the state a torn-down session restarts into:
//
//	           Enable                    TCP up
//	 INACTIVE --------> CONNECTING|LISTEN -------> ESTABLISHED
//	     ^                  ^                          |
//	     |    Disable       |   hold expiry, TCP loss, |
//	     +------------------+---- TLV format error ----+

import (
	"fmt"
	"net/netip"
)

// -------------------------------------------------------------------------
// Session State — RFC 3618 Section 11
// -------------------------------------------------------------------------

// State represents the MSDP peering session state (RFC 3618 Section 11).
type State uint8

const (
	// StateInactive indicates the peer is administratively disabled.
	// No connection attempts are made and inbound connections are
	// refused (RFC 3618 Section 11, DISABLED/INACTIVE).
	StateInactive State = 0

	// StateListen indicates the passive side is waiting for the peer to
	// open the TCP connection (RFC 3618 Section 11, LISTEN).
	StateListen State = 1

	// StateConnecting indicates the active side is attempting to open
	// the TCP connection (RFC 3618 Section 11, CONNECTING).
	StateConnecting State = 2

	// StateEstablished indicates the TCP connection is up and TLVs are
	// being exchanged (RFC 3618 Section 11, ESTABLISHED).
	StateEstablished State = 3
)

// stateNames maps state values to the lowercase names exposed in peer
// status views and state-change log lines.
var stateNames = [4]string{
	"inactive",
	"listen",
	"connecting",
	"established",
}

// String returns the lowercase name for the session state.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf(unknownFmt, uint8(s))
}

// -------------------------------------------------------------------------
// Connection Role — RFC 3618 Section 11
// -------------------------------------------------------------------------

// Role determines which side opens the peering TCP connection.
type Role uint8

const (
	// RolePassive listens for the peer to connect. Taken by the side
	// with the lower address (RFC 3618 Section 11).
	RolePassive Role = 0

	// RoleActive opens the connection. Taken by the side with the
	// higher address (RFC 3618 Section 11).
	RoleActive Role = 1
)

// String returns the human-readable name of the connection role.
func (r Role) String() string {
	switch r {
	case RolePassive:
		return "passive"
	case RoleActive:
		return "active"
	default:
		return fmt.Sprintf(unknownFmt, uint8(r))
	}
}

// restartState returns the state a session enters when enabled or when an
// established connection is torn down non-administratively.
func (r Role) restartState() State {
	if r == RoleActive {
		return StateConnecting
	}
	return StateListen
}

// -------------------------------------------------------------------------
// Events and Actions
// -------------------------------------------------------------------------

// Event represents an MSDP FSM event (RFC 3618 Section 11).
type Event uint8

const (
	// EventEnable is the administrative action enabling the peer.
	EventEnable Event = iota

	// EventDisable is the administrative action disabling the peer
	// (peer or global shutdown).
	EventDisable

	// EventTCPEstablished is the event for the peering TCP connection
	// coming up: the active side's connect succeeded, or the passive
	// side accepted an inbound connection from the peer address.
	EventTCPEstablished

	// EventConnectFail is the event for a failed active connect attempt.
	// The session stays in Connecting and retries after backoff.
	EventConnectFail

	// EventHoldExpired is the event for the hold timer expiring without
	// any TLV received (RFC 3618 Section 11: KEEPALIVE timer on the
	// remote side has been missed past the hold time).
	EventHoldExpired

	// EventConnClosed is the event for the TCP connection failing or
	// being closed by the peer.
	EventConnClosed

	// EventProtocolError is the event for a TLV framing or format error
	// on the established connection (RFC 3618 Section 11: such errors
	// reset the connection).
	EventProtocolError
)

// String returns the human-readable name of the event.
func (e Event) String() string {
	switch e {
	case EventEnable:
		return "Enable"
	case EventDisable:
		return "Disable"
	case EventTCPEstablished:
		return "TCPEstablished"
	case EventConnectFail:
		return "ConnectFail"
	case EventHoldExpired:
		return "HoldExpired"
	case EventConnClosed:
		return "ConnClosed"
	case EventProtocolError:
		return "ProtocolError"
	default:
		return "Unknown"
	}
}

// Action represents a side-effect to execute after an FSM transition.
// Actions are returned as part of FSMResult and executed by the caller
// (typically Session.applyEvent). The FSM itself is a pure function.
type Action uint8

const (
	// ActionStartConnect starts the active-side dial loop with backoff.
	ActionStartConnect Action = iota + 1

	// ActionAwaitAccept arms the passive side to accept the next inbound
	// connection from the peer address.
	ActionAwaitAccept

	// ActionCloseConn closes the peering TCP connection and stops the
	// keepalive and hold timers.
	ActionCloseConn

	// ActionStartTimers starts the keepalive and hold timers for a newly
	// established connection.
	ActionStartTimers

	// ActionNotifyUp signals consumers that the session reached
	// Established.
	ActionNotifyUp

	// ActionNotifyDown signals consumers that the session left
	// Established.
	ActionNotifyDown
)

// String returns the human-readable name of the action.
func (a Action) String() string {
	switch a {
	case ActionStartConnect:
		return "StartConnect"
	case ActionAwaitAccept:
		return "AwaitAccept"
	case ActionCloseConn:
		return "CloseConn"
	case ActionStartTimers:
		return "StartTimers"
	case ActionNotifyUp:
		return "NotifyUp"
	case ActionNotifyDown:
		return "NotifyDown"
	default:
		return "Unknown"
	}
}

// -------------------------------------------------------------------------
// Transition Table — RFC 3618 Section 11
// -------------------------------------------------------------------------

// stateEvent is the FSM transition table key: connection role + current
// state + incoming event. The role is part of the key because teardown
// and enable transitions land in different states per side.
type stateEvent struct {
	role  Role
	state State
	event Event
}

// transition describes the target state and side-effects for a single
// FSM transition.
type transition struct {
	newState State
	actions  []Action
}

// FSMResult holds the outcome of applying an event to the FSM.
// The caller inspects Changed to decide whether state-change processing
// (logging, metrics, notifications) is needed.
type FSMResult struct {
	// OldState is the state before the event was applied.
	OldState State

	// NewState is the state after the event was applied.
	// Equal to OldState when the event is ignored or a self-loop.
	NewState State

	// Actions lists the side-effects that the caller must execute.
	// Empty when the event is ignored.
	Actions []Action

	// Changed is true when NewState differs from OldState.
	Changed bool
}

// fsmTable is the complete MSDP peering FSM transition table.
//
// Derived from the event list in RFC 3618 Section 11. Every
// (role, state, event) triple listed here is a valid transition. Unlisted
// triples are silently ignored (event dropped) -- e.g. a stray
// ConnectFail after the session already tore down, or Enable on an
// already-enabled peer.
//
//nolint:gochecknoglobals // FSM transition table is intentionally package-level.
var fsmTable = map[stateEvent]transition{
	// ===================================================================
	// Inactive state (administratively disabled)
	// ===================================================================
	//
	// Only Enable leaves Inactive. All connection-level events are
	// discarded; the session goroutine is not running.

	// Inactive + Enable -> Connecting (active side opens the connection,
	// RFC 3618 Section 11).
	{RoleActive, StateInactive, EventEnable}: {
		newState: StateConnecting,
		actions:  []Action{ActionStartConnect},
	},

	// Inactive + Enable -> Listen (passive side waits for the peer,
	// RFC 3618 Section 11).
	{RolePassive, StateInactive, EventEnable}: {
		newState: StateListen,
		actions:  []Action{ActionAwaitAccept},
	},

	// ===================================================================
	// Connecting state (active side)
	// ===================================================================

	// Connecting + TCP up -> Established (RFC 3618 Section 11).
	{RoleActive, StateConnecting, EventTCPEstablished}: {
		newState: StateEstablished,
		actions:  []Action{ActionStartTimers, ActionNotifyUp},
	},

	// Connecting + connect failure -> remain Connecting. The dial loop
	// retries after backoff; no state change, no actions.
	{RoleActive, StateConnecting, EventConnectFail}: {
		newState: StateConnecting,
		actions:  nil,
	},

	// Connecting + Disable -> Inactive.
	{RoleActive, StateConnecting, EventDisable}: {
		newState: StateInactive,
		actions:  []Action{ActionCloseConn},
	},

	// ===================================================================
	// Listen state (passive side)
	// ===================================================================

	// Listen + TCP up -> Established (inbound connection accepted from
	// the peer address, RFC 3618 Section 11).
	{RolePassive, StateListen, EventTCPEstablished}: {
		newState: StateEstablished,
		actions:  []Action{ActionStartTimers, ActionNotifyUp},
	},

	// Listen + Disable -> Inactive.
	{RolePassive, StateListen, EventDisable}: {
		newState: StateInactive,
		actions:  []Action{ActionCloseConn},
	},

	// ===================================================================
	// Established state
	// ===================================================================
	//
	// RFC 3618 Section 11: hold timer expiry, TCP failure, and TLV
	// format errors all close the connection and restart the session in
	// the role's idle state. Remote SA cache entries are NOT flushed on
	// teardown; they age out on their own hold timers.

	// Established + hold expired -> restart (active).
	{RoleActive, StateEstablished, EventHoldExpired}: {
		newState: StateConnecting,
		actions:  []Action{ActionCloseConn, ActionNotifyDown, ActionStartConnect},
	},

	// Established + hold expired -> restart (passive).
	{RolePassive, StateEstablished, EventHoldExpired}: {
		newState: StateListen,
		actions:  []Action{ActionCloseConn, ActionNotifyDown, ActionAwaitAccept},
	},

	// Established + connection closed -> restart (active).
	{RoleActive, StateEstablished, EventConnClosed}: {
		newState: StateConnecting,
		actions:  []Action{ActionCloseConn, ActionNotifyDown, ActionStartConnect},
	},

	// Established + connection closed -> restart (passive).
	{RolePassive, StateEstablished, EventConnClosed}: {
		newState: StateListen,
		actions:  []Action{ActionCloseConn, ActionNotifyDown, ActionAwaitAccept},
	},

	// Established + TLV format error -> restart (active).
	{RoleActive, StateEstablished, EventProtocolError}: {
		newState: StateConnecting,
		actions:  []Action{ActionCloseConn, ActionNotifyDown, ActionStartConnect},
	},

	// Established + TLV format error -> restart (passive).
	{RolePassive, StateEstablished, EventProtocolError}: {
		newState: StateListen,
		actions:  []Action{ActionCloseConn, ActionNotifyDown, ActionAwaitAccept},
	},

	// Established + Disable -> Inactive (both roles).
	{RoleActive, StateEstablished, EventDisable}: {
		newState: StateInactive,
		actions:  []Action{ActionCloseConn, ActionNotifyDown},
	},
	{RolePassive, StateEstablished, EventDisable}: {
		newState: StateInactive,
		actions:  []Action{ActionCloseConn, ActionNotifyDown},
	},
}

// ApplyEvent applies an FSM event to the given state and returns the
// result.
//
// This is a pure function with no side effects. The caller is responsible
// for executing the returned actions (closing connections, arming timers,
// emitting notifications). If the (role, state, event) triple has no entry
// in the transition table, the event is silently ignored and
// FSMResult.Changed is false with an empty action list.
//
// Reference: RFC 3618 Section 11 (peering state machine).
func ApplyEvent(role Role, currentState State, event Event) FSMResult {
	key := stateEvent{role: role, state: currentState, event: event}

	tr, ok := fsmTable[key]
	if !ok {
		// Event is not applicable in this state. Stale connection-level
		// events after teardown land here. Return unchanged.
		return FSMResult{
			OldState: currentState,
			NewState: currentState,
			Actions:  nil,
			Changed:  false,
		}
	}

	return FSMResult{
		OldState: currentState,
		NewState: tr.newState,
		Actions:  tr.actions,
		Changed:  currentState != tr.newState,
	}
}

// RoleFor returns the connection role for a session given the local and
// peer addresses: the numerically higher address actively opens the TCP
// connection (RFC 3618 Section 11).
func RoleFor(local, peer netip.Addr) Role {
	if local.Compare(peer) > 0 {
		return RoleActive
	}
	return RolePassive
}
