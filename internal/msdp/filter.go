package msdp

// SA filter lists. Peers may attach a named filter in each direction:
// inbound filters drop advertisements before they reach the cache,
// outbound filters suppress forwarding to the peer. Semantics follow
// router access-lists: first matching rule wins, and a peer with a list
// attached denies anything the list does not permit. A peer with no list
// attached permits everything.

import (
	"errors"
	"fmt"
	"net/netip"
)

// RuleAction says whether a matching filter rule permits or denies.
type RuleAction uint8

const (
	// RuleDeny drops the advertisement.
	RuleDeny RuleAction = 0

	// RulePermit accepts the advertisement.
	RulePermit RuleAction = 1
)

// String returns the configuration keyword for the action.
func (a RuleAction) String() string {
	switch a {
	case RuleDeny:
		return "deny"
	case RulePermit:
		return "permit"
	default:
		return fmt.Sprintf(unknownFmt, uint8(a))
	}
}

// ParseRuleAction parses a configuration keyword into a RuleAction.
func ParseRuleAction(s string) (RuleAction, error) {
	switch s {
	case "permit":
		return RulePermit, nil
	case "deny":
		return RuleDeny, nil
	default:
		return RuleDeny, fmt.Errorf("rule action %q: %w", s, ErrInvalidRuleAction)
	}
}

// ErrInvalidRuleAction indicates a filter rule action keyword other than
// "permit" or "deny".
var ErrInvalidRuleAction = errors.New("invalid filter rule action")

// FilterRule matches (source, group) pairs against a pair of IPv4
// prefixes. An invalid (zero) prefix is a wildcard for that dimension.
type FilterRule struct {
	// Action is applied when both prefixes match.
	Action RuleAction

	// Source restricts the source address. Zero value matches any
	// source.
	Source netip.Prefix

	// Group restricts the group address. Zero value matches any group.
	Group netip.Prefix
}

// matches reports whether the rule covers the (source, group) pair.
func (r *FilterRule) matches(source, group netip.Addr) bool {
	if r.Source.IsValid() && !r.Source.Contains(source) {
		return false
	}
	if r.Group.IsValid() && !r.Group.Contains(group) {
		return false
	}
	return true
}

// Filter is an ordered SA filter list. A nil *Filter permits everything,
// so peers without a configured list need no special-casing.
type Filter struct {
	name  string
	rules []FilterRule
}

// NewFilter builds a filter from an ordered rule list. The name is only
// used in logs and status output.
func NewFilter(name string, rules []FilterRule) *Filter {
	return &Filter{name: name, rules: rules}
}

// Name returns the configured list name, or "" for a nil filter.
func (f *Filter) Name() string {
	if f == nil {
		return ""
	}
	return f.name
}

// Permit evaluates the list against a (source, group) pair. The first
// matching rule decides; a list that matches nothing denies.
func (f *Filter) Permit(source, group netip.Addr) bool {
	if f == nil {
		return true
	}
	for i := range f.rules {
		if f.rules[i].matches(source, group) {
			return f.rules[i].Action == RulePermit
		}
	}
	return false
}
