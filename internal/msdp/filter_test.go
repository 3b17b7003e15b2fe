package msdp_test

import (
	"errors"
	"net/netip"
	"testing"

	"github.com/dantte-lp/gomsdp/internal/msdp"
)

// -------------------------------------------------------------------------
// TestFilterPermit — access-list evaluation semantics
// -------------------------------------------------------------------------

func TestFilterPermit(t *testing.T) {
	t.Parallel()

	src := netip.MustParseAddr("192.0.2.10")
	grp := netip.MustParseAddr("232.1.1.1")

	tests := []struct {
		name   string
		filter *msdp.Filter
		source netip.Addr
		group  netip.Addr
		want   bool
	}{
		{
			name:   "nil filter permits all",
			filter: nil,
			source: src,
			group:  grp,
			want:   true,
		},
		{
			name:   "empty list denies all",
			filter: msdp.NewFilter("empty", nil),
			source: src,
			group:  grp,
			want:   false,
		},
		{
			name: "permit by group prefix",
			filter: msdp.NewFilter("ssm-only", []msdp.FilterRule{
				{Action: msdp.RulePermit, Group: netip.MustParsePrefix("232.0.0.0/8")},
			}),
			source: src,
			group:  grp,
			want:   true,
		},
		{
			name: "implicit deny when no rule matches",
			filter: msdp.NewFilter("ssm-only", []msdp.FilterRule{
				{Action: msdp.RulePermit, Group: netip.MustParsePrefix("232.0.0.0/8")},
			}),
			source: src,
			group:  netip.MustParseAddr("239.1.1.1"),
			want:   false,
		},
		{
			name: "first match wins",
			filter: msdp.NewFilter("ordered", []msdp.FilterRule{
				{Action: msdp.RuleDeny, Source: netip.MustParsePrefix("192.0.2.0/24")},
				{Action: msdp.RulePermit},
			}),
			source: src,
			group:  grp,
			want:   false,
		},
		{
			name: "wildcard rule matches everything",
			filter: msdp.NewFilter("allow-all", []msdp.FilterRule{
				{Action: msdp.RulePermit},
			}),
			source: src,
			group:  grp,
			want:   true,
		},
		{
			name: "both prefixes must match",
			filter: msdp.NewFilter("pair", []msdp.FilterRule{
				{
					Action: msdp.RulePermit,
					Source: netip.MustParsePrefix("192.0.2.0/24"),
					Group:  netip.MustParsePrefix("239.0.0.0/8"),
				},
			}),
			source: src,
			group:  grp, // 232.1.1.1, outside 239.0.0.0/8
			want:   false,
		},
		{
			name: "deny specific source permit rest of group range",
			filter: msdp.NewFilter("mixed", []msdp.FilterRule{
				{Action: msdp.RuleDeny, Source: netip.MustParsePrefix("192.0.2.10/32")},
				{Action: msdp.RulePermit, Group: netip.MustParsePrefix("232.0.0.0/8")},
			}),
			source: netip.MustParseAddr("192.0.2.11"),
			group:  grp,
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.filter.Permit(tt.source, tt.group); got != tt.want {
				t.Errorf("Permit(%s, %s): got %t, want %t", tt.source, tt.group, got, tt.want)
			}
		})
	}
}

// -------------------------------------------------------------------------
// TestFilterName
// -------------------------------------------------------------------------

func TestFilterName(t *testing.T) {
	t.Parallel()

	var nilFilter *msdp.Filter
	if got := nilFilter.Name(); got != "" {
		t.Errorf("nil filter Name(): got %q, want \"\"", got)
	}

	f := msdp.NewFilter("ssm-only", nil)
	if got := f.Name(); got != "ssm-only" {
		t.Errorf("Name(): got %q, want %q", got, "ssm-only")
	}
}

// -------------------------------------------------------------------------
// TestParseRuleAction
// -------------------------------------------------------------------------

func TestParseRuleAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    msdp.RuleAction
		wantErr error
	}{
		{input: "permit", want: msdp.RulePermit},
		{input: "deny", want: msdp.RuleDeny},
		{input: "Permit", wantErr: msdp.ErrInvalidRuleAction},
		{input: "allow", wantErr: msdp.ErrInvalidRuleAction},
		{input: "", wantErr: msdp.ErrInvalidRuleAction},
	}

	for _, tt := range tests {
		got, err := msdp.ParseRuleAction(tt.input)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseRuleAction(%q): got error %v, want %v", tt.input, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseRuleAction(%q): got %s, want %s", tt.input, got, tt.want)
		}
	}
}
