package msdp_test

import (
	"context"
	"errors"
	"net/netip"
	"testing"

	"github.com/dantte-lp/gomsdp/internal/msdp"
)

// TestStaticResolverLongestMatch verifies longest-prefix-match semantics
// regardless of insertion order.
func TestStaticResolverLongestMatch(t *testing.T) {
	t.Parallel()

	r := msdp.NewStaticResolver([]msdp.StaticRoute{
		{Prefix: netip.MustParsePrefix("10.0.0.0/8"), OriginAS: 65001},
		{Prefix: netip.MustParsePrefix("10.1.0.0/16"), OriginAS: 65002},
		{Prefix: netip.MustParsePrefix("10.1.2.0/24"), OriginAS: 65003},
	})

	tests := []struct {
		rp      string
		want    uint32
		wantErr error
	}{
		{rp: "10.1.2.3", want: 65003},
		{rp: "10.1.9.9", want: 65002},
		{rp: "10.200.0.1", want: 65001},
		{rp: "192.0.2.1", wantErr: msdp.ErrNoRoute},
	}

	for _, tt := range tests {
		got, err := r.OriginAS(context.Background(), netip.MustParseAddr(tt.rp))
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("OriginAS(%s): got error %v, want %v", tt.rp, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("OriginAS(%s): got AS %d, want %d", tt.rp, got, tt.want)
		}
	}
}

// TestStaticResolverReplace verifies the table can be swapped at runtime.
func TestStaticResolverReplace(t *testing.T) {
	t.Parallel()

	r := msdp.NewStaticResolver([]msdp.StaticRoute{
		{Prefix: netip.MustParsePrefix("10.0.0.0/8"), OriginAS: 65001},
	})

	rp := netip.MustParseAddr("10.0.0.1")
	if got, _ := r.OriginAS(context.Background(), rp); got != 65001 {
		t.Fatalf("OriginAS before replace: got %d, want 65001", got)
	}

	r.Replace([]msdp.StaticRoute{
		{Prefix: netip.MustParsePrefix("10.0.0.0/8"), OriginAS: 65099},
	})

	if got, _ := r.OriginAS(context.Background(), rp); got != 65099 {
		t.Errorf("OriginAS after replace: got %d, want 65099", got)
	}

	r.Replace(nil)
	if _, err := r.OriginAS(context.Background(), rp); !errors.Is(err, msdp.ErrNoRoute) {
		t.Errorf("OriginAS after clearing: got %v, want ErrNoRoute", err)
	}
}
