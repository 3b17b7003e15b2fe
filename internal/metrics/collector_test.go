package msdpmetrics_test

import (
	"context"
	"log/slog"
	"net/netip"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	msdpmetrics "github.com/dantte-lp/gomsdp/internal/metrics"
	"github.com/dantte-lp/gomsdp/internal/msdp"
)

// newTestCollector builds a collector over a running engine and a
// manager with one administratively down peer.
func newTestCollector(t *testing.T) (*msdpmetrics.Collector, *prometheus.Registry, *msdp.Cache) {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	cache := msdp.NewCache(90 * time.Second)
	engine := msdp.NewEngine(msdp.EngineConfig{}, cache, nil, nil, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		engine.Run(ctx)
	}()

	manager := msdp.NewManager(engine, logger)
	t.Cleanup(func() {
		manager.Close()
		cancel()
		<-done
	})

	_, err := manager.CreatePeer(ctx, msdp.PeerConfig{
		PeerAddr:  netip.MustParseAddr("10.0.0.2"),
		LocalAddr: netip.MustParseAddr("10.0.0.1"),
		RemoteAS:  65001,
		Shutdown:  true,
	})
	if err != nil {
		t.Fatalf("CreatePeer: %v", err)
	}

	reg := prometheus.NewRegistry()
	c := msdpmetrics.NewCollector(manager, engine, logger, reg)

	return c, reg, cache
}

func TestSnapshotMetrics(t *testing.T) {
	t.Parallel()

	_, reg, cache := newTestCollector(t)

	now := time.Now()
	grp := netip.MustParseAddr("239.1.1.1")
	rp := netip.MustParseAddr("192.0.2.1")
	peer := netip.MustParseAddr("10.0.0.2")
	cache.UpsertRemote(netip.MustParseAddr("10.1.0.1"), grp, rp, peer, now)
	cache.UpsertRemote(netip.MustParseAddr("10.1.0.2"), grp, rp, peer, now)

	families := gather(t, reg)

	tests := []struct {
		metric string
		want   float64
	}{
		{metric: "gomsdp_msdp_peers", want: 1},
		{metric: "gomsdp_msdp_established_peers", want: 0},
		{metric: "gomsdp_msdp_sa_entries", want: 2},
		{metric: "gomsdp_msdp_sa_accepted_total", want: 0},
		{metric: "gomsdp_msdp_sa_rejected_total", want: 0},
	}

	for _, tt := range tests {
		if got := familyValue(t, families, tt.metric); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.metric, got, tt.want)
		}
	}

	// Per-peer series carry the peer address label.
	fam, ok := families["gomsdp_msdp_peer_sa_entries"]
	if !ok {
		t.Fatal("gomsdp_msdp_peer_sa_entries not gathered")
	}
	m := fam.GetMetric()[0]
	if got := m.GetLabel()[0].GetValue(); got != "10.0.0.2" {
		t.Errorf("peer_addr label = %q, want %q", got, "10.0.0.2")
	}
	if got := m.GetGauge().GetValue(); got != 2 {
		t.Errorf("peer_sa_entries = %v, want 2", got)
	}
}

func TestRecordStateChange(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestCollector(t)

	sc := msdp.StateChange{
		PeerAddr: netip.MustParseAddr("10.0.0.2"),
		OldState: msdp.StateListen,
		NewState: msdp.StateEstablished,
	}

	c.RecordStateChange(sc)
	c.RecordStateChange(sc)

	val := counterValue(t, c.StateTransitions, "10.0.0.2", "listen", "established")
	if val != 2 {
		t.Errorf("StateTransitions(listen->established) = %v, want 2", val)
	}
}

func TestRecordSAEvent(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestCollector(t)

	c.RecordSAEvent(msdp.SAEvent{Kind: msdp.SAEventCreated})
	c.RecordSAEvent(msdp.SAEvent{Kind: msdp.SAEventWithdrawn})
	c.RecordSAEvent(msdp.SAEvent{
		Kind:   msdp.SAEventRejected,
		Reason: msdp.RejectSALimit,
	})

	if val := counterValue(t, c.SAEvents, "created"); val != 1 {
		t.Errorf("SAEvents(created) = %v, want 1", val)
	}
	if val := counterValue(t, c.SAEvents, "withdrawn"); val != 1 {
		t.Errorf("SAEvents(withdrawn) = %v, want 1", val)
	}
	if val := counterValue(t, c.SAEvents, "rejected"); val != 1 {
		t.Errorf("SAEvents(rejected) = %v, want 1", val)
	}
	if val := counterValue(t, c.SARejections, "sa-limit"); val != 1 {
		t.Errorf("SARejections(sa-limit) = %v, want 1", val)
	}
}

func TestRunConsumesEvents(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestCollector(t)

	states := make(chan msdp.StateChange, 1)
	events := make(chan msdp.SAEvent, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(ctx, states, events)
	}()

	states <- msdp.StateChange{
		PeerAddr: netip.MustParseAddr("10.0.0.2"),
		OldState: msdp.StateInactive,
		NewState: msdp.StateListen,
	}
	events <- msdp.SAEvent{Kind: msdp.SAEventCreated}

	deadline := time.After(2 * time.Second)
	for counterValue(t, c.StateTransitions, "10.0.0.2", "inactive", "listen") < 1 ||
		counterValue(t, c.SAEvents, "created") < 1 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for the event loop to count")
		case <-time.After(2 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

// -------------------------------------------------------------------------
// Helpers
// -------------------------------------------------------------------------

// gather collects all metric families from the registry keyed by name.
func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}

	out := make(map[string]*dto.MetricFamily, len(families))
	for _, fam := range families {
		out[fam.GetName()] = fam
	}
	return out
}

// familyValue reads the value of a single-series metric family.
func familyValue(t *testing.T, families map[string]*dto.MetricFamily, name string) float64 {
	t.Helper()

	fam, ok := families[name]
	if !ok {
		t.Fatalf("metric %s not gathered", name)
	}
	if len(fam.GetMetric()) != 1 {
		t.Fatalf("metric %s has %d series, want 1", name, len(fam.GetMetric()))
	}

	m := fam.GetMetric()[0]
	if m.GetCounter() != nil {
		return m.GetCounter().GetValue()
	}
	return m.GetGauge().GetValue()
}

// counterValue reads the current value of a CounterVec with the given labels.
func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()

	counter, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues(%v): %v", labels, err)
	}

	m := &dto.Metric{}
	if err := counter.Write(m); err != nil {
		t.Fatalf("Write metric: %v", err)
	}

	return m.GetCounter().GetValue()
}
