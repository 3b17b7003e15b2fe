package msdpmetrics

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dantte-lp/gomsdp/internal/msdp"
)

// -------------------------------------------------------------------------
// Prometheus Metric Constants
// -------------------------------------------------------------------------

const (
	namespace = "gomsdp"
	subsystem = "msdp"
)

// Label names for MSDP metrics.
const (
	labelPeerAddr  = "peer_addr"
	labelFromState = "from_state"
	labelToState   = "to_state"
	labelReason    = "reason"
	labelKind      = "kind"
)

// -------------------------------------------------------------------------
// Collector — Prometheus MSDP Metrics
// -------------------------------------------------------------------------

// Collector exposes MSDP peer and Source-Active cache metrics.
//
// Two kinds of metrics are served:
//   - Snapshot metrics (peer states, per-peer message totals, cache
//     size, acceptance totals) are read from the Manager and the engine
//     at scrape time via the prometheus.Collector interface.
//   - Event metrics (state transitions, SA events, rejections by
//     reason) are counted by the Run loop from the Manager's state
//     change stream and the engine's SA event stream.
type Collector struct {
	manager *msdp.Manager
	engine  *msdp.Engine
	logger  *slog.Logger

	// StateTransitions counts session FSM state transitions. Each
	// counter is labeled with the old state and new state for precise
	// alerting (e.g., established->listen flaps).
	StateTransitions *prometheus.CounterVec

	// SAEvents counts engine SA events by kind (created, withdrawn,
	// rejected).
	SAEvents *prometheus.CounterVec

	// SARejections counts rejected SA advertisements by reason
	// (invalid-address, filtered, rpf-failure, sa-limit).
	SARejections *prometheus.CounterVec

	// Scrape-time metric descriptors.
	establishedPeersDesc *prometheus.Desc
	peersDesc            *prometheus.Desc
	saEntriesDesc        *prometheus.Desc
	saAcceptedDesc       *prometheus.Desc
	saRejectedDesc       *prometheus.Desc
	keepalivesSentDesc   *prometheus.Desc
	keepalivesRecvDesc   *prometheus.Desc
	saMsgsSentDesc       *prometheus.Desc
	saMsgsRecvDesc       *prometheus.Desc
	peerSAEntriesDesc    *prometheus.Desc
}

// NewCollector creates a Collector over the given manager and engine and
// registers it against the provided prometheus.Registerer. If reg is
// nil, prometheus.DefaultRegisterer is used.
//
// All metrics carry the "gomsdp_msdp_" prefix (namespace_subsystem) to
// avoid collisions with other exporters.
func NewCollector(manager *msdp.Manager, engine *msdp.Engine, logger *slog.Logger, reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	fqName := func(name string) string {
		return prometheus.BuildFQName(namespace, subsystem, name)
	}
	peerLabels := []string{labelPeerAddr}

	c := &Collector{
		manager: manager,
		engine:  engine,
		logger:  logger.With(slog.String("component", "metrics")),

		StateTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "state_transitions_total",
			Help:      "Total MSDP session FSM state transitions.",
		}, []string{labelPeerAddr, labelFromState, labelToState}),

		SAEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sa_events_total",
			Help:      "Total Source-Active cache events by kind.",
		}, []string{labelKind}),

		SARejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sa_rejections_total",
			Help:      "Total rejected Source-Active advertisements by reason.",
		}, []string{labelReason}),

		establishedPeersDesc: prometheus.NewDesc(fqName("established_peers"),
			"Number of peers currently in the established state.", nil, nil),
		peersDesc: prometheus.NewDesc(fqName("peers"),
			"Number of configured peers.", nil, nil),
		saEntriesDesc: prometheus.NewDesc(fqName("sa_entries"),
			"Number of entries in the Source-Active cache.", nil, nil),
		saAcceptedDesc: prometheus.NewDesc(fqName("sa_accepted_total"),
			"Total accepted Source-Active entries.", nil, nil),
		saRejectedDesc: prometheus.NewDesc(fqName("sa_rejected_total"),
			"Total rejected Source-Active entries.", nil, nil),
		keepalivesSentDesc: prometheus.NewDesc(fqName("keepalives_sent_total"),
			"Total KEEPALIVE messages transmitted.", peerLabels, nil),
		keepalivesRecvDesc: prometheus.NewDesc(fqName("keepalives_received_total"),
			"Total KEEPALIVE messages received.", peerLabels, nil),
		saMsgsSentDesc: prometheus.NewDesc(fqName("sa_messages_sent_total"),
			"Total Source-Active messages transmitted.", peerLabels, nil),
		saMsgsRecvDesc: prometheus.NewDesc(fqName("sa_messages_received_total"),
			"Total Source-Active messages received.", peerLabels, nil),
		peerSAEntriesDesc: prometheus.NewDesc(fqName("peer_sa_entries"),
			"Source-Active cache entries attributed to the peer.", peerLabels, nil),
	}

	reg.MustRegister(c, c.StateTransitions, c.SAEvents, c.SARejections)

	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.establishedPeersDesc
	ch <- c.peersDesc
	ch <- c.saEntriesDesc
	ch <- c.saAcceptedDesc
	ch <- c.saRejectedDesc
	ch <- c.keepalivesSentDesc
	ch <- c.keepalivesRecvDesc
	ch <- c.saMsgsSentDesc
	ch <- c.saMsgsRecvDesc
	ch <- c.peerSAEntriesDesc
}

// Collect implements prometheus.Collector. Snapshot metrics are read
// from the Manager and the engine at scrape time.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	peers := c.manager.Peers()

	established := 0
	for _, p := range peers {
		if p.State == msdp.StateEstablished {
			established++
		}

		addr := p.PeerAddr.String()
		ch <- prometheus.MustNewConstMetric(c.keepalivesSentDesc,
			prometheus.CounterValue, float64(p.Counters.KeepalivesSent), addr)
		ch <- prometheus.MustNewConstMetric(c.keepalivesRecvDesc,
			prometheus.CounterValue, float64(p.Counters.KeepalivesReceived), addr)
		ch <- prometheus.MustNewConstMetric(c.saMsgsSentDesc,
			prometheus.CounterValue, float64(p.Counters.SAMessagesSent), addr)
		ch <- prometheus.MustNewConstMetric(c.saMsgsRecvDesc,
			prometheus.CounterValue, float64(p.Counters.SAMessagesReceived), addr)
		ch <- prometheus.MustNewConstMetric(c.peerSAEntriesDesc,
			prometheus.GaugeValue, float64(p.SACount), addr)
	}

	ch <- prometheus.MustNewConstMetric(c.establishedPeersDesc,
		prometheus.GaugeValue, float64(established))
	ch <- prometheus.MustNewConstMetric(c.peersDesc,
		prometheus.GaugeValue, float64(len(peers)))
	ch <- prometheus.MustNewConstMetric(c.saEntriesDesc,
		prometheus.GaugeValue, float64(c.engine.Cache().Len()))
	ch <- prometheus.MustNewConstMetric(c.saAcceptedDesc,
		prometheus.CounterValue, float64(c.engine.SAAccepted()))
	ch <- prometheus.MustNewConstMetric(c.saRejectedDesc,
		prometheus.CounterValue, float64(c.engine.SARejected()))
}

// -------------------------------------------------------------------------
// Event Loop
// -------------------------------------------------------------------------

// Run consumes the given state change and SA event streams, counting
// each into the event metrics. Returns when ctx is canceled.
func (c *Collector) Run(ctx context.Context, states <-chan msdp.StateChange, events <-chan msdp.SAEvent) {
	c.logger.Debug("metrics event loop started")

	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("metrics event loop stopped")
			return
		case sc := <-states:
			c.RecordStateChange(sc)
		case ev := <-events:
			c.RecordSAEvent(ev)
		}
	}
}

// RecordStateChange counts one session state transition.
func (c *Collector) RecordStateChange(sc msdp.StateChange) {
	c.StateTransitions.WithLabelValues(
		sc.PeerAddr.String(),
		sc.OldState.String(),
		sc.NewState.String(),
	).Inc()
}

// RecordSAEvent counts one SA cache event, and its reason when the
// event is a rejection.
func (c *Collector) RecordSAEvent(ev msdp.SAEvent) {
	c.SAEvents.WithLabelValues(ev.Kind.String()).Inc()

	if ev.Kind == msdp.SAEventRejected {
		c.SARejections.WithLabelValues(ev.Reason.String()).Inc()
	}
}
