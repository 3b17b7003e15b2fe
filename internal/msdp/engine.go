package msdp

// Propagation engine (RFC 3618 Sections 10 and 13). The engine is the
// single writer of the SA cache: sessions, the PIM side, and operator
// actions submit events to its queue, and one goroutine applies them in
// arrival order. Acceptance runs the inbound pipeline -- filter, peer-RPF,
// SA limit -- and accepted advertisements are re-flooded to every other
// established peer outside the arrival peer's mesh group.

import (
	"context"
	"fmt"
	"log/slog"
	"net/netip"
	"sync/atomic"
	"time"
)

const (
	// engineChSize buffers submitted events so session reader
	// goroutines never block on the engine.
	engineChSize = 1024

	// saEventChSize buffers the public SA event stream.
	saEventChSize = 256

	// expireTick is how often the cache is scanned for expired entries.
	expireTick = time.Second

	// rpfTimeout bounds one origin-AS lookup. The engine loop is
	// single-threaded; a hung resolver must not stall SA processing
	// indefinitely.
	rpfTimeout = 2 * time.Second
)

// -------------------------------------------------------------------------
// Collaborator Contracts
// -------------------------------------------------------------------------

// Bridge is the engine's view of the local PIM-SM implementation.
// Methods are called from the engine goroutine and must not block.
type Bridge interface {
	// RemoteSAAccepted announces a newly cached remote (source, group)
	// with its originating RP. The return value reports whether an
	// SPT join toward the source was requested.
	RemoteSAAccepted(source, group, rp netip.Addr) bool

	// RemoteSAWithdrawn announces that a remote entry expired or was
	// flushed.
	RemoteSAWithdrawn(source, group netip.Addr)
}

// PeerLink is the engine's view of one peering session: identity and
// policy for the acceptance pipeline, and a non-blocking SA transmit
// path for flooding.
type PeerLink interface {
	PeerAddr() netip.Addr
	RemoteAS() uint32
	MeshGroup() string
	FilterIn() *Filter
	FilterOut() *Filter
	SALimit() int
	SendSA(msg *SAMessage)
}

// -------------------------------------------------------------------------
// SA Events
// -------------------------------------------------------------------------

// SAEventKind classifies entries on the engine's SA event stream.
type SAEventKind uint8

const (
	// SAEventCreated marks a new cache entry.
	SAEventCreated SAEventKind = iota + 1

	// SAEventWithdrawn marks an entry leaving the cache (hold expiry,
	// local source gone, or operator flush).
	SAEventWithdrawn

	// SAEventRejected marks an advertisement dropped by the acceptance
	// pipeline.
	SAEventRejected
)

// String returns the human-readable name of the event kind.
func (k SAEventKind) String() string {
	switch k {
	case SAEventCreated:
		return "created"
	case SAEventWithdrawn:
		return "withdrawn"
	case SAEventRejected:
		return "rejected"
	default:
		return fmt.Sprintf(unknownFmt, uint8(k))
	}
}

// RejectReason says why the acceptance pipeline dropped an
// advertisement.
type RejectReason uint8

const (
	// RejectNone is the zero value for non-reject events.
	RejectNone RejectReason = 0

	// RejectInvalidAddress covers non-IPv4, non-multicast groups and
	// non-unicast sources.
	RejectInvalidAddress RejectReason = 1

	// RejectFiltered means the peer's inbound filter denied the entry.
	RejectFiltered RejectReason = 2

	// RejectRPF means the peer is not on the reverse path toward the
	// advertisement's RP.
	RejectRPF RejectReason = 3

	// RejectSALimit means the peer exhausted its SA cache entry limit.
	RejectSALimit RejectReason = 4
)

// String returns the metrics label for the reject reason.
func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectInvalidAddress:
		return "invalid-address"
	case RejectFiltered:
		return "filtered"
	case RejectRPF:
		return "rpf-failure"
	case RejectSALimit:
		return "sa-limit"
	default:
		return fmt.Sprintf(unknownFmt, uint8(r))
	}
}

// SAEvent is one entry on the engine's SA event stream, consumed for
// metrics and monitoring.
type SAEvent struct {
	Kind   SAEventKind
	Source netip.Addr
	Group  netip.Addr

	// RP is the originating RP for remote entries, invalid for local.
	RP netip.Addr

	// Peer is the advertisement's arrival session, invalid for local
	// entries and timer-driven withdrawals of flushed state.
	Peer netip.Addr

	// Reason is set on SAEventRejected.
	Reason RejectReason

	Timestamp time.Time
}

// -------------------------------------------------------------------------
// Engine Configuration
// -------------------------------------------------------------------------

// EngineConfig carries the origination and cache parameters.
type EngineConfig struct {
	// OriginatorID is the local RP address stamped as the RP of
	// locally originated advertisements. When unset, local sources are
	// cached but not advertised.
	OriginatorID netip.Addr

	// SAHoldTime is the remote cache entry lifetime. Defaults to
	// DefaultSAHoldTime.
	SAHoldTime time.Duration

	// AdvertisementInterval is the local source re-advertisement
	// period. Defaults to DefaultSAAdvertisementInterval.
	AdvertisementInterval time.Duration

	// LogSAEvents enables the per-SA created/deleted log lines.
	LogSAEvents bool
}

func (c EngineConfig) withDefaults() EngineConfig {
	if c.SAHoldTime == 0 {
		c.SAHoldTime = DefaultSAHoldTime
	}
	if c.AdvertisementInterval == 0 {
		c.AdvertisementInterval = DefaultSAAdvertisementInterval
	}
	return c
}

// -------------------------------------------------------------------------
// Engine
// -------------------------------------------------------------------------

// engineEventKind discriminates queued engine events.
type engineEventKind uint8

const (
	evSAReceived engineEventKind = iota + 1
	evPeerUp
	evPeerDown
	evAttachPeer
	evDetachPeer
	evLocalActive
	evLocalInactive
	evFlushRemote
)

// engineEvent is one queued unit of work for the engine goroutine.
type engineEvent struct {
	kind engineEventKind

	// evSAReceived
	peerAddr netip.Addr
	rp       netip.Addr
	entries  []SAEntry

	// evPeerUp, evPeerDown, evAttachPeer
	link PeerLink

	// evLocalActive, evLocalInactive
	source netip.Addr
	group  netip.Addr

	// evFlushRemote
	done chan int
}

// enginePeer tracks one attached peer and whether its session is
// currently established.
type enginePeer struct {
	link PeerLink
	up   bool
}

// Engine owns the SA cache and implements SA acceptance, origination,
// flooding, and expiry. All cache mutation happens on the goroutine
// running Run(); submission methods are safe from any goroutine.
type Engine struct {
	cfg      EngineConfig
	cache    *Cache
	resolver RPFResolver
	bridge   Bridge
	logger   *slog.Logger

	eventCh   chan engineEvent
	saEventCh chan SAEvent

	// peers is owned by the engine goroutine.
	peers map[netip.Addr]*enginePeer

	// --- Counters, read atomically by status views ---

	saAccepted    atomic.Uint64
	saRejected    atomic.Uint64
	eventsDropped atomic.Uint64
}

// NewEngine creates an engine around the given cache, resolver, and PIM
// bridge. bridge may be nil when no PIM integration is wired; resolver
// may be nil only if every peer is in a mesh group (the RPF check fails
// closed otherwise).
func NewEngine(
	cfg EngineConfig,
	cache *Cache,
	resolver RPFResolver,
	bridge Bridge,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		cfg:       cfg.withDefaults(),
		cache:     cache,
		resolver:  resolver,
		bridge:    bridge,
		logger:    logger,
		eventCh:   make(chan engineEvent, engineChSize),
		saEventCh: make(chan SAEvent, saEventChSize),
		peers:     make(map[netip.Addr]*enginePeer),
	}
}

// Cache returns the engine's SA cache for read-only snapshot access.
func (e *Engine) Cache() *Cache { return e.cache }

// SAEvents returns the engine's SA event stream. Slow consumers lose
// events rather than stalling the engine.
func (e *Engine) SAEvents() <-chan SAEvent { return e.saEventCh }

// SAAccepted returns the total accepted SA entries.
func (e *Engine) SAAccepted() uint64 { return e.saAccepted.Load() }

// SARejected returns the total rejected SA entries.
func (e *Engine) SARejected() uint64 { return e.saRejected.Load() }

// -------------------------------------------------------------------------
// Submission API — safe from any goroutine
// -------------------------------------------------------------------------

// submit queues an event, dropping it when the engine is overloaded.
func (e *Engine) submit(ev engineEvent) {
	select {
	case e.eventCh <- ev:
	default:
		e.eventsDropped.Add(1)
		e.logger.Warn("engine queue full, dropping event")
	}
}

// AttachPeer registers a peering session with the engine. Must be called
// before the session can deliver traffic.
func (e *Engine) AttachPeer(link PeerLink) {
	e.submit(engineEvent{kind: evAttachPeer, link: link})
}

// DetachPeer removes a peering session from the engine.
func (e *Engine) DetachPeer(peer netip.Addr) {
	e.submit(engineEvent{kind: evDetachPeer, peerAddr: peer})
}

// PeerUp marks the peer's session established. The engine responds by
// advertising the current SA cache to the new peer (RFC 3618
// Section 12.2 encapsulation aside, deployed implementations send the
// cache on session establishment so the peer converges immediately).
func (e *Engine) PeerUp(link PeerLink) {
	e.submit(engineEvent{kind: evPeerUp, link: link})
}

// PeerDown marks the peer's session torn down. Cached entries learned
// from the peer are kept; they age out on their own hold timers.
func (e *Engine) PeerDown(link PeerLink) {
	e.submit(engineEvent{kind: evPeerDown, link: link})
}

// SubmitSA delivers a received Source-Active message for processing.
// The message contents are copied; the caller may reuse msg.
func (e *Engine) SubmitSA(peer netip.Addr, msg *SAMessage) {
	entries := make([]SAEntry, len(msg.Entries))
	copy(entries, msg.Entries)
	e.submit(engineEvent{
		kind:     evSAReceived,
		peerAddr: peer,
		rp:       msg.RP,
		entries:  entries,
	})
}

// LocalSourceActive announces a local active source (from the PIM side).
// The engine caches it as a local entry and floods it to all established
// peers with the configured originator ID as the RP.
func (e *Engine) LocalSourceActive(source, group netip.Addr) {
	e.submit(engineEvent{kind: evLocalActive, source: source, group: group})
}

// LocalSourceInactive withdraws a local source. MSDP has no explicit
// withdrawal TLV; remote caches age the entry out once re-advertisement
// stops.
func (e *Engine) LocalSourceInactive(source, group netip.Addr) {
	e.submit(engineEvent{kind: evLocalInactive, source: source, group: group})
}

// FlushRemote removes all remote entries from the cache (operator
// clear action) and returns the number of entries removed. Blocks until
// the engine processes the flush or ctx is done.
func (e *Engine) FlushRemote(ctx context.Context) (int, error) {
	done := make(chan int, 1)
	select {
	case e.eventCh <- engineEvent{kind: evFlushRemote, done: done}:
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	select {
	case n := <-done:
		return n, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// -------------------------------------------------------------------------
// Engine Loop
// -------------------------------------------------------------------------

// Run processes events until ctx is cancelled. Exactly one Run per
// Engine may be active.
func (e *Engine) Run(ctx context.Context) {
	expireTicker := time.NewTicker(expireTick)
	defer expireTicker.Stop()

	advertiseTicker := time.NewTicker(e.cfg.AdvertisementInterval)
	defer advertiseTicker.Stop()

	e.logger.Info("engine started",
		slog.Duration("sa_hold_time", e.cfg.SAHoldTime),
		slog.Duration("advertisement_interval", e.cfg.AdvertisementInterval),
	)

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("engine stopped")
			return

		case ev := <-e.eventCh:
			e.handleEvent(ctx, ev)

		case <-expireTicker.C:
			e.expireEntries(time.Now())

		case <-advertiseTicker.C:
			e.advertiseLocalSources()
		}
	}
}

// handleEvent dispatches one queued event.
func (e *Engine) handleEvent(ctx context.Context, ev engineEvent) {
	switch ev.kind {
	case evSAReceived:
		e.processSA(ctx, ev.peerAddr, ev.rp, ev.entries)
	case evPeerUp:
		e.handlePeerUp(ev.link)
	case evPeerDown:
		if p, ok := e.peers[ev.link.PeerAddr()]; ok {
			p.up = false
		}
	case evAttachPeer:
		e.peers[ev.link.PeerAddr()] = &enginePeer{link: ev.link}
	case evDetachPeer:
		delete(e.peers, ev.peerAddr)
	case evLocalActive:
		e.handleLocalActive(ev.source, ev.group)
	case evLocalInactive:
		e.handleLocalInactive(ev.source, ev.group)
	case evFlushRemote:
		ev.done <- e.flushRemote()
	}
}

// -------------------------------------------------------------------------
// Inbound SA Processing — RFC 3618 Section 10
// -------------------------------------------------------------------------

// processSA runs every entry of a received Source-Active message through
// the acceptance pipeline, then re-floods the survivors.
func (e *Engine) processSA(ctx context.Context, peerAddr, rp netip.Addr, entries []SAEntry) {
	p, ok := e.peers[peerAddr]
	if !ok {
		// Session raced its own detach; nothing to attribute the
		// advertisement to.
		return
	}

	// Peer-RPF is per message, not per entry: all entries share the RP.
	rpfOK := e.checkPeerRPF(ctx, p.link, rp)

	accepted := entries[:0]
	for _, entry := range entries {
		if e.acceptEntry(p.link, rp, entry, rpfOK) {
			accepted = append(accepted, entry)
		}
	}

	if len(accepted) > 0 {
		e.flood(rp, accepted, p.link)
	}
}

// acceptEntry applies the acceptance pipeline to one (S,G). Returns true
// when the entry made it into the cache (created or refreshed).
func (e *Engine) acceptEntry(link PeerLink, rp netip.Addr, entry SAEntry, rpfOK bool) bool {
	peerAddr := link.PeerAddr()

	if !validSAAddrs(entry.Source, entry.Group) {
		e.reject(link, rp, entry, RejectInvalidAddress)
		return false
	}

	if !link.FilterIn().Permit(entry.Source, entry.Group) {
		e.reject(link, rp, entry, RejectFiltered)
		return false
	}

	if !rpfOK {
		e.reject(link, rp, entry, RejectRPF)
		return false
	}

	// SA limit applies to entries not yet counted against this peer: a
	// refresh of an entry already attributed here always passes, but a
	// key cached under another peer would move its attribution on
	// upsert and must count as a new entry.
	if limit := link.SALimit(); limit > 0 {
		existing, exists := e.cache.Lookup(entry.Source, entry.Group)
		if !exists || existing.Peer != peerAddr {
			if count := e.cache.PeerEntryCount(peerAddr); count >= limit {
				e.logger.Info(fmt.Sprintf("MSDP peer %s reject SA (%s, %s): SA limit %d of %d",
					peerAddr, entry.Source, entry.Group, count, limit))
				e.emitSAEvent(SAEvent{
					Kind:      SAEventRejected,
					Source:    entry.Source,
					Group:     entry.Group,
					RP:        rp,
					Peer:      peerAddr,
					Reason:    RejectSALimit,
					Timestamp: time.Now(),
				})
				e.saRejected.Add(1)
				return false
			}
		}
	}

	created := e.cache.UpsertRemote(entry.Source, entry.Group, rp, peerAddr, time.Now())
	e.saAccepted.Add(1)

	if created {
		e.logSACreated(entry.Source, entry.Group)
		e.emitSAEvent(SAEvent{
			Kind:      SAEventCreated,
			Source:    entry.Source,
			Group:     entry.Group,
			RP:        rp,
			Peer:      peerAddr,
			Timestamp: time.Now(),
		})
		if e.bridge != nil {
			joined := e.bridge.RemoteSAAccepted(entry.Source, entry.Group, rp)
			e.cache.SetSPTSetup(entry.Source, entry.Group, joined)
		}
	}

	return true
}

// checkPeerRPF decides whether advertisements carrying rp are acceptable
// from the peer (RFC 3618 Section 10): the origin AS of the best route
// toward the RP must equal the peer's configured AS. Mesh-group peers
// are exempt. No resolver or no route fails closed.
func (e *Engine) checkPeerRPF(ctx context.Context, link PeerLink, rp netip.Addr) bool {
	if link.MeshGroup() != "" {
		return true
	}
	if e.resolver == nil || !rp.Is4() {
		return false
	}

	rctx, cancel := context.WithTimeout(ctx, rpfTimeout)
	defer cancel()

	origin, err := e.resolver.OriginAS(rctx, rp)
	if err != nil {
		e.logger.Debug("RPF lookup failed",
			slog.String("rp", rp.String()),
			slog.String("error", err.Error()),
		)
		return false
	}

	return origin == link.RemoteAS()
}

// reject drops one entry, logging and accounting the reason.
func (e *Engine) reject(link PeerLink, rp netip.Addr, entry SAEntry, reason RejectReason) {
	e.saRejected.Add(1)
	e.logger.Info(fmt.Sprintf("MSDP peer %s reject SA (%s, %s): %s",
		link.PeerAddr(), entry.Source, entry.Group, reason))
	e.emitSAEvent(SAEvent{
		Kind:      SAEventRejected,
		Source:    entry.Source,
		Group:     entry.Group,
		RP:        rp,
		Peer:      link.PeerAddr(),
		Reason:    reason,
		Timestamp: time.Now(),
	})
}

// validSAAddrs checks the address classes of one (S,G): IPv4 multicast
// group, IPv4 unicast source.
func validSAAddrs(source, group netip.Addr) bool {
	if !group.Is4() || !group.IsMulticast() {
		return false
	}
	if !source.Is4() || source.IsMulticast() || source.IsUnspecified() {
		return false
	}
	return true
}

// -------------------------------------------------------------------------
// Flooding — RFC 3618 Section 10.2
// -------------------------------------------------------------------------

// flood forwards accepted entries to every other established peer. The
// RP travels unchanged. Peers in the arrival peer's mesh group are
// skipped: the originator already flooded to all mesh members
// (RFC 3618 Section 10.2). Each target's outbound filter applies
// per entry.
func (e *Engine) flood(rp netip.Addr, entries []SAEntry, from PeerLink) {
	fromMesh := ""
	var fromAddr netip.Addr
	if from != nil {
		fromMesh = from.MeshGroup()
		fromAddr = from.PeerAddr()
	}

	for addr, p := range e.peers {
		if !p.up || addr == fromAddr {
			continue
		}
		if fromMesh != "" && p.link.MeshGroup() == fromMesh {
			continue
		}
		e.sendFiltered(p.link, rp, entries)
	}
}

// sendFiltered applies the target's outbound filter and transmits the
// surviving entries as one Source-Active message.
func (e *Engine) sendFiltered(link PeerLink, rp netip.Addr, entries []SAEntry) {
	out := link.FilterOut()

	var pass []SAEntry
	if out == nil {
		pass = entries
	} else {
		for _, entry := range entries {
			if out.Permit(entry.Source, entry.Group) {
				pass = append(pass, entry)
			}
		}
	}

	for len(pass) > 0 {
		n := min(len(pass), MaxSAEntries)
		link.SendSA(&SAMessage{RP: rp, Entries: pass[:n]})
		pass = pass[n:]
	}
}

// handlePeerUp marks the peer established and advertises the current
// cache so the new peer converges without waiting a full advertisement
// interval.
func (e *Engine) handlePeerUp(link PeerLink) {
	addr := link.PeerAddr()
	p, ok := e.peers[addr]
	if !ok {
		p = &enginePeer{link: link}
		e.peers[addr] = p
	}
	p.up = true

	e.sendFullCache(link)
}

// sendFullCache advertises every cache entry to one peer, batched by
// originating RP. Entries learned from the peer itself or from its mesh
// group are skipped.
func (e *Engine) sendFullCache(link PeerLink) {
	addr := link.PeerAddr()
	mesh := link.MeshGroup()

	byRP := make(map[netip.Addr][]SAEntry)
	for _, entry := range e.cache.Snapshot() {
		rp := entry.RP
		if entry.Origin == OriginLocal {
			if !e.cfg.OriginatorID.Is4() {
				continue
			}
			rp = e.cfg.OriginatorID
		} else {
			if entry.Peer == addr {
				continue
			}
			if mesh != "" {
				if src, ok := e.peers[entry.Peer]; ok && src.link.MeshGroup() == mesh {
					continue
				}
			}
		}
		byRP[rp] = append(byRP[rp], SAEntry{Source: entry.Source, Group: entry.Group})
	}

	for rp, entries := range byRP {
		e.sendFiltered(link, rp, entries)
	}
}

// -------------------------------------------------------------------------
// Local Origination — RFC 3618 Section 13
// -------------------------------------------------------------------------

// handleLocalActive caches a local source and floods it to all
// established peers.
func (e *Engine) handleLocalActive(source, group netip.Addr) {
	if !validSAAddrs(source, group) {
		e.logger.Warn("ignoring local source with invalid addresses",
			slog.String("source", source.String()),
			slog.String("group", group.String()),
		)
		return
	}

	created := e.cache.UpsertLocal(source, group, time.Now())
	if created {
		e.logSACreated(source, group)
		e.emitSAEvent(SAEvent{
			Kind:      SAEventCreated,
			Source:    source,
			Group:     group,
			Timestamp: time.Now(),
		})
	}

	if !e.cfg.OriginatorID.Is4() {
		e.logger.Warn("no originator ID configured, local source not advertised",
			slog.String("source", source.String()),
			slog.String("group", group.String()),
		)
		return
	}

	entries := []SAEntry{{Source: source, Group: group}}
	e.flood(e.cfg.OriginatorID, entries, nil)
}

// handleLocalInactive drops a local entry. No withdrawal goes on the
// wire; remote caches age the entry out.
func (e *Engine) handleLocalInactive(source, group netip.Addr) {
	if !e.cache.RemoveLocal(source, group) {
		return
	}
	e.logSADeleted(source, group)
	e.emitSAEvent(SAEvent{
		Kind:      SAEventWithdrawn,
		Source:    source,
		Group:     group,
		Timestamp: time.Now(),
	})
}

// advertiseLocalSources re-floods all local entries on the periodic
// advertisement timer, keeping remote caches refreshed.
func (e *Engine) advertiseLocalSources() {
	if !e.cfg.OriginatorID.Is4() {
		return
	}

	locals := e.cache.LocalEntries()
	if len(locals) == 0 {
		return
	}

	entries := make([]SAEntry, 0, len(locals))
	for _, le := range locals {
		entries = append(entries, SAEntry{Source: le.Source, Group: le.Group})
	}

	e.flood(e.cfg.OriginatorID, entries, nil)
}

// -------------------------------------------------------------------------
// Expiry and Flush
// -------------------------------------------------------------------------

// expireEntries purges remote entries past their hold deadline, emitting
// exactly one withdrawal per entry.
func (e *Engine) expireEntries(now time.Time) {
	for _, entry := range e.cache.Expire(now) {
		e.logSADeleted(entry.Source, entry.Group)
		e.emitSAEvent(SAEvent{
			Kind:      SAEventWithdrawn,
			Source:    entry.Source,
			Group:     entry.Group,
			RP:        entry.RP,
			Peer:      entry.Peer,
			Timestamp: now,
		})
		if e.bridge != nil {
			e.bridge.RemoteSAWithdrawn(entry.Source, entry.Group)
		}
	}
}

// flushRemote force-expires every remote entry (operator clear action).
func (e *Engine) flushRemote() int {
	// A flush is an expiry at the end of time.
	purged := e.cache.Expire(farFuture())

	for _, entry := range purged {
		e.logSADeleted(entry.Source, entry.Group)
		e.emitSAEvent(SAEvent{
			Kind:      SAEventWithdrawn,
			Source:    entry.Source,
			Group:     entry.Group,
			RP:        entry.RP,
			Peer:      entry.Peer,
			Timestamp: time.Now(),
		})
		if e.bridge != nil {
			e.bridge.RemoteSAWithdrawn(entry.Source, entry.Group)
		}
	}

	e.logger.Info("flushed remote SA cache", slog.Int("entries", len(purged)))

	return len(purged)
}

func farFuture() time.Time {
	return time.Now().Add(100 * 365 * 24 * time.Hour)
}

// -------------------------------------------------------------------------
// Event Emission
// -------------------------------------------------------------------------

// logSACreated and logSADeleted produce the grep-stable SA event lines,
// gated on the sa-events logging switch.
func (e *Engine) logSACreated(source, group netip.Addr) {
	if !e.cfg.LogSAEvents {
		return
	}
	e.logger.Info(fmt.Sprintf("MSDP SA (%s,%s) created", source, group))
}

func (e *Engine) logSADeleted(source, group netip.Addr) {
	if !e.cfg.LogSAEvents {
		return
	}
	e.logger.Info(fmt.Sprintf("MSDP SA (%s,%s) deleted", source, group))
}

// emitSAEvent publishes to the SA event stream, dropping when full.
func (e *Engine) emitSAEvent(ev SAEvent) {
	select {
	case e.saEventCh <- ev:
	default:
		e.eventsDropped.Add(1)
	}
}
