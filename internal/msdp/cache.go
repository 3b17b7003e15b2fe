package msdp

// Source-Active cache (RFC 3618 Section 5.3, Section 10). The cache holds
// one entry per (source, group) pair, keyed independently of the peer it
// was learned from. All mutation goes through the engine goroutine; the
// RWMutex exists only so status and JSON views can read concurrently.

import (
	"net/netip"
	"sort"
	"sync"
	"time"
)

// Origin says whether a cache entry was originated by the local RP or
// learned from a peer.
type Origin uint8

const (
	// OriginRemote marks an entry learned from an MSDP peer.
	OriginRemote Origin = 0

	// OriginLocal marks an entry originated for a local active source.
	// Local entries carry no RP and never expire by timer; they are
	// removed when the PIM side reports the source inactive.
	OriginLocal Origin = 1
)

// SAKey identifies a Source-Active cache entry.
type SAKey struct {
	Source netip.Addr
	Group  netip.Addr
}

// CacheEntry is a point-in-time copy of one Source-Active cache entry.
type CacheEntry struct {
	// Source and Group identify the advertised flow.
	Source netip.Addr
	Group  netip.Addr

	// RP is the originating RP carried in the advertisement. Invalid
	// for local entries.
	RP netip.Addr

	// Origin distinguishes local from remote entries.
	Origin Origin

	// Peer is the session the entry was last accepted from. Invalid
	// for local entries.
	Peer netip.Addr

	// SPTSetup records whether the PIM side requested a shortest-path
	// tree join toward the source. Meaningful for remote entries only.
	SPTSetup bool

	// FirstSeen is when the entry was created.
	FirstSeen time.Time

	// LastRefresh is when the entry was last created or refreshed.
	LastRefresh time.Time

	// Expiry is the deadline after which the entry is purged unless
	// refreshed. Zero for local entries.
	Expiry time.Time
}

// Key returns the cache key for the entry.
func (e *CacheEntry) Key() SAKey {
	return SAKey{Source: e.Source, Group: e.Group}
}

// Cache is the Source-Active cache. Safe for concurrent use; writers are
// expected to be a single goroutine (the engine), readers may be many.
type Cache struct {
	mu       sync.RWMutex
	entries  map[SAKey]*CacheEntry
	perPeer  map[netip.Addr]int
	holdTime time.Duration
}

// NewCache creates an empty cache. holdTime is the remote-entry lifetime
// granted on each insert or refresh; it must exceed the peers' SA
// advertisement interval so one missed refresh does not purge the entry.
func NewCache(holdTime time.Duration) *Cache {
	return &Cache{
		entries:  make(map[SAKey]*CacheEntry),
		perPeer:  make(map[netip.Addr]int),
		holdTime: holdTime,
	}
}

// UpsertRemote inserts or refreshes a remote entry and returns true when
// the entry was newly created. Refreshes extend the expiry deadline and,
// when the advertisement arrived over a different session than before,
// move the entry's peer attribution (and the per-peer counts with it).
func (c *Cache) UpsertRemote(source, group, rp, peer netip.Addr, now time.Time) bool {
	key := SAKey{Source: source, Group: group}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.entries[key] = &CacheEntry{
			Source:      source,
			Group:       group,
			RP:          rp,
			Origin:      OriginRemote,
			Peer:        peer,
			FirstSeen:   now,
			LastRefresh: now,
			Expiry:      now.Add(c.holdTime),
		}
		c.perPeer[peer]++
		return true
	}

	// A local entry shadows any remote advertisement for the same pair;
	// the local origination wins and the refresh is absorbed silently.
	if e.Origin == OriginLocal {
		return false
	}

	if e.Peer != peer {
		c.perPeer[e.Peer]--
		if c.perPeer[e.Peer] <= 0 {
			delete(c.perPeer, e.Peer)
		}
		c.perPeer[peer]++
		e.Peer = peer
	}
	e.RP = rp
	e.LastRefresh = now
	e.Expiry = now.Add(c.holdTime)

	return false
}

// UpsertLocal inserts or refreshes a local-origin entry and returns true
// when it was newly created. A pre-existing remote entry for the same
// pair is converted to local: the local RP is now the authoritative
// originator.
func (c *Cache) UpsertLocal(source, group netip.Addr, now time.Time) bool {
	key := SAKey{Source: source, Group: group}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.entries[key] = &CacheEntry{
			Source:      source,
			Group:       group,
			Origin:      OriginLocal,
			FirstSeen:   now,
			LastRefresh: now,
		}
		return true
	}

	if e.Origin == OriginRemote {
		c.perPeer[e.Peer]--
		if c.perPeer[e.Peer] <= 0 {
			delete(c.perPeer, e.Peer)
		}
		e.Origin = OriginLocal
		e.RP = netip.Addr{}
		e.Peer = netip.Addr{}
		e.SPTSetup = false
		e.Expiry = time.Time{}
	}
	e.LastRefresh = now

	return false
}

// RemoveLocal deletes a local-origin entry when the PIM side reports the
// source inactive. Remote entries are left alone and false is returned.
func (c *Cache) RemoveLocal(source, group netip.Addr) bool {
	key := SAKey{Source: source, Group: group}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.Origin != OriginLocal {
		return false
	}
	delete(c.entries, key)

	return true
}

// SetSPTSetup records the PIM side's join decision on a remote entry.
func (c *Cache) SetSPTSetup(source, group netip.Addr, joined bool) {
	key := SAKey{Source: source, Group: group}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && e.Origin == OriginRemote {
		e.SPTSetup = joined
	}
}

// Expire purges every remote entry whose hold deadline is at or before
// now and returns copies of the purged entries, exactly one per pair.
// Local entries never expire.
func (c *Cache) Expire(now time.Time) []CacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	var purged []CacheEntry
	for key, e := range c.entries {
		if e.Origin != OriginRemote || e.Expiry.After(now) {
			continue
		}
		purged = append(purged, *e)
		c.perPeer[e.Peer]--
		if c.perPeer[e.Peer] <= 0 {
			delete(c.perPeer, e.Peer)
		}
		delete(c.entries, key)
	}

	return purged
}

// Lookup returns a copy of the entry for (source, group).
func (c *Cache) Lookup(source, group netip.Addr) (CacheEntry, bool) {
	key := SAKey{Source: source, Group: group}

	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return CacheEntry{}, false
	}

	return *e, true
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// PeerEntryCount returns the number of remote entries attributed to the
// given peer. Used for SA-limit enforcement.
func (c *Cache) PeerEntryCount(peer netip.Addr) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.perPeer[peer]
}

// LocalEntries returns copies of all local-origin entries, used for the
// periodic re-advertisement of local sources.
func (c *Cache) LocalEntries() []CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []CacheEntry
	for _, e := range c.entries {
		if e.Origin == OriginLocal {
			out = append(out, *e)
		}
	}

	return out
}

// Snapshot returns copies of all entries ordered by group, then source.
// The ordering matches the JSON status view.
func (c *Cache) Snapshot() []CacheEntry {
	c.mu.RLock()
	out := make([]CacheEntry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, *e)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group.Less(out[j].Group)
		}
		return out[i].Source.Less(out[j].Source)
	})

	return out
}
