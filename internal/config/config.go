// Package config manages gomsdp daemon configuration using koanf/v2.
//
// Supports YAML files and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/dantte-lp/gomsdp/internal/msdp"
)

// -------------------------------------------------------------------------
// Configuration Structures
// -------------------------------------------------------------------------

// Config holds the complete gomsdp configuration.
type Config struct {
	API        APIConfig         `koanf:"api"`
	Metrics    MetricsConfig     `koanf:"metrics"`
	Log        LogConfig         `koanf:"log"`
	MSDP       MSDPConfig        `koanf:"msdp"`
	Filters    []FilterConfig    `koanf:"filters"`
	MeshGroups []MeshGroupConfig `koanf:"mesh_groups"`
	Peers      []PeerConfig      `koanf:"peers"`
	RPF        RPFConfig         `koanf:"rpf"`
}

// APIConfig holds the HTTP status/control API configuration.
type APIConfig struct {
	// Addr is the HTTP listen address (e.g., ":8639").
	Addr string `koanf:"addr"`
}

// MetricsConfig holds the Prometheus metrics endpoint configuration.
type MetricsConfig struct {
	// Addr is the HTTP listen address for the metrics endpoint (e.g., ":9100").
	Addr string `koanf:"addr"`
	// Path is the URL path for the metrics endpoint (e.g., "/metrics").
	Path string `koanf:"path"`
}

// LogConfig holds the logging configuration.
type LogConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `koanf:"level"`
	// Format is the log output format: "json" or "text".
	Format string `koanf:"format"`
	// SAEvents enables a log line for every source-active cache
	// creation and deletion. Noisy on busy RPs; off by default.
	SAEvents bool `koanf:"sa_events"`
}

// MSDPConfig holds the protocol-wide MSDP parameters. Timer fields
// apply to every peer; a zero value falls back to the RFC 3618 default.
type MSDPConfig struct {
	// OriginatorID is the local RP address stamped into locally
	// originated Source-Active advertisements. When empty, local
	// sources are cached but never advertised.
	OriginatorID string `koanf:"originator_id"`

	// ListenAddr is the passive-side TCP listen address
	// (e.g., ":639").
	ListenAddr string `koanf:"listen_addr"`

	// Shutdown administratively disables every configured peer.
	Shutdown bool `koanf:"shutdown"`

	// KeepaliveInterval is the KEEPALIVE emission period.
	KeepaliveInterval time.Duration `koanf:"keepalive_interval"`

	// HoldTime tears the session down when no message arrives within
	// it. Must exceed KeepaliveInterval.
	HoldTime time.Duration `koanf:"hold_time"`

	// ConnectRetry caps the active side's dial backoff.
	ConnectRetry time.Duration `koanf:"connect_retry"`

	// SAAdvertisementInterval is the local source re-advertisement
	// period.
	SAAdvertisementInterval time.Duration `koanf:"sa_advertisement_interval"`

	// SAHoldTime is the lifetime granted to a remote cache entry on
	// each refresh.
	SAHoldTime time.Duration `koanf:"sa_hold_time"`

	// LocalSources statically declares active local sources to
	// originate, for deployments without a live PIM feed.
	LocalSources []LocalSourceConfig `koanf:"local_sources"`
}

// LocalSourceConfig statically declares an active (source, group) pair
// advertised by the local RP.
type LocalSourceConfig struct {
	// Source is the IPv4 unicast sender address.
	Source string `koanf:"source"`
	// Group is the IPv4 multicast group address.
	Group string `koanf:"group"`
}

// FilterConfig is a named, ordered SA filter list. Attaching a list to
// a peer switches that direction to default-deny.
type FilterConfig struct {
	Name  string       `koanf:"name"`
	Rules []RuleConfig `koanf:"rules"`
}

// RuleConfig is a single filter rule. An omitted prefix is a wildcard
// for that dimension.
type RuleConfig struct {
	// Action is "permit" or "deny".
	Action string `koanf:"action"`
	// Source restricts the source address (e.g., "10.1.0.0/16").
	Source string `koanf:"source"`
	// Group restricts the group address (e.g., "239.0.0.0/8").
	Group string `koanf:"group"`
}

// MeshGroupConfig assigns a set of peers to a mesh group by address.
// Equivalent to setting mesh_group on each member peer.
type MeshGroupConfig struct {
	Name    string   `koanf:"name"`
	Members []string `koanf:"members"`
}

// PeerConfig describes a declarative MSDP peer from the configuration
// file. Each entry creates a peer on daemon startup and SIGHUP reload.
type PeerConfig struct {
	// Address is the remote peer's IPv4 address.
	Address string `koanf:"address"`

	// Local is the local IPv4 address for the peering connection.
	Local string `koanf:"local"`

	// RemoteAS is the peer's autonomous system number. Required
	// unless the peer belongs to a mesh group.
	RemoteAS uint32 `koanf:"remote_as"`

	// MeshGroup names the peer's mesh group (optional).
	MeshGroup string `koanf:"mesh_group"`

	// SAFilterIn names the filter list applied to received SA entries.
	SAFilterIn string `koanf:"sa_filter_in"`

	// SAFilterOut names the filter list applied before forwarding.
	SAFilterOut string `koanf:"sa_filter_out"`

	// SALimit caps cache entries accepted from this peer (0 = none).
	SALimit int `koanf:"sa_limit"`

	// Shutdown administratively disables this peer.
	Shutdown bool `koanf:"shutdown"`
}

// PeerAddr parses the Address string as a netip.Addr.
func (pc PeerConfig) PeerAddr() (netip.Addr, error) {
	if pc.Address == "" {
		return netip.Addr{}, fmt.Errorf("peer address: %w", ErrInvalidPeerAddress)
	}
	addr, err := netip.ParseAddr(pc.Address)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("parse peer address %q: %w", pc.Address, err)
	}
	return addr, nil
}

// LocalAddr parses the Local string as a netip.Addr.
func (pc PeerConfig) LocalAddr() (netip.Addr, error) {
	if pc.Local == "" {
		return netip.Addr{}, fmt.Errorf("peer %s local address: %w", pc.Address, ErrInvalidLocalAddress)
	}
	addr, err := netip.ParseAddr(pc.Local)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("parse peer %s local address %q: %w", pc.Address, pc.Local, err)
	}
	return addr, nil
}

// RPFConfig selects the origin-AS resolver backing the peer-RPF check.
type RPFConfig struct {
	// Mode is "static" or "gobgp".
	Mode string `koanf:"mode"`

	// Static is the route table for mode "static".
	Static []StaticRouteConfig `koanf:"static"`

	// GoBGP holds connection parameters for mode "gobgp".
	GoBGP GoBGPConfig `koanf:"gobgp"`
}

// StaticRouteConfig maps a unicast prefix to the origin AS of its best
// route.
type StaticRouteConfig struct {
	Prefix   string `koanf:"prefix"`
	OriginAS uint32 `koanf:"origin_as"`
}

// GoBGPConfig holds the GoBGP gRPC API endpoint.
type GoBGPConfig struct {
	// Addr is the GoBGP gRPC address (e.g., "127.0.0.1:50051").
	Addr string `koanf:"addr"`
}

// -------------------------------------------------------------------------
// Defaults
// -------------------------------------------------------------------------

// DefaultConfig returns a Config populated with sensible defaults.
//
// MSDP timers follow RFC 3618 Section 5: 60s keepalive against a 75s
// hold time, 60s SA advertisement against a 90s SA hold time, so a
// single missed refresh never expires a cache entry.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Addr: ":8639",
		},
		Metrics: MetricsConfig{
			Addr: ":9100",
			Path: "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		MSDP: MSDPConfig{
			ListenAddr:              ":639",
			KeepaliveInterval:       msdp.DefaultKeepaliveInterval,
			HoldTime:                msdp.DefaultHoldTime,
			ConnectRetry:            msdp.DefaultConnectRetryInterval,
			SAAdvertisementInterval: msdp.DefaultSAAdvertisementInterval,
			SAHoldTime:              msdp.DefaultSAHoldTime,
		},
		RPF: RPFConfig{
			Mode: "static",
		},
	}
}

// -------------------------------------------------------------------------
// Loader
// -------------------------------------------------------------------------

// envPrefix is the environment variable prefix for gomsdp configuration.
// Variables are named GOMSDP_<section>_<key>, e.g., GOMSDP_API_ADDR.
const envPrefix = "GOMSDP_"

// Load reads configuration from a YAML file at path, overlays environment
// variable overrides (GOMSDP_ prefix), and merges on top of
// DefaultConfig(). Missing fields inherit defaults.
//
// Environment variable mapping:
//
//	GOMSDP_API_ADDR     -> api.addr
//	GOMSDP_METRICS_ADDR -> metrics.addr
//	GOMSDP_METRICS_PATH -> metrics.path
//	GOMSDP_LOG_LEVEL    -> log.level
//	GOMSDP_LOG_FORMAT   -> log.format
//
// Uses koanf/v2 with file + env providers and YAML parser.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Load defaults first.
	defaults := DefaultConfig()
	if err := loadDefaults(k, defaults); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	// Load YAML file on top of defaults.
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load config from %s: %w", path, err)
	}

	// Load environment variable overrides on top of YAML.
	// GOMSDP_API_ADDR -> api.addr (strip prefix, lowercase, _ -> .).
	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config from %s: %w", path, err)
	}

	return cfg, nil
}

// envKeyMapper transforms GOMSDP_API_ADDR -> api.addr.
// Strips the GOMSDP_ prefix, lowercases, and replaces _ with .
func envKeyMapper(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "_", ".")
}

// loadDefaults marshals the default config into koanf as the base layer.
func loadDefaults(k *koanf.Koanf, defaults *Config) error {
	defaultMap := map[string]any{
		"api.addr":                       defaults.API.Addr,
		"metrics.addr":                   defaults.Metrics.Addr,
		"metrics.path":                   defaults.Metrics.Path,
		"log.level":                      defaults.Log.Level,
		"log.format":                     defaults.Log.Format,
		"log.sa_events":                  defaults.Log.SAEvents,
		"msdp.listen_addr":               defaults.MSDP.ListenAddr,
		"msdp.keepalive_interval":        defaults.MSDP.KeepaliveInterval.String(),
		"msdp.hold_time":                 defaults.MSDP.HoldTime.String(),
		"msdp.connect_retry":             defaults.MSDP.ConnectRetry.String(),
		"msdp.sa_advertisement_interval": defaults.MSDP.SAAdvertisementInterval.String(),
		"msdp.sa_hold_time":              defaults.MSDP.SAHoldTime.String(),
		"rpf.mode":                       defaults.RPF.Mode,
	}

	for key, val := range defaultMap {
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

// -------------------------------------------------------------------------
// Validation
// -------------------------------------------------------------------------

// Validation errors.
var (
	// ErrEmptyAPIAddr indicates the HTTP API listen address is empty.
	ErrEmptyAPIAddr = errors.New("api.addr must not be empty")

	// ErrEmptyListenAddr indicates the MSDP listen address is empty.
	ErrEmptyListenAddr = errors.New("msdp.listen_addr must not be empty")

	// ErrInvalidKeepalive indicates a non-positive keepalive interval.
	ErrInvalidKeepalive = errors.New("msdp.keepalive_interval must be > 0")

	// ErrInvalidHoldTime indicates the hold time does not exceed the
	// keepalive interval.
	ErrInvalidHoldTime = errors.New("msdp.hold_time must exceed msdp.keepalive_interval")

	// ErrInvalidSATimers indicates a non-positive SA advertisement or
	// hold interval.
	ErrInvalidSATimers = errors.New("msdp SA intervals must be > 0")

	// ErrInvalidOriginatorID indicates the originator ID is not a
	// valid IPv4 address.
	ErrInvalidOriginatorID = errors.New("msdp.originator_id must be an IPv4 address")

	// ErrInvalidPeerAddress indicates a peer entry has a missing or
	// unparsable IPv4 address.
	ErrInvalidPeerAddress = errors.New("peer address is invalid")

	// ErrInvalidLocalAddress indicates a peer entry has a missing or
	// unparsable local IPv4 address.
	ErrInvalidLocalAddress = errors.New("peer local address is invalid")

	// ErrDuplicatePeerAddress indicates two peer entries share an
	// address.
	ErrDuplicatePeerAddress = errors.New("duplicate peer address")

	// ErrMissingRemoteAS indicates a peer outside any mesh group has
	// no remote AS for the peer-RPF check.
	ErrMissingRemoteAS = errors.New("peer outside a mesh group requires remote_as")

	// ErrNegativeSALimit indicates a negative peer SA limit.
	ErrNegativeSALimit = errors.New("peer sa_limit must be >= 0")

	// ErrUnknownFilter indicates a peer references a filter list that
	// is not defined.
	ErrUnknownFilter = errors.New("peer references undefined filter")

	// ErrDuplicateFilterName indicates two filter lists share a name.
	ErrDuplicateFilterName = errors.New("duplicate filter name")

	// ErrInvalidFilterRule indicates a filter rule with a bad action
	// or prefix.
	ErrInvalidFilterRule = errors.New("invalid filter rule")

	// ErrMeshGroupConflict indicates a peer is claimed by two
	// different mesh groups.
	ErrMeshGroupConflict = errors.New("peer assigned to conflicting mesh groups")

	// ErrInvalidRPFMode indicates an unrecognized rpf.mode.
	ErrInvalidRPFMode = errors.New("rpf.mode must be static or gobgp")

	// ErrInvalidStaticRoute indicates an unparsable static RPF route.
	ErrInvalidStaticRoute = errors.New("invalid static RPF route")

	// ErrInvalidLocalSource indicates a static local source whose
	// addresses are not an IPv4 unicast/multicast pair.
	ErrInvalidLocalSource = errors.New("local source needs an IPv4 unicast source and an IPv4 multicast group")

	// ErrEmptyGoBGPAddr indicates rpf.mode is gobgp without an address.
	ErrEmptyGoBGPAddr = errors.New("rpf.gobgp.addr must not be empty")
)

// Validate checks the configuration for logical errors.
// Returns the first validation error encountered.
func Validate(cfg *Config) error {
	if cfg.API.Addr == "" {
		return ErrEmptyAPIAddr
	}

	if cfg.MSDP.ListenAddr == "" {
		return ErrEmptyListenAddr
	}

	if cfg.MSDP.KeepaliveInterval <= 0 {
		return ErrInvalidKeepalive
	}

	if cfg.MSDP.HoldTime <= cfg.MSDP.KeepaliveInterval {
		return ErrInvalidHoldTime
	}

	if cfg.MSDP.SAAdvertisementInterval <= 0 || cfg.MSDP.SAHoldTime <= 0 {
		return ErrInvalidSATimers
	}

	if cfg.MSDP.OriginatorID != "" {
		addr, err := netip.ParseAddr(cfg.MSDP.OriginatorID)
		if err != nil || !addr.Is4() {
			return fmt.Errorf("originator_id %q: %w", cfg.MSDP.OriginatorID, ErrInvalidOriginatorID)
		}
	}

	if _, err := LocalSources(cfg.MSDP.LocalSources); err != nil {
		return err
	}

	if _, err := BuildFilters(cfg.Filters); err != nil {
		return err
	}

	membership, err := meshMembership(cfg.MeshGroups)
	if err != nil {
		return err
	}

	if err := validatePeers(cfg.Peers, cfg.Filters, membership); err != nil {
		return err
	}

	return validateRPF(&cfg.RPF)
}

// validatePeers checks each declarative peer entry for correctness.
func validatePeers(peers []PeerConfig, filters []FilterConfig, membership map[netip.Addr]string) error {
	names := make(map[string]struct{}, len(filters))
	for _, fc := range filters {
		names[fc.Name] = struct{}{}
	}

	seen := make(map[netip.Addr]struct{}, len(peers))

	for i, pc := range peers {
		addr, err := pc.PeerAddr()
		if err != nil {
			return fmt.Errorf("peers[%d]: %w", i, err)
		}
		if !addr.Unmap().Is4() {
			return fmt.Errorf("peers[%d] address %q: %w", i, pc.Address, ErrInvalidPeerAddress)
		}

		local, err := pc.LocalAddr()
		if err != nil {
			return fmt.Errorf("peers[%d]: %w", i, err)
		}
		if !local.Unmap().Is4() {
			return fmt.Errorf("peers[%d] local %q: %w", i, pc.Local, ErrInvalidLocalAddress)
		}

		if _, dup := seen[addr]; dup {
			return fmt.Errorf("peers[%d] address %s: %w", i, addr, ErrDuplicatePeerAddress)
		}
		seen[addr] = struct{}{}

		mesh, err := effectiveMeshGroup(pc, addr, membership)
		if err != nil {
			return fmt.Errorf("peers[%d]: %w", i, err)
		}
		if mesh == "" && pc.RemoteAS == 0 {
			return fmt.Errorf("peers[%d] address %s: %w", i, addr, ErrMissingRemoteAS)
		}

		if pc.SALimit < 0 {
			return fmt.Errorf("peers[%d]: %w", i, ErrNegativeSALimit)
		}

		for _, ref := range []string{pc.SAFilterIn, pc.SAFilterOut} {
			if ref == "" {
				continue
			}
			if _, ok := names[ref]; !ok {
				return fmt.Errorf("peers[%d] filter %q: %w", i, ref, ErrUnknownFilter)
			}
		}
	}

	return nil
}

// validateRPF checks the resolver selection.
func validateRPF(rc *RPFConfig) error {
	switch rc.Mode {
	case "static":
		if _, err := StaticRoutes(rc.Static); err != nil {
			return err
		}
	case "gobgp":
		if rc.GoBGP.Addr == "" {
			return ErrEmptyGoBGPAddr
		}
	default:
		return fmt.Errorf("rpf.mode %q: %w", rc.Mode, ErrInvalidRPFMode)
	}
	return nil
}

// meshMembership flattens the mesh_groups section into a peer address
// to group name map, rejecting addresses claimed by two groups.
func meshMembership(groups []MeshGroupConfig) (map[netip.Addr]string, error) {
	membership := make(map[netip.Addr]string)

	for _, mg := range groups {
		for _, member := range mg.Members {
			addr, err := netip.ParseAddr(member)
			if err != nil {
				return nil, fmt.Errorf("mesh group %q member %q: %w", mg.Name, member, ErrInvalidPeerAddress)
			}
			addr = addr.Unmap()
			if prev, ok := membership[addr]; ok && prev != mg.Name {
				return nil, fmt.Errorf("mesh group member %s in %q and %q: %w",
					addr, prev, mg.Name, ErrMeshGroupConflict)
			}
			membership[addr] = mg.Name
		}
	}

	return membership, nil
}

// effectiveMeshGroup resolves a peer's mesh group from its own
// mesh_group field and the mesh_groups section, rejecting conflicts.
func effectiveMeshGroup(pc PeerConfig, addr netip.Addr, membership map[netip.Addr]string) (string, error) {
	fromGroups := membership[addr.Unmap()]

	if pc.MeshGroup != "" && fromGroups != "" && pc.MeshGroup != fromGroups {
		return "", fmt.Errorf("peer %s in mesh_group %q and group %q: %w",
			addr, pc.MeshGroup, fromGroups, ErrMeshGroupConflict)
	}
	if pc.MeshGroup != "" {
		return pc.MeshGroup, nil
	}
	return fromGroups, nil
}

// -------------------------------------------------------------------------
// Conversion to Protocol Types
// -------------------------------------------------------------------------

// BuildFilters compiles the filters section into named filter lists.
func BuildFilters(filters []FilterConfig) (map[string]*msdp.Filter, error) {
	out := make(map[string]*msdp.Filter, len(filters))

	for _, fc := range filters {
		if _, dup := out[fc.Name]; dup {
			return nil, fmt.Errorf("filter %q: %w", fc.Name, ErrDuplicateFilterName)
		}

		rules := make([]msdp.FilterRule, 0, len(fc.Rules))
		for j, rc := range fc.Rules {
			rule, err := buildRule(rc)
			if err != nil {
				return nil, fmt.Errorf("filter %q rules[%d]: %w", fc.Name, j, err)
			}
			rules = append(rules, rule)
		}

		out[fc.Name] = msdp.NewFilter(fc.Name, rules)
	}

	return out, nil
}

// buildRule compiles one rule entry. Empty prefixes stay wildcards.
func buildRule(rc RuleConfig) (msdp.FilterRule, error) {
	action, err := msdp.ParseRuleAction(rc.Action)
	if err != nil {
		return msdp.FilterRule{}, fmt.Errorf("%w: %w", ErrInvalidFilterRule, err)
	}

	rule := msdp.FilterRule{Action: action}

	if rc.Source != "" {
		p, err := netip.ParsePrefix(rc.Source)
		if err != nil {
			return msdp.FilterRule{}, fmt.Errorf("%w: source %q: %w", ErrInvalidFilterRule, rc.Source, err)
		}
		rule.Source = p.Masked()
	}
	if rc.Group != "" {
		p, err := netip.ParsePrefix(rc.Group)
		if err != nil {
			return msdp.FilterRule{}, fmt.Errorf("%w: group %q: %w", ErrInvalidFilterRule, rc.Group, err)
		}
		rule.Group = p.Masked()
	}

	return rule, nil
}

// StaticRoutes compiles the static RPF route table.
func StaticRoutes(routes []StaticRouteConfig) ([]msdp.StaticRoute, error) {
	out := make([]msdp.StaticRoute, 0, len(routes))

	for i, rc := range routes {
		prefix, err := netip.ParsePrefix(rc.Prefix)
		if err != nil {
			return nil, fmt.Errorf("rpf.static[%d] prefix %q: %w: %w", i, rc.Prefix, ErrInvalidStaticRoute, err)
		}
		out = append(out, msdp.StaticRoute{
			Prefix:   prefix.Masked(),
			OriginAS: rc.OriginAS,
		})
	}

	return out, nil
}

// SourceGroup is a parsed static local source.
type SourceGroup struct {
	Source netip.Addr
	Group  netip.Addr
}

// LocalSources parses the statically declared local sources.
func LocalSources(entries []LocalSourceConfig) ([]SourceGroup, error) {
	out := make([]SourceGroup, 0, len(entries))

	for i, lc := range entries {
		src, err := netip.ParseAddr(lc.Source)
		if err != nil || !src.Unmap().Is4() || src.Unmap().IsMulticast() {
			return nil, fmt.Errorf("msdp.local_sources[%d] source %q: %w", i, lc.Source, ErrInvalidLocalSource)
		}
		grp, err := netip.ParseAddr(lc.Group)
		if err != nil || !grp.Unmap().Is4() || !grp.Unmap().IsMulticast() {
			return nil, fmt.Errorf("msdp.local_sources[%d] group %q: %w", i, lc.Group, ErrInvalidLocalSource)
		}
		out = append(out, SourceGroup{Source: src.Unmap(), Group: grp.Unmap()})
	}

	return out, nil
}

// PeerConfigs converts the peers section into protocol peer
// configurations, with compiled filters, mesh group resolution, the
// global timer set, and the msdp.shutdown override applied. The
// receiver must have passed Validate.
func (cfg *Config) PeerConfigs() ([]msdp.PeerConfig, error) {
	filters, err := BuildFilters(cfg.Filters)
	if err != nil {
		return nil, err
	}

	membership, err := meshMembership(cfg.MeshGroups)
	if err != nil {
		return nil, err
	}

	out := make([]msdp.PeerConfig, 0, len(cfg.Peers))

	for i, pc := range cfg.Peers {
		addr, err := pc.PeerAddr()
		if err != nil {
			return nil, fmt.Errorf("peers[%d]: %w", i, err)
		}
		local, err := pc.LocalAddr()
		if err != nil {
			return nil, fmt.Errorf("peers[%d]: %w", i, err)
		}
		mesh, err := effectiveMeshGroup(pc, addr, membership)
		if err != nil {
			return nil, fmt.Errorf("peers[%d]: %w", i, err)
		}

		out = append(out, msdp.PeerConfig{
			PeerAddr:             addr.Unmap(),
			LocalAddr:            local.Unmap(),
			RemoteAS:             pc.RemoteAS,
			MeshGroup:            mesh,
			FilterIn:             filters[pc.SAFilterIn],
			FilterOut:            filters[pc.SAFilterOut],
			SALimit:              pc.SALimit,
			Shutdown:             pc.Shutdown || cfg.MSDP.Shutdown,
			KeepaliveInterval:    cfg.MSDP.KeepaliveInterval,
			HoldTime:             cfg.MSDP.HoldTime,
			ConnectRetryInterval: cfg.MSDP.ConnectRetry,
		})
	}

	return out, nil
}

// EngineConfig converts the msdp section into the engine's origination
// and cache parameters.
func (cfg *Config) EngineConfig() (msdp.EngineConfig, error) {
	ec := msdp.EngineConfig{
		SAHoldTime:            cfg.MSDP.SAHoldTime,
		AdvertisementInterval: cfg.MSDP.SAAdvertisementInterval,
		LogSAEvents:           cfg.Log.SAEvents,
	}

	if cfg.MSDP.OriginatorID != "" {
		addr, err := netip.ParseAddr(cfg.MSDP.OriginatorID)
		if err != nil {
			return msdp.EngineConfig{}, fmt.Errorf("originator_id %q: %w", cfg.MSDP.OriginatorID, ErrInvalidOriginatorID)
		}
		ec.OriginatorID = addr.Unmap()
	}

	return ec, nil
}

// -------------------------------------------------------------------------
// Log Level Parsing
// -------------------------------------------------------------------------

// ParseLogLevel maps a configuration log level string to the corresponding
// slog.Level. Unknown values default to slog.LevelInfo.
//
// Recognized values: "debug", "info", "warn", "error" (case-insensitive).
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
