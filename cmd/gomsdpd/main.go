// Gomsdp daemon -- MSDP protocol implementation (RFC 3618).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime/trace"
	"syscall"
	"time"

	"connectrpc.com/grpchealth"
	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/dantte-lp/gomsdp/internal/config"
	"github.com/dantte-lp/gomsdp/internal/gobgp"
	msdpmetrics "github.com/dantte-lp/gomsdp/internal/metrics"
	"github.com/dantte-lp/gomsdp/internal/msdp"
	"github.com/dantte-lp/gomsdp/internal/pim"
	"github.com/dantte-lp/gomsdp/internal/server"
	appversion "github.com/dantte-lp/gomsdp/internal/version"
)

// shutdownTimeout is the maximum time to wait for HTTP servers to drain
// active connections during graceful shutdown.
const shutdownTimeout = 10 * time.Second

// flightRecorderMinAge is the minimum window age for the flight recorder.
// Captures the last 500ms of execution traces for debugging peer flaps.
const flightRecorderMinAge = 500 * time.Millisecond

// flightRecorderMaxBytes is the upper bound on flight recorder window size.
const flightRecorderMaxBytes = 2 * 1024 * 1024 // 2 MiB

func main() {
	os.Exit(run())
}

func run() int {
	// 1. Parse flags.
	configPath := flag.String("config", "", "path to configuration file (YAML)")
	flag.Parse()

	// 2. Load config.
	cfg, err := loadConfig(*configPath)
	if err != nil {
		// Logger is not set up yet; use a temporary stderr logger.
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("failed to load configuration",
			slog.String("error", err.Error()),
		)
		return 1
	}

	// 3. Set up logger with dynamic level support for SIGHUP reload.
	logLevel := new(slog.LevelVar)
	logLevel.Set(config.ParseLogLevel(cfg.Log.Level))
	logger := newLoggerWithLevel(cfg.Log, logLevel)

	logger.Info("gomsdpd starting",
		slog.String("version", appversion.Version),
		slog.String("api_addr", cfg.API.Addr),
		slog.String("metrics_addr", cfg.Metrics.Addr),
		slog.String("listen_addr", cfg.MSDP.ListenAddr),
	)

	// 4. Start flight recorder for post-mortem debugging of peer flaps.
	fr := startFlightRecorder(logger)

	// 5. Build the protocol core: resolver, PIM bridge, SA cache,
	// engine, and peer manager.
	core, err := buildCore(cfg, logger)
	if err != nil {
		logger.Error("failed to build protocol core",
			slog.String("error", err.Error()),
		)
		return 1
	}
	defer core.close(logger)

	// 6. Run servers.
	if err := runServers(cfg, core, logger, *configPath, logLevel, fr); err != nil {
		logger.Error("gomsdpd exited with error",
			slog.String("error", err.Error()),
		)
		return 1
	}

	logger.Info("gomsdpd stopped")
	return 0
}

// -------------------------------------------------------------------------
// Protocol Core Assembly
// -------------------------------------------------------------------------

// core bundles the protocol components wired together at startup.
type core struct {
	cache   *msdp.Cache
	engine  *msdp.Engine
	manager *msdp.Manager
	bridge  *pim.Bridge

	// static is non-nil in static RPF mode and replaceable on reload.
	static *msdp.StaticResolver

	// resolverCloser is non-nil when the resolver holds a connection.
	resolverCloser io.Closer

	// localSources is the applied static local source set, diffed on
	// reload.
	localSources []config.SourceGroup
}

// buildCore assembles the resolver, bridge, cache, engine, and manager
// from the validated configuration.
func buildCore(cfg *config.Config, logger *slog.Logger) (*core, error) {
	c := &core{}

	switch cfg.RPF.Mode {
	case "static":
		routes, err := config.StaticRoutes(cfg.RPF.Static)
		if err != nil {
			return nil, fmt.Errorf("build static resolver: %w", err)
		}
		c.static = msdp.NewStaticResolver(routes)
	case "gobgp":
		resolver, err := gobgp.NewResolver(gobgp.ResolverConfig{
			Addr: cfg.RPF.GoBGP.Addr,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("build gobgp resolver: %w", err)
		}
		c.resolverCloser = resolver

		engineCfg, err := cfg.EngineConfig()
		if err != nil {
			closeResolver(c.resolverCloser, logger)
			return nil, err
		}
		return finishCore(c, cfg, engineCfg, resolver, logger)
	}

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return nil, err
	}
	return finishCore(c, cfg, engineCfg, c.static, logger)
}

// finishCore wires the cache, engine, and manager around the resolver.
func finishCore(
	c *core,
	cfg *config.Config,
	engineCfg msdp.EngineConfig,
	resolver msdp.RPFResolver,
	logger *slog.Logger,
) (*core, error) {
	c.bridge = pim.NewBridge(logger)
	c.cache = msdp.NewCache(cfg.MSDP.SAHoldTime)
	c.engine = msdp.NewEngine(engineCfg, c.cache, resolver, c.bridge, logger)
	c.manager = msdp.NewManager(c.engine, logger)
	return c, nil
}

// close tears down the peer manager and the resolver connection.
func (c *core) close(logger *slog.Logger) {
	if c.manager != nil {
		c.manager.Close()
	}
	closeResolver(c.resolverCloser, logger)
}

// closeResolver closes the resolver if non-nil, logging any error.
func closeResolver(closer io.Closer, logger *slog.Logger) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logger.Warn("failed to close RPF resolver",
			slog.String("error", err.Error()),
		)
	}
}

// -------------------------------------------------------------------------
// Server Orchestration
// -------------------------------------------------------------------------

// runServers runs the protocol goroutines and the API and metrics HTTP
// servers using an errgroup with signal-aware context for graceful
// shutdown.
func runServers(
	cfg *config.Config,
	c *core,
	logger *slog.Logger,
	configPath string,
	logLevel *slog.LevelVar,
	fr *trace.FlightRecorder,
) error {
	reg := prometheus.NewRegistry()
	collector := msdpmetrics.NewCollector(c.manager, c.engine, logger, reg)

	metricsSrv := newMetricsServer(cfg.Metrics, reg)
	apiSrv := newAPIServer(cfg.API, c, logger)

	// errgroup with signal-aware context.
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	// Protocol goroutines: engine event loop, state change dispatch,
	// metrics event loop, and the passive-side TCP listener.
	g.Go(func() error {
		c.engine.Run(gCtx)
		return nil
	})
	g.Go(func() error {
		c.manager.RunDispatch(gCtx)
		return nil
	})
	g.Go(func() error {
		collector.Run(gCtx, c.manager.StateChanges(), c.engine.SAEvents())
		return nil
	})
	g.Go(func() error {
		return c.manager.RunListener(gCtx, cfg.MSDP.ListenAddr)
	})

	startHTTPServers(gCtx, g, cfg, apiSrv, metricsSrv, logger)
	startDaemonGoroutines(gCtx, g, configPath, logLevel, c, logger)

	// Create the declarative peer set from config at startup.
	reconcilePeers(gCtx, cfg, c.manager, logger)
	applyLocalSources(cfg, c, logger)

	notifyReady(logger)

	// Shutdown goroutine: waits for context cancellation.
	g.Go(func() error {
		<-gCtx.Done()
		return gracefulShutdown(gCtx, c.manager, logger, fr, apiSrv, metricsSrv)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run servers: %w", err)
	}
	return nil
}

// startHTTPServers registers the API and metrics HTTP server goroutines.
func startHTTPServers(
	ctx context.Context,
	g *errgroup.Group,
	cfg *config.Config,
	apiSrv *http.Server,
	metricsSrv *http.Server,
	logger *slog.Logger,
) {
	lc := net.ListenConfig{}

	g.Go(func() error {
		logger.Info("API server listening", slog.String("addr", cfg.API.Addr))
		return listenAndServe(ctx, &lc, apiSrv, cfg.API.Addr)
	})

	g.Go(func() error {
		logger.Info("metrics server listening",
			slog.String("addr", cfg.Metrics.Addr),
			slog.String("path", cfg.Metrics.Path),
		)
		return listenAndServe(ctx, &lc, metricsSrv, cfg.Metrics.Addr)
	})
}

// startDaemonGoroutines registers the watchdog and SIGHUP reload goroutines.
func startDaemonGoroutines(
	ctx context.Context,
	g *errgroup.Group,
	configPath string,
	logLevel *slog.LevelVar,
	c *core,
	logger *slog.Logger,
) {
	g.Go(func() error {
		return runWatchdog(ctx, logger)
	})

	sigHUP := make(chan os.Signal, 1)
	signal.Notify(sigHUP, syscall.SIGHUP)
	g.Go(func() error {
		defer signal.Stop(sigHUP)
		handleSIGHUP(ctx, sigHUP, configPath, logLevel, c, logger)
		return nil
	})
}

// -------------------------------------------------------------------------
// Systemd Integration — sd_notify + watchdog
// -------------------------------------------------------------------------

// notifyReady sends READY=1 to systemd, indicating the daemon has
// completed initialization and is ready to serve.
func notifyReady(logger *slog.Logger) {
	sent, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		logger.Warn("failed to notify systemd readiness",
			slog.String("error", err.Error()),
		)
		return
	}
	if sent {
		logger.Info("notified systemd: READY")
	}
}

// notifyStopping sends STOPPING=1 to systemd, indicating the daemon
// is beginning graceful shutdown.
func notifyStopping(logger *slog.Logger) {
	sent, err := daemon.SdNotify(false, daemon.SdNotifyStopping)
	if err != nil {
		logger.Warn("failed to notify systemd stopping",
			slog.String("error", err.Error()),
		)
		return
	}
	if sent {
		logger.Info("notified systemd: STOPPING")
	}
}

// runWatchdog sends periodic watchdog keepalives to systemd.
// The interval is WatchdogSec/2 as recommended by the systemd documentation.
// If watchdog is not configured, the goroutine exits immediately.
func runWatchdog(ctx context.Context, logger *slog.Logger) error {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		logger.Warn("failed to check systemd watchdog",
			slog.String("error", err.Error()),
		)
		return nil
	}
	if interval == 0 {
		logger.Debug("systemd watchdog not configured, skipping keepalive")
		return nil
	}

	// Send keepalive at half the watchdog interval.
	tickInterval := interval / 2
	logger.Info("systemd watchdog enabled",
		slog.Duration("watchdog_sec", interval),
		slog.Duration("keepalive_interval", tickInterval),
	)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, wdErr := daemon.SdNotify(false, daemon.SdNotifyWatchdog); wdErr != nil {
				logger.Warn("failed to send watchdog keepalive",
					slog.String("error", wdErr.Error()),
				)
			}
		}
	}
}

// -------------------------------------------------------------------------
// SIGHUP Reload — log level + peer reconciliation
// -------------------------------------------------------------------------

// handleSIGHUP listens for SIGHUP signals and reloads configuration.
// On reload, the log level is updated dynamically via the shared
// LevelVar, declarative peers are reconciled (new peers created,
// removed or changed peers destroyed and recreated), and the static
// RPF route table is replaced.
// Blocks until the context is cancelled (graceful shutdown).
func handleSIGHUP(
	ctx context.Context,
	sigHUP <-chan os.Signal,
	configPath string,
	logLevel *slog.LevelVar,
	c *core,
	logger *slog.Logger,
) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sigHUP:
			logger.Info("received SIGHUP, reloading configuration")
			reloadConfig(ctx, configPath, logLevel, c, logger)
		}
	}
}

// reloadConfig loads a fresh configuration from the given path, updates
// the dynamic log level, replaces the static RPF routes, and reconciles
// declarative peers. Errors during reload are logged but do not stop
// the daemon -- the previous configuration remains in effect.
func reloadConfig(
	ctx context.Context,
	configPath string,
	logLevel *slog.LevelVar,
	c *core,
	logger *slog.Logger,
) {
	newCfg, err := loadConfig(configPath)
	if err != nil {
		logger.Error("failed to reload configuration, keeping current settings",
			slog.String("error", err.Error()),
		)
		return
	}

	// Update log level.
	oldLevel := logLevel.Level()
	newLevel := config.ParseLogLevel(newCfg.Log.Level)
	logLevel.Set(newLevel)

	logger.Info("configuration reloaded",
		slog.String("old_log_level", oldLevel.String()),
		slog.String("new_log_level", newLevel.String()),
	)

	// Replace the static RPF route table. Switching the resolver mode
	// itself requires a restart.
	if c.static != nil && newCfg.RPF.Mode == "static" {
		routes, err := config.StaticRoutes(newCfg.RPF.Static)
		if err != nil {
			logger.Error("invalid static RPF routes on reload, keeping current table",
				slog.String("error", err.Error()),
			)
		} else {
			c.static.Replace(routes)
			logger.Info("static RPF route table replaced",
				slog.Int("routes", len(routes)),
			)
		}
	}

	// Reconcile declarative peers and static local sources.
	reconcilePeers(ctx, newCfg, c.manager, logger)
	applyLocalSources(newCfg, c, logger)
}

// applyLocalSources diffs the statically configured local sources
// against the applied set and feeds the delta to the engine.
func applyLocalSources(cfg *config.Config, c *core, logger *slog.Logger) {
	desired, err := config.LocalSources(cfg.MSDP.LocalSources)
	if err != nil {
		logger.Error("invalid static local sources, keeping current set",
			slog.String("error", err.Error()),
		)
		return
	}

	want := make(map[config.SourceGroup]struct{}, len(desired))
	for _, sg := range desired {
		want[sg] = struct{}{}
	}

	var added, removed int
	for _, sg := range c.localSources {
		if _, ok := want[sg]; !ok {
			c.engine.LocalSourceInactive(sg.Source, sg.Group)
			removed++
		}
	}

	have := make(map[config.SourceGroup]struct{}, len(c.localSources))
	for _, sg := range c.localSources {
		have[sg] = struct{}{}
	}
	for _, sg := range desired {
		if _, ok := have[sg]; !ok {
			c.engine.LocalSourceActive(sg.Source, sg.Group)
			added++
		}
	}

	c.localSources = desired

	if added > 0 || removed > 0 {
		logger.Info("static local sources applied",
			slog.Int("added", added),
			slog.Int("removed", removed),
		)
	}
}

// reconcilePeers diffs the declarative peers from the config against
// the current peer set and creates/destroys peers as needed.
func reconcilePeers(
	ctx context.Context,
	cfg *config.Config,
	mgr *msdp.Manager,
	logger *slog.Logger,
) {
	desired, err := cfg.PeerConfigs()
	if err != nil {
		logger.Error("invalid peer configuration, skipping reconciliation",
			slog.String("error", err.Error()),
		)
		return
	}

	created, destroyed, err := mgr.ReconcilePeers(ctx, desired)
	if err != nil {
		logger.Error("peer reconciliation had errors",
			slog.String("error", err.Error()),
		)
	}

	logger.Info("peer reconciliation complete",
		slog.Int("created", created),
		slog.Int("destroyed", destroyed),
	)
}

// -------------------------------------------------------------------------
// Graceful Shutdown — drain peers + stop servers
// -------------------------------------------------------------------------

// gracefulShutdown performs an orderly shutdown: signals systemd, tears
// down peer sessions, dumps flight recorder state, then shuts down the
// HTTP servers.
//
// The parent context is already cancelled when this function is called.
// A fresh timeout context is created internally for server drain.
func gracefulShutdown(
	ctx context.Context,
	mgr *msdp.Manager,
	logger *slog.Logger,
	fr *trace.FlightRecorder,
	servers ...*http.Server,
) error {
	logger.Info("initiating graceful shutdown")
	notifyStopping(logger)

	// Tear peer sessions down; remote caches age our advertisements
	// out on their own, MSDP has no wire-level withdrawal to send.
	mgr.Close()

	// Stop flight recorder.
	if fr != nil {
		fr.Stop()
		logger.Debug("flight recorder stopped")
	}

	// Derive a fresh shutdown context from the parent (which is cancelled).
	// context.WithoutCancel detaches from the parent's cancellation so we
	// can enforce our own drain timeout.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	var shutdownErr error
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			shutdownErr = errors.Join(shutdownErr, fmt.Errorf("shutdown server: %w", err))
		}
	}
	return shutdownErr
}

// -------------------------------------------------------------------------
// Flight Recorder — Go 1.26 runtime/trace
// -------------------------------------------------------------------------

// startFlightRecorder initializes and starts the Go 1.26 FlightRecorder
// for post-mortem debugging of peer session failures. The recorder
// maintains a rolling window of execution trace data that can be dumped
// on demand.
func startFlightRecorder(logger *slog.Logger) *trace.FlightRecorder {
	fr := trace.NewFlightRecorder(trace.FlightRecorderConfig{
		MinAge:   flightRecorderMinAge,
		MaxBytes: flightRecorderMaxBytes,
	})

	if err := fr.Start(); err != nil {
		logger.Warn("failed to start flight recorder",
			slog.String("error", err.Error()),
		)
		return nil
	}

	logger.Info("flight recorder started",
		slog.Duration("min_age", flightRecorderMinAge),
		slog.Uint64("max_bytes", flightRecorderMaxBytes),
	)

	return fr
}

// -------------------------------------------------------------------------
// Server Setup
// -------------------------------------------------------------------------

// listenAndServe creates a TCP listener using the ListenConfig (for noctx
// compliance) and serves HTTP requests until the server is shut down.
func listenAndServe(ctx context.Context, lc *net.ListenConfig, srv *http.Server, addr string) error {
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve on %s: %w", addr, err)
	}
	return nil
}

// newMetricsServer creates an HTTP server for the Prometheus metrics endpoint.
func newMetricsServer(cfg config.MetricsConfig, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// newAPIServer creates an HTTP server for the status and control API.
// The handler is wrapped with h2c to support HTTP/2 without TLS, which is
// required for gRPC clients that connect over plaintext (e.g., gomsdpctl).
// Includes standard gRPC health checking (grpc.health.v1).
func newAPIServer(cfg config.APIConfig, c *core, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	// MSDP service handler.
	path, handler := server.New(c.manager, c.engine, logger,
		server.LoggingInterceptorOption(logger),
		server.RecoveryInterceptorOption(logger),
	)
	mux.Handle(path, handler)

	// gRPC health check handler (grpc.health.v1).
	// Reports SERVING for the overall server and the MSDP service.
	checker := grpchealth.NewStaticChecker(
		grpchealth.HealthV1ServiceName,
		"msdp.v1.MsdpService",
	)
	mux.Handle(grpchealth.NewHandler(checker))

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           h2c.NewHandler(mux, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// loadConfig loads configuration from a file path or returns defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config from %s: %w", path, err)
		}
		return cfg, nil
	}
	return config.DefaultConfig(), nil
}

// newLoggerWithLevel creates a structured logger using a shared LevelVar
// for dynamic log level changes via SIGHUP reload.
func newLoggerWithLevel(cfg config.LogConfig, level *slog.LevelVar) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
