package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/esengine/nova-ecs-editor/builtin"
	"github.com/esengine/nova-ecs-editor/catalog"
	"github.com/esengine/nova-ecs-editor/component"
	"github.com/esengine/nova-ecs-editor/componentregistry"
	"github.com/esengine/nova-ecs-editor/config"
	"github.com/esengine/nova-ecs-editor/errors"
	"github.com/esengine/nova-ecs-editor/export"
	"github.com/esengine/nova-ecs-editor/gateway"
	"github.com/esengine/nova-ecs-editor/health"
	"github.com/esengine/nova-ecs-editor/metadata"
	"github.com/esengine/nova-ecs-editor/metric"
	"github.com/esengine/nova-ecs-editor/natsclient"
	"github.com/esengine/nova-ecs-editor/pkg/retry"
	"github.com/esengine/nova-ecs-editor/plugin"
	"github.com/esengine/nova-ecs-editor/session"
)

// editorWorld is the world handed to plugins installed by the service itself
type editorWorld struct{ name string }

func (w editorWorld) Name() string { return w.name }

// App wires the editor registry service together
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *metadata.Store
	registry   *component.Registry
	metrics    *metric.MetricsRegistry
	dispatcher *plugin.Dispatcher
	sessions   *session.Manager
	health     *health.Monitor
	nats       *natsclient.Client
	catalog    *catalog.Store
}

// newApp builds the default store and registry and populates them
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{
		cfg:    cfg,
		logger: logger,
		store:  metadata.NewStore(),
	}

	var core *metric.Metrics
	if cfg.Metrics.Enabled {
		app.metrics = metric.NewMetricsRegistry()
		core = app.metrics.CoreMetrics()
	}

	opts := []component.Option{
		component.WithLogger(logger.With("component", "registry")),
		component.WithMetrics(core),
	}
	if cfg.NATS.URL != "" {
		if err := app.connectNATS(ctx); err != nil {
			// Registration events are optional; keep serving without them
			logger.Warn("NATS unavailable, registration events disabled",
				"error", err)
		} else {
			opts = append(opts, component.WithPublisher(
				component.NewNATSPublisher(app.natsConn(), cfg.NATS.SubjectPrefix, logger)))
		}
	}

	app.registry = component.NewRegistry(app.store, opts...)
	app.dispatcher = plugin.NewDispatcher(logger.With("component", "plugins"), core)
	app.sessions = session.NewManager(app.store, logger.With("component", "sessions"), core,
		component.WithLogger(logger.With("component", "session-registry")))

	app.health = health.NewMonitor()
	app.health.Register(health.RegistryCheck(app.registry))
	app.health.Register(health.NATSCheck(app.natsConn()))

	if err := app.populate(ctx); err != nil {
		app.Close()
		return nil, err
	}
	if err := app.mirrorCatalog(ctx); err != nil {
		logger.Warn("Component catalog mirror failed", "error", err)
	}
	return app, nil
}

func (a *App) natsConn() *nats.Conn {
	if a.nats == nil {
		return nil
	}
	return a.nats.Conn()
}

func (a *App) connectNATS(ctx context.Context) error {
	client, err := natsclient.NewClient(a.cfg.NATS.URL,
		natsclient.WithName(appName),
		natsclient.WithTimeout(a.cfg.NATSTimeout()),
		natsclient.WithLogger(a.logger.With("component", "nats")))
	if err != nil {
		return err
	}
	err = retry.Do(ctx, retry.DefaultConfig(), func(ctx context.Context) error {
		connectCtx, cancel := context.WithTimeout(ctx, a.cfg.NATSTimeout())
		defer cancel()
		return client.Connect(connectCtx)
	})
	if err != nil {
		return err
	}
	a.nats = client
	return nil
}

// mirrorCatalog syncs the default registry into the configured KV bucket
func (a *App) mirrorCatalog(ctx context.Context) error {
	if a.nats == nil || a.cfg.NATS.CatalogBucket == "" {
		return nil
	}
	store, err := catalog.Open(ctx, a.nats, a.cfg.NATS.CatalogBucket)
	if err != nil {
		return err
	}
	var result catalog.SyncResult
	err = retry.Do(ctx, retry.DefaultConfig(), func(ctx context.Context) error {
		var syncErr error
		result, syncErr = store.Sync(ctx, a.registry)
		return syncErr
	})
	if err != nil {
		return err
	}
	a.catalog = store
	a.logger.Info("Mirrored component catalog",
		"bucket", a.cfg.NATS.CatalogBucket, "written", result.Written, "deleted", result.Deleted)
	return nil
}

// EditorComponentRegistry returns the default registry of this process
func (a *App) EditorComponentRegistry() *component.Registry {
	return a.registry
}

// populate declares the builtin components and registers them, either by
// discovery sweep or through plugin installation.
func (a *App) populate(ctx context.Context) error {
	if err := builtin.Declare(a.store); err != nil {
		return errors.WrapFatal(err, "App", "populate", "builtin declaration")
	}

	if a.cfg.Registry.Discover {
		n := componentregistry.DiscoverAndRegisterComponents(a.registry)
		a.logger.Info("Discovered components", "registered", n)
		return nil
	}

	var plugins []plugin.Plugin
	for _, p := range []plugin.Plugin{builtin.CorePlugin()} {
		if a.cfg.PluginEnabled(p.Metadata().Name) {
			plugins = append(plugins, p)
		}
	}
	if err := componentregistry.RegisterPlugins(ctx, a.registry, a.dispatcher, editorWorld{name: appName}, plugins...); err != nil {
		return err
	}
	a.logger.Info("Installed plugins", "plugins", len(plugins), "components", a.registry.Len())
	return nil
}

// Export writes a snapshot of the default registry
func (a *App) Export(w io.Writer, format string) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	return export.WriteRegistry(w, a.registry, f)
}

// Handler returns the inspector API
func (a *App) Handler() http.Handler {
	opts := []gateway.Option{
		gateway.WithLogger(a.logger.With("component", "gateway")),
		gateway.WithSessions(a.sessions),
		gateway.WithHealth(a.health, appName),
	}
	if a.catalog != nil {
		opts = append(opts, gateway.WithCatalog(a.catalog))
	}
	gwConfig := gateway.Config{
		EnableCORS:  len(a.cfg.HTTP.CORSOrigins) > 0,
		CORSOrigins: a.cfg.HTTP.CORSOrigins,
	}
	if a.metrics != nil {
		gwConfig.MetricsPath = a.cfg.Metrics.Path
		opts = append(opts, gateway.WithMetrics(a.metrics))
	}
	opts = append(opts, gateway.WithConfig(gwConfig))
	return gateway.New(a.registry, opts...).Handler()
}

// Serve runs the inspector API until ctx is cancelled
func (a *App) Serve(ctx context.Context, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: a.cfg.HTTPReadTimeout(),
		ReadTimeout:       a.cfg.HTTPReadTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Inspector API listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.WrapFatal(err, "App", "Serve", "HTTP listen")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// Close releases external connections
func (a *App) Close() {
	if a.nats != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.NATSTimeout())
		defer cancel()
		if err := a.nats.Close(ctx); err != nil {
			a.logger.Warn("NATS drain failed", "error", err)
		}
		a.nats = nil
	}
}
