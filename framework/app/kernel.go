package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-objectfactory/framework/config"
	"github.com/km-arc/go-objectfactory/framework/container"
	"github.com/km-arc/go-objectfactory/framework/logging"
	"github.com/km-arc/go-objectfactory/framework/metadata"
	"github.com/km-arc/go-objectfactory/framework/providers"
)

// Options configures New.
type Options struct {
	// Config is passed to config.Load.
	Config config.Options

	// Watch reloads the configuration when one of its files changes.
	Watch bool

	// Logger replaces the logger built from log.level and log.file.
	Logger *zap.Logger

	// Metadata replaces metadata.Default.
	Metadata *metadata.Store

	// ShutdownTimeout bounds Shutdown when Run returns. Default 10s.
	ShutdownTimeout time.Duration
}

// Application is the top-level application container.
// It embeds the object container so user code can call app.NewInstance()
// and app.Register() directly, like $app in Laravel's bootstrap/app.php.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	config  *config.Repository
	opts    Options
	watcher *config.Watcher
	cancel  context.CancelFunc
}

// New loads the configuration, builds the logger and the container, and
// registers the framework providers.
func New(opts Options) (*Application, error) {
	repo, err := config.Load(opts.Config)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger, err = logging.New(repo.String("log.level", "info"), repo.String("log.file", ""))
		if err != nil {
			return nil, fmt.Errorf("app: logger: %w", err)
		}
	}

	var copts []container.Option
	if opts.Metadata != nil {
		copts = append(copts, container.WithMetadata(opts.Metadata))
	}
	c := container.New(repo, logger, copts...)
	registry := container.NewProviderRegistry(c)

	a := &Application{
		Container: c,
		Providers: registry,
		config:    repo,
		opts:      opts,
	}

	// Register framework core providers
	ctx := context.Background()
	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{Repository: repo},
		&providers.InspectServiceProvider{},
	} {
		if err := registry.Register(ctx, p); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(ctx context.Context, provider container.ServiceProvider) error {
	return a.Providers.Register(ctx, provider)
}

// Boot runs the Boot() phase on all providers and starts the configuration
// watcher when asked to.
func (a *Application) Boot(ctx context.Context) error {
	if a.Providers.Booted() {
		return nil
	}
	if err := a.Providers.Boot(ctx); err != nil {
		return err
	}
	if a.opts.Watch {
		wctx, cancel := context.WithCancel(context.Background())
		w := config.NewWatcher(a.config, a.opts.Config, a.Logger())
		w.OnChange(func(*config.Repository) {
			a.Logger().Info("Configuration reloaded")
		})
		if err := w.Start(wctx); err != nil {
			cancel()
			return err
		}
		a.watcher, a.cancel = w, cancel
	}
	return nil
}

// Config returns the configuration repository.
func (a *Application) Config() *config.Repository { return a.config }

// Run boots the application (if needed), starts the inspection server
// unless inspect.enabled is false, and blocks until ctx is done. It then
// shuts everything down.
func (a *Application) Run(ctx context.Context) error {
	if err := a.Boot(ctx); err != nil {
		return err
	}
	if a.config.Bool("inspect.enabled", true) {
		if _, err := a.NewInstance(ctx, "InspectServer", container.WithName("default")); err != nil {
			return err
		}
	}

	a.Logger().Info("Application running",
		zap.String("name", a.config.String("app.name", "objectfactory")),
		zap.String("env", a.Environment()),
	)
	<-ctx.Done()

	timeout := a.opts.ShutdownTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	sctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	a.Shutdown(sctx)
	return nil
}

// Shutdown destroys every instance, forgets them, and stops the
// configuration watcher.
func (a *Application) Shutdown(ctx context.Context) {
	a.Logger().Info("Application shutting down")
	a.Destroy(ctx)
	a.Clear()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	_ = a.Logger().Sync()
}

// Environment returns app.env (default "production").
func (a *Application) Environment() string { return a.config.String("app.env", "production") }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.config.Bool("app.debug", false) }
func (a *Application) Version() string     { return "0.1.0" }
