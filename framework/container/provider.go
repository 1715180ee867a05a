package container

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups the classes of one module.
//
// Register() declares classes (and their annotations) on the container.
// Boot() is called after ALL providers have been registered, making it safe
// to create instances of any class inside Boot().
//
//	type StorageProvider struct{ container.BaseProvider }
//
//	func (p *StorageProvider) Register(app *container.Container) {
//	    app.Register(container.Define("Storage", NewStorage))
//	}
//
//	func (p *StorageProvider) Boot(ctx context.Context, app *container.Container) error {
//	    _, err := app.NewInstance(ctx, "Storage", container.WithName("default"))
//	    return err
//	}
type ServiceProvider interface {
	// Register adds classes to the container.
	// Do NOT create instances here; use Boot() for that.
	Register(app *Container)

	// Boot is called after all providers are registered.
	Boot(ctx context.Context, app *Container) error

	// Provides returns the class names this provider registers.
	// Used for deferred (lazy) provider loading.
	Provides() []string

	// IsDeferred returns true if this provider should be loaded lazily,
	// only when one of its Provides() classes is first looked up.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct that provides no-op implementations
// of Boot(), Provides(), and IsDeferred().
type BaseProvider struct{}

func (p *BaseProvider) Boot(context.Context, *Container) error { return nil }
func (p *BaseProvider) Provides() []string                      { return nil }
func (p *BaseProvider) IsDeferred() bool                        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred ones. It installs itself as the class registry's
// loader: the first lookup of a class a deferred provider provides
// registers (and, once booted, boots) that provider.
type ProviderRegistry struct {
	mu         sync.Mutex
	app        *Container
	eager      []ServiceProvider
	deferred   map[string]ServiceProvider // class name → provider
	booted     bool
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	r := &ProviderRegistry{
		app:        app,
		deferred:   make(map[string]ServiceProvider),
		registered: make(map[ServiceProvider]bool),
	}
	app.Registry().SetLoader(r.load)
	return r
}

// Register adds a provider and calls its Register() method (unless deferred).
// A provider registered after Boot is booted immediately.
func (r *ProviderRegistry) Register(ctx context.Context, provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		for _, name := range provider.Provides() {
			r.deferred[name] = provider
		}
		r.mu.Unlock()
		return nil
	}

	r.eager = append(r.eager, provider)
	booted := r.booted
	r.mu.Unlock()

	provider.Register(r.app)
	if booted {
		return r.bootOne(ctx, provider)
	}
	return nil
}

// load registers the deferred provider of name, if any, and returns the
// class it registered.
func (r *ProviderRegistry) load(name string) (Class, bool) {
	r.mu.Lock()
	provider, ok := r.deferred[name]
	if !ok {
		r.mu.Unlock()
		return nil, false
	}
	for _, n := range provider.Provides() {
		delete(r.deferred, n)
	}
	booted := r.booted
	r.mu.Unlock()

	r.app.Logger().Debug("Loading deferred provider", zap.String("class", name))
	provider.Register(r.app)
	if booted {
		if err := r.bootOne(context.Background(), provider); err != nil {
			r.app.Logger().Error("Failed to boot deferred provider", zap.String("class", name), zap.Error(err))
		}
	}
	return r.app.Registry().peek(name)
}

// Boot calls Boot() on all eager providers, in registration order.
// Must be called after ALL providers have been registered.
func (r *ProviderRegistry) Boot(ctx context.Context) error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	providers := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	for _, provider := range providers {
		if err := r.bootOne(ctx, provider); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProviderRegistry) bootOne(ctx context.Context, provider ServiceProvider) error {
	if err := provider.Boot(ctx, r.app); err != nil {
		return fmt.Errorf("container: boot %T: %w", provider, err)
	}
	return nil
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}
