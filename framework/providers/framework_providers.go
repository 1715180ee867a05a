package providers

import (
	"context"

	"github.com/km-arc/go-objectfactory/framework/config"
	"github.com/km-arc/go-objectfactory/framework/container"
	"github.com/km-arc/go-objectfactory/framework/inspect"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider makes the loaded configuration a managed instance.
//
// Classes:
//   - "Config"  → *config.Repository (Config:default)
//
// Inject it with `inject:"Config"`; the whole repository is also available
// through `config:""`.
type ConfigServiceProvider struct {
	container.BaseProvider
	Repository *config.Repository
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	repo := p.Repository
	app.Register(container.Define("Config", func(...any) (*config.Repository, error) {
		return repo, nil
	}))
}

func (p *ConfigServiceProvider) Boot(ctx context.Context, app *container.Container) error {
	_, err := app.NewInstance(ctx, "Config", container.WithName("default"))
	return err
}

// ── InspectServiceProvider ────────────────────────────────────────────────────

// InspectServiceProvider registers the HTTP inspection server. It is
// deferred: nothing is registered until "InspectServer" is first looked up.
//
// Classes:
//   - "InspectServer"  → *inspect.Server
//
// Configuration keys:
//   - app.port      (default: 8000)
//   - inspect.host  (default: "127.0.0.1")
type InspectServiceProvider struct {
	container.BaseProvider
}

func (p *InspectServiceProvider) Register(app *container.Container) {
	inspect.Annotate(app.Metadata())
	app.Register(container.ClassOf[inspect.Server](), "InspectServer")
}

func (p *InspectServiceProvider) IsDeferred() bool   { return true }
func (p *InspectServiceProvider) Provides() []string { return []string{"InspectServer"} }
