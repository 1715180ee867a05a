// Package container provides an object factory: a class registry, a
// container of named instances, and the lifecycle (injection, initializers,
// destructors) that ties them together.
//
// # Overview
//
// Classes are registered under a canonical name. Instances are created on
// demand, named <ClassName>:<label>, and kept until the container is
// cleared. Asking for an existing name returns the existing instance.
//
// Annotations declared with package metadata (struct tags or the builder)
// tell the container what to inject into a new instance and which methods
// to call after injection and at teardown.
//
// # Container Lifecycle
//
//  1. Create: c := container.New(cfg, logger)
//  2. Register providers: registry.Register(ctx, &MyProvider{})
//  3. Boot: registry.Boot(ctx); instances may be created from here on
//  4. Serve requests
//  5. Tear down: c.Destroy(ctx); c.Clear()
//
// # Classes
//
//	// Built with new(T), named "Widget"
//	c.Register(container.ClassOf[Widget]())
//
//	// Built by a constructor taking positional arguments
//	c.Register(container.Define("Pool", func(args ...any) (*Pool, error) {
//	    size, err := container.ArgOr(args, 0, 8)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &Pool{Size: size}, nil
//	}))
//
// # Instances
//
//	// Named instance; a second call returns the same object
//	w, err := container.Make[*Widget](ctx, c, "Widget", container.WithName("main"))
//
//	// Lookup by full name, by class name (":default" first) or by type
//	w, ok := container.Get[*Widget](c, "Widget:main")
//	w, ok = container.Get[*Widget](c, "Widget")
//
// # Injection
//
//	type Service struct {
//	    Timeout int            `config:"service.timeout" default:"30"`
//	    Log     *zap.Logger    `logger:""`
//	    Repo    *Repository    `inject:""`
//	    Peer    *Service       `inject:"Service,name=peer,init=false"`
//	}
//
//	metadata.For[Service](nil).Init("Start").Destroy("Stop")
//
// Instances are tracked before their bindings are resolved, so two classes
// may inject each other: each receives the other's single instance.
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    app.Register(container.ClassOf[Mailer]())
//	}
//
//	func (p *AppServiceProvider) Boot(ctx context.Context, app *container.Container) error {
//	    _, err := app.NewInstance(ctx, "Mailer", container.WithName("default"))
//	    return err
//	}
//
// # Deferred Providers
//
//	type HeavyProvider struct{ container.BaseProvider }
//
//	func (p *HeavyProvider) IsDeferred() bool     { return true }
//	func (p *HeavyProvider) Provides() []string   { return []string{"Heavy"} }
//	func (p *HeavyProvider) Register(app *container.Container) {
//	    app.Register(container.ClassOf[Heavy]()) // only on first lookup of "Heavy"
//	}
package container
