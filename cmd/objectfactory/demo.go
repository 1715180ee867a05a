package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/km-arc/go-objectfactory/framework/container"
	"github.com/km-arc/go-objectfactory/framework/metadata"
	"github.com/km-arc/go-objectfactory/framework/validation"
)

// Ping and Pong inject each other.
type Ping struct {
	Pong *Pong              `inject:""`
	Log  *zap.SugaredLogger `logger:""`
}

type Pong struct {
	Ping *Ping `inject:""`
}

func (p *Ping) Ready() {
	p.Log.Infow("Ping ready", "pong", p.Pong != nil, "loop", p.Pong.Ping == p)
}

// Greeter is bound to the greeter.* configuration.
type Greeter struct {
	container.Managed

	Greeting string      `config:"greeter.greeting" default:"Hello"`
	Owner    string      `config:"greeter.owner" default:"ops@example.com"`
	Log      *zap.Logger `logger:""`
}

func (g *Greeter) Start(ctx context.Context) error {
	if err := validation.Validate(nil, g); err != nil {
		return err
	}
	g.Log.Info(g.Greet("world"), zap.String("instance", g.InstanceName()))
	return nil
}

func (g *Greeter) Stop() {
	g.Log.Info("Goodbye", zap.String("instance", g.InstanceName()))
}

func (g *Greeter) Greet(name string) string {
	return fmt.Sprintf("%s, %s!", g.Greeting, name)
}

// DemoServiceProvider declares the demo classes and creates one of each.
type DemoServiceProvider struct {
	container.BaseProvider
}

func (p *DemoServiceProvider) Register(app *container.Container) {
	metadata.For[Ping](app.Metadata()).Init("Ready")
	metadata.For[Greeter](app.Metadata()).
		Init("Start").
		Destroy("Stop").
		Validator("Owner", validation.CheckEmail).
		Validator("Greeting", validation.CheckNotEmpty)

	app.Register(container.ClassOf[Ping]())
	app.Register(container.ClassOf[Pong]())
	app.Register(container.ClassOf[Greeter]())
}

func (p *DemoServiceProvider) Boot(ctx context.Context, app *container.Container) error {
	for _, class := range []string{"Ping", "Greeter"} {
		if _, err := app.NewInstance(ctx, class, container.WithName("default")); err != nil {
			return err
		}
	}
	return nil
}
