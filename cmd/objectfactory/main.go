package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/km-arc/go-objectfactory/framework/app"
	"github.com/km-arc/go-objectfactory/framework/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(app.Options{
		Config: config.Options{
			Defaults: map[string]any{
				"app": map[string]any{"name": "objectfactory", "port": 8000},
				"log": map[string]any{"level": "info"},
			},
			Files:     []string{"config.yaml"},
			EnvFiles:  []string{".env"},
			EnvPrefix: "OBJECTFACTORY_",
		},
		Watch: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "objectfactory: %v\n", err)
		os.Exit(1)
	}

	if err := application.Register(ctx, &DemoServiceProvider{}); err != nil {
		fmt.Fprintf(os.Stderr, "objectfactory: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "objectfactory: %v\n", err)
		os.Exit(1)
	}
}
