package main

import (
	"context"
	"os"

	"parkwise/infrastructure/config"
	"parkwise/infrastructure/di"
	"parkwise/interfaces/cli"
)

func newBackend(ctx context.Context, cfg *config.Config) (*cli.Backend, error) {
	c, err := di.InitializeAdmin(ctx, cfg)
	if err != nil {
		return nil, err
	}
	b := &cli.Backend{
		Auth:      c.Auth,
		Buildings: c.Buildings,
		Offices:   c.Offices,
		Logger:    c.Logger,
	}
	if cfg.StoreBackend != config.StoreMemory {
		b.Tables = c.DynamoDB
	}
	return b, nil
}

func main() {
	if err := cli.NewRootCommand(newBackend).Execute(); err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
