package main

import (
	"github.com/pulsefit/pulsefit/internal/clock"
	"github.com/pulsefit/pulsefit/internal/config"
	"github.com/pulsefit/pulsefit/internal/migration"
	"github.com/pulsefit/pulsefit/internal/observability"
	"github.com/pulsefit/pulsefit/internal/server"
	"github.com/pulsefit/pulsefit/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}
