package payout

import (
	"github.com/pulsefit/pulsefit/internal/payout/executor"
	"github.com/pulsefit/pulsefit/internal/payout/repository"
	"github.com/pulsefit/pulsefit/internal/payout/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payout.service",
	fx.Provide(repository.Provide),
	fx.Provide(executor.New),
	fx.Provide(service.New),
)
