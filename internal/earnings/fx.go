package earnings

import (
	"github.com/pulsefit/pulsefit/internal/earnings/repository"
	"github.com/pulsefit/pulsefit/internal/earnings/service"
	"go.uber.org/fx"
)

var Module = fx.Module("earnings.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
