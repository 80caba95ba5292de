package directory

import (
	"github.com/pulsefit/pulsefit/internal/directory/repository"
	"github.com/pulsefit/pulsefit/internal/directory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("directory.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
