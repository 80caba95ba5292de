package processor

import (
	"github.com/pulsefit/pulsefit/internal/config"
	"github.com/pulsefit/pulsefit/internal/processor/domain"
	"github.com/pulsefit/pulsefit/internal/processor/stripe"
	"go.uber.org/fx"
)

var Module = fx.Module("processor.client",
	fx.Provide(func(cfg config.Config) domain.Client {
		return stripe.New(cfg.ProcessorAPIKey, cfg.ProcessorBaseURL)
	}),
)
