package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pulsefit/pulsefit/internal/config"
	"github.com/pulsefit/pulsefit/internal/directory"
	"github.com/pulsefit/pulsefit/internal/earnings"
	earningsdomain "github.com/pulsefit/pulsefit/internal/earnings/domain"
	"github.com/pulsefit/pulsefit/internal/observability"
	obslogger "github.com/pulsefit/pulsefit/internal/observability/logger"
	obsmetrics "github.com/pulsefit/pulsefit/internal/observability/metrics"
	"github.com/pulsefit/pulsefit/internal/payout"
	payoutdomain "github.com/pulsefit/pulsefit/internal/payout/domain"
	"github.com/pulsefit/pulsefit/internal/processor"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	processor.Module,
	directory.Module,
	earnings.Module,
	payout.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine      *gin.Engine
	earningsSvc earningsdomain.Service
	payoutSvc   payoutdomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	EarningsSvc earningsdomain.Service
	PayoutSvc   payoutdomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:      p.Gin,
		earningsSvc: p.EarningsSvc,
		payoutSvc:   p.PayoutSvc,
	}
}

func registerRoutes(s *Server) {
	v1 := s.engine.Group("/v1")
	creators := v1.Group("/creators/:creator_id")
	creators.GET("/earnings", s.GetEarnings)
	creators.POST("/payouts", s.RequestPayout)
	creators.GET("/payouts", s.ListPayouts)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
