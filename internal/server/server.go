package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	billingdomain "github.com/smallbiznis/cloudbill/internal/billing/domain"
	"github.com/smallbiznis/cloudbill/internal/config"
	"github.com/smallbiznis/cloudbill/internal/observability"
	obsmiddleware "github.com/smallbiznis/cloudbill/internal/observability/logger"
	obstracing "github.com/smallbiznis/cloudbill/internal/observability/tracing"
	pricedomain "github.com/smallbiznis/cloudbill/internal/price/domain"
	recorddomain "github.com/smallbiznis/cloudbill/internal/record/domain"
	resourcedomain "github.com/smallbiznis/cloudbill/internal/resource/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	billingSvc  billingdomain.Service
	priceSvc    pricedomain.Service
	resourceSvc resourcedomain.Service
	recordSvc   recorddomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	BillingSvc  billingdomain.Service
	PriceSvc    pricedomain.Service
	ResourceSvc resourcedomain.Service
	RecordSvc   recorddomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("http.server"),
		billingSvc:  p.BillingSvc,
		priceSvc:    p.PriceSvc,
		resourceSvc: p.ResourceSvc,
		recordSvc:   p.RecordSvc,
	}
}

func registerRoutes(s *Server) {
	s.RegisterAPIRoutes()
}

// RegisterAPIRoutes wires the metering API.
func (s *Server) RegisterAPIRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/events", s.PostEvent)

	v1.POST("/prices", s.CreatePrice)
	v1.GET("/prices", s.ListPrices)
	v1.GET("/prices/:id", s.GetPriceByID)

	v1.GET("/resources", s.ListResources)
	v1.GET("/resources/:resource_id", s.GetResourceByID)

	v1.GET("/records/:resource_id", s.ListRecordsByResourceID)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
