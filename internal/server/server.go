package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/quotely/internal/config"
	followupdomain "github.com/smallbiznis/quotely/internal/followup/domain"
	leaddomain "github.com/smallbiznis/quotely/internal/lead/domain"
	"github.com/smallbiznis/quotely/internal/observability/logger"
	"github.com/smallbiznis/quotely/internal/observability/metrics"
	"github.com/smallbiznis/quotely/internal/observability/tracing"
	organizationdomain "github.com/smallbiznis/quotely/internal/organization/domain"
	productdomain "github.com/smallbiznis/quotely/internal/product/domain"
	quotationdomain "github.com/smallbiznis/quotely/internal/quotation/domain"
	tpldomain "github.com/smallbiznis/quotely/internal/quotetemplate/domain"
	"github.com/smallbiznis/quotely/internal/render"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EngineParams struct {
	fx.In

	Config      config.Config
	Log         *zap.Logger
	HTTPMetrics *metrics.HTTPMetrics `optional:"true"`
}

// NewEngine builds the gin engine with the request logging, tracing and
// metrics middleware installed.
func NewEngine(p EngineParams) *gin.Engine {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(tracing.GinMiddleware())
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		Logger:    p.Log,
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	engine.Use(metrics.GinMiddleware(p.HTTPMetrics))
	return engine
}

type Params struct {
	fx.In

	Engine *gin.Engine
	Config config.Config
	Log    *zap.Logger
	DB     *gorm.DB

	OrganizationSvc organizationdomain.Service
	ProductSvc      productdomain.Service
	LeadSvc         leaddomain.Service
	FollowupSvc     followupdomain.Service
	QuotationSvc    quotationdomain.Service
	TemplateSvc     tpldomain.Service
	RenderSvc       render.Service
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger
	db     *gorm.DB

	organizationSvc organizationdomain.Service
	productSvc      productdomain.Service
	leadSvc         leaddomain.Service
	followupSvc     followupdomain.Service
	quotationSvc    quotationdomain.Service
	templateSvc     tpldomain.Service
	renderSvc       render.Service

	renderLimiter *rateLimiter
}

func NewServer(p Params) *Server {
	return &Server{
		engine:          p.Engine,
		cfg:             p.Config,
		log:             p.Log.Named("http.server"),
		db:              p.DB,
		organizationSvc: p.OrganizationSvc,
		productSvc:      p.ProductSvc,
		leadSvc:         p.LeadSvc,
		followupSvc:     p.FollowupSvc,
		quotationSvc:    p.QuotationSvc,
		templateSvc:     p.TemplateSvc,
		renderSvc:       p.RenderSvc,
		renderLimiter:   newRateLimiter(p.Config.Render.RateLimit, p.Config.Render.RateWindow),
	}
}

// Handler exposes the engine, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) RegisterAPIRoutes() {
	s.engine.GET("/healthz", s.Health)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api")
	if !s.cfg.IsProduction() {
		api.POST("/test/cleanup", s.TestCleanup)
	}

	api.Use(s.OrgRequired())

	api.GET("/organization", s.GetOrganization)
	api.PATCH("/organization", s.UpdateOrganization)

	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.GET("/products/:id", s.GetProductByID)
	api.PATCH("/products/:id", s.UpdateProduct)

	api.GET("/leads", s.ListLeads)
	api.POST("/leads", s.CreateLead)
	api.GET("/leads/:id", s.GetLeadByID)
	api.PATCH("/leads/:id", s.UpdateLead)
	api.GET("/leads/:id/timeline", s.GetLeadTimeline)
	api.POST("/leads/:id/notes", s.AddLeadNote)

	api.GET("/followups", s.ListFollowups)
	api.POST("/followups", s.CreateFollowup)
	api.GET("/followups/:id", s.GetFollowupByID)
	api.POST("/followups/:id/remarks", s.AddFollowupRemark)
	api.POST("/followups/:id/close", s.CloseFollowup)

	limited := s.renderLimiter.Middleware()

	api.GET("/quotations", s.ListQuotations)
	api.POST("/quotations", s.CreateQuotation)
	api.POST("/quotations/preview", s.PreviewQuotation)
	api.POST("/quotations/preview/render", limited, s.RenderQuotationPreview)
	api.GET("/quotations/:id", s.GetQuotationByID)
	api.PUT("/quotations/:id", s.UpdateQuotation)
	api.DELETE("/quotations/:id", s.DeleteQuotation)
	api.PATCH("/quotations/:id/status", s.UpdateQuotationStatus)
	api.POST("/quotations/:id/items", s.AddQuotationItem)
	api.PATCH("/quotations/:id/items/:index", s.UpdateQuotationItem)
	api.DELETE("/quotations/:id/items/:index", s.RemoveQuotationItem)
	api.GET("/quotations/:id/render", limited, s.RenderQuotation)
	api.POST("/quotations/:id/export", limited, s.ExportQuotation)

	api.GET("/quotation_templates", s.ListQuotationTemplates)
	api.POST("/quotation_templates", s.CreateQuotationTemplate)
	api.GET("/quotation_templates/:id", s.GetQuotationTemplateByID)
	api.PATCH("/quotation_templates/:id", s.UpdateQuotationTemplate)
	api.DELETE("/quotation_templates/:id", s.DeleteQuotationTemplate)
	api.POST("/quotation_templates/:id/default", s.SetDefaultQuotationTemplate)
}

// Health reports whether the database answers.
func (s *Server) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		s.log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RunHTTP serves the engine for the lifetime of the fx application.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, s *Server) {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.HTTPPort),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("http server shutting down")
			return srv.Shutdown(ctx)
		},
	})
}
