// Package server exposes the services as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fundbridge/config"
	"fundbridge/observability"
	"fundbridge/reports"
	"fundbridge/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// Services are the operations the HTTP handlers call into
type Services struct {
	Auth          service.AuthService
	Users         service.UserService
	Pitches       service.PitchService
	Investments   service.InvestmentService
	Distributions service.DistributionService
	Portfolios    service.PortfolioService
	Wallet        service.WalletService
	Campaigns     service.AdCampaignService
}

// Server is the HTTP front of the platform
type Server struct {
	cfg      *config.Config
	services Services
	metrics  *observability.MetricsProvider
	chart    *reports.HoldingsChart
	engine   *gin.Engine
	now      func() time.Time
}

// New builds the gin engine with all middleware and routes
func New(cfg *config.Config, services Services, metrics *observability.MetricsProvider) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:      cfg,
		services: services,
		metrics:  metrics,
		chart:    reports.NewHoldingsChart(),
		engine:   gin.New(),
		now:      time.Now,
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(requestLogger())
	s.engine.Use(requestMetrics(metrics))
	s.engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", apiKeyHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s.routes()
	return s
}

// Handler returns the engine as an http.Handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP on the configured address until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", httpServer.Addr).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")
	api.Use(apiKey(s.cfg.PublicAPIKey))

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/signup", s.signUp)
		auth.POST("/signin", s.signIn)
		auth.POST("/signout", s.signOut)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(authenticate(s.services.Auth))
	{
		protected.GET("/me", s.me)

		protected.GET("/pitches", s.browsePitches)
		protected.GET("/pitches/:id", s.getPitch)
		protected.GET("/pitches/:id/distributions", s.getDistributions)
		protected.GET("/pitches/:id/distributions/:did/payouts", s.getDistributionPayouts)

		protected.POST("/wallet/deposit", s.deposit)
		protected.POST("/wallet/withdraw", s.withdraw)
		protected.GET("/wallet/transactions", s.getTransactions)

		business := protected.Group("")
		business.Use(requireRole("business"))
		{
			business.GET("/business/profile", s.getBusinessProfile)
			business.PUT("/business/profile", s.upsertBusinessProfile)
			business.GET("/business/dashboard", s.getDashboard)

			business.POST("/pitches", s.createPitch)
			business.PUT("/pitches/:id", s.updatePitch)
			business.POST("/pitches/:id/status", s.changePitchStatus)
			business.GET("/pitches/:id/investors", s.getPitchInvestors)
			business.POST("/pitches/:id/distributions", s.declareDistribution)

			business.POST("/campaigns", s.createCampaign)
			business.GET("/campaigns", s.getCampaigns)
			business.POST("/campaigns/:id/status", s.changeCampaignStatus)
		}

		investor := protected.Group("")
		investor.Use(requireRole("investor"))
		{
			investor.POST("/pitches/:id/investments", s.invest)
			investor.GET("/investments", s.getInvestments)
			investor.GET("/portfolio", s.getPortfolio)
			investor.GET("/portfolio/statement.pdf", s.getStatement)
			investor.GET("/portfolio/chart.png", s.getChart)
			investor.GET("/payouts", s.getPayouts)
		}
	}
}
