// Vehicle Listing Scraper API
// @title Vehicle Listing Scraper API
// @version 1.0.0
// @description Extracts normalised vehicle listings from marketplace and dealer pages
// @host localhost:8080
// @BasePath /

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"

	_ "listingscraper/docs"
	"listingscraper/internal/app"
	"listingscraper/internal/config"
	"listingscraper/internal/handlers"
	"listingscraper/internal/middleware"
)

// Scrapes are slow and each one may hold a whole browser
const maxConcurrentScrapes = 4

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(cfg)
	if err != nil {
		slog.Error("failed to build scraper", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	r := gin.Default()

	// Configure trusted proxies for Cloudflare Tunnels
	r.SetTrustedProxies([]string{
		"127.0.0.1",
		"::1",
		"172.16.0.0/12",  // Docker networks
		"10.0.0.0/8",     // Private networks
		"192.168.0.0/16", // Private networks
	})

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Admin-Key", middleware.RequestIDHeader}
	r.Use(cors.New(corsConfig))

	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.HTTPMethodFilter([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"}))
	r.Use(middleware.UserAgentFilter())

	limiter := middleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	scrapeHandler := handlers.NewScrapeHandler(a.Router, a.Decoder)

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/", scrapeHandler.Root)

	api := r.Group("/api")
	{
		api.GET("/health", scrapeHandler.Health)
		api.GET("/sites", scrapeHandler.Sites)
		api.GET("/vin/:vin", scrapeHandler.DecodeVIN)
		api.POST("/scrape",
			middleware.RateLimit(limiter),
			middleware.ConcurrencyLimit(maxConcurrentScrapes),
			scrapeHandler.Scrape)
	}

	if cfg.AdminEnabled() {
		adminHandler := handlers.NewAdminHandler(a.DB)
		admin := api.Group("/admin", middleware.AdminKey(cfg.AdminKeyHash))
		{
			admin.GET("/vin", adminHandler.ListPins)
			admin.PUT("/vin/:vin", adminHandler.PinVIN)
			admin.DELETE("/vin/:vin", adminHandler.UnpinVIN)
		}
		slog.Info("admin routes enabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("server starting", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
