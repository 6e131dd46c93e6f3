package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/iamavinashmourya/FarmCare/internal/app"
	"github.com/iamavinashmourya/FarmCare/internal/auth"
	"github.com/iamavinashmourya/FarmCare/internal/config"
	"github.com/iamavinashmourya/FarmCare/internal/controllers"
	"github.com/iamavinashmourya/FarmCare/internal/repositories"
	"github.com/iamavinashmourya/FarmCare/internal/routes"
	"github.com/iamavinashmourya/FarmCare/internal/services"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

const shutdownTimeout = 15 * time.Second

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize application:", err)
	}
	defer application.Close()

	clock := auth.SystemClock{}

	guard, err := auth.NewGuard(cfg.JWTSecret, cfg.TokenLifetimes(), application.Blacklist)
	if err != nil {
		utils.Logger.Fatal("Failed to create token guard:", err)
	}

	//----------------------------------------------------------------------
	// Repositories
	//----------------------------------------------------------------------
	userRepo := repositories.NewUserRepository(application.DB)
	schemeRepo := repositories.NewSchemeRepository(application.DB)
	priceRepo := repositories.NewPriceRepository(application.DB)
	articleRepo := repositories.NewArticleRepository(application.DB)
	newsRepo := repositories.NewNewsRepository(application.DB)
	uploadRepo := repositories.NewUploadRepository(application.DB)

	//----------------------------------------------------------------------
	// Services
	//----------------------------------------------------------------------
	accountService := services.NewAccountService(userRepo, guard, clock, cfg.AdminRegistrationKey)
	schemeService := services.NewSchemeService(schemeRepo, clock)
	priceService := services.NewPriceService(priceRepo, clock)
	contentService := services.NewContentService(articleRepo, newsRepo, clock)
	diagnosisService := services.NewDiagnosisService(
		services.NewOpenAIVisionAnalyzer(cfg.OpenAIAPIKey, cfg.OpenAIModel),
		uploadRepo,
		clock,
		cfg.MaxUploadBytes,
	)
	notificationService := services.NewNotificationService(userRepo)

	if cfg.OpenAIAPIKey == "" {
		utils.Logger.Warn("OPENAI_API_KEY not set; plant diagnosis returns a canned answer")
	}

	//----------------------------------------------------------------------
	// Router & Endpoints
	//----------------------------------------------------------------------
	router := routes.NewRouter(routes.Deps{
		Guard:              guard,
		Clock:              clock,
		LoginRatePerMinute: cfg.LoginRatePerMinute,
		Accounts:           controllers.NewAccountController(accountService),
		Schemes:            controllers.NewSchemeController(schemeService),
		Prices:             controllers.NewPriceController(priceService),
		Content:            controllers.NewContentController(contentService),
		Diagnosis:          controllers.NewDiagnosisController(diagnosisService, cfg.MaxUploadBytes),
		Notifications:      controllers.NewNotificationController(notificationService),
		Health:             controllers.NewHealthController(application.DB, clock),
	})

	//----------------------------------------------------------------------
	// Setup daily blacklist cleanup via cron
	//----------------------------------------------------------------------
	c := cron.New()
	if application.Pruner != nil {
		cleanupService := services.NewBlacklistCleanupService(application.Pruner, clock)
		_, schErr := c.AddFunc(cfg.BlacklistCleanupSchedule, func() {
			if e := cleanupService.CleanupDaily(context.Background()); e != nil {
				utils.Logger.WithError(e).Error("Scheduled blacklist cleanup failed")
			}
		})
		if schErr != nil {
			utils.Logger.WithError(schErr).Fatal("Failed to schedule blacklist cleanup job")
		}
	}
	c.Start()
	defer c.Stop()

	allowedOrigins := cfg.CORSAllowedOrigins
	if cfg.AppUrl != "" && !slices.Contains(allowedOrigins, cfg.AppUrl) {
		allowedOrigins = append(allowedOrigins, cfg.AppUrl)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           3600,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           co.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Logger.Fatal("Failed to start server:", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	utils.Logger.Infof("Received %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.WithError(err).Error("Graceful shutdown failed")
	}
}
