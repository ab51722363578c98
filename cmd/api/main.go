package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/nabl-labs/accounts-api/internal/application/auth"
	"github.com/nabl-labs/accounts-api/internal/application/usecase"
	"github.com/nabl-labs/accounts-api/internal/infrastructure/mail"
	"github.com/nabl-labs/accounts-api/internal/infrastructure/postgres"
	httpRouter "github.com/nabl-labs/accounts-api/internal/interfaces/http"
	"github.com/nabl-labs/accounts-api/pkg/config"
	"github.com/nabl-labs/accounts-api/pkg/logger"
	"github.com/nabl-labs/accounts-api/pkg/password"
	"github.com/nabl-labs/accounts-api/pkg/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	if err := postgres.RunMigrations(ctx, cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("database migrations")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	orgRepo := postgres.NewOrganizationRepository(pool)
	keyRepo := postgres.NewKeyRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	tokens := token.NewManager(token.Config{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
		Issuer:        cfg.JWT.Issuer,
	})
	hasher, err := password.NewHasher(cfg.Security.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("configure password hasher")
	}
	mailer := mail.NewMailer(cfg.SMTP)

	authUC := auth.NewAuthUseCase(userRepo, txRunner, tokens, hasher, mailer, cfg.Frontend.URL)
	userUC := usecase.NewUserUseCase(userRepo)
	orgUC := usecase.NewOrganizationUseCase(orgRepo, userRepo)
	keyUC := usecase.NewKeyUseCase(keyRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.CORSOrigin,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		UserUC:         userUC,
		OrganizationUC: orgUC,
		KeyUC:          keyUC,
		LocationUC:     locationUC,
		Log:            log,
		Production:     cfg.App.IsProduction(),
		MinPassword:    cfg.Security.MinPasswordLength,
		CookieMaxAge:   cfg.Security.CookieMaxAge,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
