package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/amartel/changelogd/internal/adapter/ai"
	"github.com/amartel/changelogd/internal/adapter/github"
	"github.com/amartel/changelogd/internal/adapter/store"
	"github.com/amartel/changelogd/internal/adapter/vcs"
	"github.com/amartel/changelogd/internal/handler"
	"github.com/amartel/changelogd/internal/middleware"
	"github.com/amartel/changelogd/internal/service"
	"github.com/amartel/changelogd/pkg/config"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("starting changelogd",
		"port", cfg.Port,
		"model", cfg.ModelName,
		"clone_base", cfg.CloneBasePath,
	)

	// ── Database ─────────────────────────────────────────────────────────
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	if err := pgStore.EnsureSchema(context.Background()); err != nil {
		slog.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	// ── Adapters ─────────────────────────────────────────────────────────
	hostClient := github.NewClient(cfg.HostBaseURL)
	gitDiffs := vcs.NewGitProvider()
	model := ai.NewOpenAIProvider(ai.OpenAIConfig{
		BaseURL:     cfg.ModelBaseURL,
		APIKey:      cfg.ModelAPIKey,
		Model:       cfg.ModelName,
		MaxTokens:   cfg.ModelMaxTokens,
		Temperature: float32(cfg.ModelTemperature),
	})

	// ── Services ─────────────────────────────────────────────────────────
	changelogService := service.NewChangelogService(
		pgStore, pgStore, hostClient, model, gitDiffs, cfg.CloneBasePath,
	)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))
	app.Use(middleware.AuditMiddleware(pgStore))

	// Health check
	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"app":    cfg.AppName,
		})
	})

	// ── Protected Routes ─────────────────────────────────────────────────
	jwtMiddleware := middleware.JWTMiddleware(middleware.JWTConfig{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
	})

	api := app.Group("/api/v1", jwtMiddleware)

	changelogHandler := handler.NewChangelogHandler(changelogService)
	changelogHandler.Register(api)

	commitsHandler := handler.NewCommitsHandler(hostClient)
	commitsHandler.Register(api)

	auditHandler := handler.NewAuditHandler(pgStore)
	auditHandler.Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
