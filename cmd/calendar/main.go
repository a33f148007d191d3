package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/facultyhub/calendar_engine/internal/app"
	"github.com/facultyhub/calendar_engine/internal/config"
	"github.com/facultyhub/calendar_engine/internal/grid"
	"github.com/facultyhub/calendar_engine/internal/model"
	"github.com/facultyhub/calendar_engine/internal/recurrence"
	"github.com/facultyhub/calendar_engine/internal/render"
	"github.com/facultyhub/calendar_engine/internal/repository"
	"github.com/facultyhub/calendar_engine/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Sugar().Infow("Starting calendar engine",
		"environment", cfg.Environment,
		"grid_hours", cfg.GridStartHour, "grid_end", cfg.GridEndHour,
		"slot_minutes", cfg.SlotMinutes)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, "migrations", logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	gridCfg, err := grid.NewConfig(cfg.GridStartHour, cfg.GridEndHour, cfg.SlotMinutes, cfg.Timezone)
	if err != nil {
		logger.Fatal("Invalid grid configuration", zap.Error(err))
	}

	entryRepo := repository.NewEntryRepository(pool, logger)
	directoryRepo := repository.NewDirectoryRepository(pool, logger)
	expander := recurrence.NewExpander(logger)

	selector := model.ViewSelector{Role: model.RoleProfessor}
	views := service.NewViewService(entryRepo, directoryRepo, expander, gridCfg, selector, logger)

	if err := views.Today(ctx); err != nil {
		logger.Fatal("Failed to build current week", zap.Error(err))
	}

	week := views.Current()
	logger.Info("Week grid built",
		zap.Time("window_start", week.Window.Start),
		zap.Int("slots_per_day", len(week.Slots)))

	image, err := render.WeekImage(week, gridCfg, time.Now().In(cfg.Timezone))
	if err != nil {
		logger.Fatal("Failed to render week image", zap.Error(err))
	}

	if err := os.WriteFile(cfg.WeekImagePath, image.Bytes(), 0o644); err != nil {
		logger.Fatal("Failed to write week image", zap.Error(err))
	}

	logger.Info("Week image written", zap.String("path", cfg.WeekImagePath))
}
