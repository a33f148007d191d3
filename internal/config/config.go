package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string
	Environment   string
	LogLevel      string
	GridStartHour int
	GridEndHour   int
	SlotMinutes   int
	Timezone      *time.Location
	WeekImagePath string
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	// Читаем напрямую из переменных окружения (после godotenv.Load они там)
	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		Environment:   os.Getenv("ENV"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		WeekImagePath: os.Getenv("WEEK_IMAGE_PATH"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.WeekImagePath == "" {
		cfg.WeekImagePath = "week.png"
	}

	var err error
	if cfg.GridStartHour, err = intEnv("GRID_START_HOUR", 8); err != nil {
		return nil, err
	}
	if cfg.GridEndHour, err = intEnv("GRID_END_HOUR", 20); err != nil {
		return nil, err
	}
	if cfg.SlotMinutes, err = intEnv("SLOT_MINUTES", 30); err != nil {
		return nil, err
	}

	tz := os.Getenv("TIMEZONE")
	if tz == "" {
		cfg.Timezone = time.UTC
	} else {
		cfg.Timezone, err = time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
		}
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// intEnv читает целочисленную переменную окружения с дефолтом
func intEnv(name string, def int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return value, nil
}
