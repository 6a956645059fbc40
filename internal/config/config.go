package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	domain "github.com/theodore333/vayne-study-sub002/internal/domain/study"
	study "github.com/theodore333/vayne-study-sub002/internal/modules/study"
	"github.com/theodore333/vayne-study-sub002/internal/platform/envutil"
)

// Config is the process configuration: defaults, overridden by an optional
// YAML file, overridden by environment variables.
type Config struct {
	HTTPPort     string   `yaml:"http_port"`
	LogMode      string   `yaml:"log_mode"`
	CORSOrigins  []string `yaml:"cors_origins"`
	RedisAddr    string   `yaml:"redis_addr"`
	PlanCacheTTL int      `yaml:"plan_cache_ttl_seconds"`

	Goals      domain.StudyGoals      `yaml:"goals"`
	Prediction study.PredictionParams `yaml:"prediction"`
}

func defaults() Config {
	return Config{
		HTTPPort: "8080",
		LogMode:  "development",
		CORSOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		PlanCacheTTL: 300,
		Goals:        domain.DefaultGoals(),
		Prediction:   study.DefaultPredictionParams(),
	}
}

// Load builds the config. path may be empty; a missing file is not an error,
// a malformed file is.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.HTTPPort = envutil.String("PORT", cfg.HTTPPort)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.RedisAddr = envutil.String("REDIS_ADDR", cfg.RedisAddr)
	cfg.PlanCacheTTL = envutil.Int("PLAN_CACHE_TTL", cfg.PlanCacheTTL)
	if origins := envutil.String("CORS_ORIGINS", ""); origins != "" {
		parts := strings.Split(origins, ",")
		cfg.CORSOrigins = cfg.CORSOrigins[:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, p)
			}
		}
	}

	cfg.Goals.DailyMinutes = envutil.Int("DAILY_MINUTES", cfg.Goals.DailyMinutes)
	cfg.Goals.WeekendMinutes = envutil.Int("WEEKEND_MINUTES", cfg.Goals.WeekendMinutes)
	cfg.Goals.VacationMode = envutil.Bool("VACATION_MODE", cfg.Goals.VacationMode)
	cfg.Goals.VacationMultiplier = envutil.Float("VACATION_MULTIPLIER", cfg.Goals.VacationMultiplier)
	cfg.Goals.MaxReviewsPerDay = envutil.Int("MAX_REVIEWS_PER_DAY", cfg.Goals.MaxReviewsPerDay)
	cfg.Goals.NewMaterialQuota = envutil.Float("NEW_MATERIAL_QUOTA", cfg.Goals.NewMaterialQuota)
	cfg.Goals.MinutesPerTopic = envutil.Int("MINUTES_PER_TOPIC", cfg.Goals.MinutesPerTopic)

	cfg.Prediction.Trials = envutil.Int("PREDICTION_TRIALS", cfg.Prediction.Trials)

	return cfg, nil
}
