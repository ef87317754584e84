package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/dayplanner-backend/internal/clients/redis"
	"github.com/yungbote/dayplanner-backend/internal/data/db"
	"github.com/yungbote/dayplanner-backend/internal/http/middleware"
	"github.com/yungbote/dayplanner-backend/internal/observability"
	"github.com/yungbote/dayplanner-backend/internal/platform/envutil"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

type Config struct {
	Port string

	DB    db.Config
	Redis redis.Config

	JWTSecretKey     string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	AuthCookieName   string
	AuthCookieSecure bool

	AllowedOrigins []string
	ChartFont      string

	Otel    observability.OtelConfig
	Metrics observability.MetricsConfig
}

// LoadConfig reads the environment, overlaid by the YAML file named in
// CONFIG_FILE when set. Environment values win.
func LoadConfig(log *logger.Logger) Config {
	src := envutil.NewSource(log)
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := src.LoadYAMLFile(path); err != nil {
			log.Warn("Config file could not be loaded, using environment only", "path", path, "error", err)
		}
	}

	jwtSecret := src.String("JWT_SECRET_KEY", "")
	if jwtSecret == "" {
		log.Warn("JWT_SECRET_KEY is not set, using an insecure development secret")
		jwtSecret = "defaultsecret"
	}

	return Config{
		Port: src.String("PORT", "8080"),
		DB: db.Config{
			Driver:     src.String("DB_DRIVER", db.DriverPostgres),
			Host:       src.String("POSTGRES_HOST", "localhost"),
			Port:       src.Int("POSTGRES_PORT", 5432),
			User:       src.String("POSTGRES_USER", "postgres"),
			Password:   src.String("POSTGRES_PASSWORD", ""),
			Name:       src.String("POSTGRES_NAME", "dayplanner"),
			SSLMode:    src.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath: src.String("SQLITE_PATH", "dayplanner.db"),
		},
		Redis: redis.Config{
			Addr:      src.String("REDIS_ADDR", ""),
			Password:  src.String("REDIS_PASSWORD", ""),
			DB:        src.Int("REDIS_DB", 0),
			KeyPrefix: src.String("REDIS_KEY_PREFIX", ""),
		},
		JWTSecretKey:     jwtSecret,
		AccessTokenTTL:   src.Seconds("ACCESS_TOKEN_TTL", 3600),
		RefreshTokenTTL:  src.Seconds("REFRESH_TOKEN_TTL", 86400),
		AuthCookieName:   src.String("AUTH_COOKIE_NAME", "access_token"),
		AuthCookieSecure: src.Bool("AUTH_COOKIE_SECURE", false),
		AllowedOrigins:   src.List("CORS_ALLOWED_ORIGINS", middleware.DefaultAllowedOrigins),
		ChartFont:        src.String("CHART_FONT", ""),
		Otel: observability.OtelConfig{
			Enabled:     src.Bool("OTEL_ENABLED", false),
			ServiceName: src.String("OTEL_SERVICE_NAME", "dayplanner"),
			Environment: src.String("OTEL_ENVIRONMENT", "development"),
			Version:     src.String("OTEL_SERVICE_VERSION", ""),
			Endpoint:    src.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(src.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    src.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: parseFloat(src.String("OTEL_SAMPLE_RATIO", "1"), 1),
		},
		Metrics: observability.MetricsConfig{
			Enabled:          src.Bool("METRICS_ENABLED", false),
			LatencyThreshold: time.Duration(parseFloat(src.String("SLO_API_LATENCY_THRESHOLD_SECONDS", "0.5"), 0.5) * float64(time.Second)),
			SampleInterval:   src.Seconds("METRICS_SCRAPE_INTERVAL_SECONDS", 10),
			SLO: observability.SLOConfig{
				Enabled:            src.Bool("SLO_ENABLED", false),
				Interval:           src.Seconds("SLO_EVAL_INTERVAL_SECONDS", 60),
				Window:             time.Duration(src.Int("SLO_WINDOW_HOURS", 720)) * time.Hour,
				BurnWarn:           parseFloat(src.String("SLO_ALERT_BURN_RATE_WARN", "2"), 2),
				BurnCrit:           parseFloat(src.String("SLO_ALERT_BURN_RATE_CRIT", "10"), 10),
				AvailabilityTarget: parseFloat(src.String("SLO_API_AVAIL_TARGET", "0.995"), 0.995),
				LatencyTarget:      parseFloat(src.String("SLO_API_LATENCY_TARGET", "0.95"), 0.95),
				WriteSuccessTarget: parseFloat(src.String("SLO_WRITE_SUCCESS_TARGET", "0.999"), 0.999),
			},
		},
	}
}

func parseFloat(raw string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return def
	}
	return f
}
