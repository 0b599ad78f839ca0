package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	AI       AIConfig
	Source   SourceConfig
	Vincere  VincereConfig
	Alerts   AlertsConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	LogJSON     bool
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

// AIConfig configures the Gemini-backed fit assessor. An empty API key
// disables assessments; the scorer then runs with a neutral AI sub-score.
type AIConfig struct {
	GeminiAPIKey string
	GeminiModel  string
	Timeout      time.Duration
}

type SourceConfig struct {
	BaseURL  string
	Headless bool
	Timeout  time.Duration
}

type VincereConfig struct {
	ClientID     string
	APIKey       string
	RefreshToken string
	AuthURL      string
	APIBaseURL   string
}

type AlertsConfig struct {
	MinScore int
	LockTTL  time.Duration
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	// Local development convenience only; missing .env files are not an error.
	_ = godotenv.Load()

	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		LogJSON:     optBool("LOG_JSON", strings.EqualFold(opt("APP_ENV"), "production")),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),

		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 10)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", time.Minute),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  optDuration("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
		RefreshExpiresIn: optDuration("JWT_REFRESH_EXPIRES_IN", 24*time.Hour),
	}

	cfg.AI = AIConfig{
		GeminiAPIKey: opt("GEMINI_API_KEY"),
		GeminiModel:  opt("GEMINI_MODEL"),
		Timeout:      optDuration("AI_ASSESSMENT_TIMEOUT", 8*time.Second),
	}

	cfg.Source = SourceConfig{
		BaseURL:  opt("EXTERNAL_SOURCE_BASE_URL"),
		Headless: optBool("EXTERNAL_SOURCE_HEADLESS", false),
		Timeout:  optDuration("EXTERNAL_SOURCE_TIMEOUT", 15*time.Second),
	}

	cfg.Vincere = VincereConfig{
		ClientID:     opt("VINCERE_CLIENT_ID"),
		APIKey:       opt("VINCERE_API_KEY"),
		RefreshToken: opt("VINCERE_REFRESH_TOKEN"),
		AuthURL:      opt("VINCERE_AUTH_URL"),
		APIBaseURL:   opt("VINCERE_API_BASE_URL"),
	}

	cfg.Alerts = AlertsConfig{
		MinScore: optInt("ALERTS_MIN_SCORE", 60),
		LockTTL:  optDuration("ALERTS_LOCK_TTL", 12*time.Hour),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func optInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func optBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func optDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
