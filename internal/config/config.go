// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, storage backends, the nutrition source,
// sessions, rate limiting, and observability.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve in minimal containers
)

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendJSON     = "json"
	BackendFirebase = "firebase"
)

// Nutrition sources.
const (
	SourceTable = "table"
	SourceAPI   = "api"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "nutritrack")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// AuthConfig defines the shared-password gate and session tokens.
type AuthConfig struct {
	Password      string        // APP_PASSWORD; empty never authenticates
	SessionSecret string        // SESSION_SECRET; HMAC key for session tokens
	SessionTTL    time.Duration // SESSION_TTL
	CookieSecure  bool          // COOKIE_SECURE
}

// StorageConfig selects and locates the meal history backend.
type StorageConfig struct {
	Backend                 string // STORAGE_BACKEND: sqlite|postgres|json|firebase
	DBPath                  string // DB_PATH (sqlite)
	DatabaseURL             string // DATABASE_URL (postgres)
	HistoryPath             string // HISTORY_PATH (json)
	FirebaseDatabaseURL     string // FIREBASE_DATABASE_URL
	FirebaseCredentialsFile string // FIREBASE_CREDENTIALS_FILE; empty uses ADC
}

// NutritionConfig selects how meal macros are computed and configures the
// external lookup API.
type NutritionConfig struct {
	Source      string        // NUTRITION_SOURCE: table|api
	APIKey      string        // CALORIE_NINJA_API_KEY
	BaseURL     string        // CALORIE_NINJA_BASE_URL
	Timeout     time.Duration // CALORIE_NINJA_TIMEOUT
	RPS         float64       // CALORIE_NINJA_RPS; 0 disables pacing
	GoalKcal    float64       // GOAL_KCAL
	GoalProtein float64       // GOAL_PROTEIN
	GoalFiber   float64       // GOAL_FIBER
}

// ClientConfig is used by the CLI commands that talk to a running server.
type ClientConfig struct {
	ServerURL string // NUTRITRACK_URL, including the API base path
	TokenFile string // NUTRITRACK_TOKEN_FILE
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	Auth      AuthConfig
	Storage   StorageConfig
	Nutrition NutritionConfig
	Timezone  string         // TIMEZONE; IANA name or "Local"
	Location  *time.Location // resolved Timezone
	Client    ClientConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		Auth: AuthConfig{
			Password:      os.Getenv("APP_PASSWORD"),
			SessionSecret: os.Getenv("SESSION_SECRET"),
			SessionTTL:    getdur("SESSION_TTL", 30*24*time.Hour),
			CookieSecure:  getbool("COOKIE_SECURE", false),
		},
		Storage: StorageConfig{
			Backend:                 strings.ToLower(getenv("STORAGE_BACKEND", BackendSQLite)),
			DBPath:                  getenv("DB_PATH", "nutritrack.db"),
			DatabaseURL:             getenv("DATABASE_URL", ""),
			HistoryPath:             getenv("HISTORY_PATH", "history.json"),
			FirebaseDatabaseURL:     getenv("FIREBASE_DATABASE_URL", ""),
			FirebaseCredentialsFile: getenv("FIREBASE_CREDENTIALS_FILE", ""),
		},
		Nutrition: NutritionConfig{
			Source:      strings.ToLower(getenv("NUTRITION_SOURCE", SourceTable)),
			APIKey:      getenv("CALORIE_NINJA_API_KEY", ""),
			BaseURL:     getenv("CALORIE_NINJA_BASE_URL", "https://api.calorieninjas.com"),
			Timeout:     getdur("CALORIE_NINJA_TIMEOUT", 10*time.Second),
			RPS:         getfloat("CALORIE_NINJA_RPS", 1.0),
			GoalKcal:    getfloat("GOAL_KCAL", 2000),
			GoalProtein: getfloat("GOAL_PROTEIN", 150),
			GoalFiber:   getfloat("GOAL_FIBER", 35),
		},
		Timezone: getenv("TIMEZONE", "Local"),
		Client: ClientConfig{
			ServerURL: strings.TrimRight(getenv("NUTRITRACK_URL", "http://localhost:8080/api/v1"), "/"),
			TokenFile: getenv("NUTRITRACK_TOKEN_FILE", defaultTokenFile()),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "nutritrack"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if cfg.Auth.SessionTTL <= 0 {
		return cfg, errors.New("SESSION_TTL must be > 0")
	}
	switch cfg.Storage.Backend {
	case BackendSQLite:
		if strings.TrimSpace(cfg.Storage.DBPath) == "" {
			return cfg, errors.New("DB_PATH must not be empty")
		}
	case BackendPostgres:
		if strings.TrimSpace(cfg.Storage.DatabaseURL) == "" {
			return cfg, errors.New("DATABASE_URL is required for the postgres backend")
		}
	case BackendJSON:
		if strings.TrimSpace(cfg.Storage.HistoryPath) == "" {
			return cfg, errors.New("HISTORY_PATH must not be empty")
		}
	case BackendFirebase:
		if strings.TrimSpace(cfg.Storage.FirebaseDatabaseURL) == "" {
			return cfg, errors.New("FIREBASE_DATABASE_URL is required for the firebase backend")
		}
	default:
		return cfg, errors.New("STORAGE_BACKEND must be one of: sqlite, postgres, json, firebase")
	}
	switch cfg.Nutrition.Source {
	case SourceTable:
	case SourceAPI:
		if strings.TrimSpace(cfg.Nutrition.APIKey) == "" {
			return cfg, errors.New("CALORIE_NINJA_API_KEY is required when NUTRITION_SOURCE=api")
		}
	default:
		return cfg, errors.New("NUTRITION_SOURCE must be one of: table, api")
	}
	if cfg.Nutrition.Timeout <= 0 {
		return cfg, errors.New("CALORIE_NINJA_TIMEOUT must be > 0")
	}
	if cfg.Nutrition.RPS < 0 {
		return cfg, errors.New("CALORIE_NINJA_RPS must be >= 0")
	}
	if cfg.Nutrition.GoalKcal <= 0 || cfg.Nutrition.GoalProtein <= 0 || cfg.Nutrition.GoalFiber <= 0 {
		return cfg, errors.New("GOAL_KCAL, GOAL_PROTEIN and GOAL_FIBER must be > 0")
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return cfg, fmt.Errorf("TIMEZONE: %w", err)
	}
	cfg.Location = loc
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}
	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func defaultTokenFile() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "nutritrack", "token")
	}
	return ".nutritrack-token"
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
