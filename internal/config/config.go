package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	LandingHome = "home"
	LandingList = "list"
)

type Config struct {
	Env          string
	Port         string
	APIBaseURL   string
	APITimeout   time.Duration
	LogLevel     string
	LogFile      string
	TemplatesDir string
	Landing      string
	RateLimit    int
	CSRF         bool
	Backend      BackendConfig
}

// BackendConfig drives the stand-in products API served by `finproducts backend`.
type BackendConfig struct {
	Port  string
	DBDSN string
	Seed  bool
}

// Addr returns the listen address for the UI server.
func (c Config) Addr() string { return ":" + c.Port }

// Addr returns the listen address for the stand-in backend.
func (c BackendConfig) Addr() string { return ":" + c.Port }

// Load reads .env / config.env when present, then the environment. Environment
// variables win over file values.
func Load() (Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := Config{
		Env:          v.GetString("APP_ENV"),
		Port:         v.GetString("HTTP_PORT"),
		APIBaseURL:   strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		APITimeout:   v.GetDuration("API_TIMEOUT"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		LogFile:      v.GetString("LOG_FILE"),
		TemplatesDir: v.GetString("TEMPLATES_DIR"),
		Landing:      strings.ToLower(v.GetString("UI_LANDING")),
		RateLimit:    v.GetInt("RATE_LIMIT"),
		CSRF:         v.GetBool("CSRF_ENABLED"),
		Backend: BackendConfig{
			Port:  v.GetString("BACKEND_PORT"),
			DBDSN: v.GetString("BACKEND_DB_DSN"),
			Seed:  v.GetBool("BACKEND_SEED"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("API_BASE_URL", "http://localhost:3002/bp")
	v.SetDefault("API_TIMEOUT", "0s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("TEMPLATES_DIR", "")
	v.SetDefault("UI_LANDING", LandingHome)
	v.SetDefault("RATE_LIMIT", 120)
	v.SetDefault("CSRF_ENABLED", true)
	v.SetDefault("BACKEND_PORT", "3002")
	v.SetDefault("BACKEND_DB_DSN", "products.db")
	v.SetDefault("BACKEND_SEED", true)
}

func (c Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
	}
	if c.Landing != LandingHome && c.Landing != LandingList {
		return fmt.Errorf("UI_LANDING must be %q or %q, got %q", LandingHome, LandingList, c.Landing)
	}
	if c.APITimeout < 0 {
		return fmt.Errorf("API_TIMEOUT must not be negative")
	}
	return nil
}
