package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	AuthMode       string   `mapstructure:"AUTH_MODE"`
	AuthSecret     string   `mapstructure:"AUTH_SECRET"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`

	// External collaborator endpoints. Overridable for tests and for
	// self-hosted mirrors of the public instances.
	NominatimURL string `mapstructure:"NOMINATIM_URL"`
	OverpassURL  string `mapstructure:"OVERPASS_URL"`
	OSRMURL      string `mapstructure:"OSRM_URL"`
	BedDataURL   string `mapstructure:"BED_DATA_URL"`
	TextGenURL   string `mapstructure:"TEXTGEN_URL"`

	HTTPTimeout time.Duration `mapstructure:"HTTP_TIMEOUT"`
	UserAgent   string        `mapstructure:"USER_AGENT"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("AUTH_MODE", "")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("OVERPASS_URL", "https://overpass-api.de/api/interpreter")
	v.SetDefault("OSRM_URL", "https://router.project-osrm.org")
	v.SetDefault("BED_DATA_URL", "https://healthdata.gov/resource/anag-cw7u.json")
	v.SetDefault("TEXTGEN_URL", "https://text.pollinations.ai")
	v.SetDefault("HTTP_TIMEOUT", "25s")
	v.SetDefault("USER_AGENT", "golden-hour-triage/1.0")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"PORT", "ENV", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
		"CORS_ORIGINS", "AUTH_MODE", "AUTH_SECRET",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"NOMINATIM_URL", "OVERPASS_URL", "OSRM_URL", "BED_DATA_URL", "TEXTGEN_URL",
		"HTTP_TIMEOUT", "USER_AGENT",
	} {
		v.BindEnv(key)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// ResolvedAuthMode returns the effective auth mode. If AUTH_MODE is explicitly
// set, it is returned. Otherwise, the mode is inferred:
//   - ENV=development → "development" (no auth, requests pass through)
//   - AUTH_SECRET set → "token" (HMAC-signed bearer tokens)
//   - Otherwise       → "development"
func (c *Config) ResolvedAuthMode() string {
	if c.AuthMode != "" {
		return c.AuthMode
	}
	if !c.IsDev() && c.AuthSecret != "" {
		return "token"
	}
	return "development"
}

// Validate checks that the configuration is safe to run. Token mode requires
// a signing secret; external endpoints must not be blanked out.
func (c *Config) Validate() error {
	mode := c.ResolvedAuthMode()
	if mode != "development" && mode != "token" {
		return fmt.Errorf("AUTH_MODE must be \"development\" or \"token\", got %q", mode)
	}
	if mode == "token" && c.AuthSecret == "" {
		return fmt.Errorf("AUTH_SECRET is required when AUTH_MODE is \"token\"")
	}

	for name, value := range map[string]string{
		"NOMINATIM_URL": c.NominatimURL,
		"OVERPASS_URL":  c.OverpassURL,
		"OSRM_URL":      c.OSRMURL,
		"BED_DATA_URL":  c.BedDataURL,
		"TEXTGEN_URL":   c.TextGenURL,
	} {
		if value == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}

	return nil
}
