package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DebugMode      = "debug"
	ProductionMode = "production"
)

type Config struct {
	Mode           string        `mapstructure:"MODE"`
	APIBaseURL     string        `mapstructure:"API_BASE_URL"`
	WSURL          string        `mapstructure:"WS_URL"`
	SessionToken   string        `mapstructure:"SESSION_TOKEN"`
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	ListenAddr     string        `mapstructure:"LISTEN_ADDR"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	StalePolicy    string        `mapstructure:"STALE_POLICY"`
	ThumbnailSize  int           `mapstructure:"THUMBNAIL_SIZE"`
}

// Load reads .env (if any), then mockprep.yaml from the given paths, then
// MOCKPREP_* environment variables, in increasing order of precedence.
func Load(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("mockprep")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetDefault("MODE", ProductionMode)
	v.SetDefault("API_BASE_URL", "http://localhost:5000")
	v.SetDefault("WS_URL", "ws://localhost:5000/ws")
	v.SetDefault("SESSION_TOKEN", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("LISTEN_ADDR", ":8090")
	v.SetDefault("REQUEST_TIMEOUT", "15s")
	v.SetDefault("STALE_POLICY", "last-resolved")
	v.SetDefault("THUMBNAIL_SIZE", 320)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("MOCKPREP")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.Mode != DebugMode && cfg.Mode != ProductionMode {
		return nil, fmt.Errorf("invalid MODE %q, must be %q or %q", cfg.Mode, DebugMode, ProductionMode)
	}
	return &cfg, nil
}

func (c *Config) IsDebugMode() bool {
	return c.Mode == DebugMode
}
