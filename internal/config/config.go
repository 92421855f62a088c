package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abrezinsky/prizedraw/internal/draw"
	apperrors "github.com/abrezinsky/prizedraw/internal/errors"
	"github.com/abrezinsky/prizedraw/internal/logger"
)

// EnvPrefix prefixes every environment variable, e.g. PRIZEDRAW_SERVER_PORT
const EnvPrefix = "PRIZEDRAW"

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Engine   draw.Params    `mapstructure:"engine"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port    int    `mapstructure:"port"`
	BaseURL string `mapstructure:"base_url"` // Empty means detect the LAN address
}

// DatabaseConfig holds SQLite configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	HTTP   bool   `mapstructure:"http"`
}

// AuthConfig holds admin authentication configuration
type AuthConfig struct {
	AdminPassword string        `mapstructure:"admin_password"` // Generated when empty
	JWTSecret     string        `mapstructure:"jwt_secret"`     // Random per process when empty
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
}

// SeedConfig controls the startup fixture
type SeedConfig struct {
	File     string `mapstructure:"file"` // Empty uses the embedded default
	Disabled bool   `mapstructure:"disabled"`
}

// Load reads configuration in increasing priority: defaults, the optional
// YAML file, then PRIZEDRAW_* environment variables. Variables from envFile
// (".env" when empty) are exported first if the file exists.
func Load(configFile, envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("prizedraw")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			// It's okay if config file is not found, we'll use environment variables
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// setDefaults registers every key so that environment variables bind
// even when no config file mentions them
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "")
	v.SetDefault("database.path", "prizedraw.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logger.FormatText)
	v.SetDefault("log.http", false)
	v.SetDefault("auth.admin_password", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.session_ttl", "12h")
	v.SetDefault("seed.file", "")
	v.SetDefault("seed.disabled", false)

	p := draw.DefaultParams()
	v.SetDefault("engine.history_decay", p.HistoryDecay)
	v.SetDefault("engine.level_penalty", p.LevelPenalty)
	v.SetDefault("engine.peer_group_scale", p.PeerGroupScale)
	v.SetDefault("engine.jitter", p.Jitter)
	v.SetDefault("engine.once_winner_bonus", p.OnceWinnerBonus)
	v.SetDefault("engine.twice_winner_bonus", p.TwiceWinnerBonus)
	v.SetDefault("engine.return_pool_factor", p.ReturnPoolFactor)
	v.SetDefault("engine.max_wins", p.MaxWins)
	v.SetDefault("engine.exclusive_level", p.ExclusiveLevel)
}

// Validate checks the loaded values once at startup
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return apperrors.Validationf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return apperrors.Validation("database.path is required")
	}
	switch c.Log.Format {
	case logger.FormatText, logger.FormatJSON:
	default:
		return apperrors.Validationf("log.format must be %q or %q", logger.FormatText, logger.FormatJSON)
	}
	if c.Auth.SessionTTL <= 0 {
		return apperrors.Validation("auth.session_ttl must be positive")
	}
	return c.Engine.Validate()
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
