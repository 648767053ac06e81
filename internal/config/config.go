package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          int    `env:"PREDICT_PORT, default=8501"`
	DataDir       string `env:"PREDICT_DATA_DIR, default=./data"`
	ModelDir      string `env:"PREDICT_MODEL_DIR, default=./model"`
	ScalerFile    string `env:"PREDICT_SCALER_FILE, default=scaler.json"`
	ModelFile     string `env:"PREDICT_MODEL_FILE, default=random_forest_model.json"`
	SessionSecret string `env:"PREDICT_SESSION_SECRET, default=change-me-in-production-32bytes!"`
	SessionMaxAge int    `env:"PREDICT_SESSION_MAX_AGE, default=86400"` // 24 hours
	AutoReconnect bool   `env:"PREDICT_AUTO_RECONNECT, default=true"`
	BcryptCost    int    `env:"PREDICT_BCRYPT_COST, default=10"`
	LogLevel      string `env:"PREDICT_LOG_LEVEL, default=info"`
	LogPretty     bool   `env:"PREDICT_LOG_PRETTY, default=false"`
}

// Load reads the configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads the configuration from l and makes sure the data directory
// exists.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &cfg, nil
}

func (c *Config) ScalerPath() string {
	return filepath.Join(c.ModelDir, c.ScalerFile)
}

func (c *Config) ModelPath() string {
	return filepath.Join(c.ModelDir, c.ModelFile)
}

func (c *Config) UsersDBPath() string {
	return filepath.Join(c.DataDir, "users.db")
}

func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

func (c *Config) MarkerPath() string {
	return filepath.Join(c.DataDir, "last_user.txt")
}
