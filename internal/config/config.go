package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

type ReconConfig struct {
	RatioEpsilon float64
	DefaultLimit int
	MaxLimit     int
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Recon       ReconConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Recon: ReconConfig{
			RatioEpsilon: v.GetFloat64("RECON_RATIO_EPSILON"),
			DefaultLimit: v.GetInt("WORKSPACE_DEFAULT_LIMIT"),
			MaxLimit:     v.GetInt("WORKSPACE_MAX_LIMIT"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7091
	}
	// Zero is a valid epsilon (exact matching), so only default when the
	// key is absent.
	if !v.IsSet("RECON_RATIO_EPSILON") {
		cfg.Recon.RatioEpsilon = 0.001
	}
	if cfg.Recon.DefaultLimit == 0 {
		cfg.Recon.DefaultLimit = 100
	}
	if cfg.Recon.MaxLimit == 0 {
		cfg.Recon.MaxLimit = 500
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Recon.RatioEpsilon < 0 || cfg.Recon.RatioEpsilon >= 1 {
		return fmt.Errorf("RECON_RATIO_EPSILON must be in [0, 1)")
	}
	return nil
}
