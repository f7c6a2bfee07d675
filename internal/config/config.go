package config

import (
	"fmt"
	"time"

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

type DashboardConfig struct {
	LookbackDays    int
	Debounce        time.Duration
	LoadTimeout     time.Duration
	SignificantDiff float64
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Dashboard   DashboardConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
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
		Dashboard: DashboardConfig{
			LookbackDays:    v.GetInt("DASHBOARD_LOOKBACK_DAYS"),
			Debounce:        v.GetDuration("DASHBOARD_DEBOUNCE"),
			LoadTimeout:     v.GetDuration("DASHBOARD_LOAD_TIMEOUT"),
			SignificantDiff: v.GetFloat64("DASHBOARD_SIGNIFICANT_DIFF"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.Dashboard.LookbackDays == 0 {
		cfg.Dashboard.LookbackDays = 30
	}
	if cfg.Dashboard.Debounce == 0 {
		cfg.Dashboard.Debounce = time.Second
	}
	if cfg.Dashboard.LoadTimeout == 0 {
		cfg.Dashboard.LoadTimeout = 30 * time.Second
	}
	if cfg.Dashboard.SignificantDiff == 0 {
		cfg.Dashboard.SignificantDiff = 100
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
	if cfg.Dashboard.LookbackDays < 0 {
		return fmt.Errorf("DASHBOARD_LOOKBACK_DAYS must be positive")
	}
	return nil
}
