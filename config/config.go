package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port    string `mapstructure:"port"`
		GinMode string `mapstructure:"gin_mode"`
	} `mapstructure:"server"`
	Database struct {
		Driver string `mapstructure:"driver"`
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"database"`
	Auth struct {
		JWTSecret     string `mapstructure:"jwt_secret"`
		AdminUsername string `mapstructure:"admin_username"`
		AdminPassword string `mapstructure:"admin_password"`
	} `mapstructure:"auth"`
	Plans map[string]float64 `mapstructure:"plans"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
	} `mapstructure:"kafka"`
	Upload struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"upload"`
	Logger struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"logger"`
}

// Load reads configuration from config/config.yml, falling back to defaults.
// Environment variables override file values (e.g. SERVER_PORT, DATABASE_DSN).
func Load() (*Config, error) {
	viper.AddConfigPath("./config")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("server.port", "3000")
	viper.SetDefault("server.gin_mode", "debug")
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "restaurant.db")
	viper.SetDefault("auth.jwt_secret", "dev-secret-change-me")
	viper.SetDefault("auth.admin_username", "mkchufang")
	viper.SetDefault("auth.admin_password", "zhengdaqian")
	// Flat meal-plan prices keyed by the number of servings. These are
	// configuration, never derived from dish prices.
	viper.SetDefault("plans", map[string]float64{"5": 69.95, "10": 119.90})
	viper.SetDefault("kafka.brokers", []string{})
	viper.SetDefault("kafka.topic", "order-events")
	viper.SetDefault("upload.dir", "./uploads/dishes")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	if c.Auth.AdminUsername == "" || c.Auth.AdminPassword == "" {
		return fmt.Errorf("admin credentials are required")
	}
	if len(c.Plans) == 0 {
		return fmt.Errorf("at least one meal plan must be configured")
	}
	for key, price := range c.Plans {
		if price < 0 {
			return fmt.Errorf("plan %q has a negative price", key)
		}
	}
	return nil
}
