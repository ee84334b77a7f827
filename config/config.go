package config

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	AppName    string `mapstructure:"APP_NAME"`
	ListenAddr string `mapstructure:"LISTEN_ADDR"`

	// MongoDB configuration
	MongoURI string `mapstructure:"MONGO_URI"`
	MongoDB  string `mapstructure:"MONGO_DB"`

	// Auth configuration
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// CORS configuration (comma-separated origins)
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// Origins splits the configured CORS origins.
func (c Config) Origins() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads configuration from app.env in path (if present) and from the
// environment, applying defaults for anything unset.
func Load(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("APP_NAME", "saffron-api")
	viper.SetDefault("LISTEN_ADDR", ":8080")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB", "saffron")
	viper.SetDefault("JWT_SECRET", "change-me")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("LOG_LEVEL", "info")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
		log.Warn().Msg("No config file found, relying on environment variables and defaults.")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
