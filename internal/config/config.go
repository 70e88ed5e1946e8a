// Package config loads service configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds runtime settings for the account API. It is constructed
// once at startup and passed by injection; nothing reads the
// environment after that.
type Config struct {
	HTTPAddr      string `env:"HTTP_ADDR"      envDefault:":3000"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"xpert"`
	JWTSecret     string `env:"SECRET_KEY"`
}

// NewConfig parses and validates the configuration, failing fast on
// missing required values.
func NewConfig(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// validate checks if the configuration is valid.
func (c *Config) validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("missing SECRET_KEY environment variable")
	}

	return nil
}
