// Package config loads client configuration from files and the environment.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/soundprediction/go-chroma/pkg/api"
)

// Config holds all configuration for the client and CLI.
type Config struct {
	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Auth configuration
	Auth AuthConfig `mapstructure:"auth"`

	// Embedding configuration
	Embedding EmbeddingConfig `mapstructure:"embedding"`

	// Log configuration
	Log LogConfig `mapstructure:"log"`
}

// ServerConfig holds the Chroma server connection settings.
type ServerConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	Tenant         string `mapstructure:"tenant"`
	Database       string `mapstructure:"database"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	// Method is one of "none", "basic" or "token".
	Method   string `mapstructure:"method"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Token    string `mapstructure:"token"`
	// TokenHeader is "authorization" or "x-chroma-token".
	TokenHeader string `mapstructure:"token_header"`
}

// AuthMethod converts the configured credentials to an api.AuthMethod.
func (a AuthConfig) AuthMethod() api.AuthMethod {
	switch a.Method {
	case "basic":
		return api.BasicAuth{Username: a.Username, Password: a.Password}
	case "token":
		header := api.TokenHeaderAuthorization
		if a.TokenHeader == "x-chroma-token" {
			header = api.TokenHeaderXChromaToken
		}
		return api.TokenAuth{Token: a.Token, Header: header}
	default:
		return api.NoAuth{}
	}
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider string `mapstructure:"provider"` // openai, embedeverything
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values.
func setDefaults() {
	viper.SetDefault("server.endpoint", "http://localhost:8000")
	viper.SetDefault("server.tenant", "")
	viper.SetDefault("server.database", "default_database")
	viper.SetDefault("server.max_connections", 8)

	viper.SetDefault("auth.method", "none")
	viper.SetDefault("auth.token_header", "authorization")

	viper.SetDefault("embedding.provider", "openai")
	viper.SetDefault("embedding.model", "text-embedding-3-small")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}

// overrideWithEnv overrides config with environment variables.
func overrideWithEnv(config *Config) {
	if endpoint := os.Getenv("CHROMA_URL"); endpoint != "" {
		config.Server.Endpoint = endpoint
	}
	if tenant := os.Getenv("CHROMA_TENANT"); tenant != "" {
		config.Server.Tenant = tenant
	}
	if database := os.Getenv("CHROMA_DATABASE"); database != "" {
		config.Server.Database = database
	}
	if token := os.Getenv("CHROMA_TOKEN"); token != "" {
		config.Auth.Token = token
		if config.Auth.Method == "" || config.Auth.Method == "none" {
			config.Auth.Method = "token"
		}
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" && config.Embedding.APIKey == "" {
		config.Embedding.APIKey = apiKey
	}
}
