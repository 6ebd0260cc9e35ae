package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	chroma "github.com/soundprediction/go-chroma"
	"github.com/soundprediction/go-chroma/pkg/config"
	"github.com/soundprediction/go-chroma/pkg/embedder"
	"github.com/soundprediction/go-chroma/pkg/logger"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "chroma",
		Short: "Chroma: vector database client",
		Long: `Chroma is a command-line client for the Chroma vector database.
It connects through a bounded pool of reusable connections and supports
token and basic authentication.

Complete documentation is available at https://github.com/soundprediction/go-chroma`,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.chroma.yaml)")
	rootCmd.PersistentFlags().String("url", "", "Chroma server URL")
	rootCmd.PersistentFlags().String("tenant", "", "tenant (resolved from credentials when empty)")
	rootCmd.PersistentFlags().String("database", "", "database")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	// Bind flags to viper
	viper.BindPFlag("server.endpoint", rootCmd.PersistentFlags().Lookup("url"))
	viper.BindPFlag("server.tenant", rootCmd.PersistentFlags().Lookup("tenant"))
	viper.BindPFlag("server.database", rootCmd.PersistentFlags().Lookup("database"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".chroma" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".chroma")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newClient builds a library client from the loaded configuration.
func newClient(ctx context.Context) (*chroma.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	var emb embedder.Client
	switch cfg.Embedding.Provider {
	case "embedeverything":
		emb, err = embedder.NewEmbedEverythingClient(embedder.Config{Model: cfg.Embedding.Model})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create embedder: %w", err)
		}
	case "openai":
		if cfg.Embedding.APIKey != "" {
			emb = embedder.NewOpenAIEmbedder(cfg.Embedding.APIKey, embedder.Config{
				Model:   cfg.Embedding.Model,
				BaseURL: cfg.Embedding.BaseURL,
			})
		}
	}

	client, err := chroma.NewClient(ctx, chroma.Options{
		URL:            cfg.Server.Endpoint,
		Auth:           cfg.Auth.AuthMethod(),
		Tenant:         cfg.Server.Tenant,
		Database:       cfg.Server.Database,
		MaxConnections: cfg.Server.MaxConnections,
		Embedder:       emb,
		Logger:         log,
	})
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}
