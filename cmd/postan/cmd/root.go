package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/postan/postan-api/internal/config"
	"github.com/postan/postan-api/internal/database"
	"github.com/postan/postan-api/pkg/logger"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "postan",
	Short: "postan social posting API",
	Long: `postan serves the users, posts, likes and followings REST API.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug|info|warn|error); overrides LOG_LEVEL")
}

// loadConfig loads configuration and initializes logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	level := cfg.Server.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logger.Init(level)
	return cfg, nil
}

// connectMongo returns nil without error when no URI is configured.
func connectMongo(ctx context.Context, cfg *config.Config) (*mongo.Database, error) {
	if cfg.MongoDB.URI == "" {
		return nil, nil
	}
	return database.ConnectMongo(ctx, cfg.MongoDB)
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
}
