package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/postan/postan-api/internal/store"
	"github.com/postan/postan-api/pkg/logger"
	"github.com/spf13/cobra"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the unique indexes of every document kind",
	Long: `Creates the unique indexes each document kind registers: user email
and handle, plus the like and following pairs when
VALIDATION_ATOMIC_UNIQUENESS is set. Requires MONGODB_URI.`,
	RunE: runIndexes,
}

func init() {
	rootCmd.AddCommand(indexesCmd)
}

func runIndexes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	db, err := connectMongo(ctx, cfg)
	if err != nil {
		printError("connect to MongoDB", err)
		return err
	}
	if db == nil {
		return errors.New("MONGODB_URI is not set")
	}
	defer func() { _ = db.Client().Disconnect(context.Background()) }()

	registry := store.DefaultRegistry(cfg.Validation.AtomicRelationshipUniqueness)
	if err := store.NewMongoStore(db, registry).EnsureIndexes(ctx); err != nil {
		printError("create indexes", err)
		return err
	}
	logger.Infof("indexes ensured for %v", registry.Kinds())
	return nil
}
