package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"moviereviews/database"
	"moviereviews/internal/config"
	"moviereviews/internal/http-api/repository"
	"moviereviews/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "migrate - schema and maintenance tasks for the movie reviews database",
	Long: `migrate prepares the movie reviews database before a rollout.

Configuration is read from the environment (and .env) exactly like the api server.`,
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Create or update tables, unique indexes and check constraints",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB, logger *zap.Logger) error {
			return database.Migrate(db, logger)
		})
	},
}

var pruneBefore time.Duration

var pruneCmd = &cobra.Command{
	Use:   "prune-tokens",
	Short: "Delete refresh tokens that expired before now minus --older-than",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB, logger *zap.Logger) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			cutoff := time.Now().Add(-pruneBefore)
			n, err := repository.NewRefreshTokenRepository(db).DeleteExpired(ctx, cutoff)
			if err != nil {
				return err
			}
			logger.Info("expired refresh tokens removed", zap.Int64("count", n), zap.Time("cutoff", cutoff))
			return nil
		})
	},
}

func init() {
	pruneCmd.Flags().DurationVar(&pruneBefore, "older-than", 0, "only remove tokens expired for at least this long")
	rootCmd.AddCommand(upCmd, pruneCmd)
}

// withDB loads config, opens the database and closes it after fn.
func withDB(fn func(*gorm.DB, *zap.Logger) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.OpenGorm(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	return fn(db, logger)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
