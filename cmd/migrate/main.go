// Command migrate applies the embedded schema to PostgreSQL.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"oneshot-backend/internal/config"
	"oneshot-backend/internal/shared/utils"
	"oneshot-backend/pkg/logger"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var timeout time.Duration

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the OneShot database schema",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		logger.Init(utils.GetEnvVariable("APP_ENV", "development"))
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *Migrator) error {
			n, err := m.Up(ctx)
			if err != nil {
				return err
			}
			log.Info().Int("applied", n).Msg("Schema up to date")
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they ran",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *Migrator) error {
			lines, err := m.Status(ctx)
			if err != nil {
				return err
			}
			for _, l := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), l)
			}
			return nil
		})
	},
}

func withMigrator(parent context.Context, fn func(context.Context, *Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("connect to %s:%d: %w", cfg.Database.Host, cfg.Database.Port, err)
	}

	m, err := NewMigrator(db)
	if err != nil {
		return err
	}
	return fn(ctx, m)
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline for the run")
	rootCmd.AddCommand(upCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
