package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/maisonbelle/salon-site/internal/config"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/transaction"
	"github.com/maisonbelle/salon-site/internal/infrastructure/logger"
)

var version = "1.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "site-cli",
	Short: "Salon site CLI - content import, admin allow-list and chatbot tools",
	Long: `site-cli operates on the same database and configuration as the site server.

Examples:
  site-cli import gallery.csv --actor owner@salon.example
  site-cli admins list
  site-cli admins add stylist@salon.example --name "Head Stylist"
  site-cli schema knowledge-base > kb.schema.json
  site-cli chatbot ask "what are your opening hours?"`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadEnvFiles()
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(adminsCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(chatbotCmd)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
}

// env is the configuration, logger and database shared by commands that touch
// persisted data.
type env struct {
	cfg *config.Config
	log zerolog.Logger
	db  *gorm.DB
	tx  *transaction.Database
}

func openEnv(ctx context.Context, cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := zerolog.Nop()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		if log, err = logger.New(cfg); err != nil {
			return nil, err
		}
	}

	db, err := database.Connect(database.Config{
		Driver:      cfg.DBDriver,
		WriteDSN:    cfg.GetDatabaseWriteDSN(),
		SQLitePath:  cfg.DBSQLitePath,
		MaxIdle:     1,
		MaxOpen:     2,
		MaxLifetime: cfg.DBConnLifetime,
		LogLevel:    gormlogger.Silent,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.AutoMigrate(ctx, db, cfg.DBDriver, log); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &env{cfg: cfg, log: log, db: db, tx: transaction.NewDatabase(db)}, nil
}

func (e *env) Close() {
	_ = database.Close(e.db)
}

func loadEnvFiles() {
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
