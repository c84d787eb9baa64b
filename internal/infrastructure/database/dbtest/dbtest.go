// Package dbtest opens throwaway SQLite databases for repository tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/maisonbelle/salon-site/internal/infrastructure/database"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/transaction"
)

// NewSQLite returns a migrated in-memory database closed at test cleanup.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Connect(database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: ":memory:",
		LogLevel:   gormlogger.Silent,
	}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(context.Background(), db, database.DriverSQLite, zerolog.Nop()))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// NewDatabase wraps NewSQLite for repositories built on transaction.Database.
func NewDatabase(t testing.TB) *transaction.Database {
	t.Helper()
	return transaction.NewDatabase(NewSQLite(t))
}
