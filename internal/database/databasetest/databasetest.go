// Package databasetest opens throwaway migrated databases for tests.
package databasetest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Tomlord1122/todoapp/internal/database"
	"github.com/Tomlord1122/todoapp/internal/migrations"
)

var seq atomic.Int64

// NewSQLite returns a fresh in-memory database with every migration applied.
// It is closed when the test finishes.
func NewSQLite(t testing.TB) database.Service {
	t.Helper()

	svc := OpenSQLite(t)
	require.NoError(t, migrations.Up(svc.GetDB()))
	return svc
}

// OpenSQLite is NewSQLite without the migrations.
func OpenSQLite(t testing.TB) database.Service {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", name, seq.Add(1))

	svc, err := database.Open(sqlite.Open(dsn), dsn, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := svc.GetDB().DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = svc.Close() })
	return svc
}
