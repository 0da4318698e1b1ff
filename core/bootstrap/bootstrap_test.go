package bootstrap

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/utilbot/core/config"
	coredatabase "github.com/m3rciful/utilbot/core/database"
)

func noLogger(*coreconfig.Config) error { return nil }

func TestRunSkipsDatabaseWhenDisabled(t *testing.T) {
	connected := false
	res, err := Run(context.Background(), Options{
		Config:     &coreconfig.Config{},
		LoggerInit: noLogger,
		Connect: func(context.Context, coredatabase.Config) (*sqlx.DB, error) {
			connected = true
			return nil, nil
		},
	})
	require.NoError(t, err)
	assert.False(t, connected)
	assert.Nil(t, res.DB)
	assert.NoError(t, res.Close())
}

func TestRunConnectsAndMigrates(t *testing.T) {
	var migratedDir string
	res, err := Run(context.Background(), Options{
		Config:     &coreconfig.Config{},
		Database:   coredatabase.Config{Enabled: true},
		Migrations: Migrations{FS: fstest.MapFS{}, Dir: "migrations"},
		LoggerInit: noLogger,
		Connect: func(context.Context, coredatabase.Config) (*sqlx.DB, error) {
			return sqlx.Open("sqlite3", ":memory:")
		},
		Migrate: func(_ context.Context, _ coredatabase.Config, _ fs.FS, dir string) error {
			migratedDir = dir
			return nil
		},
	})
	require.NoError(t, err)
	assert.NotNil(t, res.DB)
	assert.Equal(t, "migrations", migratedDir)
	assert.NoError(t, res.Close())
}

func TestRunPropagatesFailures(t *testing.T) {
	_, err := Run(context.Background(), Options{})
	assert.Error(t, err)

	_, err = Run(context.Background(), Options{
		Config:     &coreconfig.Config{},
		LoggerInit: func(*coreconfig.Config) error { return errors.New("no sink") },
	})
	assert.ErrorContains(t, err, "logger init failed")

	_, err = Run(context.Background(), Options{
		Config:     &coreconfig.Config{},
		Database:   coredatabase.Config{Enabled: true},
		Migrations: Migrations{FS: fstest.MapFS{}, Dir: "migrations"},
		LoggerInit: noLogger,
		Connect: func(context.Context, coredatabase.Config) (*sqlx.DB, error) {
			return sqlx.Open("sqlite3", ":memory:")
		},
		Migrate: func(context.Context, coredatabase.Config, fs.FS, string) error {
			return errors.New("dirty database")
		},
	})
	assert.ErrorContains(t, err, "migrations failed")
}
