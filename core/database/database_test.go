package database

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func TestConfigURL(t *testing.T) {
	cfg := Config{Host: "db", Port: "5432", User: "bot", Password: "p@ss word", Name: "utilbot"}
	assert.Equal(t, "postgres://bot:p%40ss%20word@db:5432/utilbot?sslmode=disable", cfg.URL())

	cfg.SSLMode = "require"
	assert.Contains(t, cfg.URL(), "sslmode=require")
}

func TestMigrationFileSelection(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/000002_add_index.up.sql":     {Data: []byte("SELECT 1;")},
		"migrations/000001_flow_results.up.sql":  {Data: []byte("SELECT 1;")},
		"migrations/000001_flow_results.down.sql": {Data: []byte("SELECT 1;")},
	}

	files := listMigrationFiles(fsys, "migrations")
	assert.Equal(t, []string{"000001_flow_results.up.sql", "000002_add_index.up.sql"}, files)
	assert.Equal(t, []string{"000002_add_index.up.sql"}, selectApplied(files, 1, 2))
	assert.Empty(t, selectApplied(files, 2, 2))
	assert.Equal(t, uint64(2), parseVersion("000002_add_index.up.sql"))
	assert.Zero(t, parseVersion("readme.md"))
}
