package migrations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zakiByline/remui-kids-sub019/internal/db"
)

func TestListMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_training.sql", "001_settings.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o700))

	files, err := listMigrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_settings.sql", "002_training.sql"}, files)

	_, err = listMigrationFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestVersionOf(t *testing.T) {
	assert.Equal(t, "001", versionOf("001_school_settings.sql"))
	assert.Equal(t, "bare.sql", versionOf("bare.sql"))
}

func TestTrackingTableUsesPrefix(t *testing.T) {
	m := &Migrator{schema: db.NewSchema("m_")}
	assert.Equal(t, "m_remui_schema_migrations", m.trackingTable())
}

func TestShippedMigrationsUsePrefixPlaceholder(t *testing.T) {
	dir := filepath.Join("..", "..", "..", "migrations")
	files, err := listMigrationFiles(dir)
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		body, err := os.ReadFile(filepath.Join(dir, f))
		require.NoError(t, err)
		assert.Contains(t, string(body), "{{prefix}}", f)
		assert.NotContains(t, string(body), "mdl_", f)
	}
}
