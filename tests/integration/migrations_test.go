// This file verifies that the up migrations can be applied to a database
// that already carries the full schema. Guarded statements (CREATE TABLE IF
// NOT EXISTS, idempotent enum creation) must make a re-run a no-op, so a
// deployment that retries after a partial apply does not fail.
package integration

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrations_UpIsRepeatable(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	// NewTestDB already ran every migration once through golang-migrate.
	testDB := NewTestDB(t)

	migrationsPath := findMigrationsPath()
	require.NotEmpty(t, migrationsPath, "Could not find migrations directory")

	entries, err := os.ReadDir(migrationsPath)
	require.NoError(t, err)

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)
	require.NotEmpty(t, upFiles, "No up migrations found")

	// Re-apply each file directly, bypassing the schema_migrations version
	// table. Every statement must tolerate objects that already exist.
	for _, name := range upFiles {
		t.Run(name, func(t *testing.T) {
			content, err := os.ReadFile(filepath.Join(migrationsPath, name))
			require.NoError(t, err)

			_, err = testDB.SqlDB.Exec(string(content))
			require.NoError(t, err, "Migration %s is not repeatable", name)
		})
	}
}
