package database

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tables owned by the portal; rollbacks must never touch them
var portalTables = []string{"users", "documents"}

func TestMigrations_downLeavesPortalTables(t *testing.T) {
	files, err := fs.Glob(migrations, migrationsDir+"/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			data, err := migrations.ReadFile(file)
			require.NoError(t, err)

			parts := strings.SplitN(string(data), "-- +goose Down", 2)
			require.Len(t, parts, 2, "missing Down section")
			down := stripSQLComments(parts[1])

			for _, table := range portalTables {
				destructive := regexp.MustCompile(`(?i)\b(DROP|TRUNCATE|ALTER|DELETE\s+FROM)\b[^;]*\b` + table + `\b`)
				assert.False(t, destructive.MatchString(down), "Down section of %s modifies %s", file, table)
			}
		})
	}
}

func TestMigrations_upKeepsExistingPortalTables(t *testing.T) {
	data, err := migrations.ReadFile(migrationsDir + "/00001_create_shared_tables.sql")
	require.NoError(t, err)
	up := stripSQLComments(strings.SplitN(string(data), "-- +goose Down", 2)[0])

	for _, table := range portalTables {
		assert.Regexp(t, `(?i)CREATE TABLE IF NOT EXISTS `+table+`\b`, up)
	}
}

func stripSQLComments(sql string) string {
	lines := strings.Split(sql, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if !strings.HasPrefix(strings.TrimSpace(l), "--") {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}
