package db

import (
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"github.com/ibrahim/dbpulse/internal/models"
)

// sqlColumns pulls the column names out of one CREATE TABLE block.
func sqlColumns(t *testing.T, sql, table string) map[string]bool {
	t.Helper()
	marker := "CREATE TABLE IF NOT EXISTS " + table + " ("
	start := strings.Index(sql, marker)
	require.GreaterOrEqual(t, start, 0, "no CREATE TABLE for %s", table)
	body := sql[start+len(marker):]
	end := strings.Index(body, ");")
	require.GreaterOrEqual(t, end, 0, "unterminated CREATE TABLE for %s", table)

	cols := map[string]bool{}
	for _, line := range strings.Split(body[:end], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cols[strings.ToLower(strings.Fields(line)[0])] = true
	}
	return cols
}

// The SQL migration is authoritative when MIGRATIONS is set, and GORM writes
// every mapped column on insert, so each model column must exist in the
// migrated schema or writes fail at runtime.
func TestMigrationSchemaCoversModelColumns(t *testing.T) {
	raw, err := os.ReadFile("../../migrations/0001_init.up.sql")
	require.NoError(t, err)
	sql := string(raw)

	cases := []struct {
		model any
		table string
	}{
		{&models.Client{}, "clients"},
		{&models.Product{}, "products"},
		{&models.Order{}, "orders"},
		{&models.OrderItem{}, "order_items"},
	}
	for _, tc := range cases {
		cols := sqlColumns(t, sql, tc.table)
		parsed, err := schema.Parse(tc.model, &sync.Map{}, schema.NamingStrategy{})
		require.NoError(t, err)
		assert.Equal(t, tc.table, parsed.Table)
		for _, field := range parsed.Fields {
			if field.DBName == "" {
				continue
			}
			assert.Contains(t, cols, field.DBName, "table %s is missing column %s", tc.table, field.DBName)
		}
	}
}
