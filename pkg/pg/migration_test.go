package pg

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableDDL(t *testing.T, sql, table string) string {
	t.Helper()
	start := strings.Index(sql, "CREATE TABLE IF NOT EXISTS "+table+" (")
	require.NotEqual(t, -1, start, "table %s not found", table)
	end := strings.Index(sql[start:], ");")
	require.NotEqual(t, -1, end)
	return sql[start : start+end]
}

// Transactions outlive their customers: the reference is a plain column so
// inserts against a deleted customer commit and deletes never rewrite history.
func TestInitMigration_TransactionCustomerIsPlainColumn(t *testing.T) {
	raw, err := os.ReadFile("../../migrations/00001_init.sql")
	require.NoError(t, err)

	ddl := tableDDL(t, string(raw), "transactions")
	for _, line := range strings.Split(ddl, "\n") {
		if strings.Contains(line, "customer_id") {
			assert.NotContains(t, line, "REFERENCES")
			assert.NotContains(t, line, "ON DELETE")
		}
	}
	assert.Contains(t, string(raw), "idx_transactions_customer_id")
}
