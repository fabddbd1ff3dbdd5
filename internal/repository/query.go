package repository

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// sumRow receives a single nullable SUM aliased as total.
type sumRow struct {
	Total decimal.NullDecimal `gorm:"column:total"`
}

func (r sumRow) value() decimal.Decimal {
	if !r.Total.Valid {
		return decimal.Zero
	}
	return r.Total.Decimal
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s as a literal substring.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// whereContainsAny adds a case-insensitive substring match over columns,
// joined with OR.
func whereContainsAny(q *gorm.DB, search string, columns ...string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return q
	}
	pattern := containsPattern(search)
	clauses := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, c := range columns {
		clauses[i] = "LOWER(" + c + `) LIKE ? ESCAPE '\'`
		args[i] = pattern
	}
	return q.Where(strings.Join(clauses, " OR "), args...)
}
