package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nimasrn/ledger-api/pkg/pg"
)

// Entities lists every table, in creation order, for AutoMigrate.
var Entities = []interface{}{
	&CustomerEntity{},
	&ProductEntity{},
	&TransactionEntity{},
	&TransactionItemEntity{},
	&TemplateEntity{},
	&AdminEntity{},
	&NotificationEntity{},
}

// NewTestDB opens a private in-memory sqlite database with the full schema.
// It is used by the tests of this and dependent packages.
func NewTestDB(t testing.TB) *pg.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Entities...))

	return pg.New(db, db)
}
