// Package dbtest opens isolated in-memory sqlite databases for tests.
package dbtest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotely/internal/migration"
	organizationdomain "github.com/smallbiznis/quotely/internal/organization/domain"
	"github.com/smallbiznis/quotely/internal/orgcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated database private to t.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := "file:" + name + "?mode=memory&cache=shared&_foreign_keys=0"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migration.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Node returns a snowflake generator for tests.
func Node(t testing.TB) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	return node
}

// SeedOrg inserts an organization and returns a context bound to it.
func SeedOrg(t testing.TB, db *gorm.DB, node *snowflake.Node) (context.Context, *organizationdomain.Organization) {
	t.Helper()
	org := &organizationdomain.Organization{
		ID:              node.Generate(),
		Name:            "Acme Studio",
		Email:           "hello@acme.test",
		Phone:           "+1 555 0100",
		Website:         "acme.test",
		Address:         "1 Main St",
		TaxNumber:       "TX-42",
		DefaultCurrency: "USD",
	}
	org.Slug = "acme-" + org.ID.String()
	if err := db.Create(org).Error; err != nil {
		t.Fatalf("seed org: %v", err)
	}
	return orgcontext.WithOrgID(context.Background(), int64(org.ID)), org
}
