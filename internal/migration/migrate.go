package migration

import (
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	// Registers the postgres:// database driver.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/smallbiznis/quotely/internal/config"
	"github.com/smallbiznis/quotely/internal/events"
	followupdomain "github.com/smallbiznis/quotely/internal/followup/domain"
	leaddomain "github.com/smallbiznis/quotely/internal/lead/domain"
	organizationdomain "github.com/smallbiznis/quotely/internal/organization/domain"
	productdomain "github.com/smallbiznis/quotely/internal/product/domain"
	quotationdomain "github.com/smallbiznis/quotely/internal/quotation/domain"
	quotetemplatedomain "github.com/smallbiznis/quotely/internal/quotetemplate/domain"
	"github.com/smallbiznis/quotely/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migration",
	fx.Invoke(Run),
)

type Params struct {
	fx.In

	Config config.Config
	DB     *gorm.DB
	Log    *zap.Logger
}

// Run brings the schema up to date for the configured database.
func Run(p Params) error {
	log := p.Log.Named("migration")
	switch p.Config.DBType {
	case "postgres":
		if err := RunPostgres(db.PostgresURL(p.Config)); err != nil {
			return err
		}
	default:
		if err := AutoMigrate(p.DB); err != nil {
			return err
		}
	}
	log.Info("schema up to date", zap.String("db_type", p.Config.DBType))
	return nil
}

// RunPostgres applies the embedded SQL migrations to the database at url.
func RunPostgres(url string) error {
	src, err := iofs.New(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}
	return nil
}

// Models lists every persisted type, in dependency order.
func Models() []any {
	return []any{
		&organizationdomain.Organization{},
		&leaddomain.Lead{},
		&leaddomain.TimelineEntry{},
		&productdomain.Product{},
		&quotetemplatedomain.Template{},
		&quotationdomain.Quotation{},
		&quotationdomain.LineItem{},
		&followupdomain.Followup{},
		&followupdomain.Remark{},
		&events.Record{},
	}
}

// AutoMigrate creates the schema through gorm. Used for sqlite.
func AutoMigrate(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("automigrate %T: %w", model, err)
		}
	}
	return nil
}
