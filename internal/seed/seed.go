package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotely/internal/config"
	organizationdomain "github.com/smallbiznis/quotely/internal/organization/domain"
	"github.com/smallbiznis/quotely/internal/orgcontext"
	tpldomain "github.com/smallbiznis/quotely/internal/quotetemplate/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultOrgName     = "Main"
	defaultOrgSlug     = "main"
	defaultOrgCurrency = "USD"
)

var Module = fx.Module("seed",
	fx.Invoke(Run),
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Config    config.Config
	Templates tpldomain.Service
}

// Run applies the bootstrap steps enabled in the configuration.
func Run(p Params) error {
	ctx := context.Background()
	log := p.Log.Named("seed")
	if !p.Config.Bootstrap.EnsureMainOrg {
		return nil
	}

	org, err := EnsureMainOrg(ctx, p.DB, p.GenID)
	if err != nil {
		return err
	}
	log.Info("main organization ready", zap.String("org_id", org.ID.String()))

	if !p.Config.Bootstrap.EnsureDefaultTemplates {
		return nil
	}
	seeded, err := p.Templates.SeedDefaults(orgcontext.WithOrgID(ctx, int64(org.ID)))
	if err != nil {
		return err
	}
	if len(seeded) > 0 {
		log.Info("default templates installed", zap.Int("count", len(seeded)))
	}
	return nil
}

// EnsureMainOrg returns the main organization, creating it on first start.
func EnsureMainOrg(ctx context.Context, db *gorm.DB, node *snowflake.Node) (*organizationdomain.Organization, error) {
	if db == nil {
		return nil, errors.New("seed database handle is required")
	}
	if node == nil {
		return nil, errors.New("seed id generator is required")
	}

	var org organizationdomain.Organization
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("slug = ?", defaultOrgSlug).First(&org).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		now := time.Now().UTC()
		org = organizationdomain.Organization{
			ID:              node.Generate(),
			Name:            defaultOrgName,
			Slug:            defaultOrgSlug,
			DefaultCurrency: defaultOrgCurrency,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		return tx.Create(&org).Error
	})
	if err != nil {
		return nil, err
	}
	return &org, nil
}
