package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tmpl *Template) error
	Update(ctx context.Context, db *gorm.DB, tmpl *Template) error
	Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Template, error)
	FindDefault(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*Template, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListRequest) ([]Template, error)
	Count(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (int64, error)
	// ClearDefault unsets the default flag on every template of the organization.
	ClearDefault(ctx context.Context, db *gorm.DB, orgID snowflake.ID) error
}
