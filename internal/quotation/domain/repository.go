package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, q *Quotation) error
	// Update saves the quotation row and replaces its items.
	Update(ctx context.Context, db *gorm.DB, q *Quotation) error
	Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Quotation, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListRequest) ([]Quotation, error)
	// LastNumber returns the highest number starting with prefix, or "".
	LastNumber(ctx context.Context, db *gorm.DB, orgID snowflake.ID, prefix string) (string, error)
}
