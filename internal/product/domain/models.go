package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Product is a catalog entry line items can be bound to.
type Product struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID `gorm:"not null;index;uniqueIndex:ux_products_org_code,priority:1" json:"organization_id"`
	Code        string       `gorm:"type:text;not null;uniqueIndex:ux_products_org_code,priority:2" json:"code"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	Unit        string       `gorm:"type:text" json:"unit"`
	UnitPrice   float64      `gorm:"not null;default:0" json:"unit_price"`
	TaxPercent  float64      `gorm:"not null;default:0" json:"tax_percent"`
	// MaxDiscount caps the per-item discount percent of bound line items.
	MaxDiscount *float64  `json:"max_discount,omitempty"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }
