package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Organization is the tenant and the company profile rendered on quotations.
type Organization struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	Name            string       `gorm:"type:text;not null" json:"name"`
	Slug            string       `gorm:"type:text;not null;uniqueIndex" json:"slug"`
	Email           string       `gorm:"type:text" json:"email"`
	Phone           string       `gorm:"type:text" json:"phone"`
	Website         string       `gorm:"type:text" json:"website"`
	Address         string       `gorm:"type:text" json:"address"`
	TaxNumber       string       `gorm:"type:text" json:"tax_number"`
	LogoURL         string       `gorm:"type:text" json:"logo_url"`
	DefaultCurrency string       `gorm:"type:text;not null;default:'USD'" json:"default_currency"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }
