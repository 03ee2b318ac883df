package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListRequest struct {
	Name   string `form:"name"`
	Active *bool  `form:"active"`
}

type CreateRequest struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Unit        string   `json:"unit"`
	UnitPrice   float64  `json:"unit_price"`
	TaxPercent  float64  `json:"tax_percent"`
	MaxDiscount *float64 `json:"max_discount"`
}

type UpdateRequest struct {
	ID          string   `json:"id"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Unit        *string  `json:"unit"`
	UnitPrice   *float64 `json:"unit_price"`
	TaxPercent  *float64 `json:"tax_percent"`
	MaxDiscount *float64 `json:"max_discount"`
	// ClearMaxDiscount removes the discount cap.
	ClearMaxDiscount bool  `json:"clear_max_discount"`
	Active           *bool `json:"active"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Product, error)
	List(ctx context.Context, req ListRequest) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Update(ctx context.Context, req UpdateRequest) (*Product, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, product *Product) error
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Product, error)
	FindByCode(ctx context.Context, db *gorm.DB, orgID snowflake.ID, code string) (*Product, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListRequest) ([]Product, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidCode         = errors.New("invalid_code")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidPrice        = errors.New("invalid_price")
	ErrInvalidTax          = errors.New("invalid_tax")
	ErrInvalidMaxDiscount  = errors.New("invalid_max_discount")
	ErrCodeExists          = errors.New("code_exists")
	ErrNotFound            = errors.New("not_found")
)
