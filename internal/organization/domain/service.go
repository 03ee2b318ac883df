package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type UpdateRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	Website         *string `json:"website"`
	Address         *string `json:"address"`
	TaxNumber       *string `json:"tax_number"`
	LogoURL         *string `json:"logo_url"`
	DefaultCurrency *string `json:"default_currency"`
}

type Service interface {
	// Current returns the organization bound to ctx.
	Current(ctx context.Context) (*Organization, error)
	Update(ctx context.Context, req UpdateRequest) (*Organization, error)
}

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Organization, error)
	Update(ctx context.Context, db *gorm.DB, org *Organization) error
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidEmail        = errors.New("invalid_email")
	ErrInvalidCurrency     = errors.New("invalid_currency")
	ErrNotFound            = errors.New("not_found")
)
