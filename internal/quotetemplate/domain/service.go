package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
)

type ListRequest struct {
	Name      string `form:"name"`
	IsDefault *bool  `form:"is_default"`
}

type CreateRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsDefault   bool      `json:"is_default"`
	Header      string    `json:"header"`
	Footer      string    `json:"footer"`
	Sections    []Section `json:"sections"`
	Styles      Styles    `json:"styles"`
}

type UpdateRequest struct {
	ID          string     `json:"id"`
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Header      *string    `json:"header"`
	Footer      *string    `json:"footer"`
	Sections    *[]Section `json:"sections"`
	Styles      *Styles    `json:"styles"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Template, error)
	List(ctx context.Context, req ListRequest) ([]Template, error)
	GetByID(ctx context.Context, id string) (*Template, error)
	// Resolve returns the template with id, or the organization default when id is nil.
	Resolve(ctx context.Context, id *snowflake.ID) (*Template, error)
	Update(ctx context.Context, req UpdateRequest) (*Template, error)
	SetDefault(ctx context.Context, id string) (*Template, error)
	Delete(ctx context.Context, id string) error
	// SeedDefaults installs the prebuilt templates for an organization that has none.
	SeedDefaults(ctx context.Context) ([]Template, error)
}

func ParseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidSection      = errors.New("invalid_section")
	ErrDuplicateSection    = errors.New("duplicate_section")
	ErrInvalidStyles       = errors.New("invalid_styles")
	ErrNotFound            = errors.New("template_not_found")
)
