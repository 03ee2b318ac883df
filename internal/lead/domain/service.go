package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListRequest struct {
	Status string `form:"status"`
	Search string `form:"q"`
}

type CreateRequest struct {
	Title       string `json:"title"`
	ContactName string `json:"contact_name"`
	Company     string `json:"company"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Source      string `json:"source"`
}

type UpdateRequest struct {
	ID          string  `json:"id"`
	Title       *string `json:"title"`
	ContactName *string `json:"contact_name"`
	Company     *string `json:"company"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Status      *string `json:"status"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Lead, error)
	List(ctx context.Context, req ListRequest) ([]Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	Update(ctx context.Context, req UpdateRequest) (*Lead, error)
	Timeline(ctx context.Context, id string) ([]TimelineEntry, error)
	// AppendTimeline records an activity on a lead. A non-nil tx joins the
	// caller's transaction.
	AppendTimeline(ctx context.Context, tx *gorm.DB, leadID snowflake.ID, kind EntryKind, message string) (*TimelineEntry, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, lead *Lead) error
	Update(ctx context.Context, db *gorm.DB, lead *Lead) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Lead, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListRequest) ([]Lead, error)
	InsertEntry(ctx context.Context, db *gorm.DB, entry *TimelineEntry) error
	ListEntries(ctx context.Context, db *gorm.DB, orgID, leadID snowflake.ID) ([]TimelineEntry, error)
}

func ParseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidTitle        = errors.New("invalid_title")
	ErrInvalidContactName  = errors.New("invalid_contact_name")
	ErrInvalidEmail        = errors.New("invalid_email")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidMessage      = errors.New("invalid_message")
	ErrNotFound            = errors.New("not_found")
)
