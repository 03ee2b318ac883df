package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListRequest struct {
	Bucket string `form:"bucket"`
	Stage  string `form:"stage"`
	LeadID string `form:"lead_id"`
}

type CreateRequest struct {
	LeadID       string     `json:"lead_id"`
	QuotationID  *string    `json:"quotation_id"`
	Title        string     `json:"title"`
	FollowupDate *time.Time `json:"followup_date"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Followup, error)
	List(ctx context.Context, req ListRequest) ([]Followup, error)
	GetByID(ctx context.Context, id string) (*Followup, error)
	AddRemark(ctx context.Context, id string, message string) (*Followup, error)
	Close(ctx context.Context, id string, remark string) (*Followup, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, f *Followup) error
	Update(ctx context.Context, db *gorm.DB, f *Followup) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Followup, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, stage Stage, leadID snowflake.ID) ([]Followup, error)
	InsertRemark(ctx context.Context, db *gorm.DB, remark *Remark) error
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidLead         = errors.New("invalid_lead")
	ErrInvalidQuotation    = errors.New("invalid_quotation")
	ErrInvalidTitle        = errors.New("invalid_title")
	ErrInvalidDate         = errors.New("invalid_followup_date")
	ErrInvalidBucket       = errors.New("invalid_bucket")
	ErrInvalidStage        = errors.New("invalid_stage")
	ErrInvalidRemark       = errors.New("invalid_remark")
	ErrAlreadyClosed       = errors.New("already_closed")
	ErrNotFound            = errors.New("not_found")
)
