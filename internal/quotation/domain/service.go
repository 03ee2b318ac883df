package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

type ListRequest struct {
	Status string `form:"status"`
	LeadID string `form:"lead_id"`
	Search string `form:"q"`
}

type ClientInput struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type ItemInput struct {
	ProductID       *string  `json:"product_id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Quantity        *float64 `json:"quantity"`
	UnitPrice       *float64 `json:"unit_price"`
	DiscountPercent *float64 `json:"discount_percent"`
	TaxPercent      *float64 `json:"tax_percent"`
}

// CreateRequest carries the raw inputs of a quotation. Derived totals are
// never accepted from callers.
type CreateRequest struct {
	Title         string      `json:"title"`
	LeadID        *string     `json:"lead_id"`
	Client        ClientInput `json:"client"`
	Items         []ItemInput `json:"items"`
	DiscountType  string      `json:"discount_type"`
	DiscountValue float64     `json:"discount_value"`
	TaxName       string      `json:"tax_name"`
	TaxPercentage float64     `json:"tax_percentage"`
	Shipping      float64     `json:"shipping"`
	Currency      string      `json:"currency"`
	IssueDate     *time.Time  `json:"issue_date"`
	ValidUntil    *time.Time  `json:"valid_until"`
	Terms         []Term      `json:"terms"`
	Notes         string      `json:"notes"`
	TemplateID    *string     `json:"template_id"`
}

// UpdateRequest replaces the editable inputs of an existing quotation.
type UpdateRequest struct {
	ID string `json:"id"`
	CreateRequest
}

// ItemChange is the result of an item edit.
type ItemChange struct {
	Quotation       *Quotation `json:"quotation"`
	DiscountClamped bool       `json:"discount_clamped"`
	Warning         string     `json:"warning,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Quotation, error)
	Preview(ctx context.Context, req CreateRequest) (*Quotation, error)
	List(ctx context.Context, req ListRequest) ([]Quotation, error)
	GetByID(ctx context.Context, id string) (*Quotation, error)
	Update(ctx context.Context, req UpdateRequest) (*Quotation, error)
	UpdateStatus(ctx context.Context, id string, status string) (*Quotation, error)
	Delete(ctx context.Context, id string) error
	AddItem(ctx context.Context, id string, req ItemInput) (*ItemChange, error)
	UpdateItem(ctx context.Context, id string, index int, req ItemInput) (*ItemChange, error)
	RemoveItem(ctx context.Context, id string, index int) (*ItemChange, error)
}

func ParseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidClient       = errors.New("invalid_client")
	ErrInvalidItems        = errors.New("invalid_items")
	ErrInvalidItemName     = errors.New("invalid_item_name")
	ErrInvalidDiscountType = errors.New("invalid_discount_type")
	ErrInvalidCurrency     = errors.New("invalid_currency")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidDates        = errors.New("invalid_dates")
	ErrInvalidLead         = errors.New("invalid_lead")
	ErrInvalidProduct      = errors.New("invalid_product")
	ErrInvalidTemplate     = errors.New("invalid_template")
	ErrItemNotFound        = errors.New("item_not_found")
	ErrNotFound            = errors.New("not_found")
)
