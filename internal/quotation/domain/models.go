package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotely/internal/pricing"
	"gorm.io/datatypes"
)

// Status is a plain label; transitions only happen on explicit user action.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusApproved, StatusRejected, StatusExpired:
		return true
	default:
		return false
	}
}

// Client is the snapshot of the quoted party stored on the quotation.
type Client struct {
	LeadID  *snowflake.ID `json:"lead_id,omitempty"`
	Name    string        `gorm:"type:text" json:"name"`
	Company string        `gorm:"type:text" json:"company"`
	Email   string        `gorm:"type:text" json:"email"`
	Phone   string        `gorm:"type:text" json:"phone"`
	Address string        `gorm:"type:text" json:"address"`
}

// Term is one titled block of terms and conditions.
type Term struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// LineItem is one priced row. Total is derived and never read as input.
type LineItem struct {
	ID              snowflake.ID  `gorm:"primaryKey" json:"id"`
	QuotationID     snowflake.ID  `gorm:"not null;index" json:"-"`
	Position        int           `gorm:"not null" json:"position"`
	ProductID       *snowflake.ID `json:"product_id,omitempty"`
	Name            string        `gorm:"type:text;not null" json:"name"`
	Description     string        `gorm:"type:text" json:"description"`
	Quantity        float64       `gorm:"not null;default:1" json:"quantity"`
	UnitPrice       float64       `gorm:"not null;default:0" json:"unit_price"`
	DiscountPercent float64       `gorm:"not null;default:0" json:"discount_percent"`
	TaxPercent      float64       `gorm:"not null;default:0" json:"tax_percent"`
	MaxDiscount     *float64      `json:"max_discount,omitempty"`
	Total           float64       `gorm:"not null;default:0" json:"total"`
}

// TableName sets the database table name.
func (LineItem) TableName() string { return "quotation_items" }

// NewLineItem returns the default row added by the editor.
func NewLineItem() LineItem {
	return LineItem{Quantity: 1}
}

// PricingItem projects the fields the pricing engine reads.
func (i LineItem) PricingItem() pricing.Item {
	return pricing.Item{
		Quantity:        i.Quantity,
		UnitPrice:       i.UnitPrice,
		DiscountPercent: i.DiscountPercent,
		TaxPercent:      i.TaxPercent,
		MaxDiscount:     i.MaxDiscount,
	}
}

// Breakdown returns the intermediate values of the item total.
func (i LineItem) Breakdown() pricing.LineBreakdown {
	return pricing.Line(i.PricingItem())
}

// Quotation is a priced document addressed to a client.
type Quotation struct {
	ID     snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID  snowflake.ID `gorm:"not null;index;uniqueIndex:ux_quotations_org_number,priority:1" json:"organization_id"`
	Number string       `gorm:"type:text;not null;uniqueIndex:ux_quotations_org_number,priority:2" json:"number"`
	Title  string       `gorm:"type:text" json:"title"`
	Client Client       `gorm:"embedded;embeddedPrefix:client_" json:"client"`

	Items []LineItem `gorm:"foreignKey:QuotationID" json:"items"`

	DiscountType  pricing.DiscountType `gorm:"type:text;not null;default:'percentage'" json:"discount_type"`
	DiscountValue float64              `gorm:"not null;default:0" json:"discount_value"`
	TaxName       string               `gorm:"type:text" json:"tax_name"`
	TaxPercentage float64              `gorm:"not null;default:0" json:"tax_percentage"`
	Shipping      float64              `gorm:"not null;default:0" json:"shipping"`

	Subtotal       float64 `gorm:"not null;default:0" json:"subtotal"`
	DiscountAmount float64 `gorm:"not null;default:0" json:"discount_amount"`
	TaxAmount      float64 `gorm:"not null;default:0" json:"tax_amount"`
	Total          float64 `gorm:"not null;default:0" json:"total"`

	Currency   string                     `gorm:"type:text;not null" json:"currency"`
	IssueDate  time.Time                  `gorm:"not null" json:"issue_date"`
	ValidUntil time.Time                  `gorm:"not null" json:"valid_until"`
	Terms      datatypes.JSONSlice[Term]  `gorm:"type:jsonb" json:"terms"`
	Notes      string                     `gorm:"type:text" json:"notes"`
	TemplateID *snowflake.ID              `json:"template_id,omitempty"`
	Status     Status                     `gorm:"type:text;not null;default:'draft'" json:"status"`
	CreatedAt  time.Time                  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time                  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Quotation) TableName() string { return "quotations" }
