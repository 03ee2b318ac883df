package events

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Quotation lifecycle event types.
const (
	EventQuotationCreated       = "quotation.created"
	EventQuotationUpdated       = "quotation.updated"
	EventQuotationStatusChanged = "quotation.status_changed"
	EventQuotationExported      = "quotation.exported"
	EventQuotationDeleted       = "quotation.deleted"
)

// Record is a stored outbox row.
type Record struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID      `gorm:"not null;uniqueIndex:ux_quotation_events_org_dedupe,priority:1" json:"organization_id"`
	EventType string            `gorm:"type:text;not null;index" json:"event_type"`
	Payload   datatypes.JSONMap `gorm:"type:jsonb" json:"payload"`
	DedupeKey *string           `gorm:"type:text;uniqueIndex:ux_quotation_events_org_dedupe,priority:2" json:"dedupe_key,omitempty"`
	Published bool              `gorm:"not null;default:false;index" json:"published"`
	CreatedAt time.Time         `gorm:"not null" json:"created_at"`
}

// TableName sets the database table name.
func (Record) TableName() string { return "quotation_events" }

// QuotationPayload is the common body of quotation events.
type QuotationPayload struct {
	QuotationID string  `json:"quotation_id"`
	Number      string  `json:"number"`
	Status      string  `json:"status"`
	Currency    string  `json:"currency"`
	Total       float64 `json:"total"`
	// PreviousStatus is set on status changes.
	PreviousStatus string `json:"previous_status,omitempty"`
}

func (p QuotationPayload) ToMap() map[string]any {
	payload := map[string]any{
		"quotation_id": p.QuotationID,
		"number":       p.Number,
		"status":       p.Status,
		"currency":     p.Currency,
		"total":        p.Total,
	}
	if p.PreviousStatus != "" {
		payload["previous_status"] = p.PreviousStatus
	}
	return payload
}

// ExportPayload describes a rendered export.
type ExportPayload struct {
	QuotationID string `json:"quotation_id"`
	Format      string `json:"format"`
	TemplateID  string `json:"template_id"`
	ObjectKey   string `json:"object_key,omitempty"`
	Bytes       int    `json:"bytes"`
}

func (p ExportPayload) ToMap() map[string]any {
	payload := map[string]any{
		"quotation_id": p.QuotationID,
		"format":       p.Format,
		"template_id":  p.TemplateID,
		"bytes":        p.Bytes,
	}
	if p.ObjectKey != "" {
		payload["object_key"] = p.ObjectKey
	}
	return payload
}
