package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusWon       Status = "won"
	StatusLost      Status = "lost"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusWon, StatusLost:
		return true
	default:
		return false
	}
}

// Lead is a prospective client. Quotations can copy their client block from it.
type Lead struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID `gorm:"not null;index" json:"organization_id"`
	Title       string       `gorm:"type:text;not null" json:"title"`
	ContactName string       `gorm:"type:text;not null" json:"contact_name"`
	Company     string       `gorm:"type:text" json:"company"`
	Email       string       `gorm:"type:text" json:"email"`
	Phone       string       `gorm:"type:text" json:"phone"`
	Address     string       `gorm:"type:text" json:"address"`
	Source      string       `gorm:"type:text" json:"source"`
	Status      Status       `gorm:"type:text;not null;default:'new'" json:"status"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Lead) TableName() string { return "leads" }

type EntryKind string

const (
	EntryNote           EntryKind = "note"
	EntryFollowupRemark EntryKind = "followup_remark"
	EntryFollowupClosed EntryKind = "followup_closed"
	EntryQuotation      EntryKind = "quotation"
)

// TimelineEntry is an append-only activity record on a lead.
type TimelineEntry struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"not null;index" json:"organization_id"`
	LeadID    snowflake.ID `gorm:"not null;index" json:"lead_id"`
	Kind      EntryKind    `gorm:"type:text;not null" json:"kind"`
	Message   string       `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (TimelineEntry) TableName() string { return "lead_timeline_entries" }
