package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotely/internal/clock"
)

type Stage string

const (
	StageOpen   Stage = "open"
	StageClosed Stage = "closed"
)

// Bucket groups open follow-ups by their date relative to today.
type Bucket string

const (
	BucketToday    Bucket = "today"
	BucketOverdue  Bucket = "overdue"
	BucketUpcoming Bucket = "upcoming"
)

func (b Bucket) Valid() bool {
	return b == BucketToday || b == BucketOverdue || b == BucketUpcoming
}

type Followup struct {
	ID           snowflake.ID  `gorm:"primaryKey" json:"id"`
	OrgID        snowflake.ID  `gorm:"not null;index" json:"organization_id"`
	LeadID       snowflake.ID  `gorm:"not null;index" json:"lead_id"`
	QuotationID  *snowflake.ID `json:"quotation_id,omitempty"`
	Title        string        `gorm:"type:text;not null" json:"title"`
	FollowupDate time.Time     `gorm:"not null;index" json:"followup_date"`
	Stage        Stage         `gorm:"type:text;not null;default:'open'" json:"stage"`
	ClosedAt     *time.Time    `json:"closed_at,omitempty"`
	Remarks      []Remark      `gorm:"foreignKey:FollowupID" json:"remarks"`
	CreatedAt    time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Followup) TableName() string { return "followups" }

type Remark struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID `gorm:"not null;index" json:"organization_id"`
	FollowupID snowflake.ID `gorm:"not null;index" json:"followup_id"`
	Message    string       `gorm:"type:text;not null" json:"message"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Remark) TableName() string { return "followup_remarks" }

// Classify places an open follow-up into a bucket. Closed follow-ups belong to none.
// Dates compare by calendar day in now's location.
func Classify(f Followup, now time.Time) (Bucket, bool) {
	if f.Stage != StageOpen {
		return "", false
	}
	today := clock.StartOfDay(now)
	due := clock.StartOfDay(f.FollowupDate.In(now.Location()))
	switch {
	case due.Before(today):
		return BucketOverdue, true
	case due.Equal(today):
		return BucketToday, true
	default:
		return BucketUpcoming, true
	}
}
