package domain

import (
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type SectionType string

const (
	SectionClientInfo SectionType = "client_info"
	SectionItemsTable SectionType = "items_table"
	SectionSummary    SectionType = "summary"
	SectionTerms      SectionType = "terms"
)

// Builtin reports whether the renderer has a dedicated layout for t.
// Other types render their Content markup.
func (t SectionType) Builtin() bool {
	switch t {
	case SectionClientInfo, SectionItemsTable, SectionSummary, SectionTerms:
		return true
	default:
		return false
	}
}

type Section struct {
	ID        string      `json:"id"`
	Type      SectionType `json:"type"`
	Title     string      `json:"title"`
	Order     int         `json:"order"`
	IsVisible bool        `json:"is_visible"`
	// Content is token markup rendered for custom section types and
	// appended below the layout of built-in ones.
	Content string `json:"content,omitempty"`
}

type Styles struct {
	PrimaryColor string `json:"primary_color"`
	FontFamily   string `json:"font_family"`
	FontSize     int    `json:"font_size"`
	CustomCSS    string `json:"custom_css"`
}

// Template defines the layout used to render quotations.
type Template struct {
	ID          snowflake.ID                 `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID                 `gorm:"not null;index" json:"organization_id"`
	Name        string                       `gorm:"type:text;not null" json:"name"`
	Description string                       `gorm:"type:text" json:"description"`
	IsDefault   bool                         `gorm:"not null;default:false" json:"is_default"`
	Header      string                       `gorm:"type:text" json:"header"`
	Footer      string                       `gorm:"type:text" json:"footer"`
	Sections    datatypes.JSONSlice[Section] `gorm:"type:jsonb" json:"sections"`
	Styles      datatypes.JSONType[Styles]   `gorm:"type:jsonb" json:"styles"`
	CreatedAt   time.Time                    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time                    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Template) TableName() string { return "quotation_templates" }

// VisibleSections returns the visible sections ordered by Order. Ties keep
// their stored order.
func (t *Template) VisibleSections() []Section {
	out := make([]Section, 0, len(t.Sections))
	for _, section := range t.Sections {
		if section.IsVisible {
			out = append(out, section)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}
