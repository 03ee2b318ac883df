package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var Module = fx.Module("events.outbox",
	fx.Provide(NewOutbox),
)

// Event describes a quotation event to store in the outbox.
type Event struct {
	OrgID     snowflake.ID
	Type      string
	Payload   map[string]any
	DedupeKey string
}

// Outbox inserts events into the quotation_events table for later relay.
type Outbox struct {
	db    *gorm.DB
	genID *snowflake.Node
	now   func() time.Time
}

func NewOutbox(db *gorm.DB, genID *snowflake.Node) *Outbox {
	return &Outbox{db: db, genID: genID, now: func() time.Time { return time.Now().UTC() }}
}

// Publish stores an event using the default database connection.
func (o *Outbox) Publish(ctx context.Context, event Event) error {
	if o == nil {
		return errors.New("outbox_unavailable")
	}
	return o.publish(ctx, o.db, event)
}

// PublishTx stores an event inside an existing transaction.
func (o *Outbox) PublishTx(ctx context.Context, tx *gorm.DB, event Event) error {
	if tx == nil {
		return errors.New("missing_transaction")
	}
	return o.publish(ctx, tx, event)
}

// Pending returns unpublished events in insertion order.
func (o *Outbox) Pending(ctx context.Context, limit int) ([]Record, error) {
	return o.pending(ctx, o.db, limit, false)
}

// ClaimPending returns unpublished events and, on postgres, row-locks them
// for the rest of tx so concurrent relays skip them.
func (o *Outbox) ClaimPending(ctx context.Context, tx *gorm.DB, limit int) ([]Record, error) {
	if tx == nil {
		return nil, errors.New("missing_transaction")
	}
	return o.pending(ctx, tx, limit, tx.Dialector.Name() == "postgres")
}

// MarkPublished flags events as relayed.
func (o *Outbox) MarkPublished(ctx context.Context, ids []snowflake.ID) error {
	return o.MarkPublishedTx(ctx, o.db, ids)
}

// MarkPublishedTx flags events as relayed inside tx.
func (o *Outbox) MarkPublishedTx(ctx context.Context, tx *gorm.DB, ids []snowflake.ID) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.WithContext(ctx).
		Model(&Record{}).
		Where("id IN ?", ids).
		Update("published", true).Error
}

func (o *Outbox) pending(ctx context.Context, db *gorm.DB, limit int, lock bool) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}
	query := db.WithContext(ctx).
		Where("published = ?", false).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
	}
	var records []Record
	err := query.Find(&records).Error
	return records, err
}

func (o *Outbox) publish(ctx context.Context, db *gorm.DB, event Event) error {
	if o == nil || db == nil || o.genID == nil {
		return errors.New("outbox_unavailable")
	}
	if event.OrgID == 0 {
		return errors.New("invalid_org_id")
	}
	name := strings.TrimSpace(event.Type)
	if name == "" {
		return errors.New("missing_event_type")
	}

	payload := datatypes.JSONMap{}
	for key, value := range event.Payload {
		if strings.TrimSpace(key) == "" {
			continue
		}
		payload[key] = value
	}

	var dedupeValue any
	if dedupe := strings.TrimSpace(event.DedupeKey); dedupe != "" {
		dedupeValue = dedupe
	}

	return db.WithContext(ctx).Exec(
		`INSERT INTO quotation_events (id, org_id, event_type, payload, dedupe_key, published, created_at)
		 VALUES (?, ?, ?, ?, ?, false, ?)
		 ON CONFLICT (org_id, dedupe_key) DO NOTHING`,
		o.genID.Generate(),
		event.OrgID,
		name,
		payload,
		dedupeValue,
		o.now(),
	).Error
}
