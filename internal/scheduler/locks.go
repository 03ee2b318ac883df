package scheduler

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// relayBatch claims one batch of pending events, dispatches them in order and
// marks the delivered ones as published in the same transaction. done is
// true when the batch was short or a dispatch failed.
func (s *Scheduler) relayBatch(ctx context.Context) (int, bool, error) {
	published := 0
	done := false
	var dispatchErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		records, err := s.outbox.ClaimPending(ctx, tx, s.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("claim events: %w", err)
		}
		if len(records) < s.cfg.BatchSize {
			done = true
		}

		ids := make([]snowflake.ID, 0, len(records))
		for _, record := range records {
			if err := s.dispatcher.Dispatch(ctx, record); err != nil {
				s.log.Warn("dispatch event failed",
					zap.String("event_id", record.ID.String()),
					zap.String("event_type", record.EventType),
					zap.Error(err),
				)
				dispatchErr = fmt.Errorf("dispatch %s: %w", record.ID, err)
				done = true
				break
			}
			ids = append(ids, record.ID)
		}

		if err := s.outbox.MarkPublishedTx(ctx, tx, ids); err != nil {
			return fmt.Errorf("mark published: %w", err)
		}
		published = len(ids)
		return nil
	})
	if err != nil {
		return 0, true, err
	}
	if published > 0 {
		s.log.Debug("relayed events", zap.Int("count", published))
	}
	// The delivered prefix stays committed; the failed event is retried next run.
	return published, done, dispatchErr
}
