package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/smallbiznis/quotely/internal/config"
	"github.com/smallbiznis/quotely/internal/events"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("scheduler",
	fx.Provide(New),
	fx.Invoke(func(*Scheduler) {}),
)

// Dispatcher delivers one outbox event. A returned error leaves the event
// pending for the next run.
type Dispatcher interface {
	Dispatch(ctx context.Context, record events.Record) error
}

// LogDispatcher writes events to the structured log.
type LogDispatcher struct {
	Log *zap.Logger
}

func (d LogDispatcher) Dispatch(ctx context.Context, record events.Record) error {
	d.Log.Info("quotation event",
		zap.String("event_id", record.ID.String()),
		zap.String("org_id", record.OrgID.String()),
		zap.String("event_type", record.EventType),
		zap.Any("payload", record.Payload),
	)
	return nil
}

type Config struct {
	Enabled   bool
	Interval  time.Duration
	BatchSize int
}

type Params struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Config     config.Config
	DB         *gorm.DB
	Log        *zap.Logger
	Outbox     *events.Outbox
	Dispatcher Dispatcher `optional:"true"`
}

// Scheduler relays outbox events on a fixed interval.
type Scheduler struct {
	cfg        Config
	db         *gorm.DB
	log        *zap.Logger
	outbox     *events.Outbox
	dispatcher Dispatcher

	stop chan struct{}
	wg   sync.WaitGroup
}

func New(p Params) *Scheduler {
	s := NewScheduler(Config{
		Enabled:   p.Config.Scheduler.Enabled,
		Interval:  p.Config.Scheduler.Interval,
		BatchSize: p.Config.Scheduler.BatchSize,
	}, p.DB, p.Log, p.Outbox, p.Dispatcher)

	if s.cfg.Enabled && p.Lifecycle != nil {
		p.Lifecycle.Append(fx.Hook{
			OnStart: func(context.Context) error {
				s.Start()
				return nil
			},
			OnStop: func(context.Context) error {
				s.Stop()
				return nil
			},
		})
	}
	return s
}

func NewScheduler(cfg Config, db *gorm.DB, log *zap.Logger, outbox *events.Outbox, dispatcher Dispatcher) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	log = log.Named("scheduler")
	if dispatcher == nil {
		dispatcher = LogDispatcher{Log: log}
	}
	return &Scheduler{
		cfg:        cfg,
		db:         db,
		log:        log,
		outbox:     outbox,
		dispatcher: dispatcher,
	}
}

func (s *Scheduler) Start() {
	s.stop = make(chan struct{})
	s.wg.Add(1)
	go s.loop()
	s.log.Info("outbox relay started", zap.Duration("interval", s.cfg.Interval))
}

func (s *Scheduler) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.wg.Wait()
	s.stop = nil
	s.log.Info("outbox relay stopped")
}

func (s *Scheduler) loop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Interval)
			if _, err := s.RunOnce(ctx); err != nil {
				s.log.Warn("outbox relay run failed", zap.Error(err))
			}
			cancel()
		}
	}
}

// RunOnce relays batches until the outbox is drained or a dispatch fails,
// and returns how many events were published.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	total := 0
	for {
		n, done, err := s.relayBatch(ctx)
		total += n
		if err != nil || done {
			return total, err
		}
	}
}
