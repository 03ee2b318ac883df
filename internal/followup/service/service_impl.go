package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotely/internal/clock"
	"github.com/smallbiznis/quotely/internal/followup/domain"
	leaddomain "github.com/smallbiznis/quotely/internal/lead/domain"
	"github.com/smallbiznis/quotely/internal/orgcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	LeadSvc leaddomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	leadSvc leaddomain.Service
}

func NewService(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("followup.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		leadSvc: p.LeadSvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Followup, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}
	if req.FollowupDate == nil || req.FollowupDate.IsZero() {
		return nil, domain.ErrInvalidDate
	}

	lead, err := s.leadSvc.GetByID(ctx, req.LeadID)
	if err != nil {
		if errors.Is(err, leaddomain.ErrInvalidID) || errors.Is(err, leaddomain.ErrNotFound) {
			return nil, domain.ErrInvalidLead
		}
		return nil, err
	}

	var quotationID *snowflake.ID
	if req.QuotationID != nil && strings.TrimSpace(*req.QuotationID) != "" {
		id, err := snowflake.ParseString(strings.TrimSpace(*req.QuotationID))
		if err != nil || id == 0 {
			return nil, domain.ErrInvalidQuotation
		}
		quotationID = &id
	}

	now := s.clock.Now()
	f := &domain.Followup{
		ID:           s.genID.Generate(),
		OrgID:        orgID,
		LeadID:       lead.ID,
		QuotationID:  quotationID,
		Title:        title,
		FollowupDate: req.FollowupDate.UTC(),
		Stage:        domain.StageOpen,
		Remarks:      []domain.Remark{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, s.db, f); err != nil {
		return nil, err
	}
	return f, nil
}

// List filters by stage and lead in the database, then by bucket against the clock.
func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Followup, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	bucket := domain.Bucket(strings.ToLower(strings.TrimSpace(req.Bucket)))
	if bucket != "" && !bucket.Valid() {
		return nil, domain.ErrInvalidBucket
	}
	stage := domain.Stage(strings.ToLower(strings.TrimSpace(req.Stage)))
	switch stage {
	case "", domain.StageOpen, domain.StageClosed:
	default:
		return nil, domain.ErrInvalidStage
	}
	if bucket != "" {
		if stage == domain.StageClosed {
			return []domain.Followup{}, nil
		}
		stage = domain.StageOpen
	}

	var leadID snowflake.ID
	if raw := strings.TrimSpace(req.LeadID); raw != "" {
		leadID, err = snowflake.ParseString(raw)
		if err != nil || leadID == 0 {
			return nil, domain.ErrInvalidLead
		}
	}

	items, err := s.repo.List(ctx, s.db, orgID, stage, leadID)
	if err != nil {
		return nil, err
	}
	if bucket == "" {
		return items, nil
	}

	now := s.clock.Now()
	filtered := make([]domain.Followup, 0, len(items))
	for _, item := range items {
		if got, ok := domain.Classify(item, now); ok && got == bucket {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Followup, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, s.db, orgID, id)
}

func (s *Service) AddRemark(ctx context.Context, id string, message string) (*domain.Followup, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.ErrInvalidRemark
	}

	var out *domain.Followup
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		f, err := s.find(ctx, tx, orgID, id)
		if err != nil {
			return err
		}
		remark, err := s.insertRemark(ctx, tx, f, message)
		if err != nil {
			return err
		}
		if _, err := s.leadSvc.AppendTimeline(ctx, tx, f.LeadID, leaddomain.EntryFollowupRemark, f.Title+": "+message); err != nil {
			return err
		}
		f.Remarks = append(f.Remarks, *remark)
		out = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Close(ctx context.Context, id string, remark string) (*domain.Followup, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	remark = strings.TrimSpace(remark)

	var out *domain.Followup
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		f, err := s.find(ctx, tx, orgID, id)
		if err != nil {
			return err
		}
		if f.Stage == domain.StageClosed {
			return domain.ErrAlreadyClosed
		}

		now := s.clock.Now()
		f.Stage = domain.StageClosed
		f.ClosedAt = &now
		f.UpdatedAt = now
		if err := s.repo.Update(ctx, tx, f); err != nil {
			return err
		}

		message := "Follow-up closed: " + f.Title
		if remark != "" {
			saved, err := s.insertRemark(ctx, tx, f, remark)
			if err != nil {
				return err
			}
			f.Remarks = append(f.Remarks, *saved)
			message += " (" + remark + ")"
		}
		if _, err := s.leadSvc.AppendTimeline(ctx, tx, f.LeadID, leaddomain.EntryFollowupClosed, message); err != nil {
			return err
		}
		out = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("followup closed",
		zap.String("org_id", orgID.String()),
		zap.String("followup_id", out.ID.String()),
	)
	return out, nil
}

func (s *Service) insertRemark(ctx context.Context, tx *gorm.DB, f *domain.Followup, message string) (*domain.Remark, error) {
	remark := &domain.Remark{
		ID:         s.genID.Generate(),
		OrgID:      f.OrgID,
		FollowupID: f.ID,
		Message:    message,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.repo.InsertRemark(ctx, tx, remark); err != nil {
		return nil, err
	}
	return remark, nil
}

func (s *Service) find(ctx context.Context, db *gorm.DB, orgID snowflake.ID, id string) (*domain.Followup, error) {
	followupID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || followupID == 0 {
		return nil, domain.ErrInvalidID
	}
	f, err := s.repo.FindByID(ctx, db, orgID, followupID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

func (s *Service) orgIDFromContext(ctx context.Context) (snowflake.ID, error) {
	if orgID, ok := orgcontext.OrgIDFromContext(ctx); ok && orgID != 0 {
		return snowflake.ID(orgID), nil
	}
	return 0, domain.ErrInvalidOrganization
}
