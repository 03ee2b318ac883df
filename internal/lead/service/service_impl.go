package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotely/internal/clock"
	"github.com/smallbiznis/quotely/internal/lead/domain"
	"github.com/smallbiznis/quotely/internal/orgcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("lead.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Lead, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}
	contact := strings.TrimSpace(req.ContactName)
	if contact == "" {
		return nil, domain.ErrInvalidContactName
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	lead := &domain.Lead{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Title:       title,
		ContactName: contact,
		Company:     strings.TrimSpace(req.Company),
		Email:       email,
		Phone:       strings.TrimSpace(req.Phone),
		Address:     strings.TrimSpace(req.Address),
		Source:      strings.TrimSpace(req.Source),
		Status:      domain.StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, s.db, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Lead, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if status := strings.TrimSpace(req.Status); status != "" && !domain.Status(status).Valid() {
		return nil, domain.ErrInvalidStatus
	}
	return s.repo.List(ctx, s.db, orgID, req)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	leadID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, s.db, orgID, leadID)
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Lead, error) {
	lead, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		lead.Title = title
	}
	if req.ContactName != nil {
		contact := strings.TrimSpace(*req.ContactName)
		if contact == "" {
			return nil, domain.ErrInvalidContactName
		}
		lead.ContactName = contact
	}
	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		lead.Email = email
	}
	if req.Status != nil {
		status := domain.Status(strings.ToLower(strings.TrimSpace(*req.Status)))
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		lead.Status = status
	}
	if req.Company != nil {
		lead.Company = strings.TrimSpace(*req.Company)
	}
	if req.Phone != nil {
		lead.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		lead.Address = strings.TrimSpace(*req.Address)
	}
	lead.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *Service) Timeline(ctx context.Context, id string) ([]domain.TimelineEntry, error) {
	lead, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.ListEntries(ctx, s.db, lead.OrgID, lead.ID)
}

func (s *Service) AppendTimeline(ctx context.Context, tx *gorm.DB, leadID snowflake.ID, kind domain.EntryKind, message string) (*domain.TimelineEntry, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.ErrInvalidMessage
	}
	if tx == nil {
		tx = s.db
	}
	if _, err := s.find(ctx, tx, orgID, leadID); err != nil {
		return nil, err
	}

	entry := &domain.TimelineEntry{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		LeadID:    leadID,
		Kind:      kind,
		Message:   message,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.InsertEntry(ctx, tx, entry); err != nil {
		return nil, err
	}
	s.log.Debug("lead timeline appended",
		zap.String("lead_id", leadID.String()),
		zap.String("kind", string(kind)),
	)
	return entry, nil
}

func (s *Service) find(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Lead, error) {
	lead, err := s.repo.FindByID(ctx, db, orgID, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, domain.ErrNotFound
	}
	return lead, nil
}

func (s *Service) orgIDFromContext(ctx context.Context) (snowflake.ID, error) {
	if orgID, ok := orgcontext.OrgIDFromContext(ctx); ok && orgID != 0 {
		return snowflake.ID(orgID), nil
	}
	return 0, domain.ErrInvalidOrganization
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}
