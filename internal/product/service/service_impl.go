package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotely/internal/clock"
	"github.com/smallbiznis/quotely/internal/orgcontext"
	"github.com/smallbiznis/quotely/internal/product/domain"
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
		log:   p.Log.Named("product.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Product, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, domain.ErrInvalidCode
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if err := validateAmounts(req.UnitPrice, req.TaxPercent, req.MaxDiscount); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByCode(ctx, s.db, orgID, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrCodeExists
	}

	now := s.clock.Now()
	product := &domain.Product{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Code:        code,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Unit:        strings.TrimSpace(req.Unit),
		UnitPrice:   req.UnitPrice,
		TaxPercent:  req.TaxPercent,
		MaxDiscount: req.MaxDiscount,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, s.db, product); err != nil {
		return nil, err
	}

	s.log.Info("product created",
		zap.String("org_id", orgID.String()),
		zap.String("product_id", product.ID.String()),
		zap.String("code", code),
	)
	return product, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Product, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, s.db, orgID, req)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || productID == 0 {
		return nil, domain.ErrInvalidID
	}

	product, err := s.repo.FindByID(ctx, s.db, orgID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Product, error) {
	product, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		product.Name = name
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.Unit != nil {
		product.Unit = strings.TrimSpace(*req.Unit)
	}
	if req.UnitPrice != nil {
		product.UnitPrice = *req.UnitPrice
	}
	if req.TaxPercent != nil {
		product.TaxPercent = *req.TaxPercent
	}
	if req.ClearMaxDiscount {
		product.MaxDiscount = nil
	} else if req.MaxDiscount != nil {
		value := *req.MaxDiscount
		product.MaxDiscount = &value
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	if err := validateAmounts(product.UnitPrice, product.TaxPercent, product.MaxDiscount); err != nil {
		return nil, err
	}
	product.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) orgIDFromContext(ctx context.Context) (snowflake.ID, error) {
	if orgID, ok := orgcontext.OrgIDFromContext(ctx); ok && orgID != 0 {
		return snowflake.ID(orgID), nil
	}
	return 0, domain.ErrInvalidOrganization
}

func validateAmounts(unitPrice, taxPercent float64, maxDiscount *float64) error {
	if unitPrice < 0 {
		return domain.ErrInvalidPrice
	}
	if taxPercent < 0 || taxPercent > 100 {
		return domain.ErrInvalidTax
	}
	if maxDiscount != nil && (*maxDiscount < 0 || *maxDiscount > 100) {
		return domain.ErrInvalidMaxDiscount
	}
	return nil
}
