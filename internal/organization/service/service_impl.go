package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotely/internal/money"
	"github.com/smallbiznis/quotely/internal/organization/domain"
	"github.com/smallbiznis/quotely/internal/orgcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("organization.service"),
		repo: p.Repo,
	}
}

func (s *Service) Current(ctx context.Context) (*domain.Organization, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	org, err := s.repo.FindByID(ctx, s.db, snowflake.ID(orgID))
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return org, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Organization, error) {
	org, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		org.Name = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != "" {
			if _, err := mail.ParseAddress(email); err != nil {
				return nil, domain.ErrInvalidEmail
			}
		}
		org.Email = email
	}
	if req.DefaultCurrency != nil {
		if !money.IsISOCurrency(*req.DefaultCurrency) {
			return nil, domain.ErrInvalidCurrency
		}
		org.DefaultCurrency = money.NormalizeCurrency(*req.DefaultCurrency)
	}
	assignTrimmed(&org.Phone, req.Phone)
	assignTrimmed(&org.Website, req.Website)
	assignTrimmed(&org.Address, req.Address)
	assignTrimmed(&org.TaxNumber, req.TaxNumber)
	assignTrimmed(&org.LogoURL, req.LogoURL)
	org.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, org); err != nil {
		return nil, err
	}
	s.log.Info("organization profile updated", zap.String("org_id", org.ID.String()))
	return org, nil
}

func assignTrimmed(dst *string, value *string) {
	if value == nil {
		return
	}
	*dst = strings.TrimSpace(*value)
}
