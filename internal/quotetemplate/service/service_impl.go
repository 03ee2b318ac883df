package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/quotely/internal/cache"
	"github.com/smallbiznis/quotely/internal/clock"
	"github.com/smallbiznis/quotely/internal/config"
	"github.com/smallbiznis/quotely/internal/observability/metrics"
	"github.com/smallbiznis/quotely/internal/orgcontext"
	"github.com/smallbiznis/quotely/internal/quotetemplate/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Config  config.Config         `optional:"true"`
	Metrics *metrics.QuoteMetrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	cache   cache.Cache[string, domain.Template]
	ttl     time.Duration
	metrics *metrics.QuoteMetrics
}

func NewService(p Params) domain.Service {
	ttl := p.Config.Render.TemplateCacheTTL
	var store cache.Cache[string, domain.Template] = cache.NoopCache[string, domain.Template]{}
	if ttl > 0 {
		store = cache.NewTTLCache[string, domain.Template]()
	}
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("quotetemplate.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		cache:   store,
		ttl:     ttl,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Template, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var out *domain.Template
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := s.repo.Count(ctx, tx, orgID)
		if err != nil {
			return err
		}
		tmpl, err := s.insert(ctx, tx, orgID, req, req.IsDefault || count == 0)
		if err != nil {
			return err
		}
		out = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateOrg(orgID)
	s.log.Info("quotation template created",
		zap.String("org_id", orgID.String()),
		zap.String("template_id", out.ID.String()),
		zap.Bool("is_default", out.IsDefault),
	)
	return out, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Template, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, s.db, orgID, req)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	templateID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, orgID, &templateID)
}

func (s *Service) Resolve(ctx context.Context, id *snowflake.ID) (*domain.Template, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, orgID, id)
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Template, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	templateID, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	tmpl, err := s.find(ctx, s.db, orgID, templateID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		tmpl.Name = name
	}
	if req.Description != nil {
		tmpl.Description = strings.TrimSpace(*req.Description)
	}
	if req.Header != nil {
		tmpl.Header = *req.Header
	}
	if req.Footer != nil {
		tmpl.Footer = *req.Footer
	}
	if req.Sections != nil {
		sections, err := normalizeSections(*req.Sections)
		if err != nil {
			return nil, err
		}
		tmpl.Sections = datatypes.JSONSlice[domain.Section](sections)
	}
	if req.Styles != nil {
		if err := validateStyles(*req.Styles); err != nil {
			return nil, err
		}
		tmpl.Styles = datatypes.NewJSONType(*req.Styles)
	}
	tmpl.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, tmpl); err != nil {
		return nil, err
	}
	s.invalidateOrg(orgID)
	return tmpl, nil
}

// SetDefault clears the flag on every other template of the organization in
// the same transaction.
func (s *Service) SetDefault(ctx context.Context, id string) (*domain.Template, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	templateID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var out *domain.Template
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tmpl, err := s.find(ctx, tx, orgID, templateID)
		if err != nil {
			return err
		}
		if err := s.repo.ClearDefault(ctx, tx, orgID); err != nil {
			return err
		}
		tmpl.IsDefault = true
		tmpl.UpdatedAt = s.clock.Now()
		if err := s.repo.Update(ctx, tx, tmpl); err != nil {
			return err
		}
		out = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateOrg(orgID)
	return out, nil
}

// Delete removes a template. Deleting the default promotes the oldest
// remaining template.
func (s *Service) Delete(ctx context.Context, id string) error {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return err
	}
	templateID, err := parseID(id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tmpl, err := s.find(ctx, tx, orgID, templateID)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, tx, orgID, templateID); err != nil {
			return err
		}
		if !tmpl.IsDefault {
			return nil
		}

		remaining, err := s.repo.List(ctx, tx, orgID, domain.ListRequest{})
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			return nil
		}
		next := remaining[0]
		next.IsDefault = true
		next.UpdatedAt = s.clock.Now()
		return s.repo.Update(ctx, tx, &next)
	})
	if err != nil {
		return err
	}

	s.invalidateOrg(orgID)
	return nil
}

func (s *Service) SeedDefaults(ctx context.Context) ([]domain.Template, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var out []domain.Template
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := s.repo.Count(ctx, tx, orgID)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		for i, req := range domain.Prebuilt() {
			tmpl, err := s.insert(ctx, tx, orgID, req, i == 0)
			if err != nil {
				return err
			}
			out = append(out, *tmpl)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(out) > 0 {
		s.invalidateOrg(orgID)
		s.log.Info("seeded prebuilt quotation templates",
			zap.String("org_id", orgID.String()),
			zap.Int("count", len(out)),
		)
	}
	return out, nil
}

func (s *Service) insert(ctx context.Context, tx *gorm.DB, orgID snowflake.ID, req domain.CreateRequest, isDefault bool) (*domain.Template, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	sections, err := normalizeSections(req.Sections)
	if err != nil {
		return nil, err
	}
	if err := validateStyles(req.Styles); err != nil {
		return nil, err
	}

	if isDefault {
		if err := s.repo.ClearDefault(ctx, tx, orgID); err != nil {
			return nil, err
		}
	}

	now := s.clock.Now()
	tmpl := &domain.Template{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		IsDefault:   isDefault,
		Header:      req.Header,
		Footer:      req.Footer,
		Sections:    datatypes.JSONSlice[domain.Section](sections),
		Styles:      datatypes.NewJSONType(req.Styles),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, tx, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// load serves template lookups for rendering through the cache.
func (s *Service) load(ctx context.Context, orgID snowflake.ID, id *snowflake.ID) (*domain.Template, error) {
	key := cacheKey(orgID, id)
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.IncTemplateCache("hit")
		return &cached, nil
	}
	s.metrics.IncTemplateCache("miss")

	var (
		tmpl *domain.Template
		err  error
	)
	if id == nil {
		tmpl, err = s.repo.FindDefault(ctx, s.db, orgID)
	} else {
		tmpl, err = s.repo.FindByID(ctx, s.db, orgID, *id)
	}
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, domain.ErrNotFound
	}

	s.cache.Set(key, *tmpl, s.ttl)
	return tmpl, nil
}

func (s *Service) find(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Template, error) {
	tmpl, err := s.repo.FindByID(ctx, db, orgID, id)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, domain.ErrNotFound
	}
	return tmpl, nil
}

func (s *Service) invalidateOrg(orgID snowflake.ID) {
	prefix := orgID.String() + ":"
	s.cache.DeleteFunc(func(key string) bool {
		return strings.HasPrefix(key, prefix)
	})
}

func (s *Service) orgIDFromContext(ctx context.Context) (snowflake.ID, error) {
	if orgID, ok := orgcontext.OrgIDFromContext(ctx); ok && orgID != 0 {
		return snowflake.ID(orgID), nil
	}
	return 0, domain.ErrInvalidOrganization
}

func cacheKey(orgID snowflake.ID, id *snowflake.ID) string {
	if id == nil {
		return orgID.String() + ":default"
	}
	return orgID.String() + ":" + id.String()
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := domain.ParseID(raw)
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

// normalizeSections assigns missing ids and rejects duplicates. Unknown types
// are allowed and render their content.
func normalizeSections(sections []domain.Section) ([]domain.Section, error) {
	out := make([]domain.Section, 0, len(sections))
	seen := make(map[string]struct{}, len(sections))
	for _, section := range sections {
		section.Type = domain.SectionType(strings.ToLower(strings.TrimSpace(string(section.Type))))
		if section.Type == "" {
			return nil, domain.ErrInvalidSection
		}
		section.ID = strings.TrimSpace(section.ID)
		if section.ID == "" {
			section.ID = uuid.NewString()
		}
		if _, ok := seen[section.ID]; ok {
			return nil, domain.ErrDuplicateSection
		}
		seen[section.ID] = struct{}{}
		section.Title = strings.TrimSpace(section.Title)
		out = append(out, section)
	}
	return out, nil
}

func validateStyles(styles domain.Styles) error {
	if styles.FontSize < 0 || styles.FontSize > 72 {
		return domain.ErrInvalidStyles
	}
	return nil
}
