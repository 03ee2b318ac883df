package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotely/internal/clock"
	"github.com/smallbiznis/quotely/internal/events"
	leaddomain "github.com/smallbiznis/quotely/internal/lead/domain"
	"github.com/smallbiznis/quotely/internal/money"
	"github.com/smallbiznis/quotely/internal/observability/metrics"
	"github.com/smallbiznis/quotely/internal/observability/tracing"
	"github.com/smallbiznis/quotely/internal/orgcontext"
	orgdomain "github.com/smallbiznis/quotely/internal/organization/domain"
	"github.com/smallbiznis/quotely/internal/pricing"
	productdomain "github.com/smallbiznis/quotely/internal/product/domain"
	"github.com/smallbiznis/quotely/internal/quotation/domain"
	tpldomain "github.com/smallbiznis/quotely/internal/quotetemplate/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	tracerName       = "quotely/quotation"
	defaultValidDays = 30
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	OrgSvc      orgdomain.Service
	LeadSvc     leaddomain.Service
	ProductSvc  productdomain.Service
	TemplateSvc tpldomain.Service
	Outbox      *events.Outbox        `optional:"true"`
	Metrics     *metrics.QuoteMetrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	orgSvc      orgdomain.Service
	leadSvc     leaddomain.Service
	productSvc  productdomain.Service
	templateSvc tpldomain.Service
	outbox      *events.Outbox
	metrics     *metrics.QuoteMetrics
}

func NewService(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("quotation.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		orgSvc:      p.OrgSvc,
		leadSvc:     p.LeadSvc,
		productSvc:  p.ProductSvc,
		templateSvc: p.TemplateSvc,
		outbox:      p.Outbox,
		metrics:     p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Quotation, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	q, lead, err := s.build(ctx, orgID, req, true)
	if err != nil {
		return nil, err
	}
	s.recompute(ctx, q, "create")
	if err := q.Validate(); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		last, err := s.repo.LastNumber(ctx, tx, orgID, domain.YearPrefix(q.IssueDate.Year()))
		if err != nil {
			return err
		}
		q.Number = domain.NextNumber(q.IssueDate.Year(), last)
		if err := s.repo.Insert(ctx, tx, q); err != nil {
			return err
		}
		if lead != nil {
			message := fmt.Sprintf("Quotation %s created for %s", q.Number, money.Format(q.Total, q.Currency))
			if _, err := s.leadSvc.AppendTimeline(ctx, tx, lead.ID, leaddomain.EntryQuotation, message); err != nil {
				return err
			}
		}
		return s.publish(ctx, tx, q, events.EventQuotationCreated, "")
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("quotation created",
		zap.String("org_id", orgID.String()),
		zap.String("quotation_id", q.ID.String()),
		zap.String("number", q.Number),
		zap.Float64("total", q.Total),
	)
	return q, nil
}

// Preview prices req without persisting anything. The result is not validated.
func (s *Service) Preview(ctx context.Context, req domain.CreateRequest) (*domain.Quotation, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	q, _, err := s.build(ctx, orgID, req, false)
	if err != nil {
		return nil, err
	}
	q.ID = 0
	for i := range q.Items {
		q.Items[i].ID = 0
		q.Items[i].QuotationID = 0
	}
	s.recompute(ctx, q, "preview")
	return q, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Quotation, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if status := strings.TrimSpace(req.Status); status != "" && !domain.Status(status).Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if leadID := strings.TrimSpace(req.LeadID); leadID != "" {
		if _, err := domain.ParseID(leadID); err != nil {
			return nil, domain.ErrInvalidLead
		}
	}
	return s.repo.List(ctx, s.db, orgID, req)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Quotation, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	quotationID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, s.db, orgID, quotationID)
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Quotation, error) {
	existing, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	q, lead, err := s.build(ctx, existing.OrgID, req.CreateRequest, true)
	if err != nil {
		return nil, err
	}
	q.ID = existing.ID
	q.Number = existing.Number
	q.Status = existing.Status
	q.CreatedAt = existing.CreatedAt
	s.recompute(ctx, q, "update")
	if err := q.Validate(); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, q); err != nil {
			return err
		}
		if lead != nil && !sameLead(existing.Client.LeadID, lead.ID) {
			message := fmt.Sprintf("Quotation %s linked", q.Number)
			if _, err := s.leadSvc.AppendTimeline(ctx, tx, lead.ID, leaddomain.EntryQuotation, message); err != nil {
				return err
			}
		}
		return s.publish(ctx, tx, q, events.EventQuotationUpdated, "")
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

// UpdateStatus sets the status label. Any known status may follow any other.
func (s *Service) UpdateStatus(ctx context.Context, id string, status string) (*domain.Quotation, error) {
	next := domain.Status(strings.ToLower(strings.TrimSpace(status)))
	if !next.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	q, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := q.Status
	if previous == next {
		return q, nil
	}

	q.Status = next
	q.UpdatedAt = s.clock.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).
			Model(&domain.Quotation{}).
			Where("org_id = ? AND id = ?", q.OrgID, q.ID).
			Updates(map[string]any{"status": q.Status, "updated_at": q.UpdatedAt}).Error; err != nil {
			return err
		}
		if q.Client.LeadID != nil {
			message := fmt.Sprintf("Quotation %s marked %s", q.Number, q.Status)
			if _, err := s.leadSvc.AppendTimeline(ctx, tx, *q.Client.LeadID, leaddomain.EntryQuotation, message); err != nil && !errors.Is(err, leaddomain.ErrNotFound) {
				return err
			}
		}
		return s.publish(ctx, tx, q, events.EventQuotationStatusChanged, string(previous))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("quotation status changed",
		zap.String("quotation_id", q.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(next)),
	)
	return q, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	q, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Delete(ctx, tx, q.OrgID, q.ID); err != nil {
			return err
		}
		return s.publish(ctx, tx, q, events.EventQuotationDeleted, "")
	})
}

func (s *Service) AddItem(ctx context.Context, id string, req domain.ItemInput) (*domain.ItemChange, error) {
	q, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item, clamped, err := s.bindItem(ctx, req)
	if err != nil {
		return nil, err
	}
	q.AddItem(item)
	return s.saveItemChange(ctx, q, "item_add", clamped, item.MaxDiscount)
}

func (s *Service) UpdateItem(ctx context.Context, id string, index int, req domain.ItemInput) (*domain.ItemChange, error) {
	q, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(q.Items) {
		return nil, domain.ErrItemNotFound
	}

	patch := domain.ItemPatch{
		Quantity:        req.Quantity,
		UnitPrice:       req.UnitPrice,
		DiscountPercent: req.DiscountPercent,
		TaxPercent:      req.TaxPercent,
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		patch.Name = &name
	}
	if description := strings.TrimSpace(req.Description); description != "" {
		patch.Description = &description
	}

	if req.ProductID != nil && strings.TrimSpace(*req.ProductID) != "" {
		product, err := s.findProduct(ctx, *req.ProductID)
		if err != nil {
			return nil, err
		}
		item := &q.Items[index]
		item.ProductID = &product.ID
		item.MaxDiscount = copyFloat(product.MaxDiscount)
		if patch.Name == nil {
			patch.Name = &product.Name
		}
		if patch.UnitPrice == nil {
			patch.UnitPrice = &product.UnitPrice
		}
		if patch.TaxPercent == nil {
			patch.TaxPercent = &product.TaxPercent
		}
		if patch.DiscountPercent == nil {
			current := item.DiscountPercent
			patch.DiscountPercent = &current
		}
	}

	clamped, err := q.UpdateItem(index, patch)
	if err != nil {
		return nil, err
	}
	return s.saveItemChange(ctx, q, "item_update", clamped, q.Items[index].MaxDiscount)
}

func (s *Service) RemoveItem(ctx context.Context, id string, index int) (*domain.ItemChange, error) {
	q, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := q.RemoveItem(index); err != nil {
		return nil, err
	}
	return s.saveItemChange(ctx, q, "item_remove", false, nil)
}

func (s *Service) saveItemChange(ctx context.Context, q *domain.Quotation, operation string, clamped bool, maxDiscount *float64) (*domain.ItemChange, error) {
	s.assignItemIDs(q)
	s.recompute(ctx, q, operation)
	q.UpdatedAt = s.clock.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, q); err != nil {
			return err
		}
		return s.publish(ctx, tx, q, events.EventQuotationUpdated, "")
	})
	if err != nil {
		return nil, err
	}

	change := &domain.ItemChange{Quotation: q, DiscountClamped: clamped}
	if clamped {
		s.metrics.IncDiscountClamped()
		change.Warning = clampWarning(maxDiscount)
	}
	return change, nil
}

// build turns a request into an unsaved, unpriced quotation. Lookups run
// before any transaction is opened.
func (s *Service) build(ctx context.Context, orgID snowflake.ID, req domain.CreateRequest, checkTemplate bool) (*domain.Quotation, *leaddomain.Lead, error) {
	org, err := s.orgSvc.Current(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := s.clock.Now()
	q := &domain.Quotation{
		ID:            s.genID.Generate(),
		OrgID:         orgID,
		Title:         strings.TrimSpace(req.Title),
		DiscountType:  pricing.DiscountType(strings.ToLower(strings.TrimSpace(req.DiscountType))),
		DiscountValue: req.DiscountValue,
		TaxName:       strings.TrimSpace(req.TaxName),
		TaxPercentage: req.TaxPercentage,
		Shipping:      req.Shipping,
		Currency:      strings.ToUpper(strings.TrimSpace(req.Currency)),
		Notes:         strings.TrimSpace(req.Notes),
		Status:        domain.StatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if q.DiscountType == "" {
		q.DiscountType = pricing.DiscountPercentage
	}
	if q.Currency == "" {
		q.Currency = money.NormalizeCurrency(org.DefaultCurrency)
	}

	q.IssueDate = clock.StartOfDay(now)
	if req.IssueDate != nil && !req.IssueDate.IsZero() {
		q.IssueDate = req.IssueDate.UTC()
	}
	q.ValidUntil = q.IssueDate.AddDate(0, 0, defaultValidDays)
	if req.ValidUntil != nil && !req.ValidUntil.IsZero() {
		q.ValidUntil = req.ValidUntil.UTC()
	}

	terms := make([]domain.Term, 0, len(req.Terms))
	for _, term := range req.Terms {
		title := strings.TrimSpace(term.Title)
		content := strings.TrimSpace(term.Content)
		if title == "" && content == "" {
			continue
		}
		terms = append(terms, domain.Term{Title: title, Content: content})
	}
	q.Terms = datatypes.JSONSlice[domain.Term](terms)

	lead, err := s.bindClient(ctx, q, req)
	if err != nil {
		return nil, nil, err
	}

	for _, input := range req.Items {
		item, clamped, err := s.bindItem(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		if clamped {
			s.metrics.IncDiscountClamped()
		}
		q.Items = append(q.Items, item)
	}
	s.assignItemIDs(q)

	if req.TemplateID != nil && strings.TrimSpace(*req.TemplateID) != "" {
		if checkTemplate {
			tmpl, err := s.templateSvc.GetByID(ctx, *req.TemplateID)
			if err != nil {
				if errors.Is(err, tpldomain.ErrNotFound) || errors.Is(err, tpldomain.ErrInvalidID) {
					return nil, nil, domain.ErrInvalidTemplate
				}
				return nil, nil, err
			}
			q.TemplateID = &tmpl.ID
		} else {
			templateID, err := domain.ParseID(*req.TemplateID)
			if err != nil {
				return nil, nil, domain.ErrInvalidTemplate
			}
			q.TemplateID = &templateID
		}
	}
	return q, lead, nil
}

// bindClient fills the client block from the request, taking blank fields
// from the lead when one is given.
func (s *Service) bindClient(ctx context.Context, q *domain.Quotation, req domain.CreateRequest) (*leaddomain.Lead, error) {
	q.Client = domain.Client{
		Name:    strings.TrimSpace(req.Client.Name),
		Company: strings.TrimSpace(req.Client.Company),
		Email:   strings.TrimSpace(req.Client.Email),
		Phone:   strings.TrimSpace(req.Client.Phone),
		Address: strings.TrimSpace(req.Client.Address),
	}
	if req.LeadID == nil || strings.TrimSpace(*req.LeadID) == "" {
		return nil, nil
	}

	lead, err := s.leadSvc.GetByID(ctx, *req.LeadID)
	if err != nil {
		if errors.Is(err, leaddomain.ErrInvalidID) || errors.Is(err, leaddomain.ErrNotFound) {
			return nil, domain.ErrInvalidLead
		}
		return nil, err
	}
	q.Client.LeadID = &lead.ID
	q.Client.Name = firstNonEmpty(q.Client.Name, lead.ContactName)
	q.Client.Company = firstNonEmpty(q.Client.Company, lead.Company)
	q.Client.Email = firstNonEmpty(q.Client.Email, lead.Email)
	q.Client.Phone = firstNonEmpty(q.Client.Phone, lead.Phone)
	q.Client.Address = firstNonEmpty(q.Client.Address, lead.Address)
	if q.Title == "" {
		q.Title = lead.Title
	}
	return lead, nil
}

// bindItem builds a line item. A product reference supplies the name, price,
// tax and discount cap unless the input overrides them.
func (s *Service) bindItem(ctx context.Context, input domain.ItemInput) (domain.LineItem, bool, error) {
	item := domain.NewLineItem()
	item.Name = strings.TrimSpace(input.Name)
	item.Description = strings.TrimSpace(input.Description)

	if input.ProductID != nil && strings.TrimSpace(*input.ProductID) != "" {
		product, err := s.findProduct(ctx, *input.ProductID)
		if err != nil {
			return domain.LineItem{}, false, err
		}
		item.ProductID = &product.ID
		item.Name = firstNonEmpty(item.Name, product.Name)
		item.Description = firstNonEmpty(item.Description, product.Description)
		item.UnitPrice = product.UnitPrice
		item.TaxPercent = product.TaxPercent
		item.MaxDiscount = copyFloat(product.MaxDiscount)
	}

	if input.Quantity != nil {
		item.Quantity = *input.Quantity
	}
	if input.UnitPrice != nil {
		item.UnitPrice = *input.UnitPrice
	}
	if input.TaxPercent != nil {
		item.TaxPercent = *input.TaxPercent
	}

	clamped := false
	if input.DiscountPercent != nil {
		item.DiscountPercent, clamped = pricing.ClampDiscount(*input.DiscountPercent, item.MaxDiscount)
	}
	return item, clamped, nil
}

func (s *Service) findProduct(ctx context.Context, id string) (*productdomain.Product, error) {
	product, err := s.productSvc.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, productdomain.ErrInvalidID) || errors.Is(err, productdomain.ErrNotFound) {
			return nil, domain.ErrInvalidProduct
		}
		return nil, err
	}
	if !product.Active {
		return nil, domain.ErrInvalidProduct
	}
	return product, nil
}

func (s *Service) recompute(ctx context.Context, q *domain.Quotation, operation string) {
	_, span := tracing.Start(ctx, tracerName, "quotation.recompute",
		attribute.String("quotation.operation", operation),
		attribute.Int("quotation.items", len(q.Items)),
	)
	totals := q.Recompute()
	span.SetAttributes(attribute.Float64("quotation.total", totals.Total))
	tracing.End(span, nil)
	s.metrics.IncRecompute(operation)
}

func (s *Service) publish(ctx context.Context, tx *gorm.DB, q *domain.Quotation, eventType, previous string) error {
	if s.outbox == nil {
		return nil
	}
	payload := events.QuotationPayload{
		QuotationID:    q.ID.String(),
		Number:         q.Number,
		Status:         string(q.Status),
		Currency:       q.Currency,
		Total:          q.Total,
		PreviousStatus: previous,
	}
	return s.outbox.PublishTx(ctx, tx, events.Event{
		OrgID:   q.OrgID,
		Type:    eventType,
		Payload: payload.ToMap(),
	})
}

func (s *Service) assignItemIDs(q *domain.Quotation) {
	for i := range q.Items {
		if q.Items[i].ID == 0 {
			q.Items[i].ID = s.genID.Generate()
		}
		q.Items[i].QuotationID = q.ID
	}
}

func (s *Service) find(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Quotation, error) {
	q, err := s.repo.FindByID(ctx, db, orgID, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	return q, nil
}

func (s *Service) orgIDFromContext(ctx context.Context) (snowflake.ID, error) {
	if orgID, ok := orgcontext.OrgIDFromContext(ctx); ok && orgID != 0 {
		return snowflake.ID(orgID), nil
	}
	return 0, domain.ErrInvalidOrganization
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := domain.ParseID(raw)
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func clampWarning(maxDiscount *float64) string {
	if maxDiscount == nil {
		return ""
	}
	return "discount reduced to the product maximum of " + money.FormatPercent(*maxDiscount)
}

func sameLead(current *snowflake.ID, id snowflake.ID) bool {
	return current != nil && *current == id
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func copyFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	out := *value
	return &out
}
