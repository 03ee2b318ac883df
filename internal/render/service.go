package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/quotely/internal/config"
	"github.com/smallbiznis/quotely/internal/events"
	leaddomain "github.com/smallbiznis/quotely/internal/lead/domain"
	"github.com/smallbiznis/quotely/internal/observability/logger"
	"github.com/smallbiznis/quotely/internal/observability/metrics"
	"github.com/smallbiznis/quotely/internal/observability/tracing"
	orgdomain "github.com/smallbiznis/quotely/internal/organization/domain"
	quotationdomain "github.com/smallbiznis/quotely/internal/quotation/domain"
	tpldomain "github.com/smallbiznis/quotely/internal/quotetemplate/domain"
	"github.com/smallbiznis/quotely/internal/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const tracerName = "quotely/render"

type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// ParseFormat defaults to HTML when value is empty.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatHTML:
		return FormatHTML, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", ErrInvalidFormat
	}
}

func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/html; charset=utf-8"
}

var (
	ErrTemplateNotFound = errors.New("template_not_found")
	ErrInvalidFormat    = errors.New("invalid_format")
	ErrInvalidTemplate  = errors.New("invalid_template")
)

type Request struct {
	QuotationID string
	TemplateID  *string
	Format      Format
}

type ExportRequest struct {
	QuotationID string  `json:"-"`
	TemplateID  *string `json:"template_id"`
	Format      string  `json:"format"`
	// Archive stores the export in object storage and returns a download URL.
	Archive bool `json:"archive"`
}

type Result struct {
	Format      Format
	Body        []byte
	TemplateID  snowflake.ID
	Quotation   *quotationdomain.Quotation
	ContentType string
}

// Filename is the suggested download name.
func (r *Result) Filename() string {
	name := "quotation"
	if r.Quotation != nil {
		if number := strings.TrimSpace(r.Quotation.Number); number != "" {
			name = number
		} else if r.Quotation.ID != 0 {
			name = r.Quotation.ID.String()
		}
	}
	return name + "." + string(r.Format)
}

type ExportResult struct {
	*Result
	Object *storage.Object
}

type Service interface {
	// Render loads a stored quotation and renders it.
	Render(ctx context.Context, req Request) (*Result, error)
	// RenderQuotation renders q as given, e.g. an unsaved preview. A nil
	// templateID falls back to q.TemplateID and then to the organization default.
	RenderQuotation(ctx context.Context, q *quotationdomain.Quotation, templateID *string, format Format) (*Result, error)
	// Export renders a stored quotation, optionally archives it and records
	// a quotation.exported event.
	Export(ctx context.Context, req ExportRequest) (*ExportResult, error)
}

type Params struct {
	fx.In

	Log        *zap.Logger
	Quotations quotationdomain.Service
	Templates  tpldomain.Service
	Orgs       orgdomain.Service
	Leads      leaddomain.Service
	Store      storage.Store
	Outbox     *events.Outbox
	Config     config.Config         `optional:"true"`
	Metrics    *metrics.QuoteMetrics `optional:"true"`
}

type service struct {
	log        *zap.Logger
	quotations quotationdomain.Service
	templates  tpldomain.Service
	orgs       orgdomain.Service
	leads      leaddomain.Service
	store      storage.Store
	outbox     *events.Outbox
	metrics    *metrics.QuoteMetrics
	html       Renderer
	pdf        *PDFRenderer
	now        func() time.Time
}

func NewService(p Params) Service {
	store := p.Store
	if store == nil {
		store = storage.NoopStore{}
	}
	return &service{
		log:        p.Log.Named("render.service"),
		quotations: p.Quotations,
		templates:  p.Templates,
		orgs:       p.Orgs,
		leads:      p.Leads,
		store:      store,
		outbox:     p.Outbox,
		metrics:    p.Metrics,
		html:       NewRenderer(),
		pdf:        NewPDFRenderer(p.Config.Render.PDFFontSize),
		now:        time.Now,
	}
}

func (s *service) Render(ctx context.Context, req Request) (*Result, error) {
	q, err := s.quotations.GetByID(ctx, req.QuotationID)
	if err != nil {
		return nil, err
	}
	return s.RenderQuotation(ctx, q, req.TemplateID, req.Format)
}

func (s *service) RenderQuotation(ctx context.Context, q *quotationdomain.Quotation, templateID *string, format Format) (result *Result, err error) {
	if q == nil {
		return nil, quotationdomain.ErrNotFound
	}
	if format == "" {
		format = FormatHTML
	}
	if format != FormatHTML && format != FormatPDF {
		return nil, ErrInvalidFormat
	}

	ctx, span := tracing.Start(ctx, tracerName, "render.quotation",
		attribute.String("render.format", string(format)),
		attribute.String("quotation.number", q.Number),
	)
	start := s.now()
	defer func() {
		s.metrics.ObserveRender(string(format), renderResult(err), s.now().Sub(start))
		tracing.End(span, err)
	}()

	tmpl, err := s.resolveTemplate(ctx, q, templateID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("template.id", tmpl.ID.String()))

	doc, err := s.bind(ctx, q)
	if err != nil {
		return nil, err
	}

	var body []byte
	switch format {
	case FormatPDF:
		body, err = s.pdf.RenderPDF(tmpl, doc)
	default:
		var out string
		out, err = s.html.RenderHTML(tmpl, doc)
		body = []byte(out)
	}
	if err != nil {
		logger.FromContext(ctx).Error("render failed",
			zap.String("format", string(format)),
			zap.String("template_id", tmpl.ID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("render %s: %w", format, err)
	}

	return &Result{
		Format:      format,
		Body:        body,
		TemplateID:  tmpl.ID,
		Quotation:   q,
		ContentType: format.ContentType(),
	}, nil
}

func (s *service) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	format := FormatPDF
	if strings.TrimSpace(req.Format) != "" {
		parsed, err := ParseFormat(req.Format)
		if err != nil {
			return nil, err
		}
		format = parsed
	}

	result, err := s.Render(ctx, Request{QuotationID: req.QuotationID, TemplateID: req.TemplateID, Format: format})
	if err != nil {
		return nil, err
	}

	out := &ExportResult{Result: result}
	if req.Archive && s.store.Enabled() {
		key := exportKey(result, s.now())
		obj, err := s.store.Put(ctx, key, result.ContentType, result.Body)
		if err != nil {
			logger.FromContext(ctx).Error("archive export failed", zap.String("key", key), zap.Error(err))
			return nil, err
		}
		out.Object = obj
	}
	s.metrics.IncExport(string(format), out.Object != nil)

	payload := events.ExportPayload{
		QuotationID: result.Quotation.ID.String(),
		Format:      string(format),
		TemplateID:  result.TemplateID.String(),
		Bytes:       len(result.Body),
	}
	if out.Object != nil {
		payload.ObjectKey = out.Object.Key
	}
	if s.outbox != nil {
		if err := s.outbox.Publish(ctx, events.Event{
			OrgID:   result.Quotation.OrgID,
			Type:    events.EventQuotationExported,
			Payload: payload.ToMap(),
		}); err != nil {
			s.log.Warn("publish export event failed", zap.Error(err))
		}
	}
	return out, nil
}

func (s *service) resolveTemplate(ctx context.Context, q *quotationdomain.Quotation, raw *string) (*tpldomain.Template, error) {
	id := q.TemplateID
	if raw != nil && strings.TrimSpace(*raw) != "" {
		parsed, err := tpldomain.ParseID(*raw)
		if err != nil {
			return nil, ErrInvalidTemplate
		}
		id = &parsed
	}

	tmpl, err := s.templates.Resolve(ctx, id)
	if errors.Is(err, tpldomain.ErrNotFound) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, ErrTemplateNotFound
	}
	return tmpl, nil
}

func (s *service) bind(ctx context.Context, q *quotationdomain.Quotation) (Document, error) {
	org, err := s.orgs.Current(ctx)
	if err != nil {
		return Document{}, err
	}

	var lead *leaddomain.Lead
	if q.Client.LeadID != nil && s.leads != nil {
		lead, err = s.leads.GetByID(ctx, q.Client.LeadID.String())
		if err != nil && !errors.Is(err, leaddomain.ErrNotFound) {
			return Document{}, err
		}
	}
	return Bind(q, org, lead), nil
}

func exportKey(result *Result, now time.Time) string {
	q := result.Quotation
	return fmt.Sprintf("quotations/%s/%s/%s-%s",
		q.OrgID.String(),
		now.UTC().Format("2006/01"),
		uuid.NewString(),
		result.Filename(),
	)
}

func renderResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrTemplateNotFound):
		return "template_not_found"
	default:
		return "failed"
	}
}
