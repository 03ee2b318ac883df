package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smallbiznis/quotely/internal/clock"
	"github.com/smallbiznis/quotely/internal/events"
	leaddomain "github.com/smallbiznis/quotely/internal/lead/domain"
	leadrepository "github.com/smallbiznis/quotely/internal/lead/repository"
	leadservice "github.com/smallbiznis/quotely/internal/lead/service"
	"github.com/smallbiznis/quotely/internal/observability/metrics"
	orgrepository "github.com/smallbiznis/quotely/internal/organization/repository"
	orgservice "github.com/smallbiznis/quotely/internal/organization/service"
	productdomain "github.com/smallbiznis/quotely/internal/product/domain"
	productrepository "github.com/smallbiznis/quotely/internal/product/repository"
	productservice "github.com/smallbiznis/quotely/internal/product/service"
	"github.com/smallbiznis/quotely/internal/quotation/domain"
	"github.com/smallbiznis/quotely/internal/quotation/repository"
	tpldomain "github.com/smallbiznis/quotely/internal/quotetemplate/domain"
	tplrepository "github.com/smallbiznis/quotely/internal/quotetemplate/repository"
	tplservice "github.com/smallbiznis/quotely/internal/quotetemplate/service"
	"github.com/smallbiznis/quotely/pkg/db/dbtest"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	ctx      context.Context
	db       *gorm.DB
	svc      domain.Service
	leads    leaddomain.Service
	products productdomain.Service
	tpls     tpldomain.Service
	outbox   *events.Outbox
	registry *prometheus.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	node := dbtest.Node(t)
	ctx, _ := dbtest.SeedOrg(t, db, node)
	log := zap.NewNop()
	clk := clock.Fixed(time.Date(2025, 5, 20, 9, 30, 0, 0, time.UTC))

	leads := leadservice.NewService(leadservice.Params{DB: db, Log: log, GenID: node, Clock: clk, Repo: leadrepository.Provide()})
	products := productservice.NewService(productservice.Params{DB: db, Log: log, GenID: node, Clock: clk, Repo: productrepository.Provide()})
	tpls := tplservice.NewService(tplservice.Params{DB: db, Log: log, GenID: node, Clock: clk, Repo: tplrepository.Provide()})
	orgs := orgservice.NewService(orgservice.Params{DB: db, Log: log, Repo: orgrepository.Provide()})
	outbox := events.NewOutbox(db, node)
	registry := prometheus.NewRegistry()
	quoteMetrics := metrics.NewQuoteMetrics(registry, metrics.Config{})

	svc := NewService(Params{
		DB:          db,
		Log:         log,
		GenID:       node,
		Clock:       clk,
		Repo:        repository.Provide(),
		OrgSvc:      orgs,
		LeadSvc:     leads,
		ProductSvc:  products,
		TemplateSvc: tpls,
		Outbox:      outbox,
		Metrics:     quoteMetrics,
	})
	return &fixture{ctx: ctx, db: db, svc: svc, leads: leads, products: products, tpls: tpls, outbox: outbox, registry: registry}
}

func ptr[T any](v T) *T { return &v }

func basicRequest() domain.CreateRequest {
	return domain.CreateRequest{
		Title:  "Office fit-out",
		Client: domain.ClientInput{Name: "Jane Doe", Company: "Globex"},
		Items: []domain.ItemInput{
			{Name: "Desk", Quantity: ptr(2.0), UnitPrice: ptr(100.0), DiscountPercent: ptr(10.0), TaxPercent: ptr(5.0)},
			{Name: "Chair", Quantity: ptr(1.0), UnitPrice: ptr(50.0), TaxPercent: ptr(10.0)},
		},
		DiscountType:  "fixed",
		DiscountValue: 20,
		TaxName:       "VAT",
		TaxPercentage: 10,
		Shipping:      15,
	}
}

func TestCreatePricesAndNumbers(t *testing.T) {
	f := newFixture(t)

	q, err := f.svc.Create(f.ctx, basicRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// desk: 200 - 20 = 180, +5% = 189; chair: 50 +10% = 55
	if q.Subtotal != 244 {
		t.Fatalf("expected subtotal 244, got %v", q.Subtotal)
	}
	// taxable 224, tax 22.4, shipping 15
	if q.Total != 261.4 {
		t.Fatalf("expected total 261.4, got %v", q.Total)
	}
	if q.Number != "QUO-2025-0001" {
		t.Fatalf("unexpected number %q", q.Number)
	}
	if q.Currency != "USD" || q.Status != domain.StatusDraft {
		t.Fatalf("unexpected defaults %s %s", q.Currency, q.Status)
	}
	if !q.IssueDate.Equal(time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected issue date %v", q.IssueDate)
	}
	if !q.ValidUntil.Equal(time.Date(2025, 6, 19, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected valid until %v", q.ValidUntil)
	}

	second, err := f.svc.Create(f.ctx, basicRequest())
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.Number != "QUO-2025-0002" {
		t.Fatalf("unexpected second number %q", second.Number)
	}

	stored, err := f.svc.GetByID(f.ctx, q.ID.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(stored.Items) != 2 || stored.Items[0].Name != "Desk" || stored.Items[0].Total != 189 {
		t.Fatalf("unexpected stored items %+v", stored.Items)
	}
	if stored.Total != q.Total {
		t.Fatalf("stored total %v differs from %v", stored.Total, q.Total)
	}

	pending, err := f.outbox.Pending(f.ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 || pending[0].EventType != events.EventQuotationCreated {
		t.Fatalf("expected two created events, got %+v", pending)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.CreateRequest)
		want   error
	}{
		{"missing client", func(r *domain.CreateRequest) { r.Client.Name = "" }, domain.ErrInvalidClient},
		{"missing item name", func(r *domain.CreateRequest) { r.Items[1].Name = " " }, domain.ErrInvalidItemName},
		{"bad discount type", func(r *domain.CreateRequest) { r.DiscountType = "bogus" }, domain.ErrInvalidDiscountType},
		{"bad currency", func(r *domain.CreateRequest) { r.Currency = "EURO" }, domain.ErrInvalidCurrency},
		{"unknown lead", func(r *domain.CreateRequest) { r.LeadID = ptr("999") }, domain.ErrInvalidLead},
		{"unknown product", func(r *domain.CreateRequest) { r.Items[0].ProductID = ptr("999") }, domain.ErrInvalidProduct},
		{"unknown template", func(r *domain.CreateRequest) { r.TemplateID = ptr("999") }, domain.ErrInvalidTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := basicRequest()
			tt.mutate(&req)
			if _, err := f.svc.Create(f.ctx, req); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateWithoutItemsKeepsDefaultRow(t *testing.T) {
	f := newFixture(t)
	req := basicRequest()
	req.Items = nil

	q, err := f.svc.Preview(f.ctx, req)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if len(q.Items) != 1 || q.Items[0].Quantity != 1 || q.Items[0].Total != 0 {
		t.Fatalf("expected one default item, got %+v", q.Items)
	}

	// The default row has no name, so persisting is refused.
	if _, err := f.svc.Create(f.ctx, req); !errors.Is(err, domain.ErrInvalidItemName) {
		t.Fatalf("expected invalid item name, got %v", err)
	}
}

func TestPreviewDoesNotPersist(t *testing.T) {
	f := newFixture(t)
	req := basicRequest()
	req.Client.Name = ""

	q, err := f.svc.Preview(f.ctx, req)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if q.ID != 0 || q.Number != "" || q.Total != 261.4 {
		t.Fatalf("unexpected preview %+v", q)
	}
	list, err := f.svc.List(f.ctx, domain.ListRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected nothing stored, got %d", len(list))
	}
	series, err := testutil.GatherAndCount(f.registry, "quotely_quotation_recompute_total")
	if err != nil || series != 1 {
		t.Fatalf("expected only the preview recompute series, got %d %v", series, err)
	}
}

func TestCreateBindsProductAndLead(t *testing.T) {
	f := newFixture(t)
	lead, err := f.leads.Create(f.ctx, leaddomain.CreateRequest{
		Title:       "Warehouse shelving",
		ContactName: "Bob Stone",
		Company:     "Initech",
		Email:       "bob@initech.test",
	})
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}
	product, err := f.products.Create(f.ctx, productdomain.CreateRequest{
		Code:        "shelf",
		Name:        "Steel shelf",
		UnitPrice:   100,
		TaxPercent:  10,
		MaxDiscount: ptr(20.0),
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	q, err := f.svc.Create(f.ctx, domain.CreateRequest{
		LeadID: ptr(lead.ID.String()),
		Items: []domain.ItemInput{
			{ProductID: ptr(product.ID.String()), DiscountPercent: ptr(35.0)},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if q.Client.Name != "Bob Stone" || q.Client.Company != "Initech" || q.Title != "Warehouse shelving" {
		t.Fatalf("client not bound from lead: %+v", q.Client)
	}
	item := q.Items[0]
	if item.Name != "Steel shelf" || item.UnitPrice != 100 || item.TaxPercent != 10 {
		t.Fatalf("item not bound from product: %+v", item)
	}
	// 35% clamped to 20%: 100 - 20 = 80, +10% = 88
	if item.DiscountPercent != 20 || item.Total != 88 {
		t.Fatalf("expected clamped item, got %+v", item)
	}

	timeline, err := f.leads.Timeline(f.ctx, lead.ID.String())
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(timeline) != 1 || timeline[0].Kind != leaddomain.EntryQuotation {
		t.Fatalf("expected quotation timeline entry, got %+v", timeline)
	}

	list, err := f.svc.List(f.ctx, domain.ListRequest{LeadID: lead.ID.String()})
	if err != nil || len(list) != 1 {
		t.Fatalf("expected quotation listed by lead, got %d %v", len(list), err)
	}
}

func TestItemEditing(t *testing.T) {
	f := newFixture(t)
	product, err := f.products.Create(f.ctx, productdomain.CreateRequest{
		Code: "svc", Name: "Consulting", UnitPrice: 100, MaxDiscount: ptr(20.0),
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	q, err := f.svc.Create(f.ctx, basicRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := q.ID.String()

	added, err := f.svc.AddItem(f.ctx, id, domain.ItemInput{ProductID: ptr(product.ID.String()), DiscountPercent: ptr(50.0)})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if !added.DiscountClamped || added.Warning == "" || len(added.Quotation.Items) != 3 {
		t.Fatalf("expected clamped third item, got %+v", added)
	}
	if added.Quotation.Items[2].Total != 80 {
		t.Fatalf("expected 80, got %v", added.Quotation.Items[2].Total)
	}

	updated, err := f.svc.UpdateItem(f.ctx, id, 2, domain.ItemInput{DiscountPercent: ptr(10.0), Quantity: ptr(2.0)})
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if updated.DiscountClamped || updated.Quotation.Items[2].Total != 180 {
		t.Fatalf("unexpected update %+v", updated.Quotation.Items[2])
	}

	if _, err := f.svc.UpdateItem(f.ctx, id, 9, domain.ItemInput{}); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected item not found, got %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := f.svc.RemoveItem(f.ctx, id, 0); err != nil {
			t.Fatalf("remove item %d: %v", i, err)
		}
	}
	stored, err := f.svc.GetByID(f.ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(stored.Items) != 1 || stored.Items[0].Quantity != 1 || stored.Items[0].Total != 0 {
		t.Fatalf("expected default item after removing all, got %+v", stored.Items)
	}
	// subtotal 0 - fixed 20 discount, tax on -20, +15 shipping
	if stored.Subtotal != 0 || stored.Total != -7 {
		t.Fatalf("unexpected totals %v %v", stored.Subtotal, stored.Total)
	}
}

func TestUpdateStatusAndDelete(t *testing.T) {
	f := newFixture(t)
	q, err := f.svc.Create(f.ctx, basicRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.svc.UpdateStatus(f.ctx, q.ID.String(), "archived"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
	sent, err := f.svc.UpdateStatus(f.ctx, q.ID.String(), "sent")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if sent.Status != domain.StatusSent {
		t.Fatalf("expected sent, got %s", sent.Status)
	}
	// Any listed status may follow any other.
	if _, err := f.svc.UpdateStatus(f.ctx, q.ID.String(), "draft"); err != nil {
		t.Fatalf("back to draft: %v", err)
	}

	pending, err := f.outbox.Pending(f.ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	last := pending[len(pending)-1]
	if last.EventType != events.EventQuotationStatusChanged || last.Payload["previous_status"] != "sent" {
		t.Fatalf("unexpected event %+v", last)
	}

	if err := f.svc.Delete(f.ctx, q.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.GetByID(f.ctx, q.ID.String()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateReplacesInputsAndKeepsNumber(t *testing.T) {
	f := newFixture(t)
	q, err := f.svc.Create(f.ctx, basicRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	req := basicRequest()
	req.Items = req.Items[:1]
	req.DiscountType = "percentage"
	req.DiscountValue = 0
	req.TaxPercentage = 0
	req.Shipping = 0
	updated, err := f.svc.Update(f.ctx, domain.UpdateRequest{ID: q.ID.String(), CreateRequest: req})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Number != q.Number || updated.Total != 189 || len(updated.Items) != 1 {
		t.Fatalf("unexpected update %+v", updated)
	}

	stored, err := f.svc.GetByID(f.ctx, q.ID.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(stored.Items) != 1 || stored.Total != 189 {
		t.Fatalf("unexpected stored quotation %+v", stored)
	}
}

func TestRequiresOrganization(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.List(context.Background(), domain.ListRequest{}); !errors.Is(err, domain.ErrInvalidOrganization) {
		t.Fatalf("expected invalid organization, got %v", err)
	}
}
