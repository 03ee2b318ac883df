package service

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/quotely/internal/clock"
	"github.com/smallbiznis/quotely/internal/followup/domain"
	"github.com/smallbiznis/quotely/internal/followup/repository"
	leaddomain "github.com/smallbiznis/quotely/internal/lead/domain"
	leadrepository "github.com/smallbiznis/quotely/internal/lead/repository"
	leadservice "github.com/smallbiznis/quotely/internal/lead/service"
	"github.com/smallbiznis/quotely/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

type fixture struct {
	ctx   context.Context
	svc   domain.Service
	leads leaddomain.Service
	lead  *leaddomain.Lead
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	node := dbtest.Node(t)
	ctx, _ := dbtest.SeedOrg(t, db, node)
	log := zap.NewNop()
	clk := clock.Fixed(now)

	leads := leadservice.NewService(leadservice.Params{DB: db, Log: log, GenID: node, Clock: clk, Repo: leadrepository.Provide()})
	lead, err := leads.Create(ctx, leaddomain.CreateRequest{Title: "Fit-out", ContactName: "Jane"})
	require.NoError(t, err)

	svc := NewService(Params{
		DB:      db,
		Log:     log,
		GenID:   node,
		Clock:   clk,
		Repo:    repository.Provide(),
		LeadSvc: leads,
	})
	return &fixture{ctx: ctx, svc: svc, leads: leads, lead: lead}
}

func (f *fixture) create(t *testing.T, title string, due time.Time) *domain.Followup {
	t.Helper()
	out, err := f.svc.Create(f.ctx, domain.CreateRequest{
		LeadID:       f.lead.ID.String(),
		Title:        title,
		FollowupDate: &due,
	})
	require.NoError(t, err)
	return out
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	due := now.Add(time.Hour)

	tests := []struct {
		name string
		req  domain.CreateRequest
		want error
	}{
		{"missing title", domain.CreateRequest{LeadID: f.lead.ID.String(), FollowupDate: &due}, domain.ErrInvalidTitle},
		{"missing date", domain.CreateRequest{LeadID: f.lead.ID.String(), Title: "Call"}, domain.ErrInvalidDate},
		{"unknown lead", domain.CreateRequest{LeadID: "999", Title: "Call", FollowupDate: &due}, domain.ErrInvalidLead},
		{"bad quotation id", domain.CreateRequest{LeadID: f.lead.ID.String(), Title: "Call", FollowupDate: &due, QuotationID: ptr("x")}, domain.ErrInvalidQuotation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(f.ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestListBuckets(t *testing.T) {
	f := newFixture(t)

	overdue := f.create(t, "Send brochure", now.AddDate(0, 0, -2))
	today := f.create(t, "Call back", now.Add(-2*time.Hour))
	upcoming := f.create(t, "Site visit", now.AddDate(0, 0, 3))
	closed := f.create(t, "Old task", now.AddDate(0, 0, -5))
	_, err := f.svc.Close(f.ctx, closed.ID.String(), "")
	require.NoError(t, err)

	cases := map[string]string{
		"overdue":  overdue.ID.String(),
		"today":    today.ID.String(),
		"upcoming": upcoming.ID.String(),
	}
	for bucket, want := range cases {
		items, err := f.svc.List(f.ctx, domain.ListRequest{Bucket: bucket})
		require.NoError(t, err)
		require.Len(t, items, 1, bucket)
		assert.Equal(t, want, items[0].ID.String(), bucket)
	}

	all, err := f.svc.List(f.ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	closedOnly, err := f.svc.List(f.ctx, domain.ListRequest{Stage: "closed"})
	require.NoError(t, err)
	require.Len(t, closedOnly, 1)

	none, err := f.svc.List(f.ctx, domain.ListRequest{Stage: "closed", Bucket: "overdue"})
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = f.svc.List(f.ctx, domain.ListRequest{Bucket: "someday"})
	assert.ErrorIs(t, err, domain.ErrInvalidBucket)
	_, err = f.svc.List(f.ctx, domain.ListRequest{Stage: "pending"})
	assert.ErrorIs(t, err, domain.ErrInvalidStage)
}

func TestRemarksAndClose(t *testing.T) {
	f := newFixture(t)
	followup := f.create(t, "Call back", now.Add(time.Hour))

	_, err := f.svc.AddRemark(f.ctx, followup.ID.String(), " ")
	assert.ErrorIs(t, err, domain.ErrInvalidRemark)

	withRemark, err := f.svc.AddRemark(f.ctx, followup.ID.String(), "No answer")
	require.NoError(t, err)
	require.Len(t, withRemark.Remarks, 1)

	closed, err := f.svc.Close(f.ctx, followup.ID.String(), "Agreed to meet")
	require.NoError(t, err)
	assert.Equal(t, domain.StageClosed, closed.Stage)
	require.NotNil(t, closed.ClosedAt)
	assert.Len(t, closed.Remarks, 2)

	_, err = f.svc.Close(f.ctx, followup.ID.String(), "")
	assert.ErrorIs(t, err, domain.ErrAlreadyClosed)

	stored, err := f.svc.GetByID(f.ctx, followup.ID.String())
	require.NoError(t, err)
	assert.Len(t, stored.Remarks, 2)

	timeline, err := f.leads.Timeline(f.ctx, f.lead.ID.String())
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, leaddomain.EntryFollowupRemark, timeline[0].Kind)
	assert.Equal(t, "Call back: No answer", timeline[0].Message)
	assert.Equal(t, leaddomain.EntryFollowupClosed, timeline[1].Kind)
	assert.Equal(t, "Follow-up closed: Call back (Agreed to meet)", timeline[1].Message)
}

func ptr[T any](v T) *T { return &v }
