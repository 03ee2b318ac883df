package service

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/quotely/internal/clock"
	"github.com/smallbiznis/quotely/internal/lead/domain"
	"github.com/smallbiznis/quotely/internal/lead/repository"
	"github.com/smallbiznis/quotely/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (context.Context, domain.Service) {
	t.Helper()
	db := dbtest.Open(t)
	node := dbtest.Node(t)
	ctx, _ := dbtest.SeedOrg(t, db, node)
	svc := NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.Fixed(time.Date(2025, 5, 20, 9, 30, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})
	return ctx, svc
}

func ptr[T any](v T) *T { return &v }

func TestCreateLead(t *testing.T) {
	ctx, svc := newTestService(t)

	lead, err := svc.Create(ctx, domain.CreateRequest{
		Title:       " Office fit-out ",
		ContactName: "Jane Doe",
		Company:     "Globex",
		Email:       " Jane@Globex.TEST ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Office fit-out", lead.Title)
	assert.Equal(t, "jane@globex.test", lead.Email)
	assert.Equal(t, domain.StatusNew, lead.Status)

	tests := []struct {
		name string
		req  domain.CreateRequest
		want error
	}{
		{"missing title", domain.CreateRequest{ContactName: "Jane"}, domain.ErrInvalidTitle},
		{"missing contact", domain.CreateRequest{Title: "Fit-out"}, domain.ErrInvalidContactName},
		{"bad email", domain.CreateRequest{Title: "Fit-out", ContactName: "Jane", Email: "not-an-email"}, domain.ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpdateStatusAndList(t *testing.T) {
	ctx, svc := newTestService(t)

	first, err := svc.Create(ctx, domain.CreateRequest{Title: "Fit-out", ContactName: "Jane", Company: "Globex"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{Title: "Renovation", ContactName: "John", Company: "Initech"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, domain.UpdateRequest{ID: first.ID.String(), Status: ptr(" Qualified ")})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusQualified, updated.Status)

	_, err = svc.Update(ctx, domain.UpdateRequest{ID: first.ID.String(), Status: ptr("archived")})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	qualified, err := svc.List(ctx, domain.ListRequest{Status: "qualified"})
	require.NoError(t, err)
	require.Len(t, qualified, 1)
	assert.Equal(t, first.ID, qualified[0].ID)

	_, err = svc.List(ctx, domain.ListRequest{Status: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	all, err := svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTimeline(t *testing.T) {
	ctx, svc := newTestService(t)

	lead, err := svc.Create(ctx, domain.CreateRequest{Title: "Fit-out", ContactName: "Jane"})
	require.NoError(t, err)

	_, err = svc.AppendTimeline(ctx, nil, lead.ID, domain.EntryNote, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidMessage)

	_, err = svc.AppendTimeline(ctx, nil, lead.ID+1, domain.EntryNote, "hello")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.AppendTimeline(ctx, nil, lead.ID, domain.EntryNote, "Called the client")
	require.NoError(t, err)
	_, err = svc.AppendTimeline(ctx, nil, lead.ID, domain.EntryQuotation, "Quotation QUO-2025-0001 created")
	require.NoError(t, err)

	entries, err := svc.Timeline(ctx, lead.ID.String())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.EntryNote, entries[0].Kind)
	assert.Equal(t, "Called the client", entries[0].Message)
	assert.Equal(t, domain.EntryQuotation, entries[1].Kind)
}
