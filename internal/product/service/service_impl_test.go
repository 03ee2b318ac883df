package service

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/quotely/internal/clock"
	"github.com/smallbiznis/quotely/internal/product/domain"
	"github.com/smallbiznis/quotely/internal/product/repository"
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

func TestCreateNormalizesCode(t *testing.T) {
	ctx, svc := newTestService(t)

	product, err := svc.Create(ctx, domain.CreateRequest{
		Code:        " desk-01 ",
		Name:        " Standing desk ",
		UnitPrice:   450,
		TaxPercent:  10,
		MaxDiscount: ptr(15.0),
	})
	require.NoError(t, err)
	assert.Equal(t, "DESK-01", product.Code)
	assert.Equal(t, "Standing desk", product.Name)
	assert.True(t, product.Active)

	_, err = svc.Create(ctx, domain.CreateRequest{Code: "Desk-01", Name: "Copy"})
	assert.ErrorIs(t, err, domain.ErrCodeExists)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		req  domain.CreateRequest
		want error
	}{
		{"missing code", domain.CreateRequest{Name: "Desk"}, domain.ErrInvalidCode},
		{"missing name", domain.CreateRequest{Code: "D1"}, domain.ErrInvalidName},
		{"negative price", domain.CreateRequest{Code: "D1", Name: "Desk", UnitPrice: -1}, domain.ErrInvalidPrice},
		{"tax over 100", domain.CreateRequest{Code: "D1", Name: "Desk", TaxPercent: 101}, domain.ErrInvalidTax},
		{"discount cap over 100", domain.CreateRequest{Code: "D1", Name: "Desk", MaxDiscount: ptr(120.0)}, domain.ErrInvalidMaxDiscount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, svc := newTestService(t)
			_, err := svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpdateAndListFilters(t *testing.T) {
	ctx, svc := newTestService(t)

	desk, err := svc.Create(ctx, domain.CreateRequest{Code: "D1", Name: "Desk", UnitPrice: 100, MaxDiscount: ptr(10.0)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{Code: "C1", Name: "Chair", UnitPrice: 50})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, domain.UpdateRequest{
		ID:               desk.ID.String(),
		UnitPrice:        ptr(120.0),
		ClearMaxDiscount: true,
		Active:           ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, 120.0, updated.UnitPrice)
	assert.Nil(t, updated.MaxDiscount)
	assert.False(t, updated.Active)

	active, err := svc.List(ctx, domain.ListRequest{Active: ptr(true)})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Chair", active[0].Name)

	byName, err := svc.List(ctx, domain.ListRequest{Name: "DES"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, desk.ID, byName[0].ID)

	_, err = svc.Update(ctx, domain.UpdateRequest{ID: desk.ID.String(), TaxPercent: ptr(-5.0)})
	assert.ErrorIs(t, err, domain.ErrInvalidTax)
}

func TestGetByIDErrors(t *testing.T) {
	ctx, svc := newTestService(t)

	_, err := svc.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.GetByID(ctx, "12345")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetByID(context.Background(), "12345")
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}
