package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotely/internal/quotation/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, q *domain.Quotation) error {
	if err := db.WithContext(ctx).Omit("Items").Create(q).Error; err != nil {
		return err
	}
	return insertItems(ctx, db, q)
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, q *domain.Quotation) error {
	if err := db.WithContext(ctx).Omit("Items").Save(q).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).
		Where("quotation_id = ?", q.ID).
		Delete(&domain.LineItem{}).Error; err != nil {
		return err
	}
	return insertItems(ctx, db, q)
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error {
	if err := db.WithContext(ctx).
		Where("quotation_id = ?", id).
		Delete(&domain.LineItem{}).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&domain.Quotation{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Quotation, error) {
	var q domain.Quotation
	err := db.WithContext(ctx).
		Preload("Items", orderItems).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListRequest) ([]domain.Quotation, error) {
	query := db.WithContext(ctx).Where("org_id = ?", orgID)
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if leadID, err := domain.ParseID(filter.LeadID); err == nil && leadID != 0 {
		query = query.Where("client_lead_id = ?", leadID)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		like := "%" + search + "%"
		query = query.Where("LOWER(number) LIKE ? OR LOWER(title) LIKE ? OR LOWER(client_name) LIKE ? OR LOWER(client_company) LIKE ?", like, like, like, like)
	}

	var items []domain.Quotation
	err := query.
		Preload("Items", orderItems).
		Order("created_at DESC").
		Order("id DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) LastNumber(ctx context.Context, db *gorm.DB, orgID snowflake.ID, prefix string) (string, error) {
	var numbers []string
	err := db.WithContext(ctx).
		Model(&domain.Quotation{}).
		Where("org_id = ? AND number LIKE ?", orgID, prefix+"%").
		Order("LENGTH(number) DESC").
		Order("number DESC").
		Limit(1).
		Pluck("number", &numbers).Error
	if err != nil || len(numbers) == 0 {
		return "", err
	}
	return numbers[0], nil
}

func insertItems(ctx context.Context, db *gorm.DB, q *domain.Quotation) error {
	if len(q.Items) == 0 {
		return nil
	}
	for i := range q.Items {
		q.Items[i].QuotationID = q.ID
	}
	return db.WithContext(ctx).Create(&q.Items).Error
}

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
