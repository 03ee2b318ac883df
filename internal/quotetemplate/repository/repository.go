package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotely/internal/quotetemplate/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, tmpl *domain.Template) error {
	return db.WithContext(ctx).Create(tmpl).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, tmpl *domain.Template) error {
	return db.WithContext(ctx).Save(tmpl).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&domain.Template{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Template, error) {
	return first(db.WithContext(ctx).Where("org_id = ? AND id = ?", orgID, id))
}

func (r *repo) FindDefault(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*domain.Template, error) {
	return first(db.WithContext(ctx).Where("org_id = ? AND is_default = ?", orgID, true))
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListRequest) ([]domain.Template, error) {
	query := db.WithContext(ctx).Where("org_id = ?", orgID)
	if name := strings.ToLower(strings.TrimSpace(filter.Name)); name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+name+"%")
	}
	if filter.IsDefault != nil {
		query = query.Where("is_default = ?", *filter.IsDefault)
	}

	var items []domain.Template
	if err := query.Order("created_at ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Template{}).Where("org_id = ?", orgID).Count(&count).Error
	return count, err
}

func (r *repo) ClearDefault(ctx context.Context, db *gorm.DB, orgID snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.Template{}).
		Where("org_id = ? AND is_default = ?", orgID, true).
		Update("is_default", false).Error
}

func first(query *gorm.DB) (*domain.Template, error) {
	var tmpl domain.Template
	err := query.First(&tmpl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}
