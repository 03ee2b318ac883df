package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotely/internal/lead/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, lead *domain.Lead) error {
	return db.WithContext(ctx).Create(lead).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, lead *domain.Lead) error {
	return db.WithContext(ctx).Save(lead).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Lead, error) {
	var lead domain.Lead
	err := db.WithContext(ctx).Where("org_id = ? AND id = ?", orgID, id).First(&lead).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListRequest) ([]domain.Lead, error) {
	query := db.WithContext(ctx).Where("org_id = ?", orgID)
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		like := "%" + search + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(contact_name) LIKE ? OR LOWER(company) LIKE ?", like, like, like)
	}

	var leads []domain.Lead
	if err := query.Order("created_at DESC").Order("id DESC").Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *repo) InsertEntry(ctx context.Context, db *gorm.DB, entry *domain.TimelineEntry) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repo) ListEntries(ctx context.Context, db *gorm.DB, orgID, leadID snowflake.ID) ([]domain.TimelineEntry, error) {
	var entries []domain.TimelineEntry
	err := db.WithContext(ctx).
		Where("org_id = ? AND lead_id = ?", orgID, leadID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
