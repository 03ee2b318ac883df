package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotely/internal/followup/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, f *domain.Followup) error {
	return db.WithContext(ctx).Omit("Remarks").Create(f).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, f *domain.Followup) error {
	return db.WithContext(ctx).Omit("Remarks").Save(f).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Followup, error) {
	var f domain.Followup
	err := db.WithContext(ctx).
		Preload("Remarks", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC").Order("id ASC")
		}).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, stage domain.Stage, leadID snowflake.ID) ([]domain.Followup, error) {
	query := db.WithContext(ctx).
		Preload("Remarks", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC").Order("id ASC")
		}).
		Where("org_id = ?", orgID)
	if stage != "" {
		query = query.Where("stage = ?", stage)
	}
	if leadID != 0 {
		query = query.Where("lead_id = ?", leadID)
	}

	var items []domain.Followup
	if err := query.Order("followup_date ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) InsertRemark(ctx context.Context, db *gorm.DB, remark *domain.Remark) error {
	return db.WithContext(ctx).Create(remark).Error
}
