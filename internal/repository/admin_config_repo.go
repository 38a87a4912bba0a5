package repository

import (
	"Zuno/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdminConfigRepo interface {
	GetAll(ctx context.Context) ([]*model.AdminConfig, error)
	Upsert(ctx context.Context, cfg *model.AdminConfig) error
}

type adminConfigRepoImpl struct {
	db *gorm.DB
}

func NewAdminConfigRepo(db *gorm.DB) AdminConfigRepo {
	return &adminConfigRepoImpl{db: db}
}

func (s *adminConfigRepoImpl) GetAll(ctx context.Context) ([]*model.AdminConfig, error) {
	var cfgs []*model.AdminConfig
	err := s.db.WithContext(ctx).Order("`key` ASC").Find(&cfgs).Error
	return cfgs, err
}

func (s *adminConfigRepoImpl) Upsert(ctx context.Context, cfg *model.AdminConfig) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
		}).
		Create(cfg).Error
}
