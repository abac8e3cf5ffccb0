package repository

import (
	"context"

	"gorm.io/gorm"

	"unihub/internal/model"
)

// ClubLogRepository reads and prunes club audit entries.
type ClubLogRepository interface {
	ListByClub(ctx context.Context, clubID uint) ([]model.ClubLog, error)
	FindByID(ctx context.Context, id uint) (*model.ClubLog, error)
	Delete(ctx context.Context, id uint) error
}

type clubLogRepository struct {
	db *gorm.DB
}

// NewClubLogRepository creates a new club log repository.
func NewClubLogRepository(db *gorm.DB) ClubLogRepository {
	return &clubLogRepository{db: db}
}

func (r *clubLogRepository) ListByClub(ctx context.Context, clubID uint) ([]model.ClubLog, error) {
	var logs []model.ClubLog
	err := r.db.WithContext(ctx).
		Preload("Actor").
		Where("club_id = ?", clubID).
		Order("timestamp DESC, id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *clubLogRepository) FindByID(ctx context.Context, id uint) (*model.ClubLog, error) {
	var log model.ClubLog
	if err := r.db.WithContext(ctx).First(&log, id).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *clubLogRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.ClubLog{}, id).Error
}
