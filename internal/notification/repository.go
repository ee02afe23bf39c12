package notification

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateLog(ctx context.Context, entry *NotificationLog) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]NotificationLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateLog(ctx context.Context, entry *NotificationLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListByUser(ctx context.Context, userID uint, limit int) ([]NotificationLog, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var rows []NotificationLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
