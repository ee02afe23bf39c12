package event

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested event does not exist.
var ErrNotFound = errors.New("event not found")

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uint) (*Event, error)
	Update(ctx context.Context, event *Event) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	ListPublished(ctx context.Context) ([]Event, error)
	ListWithFilters(ctx context.Context, filter EventFilter) ([]Event, int64, error)
	CountByStatus(ctx context.Context) (StatusCounts, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) Update(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id uint, status string) error {
	res := r.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ListPublished(ctx context.Context) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusPublished).
		Order("date ASC, time ASC").
		Find(&events).Error
	return events, err
}

func (r *repository) ListWithFilters(ctx context.Context, filter EventFilter) ([]Event, int64, error) {
	var events []Event
	var total int64

	query := r.db.WithContext(ctx).Model(&Event{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", searchTerm, searchTerm)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	err := query.Find(&events).Error
	return events, total, err
}

func (r *repository) CountByStatus(ctx context.Context) (StatusCounts, error) {
	var counts StatusCounts

	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT status, COUNT(*) as count
		FROM events
		GROUP BY status
	`).Rows()
	if err != nil {
		return counts, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			continue
		}
		counts.Total += count
		switch status {
		case StatusDraft:
			counts.Draft = count
		case StatusPublished:
			counts.Published = count
		case StatusCanceled:
			counts.Canceled = count
		}
	}

	return counts, nil
}
