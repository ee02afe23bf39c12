package reports

import (
	"context"

	"gorm.io/gorm"

	"github.com/Mo7amed-Boukab/eventia-backend/internal/event"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/reservation"
)

type Repository interface {
	ReservationRows(ctx context.Context, filter ReservationReportFilter) ([]ReservationReportRow, error)
	ConfirmedRevenue(ctx context.Context) (float64, error)
	TotalParticipants(ctx context.Context) (int64, error)
	UpcomingEvents(ctx context.Context, limit int) ([]event.Event, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ReservationRows(ctx context.Context, filter ReservationReportFilter) ([]ReservationReportRow, error) {
	query := r.db.WithContext(ctx).Model(&reservation.Reservation{}).
		Select(`reservations.ticket_number,
			reservations.status,
			events.title AS event_title,
			events.date AS event_date,
			events.price AS event_price,
			users.first_name || ' ' || users.last_name AS attendee_name,
			users.email AS attendee_email,
			reservations.created_at`).
		Joins("JOIN events ON events.id = reservations.event_id").
		Joins("JOIN users ON users.id = reservations.user_id")

	if filter.Status != "" {
		query = query.Where("reservations.status = ?", filter.Status)
	}
	if filter.EventID != 0 {
		query = query.Where("reservations.event_id = ?", filter.EventID)
	}
	if filter.DateFrom != "" {
		query = query.Where("events.date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query = query.Where("events.date <= ?", filter.DateTo)
	}

	var rows []ReservationReportRow
	err := query.Order("reservations.created_at DESC").Scan(&rows).Error
	return rows, err
}

// ConfirmedRevenue sums the event price over confirmed reservations.
func (r *repository) ConfirmedRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&reservation.Reservation{}).
		Select("COALESCE(SUM(events.price), 0)").
		Joins("JOIN events ON events.id = reservations.event_id").
		Where("reservations.status = ?", reservation.StatusConfirmed).
		Scan(&total).Error
	return total, err
}

func (r *repository) TotalParticipants(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&event.Event{}).
		Select("COALESCE(SUM(participants), 0)").
		Where("status = ?", event.StatusPublished).
		Scan(&total).Error
	return total, err
}

func (r *repository) UpcomingEvents(ctx context.Context, limit int) ([]event.Event, error) {
	if limit < 1 {
		limit = 5
	}
	var rows []event.Event
	err := r.db.WithContext(ctx).
		Where("status = ? AND date >= CURRENT_DATE::text", event.StatusPublished).
		Order("date ASC, time ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
