package reservation

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Mo7amed-Boukab/eventia-backend/internal/event"
)

var (
	ErrNotFound        = errors.New("reservation not found")
	ErrEventNotFound   = errors.New("event not found")
	ErrEventNotOpen    = errors.New("event is not open for reservations")
	ErrEventFull       = errors.New("event has reached its maximum capacity")
	ErrAlreadyBooked   = errors.New("an active reservation already exists for this event")
	ErrNotPending      = errors.New("reservation is not pending")
	ErrAlreadyTerminal = errors.New("reservation is already canceled or rejected")
	ErrNotConfirmed    = errors.New("reservation is not confirmed")
)

type ReservationFilter struct {
	Status  string
	EventID uint
	Search  string
	Page    int
	Limit   int
}

type PaginatedReservations struct {
	Data       []DetailedReservation `json:"data"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"total_pages"`
}

type Repository interface {
	Create(r *Reservation) error
	GetByID(id uint) (*Reservation, error)
	GetDetailedByID(id uint) (*DetailedReservation, error)
	HasActive(userID, eventID uint) (bool, error)
	ListWithFilters(filter ReservationFilter) (*PaginatedReservations, error)
	ListByUser(userID uint) ([]DetailedReservation, error)
	ConfirmPending(id uint) (*Reservation, error)
	MarkRejected(id uint) (*Reservation, error)
	CancelActive(id uint) (*Reservation, error)
	CountByStatus() (*StatusCounts, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(res *Reservation) error {
	// Two unique indexes can reject the insert: the ticket number and
	// the partial active-reservation index on (user_id, event_id).
	// A ticket collision is retried, a concurrent active booking is not.
	for attempt := 0; attempt < 5; attempt++ {
		number, err := NewTicketNumber()
		if err != nil {
			return err
		}
		res.TicketNumber = number
		err = r.db.Create(res).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		if active, aerr := r.HasActive(res.UserID, res.EventID); aerr == nil && active {
			return ErrAlreadyBooked
		}
	}
	return errors.New("could not allocate a unique ticket number")
}

func (r *repository) GetByID(id uint) (*Reservation, error) {
	var res Reservation
	if err := r.db.First(&res, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *repository) GetDetailedByID(id uint) (*DetailedReservation, error) {
	var res DetailedReservation
	err := r.detailedQuery().Where("reservations.id = ?", id).First(&res).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *repository) HasActive(userID, eventID uint) (bool, error) {
	var count int64
	err := r.db.Model(&Reservation{}).
		Where("user_id = ? AND event_id = ? AND status IN ?", userID, eventID,
			[]string{StatusPending, StatusConfirmed}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) detailedQuery() *gorm.DB {
	return r.db.Model(&Reservation{}).
		Select(`reservations.*,
			events.title AS event_title,
			events.date AS event_date,
			events.time AS event_time,
			events.location AS event_location,
			events.price AS event_price,
			users.email AS user_email,
			users.first_name AS user_first_name,
			users.last_name AS user_last_name`).
		Joins("JOIN events ON events.id = reservations.event_id").
		Joins("JOIN users ON users.id = reservations.user_id")
}

func (r *repository) ListWithFilters(filter ReservationFilter) (*PaginatedReservations, error) {
	query := r.detailedQuery()

	if filter.Status != "" {
		query = query.Where("reservations.status = ?", filter.Status)
	}
	if filter.EventID != 0 {
		query = query.Where("reservations.event_id = ?", filter.EventID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"reservations.ticket_number ILIKE ? OR users.email ILIKE ? OR events.title ILIKE ?",
			like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	offset := (filter.Page - 1) * filter.Limit

	var rows []DetailedReservation
	err := query.Order("reservations.created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &PaginatedReservations{
		Data:       rows,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (r *repository) ListByUser(userID uint) ([]DetailedReservation, error) {
	var rows []DetailedReservation
	err := r.detailedQuery().
		Where("reservations.user_id = ?", userID).
		Order("reservations.created_at DESC").
		Find(&rows).Error
	return rows, err
}

// ConfirmPending transitions PENDING -> CONFIRMED and claims one seat
// on the event in the same transaction. The conditional UPDATE on the
// event is the capacity guard, a zero max_participants means unlimited.
func (r *repository) ConfirmPending(id uint) (*Reservation, error) {
	var res Reservation
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&res, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if res.Status != StatusPending {
			return ErrNotPending
		}

		claim := tx.Model(&event.Event{}).
			Where("id = ? AND (max_participants = 0 OR participants < max_participants)", res.EventID).
			Update("participants", gorm.Expr("participants + ?", 1))
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&event.Event{}).
				Where("id = ?", res.EventID).
				Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return ErrEventNotFound
			}
			return ErrEventFull
		}

		res.Status = StatusConfirmed
		return tx.Model(&res).Update("status", StatusConfirmed).Error
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// MarkRejected transitions PENDING -> REJECTED. No seat was claimed,
// so no counter changes.
func (r *repository) MarkRejected(id uint) (*Reservation, error) {
	var res Reservation
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&res, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if res.Status != StatusPending {
			return ErrNotPending
		}
		res.Status = StatusRejected
		return tx.Model(&res).Update("status", StatusRejected).Error
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// CancelActive transitions PENDING or CONFIRMED -> CANCELED. A seat is
// released only when the reservation was CONFIRMED.
func (r *repository) CancelActive(id uint) (*Reservation, error) {
	var res Reservation
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&res, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !res.IsActive() {
			return ErrAlreadyTerminal
		}

		if res.Status == StatusConfirmed {
			err := tx.Model(&event.Event{}).
				Where("id = ? AND participants > 0", res.EventID).
				Update("participants", gorm.Expr("participants - ?", 1)).Error
			if err != nil {
				return err
			}
		}

		res.Status = StatusCanceled
		return tx.Model(&res).Update("status", StatusCanceled).Error
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *repository) CountByStatus() (*StatusCounts, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.Model(&Reservation{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := &StatusCounts{}
	for _, row := range rows {
		counts.Total += row.Count
		switch row.Status {
		case StatusPending:
			counts.Pending = row.Count
		case StatusConfirmed:
			counts.Confirmed = row.Count
		case StatusCanceled:
			counts.Canceled = row.Count
		case StatusRejected:
			counts.Rejected = row.Count
		}
	}
	return counts, nil
}
