package reservation

import (
	"time"
)

// Reservation statuses. PENDING is the only initial state. CONFIRMED,
// CANCELED and REJECTED are terminal, except CONFIRMED -> CANCELED.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCanceled  = "CANCELED"
	StatusRejected  = "REJECTED"
)

type Reservation struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TicketNumber string    `gorm:"type:varchar(20);not null;uniqueIndex" json:"ticket_number"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	EventID      uint      `gorm:"not null;index" json:"event_id"`
	Status       string    `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActive reports whether the reservation counts toward the
// one-active-booking-per-user-per-event rule.
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

type CreateReservationRequest struct {
	EventID uint `json:"event_id" binding:"required"`
}

// DetailedReservation carries user and event summaries for admin listings.
type DetailedReservation struct {
	Reservation
	EventTitle    string  `json:"event_title"`
	EventDate     string  `json:"event_date"`
	EventTime     string  `json:"event_time"`
	EventLocation string  `json:"event_location"`
	EventPrice    float64 `json:"event_price"`
	UserEmail     string  `json:"user_email"`
	UserFirstName string  `json:"user_first_name"`
	UserLastName  string  `json:"user_last_name"`
}

// StatusCounts for the admin dashboard card
type StatusCounts struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Canceled  int64 `json:"canceled"`
	Rejected  int64 `json:"rejected"`
}
