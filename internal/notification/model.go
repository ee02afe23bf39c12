package notification

import (
	"time"

	"gorm.io/datatypes"
)

// Delivery channels
const (
	ChannelEmail = "email"
	ChannelQueue = "queue"
)

// Delivery statuses
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// NotificationLog records every delivery attempt, successful or not.
type NotificationLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"not null;index" json:"user_id"` // recipient
	Kind       string         `gorm:"size:50;not null;index" json:"kind"`
	Channel    string         `gorm:"size:20;not null" json:"channel"`
	Subject    string         `gorm:"size:255" json:"subject,omitempty"`
	Payload    datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	Status     string         `gorm:"size:20;default:'sent'" json:"status"`
	Error      *string        `json:"error,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (NotificationLog) TableName() string {
	return "notification_logs"
}

// ReservationMessage is the payload published on the reservation
// lifecycle topic.
type ReservationMessage struct {
	Kind          string    `json:"kind"`
	ReservationID uint      `json:"reservation_id"`
	TicketNumber  string    `json:"ticket_number"`
	Status        string    `json:"status"`
	EventID       uint      `json:"event_id"`
	EventTitle    string    `json:"event_title"`
	EventDate     string    `json:"event_date"`
	EventTime     string    `json:"event_time"`
	UserID        uint      `json:"user_id"`
	UserEmail     string    `json:"user_email"`
	UserName      string    `json:"user_name"`
	OccurredAt    time.Time `json:"occurred_at"`
}
