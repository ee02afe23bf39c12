package event

import (
	"time"
)

// Event status lifecycle. Status is mutated only by admin actions;
// the participants counter only by reservation transitions.
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
	StatusCanceled  = "CANCELED"
)

// Event categories
const (
	CategoryFormation  = "FORMATION"
	CategoryWorkshop   = "WORKSHOP"
	CategoryConference = "CONFERENCE"
	CategoryNetworking = "NETWORKING"
)

type Event struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Title       string  `gorm:"type:varchar(255);not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Category    string  `gorm:"type:varchar(50);not null" json:"category"`
	Date        string  `gorm:"type:varchar(20);not null" json:"date"`   // Format: 2006-01-02
	Time        string  `gorm:"type:varchar(10);not null" json:"time"`   // Format: 15:04
	Location    string  `gorm:"type:varchar(255);not null" json:"location"`
	Price       float64 `gorm:"type:decimal(10,2);default:0" json:"price"`
	Status      string  `gorm:"type:varchar(20);default:'DRAFT'" json:"status"`
	Image       string  `gorm:"type:text" json:"image,omitempty"`

	// Participants counts confirmed seats only. MaxParticipants = 0 means unlimited.
	Participants    int `gorm:"default:0" json:"participants"`
	MaxParticipants int `gorm:"default:0" json:"max_participants"`

	CreatedBy uint      `gorm:"not null" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type CreateEventRequest struct {
	Title           string  `json:"title" binding:"required"`
	Description     string  `json:"description" binding:"required"`
	Category        string  `json:"category" binding:"required"`
	Date            string  `json:"date" binding:"required"` // "2006-01-02"
	Time            string  `json:"time" binding:"required"` // "15:04"
	Location        string  `json:"location" binding:"required"`
	Price           float64 `json:"price"`
	Image           string  `json:"image,omitempty"`
	MaxParticipants int     `json:"max_participants"`
}

type UpdateEventRequest struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description" binding:"required"`
	Category        string   `json:"category" binding:"required"`
	Date            string   `json:"date" binding:"required"`
	Time            string   `json:"time" binding:"required"`
	Location        string   `json:"location" binding:"required"`
	Price           *float64 `json:"price,omitempty"`
	Image           string   `json:"image,omitempty"`
	MaxParticipants *int     `json:"max_participants,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// EventFilter for the admin listing
type EventFilter struct {
	Status   string `json:"status"`
	Category string `json:"category"`
	Search   string `json:"search"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
}

// StatusCounts for the admin dashboard card
type StatusCounts struct {
	Total     int64 `json:"total"`
	Draft     int64 `json:"draft"`
	Published int64 `json:"published"`
	Canceled  int64 `json:"canceled"`
}
