package reports

import (
	"time"

	"github.com/Mo7amed-Boukab/eventia-backend/internal/event"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/reservation"
)

// Export formats
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// ReservationReportRow is one line of the reservations export.
type ReservationReportRow struct {
	TicketNumber  string    `json:"ticket_number"`
	Status        string    `json:"status"`
	EventTitle    string    `json:"event_title"`
	EventDate     string    `json:"event_date"`
	EventPrice    float64   `json:"event_price"`
	AttendeeName  string    `json:"attendee_name"`
	AttendeeEmail string    `json:"attendee_email"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReservationReportFilter narrows the export.
type ReservationReportFilter struct {
	Status   string
	EventID  uint
	DateFrom string // "2006-01-02"
	DateTo   string
}

// DashboardStats backs the admin dashboard.
type DashboardStats struct {
	Events            event.StatusCounts       `json:"events"`
	Reservations      reservation.StatusCounts `json:"reservations"`
	TotalParticipants int64                    `json:"total_participants"`
	ConfirmedRevenue  float64                  `json:"confirmed_revenue"`
	UpcomingEvents    []event.Event            `json:"upcoming_events"`
}
