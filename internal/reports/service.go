package reports

import (
	"context"

	"github.com/Mo7amed-Boukab/eventia-backend/internal/event"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/reservation"
)

type Service interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
	ExportReservations(ctx context.Context, format string, filter ReservationReportFilter) ([]byte, string, string, error)
}

type service struct {
	repo         Repository
	events       event.Repository
	reservations reservation.Repository
	exporter     Exporter
}

func NewService(repo Repository, events event.Repository, reservations reservation.Repository) Service {
	return &service{
		repo:         repo,
		events:       events,
		reservations: reservations,
		exporter:     NewExporter(),
	}
}

func (s *service) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	eventCounts, err := s.events.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	reservationCounts, err := s.reservations.CountByStatus()
	if err != nil {
		return nil, err
	}
	revenue, err := s.repo.ConfirmedRevenue(ctx)
	if err != nil {
		return nil, err
	}
	participants, err := s.repo.TotalParticipants(ctx)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.repo.UpcomingEvents(ctx, 5)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		Events:            eventCounts,
		Reservations:      *reservationCounts,
		TotalParticipants: participants,
		ConfirmedRevenue:  revenue,
		UpcomingEvents:    upcoming,
	}, nil
}

func (s *service) ExportReservations(ctx context.Context, format string, filter ReservationReportFilter) ([]byte, string, string, error) {
	rows, err := s.repo.ReservationRows(ctx, filter)
	if err != nil {
		return nil, "", "", err
	}
	return s.exporter.Export(format, rows)
}
