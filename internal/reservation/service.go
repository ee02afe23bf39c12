package reservation

import (
	"context"
	"errors"
	"log"

	"github.com/Mo7amed-Boukab/eventia-backend/internal/auditlog"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/auth"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/event"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/ticket"
)

// Notification kinds understood by the dispatcher.
const (
	NotifyPending  = "reservation.pending"
	NotifyRejected = "reservation.rejected"
	NotifyCanceled = "reservation.canceled"
)

// Notifier delivers lifecycle notifications. Dispatch is fire and
// forget, SendConfirmation is synchronous because it carries the
// ticket PDF.
type Notifier interface {
	Dispatch(ctx context.Context, kind string, res *Reservation, ev *event.Event, user auth.User)
	SendConfirmation(ctx context.Context, res *Reservation, ev *event.Event, user auth.User, ticketPDF []byte) error
}

// TicketRenderer produces the PDF ticket for a confirmed reservation.
type TicketRenderer interface {
	Render(d ticket.Details) ([]byte, error)
}

// EventCatalog is the slice of the event repository this package needs.
type EventCatalog interface {
	GetByID(ctx context.Context, id uint) (*event.Event, error)
}

// UserDirectory is the slice of the auth repository this package needs.
type UserDirectory interface {
	FindByID(userID uint) (auth.User, error)
}

type Service interface {
	Create(ctx context.Context, userID uint, req CreateReservationRequest) (*Reservation, error)
	FindAll(ctx context.Context, filter ReservationFilter) (*PaginatedReservations, error)
	FindByUser(ctx context.Context, userID uint) ([]DetailedReservation, error)
	Confirm(ctx context.Context, actorID, id uint) (*Reservation, error)
	Reject(ctx context.Context, actorID, id uint) (*Reservation, error)
	Cancel(ctx context.Context, actorID, id uint) (*Reservation, error)
	CancelByUser(ctx context.Context, userID, id uint) (*Reservation, error)
	GetTicket(ctx context.Context, userID uint, isAdmin bool, id uint) ([]byte, error)
	CountByStatus(ctx context.Context) (*StatusCounts, error)
}

type service struct {
	repo     Repository
	events   EventCatalog
	users    UserDirectory
	tickets  TicketRenderer
	notifier Notifier
	auditSvc auditlog.Service
	cache    *event.Cache
}

func NewService(repo Repository, events EventCatalog, users UserDirectory,
	tickets TicketRenderer, notifier Notifier, auditSvc auditlog.Service,
	cache *event.Cache) Service {
	return &service{
		repo:     repo,
		events:   events,
		users:    users,
		tickets:  tickets,
		notifier: notifier,
		auditSvc: auditSvc,
		cache:    cache,
	}
}

// Create opens a PENDING reservation on a published event. A user can
// hold at most one active reservation per event.
func (s *service) Create(ctx context.Context, userID uint, req CreateReservationRequest) (*Reservation, error) {
	ev, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if ev.Status != event.StatusPublished {
		return nil, ErrEventNotOpen
	}
	// Advisory check against confirmed seats. The hard guarantee lives
	// in the confirm transaction, pending reservations may still queue
	// past the ceiling when confirms race this read.
	if ev.MaxParticipants > 0 && ev.Participants >= ev.MaxParticipants {
		return nil, ErrEventFull
	}

	active, err := s.repo.HasActive(userID, req.EventID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrAlreadyBooked
	}

	res := &Reservation{
		UserID:  userID,
		EventID: req.EventID,
		Status:  StatusPending,
	}
	if err := s.repo.Create(res); err != nil {
		return nil, err
	}

	s.audit(ctx, &userID, "RESERVATION_CREATED", map[string]interface{}{
		"reservation_id": res.ID,
		"ticket_number":  res.TicketNumber,
		"event_id":       req.EventID,
	})
	s.notify(ctx, NotifyPending, res, ev)

	log.Printf("✅ Reservation %s created for event %d by user %d", res.TicketNumber, req.EventID, userID)
	return res, nil
}

func (s *service) FindAll(ctx context.Context, filter ReservationFilter) (*PaginatedReservations, error) {
	return s.repo.ListWithFilters(filter)
}

func (s *service) FindByUser(ctx context.Context, userID uint) ([]DetailedReservation, error) {
	return s.repo.ListByUser(userID)
}

// Confirm claims a seat and sends the ticket by email. An email
// failure never rolls back the confirmation, the reservation stays
// CONFIRMED and the failure is logged.
func (s *service) Confirm(ctx context.Context, actorID, id uint) (*Reservation, error) {
	res, err := s.repo.ConfirmPending(id)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, &actorID, "RESERVATION_CONFIRMED", map[string]interface{}{
		"reservation_id": res.ID,
		"ticket_number":  res.TicketNumber,
	})
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	ev, evErr := s.events.GetByID(ctx, res.EventID)
	user, userErr := s.users.FindByID(res.UserID)
	if evErr != nil || userErr != nil {
		log.Printf("⚠️ Could not load details for confirmation email of %s: %v %v", res.TicketNumber, evErr, userErr)
		return res, nil
	}

	pdf, err := s.tickets.Render(ticketDetails(res, ev, user))
	if err != nil {
		log.Printf("⚠️ Ticket rendering failed for %s: %v", res.TicketNumber, err)
		return res, nil
	}
	if err := s.notifier.SendConfirmation(ctx, res, ev, user, pdf); err != nil {
		log.Printf("⚠️ Confirmation email failed for %s: %v", res.TicketNumber, err)
	}
	return res, nil
}

func (s *service) Reject(ctx context.Context, actorID, id uint) (*Reservation, error) {
	res, err := s.repo.MarkRejected(id)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, &actorID, "RESERVATION_REJECTED", map[string]interface{}{
		"reservation_id": res.ID,
		"ticket_number":  res.TicketNumber,
	})
	if ev, err := s.events.GetByID(ctx, res.EventID); err == nil {
		s.notify(ctx, NotifyRejected, res, ev)
	}
	return res, nil
}

func (s *service) Cancel(ctx context.Context, actorID, id uint) (*Reservation, error) {
	return s.cancel(ctx, actorID, id)
}

// CancelByUser cancels the caller's own reservation. A reservation
// belonging to someone else is reported as not found.
func (s *service) CancelByUser(ctx context.Context, userID, id uint) (*Reservation, error) {
	res, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if res.UserID != userID {
		return nil, ErrNotFound
	}
	return s.cancel(ctx, userID, id)
}

func (s *service) cancel(ctx context.Context, actorID, id uint) (*Reservation, error) {
	res, err := s.repo.CancelActive(id)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, &actorID, "RESERVATION_CANCELED", map[string]interface{}{
		"reservation_id": res.ID,
		"ticket_number":  res.TicketNumber,
	})
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	if ev, err := s.events.GetByID(ctx, res.EventID); err == nil {
		s.notify(ctx, NotifyCanceled, res, ev)
	}
	return res, nil
}

// GetTicket re-renders the PDF for a confirmed reservation. Admins can
// fetch any ticket, participants only their own.
func (s *service) GetTicket(ctx context.Context, userID uint, isAdmin bool, id uint) ([]byte, error) {
	res, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && res.UserID != userID {
		return nil, ErrNotFound
	}
	if res.Status != StatusConfirmed {
		return nil, ErrNotConfirmed
	}

	ev, err := s.events.GetByID(ctx, res.EventID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(res.UserID)
	if err != nil {
		return nil, err
	}
	return s.tickets.Render(ticketDetails(res, ev, user))
}

func (s *service) CountByStatus(ctx context.Context) (*StatusCounts, error) {
	return s.repo.CountByStatus()
}

func (s *service) audit(ctx context.Context, actorID *uint, action string, details map[string]interface{}) {
	if s.auditSvc == nil {
		return
	}
	if err := s.auditSvc.LogAction(ctx, actorID, action, details, "SUCCESS"); err != nil {
		log.Printf("⚠️ Audit log failed for %s: %v", action, err)
	}
}

func (s *service) notify(ctx context.Context, kind string, res *Reservation, ev *event.Event) {
	if s.notifier == nil {
		return
	}
	user, err := s.users.FindByID(res.UserID)
	if err != nil {
		log.Printf("⚠️ Could not load user %d for notification: %v", res.UserID, err)
		return
	}
	s.notifier.Dispatch(ctx, kind, res, ev, user)
}

func ticketDetails(res *Reservation, ev *event.Event, user auth.User) ticket.Details {
	return ticket.Details{
		ReservationID: res.ID,
		TicketNumber:  res.TicketNumber,
		EventTitle:    ev.Title,
		EventDate:     ev.Date,
		EventTime:     ev.Time,
		EventLocation: ev.Location,
		EventPrice:    ev.Price,
		AttendeeName:  user.FullName(),
		AttendeeEmail: user.Email,
	}
}
