package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Mo7amed-Boukab/eventia-backend/config"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/auth"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/event"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/reservation"
)

// Service fans reservation lifecycle notices out to the queue and,
// for confirmations, to the participant's mailbox. It satisfies
// reservation.Notifier.
type Service interface {
	Dispatch(ctx context.Context, kind string, res *reservation.Reservation, ev *event.Event, user auth.User)
	SendConfirmation(ctx context.Context, res *reservation.Reservation, ev *event.Event, user auth.User, ticketPDF []byte) error
	DeliverFromQueue(ctx context.Context, msg ReservationMessage)
	ListByUser(ctx context.Context, userID uint, limit int) ([]NotificationLog, error)
}

type service struct {
	repo      Repository
	email     *EmailSender
	publisher *Publisher
}

func NewService(repo Repository, cfg *config.Config, publisher *Publisher) Service {
	return &service{
		repo:      repo,
		email:     NewEmailSender(cfg),
		publisher: publisher,
	}
}

// Dispatch publishes the lifecycle message in the background. A
// broker failure is recorded and never surfaces to the caller.
func (s *service) Dispatch(ctx context.Context, kind string, res *reservation.Reservation, ev *event.Event, user auth.User) {
	msg := ReservationMessage{
		Kind:          kind,
		ReservationID: res.ID,
		TicketNumber:  res.TicketNumber,
		Status:        res.Status,
		EventID:       ev.ID,
		EventTitle:    ev.Title,
		EventDate:     ev.Date,
		EventTime:     ev.Time,
		UserID:        user.ID,
		UserEmail:     user.Email,
		UserName:      user.FullName(),
		OccurredAt:    time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := s.publisher.Publish(ctx, msg)
		s.record(ctx, user.ID, kind, ChannelQueue, "", msg, err)
	}()
}

// SendConfirmation emails the ticket to the participant. The caller
// decides what to do with a failure, the reservation itself stays
// confirmed either way.
func (s *service) SendConfirmation(ctx context.Context, res *reservation.Reservation, ev *event.Event, user auth.User, ticketPDF []byte) error {
	subject := fmt.Sprintf("Your ticket for %s", ev.Title)
	body := confirmationBody(res, ev, user)

	err := s.email.Send([]string{user.Email}, subject, body, Attachment{
		Filename:    fmt.Sprintf("%s.pdf", res.TicketNumber),
		ContentType: "application/pdf",
		Data:        ticketPDF,
	})

	msg := ReservationMessage{
		Kind:          "reservation.confirmed",
		ReservationID: res.ID,
		TicketNumber:  res.TicketNumber,
		Status:        res.Status,
		EventID:       ev.ID,
		EventTitle:    ev.Title,
		UserID:        user.ID,
		UserEmail:     user.Email,
		OccurredAt:    time.Now().UTC(),
	}
	s.record(ctx, user.ID, msg.Kind, ChannelEmail, subject, msg, err)

	if err != nil {
		return fmt.Errorf("sending confirmation for %s: %w", res.TicketNumber, err)
	}
	log.Printf("✅ Confirmation email sent to %s for %s", user.Email, res.TicketNumber)
	return nil
}

// DeliverFromQueue sends the plain lifecycle email for a consumed
// envelope and records the outcome. Called by the Kafka consumer.
func (s *service) DeliverFromQueue(ctx context.Context, msg ReservationMessage) {
	subject, body := lifecycleEmail(msg)
	if subject == "" {
		log.Printf("⚠️ Unknown notification kind %q, dropping", msg.Kind)
		return
	}

	err := s.email.Send([]string{msg.UserEmail}, subject, body)
	s.record(ctx, msg.UserID, msg.Kind, ChannelEmail, subject, msg, err)
	if err != nil {
		log.Printf("⚠️ Lifecycle email %s to %s failed: %v", msg.Kind, msg.UserEmail, err)
	}
}

func (s *service) ListByUser(ctx context.Context, userID uint, limit int) ([]NotificationLog, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *service) record(ctx context.Context, userID uint, kind, channel, subject string, msg ReservationMessage, sendErr error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("⚠️ Could not marshal notification payload: %v", err)
		payload = []byte("{}")
	}

	entry := &NotificationLog{
		UserID:  userID,
		Kind:    kind,
		Channel: channel,
		Subject: subject,
		Payload: payload,
		Status:  StatusSent,
	}
	if sendErr != nil {
		entry.Status = StatusFailed
		errMsg := sendErr.Error()
		entry.Error = &errMsg
	}
	if err := s.repo.CreateLog(ctx, entry); err != nil {
		log.Printf("⚠️ Could not record notification log: %v", err)
	}
}

func lifecycleEmail(msg ReservationMessage) (subject, body string) {
	switch msg.Kind {
	case reservation.NotifyPending:
		subject = fmt.Sprintf("Reservation received for %s", msg.EventTitle)
		body = fmt.Sprintf(`
			<h2>Reservation received</h2>
			<p>Hello %s,</p>
			<p>Your reservation <strong>%s</strong> for <strong>%s</strong> on %s at %s
			is pending review. You will be notified once it is processed.</p>
		`, msg.UserName, msg.TicketNumber, msg.EventTitle, msg.EventDate, msg.EventTime)
	case reservation.NotifyRejected:
		subject = fmt.Sprintf("Reservation declined for %s", msg.EventTitle)
		body = fmt.Sprintf(`
			<h2>Reservation declined</h2>
			<p>Hello %s,</p>
			<p>Your reservation <strong>%s</strong> for <strong>%s</strong> could not be
			accepted.</p>
		`, msg.UserName, msg.TicketNumber, msg.EventTitle)
	case reservation.NotifyCanceled:
		subject = fmt.Sprintf("Reservation canceled for %s", msg.EventTitle)
		body = fmt.Sprintf(`
			<h2>Reservation canceled</h2>
			<p>Hello %s,</p>
			<p>Your reservation <strong>%s</strong> for <strong>%s</strong> has been
			canceled.</p>
		`, msg.UserName, msg.TicketNumber, msg.EventTitle)
	}
	return subject, body
}

func confirmationBody(res *reservation.Reservation, ev *event.Event, user auth.User) string {
	return fmt.Sprintf(`
		<h2>Reservation confirmed</h2>
		<p>Hello %s,</p>
		<p>Your reservation <strong>%s</strong> for <strong>%s</strong> has been confirmed.</p>
		<p>%s at %s, %s</p>
		<p>Your ticket is attached. Present the QR code at the entrance.</p>
	`, user.FullName(), res.TicketNumber, ev.Title, ev.Date, ev.Time, ev.Location)
}
