package reservation

import (
	"context"
	"errors"
	"testing"

	"github.com/Mo7amed-Boukab/eventia-backend/internal/auth"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/event"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/ticket"
)

// ---------- fakes ----------

type fakeStore struct {
	events       map[uint]*event.Event
	reservations map[uint]*Reservation
	nextID       uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:       make(map[uint]*event.Event),
		reservations: make(map[uint]*Reservation),
	}
}

func (f *fakeStore) addEvent(ev *event.Event) *event.Event {
	f.events[ev.ID] = ev
	return ev
}

func (f *fakeStore) GetByID(ctx context.Context, id uint) (*event.Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return nil, event.ErrNotFound
	}
	copy := *ev
	return &copy, nil
}

type fakeRepo struct {
	store *fakeStore

	// createErr is returned once by Create, mimicking an insert
	// rejected by a unique index.
	createErr error
}

func (r *fakeRepo) Create(res *Reservation) error {
	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return err
	}
	number, err := NewTicketNumber()
	if err != nil {
		return err
	}
	r.store.nextID++
	res.ID = r.store.nextID
	res.TicketNumber = number
	stored := *res
	r.store.reservations[res.ID] = &stored
	return nil
}

func (r *fakeRepo) GetByID(id uint) (*Reservation, error) {
	res, ok := r.store.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	copy := *res
	return &copy, nil
}

func (r *fakeRepo) GetDetailedByID(id uint) (*DetailedReservation, error) {
	res, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	return &DetailedReservation{Reservation: *res}, nil
}

func (r *fakeRepo) HasActive(userID, eventID uint) (bool, error) {
	for _, res := range r.store.reservations {
		if res.UserID == userID && res.EventID == eventID && res.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) ListWithFilters(filter ReservationFilter) (*PaginatedReservations, error) {
	out := &PaginatedReservations{Page: 1, Limit: 10}
	for _, res := range r.store.reservations {
		if filter.Status != "" && res.Status != filter.Status {
			continue
		}
		out.Data = append(out.Data, DetailedReservation{Reservation: *res})
		out.Total++
	}
	return out, nil
}

func (r *fakeRepo) ListByUser(userID uint) ([]DetailedReservation, error) {
	var out []DetailedReservation
	for _, res := range r.store.reservations {
		if res.UserID == userID {
			out = append(out, DetailedReservation{Reservation: *res})
		}
	}
	return out, nil
}

func (r *fakeRepo) ConfirmPending(id uint) (*Reservation, error) {
	res, ok := r.store.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	if res.Status != StatusPending {
		return nil, ErrNotPending
	}
	ev, ok := r.store.events[res.EventID]
	if !ok {
		return nil, ErrEventNotFound
	}
	if ev.MaxParticipants > 0 && ev.Participants >= ev.MaxParticipants {
		return nil, ErrEventFull
	}
	ev.Participants++
	res.Status = StatusConfirmed
	copy := *res
	return &copy, nil
}

func (r *fakeRepo) MarkRejected(id uint) (*Reservation, error) {
	res, ok := r.store.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	if res.Status != StatusPending {
		return nil, ErrNotPending
	}
	res.Status = StatusRejected
	copy := *res
	return &copy, nil
}

func (r *fakeRepo) CancelActive(id uint) (*Reservation, error) {
	res, ok := r.store.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !res.IsActive() {
		return nil, ErrAlreadyTerminal
	}
	if res.Status == StatusConfirmed {
		if ev, ok := r.store.events[res.EventID]; ok && ev.Participants > 0 {
			ev.Participants--
		}
	}
	res.Status = StatusCanceled
	copy := *res
	return &copy, nil
}

func (r *fakeRepo) CountByStatus() (*StatusCounts, error) {
	counts := &StatusCounts{}
	for _, res := range r.store.reservations {
		counts.Total++
		switch res.Status {
		case StatusPending:
			counts.Pending++
		case StatusConfirmed:
			counts.Confirmed++
		case StatusCanceled:
			counts.Canceled++
		case StatusRejected:
			counts.Rejected++
		}
	}
	return counts, nil
}

type fakeUsers struct {
	users map[uint]auth.User
}

func (f *fakeUsers) FindByID(userID uint) (auth.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return auth.User{}, errors.New("user not found")
	}
	return user, nil
}

type fakeTickets struct {
	renderErr error
}

func (f *fakeTickets) Render(d ticket.Details) ([]byte, error) {
	if f.renderErr != nil {
		return nil, f.renderErr
	}
	return []byte("%PDF-1.4 " + d.TicketNumber), nil
}

type fakeNotifier struct {
	dispatched    []string
	confirmations int
	confirmErr    error
}

func (f *fakeNotifier) Dispatch(ctx context.Context, kind string, res *Reservation, ev *event.Event, user auth.User) {
	f.dispatched = append(f.dispatched, kind)
}

func (f *fakeNotifier) SendConfirmation(ctx context.Context, res *Reservation, ev *event.Event, user auth.User, ticketPDF []byte) error {
	f.confirmations++
	return f.confirmErr
}

// ---------- helpers ----------

type testEnv struct {
	store    *fakeStore
	repo     *fakeRepo
	notifier *fakeNotifier
	tickets  *fakeTickets
	svc      Service
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	repo := &fakeRepo{store: store}
	notifier := &fakeNotifier{}
	tickets := &fakeTickets{}
	users := &fakeUsers{users: map[uint]auth.User{
		1: {ID: 1, Email: "admin@eventia.io", Role: auth.RoleAdmin},
		2: {ID: 2, Email: "sara@example.com", FirstName: "Sara", LastName: "Amrani", Role: auth.RoleParticipant},
		3: {ID: 3, Email: "karim@example.com", FirstName: "Karim", LastName: "Idrissi", Role: auth.RoleParticipant},
	}}
	svc := NewService(repo, store, users, tickets, notifier, nil, nil)
	return &testEnv{store: store, repo: repo, notifier: notifier, tickets: tickets, svc: svc}
}

func (e *testEnv) publishedEvent(id uint, max int) *event.Event {
	return e.store.addEvent(&event.Event{
		ID:              id,
		Title:           "Go Workshop",
		Date:            "2026-10-01",
		Time:            "18:00",
		Location:        "Casablanca",
		Status:          event.StatusPublished,
		MaxParticipants: max,
	})
}

// ---------- tests ----------

func TestCreateReservation(t *testing.T) {
	env := newTestEnv()
	env.publishedEvent(10, 0)

	res, err := env.svc.Create(context.Background(), 2, CreateReservationRequest{EventID: 10})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if res.Status != StatusPending {
		t.Errorf("new reservation status = %s, want %s", res.Status, StatusPending)
	}
	if res.TicketNumber == "" {
		t.Error("new reservation has no ticket number")
	}
	if env.store.events[10].Participants != 0 {
		t.Error("pending reservation must not claim a seat")
	}
}

func TestCreateReservationEventNotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Create(context.Background(), 2, CreateReservationRequest{EventID: 99})
	if !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("err = %v, want ErrEventNotFound", err)
	}
}

func TestCreateReservationEventNotOpen(t *testing.T) {
	env := newTestEnv()
	env.store.addEvent(&event.Event{ID: 10, Status: event.StatusDraft})

	_, err := env.svc.Create(context.Background(), 2, CreateReservationRequest{EventID: 10})
	if !errors.Is(err, ErrEventNotOpen) {
		t.Fatalf("err = %v, want ErrEventNotOpen", err)
	}
}

func TestCreateReservationEventFull(t *testing.T) {
	env := newTestEnv()
	ev := env.publishedEvent(10, 2)
	ev.Participants = 2

	_, err := env.svc.Create(context.Background(), 2, CreateReservationRequest{EventID: 10})
	if !errors.Is(err, ErrEventFull) {
		t.Fatalf("err = %v, want ErrEventFull", err)
	}
}

func TestCreateReservationAlreadyBooked(t *testing.T) {
	env := newTestEnv()
	env.publishedEvent(10, 0)
	ctx := context.Background()

	if _, err := env.svc.Create(ctx, 2, CreateReservationRequest{EventID: 10}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := env.svc.Create(ctx, 2, CreateReservationRequest{EventID: 10})
	if !errors.Is(err, ErrAlreadyBooked) {
		t.Fatalf("err = %v, want ErrAlreadyBooked", err)
	}

	// A different user is unaffected
	if _, err := env.svc.Create(ctx, 3, CreateReservationRequest{EventID: 10}); err != nil {
		t.Fatalf("other user Create failed: %v", err)
	}
}

func TestCreateReservationConcurrentDuplicate(t *testing.T) {
	env := newTestEnv()
	env.publishedEvent(10, 0)

	// A racing request can slip past the pre-insert check and hit the
	// one-active-per-user-per-event index instead.
	env.repo.createErr = ErrAlreadyBooked

	_, err := env.svc.Create(context.Background(), 2, CreateReservationRequest{EventID: 10})
	if !errors.Is(err, ErrAlreadyBooked) {
		t.Fatalf("err = %v, want ErrAlreadyBooked", err)
	}
}

func TestCreateReservationAfterCancel(t *testing.T) {
	env := newTestEnv()
	env.publishedEvent(10, 0)
	ctx := context.Background()

	first, err := env.svc.Create(ctx, 2, CreateReservationRequest{EventID: 10})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := env.svc.CancelByUser(ctx, 2, first.ID); err != nil {
		t.Fatalf("CancelByUser failed: %v", err)
	}

	second, err := env.svc.Create(ctx, 2, CreateReservationRequest{EventID: 10})
	if err != nil {
		t.Fatalf("Create after cancel failed: %v", err)
	}
	if second.TicketNumber == first.TicketNumber {
		t.Error("new reservation reused the old ticket number")
	}
}

func TestConfirmReservation(t *testing.T) {
	env := newTestEnv()
	env.publishedEvent(10, 2)
	ctx := context.Background()

	res, _ := env.svc.Create(ctx, 2, CreateReservationRequest{EventID: 10})

	confirmed, err := env.svc.Confirm(ctx, 1, res.ID)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if confirmed.Status != StatusConfirmed {
		t.Errorf("status = %s, want %s", confirmed.Status, StatusConfirmed)
	}
	if got := env.store.events[10].Participants; got != 1 {
		t.Errorf("participants = %d, want 1", got)
	}
	if env.notifier.confirmations != 1 {
		t.Errorf("confirmation emails sent = %d, want 1", env.notifier.confirmations)
	}
}

func TestConfirmReservationEventFull(t *testing.T) {
	env := newTestEnv()
	env.publishedEvent(10, 1)
	ctx := context.Background()

	first, _ := env.svc.Create(ctx, 2, CreateReservationRequest{EventID: 10})
	second, _ := env.svc.Create(ctx, 3, CreateReservationRequest{EventID: 10})

	if _, err := env.svc.Confirm(ctx, 1, first.ID); err != nil {
		t.Fatalf("first Confirm failed: %v", err)
	}
	_, err := env.svc.Confirm(ctx, 1, second.ID)
	if !errors.Is(err, ErrEventFull) {
		t.Fatalf("err = %v, want ErrEventFull", err)
	}

	// The losing reservation stays PENDING
	kept, _ := env.repo.GetByID(second.ID)
	if kept.Status != StatusPending {
		t.Errorf("status after failed confirm = %s, want %s", kept.Status, StatusPending)
	}
}

func TestConfirmReservationNotPending(t *testing.T) {
	env := newTestEnv()
	env.publishedEvent(10, 0)
	ctx := context.Background()

	res, _ := env.svc.Create(ctx, 2, CreateReservationRequest{EventID: 10})
	if _, err := env.svc.Reject(ctx, 1, res.ID); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}

	_, err := env.svc.Confirm(ctx, 1, res.ID)
	if !errors.Is(err, ErrNotPending) {
		t.Fatalf("err = %v, want ErrNotPending", err)
	}
}

func TestConfirmSurvivesEmailFailure(t *testing.T) {
	env := newTestEnv()
	env.publishedEvent(10, 0)
	env.notifier.confirmErr = errors.New("smtp unreachable")
	ctx := context.Background()

	res, _ := env.svc.Create(ctx, 2, CreateReservationRequest{EventID: 10})
	confirmed, err := env.svc.Confirm(ctx, 1, res.ID)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if confirmed.Status != StatusConfirmed {
		t.Errorf("status = %s, want %s", confirmed.Status, StatusConfirmed)
	}
}

func TestRejectReservation(t *testing.T) {
	env := newTestEnv()
	env.publishedEvent(10, 0)
	ctx := context.Background()

	res, _ := env.svc.Create(ctx, 2, CreateReservationRequest{EventID: 10})
	rejected, err := env.svc.Reject(ctx, 1, res.ID)
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if rejected.Status != StatusRejected {
		t.Errorf("status = %s, want %s", rejected.Status, StatusRejected)
	}
	if got := env.store.events[10].Participants; got != 0 {
		t.Errorf("participants = %d, want 0", got)
	}
}

func TestCancelConfirmedReleasesSeat(t *testing.T) {
	env := newTestEnv()
	env.publishedEvent(10, 1)
	ctx := context.Background()

	res, _ := env.svc.Create(ctx, 2, CreateReservationRequest{EventID: 10})
	if _, err := env.svc.Confirm(ctx, 1, res.ID); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	canceled, err := env.svc.Cancel(ctx, 1, res.ID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if canceled.Status != StatusCanceled {
		t.Errorf("status = %s, want %s", canceled.Status, StatusCanceled)
	}
	if got := env.store.events[10].Participants; got != 0 {
		t.Errorf("participants = %d, want 0 after cancel", got)
	}

	// The freed seat can be claimed by someone else
	other, _ := env.svc.Create(ctx, 3, CreateReservationRequest{EventID: 10})
	if _, err := env.svc.Confirm(ctx, 1, other.ID); err != nil {
		t.Fatalf("Confirm on freed seat failed: %v", err)
	}
}

func TestTicketNumberStableAcrossTransitions(t *testing.T) {
	env := newTestEnv()
	env.publishedEvent(10, 0)
	ctx := context.Background()

	res, err := env.svc.Create(ctx, 2, CreateReservationRequest{EventID: 10})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	number := res.TicketNumber

	confirmed, err := env.svc.Confirm(ctx, 1, res.ID)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if confirmed.TicketNumber != number {
		t.Errorf("ticket number after confirm = %s, want %s", confirmed.TicketNumber, number)
	}

	canceled, err := env.svc.Cancel(ctx, 1, res.ID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if canceled.TicketNumber != number {
		t.Errorf("ticket number after cancel = %s, want %s", canceled.TicketNumber, number)
	}

	stored, _ := env.repo.GetByID(res.ID)
	if stored.TicketNumber != number {
		t.Errorf("stored ticket number = %s, want %s", stored.TicketNumber, number)
	}
}

func TestCancelPendingKeepsCounter(t *testing.T) {
	env := newTestEnv()
	env.publishedEvent(10, 0)
	ctx := context.Background()

	res, _ := env.svc.Create(ctx, 2, CreateReservationRequest{EventID: 10})
	canceled, err := env.svc.Cancel(ctx, 1, res.ID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if canceled.Status != StatusCanceled {
		t.Errorf("status = %s, want %s", canceled.Status, StatusCanceled)
	}

	// No seat was claimed, so none is released
	if got := env.store.events[10].Participants; got != 0 {
		t.Errorf("participants = %d, want 0 after pending cancel", got)
	}
}

func TestCancelTerminalReservation(t *testing.T) {
	env := newTestEnv()
	env.publishedEvent(10, 0)
	ctx := context.Background()

	res, _ := env.svc.Create(ctx, 2, CreateReservationRequest{EventID: 10})
	if _, err := env.svc.Cancel(ctx, 1, res.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	_, err := env.svc.Cancel(ctx, 1, res.ID)
	if !errors.Is(err, ErrAlreadyTerminal) {
		t.Fatalf("err = %v, want ErrAlreadyTerminal", err)
	}
}

func TestCancelByUserOwnershipMasked(t *testing.T) {
	env := newTestEnv()
	env.publishedEvent(10, 0)
	ctx := context.Background()

	res, _ := env.svc.Create(ctx, 2, CreateReservationRequest{EventID: 10})

	_, err := env.svc.CancelByUser(ctx, 3, res.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for foreign reservation", err)
	}
}

func TestGetTicket(t *testing.T) {
	env := newTestEnv()
	env.publishedEvent(10, 0)
	ctx := context.Background()

	res, _ := env.svc.Create(ctx, 2, CreateReservationRequest{EventID: 10})

	// Not confirmed yet
	if _, err := env.svc.GetTicket(ctx, 2, false, res.ID); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("err = %v, want ErrNotConfirmed", err)
	}

	if _, err := env.svc.Confirm(ctx, 1, res.ID); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	pdf, err := env.svc.GetTicket(ctx, 2, false, res.ID)
	if err != nil {
		t.Fatalf("GetTicket failed: %v", err)
	}
	if len(pdf) == 0 {
		t.Error("ticket PDF is empty")
	}

	// Another participant must not see it, an admin may
	if _, err := env.svc.GetTicket(ctx, 3, false, res.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for foreign ticket", err)
	}
	if _, err := env.svc.GetTicket(ctx, 1, true, res.ID); err != nil {
		t.Fatalf("admin GetTicket failed: %v", err)
	}
}

func TestLifecycleNotifications(t *testing.T) {
	env := newTestEnv()
	env.publishedEvent(10, 0)
	ctx := context.Background()

	res, _ := env.svc.Create(ctx, 2, CreateReservationRequest{EventID: 10})
	if _, err := env.svc.Cancel(ctx, 1, res.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	other, _ := env.svc.Create(ctx, 3, CreateReservationRequest{EventID: 10})
	if _, err := env.svc.Reject(ctx, 1, other.ID); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}

	want := []string{NotifyPending, NotifyCanceled, NotifyPending, NotifyRejected}
	if len(env.notifier.dispatched) != len(want) {
		t.Fatalf("dispatched %d notifications, want %d: %v", len(env.notifier.dispatched), len(want), env.notifier.dispatched)
	}
	for i, kind := range want {
		if env.notifier.dispatched[i] != kind {
			t.Errorf("dispatched[%d] = %s, want %s", i, env.notifier.dispatched[i], kind)
		}
	}
}

func TestCountByStatus(t *testing.T) {
	env := newTestEnv()
	env.publishedEvent(10, 0)
	ctx := context.Background()

	a, _ := env.svc.Create(ctx, 2, CreateReservationRequest{EventID: 10})
	b, _ := env.svc.Create(ctx, 3, CreateReservationRequest{EventID: 10})
	env.svc.Confirm(ctx, 1, a.ID)
	env.svc.Reject(ctx, 1, b.ID)

	counts, err := env.svc.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus failed: %v", err)
	}
	if counts.Total != 2 || counts.Confirmed != 1 || counts.Rejected != 1 || counts.Pending != 0 {
		t.Errorf("unexpected counts: %+v", counts)
	}
}
