package event

import (
	"context"
	"errors"
	"time"

	"github.com/Mo7amed-Boukab/eventia-backend/internal/auditlog"
)

var validCategories = map[string]bool{
	CategoryFormation:  true,
	CategoryWorkshop:   true,
	CategoryConference: true,
	CategoryNetworking: true,
}

type Service interface {
	CreateEvent(ctx context.Context, req *CreateEventRequest, userID uint) (*Event, error)
	UpdateEvent(ctx context.Context, id uint, req *UpdateEventRequest, userID uint) (*Event, error)
	UpdateStatus(ctx context.Context, id uint, status string, userID uint) (*Event, error)
	GetEventByID(ctx context.Context, id uint) (*Event, error)
	ListPublished(ctx context.Context) ([]Event, error)
	ListWithFilters(ctx context.Context, filter EventFilter) ([]Event, int64, error)
	GetStatusCounts(ctx context.Context) (StatusCounts, error)
}

type service struct {
	repo     Repository
	cache    *Cache
	auditSvc auditlog.Service
}

func NewService(repo Repository, cache *Cache, auditSvc auditlog.Service) Service {
	return &service{repo: repo, cache: cache, auditSvc: auditSvc}
}

func (s *service) CreateEvent(ctx context.Context, req *CreateEventRequest, userID uint) (*Event, error) {
	if !validCategories[req.Category] {
		return nil, errors.New("invalid category. Must be FORMATION, WORKSHOP, CONFERENCE or NETWORKING")
	}
	if req.Price < 0 {
		return nil, errors.New("price must be >= 0")
	}
	if req.MaxParticipants < 0 {
		return nil, errors.New("max_participants must be >= 0")
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, errors.New("date must be in YYYY-MM-DD format")
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		return nil, errors.New("time must be in HH:mm format")
	}

	event := &Event{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Date:            req.Date,
		Time:            req.Time,
		Location:        req.Location,
		Price:           req.Price,
		Image:           req.Image,
		Status:          StatusDraft,
		Participants:    0,
		MaxParticipants: req.MaxParticipants,
		CreatedBy:       userID,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		_ = s.auditSvc.LogAction(ctx, &userID, "EVENT_CREATE_FAILED", map[string]interface{}{
			"title": req.Title,
			"error": err.Error(),
		}, "failure")
		return nil, err
	}

	_ = s.auditSvc.LogAction(ctx, &userID, "EVENT_CREATED", map[string]interface{}{
		"event_id": event.ID,
		"title":    event.Title,
		"category": event.Category,
		"price":    event.Price,
	}, "success")

	s.cache.Invalidate(ctx)
	return event, nil
}

func (s *service) UpdateEvent(ctx context.Context, id uint, req *UpdateEventRequest, userID uint) (*Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !validCategories[req.Category] {
		return nil, errors.New("invalid category. Must be FORMATION, WORKSHOP, CONFERENCE or NETWORKING")
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, errors.New("date must be in YYYY-MM-DD format")
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		return nil, errors.New("time must be in HH:mm format")
	}

	event.Title = req.Title
	event.Description = req.Description
	event.Category = req.Category
	event.Date = req.Date
	event.Time = req.Time
	event.Location = req.Location
	if req.Image != "" {
		event.Image = req.Image
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, errors.New("price must be >= 0")
		}
		event.Price = *req.Price
	}
	if req.MaxParticipants != nil {
		if *req.MaxParticipants < 0 {
			return nil, errors.New("max_participants must be >= 0")
		}
		event.MaxParticipants = *req.MaxParticipants
	}

	if err := s.repo.Update(ctx, event); err != nil {
		_ = s.auditSvc.LogAction(ctx, &userID, "EVENT_UPDATE_FAILED", map[string]interface{}{
			"event_id": id,
			"error":    err.Error(),
		}, "failure")
		return nil, err
	}

	_ = s.auditSvc.LogAction(ctx, &userID, "EVENT_UPDATED", map[string]interface{}{
		"event_id": event.ID,
		"title":    event.Title,
	}, "success")

	s.cache.Invalidate(ctx)
	return event, nil
}

// UpdateStatus handles publish/cancel transitions. DRAFT is never re-entered.
func (s *service) UpdateStatus(ctx context.Context, id uint, status string, userID uint) (*Event, error) {
	if status != StatusPublished && status != StatusCanceled {
		return nil, errors.New("status must be PUBLISHED or CANCELED")
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status == status {
		return event, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		_ = s.auditSvc.LogAction(ctx, &userID, "EVENT_STATUS_UPDATE_FAILED", map[string]interface{}{
			"event_id":   id,
			"new_status": status,
			"error":      err.Error(),
		}, "failure")
		return nil, err
	}

	_ = s.auditSvc.LogAction(ctx, &userID, "EVENT_STATUS_UPDATED", map[string]interface{}{
		"event_id":   id,
		"old_status": event.Status,
		"new_status": status,
	}, "success")

	event.Status = status
	s.cache.Invalidate(ctx)
	return event, nil
}

func (s *service) GetEventByID(ctx context.Context, id uint) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

// ListPublished serves the public catalog, cached in Redis.
func (s *service) ListPublished(ctx context.Context) ([]Event, error) {
	if events, ok := s.cache.GetPublished(ctx); ok {
		return events, nil
	}

	events, err := s.repo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.SetPublished(ctx, events)
	return events, nil
}

func (s *service) ListWithFilters(ctx context.Context, filter EventFilter) ([]Event, int64, error) {
	return s.repo.ListWithFilters(ctx, filter)
}

func (s *service) GetStatusCounts(ctx context.Context) (StatusCounts, error) {
	return s.repo.CountByStatus(ctx)
}
