package reservation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Mo7amed-Boukab/eventia-backend/internal/auth"
	"github.com/Mo7amed-Boukab/eventia-backend/middleware"
)

type Handler struct {
	Service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{Service: s}
}

// CreateReservation - POST /reservations (participant)
func (h *Handler) CreateReservation(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	res, err := h.Service.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		respondReservationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// ListReservations - GET /reservations (admin)
func (h *Handler) ListReservations(c *gin.Context) {
	filter := ReservationFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}
	if v, err := strconv.Atoi(c.DefaultQuery("event_id", "0")); err == nil {
		filter.EventID = uint(v)
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.Service.FindAll(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list reservations"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListMyReservations - GET /reservations/me (participant)
func (h *Handler) ListMyReservations(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	rows, err := h.Service.FindByUser(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list reservations"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ConfirmReservation - PATCH /reservations/:id/confirm (admin)
func (h *Handler) ConfirmReservation(c *gin.Context) {
	h.transition(c, h.Service.Confirm)
}

// RejectReservation - PATCH /reservations/:id/reject (admin)
func (h *Handler) RejectReservation(c *gin.Context) {
	h.transition(c, h.Service.Reject)
}

// CancelReservation - PATCH /reservations/:id/cancel (admin)
func (h *Handler) CancelReservation(c *gin.Context) {
	h.transition(c, h.Service.Cancel)
}

// CancelMyReservation - DELETE /reservations/:id (participant self-cancel)
func (h *Handler) CancelMyReservation(c *gin.Context) {
	h.transition(c, h.Service.CancelByUser)
}

func (h *Handler) transition(c *gin.Context, op func(ctx context.Context, actorID, id uint) (*Reservation, error)) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation ID"})
		return
	}

	res, err := op(c.Request.Context(), user.ID, uint(id))
	if err != nil {
		respondReservationError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetTicket - GET /reservations/:id/ticket
func (h *Handler) GetTicket(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation ID"})
		return
	}

	pdf, err := h.Service.GetTicket(c.Request.Context(), user.ID, user.Role == auth.RoleAdmin, uint(id))
	if err != nil {
		respondReservationError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=ticket_%d.pdf", id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func respondReservationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrEventNotOpen),
		errors.Is(err, ErrEventFull),
		errors.Is(err, ErrAlreadyBooked),
		errors.Is(err, ErrNotPending),
		errors.Is(err, ErrAlreadyTerminal),
		errors.Is(err, ErrNotConfirmed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
