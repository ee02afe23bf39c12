package reports

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{Service: s}
}

// GetDashboardStats - GET /admin/stats (admin)
func (h *Handler) GetDashboardStats(c *gin.Context) {
	stats, err := h.Service.GetDashboardStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportReservations - GET /admin/reports/reservations (admin)
func (h *Handler) ExportReservations(c *gin.Context) {
	format := c.DefaultQuery("format", FormatCSV)
	if format != FormatCSV && format != FormatExcel && format != FormatPDF {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv, excel or pdf"})
		return
	}

	filter := ReservationReportFilter{
		Status:   c.Query("status"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	}
	if v, err := strconv.Atoi(c.DefaultQuery("event_id", "0")); err == nil {
		filter.EventID = uint(v)
	}

	data, filename, contentType, err := h.Service.ExportReservations(c.Request.Context(), format, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not export reservations"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, data)
}
