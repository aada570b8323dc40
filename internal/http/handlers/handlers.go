package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/officeboard/backend/internal/clock"
	"github.com/officeboard/backend/internal/service"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Store     Pinger
	Agenda    *service.AgendaService
	Brokers   *service.BrokerStatusService
	Boards    *service.BoardRegistry
	Clock     clock.Clock
	Validator *validator.Validate
	Logger    zerolog.Logger
}

type agendaQuery struct {
	Date string `form:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// referenceTime returns the clock time, moved to the requested date when one is given.
func (h *Handler) referenceTime(c *gin.Context) (time.Time, agendaQuery, bool) {
	var q agendaQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_QUERY", "Invalid query", err.Error())
		return time.Time{}, q, false
	}
	if err := h.Validator.Struct(q); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_QUERY", "date must be YYYY-MM-DD", err.Error())
		return time.Time{}, q, false
	}

	now := h.Clock.Now()
	if q.Date == "" {
		return now, q, true
	}
	day, err := time.ParseInLocation(time.DateOnly, q.Date, now.Location())
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_QUERY", "date must be YYYY-MM-DD", err.Error())
		return time.Time{}, q, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), now.Second(), 0, now.Location()), q, true
}

func (h *Handler) fetchFailed(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTenantRequired):
		writeError(c, http.StatusBadRequest, "TENANT_REQUIRED", "Tenant is required", nil)
	case errors.Is(err, context.DeadlineExceeded):
		writeError(c, http.StatusGatewayTimeout, "TIMEOUT", "Agenda fetch timed out", nil)
	case errors.Is(err, context.Canceled):
		writeError(c, http.StatusServiceUnavailable, "CANCELLED", "Request cancelled", nil)
	default:
		h.Logger.Error().Err(err).Msg("agenda fetch failed")
		writeError(c, http.StatusInternalServerError, "INTERNAL", "Agenda unavailable", nil)
	}
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
