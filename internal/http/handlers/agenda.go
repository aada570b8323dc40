package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/officeboard/backend/internal/http/middleware"
	"github.com/officeboard/backend/internal/ics"
	"github.com/officeboard/backend/internal/service"
	"github.com/officeboard/backend/internal/utils"
)

// @Summary Agenda
// @Description Today and week timelines, corporate agenda and per-source state
// @Tags agenda
// @Produce json
// @Param X-Tenant-Id header string true "Tenant"
// @Param date query string false "Reference day (YYYY-MM-DD)"
// @Success 200 {object} service.Agenda
// @Router /api/agenda [get]
func (h *Handler) AgendaView(c *gin.Context) {
	now, _, ok := h.referenceTime(c)
	if !ok {
		return
	}
	snap, err := h.Agenda.Fetch(c.Request.Context(), middleware.TenantID(c), now)
	if err != nil {
		h.fetchFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Agenda.Build(snap, now))
}

// @Summary Broker statuses
// @Tags brokers
// @Produce json
// @Param X-Tenant-Id header string true "Tenant"
// @Success 200 {object} map[string]any
// @Router /api/brokers/status [get]
func (h *Handler) BrokerStatuses(c *gin.Context) {
	now, _, ok := h.referenceTime(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	tenantID := middleware.TenantID(c)

	brokers, directory, err := h.Agenda.FetchBrokers(ctx, tenantID)
	if err != nil {
		h.fetchFailed(c, err)
		return
	}
	statuses, status, err := h.Brokers.Statuses(ctx, tenantID, brokers, now)
	if err != nil {
		h.fetchFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":   statuses,
		"brokers": directory,
		"tasks":   status,
	})
}

// @Summary Dashboard
// @Description Agenda merged with broker statuses; served from the live board when one runs for the tenant, with sources still loading flagged as such
// @Tags agenda
// @Produce json
// @Param X-Tenant-Id header string true "Tenant"
// @Param date query string false "Reference day (YYYY-MM-DD)"
// @Success 200 {object} service.Dashboard
// @Success 304
// @Router /api/dashboard [get]
func (h *Handler) Dashboard(c *gin.Context) {
	now, q, ok := h.referenceTime(c)
	if !ok {
		return
	}
	tenantID := middleware.TenantID(c)

	var dash *service.Dashboard
	if board, found := h.Boards.Get(tenantID); found && q.Date == "" {
		var published bool
		if dash, published = board.State(); !published {
			loading := board.Loading()
			dash = &loading
		}
	}
	if dash == nil {
		ctx := c.Request.Context()
		snap, err := h.Agenda.Fetch(ctx, tenantID, now)
		if err != nil {
			h.fetchFailed(c, err)
			return
		}
		statuses, status, err := h.Brokers.Statuses(ctx, tenantID, snap.Brokers, now)
		if err != nil {
			h.fetchFailed(c, err)
			return
		}
		composed := service.ComposeDashboard(h.Agenda.Build(snap, now), statuses, status)
		dash = &composed
	}

	body, err := json.Marshal(dash)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "INTERNAL", "Failed to encode dashboard", nil)
		return
	}
	etag := utils.WeakETag(body)
	c.Header("ETag", etag)
	c.Header("Cache-Control", "no-cache")
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// @Summary Week agenda as iCalendar
// @Tags agenda
// @Produce text/calendar
// @Param X-Tenant-Id header string true "Tenant"
// @Param date query string false "Reference day (YYYY-MM-DD)"
// @Success 200 {string} string
// @Router /api/agenda/week.ics [get]
func (h *Handler) WeekICS(c *gin.Context) {
	now, _, ok := h.referenceTime(c)
	if !ok {
		return
	}
	tenantID := middleware.TenantID(c)
	snap, err := h.Agenda.Fetch(c.Request.Context(), tenantID, now)
	if err != nil {
		h.fetchFailed(c, err)
		return
	}
	agenda := h.Agenda.Build(snap, now)
	body := ics.WeekCalendar(tenantID, agenda.Week.Slots, now)
	c.Header("Content-Disposition", `inline; filename="week.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
