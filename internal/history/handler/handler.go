package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/warekit/rfid-scan-service/internal/history"
	"github.com/warekit/rfid-scan-service/internal/history/dto"
)

type HistoryHandler struct {
	uc     history.UseCase
	logger *zap.Logger
}

func NewHistoryHandler(uc history.UseCase, log *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		uc:     uc,
		logger: log,
	}
}

// List returns history rows, newest first.
// GET /rfid-events/history?uid=&action=&date=&page=&page_size=
func (h *HistoryHandler) List(c *gin.Context) {
	filters := &dto.EventFilters{
		UID:    c.Query("uid"),
		Action: c.Query("action"),
	}

	if raw := c.Query("date"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		filters.Date = &day
	}
	if raw := c.Query("page"); raw != "" {
		filters.Page, _ = strconv.Atoi(raw)
	}
	if raw := c.Query("page_size"); raw != "" {
		filters.PageSize, _ = strconv.Atoi(raw)
	}
	if filters.Page < 1 {
		filters.Page = 1
	}

	events, count, err := h.uc.ListEvents(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list tag events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": events, "total": count})
}

// ReplayOrder reconstructs a purchase order's scanned total from the history
// alone. GET /rfid-events/replay/orders/:poId
func (h *HistoryHandler) ReplayOrder(c *gin.Context) {
	count, err := h.uc.ReplayStoreProgress(c.Request.Context(), c.Param("poId"))
	if err != nil {
		h.logger.Error("failed to replay order history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"scanned": count})
}

// ReplayBill reconstructs a bill's quantity and money total from the history
// alone. GET /rfid-events/replay/bills/:id
func (h *HistoryHandler) ReplayBill(c *gin.Context) {
	qty, total, err := h.uc.ReplaySellTotals(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("failed to replay bill history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"qty": qty, "totalPrice": total})
}
