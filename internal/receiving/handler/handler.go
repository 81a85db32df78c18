package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/warekit/rfid-scan-service/internal/receiving"
)

type ReceivingHandler struct {
	uc     receiving.UseCase
	logger *zap.Logger
}

func NewReceivingHandler(uc receiving.UseCase, log *zap.Logger) *ReceivingHandler {
	return &ReceivingHandler{
		uc:     uc,
		logger: log,
	}
}

// ListPending returns purchase orders that still have untagged quantity.
// GET /scanrfid
func (h *ReceivingHandler) ListPending(c *gin.Context) {
	orders, err := h.uc.ListPendingOrders(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list pending orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder returns one purchase order with per-line scan progress.
// GET /scanrfid/:poId
func (h *ReceivingHandler) GetOrder(c *gin.Context) {
	po, err := h.uc.GetOrderDetail(c.Request.Context(), c.Param("poId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, po)
}

// LineStatus reports associated/expected for one receiving line.
// GET /scanrfid/:poId/status/:itemId
func (h *ReceivingHandler) LineStatus(c *gin.Context) {
	progress, err := h.uc.LineProgress(c.Request.Context(), c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, progress)
}
