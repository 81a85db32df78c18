package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/warekit/rfid-scan-service/internal/model"
	"github.com/warekit/rfid-scan-service/internal/session"
	"github.com/warekit/rfid-scan-service/internal/session/dto"
)

type SessionHandler struct {
	uc     session.UseCase
	logger *zap.Logger
}

func NewSessionHandler(uc session.UseCase, log *zap.Logger) *SessionHandler {
	return &SessionHandler{
		uc:     uc,
		logger: log,
	}
}

// StartReceive claims the scan slot for one receiving line of a purchase
// order. POST /scanrfid/:poId/start/:itemId
func (h *SessionHandler) StartReceive(c *gin.Context) {
	handle, err := h.uc.Start(c.Request.Context(), model.ModeReceive, c.Param("poId"), c.Param("itemId"))
	if err != nil {
		h.abortStartError(c, err)
		return
	}
	c.JSON(http.StatusOK, handle)
}

// StopReceive releases the slot held for a purchase order.
// POST /scanrfid/:poId/stop
func (h *SessionHandler) StopReceive(c *gin.Context) {
	var input dto.StopSessionInput
	_ = c.ShouldBindJSON(&input) // body is optional

	var stopped bool
	if input.Version > 0 {
		stopped = h.uc.Stop(c.Request.Context(), input.Version)
	} else {
		stopped = h.uc.StopTarget(c.Request.Context(), c.Param("poId"))
	}
	c.JSON(http.StatusOK, gin.H{"stopped": stopped})
}

// StartSell claims the scan slot for a draft bill. POST /sales/:id/start-sell
func (h *SessionHandler) StartSell(c *gin.Context) {
	handle, err := h.uc.Start(c.Request.Context(), model.ModeSell, c.Param("id"), "")
	if err != nil {
		h.abortStartError(c, err)
		return
	}
	c.JSON(http.StatusOK, handle)
}

// StopSell releases the slot of the active sell session, whichever bill it
// targets. POST /sales/stop-sell
func (h *SessionHandler) StopSell(c *gin.Context) {
	var input dto.StopSessionInput
	_ = c.ShouldBindJSON(&input)

	if input.Version > 0 {
		c.JSON(http.StatusOK, gin.H{"stopped": h.uc.Stop(c.Request.Context(), input.Version)})
		return
	}

	active := h.uc.Active()
	if active == nil || active.Mode != model.ModeSell {
		c.JSON(http.StatusOK, gin.H{"stopped": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stopped": h.uc.Stop(c.Request.Context(), active.Version)})
}

// Active returns a snapshot of the current session. GET /sessions/active
func (h *SessionHandler) Active(c *gin.Context) {
	active := h.uc.Active()
	if active == nil {
		c.JSON(http.StatusOK, gin.H{"active": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": true, "session": active})
}

func (h *SessionHandler) abortStartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrSessionBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrTargetNotEligible):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrTargetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("failed to start session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
