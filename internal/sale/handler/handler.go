package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/warekit/rfid-scan-service/internal/sale"
)

type SaleHandler struct {
	uc     sale.UseCase
	logger *zap.Logger
}

func NewSaleHandler(uc sale.UseCase, log *zap.Logger) *SaleHandler {
	return &SaleHandler{
		uc:     uc,
		logger: log,
	}
}

// Create opens a new draft bill. POST /sales/create
func (h *SaleHandler) Create(c *gin.Context) {
	bill, err := h.uc.CreateDraft(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to create draft bill", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, bill)
}

// List returns all bills with derived totals. GET /sales
func (h *SaleHandler) List(c *gin.Context) {
	bills, err := h.uc.ListBills(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list bills", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, bills)
}

// Get returns one bill with its item groups. GET /sales/:id
func (h *SaleHandler) Get(c *gin.Context) {
	bill, err := h.uc.GetBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bill)
}

// Checkout closes a draft bill, fixing its totals. POST /sales/:id/checkout
func (h *SaleHandler) Checkout(c *gin.Context) {
	bill, err := h.uc.Checkout(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bill)
}
