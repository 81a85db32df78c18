package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/warekit/rfid-scan-service/internal/tag"
	"github.com/warekit/rfid-scan-service/internal/tag/dto"
)

type TagHandler struct {
	uc     tag.UseCase
	logger *zap.Logger
}

func NewTagHandler(uc tag.UseCase, log *zap.Logger) *TagHandler {
	return &TagHandler{
		uc:     uc,
		logger: log,
	}
}

// List returns registry rows. GET /tags?status=&product_id=&page=&page_size=
func (h *TagHandler) List(c *gin.Context) {
	filters := &dto.TagFilters{
		Status:    c.Query("status"),
		ProductID: c.Query("product_id"),
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

	tags, count, err := h.uc.ListTags(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list tags", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": tags, "total": count})
}

// Get returns one tag. GET /tags/:uid
func (h *TagHandler) Get(c *gin.Context) {
	t, err := h.uc.GetTag(c.Request.Context(), c.Param("uid"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, t)
}

// Register pre-registers a blank tag. POST /tags
func (h *TagHandler) Register(c *gin.Context) {
	var input dto.RegisterTagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.uc.RegisterTag(c.Request.Context(), &input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, t)
}

// MarkLost flags a tag as lost. POST /tags/:uid/lost
func (h *TagHandler) MarkLost(c *gin.Context) {
	if err := h.uc.MarkLost(c.Request.Context(), c.Param("uid")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Deactivate retires a tag. POST /tags/:uid/deactivate
func (h *TagHandler) Deactivate(c *gin.Context) {
	if err := h.uc.Deactivate(c.Request.Context(), c.Param("uid")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
