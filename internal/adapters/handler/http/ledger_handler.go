package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dylandaniels6/dillysdally/internal/adapters/handler/http/middleware"
	"github.com/dylandaniels6/dillysdally/internal/core/domain"
	"github.com/dylandaniels6/dillysdally/internal/core/services"
)

type LedgerHandler struct {
	svc *services.LedgerService
}

func NewLedgerHandler(svc *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		svc: svc,
	}
}

type createRecordRequest struct {
	Kind        string          `json:"kind" binding:"required"`
	Date        string          `json:"date" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

type updateRecordRequest struct {
	Date        string          `json:"date" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Version     int             `json:"version"`
}

func (h *LedgerHandler) RegisterRoutes(router *gin.RouterGroup) {
	records := router.Group("/records")
	{
		records.POST("", h.Create)
		records.GET("", h.List)
		records.PUT("/:id", h.Update)
		records.DELETE("/:id", h.Delete)
	}
}

func (h *LedgerHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req createRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := domain.ParseDay(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return
	}

	input := services.CreateRecordInput{
		UserID:      userID,
		Kind:        domain.RecordKind(req.Kind),
		Date:        date,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
	}

	record, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidKind),
			errors.Is(err, domain.ErrCategoryTooLong),
			errors.Is(err, domain.ErrDescriptionTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *LedgerHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	kind := domain.RecordKind(c.Query("kind"))

	records, err := h.svc.List(c.Request.Context(), userID, kind)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidKind) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid kind"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *LedgerHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req updateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := domain.ParseDay(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return
	}

	input := services.UpdateRecordInput{
		ID:          c.Param("id"),
		UserID:      userID,
		Date:        date,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Version:     req.Version,
	}

	record, err := h.svc.Update(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		case errors.Is(err, domain.ErrRecordConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "record was modified elsewhere, retry"})
		case errors.Is(err, domain.ErrCategoryTooLong), errors.Is(err, domain.ErrDescriptionTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *LedgerHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}
