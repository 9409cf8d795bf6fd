package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dylandaniels6/dillysdally/internal/adapters/handler/http/middleware"
	"github.com/dylandaniels6/dillysdally/internal/core/domain"
	"github.com/dylandaniels6/dillysdally/internal/core/services"
)

// defaultJournalWindowDays is how far back the journal list reaches when
// the caller gives no explicit range.
const defaultJournalWindowDays = 30

type JournalHandler struct {
	svc *services.JournalService
}

func NewJournalHandler(svc *services.JournalService) *JournalHandler {
	return &JournalHandler{
		svc: svc,
	}
}

type createEntryRequest struct {
	Date    string `json:"date" binding:"required"`
	Mood    string `json:"mood"`
	Content string `json:"content"`
}

type updateEntryRequest struct {
	Mood    string `json:"mood"`
	Content string `json:"content"`
	Version int    `json:"version"`
}

func (h *JournalHandler) RegisterRoutes(router *gin.RouterGroup) {
	journal := router.Group("/journal")
	{
		journal.POST("", h.Create)
		journal.GET("", h.List)
		journal.GET("/:date", h.GetByDate)
		journal.PUT("/:id", h.Update)
		journal.DELETE("/:id", h.Delete)
	}
}

func (h *JournalHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req createEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := domain.ParseDay(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return
	}

	input := services.CreateEntryInput{
		UserID:  userID,
		Date:    date,
		Mood:    req.Mood,
		Content: req.Content,
	}

	record, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateDate):
			c.JSON(http.StatusConflict, gin.H{"error": "a record already exists for this date"})
		case errors.Is(err, domain.ErrInvalidMood), errors.Is(err, domain.ErrContentTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *JournalHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	to := domain.Today()
	from := to.AddDays(-(defaultJournalWindowDays - 1))

	if s := c.Query("to"); s != "" {
		var err error
		to, err = domain.ParseDay(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected YYYY-MM-DD"})
			return
		}
		from = to.AddDays(-(defaultJournalWindowDays - 1))
	}
	if s := c.Query("from"); s != "" {
		var err error
		from, err = domain.ParseDay(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
			return
		}
	}

	if from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from cannot be after to"})
		return
	}

	records, err := h.svc.ListRange(c.Request.Context(), userID, from, to)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *JournalHandler) GetByDate(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	date, err := domain.ParseDay(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return
	}

	record, err := h.svc.GetByDate(c.Request.Context(), userID, date)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *JournalHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req updateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.UpdateEntryInput{
		ID:      c.Param("id"),
		UserID:  userID,
		Mood:    req.Mood,
		Content: req.Content,
		Version: req.Version,
	}

	record, err := h.svc.Update(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		case errors.Is(err, domain.ErrRecordConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "record was modified elsewhere, retry"})
		case errors.Is(err, domain.ErrInvalidMood), errors.Is(err, domain.ErrContentTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *JournalHandler) Delete(c *gin.Context) {
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
