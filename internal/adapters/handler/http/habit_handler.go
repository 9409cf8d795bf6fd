package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dylandaniels6/dillysdally/internal/adapters/handler/http/middleware"
	"github.com/dylandaniels6/dillysdally/internal/core/domain"
	"github.com/dylandaniels6/dillysdally/internal/core/services"
)

type HabitHandler struct {
	svc *services.HabitService
}

func NewHabitHandler(svc *services.HabitService) *HabitHandler {
	return &HabitHandler{
		svc: svc,
	}
}

type toggleHabitRequest struct {
	Date string `json:"date" binding:"required"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.POST("/:habit/toggle", h.Toggle)
		habits.GET("/streaks", h.Streaks)
	}
}

func (h *HabitHandler) Toggle(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req toggleHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := domain.ParseDay(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return
	}

	record, err := h.svc.Toggle(c.Request.Context(), userID, domain.HabitID(c.Param("habit")), date)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownHabit):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown habit"})
		case errors.Is(err, domain.ErrRecordConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "record was modified elsewhere, retry"})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *HabitHandler) Streaks(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var referenceDate domain.Day
	if dateStr := c.Query("date"); dateStr != "" {
		var err error
		referenceDate, err = domain.ParseDay(dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
			return
		}
	} else {
		referenceDate = domain.Today()
	}

	streaks, err := h.svc.Streaks(c.Request.Context(), userID, referenceDate)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reference_date": referenceDate,
		"streaks":        streaks,
	})
}
