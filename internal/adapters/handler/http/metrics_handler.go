package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dylandaniels6/dillysdally/internal/adapters/handler/http/middleware"
	"github.com/dylandaniels6/dillysdally/internal/core/domain"
	"github.com/dylandaniels6/dillysdally/internal/core/services"
)

type MetricsHandler struct {
	svc *services.MetricsService
}

func NewMetricsHandler(svc *services.MetricsService) *MetricsHandler {
	return &MetricsHandler{
		svc: svc,
	}
}

func (h *MetricsHandler) RegisterRoutes(router *gin.RouterGroup) {
	metrics := router.Group("/metrics")
	{
		metrics.GET("", h.Overview)
		metrics.GET("/series", h.Series)
	}
}

// queryKind defaults to expense, the dashboard's primary view.
func queryKind(c *gin.Context) (domain.RecordKind, bool) {
	s := c.Query("kind")
	if s == "" {
		return domain.KindExpense, true
	}
	kind := domain.RecordKind(s)
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid kind"})
		return "", false
	}
	return kind, true
}

// queryNow resolves the anchor day for range math: an explicit date query
// parameter, or today. Resolving it once per request keeps boundary
// membership stable for the whole computation.
func queryNow(c *gin.Context) (domain.Day, bool) {
	s := c.Query("date")
	if s == "" {
		return domain.Today(), true
	}
	day, err := domain.ParseDay(s)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return domain.Day{}, false
	}
	return day, true
}

func (h *MetricsHandler) Overview(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	kind, ok := queryKind(c)
	if !ok {
		return
	}

	sel, err := domain.ParseRangeSelector(c.Query("range"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid range selector"})
		return
	}

	now, ok := queryNow(c)
	if !ok {
		return
	}

	var filters domain.MetricFilters

	if cats := c.Query("categories"); cats != "" {
		for _, cat := range strings.Split(cats, ",") {
			if cat = strings.TrimSpace(cat); cat != "" {
				filters.Categories = append(filters.Categories, cat)
			}
		}
	}

	if s := c.Query("min_amount"); s != "" {
		v, err := decimal.NewFromString(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_amount"})
			return
		}
		filters.MinAmount = &v
	}
	if s := c.Query("max_amount"); s != "" {
		v, err := decimal.NewFromString(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_amount"})
			return
		}
		filters.MaxAmount = &v
	}

	filters.Search = c.Query("q")

	metrics, err := h.svc.Overview(c.Request.Context(), userID, kind, sel, filters, now)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute metrics"})
		return
	}

	if s := c.Query("top"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid top value"})
			return
		}
		if n < len(metrics.Categories) {
			metrics.Categories = metrics.Categories[:n]
		}
	}

	c.JSON(http.StatusOK, metrics)
}

func (h *MetricsHandler) Series(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	kind, ok := queryKind(c)
	if !ok {
		return
	}

	sel, err := domain.ParseRangeSelector(c.Query("range"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid range selector"})
		return
	}

	now, ok := queryNow(c)
	if !ok {
		return
	}

	buckets, err := h.svc.Series(c.Request.Context(), userID, kind, sel, now)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute series"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"range":   sel,
		"buckets": buckets,
	})
}
