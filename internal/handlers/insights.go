package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/katherineChen0/crosscoach/backend/internal/apierror"
	"github.com/katherineChen0/crosscoach/backend/internal/logger"
	"github.com/katherineChen0/crosscoach/backend/internal/models"
	"github.com/katherineChen0/crosscoach/backend/internal/service"
)

// InsightsHandler handles insight-related HTTP requests
type InsightsHandler struct {
	analysisService service.AnalysisService
	defaultOpts     service.AnalysisOptions
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(analysisService service.AnalysisService, defaultOpts service.AnalysisOptions) *InsightsHandler {
	return &InsightsHandler{
		analysisService: analysisService,
		defaultOpts:     defaultOpts,
	}
}

// GetInsights returns the stored insight set for the acting user
// GET /api/v1/insights
func (h *InsightsHandler) GetInsights(c *gin.Context) {
	userID := c.GetString("user_id")
	requestID := apierror.GetRequestID(c)

	insights, err := h.analysisService.GetInsights(c.Request.Context(), userID)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to get insights", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	c.JSON(http.StatusOK, models.InsightsResponse{
		Insights: insights,
		Count:    len(insights),
	})
}

// RefreshInsights recomputes the acting user's insight set and returns
// the run report. An optional lookback_days query parameter narrows the
// analysis window for this run only.
// POST /api/v1/insights/refresh
func (h *InsightsHandler) RefreshInsights(c *gin.Context) {
	userID := c.GetString("user_id")
	requestID := apierror.GetRequestID(c)

	opts := h.defaultOpts
	if raw := c.Query("lookback_days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
				{Field: "lookback_days", Message: "must be a non-negative integer", Code: "invalid"},
			}))
			return
		}
		opts.LookbackDays = days
	}

	report, err := h.analysisService.RunForUser(c.Request.Context(), userID, opts)
	if err != nil {
		if errors.Is(err, service.ErrNoData) {
			apierror.WriteProblem(c, apierror.NewNoDataError(requestID))
			return
		}
		logger.Ctx(c.Request.Context()).Error("failed to refresh insights", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	c.JSON(http.StatusOK, report)
}
