package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/katherineChen0/crosscoach/backend/internal/apierror"
	"github.com/katherineChen0/crosscoach/backend/internal/logger"
	"github.com/katherineChen0/crosscoach/backend/internal/models"
	"github.com/katherineChen0/crosscoach/backend/internal/service"
)

// LogsHandler handles log point and journal HTTP requests
type LogsHandler struct {
	logService     service.LogService
	summaryService service.SummaryService
}

// NewLogsHandler creates a new logs handler
func NewLogsHandler(logService service.LogService, summaryService service.SummaryService) *LogsHandler {
	return &LogsHandler{
		logService:     logService,
		summaryService: summaryService,
	}
}

// CreateLogPoint handles POST /api/v1/logs
func (h *LogsHandler) CreateLogPoint(c *gin.Context) {
	userID := c.GetString("user_id")
	requestID := apierror.GetRequestID(c)

	var req models.CreateLogPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid request body"))
		return
	}

	point, err := h.logService.CreateLogPoint(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
				{Field: "body", Message: err.Error(), Code: "invalid"},
			}))
			return
		}
		logger.Ctx(c.Request.Context()).Error("failed to create log point", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	c.JSON(http.StatusCreated, point)
}

// GetLogPoints handles GET /api/v1/logs
func (h *LogsHandler) GetLogPoints(c *gin.Context) {
	userID := c.GetString("user_id")
	requestID := apierror.GetRequestID(c)

	points, err := h.logService.GetUserLogPoints(c.Request.Context(), userID)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to get log points", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"log_points": points,
		"count":      len(points),
	})
}

// CreateJournalEntry handles POST /api/v1/journal
func (h *LogsHandler) CreateJournalEntry(c *gin.Context) {
	userID := c.GetString("user_id")
	requestID := apierror.GetRequestID(c)

	var req models.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid request body"))
		return
	}

	entry, err := h.logService.CreateJournalEntry(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
				{Field: "body", Message: err.Error(), Code: "invalid"},
			}))
			return
		}
		logger.Ctx(c.Request.Context()).Error("failed to create journal entry", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// GetJournalSummary handles GET /api/v1/journal/summary
func (h *LogsHandler) GetJournalSummary(c *gin.Context) {
	userID := c.GetString("user_id")
	requestID := apierror.GetRequestID(c)

	summary, err := h.summaryService.WeeklyJournalSummary(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoData) {
			apierror.WriteProblem(c, apierror.NewNoDataError(requestID))
			return
		}
		logger.Ctx(c.Request.Context()).Error("failed to summarize journal", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	c.JSON(http.StatusOK, summary)
}
