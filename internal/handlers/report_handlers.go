package handlers

import (
	"net/http"
	"time"

	"tableside_backend/internal/services"
	"tableside_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const reportDateLayout = "2006-01-02"

// ReportHandler holds the report service.
type ReportHandler struct {
	reportService services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// GetSummaryReport handles the daily operations summary. The date query
// parameter defaults to today when omitted.
func (h *ReportHandler) GetSummaryReport(c *gin.Context) {
	day := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse(reportDateLayout, dateStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid date format, expected YYYY-MM-DD.", err.Error()))
			return
		}
		day = parsed
	}

	report, err := h.reportService.GetSummary(day)
	if err != nil {
		utils.LogError(err, "GetSummaryReport: Error from reportService.GetSummary")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build summary report.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, report)
}
