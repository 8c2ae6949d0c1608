package handlers

import (
	"net/http"

	"gym_admin_backend/internal/models"
	"gym_admin_backend/internal/services"
	"gym_admin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler holds the report service.
type ReportHandler struct {
	reportService services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// GetPayments handles listing the payment ledger with filters.
func (h *ReportHandler) GetPayments(c *gin.Context) {
	var filters models.PaymentFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters: "+err.Error(), err.Error()))
		return
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}

	payments, totalCount, err := h.reportService.GetPayments(filters)
	if err != nil {
		utils.LogError(err, "GetPayments: Error from reportService.GetPayments")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch payments.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      payments,
		"total":     totalCount,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

// GetMonthlyRevenue handles the per-month revenue report.
func (h *ReportHandler) GetMonthlyRevenue(c *gin.Context) {
	revenue, err := h.reportService.GetMonthlyRevenue()
	if err != nil {
		utils.LogError(err, "GetMonthlyRevenue: Error from reportService.GetMonthlyRevenue")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch revenue report.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": revenue})
}

// GetDueReport handles the billing exposure report.
func (h *ReportHandler) GetDueReport(c *gin.Context) {
	entries, total, err := h.reportService.GetDueReport()
	if err != nil {
		utils.LogError(err, "GetDueReport: Error from reportService.GetDueReport")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch due report.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries, "total_due": total})
}

// GetCategoryCounts handles the membership category counters.
func (h *ReportHandler) GetCategoryCounts(c *gin.Context) {
	counts, err := h.reportService.GetCategoryCounts()
	if err != nil {
		utils.LogError(err, "GetCategoryCounts: Error from reportService.GetCategoryCounts")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch category counts.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, counts)
}

// GetDashboardSummary handles the dashboard metrics bundle.
func (h *ReportHandler) GetDashboardSummary(c *gin.Context) {
	summary, err := h.reportService.GetDashboardSummary()
	if err != nil {
		utils.LogError(err, "GetDashboardSummary: Error from reportService.GetDashboardSummary")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch dashboard summary.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, summary)
}
