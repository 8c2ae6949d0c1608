package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gym_admin_backend/internal/services"
	"gym_admin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AttendanceHandler holds the attendance service.
type AttendanceHandler struct {
	attendanceService services.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(as services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: as}
}

// CheckIn handles an admission attempt for a member. Repeated calls on the
// same day return marked=false with a 200, never an error.
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	memberID, ok := parseMemberID(c)
	if !ok {
		return
	}

	result, err := h.attendanceService.AttemptCheckIn(memberID)
	if err != nil {
		utils.LogError(err, "CheckIn: Error from attendanceService.AttemptCheckIn")
		switch {
		case errors.Is(err, services.ErrMemberNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Member not found.", err.Error()))
		case errors.Is(err, services.ErrMembershipExpired):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeMembershipExpired, "Membership has expired; renewal required before check-in.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to record check-in.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetSheet handles fetching the attendance sheet for a day (?date=YYYY-MM-DD,
// default today).
func (h *AttendanceHandler) GetSheet(c *gin.Context) {
	entries, err := h.attendanceService.GetSheetForDate(c.Query("date"))
	if err != nil {
		if errors.Is(err, services.ErrDateFormat) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
			return
		}
		utils.LogError(err, "GetSheet: Error from attendanceService.GetSheetForDate")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch attendance sheet.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// GetMemberHistory handles fetching a member's check-in history.
func (h *AttendanceHandler) GetMemberHistory(c *gin.Context) {
	memberID, ok := parseMemberID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "31"))

	records, totalCount, err := h.attendanceService.GetMemberHistory(memberID, page, pageSize)
	if err != nil {
		utils.LogError(err, "GetMemberHistory: Error from attendanceService.GetMemberHistory")
		if errors.Is(err, services.ErrMemberNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Member not found.", err.Error()))
			return
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch attendance history.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      records,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// CountToday handles fetching today's visitor count.
func (h *AttendanceHandler) CountToday(c *gin.Context) {
	count, err := h.attendanceService.CountVisitorsToday()
	if err != nil {
		utils.LogError(err, "CountToday: Error from attendanceService.CountVisitorsToday")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to count visitors.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
