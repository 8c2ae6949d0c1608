package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gym_admin_backend/internal/models"
	"gym_admin_backend/internal/services"
	"gym_admin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MemberHandler holds the member service.
type MemberHandler struct {
	memberService services.MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(ms services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: ms}
}

func parseMemberID(c *gin.Context) (int64, bool) {
	memberID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid member ID format.", err.Error()))
		return 0, false
	}
	return memberID, true
}

// respondMemberError maps the common member service errors to API responses.
func respondMemberError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrMemberNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Member not found.", err.Error()))
	case errors.Is(err, services.ErrPhoneExists), errors.Is(err, services.ErrEmailExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), err.Error()))
	case errors.Is(err, services.ErrMemberValidation), errors.Is(err, services.ErrDateFormat), errors.Is(err, services.ErrInvalidFeeType):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	case errors.Is(err, services.ErrNotFrozen), errors.Is(err, services.ErrNotDormant),
		errors.Is(err, services.ErrAlreadyDeleted), errors.Is(err, services.ErrNotDeleted):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to "+action+".", "Internal error"))
	}
}

// CreateMember handles the creation of a new member.
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req services.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateMember: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	member, err := h.memberService.CreateMember(req)
	if err != nil {
		utils.LogError(err, "CreateMember: Error from memberService.CreateMember")
		respondMemberError(c, err, "create member")
		return
	}
	c.JSON(http.StatusCreated, member)
}

// GetMembers handles fetching members with category filter, search and pagination.
func (h *MemberHandler) GetMembers(c *gin.Context) {
	var filters models.MemberFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters: "+err.Error(), err.Error()))
		return
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 10
	}

	members, totalCount, err := h.memberService.GetMembers(filters)
	if err != nil {
		utils.LogError(err, "GetMembers: Error from memberService.GetMembers")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch members.", "Internal error"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      members,
		"total":     totalCount,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

// GetMemberByID handles fetching a single member with derived state.
func (h *MemberHandler) GetMemberByID(c *gin.Context) {
	memberID, ok := parseMemberID(c)
	if !ok {
		return
	}

	member, err := h.memberService.GetMemberByID(memberID)
	if err != nil {
		utils.LogError(err, "GetMemberByID: Error from memberService.GetMemberByID")
		respondMemberError(c, err, "fetch member")
		return
	}
	c.JSON(http.StatusOK, member)
}

// UpdateMember handles updating a member's contact and billing fields.
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	memberID, ok := parseMemberID(c)
	if !ok {
		return
	}

	var req services.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateMember: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	member, err := h.memberService.UpdateMember(memberID, req)
	if err != nil {
		utils.LogError(err, "UpdateMember: Error from memberService.UpdateMember")
		respondMemberError(c, err, "update member")
		return
	}
	c.JSON(http.StatusOK, member)
}

// transition wraps the one-argument lifecycle operations.
func (h *MemberHandler) transition(c *gin.Context, action string, op func(int64) (*models.Member, error)) {
	memberID, ok := parseMemberID(c)
	if !ok {
		return
	}
	member, err := op(memberID)
	if err != nil {
		utils.LogError(err, action+": Error from memberService")
		respondMemberError(c, err, action)
		return
	}
	c.JSON(http.StatusOK, member)
}

// MarkAsPaid handles the renewal transition.
func (h *MemberHandler) MarkAsPaid(c *gin.Context) {
	h.transition(c, "renew membership", h.memberService.MarkAsPaid)
}

// Freeze handles freezing a membership.
func (h *MemberHandler) Freeze(c *gin.Context) {
	h.transition(c, "freeze member", h.memberService.Freeze)
}

// Unfreeze handles unfreezing a membership.
func (h *MemberHandler) Unfreeze(c *gin.Context) {
	h.transition(c, "unfreeze member", h.memberService.Unfreeze)
}

// MarkDormant handles the manual dormancy transition.
func (h *MemberHandler) MarkDormant(c *gin.Context) {
	h.transition(c, "mark member dormant", h.memberService.MarkDormant)
}

// Activate handles reactivating a dormant member.
func (h *MemberHandler) Activate(c *gin.Context) {
	h.transition(c, "activate member", h.memberService.Activate)
}

// SoftDelete handles hiding a member from default listings.
func (h *MemberHandler) SoftDelete(c *gin.Context) {
	h.transition(c, "delete member", h.memberService.SoftDelete)
}

// Restore handles undoing a soft delete.
func (h *MemberHandler) Restore(c *gin.Context) {
	h.transition(c, "restore member", h.memberService.Restore)
}

// PermanentlyDelete handles removing the member row for good.
func (h *MemberHandler) PermanentlyDelete(c *gin.Context) {
	memberID, ok := parseMemberID(c)
	if !ok {
		return
	}

	if err := h.memberService.PermanentlyDelete(memberID); err != nil {
		utils.LogError(err, "PermanentlyDelete: Error from memberService.PermanentlyDelete")
		respondMemberError(c, err, "permanently delete member")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member permanently deleted"})
}
