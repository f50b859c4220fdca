package member

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uucee/ClubWebApp/internal/api/v1/profile"
	"github.com/uucee/ClubWebApp/internal/middleware"
	"github.com/uucee/ClubWebApp/internal/models"
	"github.com/uucee/ClubWebApp/internal/services"
	"github.com/uucee/ClubWebApp/internal/utils"
)

// ListMembers godoc
// @Summary List members
// @Description Paginated member list, superusers and staff excluded
// @Tags admin
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} utils.Response{data=MemberListResponse}
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/members [get]
func ListMembers(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid page number"))
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid limit number"))
		return
	}

	members, total, err := services.FindMembers(page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch members"))
		return
	}

	items := make([]profile.MemberResponse, 0, len(members))
	for _, m := range members {
		items = append(items, profile.NewMemberResponse(m, ""))
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Members retrieved successfully", MemberListResponse{
		Members: items,
		Total:   total,
		Page:    page,
		Limit:   limit,
	}))
}

// AddMember godoc
// @Summary Add a single member
// @Description Create a member directly or issue an invitation
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param body body AddMemberRequest true "New member"
// @Success 201 {object} utils.Response{data=profile.MemberResponse}
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/members [post]
func AddMember(c *gin.Context) {
	actor, ok := middleware.CurrentMember(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req AddMemberRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	input := services.CreateMemberInput{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Email:      req.Email,
		Role:       models.Role(req.Role),
		Password:   req.Password,
	}

	var m *models.Member
	var err error
	if req.Password != "" {
		// Direct creation: member starts active with a usable credential
		m, err = services.CreateMember(input, actor)
	} else {
		m, err = services.IssueInvitation(input, actor, req.SendInvite)
	}
	if err != nil && !errors.Is(err, services.ErrInviteNotSent) {
		respondMemberError(c, err)
		return
	}

	message := fmt.Sprintf("Member %s %s added successfully", m.User.FirstName, m.User.LastName)
	if errors.Is(err, services.ErrInviteNotSent) {
		// Partial failure: records exist, mail did not go out
		message = fmt.Sprintf("Member %s %s added, but the invitation email could not be sent", m.User.FirstName, m.User.LastName)
	}

	c.JSON(http.StatusCreated, utils.NewSuccessResponse(message, profile.NewMemberResponse(*m, "")))
}

// ToggleAccess godoc
// @Summary Toggle member access
// @Description Enable or disable a member's login. Superusers are protected.
// @Tags admin
// @Produce json
// @Security Bearer
// @Param id path int true "User ID"
// @Success 200 {object} utils.Response{data=ToggleAccessResponse}
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /admin/members/{id}/toggle-access [post]
func ToggleAccess(c *gin.Context) {
	actor, ok := middleware.CurrentMember(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid user ID"))
		return
	}

	isActive, err := services.ToggleAccess(uint(userID), actor)
	if err != nil {
		respondMemberError(c, err)
		return
	}

	state := "disabled"
	if isActive {
		state = "enabled"
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse(
		fmt.Sprintf("Access has been %s", state),
		ToggleAccessResponse{UserID: uint(userID), IsActive: isActive}))
}

// UpdateStatus godoc
// @Summary Update member status
// @Description Set a member's status to ACT, SUS, REM or PEN
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Profile ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} utils.Response{data=profile.MemberResponse}
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /admin/members/{id}/status [patch]
func UpdateStatus(c *gin.Context) {
	actor, ok := middleware.CurrentMember(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	profileID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid profile ID"))
		return
	}

	var req UpdateStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	m, err := services.UpdateMemberStatus(uint(profileID), models.Status(req.Status), actor)
	if err != nil {
		respondMemberError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(
		fmt.Sprintf("%s's status updated to %s", m.User.Username, m.Profile.Status.Display()),
		profile.NewMemberResponse(*m, "")))
}

// DeleteMember godoc
// @Summary Delete a member
// @Description Destroy the user and profile together. Irreversible.
// @Tags admin
// @Produce json
// @Security Bearer
// @Param id path int true "User ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /admin/members/{id} [delete]
func DeleteMember(c *gin.Context) {
	actor, ok := middleware.CurrentMember(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid user ID"))
		return
	}

	// Destructive action: require explicit confirmation
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Deletion requires confirm=true"))
		return
	}

	if err := services.DeleteMember(uint(userID), actor); err != nil {
		respondMemberError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Member deleted successfully", nil))
}

// BulkUpload godoc
// @Summary Bulk upload members
// @Description Upload a CSV of members; rows are processed independently
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param csv_file formData file true "CSV file with first_name,last_name,email,role"
// @Param send_invite formData bool false "Send invitation emails"
// @Success 200 {object} utils.Response{data=services.ImportResult}
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Router /admin/members/bulk-upload [post]
func BulkUpload(c *gin.Context) {
	actor, ok := middleware.CurrentMember(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	fileHeader, err := c.FormFile("csv_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "CSV file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Could not open uploaded file"))
		return
	}
	defer file.Close()

	rows, err := services.ParseMembersCSV(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		return
	}

	sendInvite := c.PostForm("send_invite") == "true" || c.PostForm("send_invite") == "on"
	result := services.BulkImport(rows, actor, sendInvite)

	message := fmt.Sprintf("Successfully added %d members", result.SuccessCount)
	if len(result.Errors) > 0 {
		message = fmt.Sprintf("Added %d members, %d rows failed", result.SuccessCount, len(result.Errors))
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse(message, result))
}

// SendInvites godoc
// @Summary Send bulk invitations
// @Description Invite a list of email addresses to join the club
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param body body SendInvitesRequest true "Email addresses"
// @Success 200 {object} utils.Response{data=SendInvitesResponse}
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Router /admin/members/send-invites [post]
func SendInvites(c *gin.Context) {
	actor, ok := middleware.CurrentMember(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req SendInvitesRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	successCount, inviteErrors := services.SendBulkInvites(req.Emails, actor)
	if inviteErrors == nil {
		inviteErrors = []services.BulkInviteError{}
	}

	message := fmt.Sprintf("Successfully sent %d invitations", successCount)
	if len(inviteErrors) > 0 {
		message = fmt.Sprintf("Sent %d invitations, %d failed", successCount, len(inviteErrors))
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse(message,
		SendInvitesResponse{SuccessCount: successCount, Errors: inviteErrors}))
}

func respondMemberError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, utils.NewErrorResponse(http.StatusForbidden, err.Error()))
	case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrUsernameTaken):
		c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrMemberNotFound):
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "An internal error occurred"))
	}
}
