package invitation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uucee/ClubWebApp/internal/api/v1/profile"
	"github.com/uucee/ClubWebApp/internal/services"
	"github.com/uucee/ClubWebApp/internal/utils"
)

// AcceptInvitationRequest carries the onboarding form. City and country
// are optional; everything else is required.
type AcceptInvitationRequest struct {
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
	Phone           string `json:"phone" binding:"required"`
	Address         string `json:"address" binding:"required"`
	City            string `json:"city"`
	Country         string `json:"country"`
}

// Preview godoc
// @Summary Preview an invitation
// @Description Check an invitation token and show who is being invited
// @Tags invitation
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} utils.Response{data=profile.MemberResponse}
// @Failure 404 {object} utils.Response
// @Failure 410 {object} utils.Response
// @Router /accept-invitation/{token} [get]
func Preview(c *gin.Context) {
	member, err := services.PreviewInvitation(c.Param("token"))
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Invitation is valid", profile.NewMemberResponse(*member, "")))
}

// Accept godoc
// @Summary Accept an invitation
// @Description Complete onboarding for a pending member; the token is single-use
// @Tags invitation
// @Accept json
// @Produce json
// @Param token path string true "Invitation token"
// @Param body body AcceptInvitationRequest true "Onboarding form"
// @Success 200 {object} utils.Response{data=profile.MemberResponse}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Failure 410 {object} utils.Response
// @Router /accept-invitation/{token} [post]
func Accept(c *gin.Context) {
	var req AcceptInvitationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	member, session, err := services.AcceptInvitation(c.Param("token"), services.AcceptInvitationInput{
		Username:        req.Username,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Address:         req.Address,
		City:            req.City,
		Country:         req.Country,
	})
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(
		"Your profile has been updated successfully. You are now logged in.",
		profile.NewMemberResponse(*member, session)))
}

func respondInvitationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidToken):
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, "Invalid invitation link"))
	case errors.Is(err, services.ErrInvitationExpired):
		c.JSON(http.StatusGone, utils.NewErrorResponse(http.StatusGone,
			"This invitation link has expired. Please contact the club administrator for a new invitation."))
	case errors.Is(err, services.ErrPasswordMismatch),
		errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
	case errors.Is(err, services.ErrUsernameTaken):
		c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict,
			"This username is already taken. Please choose another one."))
	default:
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Error updating profile"))
	}
}
