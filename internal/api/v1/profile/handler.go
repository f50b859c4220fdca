package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uucee/ClubWebApp/internal/middleware"
	"github.com/uucee/ClubWebApp/internal/services"
	"github.com/uucee/ClubWebApp/internal/utils"
)

// GetProfile godoc
// @Summary Get own profile
// @Description Current member's profile with dues, payments and balance
// @Tags profile
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response{data=ProfileDetailResponse}
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /profile [get]
func GetProfile(c *gin.Context) {
	member, ok := middleware.CurrentMember(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	finances, err := services.FindMemberFinances(member.Profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to load financial records"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Profile retrieved successfully", ProfileDetailResponse{
		Member:   NewMemberResponse(member, ""),
		Finances: finances,
	}))
}

// UpdateProfile godoc
// @Summary Update own profile
// @Description Edit the contact fields of the current member's profile
// @Tags profile
// @Accept json
// @Produce json
// @Security Bearer
// @Param body body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} utils.Response{data=MemberResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /profile [patch]
func UpdateProfile(c *gin.Context) {
	member, ok := middleware.CurrentMember(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req UpdateProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	updated, err := services.UpdateOwnProfile(member.User.ID, services.OwnProfileUpdate{
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
		Country: req.Country,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to update profile"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Your profile has been updated successfully", NewMemberResponse(*updated, "")))
}
