package profile

import (
	"time"

	"github.com/uucee/ClubWebApp/internal/models"
	"github.com/uucee/ClubWebApp/internal/services"
)

// MemberResponse is the serialized User+Profile aggregate returned by
// auth, profile and admin endpoints.
type MemberResponse struct {
	UserID        uint      `json:"user_id"`
	ProfileID     uint      `json:"profile_id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	MiddleName    string    `json:"middle_name,omitempty"`
	LastName      string    `json:"last_name"`
	Role          string    `json:"role"`
	RoleDisplay   string    `json:"role_display"`
	Status        string    `json:"status"`
	StatusDisplay string    `json:"status_display"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	City          string    `json:"city,omitempty"`
	Country       string    `json:"country,omitempty"`
	IsActive      bool      `json:"is_active"`
	HasInvitation bool      `json:"has_outstanding_invitation"`
	JoinedAt      time.Time `json:"joined_at"`
	Token         string    `json:"token,omitempty"`
}

func NewMemberResponse(m models.Member, token string) MemberResponse {
	return MemberResponse{
		UserID:        m.User.ID,
		ProfileID:     m.Profile.ID,
		Username:      m.User.Username,
		Email:         m.User.Email,
		FirstName:     m.User.FirstName,
		MiddleName:    m.User.MiddleName,
		LastName:      m.User.LastName,
		Role:          string(m.Profile.Role),
		RoleDisplay:   m.Profile.Role.Display(),
		Status:        string(m.Profile.Status),
		StatusDisplay: m.Profile.Status.Display(),
		Phone:         m.Profile.Phone,
		Address:       m.Profile.Address,
		City:          m.Profile.City,
		Country:       m.Profile.Country,
		IsActive:      m.User.IsActive,
		HasInvitation: m.Profile.HasOutstandingInvitation(),
		JoinedAt:      m.Profile.CreatedAt,
		Token:         token,
	}
}

// ProfileDetailResponse is the member's own profile page: identity plus
// both ledgers and the credit-convention balance.
type ProfileDetailResponse struct {
	Member   MemberResponse          `json:"member"`
	Finances services.MemberFinances `json:"finances"`
}

// UpdateProfileRequest carries the contact fields a member may edit.
type UpdateProfileRequest struct {
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	City    *string `json:"city,omitempty"`
	Country *string `json:"country,omitempty"`
}
