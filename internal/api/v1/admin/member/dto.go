package member

import (
	"github.com/uucee/ClubWebApp/internal/api/v1/profile"
	"github.com/uucee/ClubWebApp/internal/services"
)

type MemberListResponse struct {
	Members []profile.MemberResponse `json:"members"`
	Total   int64                    `json:"total"`
	Page    int                      `json:"page"`
	Limit   int                      `json:"limit"`
}

// AddMemberRequest creates a member. With send_invite the member starts
// pending and receives an acceptance link; with a password it starts
// active immediately.
type AddMemberRequest struct {
	FirstName  string `json:"first_name" binding:"required"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Role       string `json:"role" binding:"omitempty,oneof=ADM FS MEM"`
	Password   string `json:"password" binding:"omitempty,min=8"`
	SendInvite bool   `json:"send_invite"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ToggleAccessResponse struct {
	UserID   uint `json:"user_id"`
	IsActive bool `json:"is_active"`
}

type SendInvitesRequest struct {
	Emails []string `json:"emails" binding:"required,min=1"`
}

type SendInvitesResponse struct {
	SuccessCount int                        `json:"success_count"`
	Errors       []services.BulkInviteError `json:"errors"`
}
