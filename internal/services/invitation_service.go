package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/uucee/ClubWebApp/config"
	"github.com/uucee/ClubWebApp/internal/database"
	"github.com/uucee/ClubWebApp/internal/mailer"
	"github.com/uucee/ClubWebApp/internal/models"
	"github.com/uucee/ClubWebApp/internal/permissions"
	"github.com/uucee/ClubWebApp/internal/utils"
)

// InvitationTTL is how long an invitation link stays valid. Expired
// tokens are kept on the profile so an administrator can re-issue.
const InvitationTTL = 7 * 24 * time.Hour

// Mail is the outbound delivery collaborator. Replaced in tests; main
// wires the configured SMTP mailer.
var Mail mailer.Mailer = mailer.LogMailer{}

// IssueInvitation creates a pending member and, when sendEmail is set,
// mails the acceptance link. Delivery failure does not roll back the
// created records: the member exists and ErrInviteNotSent is returned so
// the caller can report the partial outcome.
func IssueInvitation(input CreateMemberInput, actor models.Member, sendEmail bool) (*models.Member, error) {
	input.Password = "" // invited members get no usable credential yet

	member, err := CreateMember(input, actor)
	if err != nil {
		return nil, err
	}

	if sendEmail {
		if err := sendInvitationEmail(member); err != nil {
			return member, ErrInviteNotSent
		}
	}
	return member, nil
}

func sendInvitationEmail(member *models.Member) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if member.Profile.InvitationToken == nil {
		return fmt.Errorf("no invitation token on profile %d", member.Profile.ID)
	}

	link := fmt.Sprintf("%s/accept-invitation/%s/",
		strings.TrimRight(cfg.SiteURL, "/"), *member.Profile.InvitationToken)

	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"You have been invited to join FC92 Club.\n\n"+
			"Please complete your membership profile within 7 days using the link below:\n\n"+
			"%s\n\n"+
			"If you were not expecting this invitation you can ignore this message.\n",
		strings.TrimSpace(member.User.FirstName), link)

	return Mail.Send("Invitation to Join FC92 Club", body, member.User.Email)
}

type AcceptInvitationInput struct {
	Username        string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
	Phone           string
	Address         string
	City            string
	Country         string
}

// AcceptInvitation consumes an invitation token and completes onboarding.
// Checks run in a fixed order and the first failure wins; nothing is
// written until every check passes. Returns the activated member and a
// session token for the new identity.
func AcceptInvitation(token string, input AcceptInvitationInput) (*models.Member, string, error) {
	member, err := lookupInvitation(token)
	if err != nil {
		return nil, "", err
	}

	if member.Profile.InvitationSentAt == nil ||
		time.Since(*member.Profile.InvitationSentAt) > InvitationTTL {
		// Token is NOT cleared on expiry; an administrator must re-issue.
		return nil, "", ErrInvitationExpired
	}

	if input.Username == "" || input.Password == "" || input.PasswordConfirm == "" ||
		input.FirstName == "" || input.LastName == "" ||
		input.Phone == "" || input.Address == "" {
		return nil, "", validationError("please fill in all required fields")
	}
	if input.Password != input.PasswordConfirm {
		return nil, "", ErrPasswordMismatch
	}
	if len(input.Password) < 8 {
		return nil, "", ErrWeakPassword
	}

	var other models.User
	err = database.DB.Where("username = ? AND id <> ?", input.Username, member.User.ID).
		First(&other).Error
	if err == nil {
		return nil, "", ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// Clearing the token is guarded by its current value so only one
		// concurrent acceptance can win; the loser sees zero rows updated.
		res := tx.Model(&models.Profile{}).
			Where("id = ? AND invitation_token = ?", member.Profile.ID, token).
			Updates(map[string]interface{}{
				"invitation_token": nil,
				"status":           models.StatusActive,
				"phone":            input.Phone,
				"address":          input.Address,
				"city":             input.City,
				"country":          input.Country,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidToken
		}

		return tx.Model(&models.User{}).
			Where("id = ?", member.User.ID).
			Updates(map[string]interface{}{
				"username":   input.Username,
				"password":   string(hashed),
				"first_name": input.FirstName,
				"last_name":  input.LastName,
				"is_active":  true,
			}).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, "", ErrUsernameTaken
		}
		return nil, "", err
	}

	invalidateUserCache(member.User.ID)

	accepted, err := FindMemberByUserID(member.User.ID)
	if err != nil {
		return nil, "", err
	}

	// Establish a session for the new identity
	session, err := utils.GenerateToken(accepted.User.ID, string(accepted.Profile.Role))
	if err != nil {
		return nil, "", err
	}
	return &accepted, session, nil
}

// PreviewInvitation resolves a token without consuming it, for the
// acceptance page to show who is being invited.
func PreviewInvitation(token string) (*models.Member, error) {
	member, err := lookupInvitation(token)
	if err != nil {
		return nil, err
	}
	if member.Profile.InvitationSentAt == nil ||
		time.Since(*member.Profile.InvitationSentAt) > InvitationTTL {
		return nil, ErrInvitationExpired
	}
	return member, nil
}

func lookupInvitation(token string) (*models.Member, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	var profile models.Profile
	err := database.DB.Preload("User").
		Where("invitation_token = ?", token).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return &models.Member{User: profile.User, Profile: profile}, nil
}

// BulkInviteError describes one failed address from SendBulkInvites.
type BulkInviteError struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// SendBulkInvites invites a list of bare email addresses. Accounts get
// placeholder names until acceptance. Each address is processed
// independently; failures are collected, not propagated.
func SendBulkInvites(emails []string, actor models.Member) (int, []BulkInviteError) {
	if d := permissions.Check(actor, permissions.ManageMembers); !d.Allowed {
		errs := make([]BulkInviteError, 0, len(emails))
		for _, e := range emails {
			if strings.TrimSpace(e) == "" {
				continue
			}
			errs = append(errs, BulkInviteError{Email: e, Reason: d.Reason})
		}
		return 0, errs
	}

	successCount := 0
	var inviteErrors []BulkInviteError

	for _, raw := range emails {
		email := strings.ToLower(strings.TrimSpace(raw))
		if email == "" {
			continue
		}

		// Placeholder identity; the invitee supplies the real one on
		// acceptance.
		tempUsername, err := utils.GenerateTempUsername()
		if err != nil {
			inviteErrors = append(inviteErrors, BulkInviteError{Email: email, Reason: err.Error()})
			continue
		}
		_, err = IssueInvitation(CreateMemberInput{
			FirstName: "Invited",
			LastName:  "Member",
			Email:     email,
			Role:      models.RoleMember,
			Username:  tempUsername,
		}, actor, true)
		if err != nil && !errors.Is(err, ErrInviteNotSent) {
			inviteErrors = append(inviteErrors, BulkInviteError{Email: email, Reason: err.Error()})
			continue
		}
		successCount++
	}

	return successCount, inviteErrors
}
