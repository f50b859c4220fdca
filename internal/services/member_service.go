package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/uucee/ClubWebApp/internal/database"
	"github.com/uucee/ClubWebApp/internal/models"
	"github.com/uucee/ClubWebApp/internal/permissions"
	"github.com/uucee/ClubWebApp/internal/utils"
)

// createTokenAttempts bounds the re-roll loop on an invitation token
// collision. At 192 bits of randomness a second collision in a row means
// something is badly wrong, not bad luck.
const createTokenAttempts = 5

type CreateMemberInput struct {
	FirstName  string
	MiddleName string
	LastName   string
	Email      string
	Role       models.Role
	// Username, when set, seeds the placeholder login name; otherwise the
	// email stands in until the invitee picks a real one.
	Username string
	// Password, when set, creates the member directly as ACTIVE with a
	// usable credential instead of the PENDING-with-token invite flow.
	Password string
}

// CreateMember creates the User+Profile pair inside one transaction.
// Without a password the member starts PENDING with a fresh invitation
// token; with one it starts ACTIVE. The caller decides whether to mail
// the invitation (see IssueInvitation).
func CreateMember(input CreateMemberInput, actor models.Member) (*models.Member, error) {
	if d := permissions.Check(actor, permissions.ManageMembers); !d.Allowed {
		return nil, permissionError(d)
	}

	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.FirstName == "" || input.LastName == "" || input.Email == "" {
		return nil, validationError("first name, last name and email are required")
	}
	if !strings.Contains(input.Email, "@") {
		return nil, validationError("invalid email format")
	}

	role := input.Role
	if role == "" {
		role = models.RoleMember
	}
	if !role.Valid() {
		return nil, validationError("unknown role")
	}
	// Permission-derived policy, not a user error: callers who cannot
	// grant elevated roles get the member role silently.
	if role != models.RoleMember {
		if d := permissions.Check(actor, permissions.GrantElevatedRoles); !d.Allowed {
			role = models.RoleMember
		}
	}

	var existing models.User
	err := database.DB.Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	password := input.Password
	directActive := password != ""
	if !directActive {
		password, err = utils.GenerateTempPassword()
		if err != nil {
			return nil, err
		}
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var member *models.Member
	for attempt := 0; attempt < createTokenAttempts; attempt++ {
		member, err = createMemberOnce(input, role, string(hashed), directActive)
		if err == nil {
			return member, nil
		}
		if isTokenCollision(err) {
			continue // re-roll the token
		}
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return nil, err
}

func createMemberOnce(input CreateMemberInput, role models.Role, hashedPassword string, directActive bool) (*models.Member, error) {
	username := input.Username
	if username == "" {
		username = input.Email
	}
	user := models.User{
		Username:   username, // placeholder until the invite is accepted
		Email:      input.Email,
		Password:   hashedPassword,
		FirstName:  input.FirstName,
		MiddleName: input.MiddleName,
		LastName:   input.LastName,
		IsActive:   true,
	}
	profile := models.Profile{
		Role:   role,
		Status: models.StatusActive,
	}

	if !directActive {
		token, err := utils.GenerateInviteToken()
		if err != nil {
			return nil, err
		}
		now := time.Now()
		profile.Status = models.StatusPending
		profile.InvitationToken = &token
		profile.InvitationSentAt = &now
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		return tx.Create(&profile).Error
	})
	if err != nil {
		return nil, err
	}
	return &models.Member{User: user, Profile: profile}, nil
}

// FindMembers returns a paginated member list, excluding superusers and
// staff accounts, ordered by last then first name.
func FindMembers(page, limit int) ([]models.Member, int64, error) {
	base := database.DB.Model(&models.Profile{}).
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("users.is_superuser = ? AND users.is_staff = ?", false, false)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []models.Profile
	offset := (page - 1) * limit
	if err := base.Order("users.last_name asc, users.first_name asc").
		Limit(limit).Offset(offset).
		Preload("User").Find(&profiles).Error; err != nil {
		return nil, 0, err
	}

	members := make([]models.Member, 0, len(profiles))
	for _, p := range profiles {
		members = append(members, models.Member{User: p.User, Profile: p})
	}
	return members, total, nil
}

// FindMemberByProfileID loads the aggregate by profile primary key.
func FindMemberByProfileID(profileID uint) (models.Member, error) {
	var member models.Member
	var profile models.Profile
	if err := database.DB.Preload("User").First(&profile, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return member, ErrMemberNotFound
		}
		return member, err
	}
	member.User = profile.User
	member.Profile = profile
	return member, nil
}

// ToggleAccess flips IsActive on the target user and returns the new
// state. Superuser targets are always refused.
func ToggleAccess(userID uint, actor models.Member) (bool, error) {
	var target models.User
	if err := database.DB.First(&target, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}

	if d := permissions.CheckTarget(actor, permissions.ToggleAccess, target); !d.Allowed {
		return false, permissionError(d)
	}

	target.IsActive = !target.IsActive
	if err := database.DB.Save(&target).Error; err != nil {
		return false, err
	}

	invalidateUserCache(target.ID)
	return target.IsActive, nil
}

// UpdateMemberStatus sets the profile status to one of the four codes.
func UpdateMemberStatus(profileID uint, newStatus models.Status, actor models.Member) (*models.Member, error) {
	if d := permissions.Check(actor, permissions.UpdateMemberStatus); !d.Allowed {
		return nil, permissionError(d)
	}
	if !newStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	member, err := FindMemberByProfileID(profileID)
	if err != nil {
		return nil, err
	}

	member.Profile.Status = newStatus
	if err := database.DB.Save(&member.Profile).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// DeleteMember removes the User and its Profile together. Irreversible;
// the ledger rows cascade with the profile.
func DeleteMember(userID uint, actor models.Member) error {
	var target models.User
	if err := database.DB.First(&target, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if d := permissions.CheckTarget(actor, permissions.DeleteMembers, target); !d.Allowed {
		return permissionError(d)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		if err := tx.Where("user_id = ?", userID).First(&profile).Error; err == nil {
			if err := tx.Where("member_id = ?", profile.ID).Delete(&models.Due{}).Error; err != nil {
				return err
			}
			if err := tx.Where("member_id = ?", profile.ID).Delete(&models.Payment{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&profile).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&target).Error
	})
	if err != nil {
		return err
	}

	invalidateUserCache(userID)
	return nil
}

type OwnProfileUpdate struct {
	Phone   *string
	Address *string
	City    *string
	Country *string
}

// UpdateOwnProfile lets a member edit their own contact fields.
func UpdateOwnProfile(userID uint, update OwnProfileUpdate) (*models.Member, error) {
	member, err := FindMemberByUserID(userID)
	if err != nil {
		return nil, err
	}

	if update.Phone != nil {
		member.Profile.Phone = *update.Phone
	}
	if update.Address != nil {
		member.Profile.Address = *update.Address
	}
	if update.City != nil {
		member.Profile.City = *update.City
	}
	if update.Country != nil {
		member.Profile.Country = *update.Country
	}

	if err := database.DB.Save(&member.Profile).Error; err != nil {
		return nil, err
	}
	return &member, nil
}
