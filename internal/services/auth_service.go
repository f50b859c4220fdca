package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/uucee/ClubWebApp/internal/database"
	"github.com/uucee/ClubWebApp/internal/models"
	"github.com/uucee/ClubWebApp/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountDisabled = errors.New("this account has been disabled")

// LoginUser authenticates by username and returns a session token plus
// the member aggregate.
func LoginUser(username, password string) (string, *models.Member, error) {
	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", nil, ErrAccountDisabled
	}

	member, err := FindMemberByUserID(user.ID)
	if err != nil {
		return "", nil, err
	}

	token, err := utils.GenerateToken(user.ID, string(member.Profile.Role))
	if err != nil {
		return "", nil, err
	}

	return token, &member, nil
}
