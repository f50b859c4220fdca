package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"

	"github.com/uucee/ClubWebApp/internal/database"
	"github.com/uucee/ClubWebApp/internal/models"
	"github.com/uucee/ClubWebApp/internal/utils"
)

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	t.Cleanup(mr.Close)

	database.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr
}

func TestLoginUser(t *testing.T) {
	setupTestDB()

	member := createActiveMember(t, "Log", "In", "login@example.com")

	token, got, err := LoginUser(member.User.Username, "supersecret")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, member.User.ID, got.User.ID)

	claims, err := utils.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, float64(member.User.ID), claims["user_id"])
	assert.Equal(t, string(models.RoleMember), claims["role"])
}

func TestLoginUserBadCredentials(t *testing.T) {
	setupTestDB()

	member := createActiveMember(t, "Wrong", "Pass", "wrongpass@example.com")

	_, _, err := LoginUser(member.User.Username, "not-the-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = LoginUser("nobody", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUserDisabledAccount(t *testing.T) {
	setupTestDB()

	member := createActiveMember(t, "Dis", "Abled", "disabled@example.com")
	_, err := ToggleAccess(member.User.ID, adminActor())
	assert.NoError(t, err)

	_, _, err = LoginUser(member.User.Username, "supersecret")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestTokenDenylist(t *testing.T) {
	setupTestDB()
	setupTestRedis(t)

	denylisted, err := IsDenylisted("some-token")
	assert.NoError(t, err)
	assert.False(t, denylisted)

	assert.NoError(t, AddToDenylist("some-token", time.Hour))

	denylisted, err = IsDenylisted("some-token")
	assert.NoError(t, err)
	assert.True(t, denylisted)
}

func TestFindUserByIDUsesCache(t *testing.T) {
	setupTestDB()
	mr := setupTestRedis(t)

	member := createActiveMember(t, "Cache", "Hit", "cache@example.com")

	cacheKey := fmt.Sprintf("user:%d", member.User.ID)

	// First read populates the cache
	_, err := FindUserByID(member.User.ID)
	assert.NoError(t, err)
	assert.True(t, mr.Exists(cacheKey))

	// A mutation drops the cached row
	_, err = ToggleAccess(member.User.ID, adminActor())
	assert.NoError(t, err)
	assert.False(t, mr.Exists(cacheKey))
}
