package profile

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/uucee/ClubWebApp/internal/database"
	"github.com/uucee/ClubWebApp/internal/middleware"
	"github.com/uucee/ClubWebApp/internal/models"
	"github.com/uucee/ClubWebApp/internal/services"
)

func setupProfileAPITest(t *testing.T) models.Member {
	t.Helper()
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test_secret")

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	assert.NoError(t, err)
	db.Migrator().DropTable(&models.Payment{}, &models.Due{}, &models.Profile{}, &models.User{})
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Profile{}, &models.Due{}, &models.Payment{}))
	database.DB = db
	database.RedisClient = nil

	admin := models.Member{
		User:    models.User{ID: 1000, Username: "admin"},
		Profile: models.Profile{ID: 1000, UserID: 1000, Role: models.RoleAdmin, Status: models.StatusActive},
	}
	member, err := services.CreateMember(services.CreateMemberInput{
		FirstName: "Own",
		LastName:  "Profile",
		Email:     "own@example.com",
		Password:  "supersecret",
	}, admin)
	assert.NoError(t, err)
	return *member
}

func profileRouterAs(member models.Member) *gin.Engine {
	router := gin.New()
	group := router.Group("/")
	group.Use(func(c *gin.Context) {
		c.Set(middleware.MemberContextKey, member)
	})
	RegisterRoutes(group)
	return router
}

func TestGetProfileHandler(t *testing.T) {
	member := setupProfileAPITest(t)
	router := profileRouterAs(member)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data ProfileDetailResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "own@example.com", resp.Data.Member.Email)
	assert.True(t, resp.Data.Finances.Balance.AmountOwed.IsZero())
	assert.Empty(t, resp.Data.Finances.Dues)
}

func TestUpdateProfileHandler(t *testing.T) {
	member := setupProfileAPITest(t)
	router := profileRouterAs(member)

	body := `{"phone":"+2347010000000","city":"Abuja"}`
	req := httptest.NewRequest(http.MethodPatch, "/profile", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data MemberResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "+2347010000000", resp.Data.Phone)
	assert.Equal(t, "Abuja", resp.Data.City)

	var profile models.Profile
	assert.NoError(t, database.DB.First(&profile, member.Profile.ID).Error)
	assert.Equal(t, "Abuja", profile.City)
}
