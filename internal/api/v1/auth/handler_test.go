package auth

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/uucee/ClubWebApp/internal/database"
	"github.com/uucee/ClubWebApp/internal/middleware"
	"github.com/uucee/ClubWebApp/internal/models"
	"github.com/uucee/ClubWebApp/internal/services"
)

func setupAuthAPITest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test_secret")

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	assert.NoError(t, err)
	db.Migrator().DropTable(&models.Payment{}, &models.Due{}, &models.Profile{}, &models.User{})
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Profile{}, &models.Due{}, &models.Payment{}))
	database.DB = db

	mr, err := miniredis.Run()
	assert.NoError(t, err)
	t.Cleanup(mr.Close)
	database.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	router := gin.New()
	RegisterRoutes(router.Group("/"))
	return router
}

func seedLoginUser(t *testing.T, username, password string, active bool) models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	assert.NoError(t, err)

	user := models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  string(hashed),
		FirstName: "Test",
		LastName:  "User",
		IsActive:  active,
	}
	assert.NoError(t, database.DB.Create(&user).Error)
	assert.NoError(t, database.DB.Create(&models.Profile{
		UserID: user.ID,
		Role:   models.RoleMember,
		Status: models.StatusActive,
	}).Error)
	return user
}

func postLogin(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLoginHandler(t *testing.T) {
	router := setupAuthAPITest(t)
	seedLoginUser(t, "jdoe", "supersecret", true)

	w := postLogin(router, `{"username":"jdoe","password":"supersecret"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token"`)

	w = postLogin(router, `{"username":"jdoe","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postLogin(router, `{"username":"jdoe"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginHandlerDisabledAccount(t *testing.T) {
	router := setupAuthAPITest(t)
	seedLoginUser(t, "frozen", "supersecret", false)

	w := postLogin(router, `{"username":"frozen","password":"supersecret"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "disabled")
}

func TestLogoutHandlerRevokesToken(t *testing.T) {
	router := setupAuthAPITest(t)
	user := seedLoginUser(t, "leaver", "supersecret", true)

	token, _, err := services.LoginUser(user.Username, "supersecret")
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	denylisted, err := services.IsDenylisted(token)
	assert.NoError(t, err)
	assert.True(t, denylisted)

	// The revoked token no longer passes the auth middleware
	protected := gin.New()
	group := protected.Group("/")
	group.Use(middleware.AuthMiddleware())
	group.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
