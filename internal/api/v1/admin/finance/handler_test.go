package finance

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/uucee/ClubWebApp/internal/database"
	"github.com/uucee/ClubWebApp/internal/middleware"
	"github.com/uucee/ClubWebApp/internal/models"
	"github.com/uucee/ClubWebApp/internal/services"
)

func setupFinanceAPITest(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test_secret")

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	assert.NoError(t, err)
	db.Migrator().DropTable(&models.Payment{}, &models.Due{}, &models.Profile{}, &models.User{})
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Profile{}, &models.Due{}, &models.Payment{}))
	database.DB = db
	database.RedisClient = nil
}

func financeRouterAs(actor models.Member) *gin.Engine {
	router := gin.New()
	group := router.Group("/")
	group.Use(func(c *gin.Context) {
		c.Set(middleware.MemberContextKey, actor)
	})
	RegisterRoutes(group)
	return router
}

func financeAdmin() models.Member {
	return models.Member{
		User:    models.User{ID: 1000, Username: "admin"},
		Profile: models.Profile{ID: 1000, UserID: 1000, Role: models.RoleAdmin, Status: models.StatusActive},
	}
}

func seedFinanceMember(t *testing.T, email string) *models.Member {
	t.Helper()
	member, err := services.CreateMember(services.CreateMemberInput{
		FirstName: "Ledger",
		LastName:  "Member",
		Email:     email,
		Password:  "supersecret",
	}, financeAdmin())
	assert.NoError(t, err)
	return member
}

func TestAddDueAndPaymentHandlers(t *testing.T) {
	setupFinanceAPITest(t)
	router := financeRouterAs(financeAdmin())

	member := seedFinanceMember(t, "duesmember@example.com")

	dueBody := `{"amount":"5000.00","date":"2026-01-31","description":"annual dues"}`
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/members/%d/dues", member.Profile.ID), strings.NewReader(dueBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	paymentBody := `{"amount":"3000.00","date":"2026-02-15","description":"transfer"}`
	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/members/%d/payments", member.Profile.ID), strings.NewReader(paymentBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/members/%d/finances", member.Profile.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Finances services.MemberFinances `json:"finances"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Finances.Dues, 1)
	assert.Len(t, resp.Data.Finances.Payments, 1)
	assert.True(t, resp.Data.Finances.Balance.AmountOwed.Equal(decimal.RequireFromString("2000")))
}

func TestLedgerHandlerValidation(t *testing.T) {
	setupFinanceAPITest(t)
	router := financeRouterAs(financeAdmin())

	member := seedFinanceMember(t, "ledgerguard@example.com")
	url := fmt.Sprintf("/members/%d/dues", member.Profile.ID)

	tests := []struct {
		name string
		body string
	}{
		{name: "bad date", body: `{"amount":"100.00","date":"31/01/2026"}`},
		{name: "missing amount", body: `{"date":"2026-01-31"}`},
		{name: "negative amount", body: `{"amount":"-10.00","date":"2026-01-31"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	t.Run("unknown member", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/members/99999/dues",
			strings.NewReader(`{"amount":"100.00","date":"2026-01-31"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestFinancialReportHandler(t *testing.T) {
	setupFinanceAPITest(t)
	router := financeRouterAs(financeAdmin())

	member := seedFinanceMember(t, "reportmember@example.com")
	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	_, err := services.AddDue(member.Profile.ID, decimal.RequireFromString("5000.00"), day, "dues", financeAdmin())
	assert.NoError(t, err)
	_, err = services.AddPayment(member.Profile.ID, decimal.RequireFromString("3000.00"), day, "transfer", financeAdmin())
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/financial-report", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data services.ClubReport `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.MemberCount)
	assert.Len(t, resp.Data.Rows, 1)
	assert.True(t, resp.Data.TotalOwed.Equal(decimal.RequireFromString("2000")))

	t.Run("invalid filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/financial-report?filter=bogus", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("csv export", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/financial-report?export=csv", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=financial_report_")
		assert.Contains(t, w.Body.String(), "Member Name,Total Dues,Total Payments,Balance,Status,Financial Status")
		assert.Contains(t, w.Body.String(), "Total Balance:,2000.00")
	})
}
