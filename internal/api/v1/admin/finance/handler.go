package finance

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uucee/ClubWebApp/internal/api/v1/profile"
	"github.com/uucee/ClubWebApp/internal/middleware"
	"github.com/uucee/ClubWebApp/internal/models"
	"github.com/uucee/ClubWebApp/internal/services"
	"github.com/uucee/ClubWebApp/internal/utils"
)

// MemberFinances godoc
// @Summary Member financial detail
// @Description A member's dues, payments and balance
// @Tags admin
// @Produce json
// @Security Bearer
// @Param id path int true "Profile ID"
// @Success 200 {object} utils.Response{data=MemberFinancesResponse}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /admin/members/{id}/finances [get]
func MemberFinances(c *gin.Context) {
	profileID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid profile ID"))
		return
	}

	m, err := services.FindMemberByProfileID(uint(profileID))
	if err != nil {
		respondFinanceError(c, err)
		return
	}

	finances, err := services.FindMemberFinances(uint(profileID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to load financial records"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Financial records retrieved successfully", MemberFinancesResponse{
		Member:   profile.NewMemberResponse(m, ""),
		Finances: finances,
	}))
}

// AddDue godoc
// @Summary Record a due
// @Description Append an amount owed to a member's ledger
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Profile ID"
// @Param body body LedgerEntryRequest true "Due details"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /admin/members/{id}/dues [post]
func AddDue(c *gin.Context) {
	actor, profileID, req, ok := bindLedgerEntry(c)
	if !ok {
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD"))
		return
	}

	due, err := services.AddDue(profileID, req.Amount, date, req.Description, actor)
	if err != nil {
		respondFinanceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.NewSuccessResponse("Due recorded successfully", due))
}

// AddPayment godoc
// @Summary Record a payment
// @Description Append an amount paid to a member's ledger
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Profile ID"
// @Param body body LedgerEntryRequest true "Payment details"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /admin/members/{id}/payments [post]
func AddPayment(c *gin.Context) {
	actor, profileID, req, ok := bindLedgerEntry(c)
	if !ok {
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD"))
		return
	}

	payment, err := services.AddPayment(profileID, req.Amount, date, req.Description, actor)
	if err != nil {
		respondFinanceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.NewSuccessResponse("Payment recorded successfully", payment))
}

// FinancialReport godoc
// @Summary Club-wide financial report
// @Description Per-member totals and club totals; ?export=csv downloads the report
// @Tags admin
// @Produce json
// @Produce text/csv
// @Security Bearer
// @Param filter query string false "Filter: up_to_date or overdue"
// @Param export query string false "Set to csv for a downloadable file"
// @Success 200 {object} utils.Response{data=services.ClubReport}
// @Failure 400 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/financial-report [get]
func FinancialReport(c *gin.Context) {
	filter := services.ReportFilter(c.Query("filter"))
	if !filter.Valid() {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid filter, expected up_to_date or overdue"))
		return
	}

	report, err := services.ComputeClubReport(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to build report"))
		return
	}

	if c.Query("export") == "csv" {
		csvContent, err := services.GenerateFinancialReportCSV(report)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to generate CSV"))
			return
		}
		filename := fmt.Sprintf("financial_report_%s.csv", time.Now().Format("20060102150405"))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		c.Data(http.StatusOK, "text/csv", csvContent)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Report generated successfully", report))
}

func bindLedgerEntry(c *gin.Context) (models.Member, uint, LedgerEntryRequest, bool) {
	var req LedgerEntryRequest

	actor, ok := middleware.CurrentMember(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return actor, 0, req, false
	}

	profileID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid profile ID"))
		return actor, 0, req, false
	}

	if !utils.BindAndValidate(c, &req) {
		return actor, 0, req, false
	}

	return actor, uint(profileID), req, true
}

func respondFinanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, utils.NewErrorResponse(http.StatusForbidden, err.Error()))
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
	case errors.Is(err, services.ErrMemberNotFound):
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "An internal error occurred"))
	}
}
