package services

import (
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/uucee/ClubWebApp/internal/database"
	"github.com/uucee/ClubWebApp/internal/models"
)

func setupFinanceTestDB() {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	db.Migrator().DropTable(&models.Payment{}, &models.Due{}, &models.Profile{}, &models.User{})

	if err := db.AutoMigrate(&models.User{}, &models.Profile{}, &models.Due{}, &models.Payment{}); err != nil {
		panic("failed to migrate database")
	}

	database.DB = db
	database.RedisClient = nil
}

func seedLedger(t *testing.T, memberID uint, dueAmounts string, paidAmounts string) {
	t.Helper()
	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	for _, amount := range strings.Fields(dueAmounts) {
		due := models.Due{
			MemberID:    memberID,
			AmountDue:   decimal.RequireFromString(amount),
			DueDate:     datatypes.Date(day),
			Description: "annual dues",
		}
		assert.NoError(t, database.DB.Create(&due).Error)
	}
	for _, amount := range strings.Fields(paidAmounts) {
		payment := models.Payment{
			MemberID:    memberID,
			AmountPaid:  decimal.RequireFromString(amount),
			PaymentDate: datatypes.Date(day),
			Description: "bank transfer",
		}
		assert.NoError(t, database.DB.Create(&payment).Error)
	}
}

func TestComputeBalanceEmptyLedgers(t *testing.T) {
	setupFinanceTestDB()

	member := createActiveMember(t, "Fresh", "Member", "fresh@example.com")

	balance, err := ComputeBalance(member.Profile.ID)
	assert.NoError(t, err)
	assert.True(t, balance.TotalDue.IsZero())
	assert.True(t, balance.TotalPaid.IsZero())
	assert.True(t, balance.CreditBalance.IsZero())
	assert.True(t, balance.AmountOwed.IsZero())
	assert.True(t, balance.UpToDate())
}

func TestComputeBalanceConventions(t *testing.T) {
	setupFinanceTestDB()

	member := createActiveMember(t, "In", "Arrears", "arrears@example.com")
	seedLedger(t, member.Profile.ID, "3000.00 2000.00", "1000.00 2000.00")

	balance, err := ComputeBalance(member.Profile.ID)
	assert.NoError(t, err)
	assert.Equal(t, "5000", balance.TotalDue.String())
	assert.Equal(t, "3000", balance.TotalPaid.String())
	assert.Equal(t, "2000", balance.AmountOwed.String())
	assert.Equal(t, "-2000", balance.CreditBalance.String())
	assert.False(t, balance.UpToDate())
	assert.Equal(t, "Overdue", balance.FinancialStatus())
}

func TestComputeBalanceCredit(t *testing.T) {
	setupFinanceTestDB()

	member := createActiveMember(t, "In", "Credit", "credit@example.com")
	seedLedger(t, member.Profile.ID, "1000.00", "1500.00")

	balance, err := ComputeBalance(member.Profile.ID)
	assert.NoError(t, err)
	assert.Equal(t, "500", balance.CreditBalance.String())
	assert.Equal(t, "-500", balance.AmountOwed.String())
	assert.True(t, balance.UpToDate())
	assert.Equal(t, "Up to Date", balance.FinancialStatus())
}

func TestAddDueAndPayment(t *testing.T) {
	setupFinanceTestDB()

	member := createActiveMember(t, "Ledger", "Owner", "ledger@example.com")
	when := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	due, err := AddDue(member.Profile.ID, decimal.RequireFromString("250.50"), when, "levy", fsActor())
	assert.NoError(t, err)
	assert.NotZero(t, due.ID)

	payment, err := AddPayment(member.Profile.ID, decimal.RequireFromString("100.00"), when, "cash", fsActor())
	assert.NoError(t, err)
	assert.NotZero(t, payment.ID)

	finances, err := FindMemberFinances(member.Profile.ID)
	assert.NoError(t, err)
	assert.Len(t, finances.Dues, 1)
	assert.Len(t, finances.Payments, 1)
	assert.Equal(t, "150.5", finances.Balance.AmountOwed.String())
}

func TestAddDueValidation(t *testing.T) {
	setupFinanceTestDB()

	member := createActiveMember(t, "Ledger", "Guard", "guard@example.com")
	when := time.Now()

	_, err := AddDue(member.Profile.ID, decimal.Zero, when, "", fsActor())
	assert.ErrorIs(t, err, ErrValidation)

	_, err = AddDue(member.Profile.ID, decimal.RequireFromString("-5"), when, "", fsActor())
	assert.ErrorIs(t, err, ErrValidation)

	_, err = AddPayment(member.Profile.ID, decimal.RequireFromString("10"), when, "", memberActor())
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = AddDue(99999, decimal.RequireFromString("10"), when, "", fsActor())
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestComputeClubReport(t *testing.T) {
	setupFinanceTestDB()

	createSuperuser(t)
	overdue := createActiveMember(t, "Bola", "Owes", "owes@example.com")
	settled := createActiveMember(t, "Ada", "Paid", "paid@example.com")
	seedLedger(t, overdue.Profile.ID, "5000.00", "3000.00")
	seedLedger(t, settled.Profile.ID, "5000.00", "5000.00")

	report, err := ComputeClubReport(ReportFilterAll)
	assert.NoError(t, err)
	assert.Len(t, report.Rows, 2)
	assert.Equal(t, 2, report.MemberCount)
	assert.Equal(t, 1, report.UpToDateCount)
	assert.Equal(t, "10000", report.TotalDue.String())
	assert.Equal(t, "8000", report.TotalPaid.String())
	assert.Equal(t, "2000", report.TotalOwed.String())

	// Ordered by last name: Owes before Paid
	assert.Equal(t, "Bola Owes", report.Rows[0].MemberName)
	assert.Equal(t, "Overdue", report.Rows[0].FinancialStatus)
	assert.Equal(t, "Up to Date", report.Rows[1].FinancialStatus)

	// Filters narrow the rows but not the totals
	filtered, err := ComputeClubReport(ReportFilterOverdue)
	assert.NoError(t, err)
	assert.Len(t, filtered.Rows, 1)
	assert.Equal(t, "Bola Owes", filtered.Rows[0].MemberName)
	assert.Equal(t, 2, filtered.MemberCount)
	assert.Equal(t, "10000", filtered.TotalDue.String())

	filtered, err = ComputeClubReport(ReportFilterUpToDate)
	assert.NoError(t, err)
	assert.Len(t, filtered.Rows, 1)
	assert.Equal(t, "Ada Paid", filtered.Rows[0].MemberName)
}

func TestComputeClubReportEmptyClub(t *testing.T) {
	setupFinanceTestDB()

	report, err := ComputeClubReport(ReportFilterAll)
	assert.NoError(t, err)
	assert.Empty(t, report.Rows)
	assert.Zero(t, report.MemberCount)
	assert.True(t, report.TotalDue.IsZero())
	assert.True(t, report.TotalOwed.IsZero())
}

func TestGenerateFinancialReportCSV(t *testing.T) {
	setupFinanceTestDB()

	member := createActiveMember(t, "Csv", "Member", "csv@example.com")
	seedLedger(t, member.Profile.ID, "5000.00", "3000.00")

	report, err := ComputeClubReport(ReportFilterAll)
	assert.NoError(t, err)

	data, err := GenerateFinancialReportCSV(report)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Equal(t, "Member Name,Total Dues,Total Payments,Balance,Status,Financial Status", lines[0])
	assert.Equal(t, "Csv Member,5000.00,3000.00,2000.00,Active,Overdue", lines[1])
	assert.Equal(t, "", lines[2])
	assert.Equal(t, "Total Dues:,5000.00", lines[3])
	assert.Equal(t, "Total Payments:,3000.00", lines[4])
	assert.Equal(t, "Total Balance:,2000.00", lines[5])
	assert.Equal(t, "Up to Date Members:,0/1", lines[6])
}
