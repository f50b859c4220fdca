package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/uucee/ClubWebApp/internal/database"
	"github.com/uucee/ClubWebApp/internal/models"
	"github.com/uucee/ClubWebApp/internal/permissions"
)

// BalanceSummary carries both sign conventions under distinct names so no
// caller ever has to guess what "balance" means. CreditBalance is
// paid−due (positive = member in credit); AmountOwed is due−paid
// (positive = member owes money).
type BalanceSummary struct {
	TotalDue      decimal.Decimal `json:"total_due"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
	AmountOwed    decimal.Decimal `json:"amount_owed"`
}

// UpToDate reports whether the member owes nothing.
func (b BalanceSummary) UpToDate() bool {
	return b.AmountOwed.Sign() <= 0
}

// FinancialStatus is the human-readable form used in reports.
func (b BalanceSummary) FinancialStatus() string {
	if b.UpToDate() {
		return "Up to Date"
	}
	return "Overdue"
}

// ComputeBalance sums the two ledgers for one member. Empty ledgers
// yield zeros, never an error.
func ComputeBalance(memberID uint) (BalanceSummary, error) {
	var summary BalanceSummary

	totalDue, err := sumColumn(&models.Due{}, "amount_due", memberID)
	if err != nil {
		return summary, err
	}
	totalPaid, err := sumColumn(&models.Payment{}, "amount_paid", memberID)
	if err != nil {
		return summary, err
	}

	summary.TotalDue = totalDue
	summary.TotalPaid = totalPaid
	summary.CreditBalance = totalPaid.Sub(totalDue)
	summary.AmountOwed = totalDue.Sub(totalPaid)
	return summary, nil
}

func sumColumn(model interface{}, column string, memberID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := database.DB.Model(model).
		Where("member_id = ?", memberID).
		Select(fmt.Sprintf("COALESCE(SUM(%s), 0)", column)).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// AddDue appends a row to the dues ledger.
func AddDue(memberID uint, amount decimal.Decimal, dueDate time.Time, description string, actor models.Member) (*models.Due, error) {
	if d := permissions.Check(actor, permissions.ManageFinances); !d.Allowed {
		return nil, permissionError(d)
	}
	if amount.Sign() <= 0 {
		return nil, validationError("amount must be positive")
	}
	if _, err := FindMemberByProfileID(memberID); err != nil {
		return nil, err
	}

	due := models.Due{
		MemberID:    memberID,
		AmountDue:   amount,
		DueDate:     datatypes.Date(dueDate),
		Description: description,
	}
	if err := database.DB.Create(&due).Error; err != nil {
		return nil, err
	}
	return &due, nil
}

// AddPayment appends a row to the payments ledger.
func AddPayment(memberID uint, amount decimal.Decimal, paymentDate time.Time, description string, actor models.Member) (*models.Payment, error) {
	if d := permissions.Check(actor, permissions.ManageFinances); !d.Allowed {
		return nil, permissionError(d)
	}
	if amount.Sign() <= 0 {
		return nil, validationError("amount must be positive")
	}
	if _, err := FindMemberByProfileID(memberID); err != nil {
		return nil, err
	}

	payment := models.Payment{
		MemberID:    memberID,
		AmountPaid:  amount,
		PaymentDate: datatypes.Date(paymentDate),
		Description: description,
	}
	if err := database.DB.Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// MemberFinances bundles a member's ledgers and balance for detail views.
type MemberFinances struct {
	Dues     []models.Due     `json:"dues"`
	Payments []models.Payment `json:"payments"`
	Balance  BalanceSummary   `json:"balance"`
}

// FindMemberFinances returns both ledgers (newest first) and the balance.
func FindMemberFinances(memberID uint) (MemberFinances, error) {
	var finances MemberFinances

	if err := database.DB.Where("member_id = ?", memberID).
		Order("due_date desc").Find(&finances.Dues).Error; err != nil {
		return finances, err
	}
	if err := database.DB.Where("member_id = ?", memberID).
		Order("payment_date desc").Find(&finances.Payments).Error; err != nil {
		return finances, err
	}

	balance, err := ComputeBalance(memberID)
	if err != nil {
		return finances, err
	}
	finances.Balance = balance
	return finances, nil
}

// ReportFilter narrows the club report by financial standing.
type ReportFilter string

const (
	ReportFilterAll      ReportFilter = ""
	ReportFilterUpToDate ReportFilter = "up_to_date"
	ReportFilterOverdue  ReportFilter = "overdue"
)

func (f ReportFilter) Valid() bool {
	switch f {
	case ReportFilterAll, ReportFilterUpToDate, ReportFilterOverdue:
		return true
	}
	return false
}

// ReportRow is one member's line in the club-wide report.
type ReportRow struct {
	ProfileID       uint            `json:"profile_id"`
	MemberName      string          `json:"member_name"`
	TotalDue        decimal.Decimal `json:"total_due"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	AmountOwed      decimal.Decimal `json:"amount_owed"`
	Status          string          `json:"status"`
	FinancialStatus string          `json:"financial_status"`
}

// ClubReport aggregates every non-superuser, non-staff member.
type ClubReport struct {
	Rows          []ReportRow     `json:"rows"`
	TotalDue      decimal.Decimal `json:"total_due"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	TotalOwed     decimal.Decimal `json:"total_owed"`
	UpToDateCount int             `json:"up_to_date_count"`
	MemberCount   int             `json:"member_count"`
}

// ComputeClubReport builds the club-wide financial report. The report
// uses the owed convention (due−paid) throughout; zero matching members
// produce zero totals.
func ComputeClubReport(filter ReportFilter) (ClubReport, error) {
	report := ClubReport{
		Rows:      []ReportRow{},
		TotalDue:  decimal.Zero,
		TotalPaid: decimal.Zero,
		TotalOwed: decimal.Zero,
	}

	var profiles []models.Profile
	err := database.DB.
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("users.is_superuser = ? AND users.is_staff = ?", false, false).
		Order("users.last_name asc, users.first_name asc").
		Preload("User").
		Find(&profiles).Error
	if err != nil {
		return report, err
	}

	dueTotals, err := sumByMember(&models.Due{}, "amount_due")
	if err != nil {
		return report, err
	}
	paidTotals, err := sumByMember(&models.Payment{}, "amount_paid")
	if err != nil {
		return report, err
	}

	for _, p := range profiles {
		totalDue := dueTotals[p.ID]
		totalPaid := paidTotals[p.ID]
		owed := totalDue.Sub(totalPaid)

		summary := BalanceSummary{
			TotalDue:      totalDue,
			TotalPaid:     totalPaid,
			CreditBalance: totalPaid.Sub(totalDue),
			AmountOwed:    owed,
		}

		report.MemberCount++
		if summary.UpToDate() {
			report.UpToDateCount++
		}
		report.TotalDue = report.TotalDue.Add(totalDue)
		report.TotalPaid = report.TotalPaid.Add(totalPaid)
		report.TotalOwed = report.TotalOwed.Add(owed)

		if filter == ReportFilterUpToDate && !summary.UpToDate() {
			continue
		}
		if filter == ReportFilterOverdue && summary.UpToDate() {
			continue
		}

		report.Rows = append(report.Rows, ReportRow{
			ProfileID:       p.ID,
			MemberName:      p.User.FullName(),
			TotalDue:        totalDue,
			TotalPaid:       totalPaid,
			AmountOwed:      owed,
			Status:          p.Status.Display(),
			FinancialStatus: summary.FinancialStatus(),
		})
	}

	return report, nil
}

type memberTotal struct {
	MemberID uint
	Total    decimal.Decimal
}

func sumByMember(model interface{}, column string) (map[uint]decimal.Decimal, error) {
	var rows []memberTotal
	err := database.DB.Model(model).
		Select(fmt.Sprintf("member_id, COALESCE(SUM(%s), 0) as total", column)).
		Group("member_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[uint]decimal.Decimal, len(rows))
	for _, r := range rows {
		totals[r.MemberID] = r.Total
	}
	return totals, nil
}

// GenerateFinancialReportCSV renders the club report in the export
// layout: header row, one row per member, a blank row, then a summary
// block.
func GenerateFinancialReportCSV(report ClubReport) ([]byte, error) {
	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"Member Name", "Total Dues", "Total Payments", "Balance", "Status", "Financial Status"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range report.Rows {
		record := []string{
			row.MemberName,
			row.TotalDue.StringFixed(2),
			row.TotalPaid.StringFixed(2),
			row.AmountOwed.StringFixed(2),
			row.Status,
			row.FinancialStatus,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	if err := w.Write([]string{}); err != nil {
		return nil, err
	}
	summary := [][]string{
		{"Total Dues:", report.TotalDue.StringFixed(2)},
		{"Total Payments:", report.TotalPaid.StringFixed(2)},
		{"Total Balance:", report.TotalOwed.StringFixed(2)},
		{"Up to Date Members:", fmt.Sprintf("%d/%d", report.UpToDateCount, report.MemberCount)},
	}
	for _, record := range summary {
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
