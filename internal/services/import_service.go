package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/uucee/ClubWebApp/internal/models"
)

// ImportRow is one parsed line of a member-upload CSV. RowNum is the
// line number in the uploaded file (the header is row 1, so data starts
// at 2) and is echoed back in error reports.
type ImportRow struct {
	RowNum    int
	FirstName string
	LastName  string
	Email     string
	Role      string
}

// ImportError ties a failure reason to the row that caused it.
type ImportError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult aggregates the outcome of a bulk import.
type ImportResult struct {
	SuccessCount int           `json:"success_count"`
	Errors       []ImportError `json:"errors"`
}

var requiredImportColumns = []string{"first_name", "last_name", "email", "role"}

// ParseMembersCSV reads the upload into rows. Missing required columns
// are reported before any row is looked at.
func ParseMembersCSV(r io.Reader) ([]ImportRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, validationError("could not read CSV header")
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	var missing []string
	for _, col := range requiredImportColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, validationError(fmt.Sprintf("CSV file missing required columns: %s", strings.Join(missing, ", ")))
	}

	var rows []ImportRow
	rowNum := 1 // header consumed above
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			rows = append(rows, ImportRow{RowNum: rowNum})
			continue // malformed line surfaces as a per-row failure later
		}

		get := func(col string) string {
			i := index[col]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		rows = append(rows, ImportRow{
			RowNum:    rowNum,
			FirstName: get("first_name"),
			LastName:  get("last_name"),
			Email:     strings.ToLower(get("email")),
			Role:      strings.ToUpper(get("role")),
		})
	}

	return rows, nil
}

// BulkImport creates a member per row. Rows are processed independently:
// one row's failure never aborts the rest, and each row's Identity+Profile
// pair is created all-or-nothing inside its own transaction.
func BulkImport(rows []ImportRow, actor models.Member, sendInvite bool) ImportResult {
	result := ImportResult{Errors: []ImportError{}}

	for _, row := range rows {
		if row.FirstName == "" || row.LastName == "" || row.Email == "" {
			result.Errors = append(result.Errors, ImportError{
				Row:    row.RowNum,
				Reason: "missing required fields",
			})
			continue
		}

		_, err := IssueInvitation(CreateMemberInput{
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Email:     row.Email,
			Role:      parseImportRole(row.Role),
		}, actor, sendInvite)
		if err != nil && !errors.Is(err, ErrInviteNotSent) {
			result.Errors = append(result.Errors, ImportError{
				Row:    row.RowNum,
				Reason: err.Error(),
			})
			continue
		}
		result.SuccessCount++
	}

	return result
}

// parseImportRole maps CSV role names onto role codes. Anything
// unrecognized falls back to plain membership; whether an elevated role
// sticks is decided by the caller's permissions, not the CSV.
func parseImportRole(raw string) models.Role {
	switch raw {
	case "ADMIN", "ADM":
		return models.RoleAdmin
	case "FINANCIAL_SECRETARY", "FS":
		return models.RoleFinancialSecretary
	default:
		return models.RoleMember
	}
}
