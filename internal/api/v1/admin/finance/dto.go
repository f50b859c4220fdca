package finance

import (
	"github.com/shopspring/decimal"

	"github.com/uucee/ClubWebApp/internal/api/v1/profile"
	"github.com/uucee/ClubWebApp/internal/services"
)

// LedgerEntryRequest appends a due or a payment to a member's ledger.
// Date format is YYYY-MM-DD.
type LedgerEntryRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Date        string          `json:"date" binding:"required"`
	Description string          `json:"description"`
}

type MemberFinancesResponse struct {
	Member   profile.MemberResponse  `json:"member"`
	Finances services.MemberFinances `json:"finances"`
}
