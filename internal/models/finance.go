package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Due is an amount owed by a member for a billing period. Rows are
// append-only; corrections are made with offsetting entries.
type Due struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	MemberID    uint            `gorm:"index;not null" json:"member_id"`
	Member      Profile         `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"-"`
	AmountDue   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount_due"`
	DueDate     datatypes.Date  `gorm:"not null" json:"due_date"`
	Description string          `gorm:"type:varchar(255)" json:"description"`
}

// Payment is an amount paid by a member. Append-only.
type Payment struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	MemberID    uint            `gorm:"index;not null" json:"member_id"`
	Member      Profile         `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"-"`
	AmountPaid  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount_paid"`
	PaymentDate datatypes.Date  `gorm:"not null" json:"payment_date"`
	Description string          `gorm:"type:varchar(255)" json:"description"`
}
