package models

import "time"

// DebtDirection says who owes whom.
type DebtDirection string

const (
	DebtOwedByMe DebtDirection = "owed_by_me"
	DebtOwedToMe DebtDirection = "owed_to_me"
)

// Valid reports whether d is a known direction.
func (d DebtDirection) Valid() bool {
	return d == DebtOwedByMe || d == DebtOwedToMe
}

// DebtStatus is derived from the paid amount on every write.
type DebtStatus string

const (
	DebtStatusPending DebtStatus = "pending"
	DebtStatusPaid    DebtStatus = "paid"
)

// Debt tracks an amount owed in either direction. Amounts are minor units.
type Debt struct {
	Base
	UserID      string        `gorm:"type:uuid;not null;index" json:"user_id"`
	PersonName  string        `gorm:"not null" json:"person_name"`
	Direction   DebtDirection `gorm:"type:varchar(16);not null;index" json:"direction"`
	Amount      int64         `gorm:"type:bigint;not null" json:"amount"`
	AmountPaid  int64         `gorm:"type:bigint;not null;default:0" json:"amount_paid"`
	Status      DebtStatus    `gorm:"type:varchar(16);not null;index" json:"status"`
	Description string        `json:"description,omitempty"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
}

// Remaining is the unpaid part of the debt.
func (d Debt) Remaining() int64 {
	return d.Amount - d.AmountPaid
}

// DeriveStatus sets Status from Amount and AmountPaid.
func (d *Debt) DeriveStatus() {
	if d.AmountPaid >= d.Amount {
		d.Status = DebtStatusPaid
		return
	}
	d.Status = DebtStatusPending
}
