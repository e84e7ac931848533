package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UtangStatus string

const (
	UtangUnpaid  UtangStatus = "unpaid"
	UtangPartial UtangStatus = "partial"
	UtangPaid    UtangStatus = "paid"
)

// UtangRecord is one instance of store credit extended to a customer,
// tied to the sale that created it.
type UtangRecord struct {
	BaseModel
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id" validate:"uuid_required"`
	Customer      *Customer       `json:"customer,omitempty" validate:"-"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id" validate:"uuid_required"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount" validate:"dec_positive"`
	Description   string          `gorm:"type:text" json:"description"`
	DueDate       *time.Time      `gorm:"type:date" json:"due_date,omitempty"`
	Status        UtangStatus     `gorm:"type:varchar(10);not null;default:'unpaid'" json:"status"`

	Payments []Payment `gorm:"constraint:OnDelete:CASCADE;" json:"payments"`
}

// TotalPaid sums the payments applied so far.
func (u *UtangRecord) TotalPaid() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range u.Payments {
		paid = paid.Add(p.Amount)
	}
	return paid
}

// Remaining is the balance still owed on this record.
func (u *UtangRecord) Remaining() decimal.Decimal {
	return u.Amount.Sub(u.TotalPaid())
}

// Payment is append-only; once created it is never mutated.
type Payment struct {
	BaseModel
	UtangRecordID uuid.UUID       `gorm:"type:uuid;not null;index" json:"utang_record_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Date          time.Time       `gorm:"not null" json:"date"`
	Note          string          `gorm:"type:text" json:"note,omitempty"`
}
