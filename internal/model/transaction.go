package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PayCash    PaymentMethod = "cash"
	PayUtang   PaymentMethod = "utang"
	PayPartial PaymentMethod = "partial"
)

type TransactionStatus string

const (
	TxCompleted TransactionStatus = "completed"
	TxPending   TransactionStatus = "pending"
)

// Transaction is one sale: a header plus its line items, created
// atomically and immutable afterwards.
type Transaction struct {
	BaseModel
	CustomerID    *uuid.UUID        `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Customer      *Customer         `json:"customer,omitempty" validate:"-"`
	TotalAmount   decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	AmountPaid    decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"amount_paid"`
	Change        decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"change"`
	UtangAmount   decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"utang_amount"`
	PaymentMethod PaymentMethod     `gorm:"type:varchar(10);not null" json:"payment_method" validate:"required,oneof=cash utang partial"`
	Status        TransactionStatus `gorm:"type:varchar(10);not null" json:"status" validate:"required,oneof=completed pending"`

	Items        []TransactionItem `gorm:"constraint:OnDelete:CASCADE;" json:"items" validate:"-"`
	UtangRecords []UtangRecord     `gorm:"constraint:OnDelete:CASCADE;" json:"utang_records,omitempty"`
}

// CustomerName denormalizes the customer for display, empty for walk-ins.
func (t *Transaction) CustomerName() string {
	if t.Customer == nil {
		return ""
	}
	return t.Customer.Name
}

// TransactionItem snapshots price at sale time; later Product.Price
// changes never touch sale history.
type TransactionItem struct {
	BaseModel
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product       *Product        `json:"product,omitempty" validate:"-"`
	Quantity      int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Total         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`

	// Denormalized for display
	ProductName string `gorm:"-" json:"product_name"`
}
