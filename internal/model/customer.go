package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone   string `gorm:"type:varchar(50)" json:"phone"`
	Address string `gorm:"type:varchar(255)" json:"address"`

	// Cached aggregate of outstanding utang. Only mutated through
	// LedgerRepository.AdjustBalance inside a DB transaction.
	TotalUtang      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"total_utang"`
	LastTransaction *time.Time      `json:"last_transaction,omitempty"`

	// Relasi
	Transactions []Transaction `json:"transactions,omitempty"`
	UtangRecords []UtangRecord `gorm:"constraint:OnDelete:CASCADE;" json:"utang_records,omitempty"`
}
