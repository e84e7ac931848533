package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	BaseModel
	Name     string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category string          `gorm:"type:varchar(255);not null" json:"category" validate:"required"`
	Price    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price" validate:"dec_gte_zero"`
	Stock    int             `gorm:"not null;default:0" json:"stock" validate:"gte=0"`
	MinStock int             `gorm:"not null;default:0" json:"min_stock" validate:"gte=0"`
	Barcode  *string         `gorm:"type:varchar(255);uniqueIndex" json:"barcode,omitempty"`
	Supplier *string         `gorm:"type:varchar(255)" json:"supplier,omitempty"`

	// Derived on every read, never stored
	IsLowStock bool `gorm:"-" json:"is_low_stock"`
}

// AfterFind recomputes the low-stock flag each time a product is loaded.
func (p *Product) AfterFind(tx *gorm.DB) error {
	p.IsLowStock = p.Stock <= p.MinStock
	return nil
}
