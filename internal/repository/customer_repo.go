package repository

import (
	"time"

	"go-tindahan-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	FindAll() ([]model.Customer, error)
	FindByID(id uuid.UUID) (*model.Customer, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Customer, error)
	Update(customer *model.Customer) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	AdjustBalance(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error
	TouchLastTransaction(tx *gorm.DB, id uuid.UUID, at time.Time) error
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(customer *model.Customer) error {
	return r.db.Create(customer).Error
}

func (r *customerRepo) FindAll() ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) FindByID(id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.First(&customer, "id = ?", id).Error
	return &customer, err
}

func (r *customerRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	err := lockForUpdate(tx).First(&customer, "id = ?", id).Error
	return &customer, err
}

func (r *customerRepo) Update(customer *model.Customer) error {
	return r.db.Save(customer).Error
}

func (r *customerRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Customer{}, "id = ?", id).Error
}

// AdjustBalance is the single mutation path for the cached total_utang
// aggregate. Caller must hold a DB transaction; the row is locked and the
// balance floored at zero so a bookkeeping drift can never go negative.
func (r *customerRepo) AdjustBalance(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	var customer model.Customer
	if err := lockForUpdate(tx).First(&customer, "id = ?", id).Error; err != nil {
		return err
	}

	newBalance := customer.TotalUtang.Add(delta)
	if newBalance.IsNegative() {
		newBalance = decimal.Zero
	}

	return tx.Model(&model.Customer{}).
		Where("id = ?", id).
		Update("total_utang", newBalance).Error
}

func (r *customerRepo) TouchLastTransaction(tx *gorm.DB, id uuid.UUID, at time.Time) error {
	return tx.Model(&model.Customer{}).
		Where("id = ?", id).
		Update("last_transaction", at).Error
}
