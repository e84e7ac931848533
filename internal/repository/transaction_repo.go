package repository

import (
	"go-tindahan-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	FindAll() ([]model.Transaction, error)
	FindByID(id uuid.UUID) (*model.Transaction, error)
	Delete(id uuid.UUID) error
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) FindAll() ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.
		Preload("Items.Product").
		Preload("Customer").
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	for i := range transactions {
		denormalizeItems(&transactions[i])
	}
	return transactions, nil
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.
		Preload("Items.Product").
		Preload("Customer").
		Preload("UtangRecords.Payments").
		First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	denormalizeItems(&transaction)
	return &transaction, nil
}

// Delete removes a sale and everything hanging off it. Soft deletes do not
// cascade through GORM, so children go explicitly, inside one transaction.
func (r *transactionRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var recordIDs []uuid.UUID
		if err := tx.Model(&model.UtangRecord{}).
			Where("transaction_id = ?", id).
			Pluck("id", &recordIDs).Error; err != nil {
			return err
		}
		if len(recordIDs) > 0 {
			if err := tx.Delete(&model.Payment{}, "utang_record_id IN ?", recordIDs).Error; err != nil {
				return err
			}
			if err := tx.Delete(&model.UtangRecord{}, "id IN ?", recordIDs).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&model.TransactionItem{}, "transaction_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Transaction{}, "id = ?", id).Error
	})
}

func denormalizeItems(t *model.Transaction) {
	for i := range t.Items {
		if t.Items[i].Product != nil {
			t.Items[i].ProductName = t.Items[i].Product.Name
		}
	}
}
