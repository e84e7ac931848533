package repository

import (
	"go-tindahan-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UtangFilter narrows record listings; zero values mean "any".
type UtangFilter struct {
	CustomerID *uuid.UUID
	Status     model.UtangStatus
}

type UtangRepository interface {
	FindAll(filter UtangFilter) ([]model.UtangRecord, error)
	FindByID(id uuid.UUID) (*model.UtangRecord, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.UtangRecord, error)
	CreatePayment(tx *gorm.DB, payment *model.Payment) error
	UpdateStatus(tx *gorm.DB, id uuid.UUID, status model.UtangStatus) error
}

type utangRepo struct {
	db *gorm.DB
}

func NewUtangRepo(db *gorm.DB) UtangRepository {
	return &utangRepo{db}
}

func (r *utangRepo) FindAll(filter UtangFilter) ([]model.UtangRecord, error) {
	query := r.db.Preload("Payments").Preload("Customer").Order("created_at DESC")
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var records []model.UtangRecord
	err := query.Find(&records).Error
	return records, err
}

func (r *utangRepo) FindByID(id uuid.UUID) (*model.UtangRecord, error) {
	var record model.UtangRecord
	err := r.db.Preload("Payments").Preload("Customer").First(&record, "id = ?", id).Error
	return &record, err
}

// FindByIDForUpdate locks the record row; payments are loaded under the
// same transaction so the cumulative sum cannot race a concurrent payment.
func (r *utangRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.UtangRecord, error) {
	var record model.UtangRecord
	if err := lockForUpdate(tx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("utang_record_id = ?", id).Find(&record.Payments).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *utangRepo) CreatePayment(tx *gorm.DB, payment *model.Payment) error {
	return tx.Create(payment).Error
}

func (r *utangRepo) UpdateStatus(tx *gorm.DB, id uuid.UUID, status model.UtangStatus) error {
	return tx.Model(&model.UtangRecord{}).
		Where("id = ?", id).
		Update("status", status).Error
}
