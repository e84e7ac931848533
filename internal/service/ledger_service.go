package service

import (
	"errors"
	"time"

	"go-tindahan-pos/internal/apperr"
	"go-tindahan-pos/internal/model"
	"go-tindahan-pos/internal/repository"
	"go-tindahan-pos/internal/ws"
	"go-tindahan-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentRequest is a repayment applied against an utang record.
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"dec_positive"`
	Date   *time.Time      `json:"date,omitempty"`
	Note   string          `json:"note,omitempty"`
}

type LedgerService interface {
	CreateCustomer(req *model.Customer) error
	UpdateCustomer(id uuid.UUID, req *model.Customer) (*model.Customer, error)
	DeleteCustomer(id uuid.UUID) error
	GetAllCustomers() ([]model.Customer, error)
	GetCustomerByID(id uuid.UUID) (*model.Customer, error)

	GetUtangRecords(filter repository.UtangFilter) ([]model.UtangRecord, error)
	GetUtangRecordByID(id uuid.UUID) (*model.UtangRecord, error)
	ApplyPayment(recordID uuid.UUID, req *PaymentRequest) (*model.UtangRecord, error)
}

type ledgerService struct {
	customerRepo repository.CustomerRepository
	utangRepo    repository.UtangRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewLedgerService(
	cRepo repository.CustomerRepository,
	uRepo repository.UtangRepository,
	db *gorm.DB,
	hub *ws.Hub,
) LedgerService {
	return &ledgerService{
		customerRepo: cRepo,
		utangRepo:    uRepo,
		db:           db,
		wsHub:        hub,
	}
}

func (s *ledgerService) CreateCustomer(req *model.Customer) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return firstValidationError(errs)
	}

	// New customers always start with a clean ledger
	req.TotalUtang = decimal.Zero
	req.LastTransaction = nil

	return s.customerRepo.Create(req)
}

func (s *ledgerService) UpdateCustomer(id uuid.UUID, req *model.Customer) (*model.Customer, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}

	var updated *model.Customer

	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.customerRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Reference("customer not found")
			}
			return err
		}

		// total_utang is ledger-owned; only name and contact details move here
		existing.Name = req.Name
		existing.Phone = req.Phone
		existing.Address = req.Address

		if err := tx.Save(existing).Error; err != nil {
			return err
		}
		updated = existing
		return nil
	})

	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCustomer removes the customer and their utang history; past sales
// survive as walk-in transactions.
func (s *ledgerService) DeleteCustomer(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.customerRepo.FindByIDForUpdate(tx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Reference("customer not found")
			}
			return err
		}

		var recordIDs []uuid.UUID
		if err := tx.Model(&model.UtangRecord{}).
			Where("customer_id = ?", id).
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

		if err := tx.Model(&model.Transaction{}).
			Where("customer_id = ?", id).
			Update("customer_id", nil).Error; err != nil {
			return err
		}

		return s.customerRepo.Delete(tx, id)
	})
}

func (s *ledgerService) GetAllCustomers() ([]model.Customer, error) {
	return s.customerRepo.FindAll()
}

func (s *ledgerService) GetCustomerByID(id uuid.UUID) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Reference("customer not found")
		}
		return nil, err
	}
	return customer, nil
}

func (s *ledgerService) GetUtangRecords(filter repository.UtangFilter) ([]model.UtangRecord, error) {
	return s.utangRepo.FindAll(filter)
}

func (s *ledgerService) GetUtangRecordByID(id uuid.UUID) (*model.UtangRecord, error) {
	record, err := s.utangRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Reference("utang record not found")
		}
		return nil, err
	}
	return record, nil
}

// ApplyPayment persists the repayment, moves the record status, and walks
// the customer's cached balance back down, all in one DB transaction.
// A payment beyond the remaining balance is rejected, never clamped.
func (s *ledgerService) ApplyPayment(recordID uuid.UUID, req *PaymentRequest) (*model.UtangRecord, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		record, err := s.utangRepo.FindByIDForUpdate(tx, recordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Reference("utang record not found")
			}
			return err
		}

		remaining := record.Remaining()
		if req.Amount.GreaterThan(remaining) {
			return apperr.Consistency("payment exceeds remaining balance of " + remaining.StringFixed(2))
		}

		paidAt := time.Now()
		if req.Date != nil {
			paidAt = *req.Date
		}
		payment := model.Payment{
			UtangRecordID: record.ID,
			Amount:        req.Amount,
			Date:          paidAt,
			Note:          req.Note,
		}
		if err := s.utangRepo.CreatePayment(tx, &payment); err != nil {
			return err
		}

		cumulative := record.TotalPaid().Add(req.Amount)
		status := model.UtangPartial
		if cumulative.GreaterThanOrEqual(record.Amount) {
			status = model.UtangPaid
		} else if !cumulative.IsPositive() {
			status = model.UtangUnpaid
		}
		if err := s.utangRepo.UpdateStatus(tx, record.ID, status); err != nil {
			return err
		}

		return s.customerRepo.AdjustBalance(tx, record.CustomerID, req.Amount.Neg())
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.utangRepo.FindByID(recordID)
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish("payment_applied", map[string]interface{}{
		"utang_record": map[string]interface{}{
			"id":     updated.ID,
			"status": updated.Status,
			"paid":   updated.TotalPaid(),
			"amount": updated.Amount,
		},
	})

	return updated, nil
}
