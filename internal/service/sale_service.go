package service

import (
	"errors"
	"fmt"
	"strings"
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

// SaleItemRequest is one line of a sale payload. Clients name the product
// under any of several keys; ProductRef resolves them in priority order.
type SaleItemRequest struct {
	Product      string `json:"product"`
	ProductID    string `json:"product_id"`
	ProductIDAlt string `json:"productId"`

	Quantity int             `json:"quantity" validate:"required,gt=0"`
	Price    decimal.Decimal `json:"price" validate:"dec_gte_zero"`
	Total    decimal.Decimal `json:"total" validate:"dec_gte_zero"`
}

// ProductRef returns the product identifier, trying the accepted aliases
// in priority order: product, product_id, productId.
func (r *SaleItemRequest) ProductRef() (uuid.UUID, error) {
	for _, raw := range []string{r.Product, r.ProductID, r.ProductIDAlt} {
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, apperr.ValidationField("items.product", "invalid product id: "+raw)
		}
		return id, nil
	}
	return uuid.Nil, apperr.ValidationField("items.product", "missing product reference")
}

// CreateTransactionRequest is the sale header plus its ordered item list.
// Amounts are stored exactly as submitted; the server never recomputes
// them against each other.
type CreateTransactionRequest struct {
	CustomerID    *uuid.UUID              `json:"customer_id"`
	TotalAmount   decimal.Decimal         `json:"total_amount" validate:"dec_gte_zero"`
	AmountPaid    decimal.Decimal         `json:"amount_paid" validate:"dec_gte_zero"`
	Change        decimal.Decimal         `json:"change" validate:"dec_gte_zero"`
	UtangAmount   decimal.Decimal         `json:"utang_amount" validate:"dec_gte_zero"`
	PaymentMethod model.PaymentMethod     `json:"payment_method" validate:"required,oneof=cash utang partial"`
	Status        model.TransactionStatus `json:"status" validate:"required,oneof=completed pending"`
	DueDate       *time.Time              `json:"due_date,omitempty"`
	Items         []SaleItemRequest       `json:"items" validate:"required,min=1,dive"`
}

type SaleService interface {
	CreateTransaction(req *CreateTransactionRequest) (*model.Transaction, error)
	GetAllTransactions() ([]model.Transaction, error)
	GetTransactionByID(id uuid.UUID) (*model.Transaction, error)
	DeleteTransaction(id uuid.UUID) error
}

type saleService struct {
	productRepo     repository.ProductRepository
	customerRepo    repository.CustomerRepository
	transactionRepo repository.TransactionRepository
	db              *gorm.DB
	wsHub           *ws.Hub
}

func NewSaleService(
	pRepo repository.ProductRepository,
	cRepo repository.CustomerRepository,
	tRepo repository.TransactionRepository,
	db *gorm.DB,
	hub *ws.Hub,
) SaleService {
	return &saleService{
		productRepo:     pRepo,
		customerRepo:    cRepo,
		transactionRepo: tRepo,
		db:              db,
		wsHub:           hub,
	}
}

// CreateTransaction persists the sale header, its items, and any utang
// bookkeeping as one atomic unit: either every row lands and the customer
// balance moves, or nothing does.
func (s *saleService) CreateTransaction(req *CreateTransactionRequest) (*model.Transaction, error) {
	// 1. Validasi Input (before any persistence)
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}

	// 2. Cross-field rules
	if req.PaymentMethod == model.PayCash && req.UtangAmount.IsPositive() {
		return nil, apperr.ValidationField("utang_amount", "cash sale cannot carry utang")
	}
	if req.UtangAmount.IsPositive() && req.CustomerID == nil {
		return nil, apperr.ValidationField("customer_id", "utang requires a named customer")
	}

	// Resolve the product aliases up front so a malformed reference
	// rejects the request before anything is persisted
	productIDs := make([]uuid.UUID, len(req.Items))
	for i := range req.Items {
		id, err := req.Items[i].ProductRef()
		if err != nil {
			return nil, err
		}
		productIDs[i] = id
	}

	header := &model.Transaction{
		CustomerID:    req.CustomerID,
		TotalAmount:   req.TotalAmount,
		AmountPaid:    req.AmountPaid,
		Change:        req.Change,
		UtangAmount:   req.UtangAmount,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
	}

	// 3. Atomic unit: header, items, utang record, balance
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.CustomerID != nil {
			if _, err := s.customerRepo.FindByIDForUpdate(tx, *req.CustomerID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Reference("customer not found")
				}
				return err
			}
		}

		// Header first; items reference it by the generated ID
		if err := tx.Create(header).Error; err != nil {
			return err
		}

		itemNames := make([]string, 0, len(req.Items))
		for i, entry := range req.Items {
			product, err := s.productRepo.FindByIDForUpdate(tx, productIDs[i])
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Reference(fmt.Sprintf("product %s not found", productIDs[i]))
				}
				return err
			}

			if product.Stock < entry.Quantity {
				return apperr.Consistency(fmt.Sprintf("insufficient stock for '%s'", product.Name))
			}
			if err := s.productRepo.UpdateStock(tx, product.ID, product.Stock-entry.Quantity); err != nil {
				return err
			}

			item := model.TransactionItem{
				TransactionID: header.ID,
				ProductID:     product.ID,
				Quantity:      entry.Quantity,
				Price:         entry.Price,
				Total:         entry.Total,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			itemNames = append(itemNames, product.Name)
		}

		// 4. Utang bookkeeping
		if req.UtangAmount.IsPositive() {
			record := model.UtangRecord{
				CustomerID:    *req.CustomerID,
				TransactionID: header.ID,
				Amount:        req.UtangAmount,
				Description:   "Purchase - " + strings.Join(itemNames, ", "),
				DueDate:       req.DueDate,
				Status:        model.UtangUnpaid,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			if err := s.customerRepo.AdjustBalance(tx, *req.CustomerID, req.UtangAmount); err != nil {
				return err
			}
		}

		if req.CustomerID != nil {
			if err := s.customerRepo.TouchLastTransaction(tx, *req.CustomerID, time.Now()); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// 5. Full representation with generated IDs and denormalized product info
	created, err := s.transactionRepo.FindByID(header.ID)
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish("sale_recorded", map[string]interface{}{
		"transaction": map[string]interface{}{
			"id":             created.ID,
			"total_amount":   created.TotalAmount,
			"utang_amount":   created.UtangAmount,
			"payment_method": created.PaymentMethod,
			"items":          len(created.Items),
		},
		"customer": created.CustomerName(),
	})

	return created, nil
}

func (s *saleService) GetAllTransactions() ([]model.Transaction, error) {
	return s.transactionRepo.FindAll()
}

func (s *saleService) GetTransactionByID(id uuid.UUID) (*model.Transaction, error) {
	transaction, err := s.transactionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Reference("transaction not found")
		}
		return nil, err
	}
	return transaction, nil
}

func (s *saleService) DeleteTransaction(id uuid.UUID) error {
	if _, err := s.transactionRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Reference("transaction not found")
		}
		return err
	}
	return s.transactionRepo.Delete(id)
}
