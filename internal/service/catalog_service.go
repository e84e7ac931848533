package service

import (
	"errors"
	"fmt"

	"go-tindahan-pos/internal/apperr"
	"go-tindahan-pos/internal/model"
	"go-tindahan-pos/internal/repository"
	"go-tindahan-pos/internal/ws"
	"go-tindahan-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CatalogService interface {
	CreateProduct(req *model.Product) error
	UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error
	GetAllProducts() ([]model.Product, error)
	GetLowStockProducts() ([]model.Product, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewCatalogService(pRepo repository.ProductRepository, db *gorm.DB, hub *ws.Hub) CatalogService {
	return &catalogService{
		productRepo: pRepo,
		db:          db,
		wsHub:       hub,
	}
}

// firstValidationError converts the first field failure into a typed
// validation error, keeping the field-level detail for the caller.
func firstValidationError(errs []*validator.ErrorResponse) error {
	first := errs[0]
	msg := fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	return apperr.ValidationField(first.FailedField, msg)
}

func (s *catalogService) CreateProduct(req *model.Product) error {
	// 1. Validasi Struct Dasar
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return firstValidationError(errs)
	}

	// 2. Duplicate barcode check (Business Logic Validation)
	if req.Barcode != nil && *req.Barcode != "" {
		existing, _ := s.productRepo.FindByBarcode(*req.Barcode)
		if existing != nil && existing.ID != uuid.Nil {
			return apperr.Conflict("barcode already exists")
		}
	}

	// 3. Simpan ke Database
	if err := s.productRepo.Create(req); err != nil {
		return err
	}
	req.IsLowStock = req.Stock <= req.MinStock

	// 4. Broadcast ke WebSocket
	s.wsHub.Publish("stock_update", map[string]interface{}{
		"action": "product_created",
		"product": map[string]interface{}{
			"id":    req.ID,
			"name":  req.Name,
			"stock": req.Stock,
			"price": req.Price,
		},
	})

	return nil
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}

	var updated *model.Product

	// Transaction Block dengan Locking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.productRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Reference("product not found")
			}
			return err
		}

		oldStock := existing.Stock

		existing.Name = req.Name
		existing.Category = req.Category
		existing.Price = req.Price
		existing.Stock = req.Stock
		existing.MinStock = req.MinStock
		existing.Barcode = req.Barcode
		existing.Supplier = req.Supplier

		if err := tx.Save(existing).Error; err != nil {
			return err
		}
		existing.IsLowStock = existing.Stock <= existing.MinStock
		updated = existing

		s.wsHub.Publish("stock_update", map[string]interface{}{
			"action": "product_updated",
			"product": map[string]interface{}{
				"id":        existing.ID,
				"name":      existing.Name,
				"old_stock": oldStock,
				"new_stock": existing.Stock,
				"price":     existing.Price,
			},
		})

		return nil
	})

	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteProduct refuses to remove a product still referenced by sale
// history; discontinued items keep their rows so history stays intact.
func (s *catalogService) DeleteProduct(id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Reference("product not found")
		}
		return err
	}

	count, err := s.productRepo.CountReferencingItems(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict(fmt.Sprintf("product is referenced by %d sale item(s)", count))
	}

	return s.productRepo.Delete(id)
}

func (s *catalogService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *catalogService) GetLowStockProducts() ([]model.Product, error) {
	return s.productRepo.FindLowStock()
}

func (s *catalogService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Reference("product not found")
		}
		return nil, err
	}
	return product, nil
}
