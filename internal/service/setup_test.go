package service

import (
	"testing"

	"go-tindahan-pos/internal/model"
	"go-tindahan-pos/internal/repository"
	"go-tindahan-pos/internal/ws"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database pinned to a single
// connection so GORM transactions see the same store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Product{},
		&model.Customer{},
		&model.Transaction{},
		&model.TransactionItem{},
		&model.UtangRecord{},
		&model.Payment{},
	))

	return db
}

type testEnv struct {
	db      *gorm.DB
	catalog CatalogService
	sales   SaleService
	ledger  LedgerService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	hub := ws.NewHub()
	go hub.Run()

	productRepo := repository.NewProductRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	utangRepo := repository.NewUtangRepo(db)

	return &testEnv{
		db:      db,
		catalog: NewCatalogService(productRepo, db, hub),
		sales:   NewSaleService(productRepo, customerRepo, txRepo, db, hub),
		ledger:  NewLedgerService(customerRepo, utangRepo, db, hub),
	}
}

func (e *testEnv) seedProduct(t *testing.T, name string, price decimal.Decimal, stock int) *model.Product {
	t.Helper()

	product := &model.Product{
		Name:     name,
		Category: "sari-sari",
		Price:    price,
		Stock:    stock,
		MinStock: 2,
	}
	require.NoError(t, e.db.Create(product).Error)
	return product
}

func (e *testEnv) seedCustomer(t *testing.T, name string) *model.Customer {
	t.Helper()

	customer := &model.Customer{
		Name:       name,
		Phone:      "09171234567",
		TotalUtang: decimal.Zero,
	}
	require.NoError(t, e.db.Create(customer).Error)
	return customer
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
