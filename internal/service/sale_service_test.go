package service

import (
	"testing"

	"go-tindahan-pos/internal/apperr"
	"go-tindahan-pos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTransactionPersistsAllItems(t *testing.T) {
	env := newTestEnv(t)
	p1 := env.seedProduct(t, "Lucky Me Pancit Canton", dec("15.00"), 20)
	p2 := env.seedProduct(t, "Kopiko Black", dec("10.00"), 20)

	req := &CreateTransactionRequest{
		TotalAmount:   dec("55.00"),
		AmountPaid:    dec("55.00"),
		Change:        dec("0.00"),
		UtangAmount:   dec("0.00"),
		PaymentMethod: model.PayCash,
		Status:        model.TxCompleted,
		Items: []SaleItemRequest{
			{ProductID: p1.ID.String(), Quantity: 3, Price: dec("15.00"), Total: dec("45.00")},
			{ProductID: p2.ID.String(), Quantity: 1, Price: dec("10.00"), Total: dec("10.00")},
		},
	}

	created, err := env.sales.CreateTransaction(req)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Len(t, created.Items, 2)

	for _, item := range created.Items {
		assert.Equal(t, created.ID, item.TransactionID)
		assert.NotEqual(t, uuid.Nil, item.ID)
		assert.NotEmpty(t, item.ProductName)
	}

	// Caller-supplied amounts are stored verbatim, never recomputed
	assert.Equal(t, "55.00", created.TotalAmount.StringFixed(2))

	var itemCount int64
	env.db.Model(&model.TransactionItem{}).Count(&itemCount)
	assert.Equal(t, int64(2), itemCount)
}

func TestCreateTransactionKeepsSubmittedTotals(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Sky Flakes", dec("8.00"), 10)

	// Header total deliberately disagrees with the line total
	req := &CreateTransactionRequest{
		TotalAmount:   dec("99.00"),
		AmountPaid:    dec("99.00"),
		Change:        dec("0.00"),
		UtangAmount:   dec("0.00"),
		PaymentMethod: model.PayCash,
		Status:        model.TxCompleted,
		Items: []SaleItemRequest{
			{ProductID: p.ID.String(), Quantity: 1, Price: dec("8.00"), Total: dec("8.00")},
		},
	}

	created, err := env.sales.CreateTransaction(req)
	require.NoError(t, err)
	assert.Equal(t, "99.00", created.TotalAmount.StringFixed(2))
	assert.Equal(t, "8.00", created.Items[0].Total.StringFixed(2))
}

func TestCreateTransactionUnknownProductRollsBack(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "C2 Apple", dec("20.00"), 10)

	req := &CreateTransactionRequest{
		TotalAmount:   dec("40.00"),
		AmountPaid:    dec("40.00"),
		Change:        dec("0.00"),
		UtangAmount:   dec("0.00"),
		PaymentMethod: model.PayCash,
		Status:        model.TxCompleted,
		Items: []SaleItemRequest{
			{ProductID: p.ID.String(), Quantity: 1, Price: dec("20.00"), Total: dec("20.00")},
			{ProductID: uuid.NewString(), Quantity: 1, Price: dec("20.00"), Total: dec("20.00")},
		},
	}

	_, err := env.sales.CreateTransaction(req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindReference, apperr.KindOf(err))

	// Atomicity: no header, no items, stock untouched
	var txCount, itemCount int64
	env.db.Model(&model.Transaction{}).Count(&txCount)
	env.db.Model(&model.TransactionItem{}).Count(&itemCount)
	assert.Equal(t, int64(0), txCount)
	assert.Equal(t, int64(0), itemCount)

	var reloaded model.Product
	require.NoError(t, env.db.First(&reloaded, "id = ?", p.ID).Error)
	assert.Equal(t, 10, reloaded.Stock)
}

func TestCreateTransactionDecrementsStock(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Bear Brand Sachet", dec("12.00"), 10)

	req := &CreateTransactionRequest{
		TotalAmount:   dec("36.00"),
		AmountPaid:    dec("36.00"),
		Change:        dec("0.00"),
		UtangAmount:   dec("0.00"),
		PaymentMethod: model.PayCash,
		Status:        model.TxCompleted,
		Items: []SaleItemRequest{
			{ProductID: p.ID.String(), Quantity: 3, Price: dec("12.00"), Total: dec("36.00")},
		},
	}

	_, err := env.sales.CreateTransaction(req)
	require.NoError(t, err)

	var reloaded model.Product
	require.NoError(t, env.db.First(&reloaded, "id = ?", p.ID).Error)
	assert.Equal(t, 7, reloaded.Stock)
}

func TestCreateTransactionInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Chippy", dec("18.00"), 2)

	req := &CreateTransactionRequest{
		TotalAmount:   dec("90.00"),
		AmountPaid:    dec("90.00"),
		Change:        dec("0.00"),
		UtangAmount:   dec("0.00"),
		PaymentMethod: model.PayCash,
		Status:        model.TxCompleted,
		Items: []SaleItemRequest{
			{ProductID: p.ID.String(), Quantity: 5, Price: dec("18.00"), Total: dec("90.00")},
		},
	}

	_, err := env.sales.CreateTransaction(req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConsistency, apperr.KindOf(err))

	var txCount int64
	env.db.Model(&model.Transaction{}).Count(&txCount)
	assert.Equal(t, int64(0), txCount)
}

func TestCreateTransactionWithUtang(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Bigas 1kg", dec("50.00"), 10)
	customer := env.seedCustomer(t, "Aling Nena")

	req := &CreateTransactionRequest{
		CustomerID:    &customer.ID,
		TotalAmount:   dec("100.00"),
		AmountPaid:    dec("50.00"),
		Change:        dec("0.00"),
		UtangAmount:   dec("50.00"),
		PaymentMethod: model.PayPartial,
		Status:        model.TxCompleted,
		Items: []SaleItemRequest{
			{ProductID: p.ID.String(), Quantity: 2, Price: dec("50.00"), Total: dec("100.00")},
		},
	}

	created, err := env.sales.CreateTransaction(req)
	require.NoError(t, err)

	var record model.UtangRecord
	require.NoError(t, env.db.First(&record, "transaction_id = ?", created.ID).Error)
	assert.Equal(t, "50.00", record.Amount.StringFixed(2))
	assert.Equal(t, model.UtangUnpaid, record.Status)
	assert.Equal(t, customer.ID, record.CustomerID)
	assert.Contains(t, record.Description, "Bigas 1kg")

	var reloaded model.Customer
	require.NoError(t, env.db.First(&reloaded, "id = ?", customer.ID).Error)
	assert.Equal(t, "50.00", reloaded.TotalUtang.StringFixed(2))
	assert.NotNil(t, reloaded.LastTransaction)
}

func TestCreateTransactionCashCannotCarryUtang(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Sardinas", dec("25.00"), 10)
	customer := env.seedCustomer(t, "Mang Tomas")

	req := &CreateTransactionRequest{
		CustomerID:    &customer.ID,
		TotalAmount:   dec("25.00"),
		AmountPaid:    dec("0.00"),
		Change:        dec("0.00"),
		UtangAmount:   dec("25.00"),
		PaymentMethod: model.PayCash,
		Status:        model.TxCompleted,
		Items: []SaleItemRequest{
			{ProductID: p.ID.String(), Quantity: 1, Price: dec("25.00"), Total: dec("25.00")},
		},
	}

	_, err := env.sales.CreateTransaction(req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateTransactionUtangNeedsCustomer(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Suka", dec("15.00"), 10)

	req := &CreateTransactionRequest{
		TotalAmount:   dec("15.00"),
		AmountPaid:    dec("0.00"),
		Change:        dec("0.00"),
		UtangAmount:   dec("15.00"),
		PaymentMethod: model.PayUtang,
		Status:        model.TxCompleted,
		Items: []SaleItemRequest{
			{ProductID: p.ID.String(), Quantity: 1, Price: dec("15.00"), Total: dec("15.00")},
		},
	}

	_, err := env.sales.CreateTransaction(req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	var txCount int64
	env.db.Model(&model.Transaction{}).Count(&txCount)
	assert.Equal(t, int64(0), txCount)
}

func TestCreateTransactionUnknownCustomer(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Toyo", dec("15.00"), 10)
	ghost := uuid.New()

	req := &CreateTransactionRequest{
		CustomerID:    &ghost,
		TotalAmount:   dec("15.00"),
		AmountPaid:    dec("0.00"),
		Change:        dec("0.00"),
		UtangAmount:   dec("15.00"),
		PaymentMethod: model.PayUtang,
		Status:        model.TxCompleted,
		Items: []SaleItemRequest{
			{ProductID: p.ID.String(), Quantity: 1, Price: dec("15.00"), Total: dec("15.00")},
		},
	}

	_, err := env.sales.CreateTransaction(req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindReference, apperr.KindOf(err))
}

func TestCreateTransactionRequiresItems(t *testing.T) {
	env := newTestEnv(t)

	req := &CreateTransactionRequest{
		TotalAmount:   dec("0.00"),
		AmountPaid:    dec("0.00"),
		Change:        dec("0.00"),
		UtangAmount:   dec("0.00"),
		PaymentMethod: model.PayCash,
		Status:        model.TxCompleted,
	}

	_, err := env.sales.CreateTransaction(req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestProductReferenceAliases(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Asin", dec("10.00"), 10)
	other := env.seedProduct(t, "Paminta", dec("12.00"), 10)

	// camelCase alias alone is accepted
	req := &CreateTransactionRequest{
		TotalAmount:   dec("10.00"),
		AmountPaid:    dec("10.00"),
		Change:        dec("0.00"),
		UtangAmount:   dec("0.00"),
		PaymentMethod: model.PayCash,
		Status:        model.TxCompleted,
		Items: []SaleItemRequest{
			{ProductIDAlt: p.ID.String(), Quantity: 1, Price: dec("10.00"), Total: dec("10.00")},
		},
	}
	created, err := env.sales.CreateTransaction(req)
	require.NoError(t, err)
	assert.Equal(t, p.ID, created.Items[0].ProductID)

	// "product" outranks the other aliases
	entry := SaleItemRequest{
		Product:      p.ID.String(),
		ProductID:    other.ID.String(),
		ProductIDAlt: other.ID.String(),
	}
	resolved, err := entry.ProductRef()
	require.NoError(t, err)
	assert.Equal(t, p.ID, resolved)

	// garbage in any alias is a validation failure
	_, err = (&SaleItemRequest{Product: "not-a-uuid"}).ProductRef()
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDeleteTransactionCascades(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Mantika", dec("40.00"), 10)
	customer := env.seedCustomer(t, "Ka Pedro")

	req := &CreateTransactionRequest{
		CustomerID:    &customer.ID,
		TotalAmount:   dec("40.00"),
		AmountPaid:    dec("0.00"),
		Change:        dec("0.00"),
		UtangAmount:   dec("40.00"),
		PaymentMethod: model.PayUtang,
		Status:        model.TxCompleted,
		Items: []SaleItemRequest{
			{ProductID: p.ID.String(), Quantity: 1, Price: dec("40.00"), Total: dec("40.00")},
		},
	}
	created, err := env.sales.CreateTransaction(req)
	require.NoError(t, err)

	require.NoError(t, env.sales.DeleteTransaction(created.ID))

	var itemCount, recordCount int64
	env.db.Model(&model.TransactionItem{}).Where("transaction_id = ?", created.ID).Count(&itemCount)
	env.db.Model(&model.UtangRecord{}).Where("transaction_id = ?", created.ID).Count(&recordCount)
	assert.Equal(t, int64(0), itemCount)
	assert.Equal(t, int64(0), recordCount)
}
