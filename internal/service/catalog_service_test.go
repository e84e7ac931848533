package service

import (
	"testing"

	"go-tindahan-pos/internal/apperr"
	"go-tindahan-pos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductValidation(t *testing.T) {
	env := newTestEnv(t)

	err := env.catalog.CreateProduct(&model.Product{Category: "snacks"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateProductDuplicateBarcode(t *testing.T) {
	env := newTestEnv(t)
	barcode := "4800016641503"

	first := &model.Product{Name: "Nescafe 3in1", Category: "drinks", Price: dec("9.00"), Barcode: &barcode}
	require.NoError(t, env.catalog.CreateProduct(first))

	dup := &model.Product{Name: "Nescafe Twin Pack", Category: "drinks", Price: dec("17.00"), Barcode: &barcode}
	err := env.catalog.CreateProduct(dup)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestLowStockIsDerivedOnRead(t *testing.T) {
	env := newTestEnv(t)

	low := &model.Product{Name: "Tide Sachet", Category: "laundry", Price: dec("7.00"), Stock: 3, MinStock: 5}
	ok := &model.Product{Name: "Surf Sachet", Category: "laundry", Price: dec("6.50"), Stock: 50, MinStock: 5}
	boundary := &model.Product{Name: "Ariel Sachet", Category: "laundry", Price: dec("8.00"), Stock: 5, MinStock: 5}
	require.NoError(t, env.catalog.CreateProduct(low))
	require.NoError(t, env.catalog.CreateProduct(ok))
	require.NoError(t, env.catalog.CreateProduct(boundary))

	fetched, err := env.catalog.GetProductByID(low.ID)
	require.NoError(t, err)
	assert.True(t, fetched.IsLowStock)

	fetched, err = env.catalog.GetProductByID(ok.ID)
	require.NoError(t, err)
	assert.False(t, fetched.IsLowStock)

	// stock == min_stock counts as low
	fetched, err = env.catalog.GetProductByID(boundary.ID)
	require.NoError(t, err)
	assert.True(t, fetched.IsLowStock)

	lowStock, err := env.catalog.GetLowStockProducts()
	require.NoError(t, err)
	assert.Len(t, lowStock, 2)
}

func TestUpdateProductRecomputesLowStock(t *testing.T) {
	env := newTestEnv(t)

	product := &model.Product{Name: "Palmolive Sachet", Category: "toiletries", Price: dec("7.50"), Stock: 20, MinStock: 5}
	require.NoError(t, env.catalog.CreateProduct(product))

	product.Stock = 4
	updated, err := env.catalog.UpdateProduct(product.ID, product)
	require.NoError(t, err)
	assert.True(t, updated.IsLowStock)
	assert.Equal(t, 4, updated.Stock)
}

func TestDeleteProductWithSaleHistoryConflicts(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Coke Sakto", dec("15.00"), 10)

	req := &CreateTransactionRequest{
		TotalAmount:   dec("15.00"),
		AmountPaid:    dec("15.00"),
		Change:        dec("0.00"),
		UtangAmount:   dec("0.00"),
		PaymentMethod: model.PayCash,
		Status:        model.TxCompleted,
		Items: []SaleItemRequest{
			{ProductID: p.ID.String(), Quantity: 1, Price: dec("15.00"), Total: dec("15.00")},
		},
	}
	_, err := env.sales.CreateTransaction(req)
	require.NoError(t, err)

	err = env.catalog.DeleteProduct(p.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Product and its referencing history are untouched
	_, err = env.catalog.GetProductByID(p.ID)
	require.NoError(t, err)

	var itemCount int64
	env.db.Model(&model.TransactionItem{}).Where("product_id = ?", p.ID).Count(&itemCount)
	assert.Equal(t, int64(1), itemCount)
}

func TestDeleteProductWithoutHistory(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Piattos", dec("22.00"), 10)

	require.NoError(t, env.catalog.DeleteProduct(p.ID))

	_, err := env.catalog.GetProductByID(p.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindReference, apperr.KindOf(err))
}
