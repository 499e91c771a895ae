package service

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabatisales/mabati-api/internal/domain/entity"
	"github.com/mabatisales/mabati-api/internal/domain/enum"
)

func strPtr(s string) *string { return &s }

func TestCreateProductBooksOpeningStock(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	product, err := f.products.CreateProduct(ctx, &CreateProductInput{
		BranchID:    f.branchID,
		Name:        "Corrugated Sheet 30g Blue",
		Code:        strPtr("MBT-CORR-30-BL"),
		PricingMode: enum.PricingModePiece,
		UnitPrice:   69,
		Quantity:    120,
	})
	require.NoError(t, err)

	assert.Equal(t, "corrugated-sheet-30g-blue", product.Slug)
	assert.True(t, product.Quantity.Equal(decimal.NewFromInt(120)))

	movements := f.store.movements
	require.Len(t, movements, 1)
	assert.Equal(t, enum.MovementTypeAdd, movements[0].MovementType)
	assert.True(t, movements[0].StockBefore.IsZero())
	assert.True(t, movements[0].StockAfter.Equal(decimal.NewFromInt(120)))
}

func TestCreateProductGeneratesCode(t *testing.T) {
	f := newFixture(false)

	product, err := f.products.CreateProduct(context.Background(), &CreateProductInput{
		BranchID:  f.branchID,
		Name:      "Box Profile Sheet",
		UnitPrice: 100,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(product.Code, "MBT-"))
	assert.Empty(t, f.store.movements, "no opening stock, no ledger entry")
}

func TestCreateProductDuplicateCode(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	f.seedProduct("MBT-CORR-30", 69, 10)

	_, err := f.products.CreateProduct(ctx, &CreateProductInput{
		BranchID:  f.branchID,
		Name:      "Another Sheet",
		Code:      strPtr("MBT-CORR-30"),
		UnitPrice: 75,
	})
	require.Error(t, err)
}

func TestCreateProductValidation(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	cases := []struct {
		name  string
		input *CreateProductInput
		field string
	}{
		{"missing name", &CreateProductInput{BranchID: f.branchID, UnitPrice: 10}, "name"},
		{"negative price", &CreateProductInput{BranchID: f.branchID, Name: "X", UnitPrice: -1}, "unit_price"},
		{"negative stock", &CreateProductInput{BranchID: f.branchID, Name: "X", UnitPrice: 1, Quantity: -5}, "quantity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.products.CreateProduct(ctx, tc.input)
			var vErr *entity.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestUpdateProductLeavesStockAlone(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	product := f.seedProduct("MBT-CORR-30", 69, 10)

	newPrice := 75.0
	updated, err := f.products.UpdateProduct(ctx, product.ID, &UpdateProductInput{
		Name:      strPtr("Corrugated Sheet 30g"),
		UnitPrice: &newPrice,
	})
	require.NoError(t, err)

	assert.Equal(t, "corrugated-sheet-30g", updated.Slug)
	assert.True(t, updated.UnitPrice.Equal(decimal.NewFromInt(75)))
	assert.True(t, updated.Quantity.Equal(decimal.NewFromInt(10)))
	assert.Empty(t, f.store.movements)
}

func TestDeleteProduct(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	product := f.seedProduct("MBT-CORR-30", 69, 10)

	require.NoError(t, f.products.DeleteProduct(ctx, product.ID))

	_, err := f.products.GetProduct(ctx, product.ID)
	require.Error(t, err)
}
