package validation_test

import (
	"testing"

	"tokopos/internal/models"
	"tokopos/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStruct_DecimalRules(t *testing.T) {
	valid := models.Product{
		Name:     "Soap",
		Barcode:  "SO-1",
		Price:    decimal.RequireFromString("2.50"),
		StockQty: decimal.Zero,
		Category: "household",
	}
	assert.NoError(t, validation.Struct(valid))

	zeroPrice := valid
	zeroPrice.Price = decimal.Zero
	err := validation.Struct(zeroPrice)
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Contains(t, err.Error(), "price")

	negativeStock := valid
	negativeStock.StockQty = decimal.NewFromInt(-1)
	assert.ErrorIs(t, validation.Struct(negativeStock), models.ErrValidation)
}

func TestStruct_PointerDecimal(t *testing.T) {
	bad := decimal.NewFromInt(-5)
	err := validation.Struct(models.ProductUpdate{Price: &bad})
	assert.ErrorIs(t, err, models.ErrValidation)

	assert.NoError(t, validation.Struct(models.ProductUpdate{}))
}

func TestStruct_SaleRequest(t *testing.T) {
	req := models.CreateSaleRequest{
		PaidAmount: decimal.Zero,
		Lines:      nil,
	}
	assert.ErrorIs(t, validation.Struct(req), models.ErrValidation)

	req.Lines = []models.SaleLine{{ProductID: 1, Quantity: decimal.NewFromInt(1), Price: decimal.Zero}}
	assert.ErrorIs(t, validation.Struct(req), models.ErrValidation)

	req.Lines[0].Price = decimal.NewFromInt(10)
	assert.NoError(t, validation.Struct(req))
}
