package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"checkout-service/models"
)

func TestPriceLines(t *testing.T) {
	products := map[int64]models.Product{
		1: {ID: 1, Name: "Keyboard", Price: 10000},
		2: {ID: 2, Name: "Mouse", Price: 8000, SalePrice: 6000},
	}
	lines := []Line{
		{ProductID: 1, Qty: 2},
		{ProductID: 2, Qty: 3},
	}

	priced, subtotal := PriceLines(lines, products)

	assert.Equal(t, models.Money(38000), subtotal)
	assert.Equal(t, models.Money(10000), priced[0].UnitPrice)
	assert.Equal(t, models.Money(20000), priced[0].LineTotal)
	// Sale price wins over list price when set
	assert.Equal(t, models.Money(6000), priced[1].UnitPrice)
	assert.Equal(t, models.Money(18000), priced[1].LineTotal)
}

func TestPriceLinesZeroSalePriceMeansNoSale(t *testing.T) {
	products := map[int64]models.Product{
		1: {ID: 1, Price: 5000, SalePrice: 0},
	}

	priced, subtotal := PriceLines([]Line{{ProductID: 1, Qty: 1}}, products)

	assert.Equal(t, models.Money(5000), subtotal)
	assert.Equal(t, models.Money(5000), priced[0].UnitPrice)
}
