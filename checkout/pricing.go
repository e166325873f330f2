package checkout

import "checkout-service/models"

// PricedLine carries the unit price resolved for a locked product row.
type PricedLine struct {
	Product   models.Product
	Qty       int
	UnitPrice models.Money
	LineTotal models.Money
}

// PriceLines resolves unit prices (sale price when one is set, list price
// otherwise) and sums the cart subtotal. Products must already be locked
// and verified to cover every line.
func PriceLines(lines []Line, products map[int64]models.Product) ([]PricedLine, models.Money) {
	priced := make([]PricedLine, 0, len(lines))
	var subtotal models.Money

	for _, line := range lines {
		p := products[line.ProductID]
		unit := p.Price
		if p.SalePrice > 0 {
			unit = p.SalePrice
		}
		total := unit * models.Money(line.Qty)
		priced = append(priced, PricedLine{
			Product:   p,
			Qty:       line.Qty,
			UnitPrice: unit,
			LineTotal: total,
		})
		subtotal += total
	}
	return priced, subtotal
}
