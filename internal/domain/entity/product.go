package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Stock solo lo modifican la edición administrativa (upsert) y el descuento atómico de una venta.
type Product struct {
	ID             string
	Name           string
	Category       string
	PriceRetail    decimal.Decimal // precio de mostrador
	PriceWholesale decimal.Decimal // precio mayorista (despachos a crédito)
	Cost           decimal.Decimal
	Stock          int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PriceFor devuelve el precio de catálogo que aplica al tipo de venta.
func (p *Product) PriceFor(saleType SaleType) decimal.Decimal {
	if saleType == SaleTypeDispatch {
		return p.PriceWholesale
	}
	return p.PriceRetail
}
