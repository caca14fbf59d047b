package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SuspendedSale carrito en espera. Sus líneas no afectan stock ni aparecen en el libro de ventas
// hasta que se retoman y se convierten en una venta por el flujo normal.
type SuspendedSale struct {
	ID           string
	CustomerName string // etiqueta libre ("Mesa 3", "Señora del delantal azul")
	Items        []SuspendedItem
	Date         time.Time
	Total        decimal.Decimal
}

// SuspendedItem copia de una línea del carrito.
type SuspendedItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// SumSuspended suma quantity × unit_price de las líneas.
func SumSuspended(items []SuspendedItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return total
}
