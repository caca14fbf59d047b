package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeOut = "OUT" // salida por venta
)

// StockMovement bitácora de salidas de stock. Reference es el ID de la venta que lo originó.
type StockMovement struct {
	ID         string
	ProductID  string
	Type       string
	Quantity   int64 // negativo en salidas
	StockAfter int64
	Reference  string
	CreatedAt  time.Time
	CreatedBy  string // vendedor
}
