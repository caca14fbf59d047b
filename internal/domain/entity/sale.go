package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleType tipo de venta.
type SaleType string

const (
	SaleTypeRetail   SaleType = "retail"   // mostrador, pagada de contado
	SaleTypeDispatch SaleType = "dispatch" // despacho a crédito a un cliente registrado
)

// Valid indica si el tipo es conocido.
func (t SaleType) Valid() bool {
	return t == SaleTypeRetail || t == SaleTypeDispatch
}

// Sale cabecera de una venta. El ID lo entrega quien llama y hace idempotente la creación.
// ClientID/ClientName solo aplican a despachos; ClientName es una copia tomada al crear.
type Sale struct {
	ID          string
	Date        time.Time
	Type        SaleType
	Items       []SaleItem
	TotalAmount decimal.Decimal
	SellerID    string
	ClientID    string
	ClientName  string
	UpdatedAt   time.Time
}

// SaleItem línea de venta. ProductName y UnitPrice son copias al momento de la venta:
// cambios posteriores del catálogo no alteran el histórico.
type SaleItem struct {
	ProductID   string
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// NewSaleItem construye una línea con Subtotal = Quantity × UnitPrice.
func NewSaleItem(productID, productName string, quantity int64, unitPrice decimal.Decimal) SaleItem {
	return SaleItem{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    unitPrice.Mul(decimal.NewFromInt(quantity)),
	}
}

// SumItems suma los subtotales de las líneas.
func SumItems(items []SaleItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	return total
}

// SetItems reemplaza las líneas y recalcula el total (TotalAmount == Σ Subtotal).
func (s *Sale) SetItems(items []SaleItem) {
	s.Items = items
	s.TotalAmount = SumItems(items)
}
