package sales

import "github.com/shopspring/decimal"

// ItemInput línea solicitada. UnitPrice cero = precio de catálogo según el tipo de venta.
type ItemInput struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// CreateSaleInput datos para registrar una venta. ID lo genera quien llama (idempotencia).
// ClientID solo aplica a despachos.
type CreateSaleInput struct {
	ID       string
	SellerID string
	ClientID string
	Items    []ItemInput
}

// RegisterPaymentInput abono a la cuenta de un cliente. ID opcional: si viene, el abono es idempotente.
type RegisterPaymentInput struct {
	ID       string
	ClientID string
	Amount   decimal.Decimal
	SellerID string
}

// AmendSaleInput nuevas líneas para una venta existente.
type AmendSaleInput struct {
	SaleID string
	Items  []ItemInput
}
