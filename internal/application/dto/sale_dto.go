package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea solicitada. unit_price omitido o cero = precio de catálogo.
type SaleItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest entrada para ventas de mostrador y despachos. El id lo genera el cliente HTTP.
type CreateSaleRequest struct {
	ID       string            `json:"id"`
	ClientID string            `json:"client_id"`
	Items    []SaleItemRequest `json:"items"`
}

// AmendSaleRequest nuevas líneas de una venta.
type AmendSaleRequest struct {
	Items []SaleItemRequest `json:"items"`
}

// SaleItemResponse línea de venta.
type SaleItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID          string             `json:"id"`
	Date        time.Time          `json:"date"`
	Type        string             `json:"type"`
	SellerID    string             `json:"seller_id"`
	ClientID    string             `json:"client_id,omitempty"`
	ClientName  string             `json:"client_name,omitempty"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Items       []SaleItemResponse `json:"items"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// SuspendedItemDTO línea de un carrito en espera.
type SuspendedItemDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// HoldSaleRequest entrada para suspender un carrito. total omitido = suma de las líneas.
type HoldSaleRequest struct {
	CustomerName string             `json:"customer_name"`
	Items        []SuspendedItemDTO `json:"items"`
	Total        decimal.Decimal    `json:"total"`
}

// SuspendedSaleResponse salida de un carrito en espera.
type SuspendedSaleResponse struct {
	ID           string             `json:"id"`
	CustomerName string             `json:"customer_name"`
	Items        []SuspendedItemDTO `json:"items"`
	Date         time.Time          `json:"date"`
	Total        decimal.Decimal    `json:"total"`
}

// ResumeSaleResponse líneas devueltas al retomar un carrito.
type ResumeSaleResponse struct {
	Items []SuspendedItemDTO `json:"items"`
}
