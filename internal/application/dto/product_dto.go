package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpsertProductRequest entrada para crear o reemplazar un producto (edición administrativa).
type UpsertProductRequest struct {
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	PriceRetail    decimal.Decimal `json:"price_retail"`
	PriceWholesale decimal.Decimal `json:"price_wholesale"`
	Cost           decimal.Decimal `json:"cost"`
	Stock          int64           `json:"stock"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	PriceRetail    decimal.Decimal `json:"price_retail"`
	PriceWholesale decimal.Decimal `json:"price_wholesale"`
	Cost           decimal.Decimal `json:"cost"`
	Stock          int64           `json:"stock"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// StockMovementResponse salida de un movimiento de stock.
type StockMovementResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	Type       string    `json:"type"`
	Quantity   int64     `json:"quantity"`
	StockAfter int64     `json:"stock_after"`
	Reference  string    `json:"reference"`
	CreatedAt  time.Time `json:"created_at"`
	CreatedBy  string    `json:"created_by"`
}
