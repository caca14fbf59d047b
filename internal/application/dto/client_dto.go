package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpsertClientRequest entrada para crear o actualizar un cliente.
// OpeningDebt solo se aplica al crear; una actualización nunca reescribe la deuda.
type UpsertClientRequest struct {
	Name         string          `json:"name"`
	BusinessName string          `json:"business_name"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	OpeningDebt  decimal.Decimal `json:"opening_debt"`
	CreditLimit  decimal.Decimal `json:"credit_limit"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	BusinessName string          `json:"business_name"`
	DisplayName  string          `json:"display_name"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	Debt         decimal.Decimal `json:"debt"`
	CreditLimit  decimal.Decimal `json:"credit_limit"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ClientListResponse lista paginada de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// RegisterPaymentRequest abono a la cuenta de un cliente. ID opcional (idempotencia).
type RegisterPaymentRequest struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}

// PaymentResponse salida de un abono.
type PaymentResponse struct {
	ID        string          `json:"id"`
	ClientID  string          `json:"client_id"`
	Amount    decimal.Decimal `json:"amount"`
	DebtAfter decimal.Decimal `json:"debt_after"`
	SellerID  string          `json:"seller_id"`
	Date      time.Time       `json:"date"`
}
