package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Client representa un cliente registrado con cuenta corriente (fiado).
// Debt nunca es negativa y solo la modifica el coordinador de ventas (despachos y abonos).
// CreditLimit es informativo: no se aplica como tope duro.
type Client struct {
	ID           string
	Name         string // nombre de contacto
	BusinessName string // razón social / nombre del negocio
	Phone        string
	Address      string
	Debt         decimal.Decimal
	CreditLimit  decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName prefiere el nombre del negocio y cae al nombre de contacto.
func (c *Client) DisplayName() string {
	if name := strings.TrimSpace(c.BusinessName); name != "" {
		return name
	}
	return strings.TrimSpace(c.Name)
}

// OverCreditLimit indica si una deuda supera el cupo configurado (cupo cero = sin cupo).
func (c *Client) OverCreditLimit(debt decimal.Decimal) bool {
	if !c.CreditLimit.IsPositive() {
		return false
	}
	return debt.GreaterThan(c.CreditLimit)
}
