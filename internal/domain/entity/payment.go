package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment abono a la cuenta de un cliente. DebtAfter es el saldo resultante (nunca negativo).
type Payment struct {
	ID        string
	ClientID  string
	Amount    decimal.Decimal
	DebtAfter decimal.Decimal
	SellerID  string
	Date      time.Time
}
