package sales

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const (
	maxIDLength = 64
	maxItems    = 200
	maxScale    = 2 // decimales permitidos en montos
)

type fieldErrors []domain.FieldError

func (f *fieldErrors) add(field, format string, args ...any) {
	*f = append(*f, domain.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (f fieldErrors) err(message string) error {
	if len(f) == 0 {
		return nil
	}
	return domain.NewValidationError(message, f...)
}

func validateSale(saleType entity.SaleType, in CreateSaleInput) error {
	var errs fieldErrors
	validateID(&errs, "id", in.ID)
	if strings.TrimSpace(in.SellerID) == "" {
		errs.add("seller_id", "es obligatorio")
	}
	switch saleType {
	case entity.SaleTypeDispatch:
		if strings.TrimSpace(in.ClientID) == "" {
			errs.add("client_id", "es obligatorio en despachos")
		}
	case entity.SaleTypeRetail:
		if in.ClientID != "" {
			errs.add("client_id", "no aplica a ventas de mostrador")
		}
	}
	validateItems(&errs, in.Items)
	return errs.err("venta inválida")
}

func validateAmend(in AmendSaleInput) error {
	var errs fieldErrors
	validateID(&errs, "sale_id", in.SaleID)
	validateItems(&errs, in.Items)
	return errs.err("enmienda inválida")
}

func validatePayment(in RegisterPaymentInput) error {
	var errs fieldErrors
	if in.ID != "" {
		validateID(&errs, "id", in.ID)
	}
	if strings.TrimSpace(in.ClientID) == "" {
		errs.add("client_id", "es obligatorio")
	}
	if strings.TrimSpace(in.SellerID) == "" {
		errs.add("seller_id", "es obligatorio")
	}
	if !in.Amount.IsPositive() {
		errs.add("amount", "debe ser mayor que cero")
	} else if !hasMaxScale(in.Amount) {
		errs.add("amount", "máximo %d decimales", maxScale)
	}
	return errs.err("abono inválido")
}

func validateID(errs *fieldErrors, field, id string) {
	switch {
	case strings.TrimSpace(id) == "":
		errs.add(field, "es obligatorio")
	case len(id) > maxIDLength:
		errs.add(field, "máximo %d caracteres", maxIDLength)
	}
}

func validateItems(errs *fieldErrors, items []ItemInput) {
	if len(items) == 0 {
		errs.add("items", "debe tener al menos una línea")
		return
	}
	if len(items) > maxItems {
		errs.add("items", "máximo %d líneas", maxItems)
		return
	}
	for i, it := range items {
		field := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(it.ProductID) == "" {
			errs.add(field+".product_id", "es obligatorio")
		}
		if it.Quantity <= 0 {
			errs.add(field+".quantity", "debe ser mayor que cero")
		}
		if it.UnitPrice.IsNegative() {
			errs.add(field+".unit_price", "no puede ser negativo")
		} else if !hasMaxScale(it.UnitPrice) {
			errs.add(field+".unit_price", "máximo %d decimales", maxScale)
		}
	}
}

// hasMaxScale indica si d no tiene más de dos decimales significativos.
func hasMaxScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(maxScale))
}
