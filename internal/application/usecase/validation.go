package usecase

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/shopspring/decimal"
)

const maxIDLength = 64

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

func (f *fieldErrors) id(id string) {
	switch {
	case strings.TrimSpace(id) == "":
		f.add("id", "es obligatorio")
	case len(id) > maxIDLength:
		f.add("id", "máximo %d caracteres", maxIDLength)
	}
}

func (f *fieldErrors) money(field string, d decimal.Decimal) {
	if d.IsNegative() {
		f.add(field, "no puede ser negativo")
		return
	}
	if !d.Equal(d.Round(2)) {
		f.add(field, "máximo 2 decimales")
	}
}
