// Package suspension maneja carritos en espera: se guardan sin afectar stock ni el
// libro de ventas y se retoman una sola vez.
package suspension

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// HoldInput carrito a dejar en espera. Total cero = se calcula con las líneas.
type HoldInput struct {
	CustomerName string
	Items        []entity.SuspendedItem
	Total        decimal.Decimal
}

// Manager caso de uso de ventas suspendidas.
type Manager struct {
	repo    repository.SuspendedSaleRepository
	clock   sales.Clock
	ids     sales.IDGenerator
	log     *logger.Logger
	timeout time.Duration
}

// NewManager construye el manager. timeout <= 0 usa 5s.
func NewManager(repo repository.SuspendedSaleRepository, clock sales.Clock, ids sales.IDGenerator, log *logger.Logger, timeout time.Duration) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Manager{repo: repo, clock: clock, ids: ids, log: log.Component("suspension"), timeout: timeout}
}

// Hold guarda el carrito con un ID nuevo.
func (m *Manager) Hold(ctx context.Context, in HoldInput) (*entity.SuspendedSale, error) {
	if err := validateHold(in); err != nil {
		return nil, err
	}
	total := in.Total
	if total.IsZero() {
		total = entity.SumSuspended(in.Items)
	}
	held := &entity.SuspendedSale{
		ID:           m.ids.NewID(),
		CustomerName: strings.TrimSpace(in.CustomerName),
		Items:        in.Items,
		Date:         m.clock.Now(),
		Total:        total,
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if err := m.repo.Create(ctx, held); err != nil {
		return nil, err
	}
	m.log.Info().Str("suspended_id", held.ID).Str("customer", held.CustomerName).
		Int("items", len(held.Items)).Msg("venta suspendida")
	return held, nil
}

// Resume retira el carrito y devuelve sus líneas. Un segundo Resume devuelve ErrNotFound.
func (m *Manager) Resume(ctx context.Context, id string) ([]entity.SuspendedItem, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	held, err := m.repo.Take(ctx, id)
	if err != nil {
		return nil, err
	}
	m.log.Info().Str("suspended_id", id).Msg("venta suspendida retomada")
	return held.Items, nil
}

// Discard elimina el carrito sin retomarlo.
func (m *Manager) Discard(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if err := m.repo.Delete(ctx, id); err != nil {
		return err
	}
	m.log.Info().Str("suspended_id", id).Msg("venta suspendida descartada")
	return nil
}

// ListHeld lista carritos en espera, más recientes primero.
func (m *Manager) ListHeld(ctx context.Context) ([]*entity.SuspendedSale, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.repo.List(ctx)
}

func validateHold(in HoldInput) error {
	var details []domain.FieldError
	if strings.TrimSpace(in.CustomerName) == "" {
		details = append(details, domain.FieldError{Field: "customer_name", Message: "es obligatorio"})
	}
	if len(in.Items) == 0 {
		details = append(details, domain.FieldError{Field: "items", Message: "debe tener al menos una línea"})
	}
	for i, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			details = append(details, domain.FieldError{Field: fmt.Sprintf("items[%d].product_id", i), Message: "es obligatorio"})
		}
		if it.Quantity <= 0 {
			details = append(details, domain.FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "debe ser mayor que cero"})
		}
		if it.UnitPrice.IsNegative() {
			details = append(details, domain.FieldError{Field: fmt.Sprintf("items[%d].unit_price", i), Message: "no puede ser negativo"})
		} else if !hasMaxScale(it.UnitPrice) {
			details = append(details, domain.FieldError{Field: fmt.Sprintf("items[%d].unit_price", i), Message: "máximo 2 decimales"})
		}
	}
	if in.Total.IsNegative() {
		details = append(details, domain.FieldError{Field: "total", Message: "no puede ser negativo"})
	} else if !hasMaxScale(in.Total) {
		details = append(details, domain.FieldError{Field: "total", Message: "máximo 2 decimales"})
	}
	if len(details) > 0 {
		return domain.NewValidationError("venta suspendida inválida", details...)
	}
	return nil
}

// hasMaxScale indica si d cabe en centavos sin redondeo.
func hasMaxScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}
