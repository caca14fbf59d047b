package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// Coordinator mantiene consistentes stock, deuda de clientes y libro de ventas.
// Cada comando corre en una sola transacción; los repos directos solo se usan para lecturas previas.
type Coordinator struct {
	tx       TxRunner
	products repository.ProductRepository
	clients  repository.ClientRepository
	sales    repository.SaleRepository
	payments repository.PaymentRepository
	clock    Clock
	ids      IDGenerator
	log      *logger.Logger
	cfg      Config
}

// NewCoordinator construye el coordinador.
func NewCoordinator(
	tx TxRunner,
	products repository.ProductRepository,
	clients repository.ClientRepository,
	sales repository.SaleRepository,
	payments repository.PaymentRepository,
	clock Clock,
	ids IDGenerator,
	log *logger.Logger,
	cfg Config,
) *Coordinator {
	if log == nil {
		log = logger.Nop()
	}
	return &Coordinator{
		tx:       tx,
		products: products,
		clients:  clients,
		sales:    sales,
		payments: payments,
		clock:    clock,
		ids:      ids,
		log:      log.Component("sales"),
		cfg:      cfg.withDefaults(),
	}
}

// CreateRetailSale registra una venta de mostrador (contado): descuenta stock, no toca deuda.
func (c *Coordinator) CreateRetailSale(ctx context.Context, in CreateSaleInput) (*entity.Sale, error) {
	return c.createSale(ctx, entity.SaleTypeRetail, in)
}

// CreateDispatchSale registra un despacho a crédito: descuenta stock y suma el total a la deuda del cliente.
func (c *Coordinator) CreateDispatchSale(ctx context.Context, in CreateSaleInput) (*entity.Sale, error) {
	return c.createSale(ctx, entity.SaleTypeDispatch, in)
}

func (c *Coordinator) createSale(ctx context.Context, saleType entity.SaleType, in CreateSaleInput) (*entity.Sale, error) {
	if err := validateSale(saleType, in); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.TxTimeout)
	defer cancel()

	// Reintento de una venta ya registrada: no vuelve a aplicar efectos.
	existing, err := c.sales.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return c.replay(existing, saleType, in)
	}

	sale, client, err := c.buildSale(ctx, saleType, in)
	if err != nil {
		return nil, err
	}

	var debtAfter decimal.Decimal
	err = c.withRetry(ctx, "create sale", func() error {
		return c.tx.RunSale(ctx, func(
			saleRepo repository.SaleRepository,
			productRepo repository.ProductRepository,
			clientRepo repository.ClientRepository,
			movementRepo repository.StockMovementRepository,
		) error {
			if err := saleRepo.Create(ctx, sale); err != nil {
				return err
			}
			if sale.Type == entity.SaleTypeDispatch {
				debt, err := clientRepo.AddDebt(ctx, sale.ClientID, sale.TotalAmount)
				if err != nil {
					return err
				}
				debtAfter = debt
			}
			// Orden ascendente por producto: dos ventas concurrentes toman los locks en el mismo orden.
			for _, item := range sortedByProduct(sale.Items) {
				if err := c.decrementStock(ctx, productRepo, movementRepo, sale, item); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if errors.Is(err, domain.ErrDuplicate) {
		// Otra llamada con el mismo ID ganó la carrera; esta transacción ya hizo rollback.
		existing, getErr := c.sales.GetByID(ctx, in.ID)
		if getErr != nil {
			return nil, getErr
		}
		if existing != nil {
			return c.replay(existing, saleType, in)
		}
		return nil, err
	}
	if err != nil {
		c.log.Warn().Err(err).Str("sale_id", sale.ID).Str("type", string(sale.Type)).Msg("venta rechazada, rollback")
		return nil, err
	}

	ev := c.log.Info().Str("sale_id", sale.ID).Str("type", string(sale.Type)).
		Str("seller_id", sale.SellerID).Str("total", sale.TotalAmount.StringFixed(2))
	if sale.Type == entity.SaleTypeDispatch {
		ev = ev.Str("client_id", sale.ClientID).Str("debt", debtAfter.StringFixed(2))
	}
	ev.Msg("venta registrada")

	if client != nil && client.OverCreditLimit(debtAfter) {
		c.log.Warn().Str("client_id", client.ID).Str("debt", debtAfter.StringFixed(2)).
			Str("credit_limit", client.CreditLimit.StringFixed(2)).Msg("cliente supera su cupo de crédito")
	}
	return sale, nil
}

// buildSale resuelve nombres y precios desde el catálogo y arma la venta a persistir.
func (c *Coordinator) buildSale(ctx context.Context, saleType entity.SaleType, in CreateSaleInput) (*entity.Sale, *entity.Client, error) {
	var client *entity.Client
	if saleType == entity.SaleTypeDispatch {
		cl, err := c.clients.GetByID(ctx, in.ClientID)
		if err != nil {
			return nil, nil, err
		}
		if cl == nil {
			return nil, nil, fmt.Errorf("client %s: %w", in.ClientID, domain.ErrNotFound)
		}
		client = cl
	}

	items, err := c.resolveItems(ctx, saleType, in.Items)
	if err != nil {
		return nil, nil, err
	}

	now := c.clock.Now()
	sale := &entity.Sale{
		ID:        in.ID,
		Date:      now,
		Type:      saleType,
		SellerID:  in.SellerID,
		UpdatedAt: now,
	}
	if client != nil {
		sale.ClientID = client.ID
		sale.ClientName = client.DisplayName()
	}
	sale.SetItems(items)
	return sale, client, nil
}

func (c *Coordinator) resolveItems(ctx context.Context, saleType entity.SaleType, in []ItemInput) ([]entity.SaleItem, error) {
	catalog := make(map[string]*entity.Product, len(in))
	items := make([]entity.SaleItem, 0, len(in))
	for _, it := range in {
		p, ok := catalog[it.ProductID]
		if !ok {
			var err error
			p, err = c.products.GetByID(ctx, it.ProductID)
			if err != nil {
				return nil, err
			}
			if p == nil {
				return nil, fmt.Errorf("product %s: %w", it.ProductID, domain.ErrNotFound)
			}
			catalog[it.ProductID] = p
		}
		price := it.UnitPrice
		if price.IsZero() {
			price = p.PriceFor(saleType)
		}
		items = append(items, entity.NewSaleItem(p.ID, p.Name, it.Quantity, price))
	}
	return items, nil
}

// decrementStock descuenta una línea y deja el movimiento OUT en la bitácora, dentro de la tx de la venta.
func (c *Coordinator) decrementStock(
	ctx context.Context,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	sale *entity.Sale,
	item entity.SaleItem,
) error {
	after, err := productRepo.DecrementStock(ctx, item.ProductID, item.Quantity)
	if err != nil {
		return err
	}
	return movementRepo.Create(ctx, &entity.StockMovement{
		ID:         c.ids.NewID(),
		ProductID:  item.ProductID,
		Type:       entity.MovementTypeOut,
		Quantity:   -item.Quantity,
		StockAfter: after,
		Reference:  sale.ID,
		CreatedAt:  sale.Date,
		CreatedBy:  sale.SellerID,
	})
}

// replay resuelve un ID repetido: mismo contenido devuelve la venta guardada, otro contenido es conflicto.
func (c *Coordinator) replay(existing *entity.Sale, saleType entity.SaleType, in CreateSaleInput) (*entity.Sale, error) {
	if !matchesInput(existing, saleType, in) {
		c.log.Warn().Str("sale_id", in.ID).Msg("id de venta reutilizado con otro contenido")
		return nil, fmt.Errorf("sale %s: %w", in.ID, domain.ErrIdempotencyConflict)
	}
	c.log.Info().Str("sale_id", in.ID).Msg("reintento idempotente, se devuelve la venta registrada")
	return existing, nil
}

// matchesInput compara tipo, vendedor, cliente y líneas en orden. Un precio cero en la
// solicitud significa precio de catálogo y acepta el precio que quedó registrado.
func matchesInput(s *entity.Sale, saleType entity.SaleType, in CreateSaleInput) bool {
	if s.Type != saleType || s.SellerID != in.SellerID || s.ClientID != in.ClientID {
		return false
	}
	if len(s.Items) != len(in.Items) {
		return false
	}
	for i, it := range in.Items {
		got := s.Items[i]
		if got.ProductID != it.ProductID || got.Quantity != it.Quantity {
			return false
		}
		if !it.UnitPrice.IsZero() && !got.UnitPrice.Equal(it.UnitPrice) {
			return false
		}
	}
	return true
}

func sortedByProduct(items []entity.SaleItem) []entity.SaleItem {
	sorted := make([]entity.SaleItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })
	return sorted
}

// AmendSale reemplaza líneas y total de una venta existente. No reconcilia stock ni deuda:
// la diferencia queda solo en el log.
func (c *Coordinator) AmendSale(ctx context.Context, in AmendSaleInput) (*entity.Sale, error) {
	if err := validateAmend(in); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.TxTimeout)
	defer cancel()

	current, err := c.sales.GetByID(ctx, in.SaleID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("sale %s: %w", in.SaleID, domain.ErrNotFound)
	}
	items, err := c.resolveItems(ctx, current.Type, in.Items)
	if err != nil {
		return nil, err
	}

	var amended *entity.Sale
	var previous decimal.Decimal
	err = c.withRetry(ctx, "amend sale", func() error {
		return c.tx.RunSale(ctx, func(
			saleRepo repository.SaleRepository,
			_ repository.ProductRepository,
			_ repository.ClientRepository,
			_ repository.StockMovementRepository,
		) error {
			sale, err := saleRepo.GetByID(ctx, in.SaleID)
			if err != nil {
				return err
			}
			if sale == nil {
				return fmt.Errorf("sale %s: %w", in.SaleID, domain.ErrNotFound)
			}
			previous = sale.TotalAmount
			sale.SetItems(items)
			sale.UpdatedAt = c.clock.Now()
			if err := saleRepo.UpdateItems(ctx, sale); err != nil {
				return err
			}
			amended = sale
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	c.log.Warn().Str("sale_id", amended.ID).Str("type", string(amended.Type)).
		Str("previous_total", previous.StringFixed(2)).Str("total", amended.TotalAmount.StringFixed(2)).
		Str("delta", amended.TotalAmount.Sub(previous).StringFixed(2)).
		Msg("venta enmendada sin ajustar stock ni deuda")
	return amended, nil
}

// GetSale obtiene una venta con sus líneas.
func (c *Coordinator) GetSale(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := c.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("sale %s: %w", id, domain.ErrNotFound)
	}
	return sale, nil
}

// ListSales consulta el libro de ventas.
func (c *Coordinator) ListSales(ctx context.Context, filter repository.SaleFilter) ([]*entity.Sale, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, domain.NewValidationError("filtro inválido", domain.FieldError{Field: "type", Message: "debe ser retail o dispatch"})
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.NewValidationError("filtro inválido", domain.FieldError{Field: "to", Message: "anterior a from"})
	}
	return c.sales.List(ctx, filter)
}
