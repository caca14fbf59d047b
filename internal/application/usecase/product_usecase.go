package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo. Las ventas descuentan stock por el coordinador, no por aquí.
type ProductUseCase struct {
	repo      repository.ProductRepository
	movements repository.StockMovementRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, movements repository.StockMovementRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, movements: movements}
}

// Upsert crea o reemplaza un producto. Conserva CreatedAt si ya existía.
func (uc *ProductUseCase) Upsert(ctx context.Context, id string, in dto.UpsertProductRequest) (*dto.ProductResponse, error) {
	var errs fieldErrors
	errs.id(id)
	if strings.TrimSpace(in.Name) == "" {
		errs.add("name", "es obligatorio")
	}
	errs.money("price_retail", in.PriceRetail)
	errs.money("price_wholesale", in.PriceWholesale)
	errs.money("cost", in.Cost)
	if in.Stock < 0 {
		errs.add("stock", "no puede ser negativo")
	}
	if err := errs.err("producto inválido"); err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:             id,
		Name:           strings.TrimSpace(in.Name),
		Category:       strings.TrimSpace(in.Category),
		PriceRetail:    in.PriceRetail,
		PriceWholesale: in.PriceWholesale,
		Cost:           in.Cost,
		Stock:          in.Stock,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if existing != nil {
		product.CreatedAt = existing.CreatedAt
	}
	if err := uc.repo.Upsert(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return toProductResponse(product), nil
}

// List lista el catálogo con paginación.
func (uc *ProductUseCase) List(ctx context.Context, category, search string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Category: category,
		Search:   search,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina (lógicamente) un producto.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// Movements devuelve el historial de movimientos de stock del producto.
func (uc *ProductUseCase) Movements(ctx context.Context, productID string, page dto.PageRequest) ([]dto.StockMovementResponse, error) {
	page.DefaultPage()
	product, err := uc.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	list, err := uc.movements.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.StockMovementResponse{
			ID:         m.ID,
			ProductID:  m.ProductID,
			Type:       m.Type,
			Quantity:   m.Quantity,
			StockAfter: m.StockAfter,
			Reference:  m.Reference,
			CreatedAt:  m.CreatedAt,
			CreatedBy:  m.CreatedBy,
		})
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Category:       p.Category,
		PriceRetail:    p.PriceRetail,
		PriceWholesale: p.PriceWholesale,
		Cost:           p.Cost,
		Stock:          p.Stock,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
