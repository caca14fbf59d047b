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

// ClientUseCase casos de uso de clientes. La deuda solo la mueven despachos y abonos.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Upsert crea o actualiza un cliente. OpeningDebt solo se usa al crear.
func (uc *ClientUseCase) Upsert(ctx context.Context, id string, in dto.UpsertClientRequest) (*dto.ClientResponse, error) {
	var errs fieldErrors
	errs.id(id)
	if strings.TrimSpace(in.Name) == "" && strings.TrimSpace(in.BusinessName) == "" {
		errs.add("name", "se requiere nombre o nombre del negocio")
	}
	errs.money("opening_debt", in.OpeningDebt)
	errs.money("credit_limit", in.CreditLimit)
	if err := errs.err("cliente inválido"); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	client := &entity.Client{
		ID:           id,
		Name:         strings.TrimSpace(in.Name),
		BusinessName: strings.TrimSpace(in.BusinessName),
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		Debt:         in.OpeningDebt,
		CreditLimit:  in.CreditLimit,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Upsert(ctx, client); err != nil {
		return nil, err
	}
	// La deuda vigente puede diferir de OpeningDebt si el cliente ya existía.
	stored, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	return toClientResponse(stored), nil
}

// GetByID obtiene un cliente por ID.
func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	return toClientResponse(client), nil
}

// List lista clientes; withDebt limita a quienes tienen saldo pendiente.
func (uc *ClientUseCase) List(ctx context.Context, search string, withDebt bool, page dto.PageRequest) (*dto.ClientListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ClientFilter{
		Search:   search,
		WithDebt: withDebt,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toClientResponse(c))
	}
	return &dto.ClientListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina (lógicamente) un cliente. Su historial de ventas y abonos se conserva.
func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:           c.ID,
		Name:         c.Name,
		BusinessName: c.BusinessName,
		DisplayName:  c.DisplayName(),
		Phone:        c.Phone,
		Address:      c.Address,
		Debt:         c.Debt,
		CreditLimit:  c.CreditLimit,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
