package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ClientHandler maneja clientes y sus abonos.
type ClientHandler struct {
	uc    *usecase.ClientUseCase
	coord *sales.Coordinator
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *usecase.ClientUseCase, coord *sales.Coordinator) *ClientHandler {
	return &ClientHandler{uc: uc, coord: coord}
}

// Upsert godoc
// @Summary      Crear o actualizar cliente
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del cliente"
// @Param        body  body  dto.UpsertClientRequest  true  "Datos del cliente"
// @Success      200   {object}  dto.ClientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [put]
func (h *ClientHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertClientRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Upsert(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cliente por ID
// @Tags         clients
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.ClientResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [get]
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar clientes
// @Tags         clients
// @Produce      json
// @Param        search     query  string  false  "Nombre o negocio"
// @Param        with_debt  query  bool    false  "Solo con deuda"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200        {object}  dto.ClientListResponse
// @Router       /api/clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidQuery(c, "limit", "debe ser numérico")
	}
	out, err := h.uc.List(c.UserContext(), c.Query("search"), c.QueryBool("with_debt"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar cliente
// @Tags         clients
// @Param        id   path  string  true  "ID del cliente"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [delete]
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RegisterPayment godoc
// @Summary      Registrar abono
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        X-Seller-ID  header  string                      true  "Vendedor"
// @Param        id           path    string                      true  "ID del cliente"
// @Param        body         body    dto.RegisterPaymentRequest  true  "Abono"
// @Success      201          {object}  dto.PaymentResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Failure      404          {object}  dto.ErrorResponse
// @Router       /api/clients/{id}/payments [post]
func (h *ClientHandler) RegisterPayment(c *fiber.Ctx) error {
	var in dto.RegisterPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	payment, err := h.coord.RegisterPayment(c.UserContext(), sales.RegisterPaymentInput{
		ID:       in.ID,
		ClientID: c.Params("id"),
		Amount:   in.Amount,
		SellerID: GetSellerID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPaymentResponse(payment))
}

// Payments godoc
// @Summary      Abonos del cliente
// @Tags         clients
// @Produce      json
// @Param        id      path   string  true   "ID del cliente"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.PaymentResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/clients/{id}/payments [get]
func (h *ClientHandler) Payments(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidQuery(c, "limit", "debe ser numérico")
	}
	page.DefaultPage()
	list, err := h.coord.ListPayments(c.UserContext(), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPaymentResponse(p))
	}
	return c.JSON(out)
}

func toPaymentResponse(p *entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:        p.ID,
		ClientID:  p.ClientID,
		Amount:    p.Amount,
		DebtAfter: p.DebtAfter,
		SellerID:  p.SellerID,
		Date:      p.Date,
	}
}
