package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/suspension"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// SuspensionHandler carritos en espera.
type SuspensionHandler struct {
	mgr *suspension.Manager
}

// NewSuspensionHandler construye el handler.
func NewSuspensionHandler(mgr *suspension.Manager) *SuspensionHandler {
	return &SuspensionHandler{mgr: mgr}
}

// Hold godoc
// @Summary      Dejar carrito en espera
// @Tags         suspensions
// @Accept       json
// @Produce      json
// @Param        body  body  dto.HoldSaleRequest  true  "Carrito"
// @Success      201   {object}  dto.SuspendedSaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/suspensions [post]
func (h *SuspensionHandler) Hold(c *fiber.Ctx) error {
	var body dto.HoldSaleRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}
	items := make([]entity.SuspendedItem, 0, len(body.Items))
	for _, it := range body.Items {
		items = append(items, entity.SuspendedItem(it))
	}
	held, err := h.mgr.Hold(c.UserContext(), suspension.HoldInput{
		CustomerName: body.CustomerName,
		Items:        items,
		Total:        body.Total,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSuspendedResponse(held))
}

// List godoc
// @Summary      Carritos en espera
// @Tags         suspensions
// @Produce      json
// @Success      200  {array}  dto.SuspendedSaleResponse
// @Router       /api/suspensions [get]
func (h *SuspensionHandler) List(c *fiber.Ctx) error {
	list, err := h.mgr.ListHeld(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.SuspendedSaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSuspendedResponse(s))
	}
	return c.JSON(out)
}

// Resume godoc
// @Summary      Retomar carrito
// @Description  Devuelve las líneas y elimina el carrito. Un segundo intento responde 404.
// @Tags         suspensions
// @Produce      json
// @Param        id   path  string  true  "ID del carrito"
// @Success      200  {object}  dto.ResumeSaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suspensions/{id}/resume [post]
func (h *SuspensionHandler) Resume(c *fiber.Ctx) error {
	items, err := h.mgr.Resume(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ResumeSaleResponse{Items: toSuspendedItems(items)})
}

// Discard godoc
// @Summary      Descartar carrito
// @Tags         suspensions
// @Param        id   path  string  true  "ID del carrito"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suspensions/{id} [delete]
func (h *SuspensionHandler) Discard(c *fiber.Ctx) error {
	if err := h.mgr.Discard(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toSuspendedItems(items []entity.SuspendedItem) []dto.SuspendedItemDTO {
	out := make([]dto.SuspendedItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.SuspendedItemDTO(it))
	}
	return out
}

func toSuspendedResponse(s *entity.SuspendedSale) dto.SuspendedSaleResponse {
	return dto.SuspendedSaleResponse{
		ID:           s.ID,
		CustomerName: s.CustomerName,
		Items:        toSuspendedItems(s.Items),
		Date:         s.Date,
		Total:        s.Total,
	}
}
