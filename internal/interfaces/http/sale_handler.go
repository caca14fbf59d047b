package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// SaleHandler expone el coordinador de ventas.
type SaleHandler struct {
	coord *sales.Coordinator
}

// NewSaleHandler construye el handler.
func NewSaleHandler(coord *sales.Coordinator) *SaleHandler {
	return &SaleHandler{coord: coord}
}

// CreateRetail godoc
// @Summary      Registrar venta de mostrador
// @Description  Descuenta stock de forma atómica. Reenviar el mismo id con el mismo contenido devuelve la venta ya registrada.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        X-Seller-ID  header  string                 true  "Vendedor"
// @Param        body         body    dto.CreateSaleRequest  true  "Venta"
// @Success      201          {object}  dto.SaleResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Failure      404          {object}  dto.ErrorResponse
// @Failure      409          {object}  dto.ErrorResponse
// @Router       /api/sales/retail [post]
func (h *SaleHandler) CreateRetail(c *fiber.Ctx) error {
	in, ok, err := parseSale(c)
	if !ok {
		return err
	}
	sale, err := h.coord.CreateRetailSale(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale))
}

// CreateDispatch godoc
// @Summary      Registrar despacho a crédito
// @Description  Descuenta stock y suma el total a la deuda del cliente en una sola transacción.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        X-Seller-ID  header  string                 true  "Vendedor"
// @Param        body         body    dto.CreateSaleRequest  true  "Despacho"
// @Success      201          {object}  dto.SaleResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Failure      404          {object}  dto.ErrorResponse
// @Failure      409          {object}  dto.ErrorResponse
// @Router       /api/sales/dispatch [post]
func (h *SaleHandler) CreateDispatch(c *fiber.Ctx) error {
	in, ok, err := parseSale(c)
	if !ok {
		return err
	}
	sale, err := h.coord.CreateDispatchSale(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale))
}

// parseSale devuelve ok=false cuando ya respondió 400.
func parseSale(c *fiber.Ctx) (sales.CreateSaleInput, bool, error) {
	var body dto.CreateSaleRequest
	if err := c.BodyParser(&body); err != nil {
		return sales.CreateSaleInput{}, false, invalidBody(c)
	}
	return sales.CreateSaleInput{
		ID:       body.ID,
		SellerID: GetSellerID(c),
		ClientID: body.ClientID,
		Items:    toItemInputs(body.Items),
	}, true, nil
}

// Amend godoc
// @Summary      Enmendar líneas de una venta
// @Description  Reemplaza líneas y total. No ajusta stock ni deuda.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la venta"
// @Param        body  body  dto.AmendSaleRequest  true  "Nuevas líneas"
// @Success      200   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/items [put]
func (h *SaleHandler) Amend(c *fiber.Ctx) error {
	var body dto.AmendSaleRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}
	sale, err := h.coord.AmendSale(c.UserContext(), sales.AmendSaleInput{
		SaleID: c.Params("id"),
		Items:  toItemInputs(body.Items),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.coord.GetSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// List godoc
// @Summary      Libro de ventas
// @Tags         sales
// @Produce      json
// @Param        from       query  string  false  "Desde (RFC3339 o AAAA-MM-DD)"
// @Param        to         query  string  false  "Hasta (RFC3339 o AAAA-MM-DD, exclusivo)"
// @Param        seller_id  query  string  false  "Vendedor"
// @Param        client_id  query  string  false  "Cliente"
// @Param        type       query  string  false  "retail | dispatch"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200        {object}  dto.SaleListResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidQuery(c, "limit", "debe ser numérico")
	}
	page.DefaultPage()
	filter := repository.SaleFilter{
		SellerID: c.Query("seller_id"),
		ClientID: c.Query("client_id"),
		Type:     entity.SaleType(c.Query("type")),
		Limit:    page.Limit,
		Offset:   page.Offset,
	}
	for _, q := range []struct {
		name string
		dst  **time.Time
	}{{"from", &filter.From}, {"to", &filter.To}} {
		raw := c.Query(q.name)
		if raw == "" {
			continue
		}
		t, ok := parseTime(raw)
		if !ok {
			return invalidQuery(c, q.name, "formato esperado RFC3339 o AAAA-MM-DD")
		}
		*q.dst = &t
	}
	list, err := h.coord.ListSales(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, toSaleResponse(s))
	}
	return c.JSON(dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

func parseTime(raw string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

func toItemInputs(in []dto.SaleItemRequest) []sales.ItemInput {
	out := make([]sales.ItemInput, 0, len(in))
	for _, it := range in {
		out = append(out, sales.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return out
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return dto.SaleResponse{
		ID:          s.ID,
		Date:        s.Date,
		Type:        string(s.Type),
		SellerID:    s.SellerID,
		ClientID:    s.ClientID,
		ClientName:  s.ClientName,
		TotalAmount: s.TotalAmount,
		Items:       items,
		UpdatedAt:   s.UpdatedAt,
	}
}
