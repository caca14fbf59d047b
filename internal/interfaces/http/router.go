package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/application/suspension"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	ClientUC    *usecase.ClientUseCase
	Coordinator *sales.Coordinator
	Suspensions *suspension.Manager
	Logger      *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api", RequestLogger(log))

	// Catálogo
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Upsert)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/movements", productHandler.Movements)

	// Clientes y abonos
	clients := api.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC, deps.Coordinator)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Upsert)
	clients.Delete("/:id", clientHandler.Delete)
	clients.Post("/:id/payments", RequireSeller(), clientHandler.RegisterPayment)
	clients.Get("/:id/payments", clientHandler.Payments)

	// Ventas (requieren vendedor)
	salesGroup := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.Coordinator)
	salesGroup.Post("/retail", RequireSeller(), saleHandler.CreateRetail)
	salesGroup.Post("/dispatch", RequireSeller(), saleHandler.CreateDispatch)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Put("/:id/items", saleHandler.Amend)

	// Ventas suspendidas
	suspensions := api.Group("/suspensions")
	suspensionHandler := NewSuspensionHandler(deps.Suspensions)
	suspensions.Post("/", suspensionHandler.Hold)
	suspensions.Get("/", suspensionHandler.List)
	suspensions.Post("/:id/resume", suspensionHandler.Resume)
	suspensions.Delete("/:id", suspensionHandler.Discard)
}
