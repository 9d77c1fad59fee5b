package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/piccolaroma/cadena-api/internal/application/auth"
	"github.com/piccolaroma/cadena-api/internal/application/inventory"
	"github.com/piccolaroma/cadena-api/internal/application/orders"
	"github.com/piccolaroma/cadena-api/internal/application/payments"
	"github.com/piccolaroma/cadena-api/internal/application/usecase"
	"github.com/piccolaroma/cadena-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	BranchUC    *usecase.BranchUseCase
	MenuUC      *usecase.MenuItemUseCase
	RiderUC     *usecase.RiderUseCase
	OrderUC     *orders.OrderUseCase
	OrderSM     *orders.StateMachine
	RecordUC    *inventory.RecordUseCase
	StockEngine *inventory.StockMovementEngine
	Projector   *inventory.Projector
	PaymentUC   *payments.PaymentUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Callback de la pasarela (público: la pasarela no porta JWT)
	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	api.Post("/payments/callback", paymentHandler.Callback)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	adminOnly := RequireRole(entity.RoleAdmin)
	managers := RequireRole(entity.RoleAdmin, entity.RoleGerente)

	// Branches (protegido; mutaciones solo admin)
	branches := protected.Group("/branches")
	branchHandler := NewBranchHandler(deps.BranchUC)
	branches.Post("/", adminOnly, branchHandler.Create)
	branches.Get("/", branchHandler.List)
	branches.Get("/:id", branchHandler.GetByID)
	branches.Put("/:id", adminOnly, branchHandler.Update)

	// Menu (protegido; mutaciones admin o gerente)
	menu := protected.Group("/menu")
	menuHandler := NewMenuHandler(deps.MenuUC)
	menu.Post("/", managers, menuHandler.Create)
	menu.Get("/", menuHandler.List)
	menu.Get("/:id", menuHandler.GetByID)
	menu.Put("/:id", managers, menuHandler.Update)
	menu.Delete("/:id", managers, menuHandler.Delete)

	// Riders (protegido; mutaciones admin o gerente)
	riders := protected.Group("/riders")
	riderHandler := NewRiderHandler(deps.RiderUC)
	riders.Post("/", managers, riderHandler.Create)
	riders.Get("/", riderHandler.List)
	riders.Get("/:id", riderHandler.GetByID)
	riders.Put("/:id", managers, riderHandler.Update)

	// Orders (protegido)
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC, deps.OrderSM)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Patch("/:id/status", orderHandler.Transition)
	ordersGroup.Patch("/:id/rider", orderHandler.AssignRider)
	ordersGroup.Get("/:id/payments", paymentHandler.ListByOrder)

	// Inventory (protegido; movimientos manuales admin o gerente)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RecordUC, deps.StockEngine, deps.Projector)
	invGroup.Post("/records", managers, inventoryHandler.CreateRecord)
	invGroup.Get("/records", inventoryHandler.ListRecords)
	invGroup.Get("/records/lookup", inventoryHandler.GetRecord)
	invGroup.Post("/movements", managers, inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)
	invGroup.Get("/summary", inventoryHandler.Summary)
	invGroup.Get("/summary/pdf", managers, inventoryHandler.SummaryPDF)
}
