package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/salon-stock/internal/application/auth"
	"github.com/tu-usuario/salon-stock/internal/application/movement"
	"github.com/tu-usuario/salon-stock/internal/application/usecase"
	"github.com/tu-usuario/salon-stock/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BranchUC  *usecase.BranchUseCase
	ProductUC *usecase.ProductUseCase
	LedgerUC  *usecase.LedgerUseCase
	Manager   *movement.Manager
	Approval  *movement.ApprovalEngine
	Resolver  *movement.Resolver
	AuthUC    *auth.AuthUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	manageOnly := RequireRole(entity.RoleAdmin, entity.RoleGerente)

	// Branches (protegido; escrituras solo admin/gerente)
	branches := protected.Group("/branches")
	branchHandler := NewBranchHandler(deps.BranchUC)
	branches.Get("/", branchHandler.List)
	branches.Post("/", manageOnly, branchHandler.Create)
	branches.Get("/:id", branchHandler.GetByID)
	branches.Put("/:id", manageOnly, branchHandler.Update)

	// Stock por sucursal (protegido; ajustes solo admin/gerente)
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	branches.Get("/:id/stock", ledgerHandler.ListByBranch)
	branches.Get("/:id/stock/:productId", ledgerHandler.Get)
	branches.Put("/:id/stock/:productId", manageOnly, ledgerHandler.Set)
	branches.Delete("/:id/stock/:productId", manageOnly, ledgerHandler.Deactivate)
	branches.Get("/:id/stock-history", ledgerHandler.History)

	// Products (protegido; escrituras solo admin/gerente)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", manageOnly, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", manageOnly, productHandler.Update)

	// Movimientos entre sucursales (protegido; aprobar/rechazar solo admin/gerente)
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.Manager, deps.Approval, deps.Resolver)
	movements.Post("/transfers", movementHandler.CreateTransfer)
	movements.Post("/borrows", movementHandler.CreateBorrow)
	movements.Get("/pending-borrows", movementHandler.PendingBorrows)
	movements.Get("/common-catalog", movementHandler.CommonCatalog)
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Get("/:id/review", movementHandler.Review)
	movements.Post("/:id/approve", manageOnly, movementHandler.Approve)
	movements.Post("/:id/decline", manageOnly, movementHandler.Decline)
	movements.Post("/:id/receive", movementHandler.Receive)
}
