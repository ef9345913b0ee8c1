package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Stockmaster-api/internal/application/analytics"
	"github.com/jhoicas/Stockmaster-api/internal/application/auth"
	"github.com/jhoicas/Stockmaster-api/internal/application/inventory"
	"github.com/jhoicas/Stockmaster-api/internal/application/usecase"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
)

// RouterDeps dependencias para el router. SlipUC y DashboardUC son opcionales.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	LocationUC  *usecase.LocationUseCase
	OperationUC *inventory.OperationUseCase
	LedgerUC    *inventory.LedgerUseCase
	SlipUC      *inventory.SlipUseCase
	DashboardUC *appanalytics.DashboardUseCase
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

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)
	catalogWriters := RequireRole(entity.RoleAdmin, entity.RoleManager)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", catalogWriters, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", catalogWriters, locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)

	ops := protected.Group("/operations")
	opHandler := NewOperationHandler(deps.OperationUC, deps.SlipUC)
	ops.Post("/", opHandler.Create)
	ops.Get("/", opHandler.List)
	ops.Get("/:id", opHandler.GetByID)
	ops.Patch("/:id", opHandler.Patch)
	ops.Post("/:id/lines", opHandler.AppendLines)
	ops.Post("/:id/check", opHandler.Check)
	ops.Post("/:id/validate", opHandler.Validate)
	ops.Post("/:id/cancel", opHandler.Cancel)
	if deps.SlipUC != nil {
		ops.Get("/:id/slip", opHandler.Slip)
	}

	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	moves := protected.Group("/moves")
	moves.Get("/", ledgerHandler.ListMoves)
	moves.Get("/history", ledgerHandler.History)
	moves.Get("/reference/*", ledgerHandler.ByReference)

	quants := protected.Group("/quants")
	quants.Get("/", ledgerHandler.ListQuants)
	quants.Get("/reconcile", ledgerHandler.Reconcile)

	if deps.DashboardUC != nil {
		dashboardHandler := NewDashboardHandler(deps.DashboardUC)
		protected.Get("/dashboard/kpis", dashboardHandler.GetKPIs)
	}
}
