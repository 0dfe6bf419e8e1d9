package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/donaciones-api/internal/application/allocation"
	"github.com/jhoicas/donaciones-api/internal/application/donation"
	"github.com/jhoicas/donaciones-api/internal/application/inventory"
	"github.com/jhoicas/donaciones-api/internal/application/request"
	"github.com/jhoicas/donaciones-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *usecase.ProductUseCase
	DonationUC   *donation.UseCase
	RequestUC    *request.UseCase
	AllocationUC *allocation.UseCase
	InventoryUC  *inventory.QueriesUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido; escritura solo admin)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequireRole(RoleAdmin), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Donations (crean donantes o admin; transiciones solo admin)
	donations := protected.Group("/donations")
	donationHandler := NewDonationHandler(deps.DonationUC)
	donations.Post("/", RequireRole(RoleDonor, RoleAdmin), donationHandler.Create)
	donations.Get("/:id", donationHandler.GetByID)
	donations.Patch("/:id/state", RequireRole(RoleAdmin), donationHandler.Transition)

	// Requests (crean receptores o admin)
	requests := protected.Group("/requests")
	requestHandler := NewRequestHandler(deps.RequestUC)
	requests.Post("/", RequireRole(RoleReceptor, RoleAdmin), requestHandler.Create)
	requests.Get("/", RequireRole(RoleAdmin), requestHandler.ListByState)
	requests.Get("/:id", requestHandler.GetByID)
	requests.Patch("/:id/state", RequireRole(RoleAdmin), requestHandler.Transition)

	// Assignments (aprobación y asignación, solo admin)
	assignmentHandler := NewAssignmentHandler(deps.AllocationUC)
	requests.Post("/:id/assignments", RequireRole(RoleAdmin), assignmentHandler.Allocate)

	assignments := protected.Group("/assignments")
	assignments.Get("/", RequireRole(RoleAdmin), assignmentHandler.ListByState)
	assignments.Get("/:id", assignmentHandler.GetByID)
	assignments.Patch("/:id/state", RequireRole(RoleAdmin), assignmentHandler.Transition)

	// Inventory (proyecciones, solo admin)
	invGroup := protected.Group("/inventory", RequireRole(RoleAdmin))
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)
	invGroup.Get("/expiring-lots", inventoryHandler.ExpiringLots)
}
