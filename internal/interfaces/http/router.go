package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bar-inventario-api/internal/domain/entity"
)

// RouterDeps handlers ya construidos y el secreto JWT.
type RouterDeps struct {
	Auth      *AuthHandler
	Users     *UserHandler
	Products  *ProductHandler
	Inventory *InventoryHandler
	Analytics *AnalyticsHandler
	Dashboard *DashboardHandler
	Uploads   *UploadHandler
	Web       *WebHandler
	Health    *HealthHandler
	JWTSecret string
}

// Router registra las rutas de la API.
// Lecturas: admin y consulta. Mutaciones: solo admin.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", deps.Health.Health)
	app.Get("/health/db-check", deps.Health.DBCheck)

	api := app.Group("/api")

	// Auth (público)
	api.Post("/auth/login", deps.Auth.Login)

	// Rutas protegidas (requieren Bearer Token)
	authn := AuthMiddleware(deps.JWTSecret)
	read := RequireRole(entity.RoleAdmin, entity.RoleConsulta)
	write := RequireRole(entity.RoleAdmin)

	users := api.Group("/usuarios", authn)
	users.Get("/", read, deps.Users.List)
	users.Get("/:id", read, deps.Users.GetByID)
	users.Post("/", write, deps.Users.Create)
	users.Put("/:id", write, deps.Users.Update)
	users.Delete("/:id", write, deps.Users.Delete)

	products := api.Group("/productos", authn)
	products.Get("/", read, deps.Products.Search)
	products.Get("/:id", read, deps.Products.GetByID)
	products.Post("/", write, deps.Products.Create)
	products.Put("/:id", write, deps.Products.Update)
	products.Delete("/:id", write, deps.Products.Delete)

	sales := api.Group("/ventas", authn)
	sales.Get("/", read, deps.Inventory.ListSales)
	sales.Get("/:id", read, deps.Inventory.GetSale)
	sales.Post("/", write, deps.Inventory.RecordSale)

	movements := api.Group("/movimientos", authn)
	movements.Get("/", read, deps.Inventory.ListMovements)
	movements.Post("/", write, deps.Inventory.RegisterMovement)

	reports := api.Group("/reportes", authn)
	reports.Post("/rebuild", write, deps.Analytics.Rebuild)
	reports.Get("/mas-vendidos", read, deps.Analytics.MostSold)
	reports.Get("/menos-vendidos", read, deps.Analytics.LeastSold)
	reports.Get("/resumen", read, deps.Analytics.SalesSummary)
	reports.Get("/resumen.pdf", read, deps.Analytics.SalesReportPDF)
	reports.Get("/top", read, deps.Analytics.TopSellers)
	reports.Get("/bottom", read, deps.Analytics.BottomSellers)
	reports.Get("/conciliacion", read, deps.Analytics.StockReconciliation)
	reports.Get("/dashboard", read, deps.Dashboard.GetSummary)

	uploads := api.Group("/upload", authn, write)
	uploads.Post("/productos/:id/imagen", deps.Uploads.ProductImage)
	uploads.Post("/usuarios/:id/foto", deps.Uploads.UserPhoto)

	web := app.Group("/web", authn)
	web.Get("/productos", read, deps.Web.ListProducts)
	web.Post("/productos/nuevo", write, deps.Web.CreateProduct)
}
