package main

import (
	"os"
	"strings"
	"time"

	"texerp-backend/internal/auth"
	"texerp-backend/internal/config"
	"texerp-backend/internal/database"
	"texerp-backend/internal/finance"
	"texerp-backend/internal/inventory"
	"texerp-backend/internal/models"
	"texerp-backend/internal/sales"
	"texerp-backend/internal/shipment"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Error().Err(err).Str("path", c.Path()).Msg("Beklenmeyen hata")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(corsOrigins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: true,
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))
	adminRoutes.Post("/users", auth.CreateUserHandler())
	adminRoutes.Get("/users", auth.ListUsersHandler())

	// Stok (ana rulo)
	protected.Post("/inventory/stock", inventory.CreateStockHandler())
	protected.Get("/inventory/stock", inventory.ListStockHandler())
	protected.Get("/inventory/stock/generate-roll-no", inventory.GenerateRollNoHandler())
	protected.Get("/inventory/stock/:id", inventory.GetStockHandler())
	protected.Delete("/inventory/stock/:id", inventory.DeleteStockHandler())

	// Alt rulolar (bölme / toplu silme)
	protected.Post("/inventory/divided/new", inventory.CreateDividedHandler())
	protected.Delete("/inventory/divided/bulk-delete", inventory.BulkDeleteDividedHandler())
	protected.Get("/inventory/divided", inventory.ListDividedHandler())

	// Denetim
	protected.Post("/inventory/inspection/stock", inventory.InspectStockHandler())
	protected.Post("/inventory/inspection/divided", inventory.InspectDividedHandler())
	protected.Get("/inventory/inspection/logs", inventory.ListInspectionLogsHandler())

	// Satış
	protected.Post("/sales/customers", sales.CreateCustomerHandler())
	protected.Get("/sales/customers", sales.ListCustomersHandler())
	protected.Put("/sales/customers/:id", sales.UpdateCustomerHandler())
	protected.Post("/sales/orders", sales.CreateOrderHandler())
	protected.Get("/sales/orders", sales.ListOrdersHandler())
	protected.Get("/sales/orders/generate-order-no", sales.GenerateOrderNoHandler())
	protected.Get("/sales/orders/:id", sales.GetOrderHandler())
	protected.Delete("/sales/orders/:id", sales.DeleteOrderHandler())

	// Sevkiyat
	protected.Post("/shipments", shipment.CreateShipmentHandler())
	protected.Get("/shipments", shipment.ListShipmentsHandler())
	protected.Get("/shipments/:id", shipment.GetShipmentHandler())
	protected.Post("/shipments/:id/scan", shipment.ScanBarcodeHandler())

	// Finans
	financeRoutes := protected.Group("/finance")
	financeRoutes.Use(auth.RequireRole(models.RoleAdmin, models.RoleOffice))
	financeRoutes.Post("/accounts", finance.CreateAccountHandler())
	financeRoutes.Get("/accounts", finance.ListAccountsHandler())
	financeRoutes.Post("/journal-entries", finance.CreateJournalEntryHandler())
	financeRoutes.Get("/journal-entries", finance.ListJournalEntriesHandler())
	financeRoutes.Get("/journal-entries/:id", finance.GetJournalEntryHandler())
	financeRoutes.Post("/invoices", finance.CreateInvoiceHandler())
	financeRoutes.Get("/invoices", finance.ListInvoicesHandler())
	financeRoutes.Post("/payments", finance.CreatePaymentHandler())
	financeRoutes.Get("/payments", finance.ListPaymentsHandler())
	financeRoutes.Post("/reconciliation/run", finance.RunReconciliationHandler())
	financeRoutes.Get("/reconciliation", finance.ListReconciliationHandler())
	financeRoutes.Get("/reconciliation/export", finance.ExportReconciliationHandler())

	log.Info().Str("port", cfg.HTTPPort).Msg("Server çalışıyor")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal().Err(err).Msg("Server başlatılamadı")
	}
}
