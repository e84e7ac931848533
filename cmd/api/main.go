package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-tindahan-pos/internal/handler"
	"go-tindahan-pos/internal/model"
	"go-tindahan-pos/internal/repository"
	"go-tindahan-pos/internal/service"
	"go-tindahan-pos/internal/ws"
	"go-tindahan-pos/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (use a dedicated migration tool in production)
	db.AutoMigrate(
		&model.Product{},
		&model.Customer{},
		&model.Transaction{},
		&model.TransactionItem{},
		&model.UtangRecord{},
		&model.Payment{},
	)

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	utangRepo := repository.NewUtangRepo(db)

	catalogService := service.NewCatalogService(productRepo, db, wsHub)
	saleService := service.NewSaleService(productRepo, customerRepo, txRepo, db, wsHub)
	ledgerService := service.NewLedgerService(customerRepo, utangRepo, db, wsHub)

	catalogHandler := handler.NewCatalogHandler(catalogService)
	saleHandler := handler.NewSaleHandler(saleService)
	customerHandler := handler.NewCustomerHandler(ledgerService)
	utangHandler := handler.NewUtangHandler(ledgerService)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Tindahan POS v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 6. Routes
	api := app.Group("/api/v1")

	// Catalog
	api.Get("/products", catalogHandler.GetProducts)
	api.Get("/products/low-stock", catalogHandler.GetLowStockProducts)
	api.Post("/products", catalogHandler.CreateProduct)
	api.Get("/products/:id", catalogHandler.GetProduct)
	api.Put("/products/:id", catalogHandler.UpdateProduct)
	api.Delete("/products/:id", catalogHandler.DeleteProduct)

	// Customer Ledger
	api.Get("/customers", customerHandler.GetCustomers)
	api.Post("/customers", customerHandler.CreateCustomer)
	api.Get("/customers/:id", customerHandler.GetCustomer)
	api.Put("/customers/:id", customerHandler.UpdateCustomer)
	api.Delete("/customers/:id", customerHandler.DeleteCustomer)

	// Sales
	api.Get("/transactions", saleHandler.GetTransactions)
	api.Post("/transactions", saleHandler.CreateTransaction)
	api.Get("/transactions/:id", saleHandler.GetTransaction)
	api.Delete("/transactions/:id", saleHandler.DeleteTransaction)

	// Utang & Repayments
	api.Get("/utang-records", utangHandler.GetUtangRecords)
	api.Get("/utang-records/:id", utangHandler.GetUtangRecord)
	api.Post("/utang-records/:id/payments", utangHandler.ApplyPayment)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
