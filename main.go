package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pinfinity1/tiamara-sub002/cart"
	"github.com/pinfinity1/tiamara-sub002/catalog"
	"github.com/pinfinity1/tiamara-sub002/checkout"
	orderControllers "github.com/pinfinity1/tiamara-sub002/controllers/order"
	"github.com/pinfinity1/tiamara-sub002/models"
	"github.com/pinfinity1/tiamara-sub002/order"
	"github.com/pinfinity1/tiamara-sub002/payment"
	"github.com/pinfinity1/tiamara-sub002/routes"
	"github.com/pinfinity1/tiamara-sub002/shipping"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	log.Println("✅ Starting application...")

	// Load environment variables
	_ = godotenv.Load()

	// Init DB
	db := initDatabase()

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Category{},
		&models.Cart{},
		&models.CartItem{},
		&models.ShippingMethod{},
		&models.CheckoutSession{},
		&models.Order{},
		&models.OrderItem{},
		&models.PaymentAttempt{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	if err := shipping.SeedDefaultMethods(db); err != nil {
		log.Fatalf("❌ Seeding shipping methods failed: %v", err)
	}

	// Payment gateway config
	paymentCfg, err := payment.ConfigFromEnv()
	if err != nil {
		log.Fatalf("❌ Payment gateway config: %v", err)
	}

	// Wire the core
	cartRepo := cart.NewGormRepository(db)
	cat := catalog.NewGormCatalog(db)
	carts := cart.NewStore(cartRepo, cat)
	ship := shipping.NewGormService(db)
	orderRepo := order.NewGormRepository(db)
	sessions := checkout.NewGormSessionRepository(db)
	orchestrator := checkout.NewOrchestrator(carts, cat, ship, orderRepo, sessions)
	attempts := payment.NewGormAttemptRepository(db)
	gateway := payment.NewGateway(paymentCfg, orderRepo, attempts)

	machine := order.NewStateMachine(orderRepo)
	machine.OnPaid(func(o models.Order) {
		// Fulfillment hand-off: surface the paid order to the admin console.
		orderControllers.BroadcastOrderUpdate(o)
	})

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup routes
	routes.SetupRoutes(r, routes.Deps{
		DB:           db,
		Carts:        carts,
		Orchestrator: orchestrator,
		Gateway:      gateway,
		StateMachine: machine,
		Orders:       orderRepo,
		Shipping:     ship,
		Attempts:     attempts,
	})

	// Purge stale anonymous carts at 3 AM daily; keep 60 days
	go startDailyCartPurgeAtFixedTime(cartRepo, 60*24*time.Hour, 3, 0)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server running on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase() *gorm.DB {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("❌ DB connection failed: %v", err)
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect DB: %v", err)
	}
	return db
}

// startDailyCartPurgeAtFixedTime removes abandoned anonymous carts daily at a
// fixed hour. User carts are never swept, and a pending_payment order left
// behind by an abandoned checkout is owned by a separate expiry process.
func startDailyCartPurgeAtFixedTime(repo *cart.GormRepository, retention time.Duration, hour, min int) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		log.Printf("⏳ Next anonymous cart purge scheduled at: %s", next.Format("2006-01-02 15:04:05"))
		time.Sleep(next.Sub(now))

		cutoff := time.Now().Add(-retention)
		removed, err := repo.PurgeStaleAnonymousCarts(context.Background(), cutoff)
		if err != nil {
			log.Printf("❌ Failed to purge stale carts: %v", err)
		} else {
			log.Printf("🗑️ Removed %d stale anonymous carts", removed)
		}
	}
}
