package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	cartControllers "github.com/junaidrashid-git/cartledger-api/controllers/cart"
	"github.com/junaidrashid-git/cartledger-api/events"
	"github.com/junaidrashid-git/cartledger-api/models"
	"github.com/junaidrashid-git/cartledger-api/routes"
	"github.com/junaidrashid-git/cartledger-api/session"
	"go.uber.org/zap"
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
		&models.Product{},
		&models.SessionRecord{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	// Association targets cart rows may reference
	models.RegisterAssociation("Product", &models.Product{})

	// Session store: redis when REDIS_ADDR is set, otherwise the DB
	store := initStore(db)

	// Event notifier: structured log + websocket feed
	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("❌ Failed to init zap: %v", err)
	}
	defer zl.Sync()

	notifier := events.NewNotifier()
	notifier.Subscribe(events.ZapObserver(zl))
	notifier.Subscribe(cartControllers.BroadcastCartEvent)

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
	routes.SetupRoutes(r, db, store, notifier)

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

// initStore picks the session store backing cart collections
func initStore(db *gorm.DB) session.Store {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		store, err := session.NewRedisStore(addr, 0)
		if err != nil {
			log.Fatalf("❌ Redis connection failed: %v", err)
		}
		log.Println("✅ Using redis session store")
		return store
	}
	log.Println("✅ Using database session store")
	return session.NewGormStore(db)
}
