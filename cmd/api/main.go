package main

import (
	"log"
	"os"

	_ "github.com/Xabartshik/TaskControl-sub001/api/swagger" // swagger docs
	"github.com/Xabartshik/TaskControl-sub001/internal/database"
	"github.com/Xabartshik/TaskControl-sub001/internal/handler"
	"github.com/Xabartshik/TaskControl-sub001/internal/middleware"
	"github.com/Xabartshik/TaskControl-sub001/internal/repository"
	"github.com/Xabartshik/TaskControl-sub001/internal/service"
	"github.com/Xabartshik/TaskControl-sub001/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Warehouse Ledger API
// @version         1.0
// @description     Warehouse/order-tracking backend: branches, items, storage positions, the inventory ledger and order fulfillment.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	branchRepo := repository.NewBranchRepository(db)
	itemRepo := repository.NewItemRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	itemPositionRepo := repository.NewItemPositionRepository(db)
	movementRepo := repository.NewItemMovementRepository(db)
	statusRepo := repository.NewItemStatusRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	eventRepo := repository.NewRawEventRepository(db)
	userRepo := repository.NewUserRepository(db)

	catalogService := service.NewCatalogService(branchRepo, itemRepo, positionRepo)
	ledgerService := service.NewLedgerService(
		itemRepo, positionRepo, branchRepo,
		itemPositionRepo, movementRepo, statusRepo, orderRepo,
		txManager, wsHub,
	)
	orderService := service.NewOrderService(orderRepo, branchRepo, itemPositionRepo, ledgerService, txManager)
	eventService := service.NewEventService(eventRepo)
	userService := service.NewUserService(userRepo)

	// Initialize Handlers
	catalogHandler := handler.NewCatalogHandler(catalogService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	orderHandler := handler.NewOrderHandler(orderService)
	eventHandler := handler.NewEventHandler(eventService)
	userHandler := handler.NewUserHandler(userService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	catalogHandler.RegisterRoutes(router.Group(""))
	ledgerHandler.RegisterRoutes(router.Group(""))
	orderHandler.RegisterRoutes(router.Group(""))
	eventHandler.RegisterRoutes(router.Group(""))
	userHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
