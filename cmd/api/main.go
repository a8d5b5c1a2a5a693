package main

import (
	_ "clinicpos/api/swagger" // swagger docs
	"clinicpos/internal/database"
	"clinicpos/internal/handler"
	"clinicpos/internal/middleware"
	"clinicpos/internal/repository"
	"clinicpos/internal/service"
	"clinicpos/internal/websocket"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Clinic POS Billing API
// @version         1.0
// @description     Invoice, quotation, and payment ledger API for a hearing-care clinic.
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

	// Tax splitting depends on whether the counterparty state matches
	// the clinic's registered state.
	homeState := os.Getenv("CLINIC_HOME_STATE")
	if homeState == "" {
		homeState = "Maharashtra"
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	invoiceService := service.NewInvoiceService(invoiceRepo, catalogRepo, patientRepo, bookingRepo, auditRepo, txManager, wsHub, homeState)
	quotationService := service.NewQuotationService(quotationRepo, catalogRepo, patientRepo, auditRepo, txManager, homeState)
	bookingService := service.NewBookingService(bookingRepo, patientRepo, auditRepo, txManager)
	noteService := service.NewNoteService(noteRepo, patientRepo, invoiceRepo, auditRepo, txManager)
	patientService := service.NewPatientService(patientRepo)
	catalogService := service.NewCatalogService(catalogRepo, auditRepo, wsHub)
	reportService := service.NewReportService(db)
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	quotationHandler := handler.NewQuotationHandler(quotationService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	noteHandler := handler.NewNoteHandler(noteService)
	patientHandler := handler.NewPatientHandler(patientService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	reportHandler := handler.NewReportHandler(reportService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
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
	invoiceHandler.RegisterRoutes(router.Group(""))
	quotationHandler.RegisterRoutes(router.Group(""))
	bookingHandler.RegisterRoutes(router.Group(""))
	noteHandler.RegisterRoutes(router.Group(""))
	patientHandler.RegisterRoutes(router.Group(""))
	catalogHandler.RegisterRoutes(router.Group(""))
	reportHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
