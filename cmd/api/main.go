package main

import (
	"log"
	"os"
	"time"

	"github.com/agrohaul/agrohaul-backend/internal/database"
	"github.com/agrohaul/agrohaul-backend/internal/handlers"
	"github.com/agrohaul/agrohaul-backend/internal/middleware"
	"github.com/agrohaul/agrohaul-backend/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Initialize Redis
	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize Storage (S3 or local fallback) for proof photos
	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Initialize router
	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Serve locally stored proof photos
	r.Static("/uploads", "/app/uploads")

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		transport := api.Group("/transport")
		{
			// Driver routes: the credential pair travels with every request
			driver := transport.Group("/driver")
			{
				driver.POST("/login", handlers.DriverLogin(db))

				authed := driver.Group("/")
				authed.Use(middleware.DriverAuthMiddleware(db))
				{
					authed.GET("/schedule", handlers.GetDriverSchedule(db))
					authed.POST("/location", handlers.UpdateVehicleLocation(db))
					authed.POST("/bookings/:id/start", handlers.StartTrip(db, hub))
					authed.POST("/bookings/:id/complete", handlers.CompleteTrip(db, hub))
					authed.POST("/bookings/:id/proof", handlers.UploadProofPhoto(db))
				}
			}

			// Farmer/transporter routes behind JWT auth
			protected := transport.Group("/")
			protected.Use(middleware.AuthMiddleware())
			{
				vehicles := protected.Group("/vehicles")
				{
					vehicles.POST("", handlers.RegisterVehicle(db))
					vehicles.GET("", handlers.ListVehicles(db))
					vehicles.GET("/nearby", handlers.GetNearbyVehicles(db))
				}

				bookings := protected.Group("/bookings")
				{
					bookings.POST("", handlers.CreateBooking(db, hub))
					bookings.GET("", handlers.ListBookings(db))
					bookings.GET("/:id", handlers.GetBookingStatus(db))
					bookings.POST("/:id/accept", handlers.AcceptBooking(db, hub))
					bookings.POST("/:id/pay", handlers.PayBooking(db))
					bookings.POST("/:id/intake", handlers.RecordIntake(db))
				}

				protected.GET("/dispatch", handlers.GetDispatchBoard(db))

				facilities := protected.Group("/facilities")
				{
					facilities.POST("", handlers.CreateStorageFacility(db))
					facilities.GET("", handlers.ListStorageFacilities(db))
				}
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
