package main

import (
	"context"

	"rental-service/internal/handler"
	"rental-service/internal/middleware"
	"rental-service/internal/model"
	"rental-service/internal/repository"
	"rental-service/internal/service"
	"rental-service/pkg/config"
	"rental-service/pkg/database"
	"rental-service/pkg/jwtutil"
	"rental-service/pkg/logger"
	"rental-service/pkg/mailer"
	"rental-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting rental service...", cfg.LogConfig()...)

	// Initialize database
	dbCfg := database.DBConfig{
		DSN:             cfg.DB.GetDSN(),
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		LogLevel:        cfg.DB.LogLevel,
	}
	if err := database.Initialize(dbCfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)

	// Pick the mail transport from config (log, smtp, or amqp)
	mail, err := mailer.New(cfg.Mail, log)
	if err != nil {
		log.Fatal("Failed to initialize mailer", zap.Error(err))
	}
	log.Info("Mailer initialized", zap.String("mode", cfg.Mail.Mode))

	// Wire repositories and services
	db := database.GetDB()
	users := repository.NewUserGorm(db)
	codes := repository.NewCodeGorm(db)
	houses := repository.NewHouseGorm(db)
	reservations := repository.NewReservationGorm(db)
	visits := repository.NewVisitGorm(db)
	locations := repository.NewLocationGorm(db)

	verification := service.NewVerification(codes, cfg.Verification.CodeLifetime)
	identity := service.NewIdentity(users, verification, mail, cfg.Password, log)
	listing := service.NewListing(houses, reservations, visits, locations)
	booking := service.NewBooking(reservations, visits, houses, mail, log)

	// Seed the available-listings gauge; it is kept incremental from here on
	if err := listing.SyncAvailableGauge(context.Background()); err != nil {
		log.Warn("Failed to seed available-listings gauge", zap.Error(err))
	}

	authHandler := handler.NewAuthHandler(identity)
	houseHandler := handler.NewHouseHandler(listing)
	bookingHandler := handler.NewBookingHandler(booking)
	locationHandler := handler.NewLocationHandler(locations)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.Health)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/activate", authHandler.Activate)
	auth.POST("/login", authHandler.Login)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// Public catalogue routes
	e.GET("/", houseHandler.Featured)
	e.GET("/houses", houseHandler.Search)
	e.GET("/houses/types", houseHandler.Types)
	e.GET("/houses/:id", houseHandler.Get)

	// Location cascade routes
	locs := e.Group("/locations")
	locs.GET("/countries", locationHandler.Countries)
	locs.GET("/countries/:id/provinces", locationHandler.Provinces)
	locs.GET("/provinces/:id/cities", locationHandler.Cities)
	locs.GET("/districts", locationHandler.Districts)
	locs.GET("/cities/:id/districts", locationHandler.DistrictsByCity)
	locs.GET("/districts/:id/sectors", locationHandler.Sectors)
	locs.GET("/sectors/:id/cells", locationHandler.Cells)
	locs.GET("/cells/:id/villages", locationHandler.Villages)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	// Profile management
	usersGroup := api.Group("/users")
	usersGroup.GET("/profile", authHandler.Profile)
	usersGroup.PATCH("/profile", authHandler.UpdateProfile)
	usersGroup.POST("/change-password", authHandler.ChangePassword)

	// Landlord listing management
	landlord := api.Group("/landlord", middleware.RequireRole(model.RoleLandlord, model.RoleAdmin))
	landlord.POST("/houses", houseHandler.Create)
	landlord.PUT("/houses/:id", houseHandler.Update)
	landlord.DELETE("/houses/:id", houseHandler.Delete)
	landlord.GET("/houses", houseHandler.MyHouses)
	landlord.GET("/dashboard", houseHandler.Dashboard)
	landlord.GET("/reservations", bookingHandler.LandlordReservations)
	landlord.GET("/visits", bookingHandler.LandlordVisits)
	landlord.POST("/reservations/:id/accept", bookingHandler.AcceptReservation)
	landlord.POST("/reservations/:id/reject", bookingHandler.RejectReservation)
	landlord.POST("/visits/:id/accept", bookingHandler.AcceptVisit)
	landlord.POST("/visits/:id/refuse", bookingHandler.RefuseVisit)

	// Tenant booking routes
	api.POST("/reservations", bookingHandler.CreateReservation)
	api.DELETE("/reservations/:id", bookingHandler.CancelReservation)
	api.GET("/reservations", bookingHandler.MyReservations)
	api.POST("/visits", bookingHandler.CreateVisit)
	api.DELETE("/visits/:id", bookingHandler.CancelVisit)
	api.GET("/visits", bookingHandler.MyVisits)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
