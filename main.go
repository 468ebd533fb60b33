package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hostel-backend/config"
	"hostel-backend/controllers"
	"hostel-backend/routes"
	"hostel-backend/services"
)

func initLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
	log.Logger = log.With().Str("service", "hostel-backend").Logger()
}

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Info().Msg(".env not found or couldn't load it; continuing with environment variables")
	}
	initLogger()

	if err := config.ConnectDatabase(); err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	db := config.DB
	log.Info().Msg("database connection established and migrations applied")

	// Services
	roomService := services.NewRoomService(db)
	userDirectory := services.NewDBUserDirectory(db)
	allocationService := services.NewAllocationService(db, roomService, userDirectory)
	requestService := services.NewServiceRequestService(db, roomService, userDirectory)
	reportService := services.NewReportService(db)

	// Controllers
	roomController := controllers.NewRoomController(roomService)
	allocationController := controllers.NewAllocationController(allocationService)
	requestController := controllers.NewServiceRequestController(requestService)
	reportController := controllers.NewReportController(reportService)

	router := routes.SetupRouter(roomController, allocationController, requestController, reportController)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen and serve failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received, shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped gracefully")
}
