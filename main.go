// File: slotify/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slotify/config"
	"slotify/cron"
	"slotify/database"
	timeslotRepo "slotify/database/repository/timeslot"
	"slotify/handlers"
	"slotify/middleware"
	"slotify/routes"
	"slotify/services/scheduling"
	"slotify/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.Default())

	// repositories.
	slotRepo := timeslotRepo.NewMongoTimeSlotRepo()
	if err := slotRepo.EnsureIndexes(context.Background()); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure timeslot indexes: %v", err)
	}

	// services.
	engine := &scheduling.DefaultSchedulingEngine{
		Repo:               slotRepo,
		Cache:              utils.GetCacheClient(),
		MinBookableMinutes: config.AppConfig.MinBookableMinutes,
		HorizonMonths:      config.AppConfig.FixedSlotHorizonMths,
	}
	schedulingHandler := handlers.NewSchedulingHandler(engine)

	routes.RegisterRoutes(router, schedulingHandler)

	// Background maintenance: periodic fixed-slot extension.
	cron.InitExtendWorker(engine, slotRepo)

	utils.StartHealthMonitor(utils.GetCacheClient(), utils.GetQueueClient(), database.MongoClient)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Info("starting server", zap.String("port", config.AppConfig.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}
