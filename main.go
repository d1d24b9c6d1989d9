// File: moviemate/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moviemate/config"
	"moviemate/database"
	subscriptionRepo "moviemate/database/repository/subscription"
	userRepoPkg "moviemate/database/repository/user"
	"moviemate/handlers"
	"moviemate/middleware"
	"moviemate/routes"
	"moviemate/services/notification"
	"moviemate/services/storage"
	"moviemate/services/user"
	"moviemate/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	subsRepo := subscriptionRepo.NewMongoSubscriptionRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	// services.
	userService := &user.DefaultUserService{
		Repo:   userRepo,
		Logger: logger,
	}

	dispatcher := &notification.DefaultDispatcher{
		Subs:      subsRepo,
		Users:     userRepo,
		Transport: notification.WebPushTransport{},
		VAPID: notification.VAPIDConfig{
			PublicKey:  config.AppConfig.VAPIDPublicKey,
			PrivateKey: config.AppConfig.VAPIDPrivateKey,
			Subscriber: config.AppConfig.VAPIDSubscriber,
		},
		Logger: logger,
	}

	storageService, err := storage.NewCloudinaryStorageService()
	if err != nil {
		logger.Sugar().Warnf("main: avatar storage disabled: %v", err)
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo:      userRepo,
		Auth:          handlers.NewAuthHandler(userService),
		Users:         handlers.NewUserHandler(userService),
		Notifications: handlers.NewNotificationHandler(subsRepo, dispatcher, userService),
		Storage:       handlers.NewStorageHandler(storageService, userService),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(utils.GetAuthCacheClient(), database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
