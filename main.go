package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raushankrgupta/chicforgeeks-api/api"
	"github.com/raushankrgupta/chicforgeeks-api/config"
	"github.com/raushankrgupta/chicforgeeks-api/logger"
	"github.com/raushankrgupta/chicforgeeks-api/store"
	"github.com/raushankrgupta/chicforgeeks-api/utils"
)

func main() {
	config.LoadConfig()

	appLogger, err := logger.New(config.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	// Initialize MongoDB
	mongo, err := store.ConnectMongo(context.Background(), config.MongoURI, config.DBName)
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", "error", err)
	}
	appLogger.Info("Connected to MongoDB", "database", config.DBName)

	h := api.NewHandler(mongo, appLogger)

	if config.AWSBucketName != "" {
		s3Storage, err := utils.NewS3Storage(context.Background(), config.AWSRegion, config.AWSBucketName)
		if err != nil {
			appLogger.Fatal("Failed to initialize S3 storage", "error", err)
		}
		h.Storage = s3Storage
		registerDefaultAssets(h, appLogger)
	} else {
		appLogger.Warn("AWS_BUCKET_NAME is not set, file routes are disabled")
	}
	if config.MeshyAPIKey != "" {
		h.Meshy = utils.NewMeshyClient(config.MeshyBaseURL, config.MeshyAPIKey)
	}
	if config.SendGridAPIKey != "" {
		h.Mailer = utils.NewSendGridMailer(config.SendGridAPIKey, config.MailFrom, appLogger)
	}

	server := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		appLogger.Info("Server starting", "port", config.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Server failed to start", "error", err)
		}
	}()

	<-stop
	appLogger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server shutdown failed", "error", err)
	}
	if err := mongo.Disconnect(ctx); err != nil {
		appLogger.Error("MongoDB disconnect failed", "error", err)
	}
	appLogger.Info("Server exited gracefully.")
}

// registerDefaultAssets records the bundled models under default/ the first
// time the server starts against an empty catalog.
func registerDefaultAssets(h *api.Handler, appLogger *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	objects, err := h.Storage.List(ctx, config.DefaultAssetsPrefix)
	if err != nil {
		appLogger.Warn("Could not list default assets", "error", err)
		return
	}
	n, err := h.Files.RegisterDefaults(ctx, objects)
	if err != nil {
		appLogger.Warn("Could not register default assets", "error", err)
		return
	}
	if n > 0 {
		appLogger.Info("Registered default assets", "count", n)
	}
}
