// Command seed_defaults imports a zip of bundled 3D models into object storage
// under the default/ prefix and registers them as system files.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/raushankrgupta/chicforgeeks-api/config"
	"github.com/raushankrgupta/chicforgeeks-api/logger"
	"github.com/raushankrgupta/chicforgeeks-api/repository"
	"github.com/raushankrgupta/chicforgeeks-api/store"
	"github.com/raushankrgupta/chicforgeeks-api/utils"
)

func main() {
	config.LoadConfig()

	archiveURL := flag.String("archive", config.DefaultAssetsURL, "URL of a zip archive of .glb/.gltf models")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall time limit")
	flag.Parse()

	appLogger, err := logger.New(config.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	if *archiveURL == "" {
		appLogger.Fatal("No archive given, pass -archive or set DEFAULT_ASSETS_URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	s3Storage, err := utils.NewS3Storage(ctx, config.AWSRegion, config.AWSBucketName)
	if err != nil {
		appLogger.Fatal("Failed to initialize S3 storage", "error", err)
	}
	mongo, err := store.ConnectMongo(ctx, config.MongoURI, config.DBName)
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", "error", err)
	}
	defer mongo.Disconnect(context.Background())

	objects, err := utils.ImportAssetArchive(ctx, *archiveURL, config.DefaultAssetsPrefix, s3Storage)
	if err != nil {
		appLogger.Fatal("Failed to import archive", "url", *archiveURL, "error", err)
	}
	appLogger.Info("Uploaded default assets", "count", len(objects))

	n, err := repository.NewFileRepository(mongo).RegisterDefaults(ctx, objects)
	if err != nil {
		appLogger.Fatal("Failed to register default assets", "error", err)
	}
	if n == 0 {
		appLogger.Info("Default assets were already registered")
		return
	}
	appLogger.Info("Registered default assets", "count", n)
}
