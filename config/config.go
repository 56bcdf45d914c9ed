package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	MongoURI          string
	DBName            string
	Port              string
	Env               string
	JWTSecret         string
	JWTExpiresMinutes int
	AWSRegion         string
	AWSBucketName     string
	MeshyAPIKey       string
	MeshyBaseURL      string
	InternalAPIKey    string
	SendGridAPIKey    string
	MailFrom          string
	DefaultAssetsURL  string
	MaxFileSize       int64 = 100 << 20
	AllowedExtensions       = []string{"glb", "gltf"}
)

// DefaultAssetsPrefix is the object storage prefix of the bundled models.
const DefaultAssetsPrefix = "default/"

// LoadConfig loads environment variables from .env file
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	MongoURI = getEnv("MONGO_URI", "mongodb://localhost:27017/")
	DBName = getEnv("MONGO_DB_NAME", "chicforgeeks")
	Port = getEnv("PORT", "8080")
	Env = getEnv("APP_ENV", "development")

	JWTSecret = getEnv("JWT_SECRET", getEnv("SECRET_KEY", "dev-secret-key-change-in-production"))
	JWTExpiresMinutes = 60
	if v := os.Getenv("JWT_EXPIRES_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			JWTExpiresMinutes = n
		} else {
			log.Printf("Invalid JWT_EXPIRES_MINUTES %q, using %d", v, JWTExpiresMinutes)
		}
	}

	AWSRegion = getEnv("AWS_REGION", "us-east-1")
	AWSBucketName = os.Getenv("AWS_BUCKET_NAME")

	MeshyAPIKey = os.Getenv("MESHY_API_KEY")
	MeshyBaseURL = getEnv("MESHY_BASE_URL", "https://api.meshy.ai/openapi/v1")
	InternalAPIKey = os.Getenv("INTERNAL_API_KEY")

	SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	MailFrom = getEnv("MAIL_FROM", "no-reply@chicforgeeks.app")

	DefaultAssetsURL = os.Getenv("DEFAULT_ASSETS_URL")
}

// IsAllowedExtension reports whether filename ends in one of AllowedExtensions.
func IsAllowedExtension(filename string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return false
	}
	ext := strings.ToLower(filename[idx+1:])
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
