package common

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/viper"
)

const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendFirebase = "firebase"

	AuthLocal    = "local"
	AuthFirebase = "firebase"

	LogSinkStdout = "stdout"
	LogSinkGCloud = "gcloud"
)

type Config struct {
	Viper *viper.Viper
}

func NewViper() *Config {
	config := viper.New()
	config.SetConfigFile(".env")
	config.AddConfigPath("../")
	config.AutomaticEnv()
	SetDefaults(config)

	log.Trace("Checking file .env ....")
	if err := config.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			panic("failed read config")
		}
		log.Warn("No .env file found, using environment and defaults")
	}
	return &Config{Viper: config}
}

// NewConfig wraps an existing viper instance, applying the defaults.
func NewConfig(v *viper.Viper) *Config {
	SetDefaults(v)
	return &Config{Viper: v}
}

func SetDefaults(config *viper.Viper) {
	config.SetDefault("APP_NAME", "chat-sync-app")
	config.SetDefault("APP_PORT", "7720")
	config.SetDefault("CORS_ORIGINS", "http://localhost:8080")
	config.SetDefault("BACKEND", BackendSQLite)
	config.SetDefault("DB_PORT", "5432")
	config.SetDefault("DB_TIMEZONE", "UTC")
	config.SetDefault("SQLITE_PATH", "chat.db")
	config.SetDefault("JWT_TTL_MINUTES", 60)
	config.SetDefault("AUTH_PROVIDER", AuthLocal)
	config.SetDefault("BLOB_DIR", "blobs")
	config.SetDefault("BLOB_BASE_URL", "/blobs")
	config.SetDefault("LOG_LEVEL", "info")
	config.SetDefault("LOG_DIR", "logs")
	config.SetDefault("LOG_SINK", LogSinkStdout)
}

func (c *Config) GetAppConfig() (appName string) {
	return c.Viper.GetString("APP_NAME")
}

func (c *Config) GetListenAddr() string {
	return ":" + c.Viper.GetString("APP_PORT")
}

func (c *Config) GetCorsOrigins() string {
	return c.Viper.GetString("CORS_ORIGINS")
}

func (c *Config) GetBackend() string {
	return strings.ToLower(c.Viper.GetString("BACKEND"))
}

func (c *Config) GetDatabaseConfig() (dbHost, dbUser, dbPassword, dbName, dbPort string) {
	dbHost = c.Viper.GetString("DB_HOSTNAME")
	dbUser = c.Viper.GetString("DB_USER")
	dbPassword = c.Viper.GetString("DB_PASSWORD")
	dbName = c.Viper.GetString("DB_NAME")
	dbPort = c.Viper.GetString("DB_PORT")

	return dbHost, dbUser, dbPassword, dbName, dbPort
}

func (c *Config) GetDatabaseTimezone() string {
	return c.Viper.GetString("DB_TIMEZONE")
}

func (c *Config) GetSQLitePath() string {
	return c.Viper.GetString("SQLITE_PATH")
}

func (c *Config) GetJwtConfig() []byte {
	jwtSecret := c.Viper.GetString("JWT_SECRET")
	return []byte(jwtSecret)
}

func (c *Config) GetJwtTTL() time.Duration {
	return time.Duration(c.Viper.GetInt("JWT_TTL_MINUTES")) * time.Minute
}

func (c *Config) GetAuthProvider() string {
	return strings.ToLower(c.Viper.GetString("AUTH_PROVIDER"))
}

func (c *Config) GetFirebaseConfig() (projectID, credentialsFile, apiKey, storageBucket string) {
	projectID = c.Viper.GetString("FIREBASE_PROJECT_ID")
	credentialsFile = c.Viper.GetString("FIREBASE_CREDENTIALS_FILE")
	apiKey = c.Viper.GetString("FIREBASE_API_KEY")
	storageBucket = c.Viper.GetString("FIREBASE_STORAGE_BUCKET")

	return projectID, credentialsFile, apiKey, storageBucket
}

func (c *Config) GetBlobConfig() (dir, baseURL string) {
	return c.Viper.GetString("BLOB_DIR"), c.Viper.GetString("BLOB_BASE_URL")
}

func (c *Config) GetLogConfig() (level, dir, sink string) {
	level = c.Viper.GetString("LOG_LEVEL")
	dir = c.Viper.GetString("LOG_DIR")
	sink = strings.ToLower(c.Viper.GetString("LOG_SINK"))

	return level, dir, sink
}
