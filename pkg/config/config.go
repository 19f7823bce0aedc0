package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Persistence backends
const (
	PersistenceNone     = "none"
	PersistenceFile     = "file"
	PersistenceMinIO    = "minio"
	PersistencePostgres = "postgres"
	PersistenceSQLite   = "sqlite"
)

// DefaultJWTSecret signs admin tokens in development. Production refuses it.
const DefaultJWTSecret = "your-admin-jwt-secret-change-in-production"

// Config holds application configuration
type Config struct {
	Server      ServerConfig
	Admin       AdminConfig
	Storage     StorageConfig
	Persistence PersistenceConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Extraction  ExtractionConfig
	Keywords    KeywordsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// AdminConfig holds the shared admin secret and token settings
type AdminConfig struct {
	Secret      string
	JWTSecret   string
	TokenExpiry time.Duration
}

// StorageConfig holds object storage configuration for survey images
type StorageConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
	PublicURL       string
	ImagePrefix     string
}

// PersistenceConfig selects where store snapshots are written
type PersistenceConfig struct {
	Backend    string
	DataDir    string
	SQLitePath string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration for live dashboard events
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	Channel  string
}

// ExtractionConfig holds document analyzer settings.
// Tagged fields are read with envconfig using the EXTRACTION prefix.
type ExtractionConfig struct {
	Endpoint       string        `ignored:"true"`
	APIKey         string        `ignored:"true"`
	AnalyzerID     string        `envconfig:"ANALYZER_ID" default:"audience-survey"`
	APIVersion     string        `envconfig:"API_VERSION" default:"2025-05-01-preview"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	PollInterval   time.Duration `envconfig:"POLL_INTERVAL" default:"1s"`
	PollTimeout    time.Duration `envconfig:"POLL_TIMEOUT" default:"60s"`
	SubmitRetries  uint64        `envconfig:"SUBMIT_RETRIES" default:"2"`
	MinConfidence  float64       `envconfig:"MIN_CONFIDENCE" default:"0"`
}

// KeywordsConfig holds keyword extraction thresholds.
// Read with envconfig using the KEYWORDS prefix.
type KeywordsConfig struct {
	MinTokenLength int     `envconfig:"MIN_TOKEN_LENGTH" default:"4"`
	MinPhraseCount int     `envconfig:"MIN_PHRASE_COUNT" default:"2"`
	PhraseBoost    float64 `envconfig:"PHRASE_BOOST" default:"1.5"`
	MaxPhrases     int     `envconfig:"MAX_PHRASES" default:"15"`
	MaxWords       int     `envconfig:"MAX_WORDS" default:"35"`
	MaxKeywords    int     `envconfig:"MAX_KEYWORDS" default:"50"`
	StopWordsFile  string  `envconfig:"STOPWORDS_FILE"`
}

// DefaultKeywordsConfig returns the stock keyword thresholds
func DefaultKeywordsConfig() KeywordsConfig {
	return KeywordsConfig{
		MinTokenLength: 4,
		MinPhraseCount: 2,
		PhraseBoost:    1.5,
		MaxPhrases:     15,
		MaxWords:       35,
		MaxKeywords:    50,
	}
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  getEnvAsSlice("ALLOWED_ORIGINS", "http://localhost:3000"),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Admin: AdminConfig{
			Secret:      getEnv("ADMIN_SECRET", ""),
			JWTSecret:   getEnv("JWT_SECRET", DefaultJWTSecret),
			TokenExpiry: getEnvAsDuration("ADMIN_TOKEN_EXPIRY", "12h"),
		},
		Storage: StorageConfig{
			Enabled:         getEnvAsBool("STORAGE_ENABLED", false),
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "uploads"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
			PublicURL:       getEnv("STORAGE_PUBLIC_URL", ""),
			ImagePrefix:     getEnv("STORAGE_IMAGE_PREFIX", "surveys"),
		},
		Persistence: PersistenceConfig{
			Backend:    getEnv("PERSISTENCE_BACKEND", PersistenceFile),
			DataDir:    getEnv("PERSISTENCE_DATA_DIR", "data"),
			SQLitePath: getEnv("PERSISTENCE_SQLITE_PATH", "data/audience-survey.db"),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "audience_survey"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 2),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Channel:  getEnv("REDIS_CHANNEL", "audience-survey:sessions"),
		},
	}

	if err := envconfig.Process("EXTRACTION", &config.Extraction); err != nil {
		return nil, fmt.Errorf("failed to load extraction config: %w", err)
	}
	config.Extraction.Endpoint = strings.TrimRight(getEnv("AZURE_CONTENT_ENDPOINT", ""), "/")
	config.Extraction.APIKey = getEnv("AZURE_CONTENT_KEY", "")

	if err := envconfig.Process("KEYWORDS", &config.Keywords); err != nil {
		return nil, fmt.Errorf("failed to load keywords config: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.IsProduction() {
		if c.Admin.Secret == "" {
			return fmt.Errorf("ADMIN_SECRET is required in production")
		}
		if c.Admin.JWTSecret == "" || c.Admin.JWTSecret == DefaultJWTSecret {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
	}
	switch c.Persistence.Backend {
	case PersistenceNone, PersistenceFile, PersistenceMinIO, PersistencePostgres, PersistenceSQLite:
	default:
		return fmt.Errorf("unknown PERSISTENCE_BACKEND %q", c.Persistence.Backend)
	}
	if c.Persistence.Backend == PersistenceMinIO && !c.Storage.Enabled {
		return fmt.Errorf("PERSISTENCE_BACKEND=minio requires STORAGE_ENABLED")
	}
	if c.Keywords.MinTokenLength < 1 || c.Keywords.MaxKeywords < 0 {
		return fmt.Errorf("invalid KEYWORDS_* thresholds")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

func getEnvAsSlice(key string, defaultValue string) []string {
	parts := strings.Split(getEnv(key, defaultValue), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
