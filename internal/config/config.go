// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const (
	defaultConfigFile  = "config.toml"
	defaultStateSecret = "change-me-hidrive-state-secret"
)

type Config struct {
	Environment string           `toml:"environment"`
	Server      ServerConfig     `toml:"server"`
	Database    DatabaseConfig   `toml:"database"`
	AWS         AWSConfig        `toml:"aws"`
	Upload      UploadConfig     `toml:"upload"`
	Catalog     CatalogConfig    `toml:"catalog"`
	Pagination  PaginationConfig `toml:"pagination"`
	RateLimit   RateLimitConfig  `toml:"rate_limit"`
	CORS        CORSConfig       `toml:"cors"`
	Logging     LoggingConfig    `toml:"logging"`
	HiDrive     HiDriveConfig    `toml:"hidrive"`
	I18n        I18nConfig       `toml:"i18n"`
}

type ServerConfig struct {
	Port            string `toml:"port"`
	Host            string `toml:"host"`
	ReadTimeout     int    `toml:"read_timeout"`
	WriteTimeout    int    `toml:"write_timeout"`
	IdleTimeout     int    `toml:"idle_timeout"`
	ShutdownTimeout int    `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver       string `toml:"driver"`
	Host         string `toml:"host"`
	Port         string `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Database     string `toml:"name"`
	SSLMode      string `toml:"ssl_mode"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
	LogLevel     string `toml:"log_level"`
}

type AWSConfig struct {
	Region          string `toml:"region"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
	S3Bucket        string `toml:"s3_bucket"`
	CloudFrontURL   string `toml:"cloudfront_url"`
	Endpoint        string `toml:"endpoint"`
	ForcePathStyle  bool   `toml:"force_path_style"`
	PublicRead      bool   `toml:"public_read"`
}

type CatalogConfig struct {
	Timezone     string `toml:"timezone"`
	ActivityDays int    `toml:"activity_days"`
}

type PaginationConfig struct {
	// MaxLimit caps the page size; 0 leaves listings unbounded.
	MaxLimit int `toml:"max_limit"`
}

type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	UploadsPerMinute  int     `toml:"uploads_per_minute"`
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type HiDriveConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	AuthorizeURL string `toml:"authorize_url"`
	TokenURL     string `toml:"token_url"`
	Scope        string `toml:"scope"`
	StateSecret  string `toml:"state_secret"`
	StateTTL     int    `toml:"state_ttl"` // in seconds
}

type I18nConfig struct {
	DefaultLocale string `toml:"default_locale"`
}

// Load builds the configuration from defaults, an optional TOML file, a .env
// file and the process environment, in increasing order of precedence.
func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := Defaults()

	path := getEnv("CONFIG_FILE", defaultConfigFile)
	if err := config.loadFile(path); err != nil {
		return nil, err
	}

	config.loadEnv()

	return config, config.Validate()
}

func Defaults() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port:            "8080",
			Host:            "localhost",
			ReadTimeout:     15,
			WriteTimeout:    60,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Driver:       DriverPostgres,
			Host:         "localhost",
			Port:         "5432",
			User:         "postgres",
			Database:     "catalog",
			SSLMode:      "disable",
			MaxOpenConns: 25,
			MaxIdleConns: 25,
			MaxLifetime:  300,
			LogLevel:     "warn",
		},
		AWS: AWSConfig{
			Region:     "eu-central-1",
			S3Bucket:   "catalog-documents",
			PublicRead: true,
		},
		Upload: UploadConfig{
			Folder:        "documents",
			MaxSize:       "20MB",
			AllowedTypes:  []string{".pdf", ".png", ".jpg", ".jpeg"},
			LocalDir:      "./uploads",
			PublicBaseURL: "http://localhost:8080",
			FileFields:    []string{"file", "pdfDatei"},
		},
		Catalog: CatalogConfig{
			Timezone:     "UTC",
			ActivityDays: 7,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 10,
			Burst:             20,
			UploadsPerMinute:  10,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		HiDrive: HiDriveConfig{
			AuthorizeURL: "https://my.hidrive.com/client/authorize",
			TokenURL:     "https://my.hidrive.com/oauth2/token",
			Scope:        "user,rw",
			StateSecret:  defaultStateSecret,
			StateTTL:     600,
		},
		I18n: I18nConfig{
			DefaultLocale: "en",
		},
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() {
	c.Environment = getEnv("ENVIRONMENT", c.Environment)

	c.Server.Port = getEnv("SERVER_PORT", c.Server.Port)
	c.Server.Host = getEnv("SERVER_HOST", c.Server.Host)
	c.Server.ReadTimeout = getEnvAsInt("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvAsInt("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.IdleTimeout = getEnvAsInt("SERVER_IDLE_TIMEOUT", c.Server.IdleTimeout)
	c.Server.ShutdownTimeout = getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Database = getEnv("DB_NAME", c.Database.Database)
	c.Database.SSLMode = getEnv("DB_SSL_MODE", c.Database.SSLMode)
	c.Database.MaxOpenConns = getEnvAsInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = getEnvAsInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.MaxLifetime = getEnvAsInt("DB_MAX_LIFETIME", c.Database.MaxLifetime)
	c.Database.LogLevel = getEnv("DB_LOG_LEVEL", c.Database.LogLevel)

	c.AWS.Region = getEnv("AWS_REGION", c.AWS.Region)
	c.AWS.AccessKeyID = getEnv("AWS_ACCESS_KEY_ID", c.AWS.AccessKeyID)
	c.AWS.SecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", c.AWS.SecretAccessKey)
	c.AWS.S3Bucket = getEnv("AWS_S3_BUCKET", c.AWS.S3Bucket)
	c.AWS.CloudFrontURL = getEnv("AWS_CLOUDFRONT_URL", c.AWS.CloudFrontURL)
	c.AWS.Endpoint = getEnv("AWS_S3_ENDPOINT", c.AWS.Endpoint)
	c.AWS.ForcePathStyle = getEnvAsBool("AWS_S3_FORCE_PATH_STYLE", c.AWS.ForcePathStyle)
	c.AWS.PublicRead = getEnvAsBool("AWS_S3_PUBLIC_READ", c.AWS.PublicRead)

	c.Upload.Folder = getEnv("UPLOAD_FOLDER", c.Upload.Folder)
	c.Upload.MaxSize = getEnv("UPLOAD_MAX_SIZE", c.Upload.MaxSize)
	c.Upload.AllowedTypes = getEnvAsList("UPLOAD_ALLOWED_TYPES", c.Upload.AllowedTypes)
	c.Upload.LocalDir = getEnv("UPLOAD_LOCAL_DIR", c.Upload.LocalDir)
	c.Upload.PublicBaseURL = getEnv("UPLOAD_PUBLIC_BASE_URL", c.Upload.PublicBaseURL)
	c.Upload.FileFields = getEnvAsList("UPLOAD_FILE_FIELDS", c.Upload.FileFields)

	c.Catalog.Timezone = getEnv("CATALOG_TIMEZONE", c.Catalog.Timezone)
	c.Catalog.ActivityDays = getEnvAsInt("CATALOG_ACTIVITY_DAYS", c.Catalog.ActivityDays)

	c.Pagination.MaxLimit = getEnvAsInt("PAGINATION_MAX_LIMIT", c.Pagination.MaxLimit)

	c.RateLimit.Enabled = getEnvAsBool("RATE_LIMIT_ENABLED", c.RateLimit.Enabled)
	c.RateLimit.RequestsPerSecond = getEnvAsFloat("RATE_LIMIT_RPS", c.RateLimit.RequestsPerSecond)
	c.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", c.RateLimit.Burst)
	c.RateLimit.UploadsPerMinute = getEnvAsInt("RATE_LIMIT_UPLOADS_PER_MINUTE", c.RateLimit.UploadsPerMinute)

	c.CORS.AllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", c.CORS.AllowedOrigins)

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)

	c.HiDrive.ClientID = getEnv("HIDRIVE_CLIENT_ID", c.HiDrive.ClientID)
	c.HiDrive.ClientSecret = getEnv("HIDRIVE_CLIENT_SECRET", c.HiDrive.ClientSecret)
	c.HiDrive.RedirectURI = getEnv("HIDRIVE_REDIRECT_URI", c.HiDrive.RedirectURI)
	c.HiDrive.AuthorizeURL = getEnv("HIDRIVE_AUTHORIZE_URL", c.HiDrive.AuthorizeURL)
	c.HiDrive.TokenURL = getEnv("HIDRIVE_TOKEN_URL", c.HiDrive.TokenURL)
	c.HiDrive.Scope = getEnv("HIDRIVE_SCOPE", c.HiDrive.Scope)
	c.HiDrive.StateSecret = getEnv("HIDRIVE_STATE_SECRET", c.HiDrive.StateSecret)
	c.HiDrive.StateTTL = getEnvAsInt("HIDRIVE_STATE_TTL", c.HiDrive.StateTTL)

	c.I18n.DefaultLocale = getEnv("DEFAULT_LOCALE", c.I18n.DefaultLocale)
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Database.Driver == DriverPostgres && c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	if c.HiDrive.StateSecret == defaultStateSecret && c.Environment == "production" {
		return fmt.Errorf("HiDrive state secret must be changed in production")
	}

	if _, err := c.Upload.MaxSizeBytes(); err != nil {
		return err
	}

	if _, err := c.Catalog.Location(); err != nil {
		return err
	}

	if c.Catalog.ActivityDays < 1 {
		return fmt.Errorf("catalog activity window must be at least one day")
	}

	if c.Pagination.MaxLimit < 0 {
		return fmt.Errorf("pagination max limit cannot be negative")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsesS3 reports whether uploads go to S3 instead of the local upload directory.
func (c *Config) UsesS3() bool {
	return c.AWS.AccessKeyID != ""
}

// Location resolves the stats timezone. "Local" is refused because the zone
// name is handed to Postgres, which has no such zone.
func (c *CatalogConfig) Location() (*time.Location, error) {
	if strings.EqualFold(c.Timezone, "Local") {
		return nil, fmt.Errorf("catalog timezone must be an IANA zone name, got %q", c.Timezone)
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
