package config

import (
	"github.com/joho/godotenv"
	"log"
	"os"
	"strconv"
	"time"
)

const (
	DefaultRequestTokenURL = "https://api.twitter.com/oauth/request_token"
	DefaultAccessTokenURL  = "https://api.twitter.com/oauth/access_token"
	DefaultAuthorizeURL    = "https://api.twitter.com/oauth/authorize"

	DefaultVerifyURL   = "https://api.twitter.com/1.1/account/verify_credentials.json"
	DefaultStatusesURL = "https://api.twitter.com/1.1/statuses/update.json"

	HomeTimelineURL     = "https://api.twitter.com/1.1/statuses/home_timeline.json"
	UserTimelineURL     = "https://api.twitter.com/1.1/statuses/user_timeline.json"
	MentionsTimelineURL = "https://api.twitter.com/1.1/statuses/mentions_timeline.json"
)

type DB struct {
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

type MinIO struct {
	Enabled    bool
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
}

// OAuth holds the consumer key material and the three-legged endpoints.
type OAuth struct {
	ConsumerKey     string
	ConsumerSecret  string
	RequestTokenURL string
	AccessTokenURL  string
	AuthorizeURL    string
	CallbackURL     string
	PendingTTL      time.Duration
}

type API struct {
	VerifyURL     string
	TimelineURL   string
	StatusesURL   string
	TimelineCount int
	HTTPTimeout   time.Duration
}

type Sync struct {
	Interval       time.Duration
	Workers        int
	PostsPerSecond int
}

type Metrics struct {
	Enabled bool
	Path    string
}

type Log struct {
	Level       string
	Environment string
}

type Config struct {
	ServerPort           int
	DB                   DB
	MinIO                MinIO
	OAuth                OAuth
	API                  API
	Sync                 Sync
	Metrics              Metrics
	Log                  Log
	JWTSecretKey         string
	SessionTokenDuration time.Duration
	CredentialsKey       string
	MigrationsPath       string
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

// TimelineURL maps a feed name to its endpoint. Unknown names are treated as a full URL.
func TimelineURL(feed string) string {
	switch feed {
	case "", "home":
		return HomeTimelineURL
	case "user":
		return UserTimelineURL
	case "mentions":
		return MentionsTimelineURL
	default:
		return feed
	}
}

func LoadDB() DB {
	return DB{
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "microblog_sync"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
	}
}

func LoadMinIO() MinIO {
	return MinIO{
		Enabled:    getEnvBool("MINIO_ENABLED", false),
		Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: getEnv("MINIO_BUCKET_NAME", "sync-responses"),
		UseSSL:     getEnvBool("MINIO_USE_SSL", false),
		Region:     getEnv("MINIO_REGION", "us-east-1"),
	}
}

func LoadOAuth() OAuth {
	return OAuth{
		ConsumerKey:     getEnv("OAUTH_CONSUMER_KEY", ""),
		ConsumerSecret:  getEnv("OAUTH_CONSUMER_SECRET", ""),
		RequestTokenURL: getEnv("OAUTH_REQUEST_TOKEN_URL", DefaultRequestTokenURL),
		AccessTokenURL:  getEnv("OAUTH_ACCESS_TOKEN_URL", DefaultAccessTokenURL),
		AuthorizeURL:    getEnv("OAUTH_AUTHORIZE_URL", DefaultAuthorizeURL),
		CallbackURL:     getEnv("OAUTH_CALLBACK_URL", "http://localhost:8080/api/oauth/callback"),
		PendingTTL:      parseDuration(getEnv("OAUTH_PENDING_TTL", "15m"), 15*time.Minute),
	}
}

func LoadAPI() API {
	return API{
		VerifyURL:     getEnv("API_VERIFY_URL", DefaultVerifyURL),
		TimelineURL:   TimelineURL(getEnv("TIMELINE_FEED", "home")),
		StatusesURL:   getEnv("API_STATUSES_URL", DefaultStatusesURL),
		TimelineCount: getEnvAsInt("TIMELINE_COUNT", 200),
		HTTPTimeout:   parseDuration(getEnv("HTTP_REQUEST_TIMEOUT", "30s"), 30*time.Second),
	}
}

func LoadSync() Sync {
	return Sync{
		Interval:       parseDuration(getEnv("SYNC_INTERVAL", "15m"), 15*time.Minute),
		Workers:        getEnvAsInt("SYNC_WORKERS", 4),
		PostsPerSecond: getEnvAsInt("SYNC_POSTS_PER_SECOND", 1),
	}
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	return &Config{
		ServerPort: getEnvAsInt("SERVER_PORT", 8080),
		DB:         LoadDB(),
		MinIO:      LoadMinIO(),
		OAuth:      LoadOAuth(),
		API:        LoadAPI(),
		Sync:       LoadSync(),
		Metrics: Metrics{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
		Log: Log{
			Level:       getEnv("LOG_LEVEL", "info"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		JWTSecretKey:         getEnv("JWT_SECRET_KEY", ""),
		SessionTokenDuration: parseDuration(getEnv("SESSION_TOKEN_DURATION", "720h"), 720*time.Hour),
		CredentialsKey:       getEnv("CREDENTIALS_KEY", ""),
		MigrationsPath:       getEnv("MIGRATIONS_PATH", "migrations/001_create_tables.sql"),
	}
}
