package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Qdrant   QdrantConfig
	Gemini   GeminiConfig
	Adzuna   AdzunaConfig
	Storage  StorageConfig
	Worker   WorkerConfig
	Matcher  MatcherConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogJSON  bool
	LogDebug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	EmbedModel string
}

type AdzunaConfig struct {
	AppID          string
	APIKey         string
	BaseURL        string
	Country        string
	ResultsPerPage int
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency      int
	RetryMaxAttempts int
}

// MatcherConfig carries the ranking pipeline tunables. It is passed into
// the matcher at construction so the pipeline stays free of ambient state.
type MatcherConfig struct {
	// TopK is the default number of similarity-ranked jobs sent to the
	// LLM rescorer when a request does not specify one.
	TopK int
	// MaxTopK bounds caller-supplied top-K values.
	MaxTopK int
	// UseLLMScoring disables the rescoring stage entirely when false;
	// similarity percentages then act as final scores.
	UseLLMScoring bool
	// RescoreConcurrency is the number of parallel rescoring calls.
	RescoreConcurrency int
	// Temperature for rescoring generation.
	Temperature float32
}

type CacheConfig struct {
	EmbedCacheSize int
	EmbedCacheTTL  time.Duration
	JobCacheSize   int
	JobCacheTTL    time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port:     getEnv("PORT", "3000"),
			Env:      getEnv("ENV", "development"),
			LogJSON:  getEnvAsBool("LOG_JSON", false),
			LogDebug: getEnvAsBool("LOG_DEBUG", false),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "job_matcher"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", "http://localhost:6333"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "job_matcher_jobs"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		},
		Adzuna: AdzunaConfig{
			AppID:          getEnv("ADZUNA_APP_ID", ""),
			APIKey:         getEnv("ADZUNA_API_KEY", ""),
			BaseURL:        getEnv("ADZUNA_BASE_URL", "https://api.adzuna.com/v1/api"),
			Country:        getEnv("ADZUNA_COUNTRY", "us"),
			ResultsPerPage: getEnvAsInt("ADZUNA_RESULTS_PER_PAGE", 50),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Worker: WorkerConfig{
			Concurrency:      getEnvAsInt("WORKER_CONCURRENCY", 3),
			RetryMaxAttempts: getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
		},
		Matcher: MatcherConfig{
			TopK:               getEnvAsInt("MATCHER_TOP_K", 10),
			MaxTopK:            getEnvAsInt("MATCHER_MAX_TOP_K", 20),
			UseLLMScoring:      getEnvAsBool("MATCHER_USE_LLM_SCORING", true),
			RescoreConcurrency: getEnvAsInt("MATCHER_RESCORE_CONCURRENCY", 3),
			Temperature:        0.3,
		},
		Cache: CacheConfig{
			EmbedCacheSize: getEnvAsInt("EMBED_CACHE_SIZE", 1000),
			EmbedCacheTTL:  getEnvAsDuration("EMBED_CACHE_TTL", "1h"),
			JobCacheSize:   getEnvAsInt("JOB_CACHE_SIZE", 256),
			JobCacheTTL:    getEnvAsDuration("JOB_CACHE_TTL", "1h"),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
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
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
