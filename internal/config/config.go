package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Env  string
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Sessions
	JWTSecret     string
	SessionTTL    time.Duration
	RememberMeTTL time.Duration
	CookieSecure  bool

	// Time zone used for "today" boundaries and cron schedules
	Timezone string

	// Scheduler
	SchedulerEnabled         bool
	DailyReminderCron        string
	ConsultationReminderCron string

	// Notifier: "log", "shoutrrr" or "nats"
	Notifier     string
	NotifierURLs []string
	NATSURL      string
	NATSSubject  string

	// Object storage
	S3Endpoint       string
	S3AccessKey      string
	S3SecretKey      string
	S3Region         string
	S3Bucket         string
	S3ForcePathStyle bool
	UploadURLTTL     time.Duration

	// Requests per minute per client IP on auth endpoints
	AuthRateLimit int
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "nurture"),
		DBPassword: getEnv("DB_PASSWORD", "nurture"),
		DBName:     getEnv("DB_NAME", "nurture"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:     getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		SessionTTL:    getDuration("SESSION_TTL", 24*time.Hour),
		RememberMeTTL: getDuration("REMEMBER_ME_TTL", 30*24*time.Hour),
		CookieSecure:  getBool("COOKIE_SECURE", false),

		Timezone: getEnv("APP_TIMEZONE", "UTC"),

		SchedulerEnabled:         getBool("SCHEDULER_ENABLED", true),
		DailyReminderCron:        getEnv("DAILY_REMINDER_CRON", "0 10,19 * * *"),
		ConsultationReminderCron: getEnv("CONSULTATION_REMINDER_CRON", "0 * * * *"),

		Notifier:     strings.ToLower(getEnv("NOTIFIER", "log")),
		NotifierURLs: splitList(getEnv("NOTIFIER_URLS", "")),
		NATSURL:      getEnv("NATS_URL", "nats://127.0.0.1:4222"),
		NATSSubject:  getEnv("NATS_SUBJECT", "nurture.notifications"),

		S3Endpoint:       getEnv("S3_ENDPOINT", ""),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:      getEnv("S3_SECRET_KEY", ""),
		S3Region:         getEnv("S3_REGION", "us-east-1"),
		S3Bucket:         getEnv("S3_BUCKET", "nurture-uploads"),
		S3ForcePathStyle: getBool("S3_FORCE_PATH_STYLE", true),
		UploadURLTTL:     getDuration("UPLOAD_URL_TTL", 15*time.Minute),

		AuthRateLimit: getInt("AUTH_RATE_LIMIT", 10),
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// Set replaces the active configuration. Used by tests and tools that build
// a Config by hand.
func Set(cfg *Config) {
	appConfig = cfg
}

// Location resolves the configured time zone, falling back to UTC when the
// zone name is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Warning: unknown APP_TIMEZONE '%s', falling back to UTC\n", c.Timezone)
		return time.UTC
	}
	return loc
}

// StorageConfigured reports whether enough S3 settings are present to
// presign uploads.
func (c *Config) StorageConfigured() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != "" && c.S3Bucket != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %v\n", key, raw, defaultValue)
		return defaultValue
	}
	return b
}

func getInt(key string, defaultValue int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}

// splitList splits a comma or whitespace separated list, dropping empties.
func splitList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
