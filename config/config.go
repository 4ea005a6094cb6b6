package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the process reads from the environment.
// Defaults are tuned for local development; production deployments are
// expected to set JWT_SECRET and MONGODB_URI explicitly.
type Config struct {
	AppName string
	Env     string // development, production
	Port    string
	GinMode string

	MongoURI string
	MongoDB  string

	JWTSecret string
	JWTTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSAllowedOrigins string // comma-separated

	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubscriber string // mailto: contact for push services

	FeedMaxLimit       int
	RateLimitPerMinute int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppName: getenv("APP_NAME", "forkful"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("PORT", "8080"),
		GinMode: getenv("GIN_MODE", "debug"),

		MongoURI: getenv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:  getenv("MONGODB_DB", "forkful"),

		JWTSecret: getenv("JWT_SECRET", ""),
		JWTTTL:    getdur("JWT_TTL", 24*time.Hour),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),

		VAPIDPublicKey:  getenv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey: getenv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubscriber: getenv("VAPID_SUBSCRIBER", "mailto:admin@forkful.app"),

		FeedMaxLimit:       getint("FEED_MAX_LIMIT", 50),
		RateLimitPerMinute: getint("RATE_LIMIT_PER_MINUTE", 60),
	}
}

// CORSOrigins returns the allowed origins as a slice.
func (c *Config) CORSOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
