package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Database targets selectable through DB_TARGET.
const (
	TargetLocal  = "local"
	TargetAtlas  = "atlas"
	TargetMemory = "memory"
)

// Config holds application configuration loaded from environment variables
// Provide sane defaults for local development.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	// Database
	DBTarget      string // local, atlas, memory
	DBName        string
	DBUser        string
	DBPassword    string
	AtlasHost     string
	MongoLocalURI string
	DBOpTimeout   time.Duration

	// Redis (sessions and rate limiting); empty address disables it
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWT
	JWTAccessSecret string
	AccessTTL       time.Duration

	// CORS
	CORSAllowedOrigins string // comma-separated

	// RabbitMQ; empty URL disables user events
	RabbitMQURL         string
	RabbitMQEventsQueue string

	// Elasticsearch; empty addresses disable the user index
	ElasticsearchAddrs string // comma-separated
	ElasticsearchUser  string
	ElasticsearchPass  string
	ESUsersIndex       string

	// Mailgun (event worker)
	MailgunDomain   string
	MailgunAPIKey   string
	MailgunSender   string
	MailSendEnabled bool

	// Debug metrics (/debug/vars)
	DebugMetricsEnabled bool

	// HTTP access log toggle
	HTTPLogEnabled bool

	// Login attempts per minute per IP
	LoginRateLimit int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
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

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "business-card-api"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("PORT", "8181"),
		GinMode: getenv("GIN_MODE", "release"),

		DBTarget:      strings.ToLower(getenv("DB_TARGET", TargetLocal)),
		DBName:        getenv("DB_NAME", "business_card_app"),
		DBUser:        getenv("DB_USER", ""),
		DBPassword:    getenv("DB_PASSWORD", ""),
		AtlasHost:     getenv("ATLAS_HOST", "cluster0.mongodb.net"),
		MongoLocalURI: getenv("MONGO_LOCAL_URI", "mongodb://127.0.0.1:27017"),
		DBOpTimeout:   getdur("DB_OP_TIMEOUT", 5*time.Second),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		JWTAccessSecret: getenv("JWT_ACCESS_SECRET", "devaccesssecret"),
		AccessTTL:       getdur("JWT_ACCESS_TTL", time.Hour),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", ""),

		RabbitMQURL:         getenv("RABBITMQ_URL", ""),
		RabbitMQEventsQueue: getenv("RABBITMQ_EVENTS_QUEUE", "user_events"),

		ElasticsearchAddrs: getenv("ELASTICSEARCH_ADDRS", ""),
		ElasticsearchUser:  getenv("ELASTICSEARCH_USERNAME", ""),
		ElasticsearchPass:  getenv("ELASTICSEARCH_PASSWORD", ""),
		ESUsersIndex:       getenv("ES_USERS_INDEX", "users"),

		MailgunDomain:   getenv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey:   getenv("MAILGUN_API_KEY", ""),
		MailgunSender:   getenv("MAILGUN_SENDER", ""),
		MailSendEnabled: getbool("MAIL_SEND_ENABLED", false),

		DebugMetricsEnabled: getbool("DEBUG_METRICS_ENABLED", true),
		HTTPLogEnabled:      getbool("HTTP_LOG_ENABLED", false),

		LoginRateLimit: getint("LOGIN_RATE_LIMIT", 10),
	}
}

// MongoURI returns the connection string for the selected database target.
// The memory target has no URI.
func (c *Config) MongoURI() (string, error) {
	switch c.DBTarget {
	case TargetLocal, "":
		return c.MongoLocalURI, nil
	case TargetAtlas:
		if c.DBUser == "" || c.DBPassword == "" {
			return "", fmt.Errorf("atlas target requires DB_USER and DB_PASSWORD")
		}
		u := url.URL{
			Scheme: "mongodb+srv",
			User:   url.UserPassword(c.DBUser, c.DBPassword),
			Host:   c.AtlasHost,
			Path:   "/",
		}
		return u.String(), nil
	case TargetMemory:
		return "", nil
	default:
		return "", fmt.Errorf("unknown DB_TARGET %q", c.DBTarget)
	}
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

// ESAddrs returns Elasticsearch addresses as a slice
func (c *Config) ESAddrs() []string {
	return splitList(c.ElasticsearchAddrs)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
