package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string

	ServerPort int

	DatabaseURL string

	JWTSecret   []byte
	AuthHTTPURL string

	RedisURL     string
	SessionTTL   time.Duration
	CookieSecure bool

	KafkaBrokers       []string
	OrderEventsTopic   string
	PaymentEventsTopic string
	NotifyQueueSize    int

	PaymentProcessURL string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	LogLevel string
}

// Load reads .env when present, then the process environment.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("notice: .env not loaded: %v", err)
	}
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "orders"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:   []byte(os.Getenv("JWT_SECRET")),
		AuthHTTPURL: os.Getenv("AUTH_URL"),

		RedisURL:     EnvDefault("REDIS_URL", "redis://localhost:6379/0"),
		SessionTTL:   EnvDurationDefault("SESSION_TTL", 14*24*time.Hour),
		CookieSecure: EnvDefault("COOKIE_SECURE", "false") == "true",

		KafkaBrokers:       CSV(os.Getenv("KAFKA_BROKERS")),
		OrderEventsTopic:   EnvDefault("ORDER_EVENTS_TOPIC", "order_events"),
		PaymentEventsTopic: EnvDefault("PAYMENT_EVENTS_TOPIC", "payment_events"),
		NotifyQueueSize:    EnvIntDefault("NOTIFY_QUEUE_SIZE", 256),

		PaymentProcessURL: EnvDefault("PAYMENT_PROCESS_URL", "/payment/process"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: EnvIntDefault("SMTP_PORT", 25),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: EnvDefault("SMTP_FROM", "orders@localhost"),

		LogLevel: EnvDefault("LOG_LEVEL", "info"),
	}
}

// Validate reports every required key the web service is missing.
func (c Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(c.JWTSecret) == 0 {
		missing = append(missing, "JWT_SECRET")
	}
	if c.RedisURL == "" {
		missing = append(missing, "REDIS_URL")
	}
	if len(missing) > 0 {
		return errors.New("missing required env: " + strings.Join(missing, ", "))
	}
	return nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
