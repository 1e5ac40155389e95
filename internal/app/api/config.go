package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	idemredis "github.com/Apurer/sundus-book-orders/internal/domains/orders/adapters/idempotency/redis"
	"github.com/Apurer/sundus-book-orders/internal/platform/database"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port       string
	OrdersFile string
	ImageDir   string

	DatabaseDriver string
	DatabaseDSN    string

	RedisAddr      string
	IdempotencyTTL time.Duration

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	ContactEmail   string
	EmailPassword  string
	SMTPHost       string
	SMTPPort       int
	TwilioSID      string
	TwilioAuth     string
	TwilioWhatsApp string
	MyWhatsApp     string

	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string
	PaymentCurrency   string
}

// LoadDotEnv merges a .env file into the environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "5000"),
		OrdersFile:        envDefault("ORDERS_FILE", "orders.json"),
		ImageDir:          envDefault("IMAGE_DIR", "image"),
		DatabaseDriver:    strings.ToLower(envDefault("DATABASE_DRIVER", database.DriverPostgres)),
		DatabaseDSN:       envDefault("DATABASE_DSN", strings.TrimSpace(os.Getenv("POSTGRES_DSN"))),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		IdempotencyTTL:    idemredis.DefaultTTL,
		TemporalAddress:   strings.TrimSpace(os.Getenv("TEMPORAL_ADDRESS")),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		ContactEmail:      strings.TrimSpace(os.Getenv("CONTACT_EMAIL")),
		EmailPassword:     os.Getenv("EMAIL_PASSWORD"),
		SMTPHost:          envDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:          587,
		TwilioSID:         strings.TrimSpace(os.Getenv("TWILIO_SID")),
		TwilioAuth:        strings.TrimSpace(os.Getenv("TWILIO_AUTH")),
		TwilioWhatsApp:    strings.TrimSpace(os.Getenv("TWILIO_WHATSAPP")),
		MyWhatsApp:        strings.TrimSpace(os.Getenv("MY_WHATSAPP")),
		RazorpayKeyID:     strings.TrimSpace(os.Getenv("RAZORPAY_KEY_ID")),
		RazorpayKeySecret: strings.TrimSpace(os.Getenv("RAZORPAY_KEY_SECRET")),
		RazorpayBaseURL:   envDefault("RAZORPAY_BASE_URL", ""),
		PaymentCurrency:   envDefault("PAYMENT_CURRENCY", "INR"),
	}
	switch cfg.DatabaseDriver {
	case database.DriverPostgres, database.DriverMySQL:
	default:
		return Config{}, fmt.Errorf("DATABASE_DRIVER must be %q or %q", database.DriverPostgres, database.DriverMySQL)
	}
	if raw := strings.TrimSpace(os.Getenv("SMTP_PORT")); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("SMTP_PORT must be a valid port number")
		}
		cfg.SMTPPort = port
	}
	if raw := strings.TrimSpace(os.Getenv("PAYMENT_IDEMPOTENCY_TTL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("PAYMENT_IDEMPOTENCY_TTL_HOURS must be a positive integer")
		}
		cfg.IdempotencyTTL = time.Duration(hours) * time.Hour
	}
	return cfg, nil
}

// MailEnabled reports whether SMTP credentials are present.
func (c Config) MailEnabled() bool {
	return c.ContactEmail != "" && c.EmailPassword != ""
}

// WhatsAppEnabled reports whether Twilio credentials are present.
func (c Config) WhatsAppEnabled() bool {
	return c.TwilioSID != "" && c.TwilioAuth != ""
}

// TemporalEnabled reports whether notifications should run as durable workflows.
func (c Config) TemporalEnabled() bool {
	return c.TemporalAddress != "" && !c.TemporalDisabled
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
