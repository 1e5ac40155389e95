package api

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/sundus-book-orders/internal/platform/database"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ORDERS_FILE", "IMAGE_DIR", "DATABASE_DRIVER", "DATABASE_DSN", "POSTGRES_DSN",
		"REDIS_ADDR", "PAYMENT_IDEMPOTENCY_TTL_HOURS", "TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE",
		"TEMPORAL_DISABLED", "CONTACT_EMAIL", "EMAIL_PASSWORD", "SMTP_HOST", "SMTP_PORT",
		"TWILIO_SID", "TWILIO_AUTH", "TWILIO_WHATSAPP", "MY_WHATSAPP",
		"RAZORPAY_KEY_ID", "RAZORPAY_KEY_SECRET", "RAZORPAY_BASE_URL", "PAYMENT_CURRENCY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "orders.json", cfg.OrdersFile)
	assert.Equal(t, "image", cfg.ImageDir)
	assert.Equal(t, database.DriverPostgres, cfg.DatabaseDriver)
	assert.Empty(t, cfg.DatabaseDSN)
	assert.Equal(t, 7*24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "INR", cfg.PaymentCurrency)
	assert.False(t, cfg.MailEnabled())
	assert.False(t, cfg.WhatsAppEnabled())
	assert.False(t, cfg.TemporalEnabled())
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("DATABASE_DRIVER", "MySQL")
	t.Setenv("POSTGRES_DSN", "postgres://legacy")
	t.Setenv("PAYMENT_IDEMPOTENCY_TTL_HOURS", "12")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("CONTACT_EMAIL", "shop@example.com")
	t.Setenv("EMAIL_PASSWORD", "app-password")
	t.Setenv("TEMPORAL_ADDRESS", "temporal:7233")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, database.DriverMySQL, cfg.DatabaseDriver)
	assert.Equal(t, "postgres://legacy", cfg.DatabaseDSN)
	assert.Equal(t, 12*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.True(t, cfg.MailEnabled())
	assert.True(t, cfg.TemporalEnabled())

	t.Setenv("TEMPORAL_DISABLED", "yes")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.TemporalEnabled())
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"DATABASE_DRIVER":               "sqlite",
		"SMTP_PORT":                     "abc",
		"PAYMENT_IDEMPOTENCY_TTL_HOURS": "-1",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=9000\nIMAGE_DIR=/srv/images\n"), 0o600))
	t.Setenv("PORT", "7000")
	t.Setenv("IMAGE_DIR", "")
	require.NoError(t, os.Unsetenv("IMAGE_DIR"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "7000", os.Getenv("PORT"))
	assert.Equal(t, "/srv/images", os.Getenv("IMAGE_DIR"))
}
