package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/afero"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	ordersserver "github.com/Apurer/sundus-book-orders/go"
	rzpclient "github.com/Apurer/sundus-book-orders/internal/clients/http/razorpay"
	notificationlogging "github.com/Apurer/sundus-book-orders/internal/domains/notifications/adapters/logging"
	notificationorders "github.com/Apurer/sundus-book-orders/internal/domains/notifications/adapters/orders"
	notificationsmtp "github.com/Apurer/sundus-book-orders/internal/domains/notifications/adapters/smtp"
	notificationtwilio "github.com/Apurer/sundus-book-orders/internal/domains/notifications/adapters/twilio"
	notificationworkflows "github.com/Apurer/sundus-book-orders/internal/domains/notifications/adapters/workflows"
	notificationapp "github.com/Apurer/sundus-book-orders/internal/domains/notifications/application"
	notificationdomain "github.com/Apurer/sundus-book-orders/internal/domains/notifications/domain"
	notificationports "github.com/Apurer/sundus-book-orders/internal/domains/notifications/ports"
	ordersfile "github.com/Apurer/sundus-book-orders/internal/domains/orders/adapters/file"
	idemmemory "github.com/Apurer/sundus-book-orders/internal/domains/orders/adapters/idempotency/memory"
	idemredis "github.com/Apurer/sundus-book-orders/internal/domains/orders/adapters/idempotency/redis"
	ordersobs "github.com/Apurer/sundus-book-orders/internal/domains/orders/adapters/observability"
	ordersgorm "github.com/Apurer/sundus-book-orders/internal/domains/orders/adapters/persistence/gormdb"
	ordersapp "github.com/Apurer/sundus-book-orders/internal/domains/orders/application"
	ordersports "github.com/Apurer/sundus-book-orders/internal/domains/orders/ports"
	paymentsrazorpay "github.com/Apurer/sundus-book-orders/internal/domains/payments/adapters/external/razorpay"
	paymentsobs "github.com/Apurer/sundus-book-orders/internal/domains/payments/adapters/observability"
	paymentsapp "github.com/Apurer/sundus-book-orders/internal/domains/payments/application"
	paymentsports "github.com/Apurer/sundus-book-orders/internal/domains/payments/ports"
	"github.com/Apurer/sundus-book-orders/internal/platform/database"
	"github.com/Apurer/sundus-book-orders/internal/platform/migrations"
	platformobservability "github.com/Apurer/sundus-book-orders/internal/platform/observability"
)

// ServiceName identifies the API process in logs, traces and idempotency keys.
const ServiceName = "sundus-book-orders-api"

const (
	shutdownTimeout = 10 * time.Second
	drainTimeout    = 10 * time.Second
)

// drainer is implemented by dispatchers that deliver in the background.
type drainer interface {
	Wait(ctx context.Context) error
}

// Run boots the order API and blocks until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg Config) error {
	started := time.Now()
	instruments, shutdown, err := platformobservability.Init(ctx, ServiceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, closeDB := database.ConnectOptional(ctx, logger, cfg.DatabaseDriver, cfg.DatabaseDSN)
	defer closeDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			logger.Warn("database migration failed, falling back to file store", slog.String("error", err.Error()))
			db = nil
		}
	}
	orderRepo := buildOrderRepository(logger, cfg, db)
	idempotency, closeIdempotency := buildIdempotencyStore(ctx, logger, cfg, db)
	defer closeIdempotency()

	dispatcher, closeDispatcher := buildDispatcher(logger, instruments, cfg)
	defer closeDispatcher()

	coreOrders := ordersapp.NewService(orderRepo,
		ordersapp.WithNotifier(notificationorders.NewNotifier(dispatcher)),
		ordersapp.WithIdempotencyStore(idempotency),
	)
	if err := coreOrders.SyncSequence(ctx); err != nil {
		logger.Error("failed to read highest order id", slog.String("error", err.Error()))
	}
	orderService := ordersobs.New(
		coreOrders,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	paymentService := paymentsobs.New(
		paymentsapp.NewService(buildGateway(logger, cfg), cfg.RazorpayKeySecret, paymentsapp.WithCurrency(cfg.PaymentCurrency)),
		paymentsobs.WithLogger(logger),
		paymentsobs.WithTracer(instruments.Tracer("internal.payments.application")),
		paymentsobs.WithMeter(instruments.Meter("internal.payments.application")),
	)

	handlers := ordersserver.ApiHandleFunctions{
		OrdersAPI:   ordersserver.NewOrdersAPI(orderService),
		PaymentsAPI: ordersserver.NewPaymentsAPI(paymentService),
		HealthAPI:   ordersserver.NewHealthAPI(started),
	}
	router := ordersserver.NewRouter(handlers,
		ordersserver.WithTracing(ServiceName),
		ordersserver.WithImageDir(cfg.ImageDir),
		ordersserver.WithLogger(logger),
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("order API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("order API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down order API")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("order API shutdown incomplete", slog.String("error", err.Error()))
	}
	if d, ok := dispatcher.(drainer); ok {
		drainCtx, cancelDrain := context.WithTimeout(context.Background(), drainTimeout)
		defer cancelDrain()
		if err := d.Wait(drainCtx); err != nil {
			logger.Warn("notifications still in flight at exit", slog.String("error", err.Error()))
		}
	}
	return nil
}

func buildOrderRepository(logger *slog.Logger, cfg Config, db *gorm.DB) ordersports.Repository {
	if db != nil {
		logger.Info("order repository configured with database", slog.String("driver", cfg.DatabaseDriver))
		return ordersgorm.NewRepository(db)
	}
	logger.Info("order repository configured with JSON file", slog.String("path", cfg.OrdersFile))
	return ordersfile.NewRepository(afero.NewOsFs(), cfg.OrdersFile)
}

func buildIdempotencyStore(ctx context.Context, logger *slog.Logger, cfg Config, db *gorm.DB) (ordersports.IdempotencyStore, func()) {
	if cfg.RedisAddr != "" {
		redisClient, err := idemredis.Connect(ctx, cfg.RedisAddr)
		if err == nil {
			logger.Info("payment idempotency configured with redis", slog.String("addr", cfg.RedisAddr))
			return idemredis.NewStore(redisClient, ServiceName, cfg.IdempotencyTTL), func() { _ = redisClient.Close() }
		}
		logger.Warn("failed to connect to redis, falling back", slog.String("error", err.Error()))
	}
	if db != nil {
		logger.Info("payment idempotency configured with database")
		return ordersgorm.NewIdempotencyStore(db), func() {}
	}
	logger.Info("payment idempotency kept in memory")
	return idemmemory.NewStore(), func() {}
}

func buildDispatcher(logger *slog.Logger, instruments *platformobservability.Instruments, cfg Config) (notificationports.Dispatcher, func()) {
	inline := notificationapp.NewInlineDispatcher(BuildDeliverer(logger, cfg),
		notificationapp.WithLogger(logger),
		notificationapp.WithMeter(instruments.Meter("internal.notifications.application")),
	)
	if !cfg.TemporalEnabled() {
		return inline, func() {}
	}
	temporalClient, err := ConnectTemporalClient(instruments, cfg, "temporal-client")
	if err != nil {
		logger.Warn("Temporal workflows unavailable, delivering notifications inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal notification workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	return notificationworkflows.NewTemporalDispatcher(temporalClient, inline, logger), temporalClient.Close
}

// BuildDeliverer selects SMTP and Twilio when credentialed and logging channels otherwise.
func BuildDeliverer(logger *slog.Logger, cfg Config) *notificationapp.Deliverer {
	var mailer notificationports.Mailer = notificationlogging.NewMailer(logger)
	if cfg.MailEnabled() {
		smtpMailer, err := notificationsmtp.NewMailer(notificationsmtp.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.ContactEmail,
			Password: cfg.EmailPassword,
		})
		if err != nil {
			logger.Warn("SMTP mailer unavailable, emails will only be logged", slog.String("error", err.Error()))
		} else {
			mailer = smtpMailer
		}
	} else {
		logger.Warn("CONTACT_EMAIL or EMAIL_PASSWORD not set, emails will only be logged")
	}

	var messenger notificationports.Messenger = notificationlogging.NewMessenger(logger)
	if cfg.WhatsAppEnabled() {
		twilioMessenger, err := notificationtwilio.NewMessenger(cfg.TwilioSID, cfg.TwilioAuth)
		if err != nil {
			logger.Warn("Twilio messenger unavailable, WhatsApp messages will only be logged", slog.String("error", err.Error()))
		} else {
			messenger = twilioMessenger
		}
	} else {
		logger.Warn("TWILIO_SID or TWILIO_AUTH not set, WhatsApp messages will only be logged")
	}

	return notificationapp.NewDeliverer(mailer, messenger, notificationapp.Addresses{
		ContactEmail: cfg.ContactEmail,
		WhatsAppFrom: cfg.TwilioWhatsApp,
		WhatsAppTo:   cfg.MyWhatsApp,
	}, notificationdomain.NewRenderer())
}

func buildGateway(logger *slog.Logger, cfg Config) paymentsports.Gateway {
	httpClient := &http.Client{
		Timeout:   15 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	rzp, err := rzpclient.NewClient(cfg.RazorpayBaseURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret, httpClient)
	if err != nil {
		logger.Warn("Razorpay gateway unavailable, /create-order will fail", slog.String("error", err.Error()))
		return nil
	}
	return paymentsrazorpay.NewGateway(rzp)
}

// ConnectTemporalClient dials the configured cluster with tracing and structured logging.
func ConnectTemporalClient(instruments *platformobservability.Instruments, cfg Config, tracerName string) (client.Client, error) {
	if cfg.TemporalAddress == "" {
		return nil, errors.New("TEMPORAL_ADDRESS not set")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(tracerName)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
