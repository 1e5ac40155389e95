package ordersserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	apierrors "github.com/Apurer/sundus-book-orders/internal/shared/errors"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers mounted by NewRouter.
type ApiHandleFunctions struct {
	OrdersAPI   OrdersAPI
	PaymentsAPI PaymentsAPI
	HealthAPI   HealthAPI
}

type routerConfig struct {
	serviceName string
	imageDir    string
	logger      *slog.Logger
}

// RouterOption customizes NewRouter.
type RouterOption func(*routerConfig)

// WithTracing instruments every request with an otelgin span named after serviceName.
func WithTracing(serviceName string) RouterOption {
	return func(cfg *routerConfig) {
		cfg.serviceName = serviceName
	}
}

// WithImageDir serves the directory under /image.
func WithImageDir(dir string) RouterOption {
	return func(cfg *routerConfig) {
		cfg.imageDir = dir
	}
}

// WithLogger replaces gin's text access log with structured request logging.
func WithLogger(logger *slog.Logger) RouterOption {
	return func(cfg *routerConfig) {
		cfg.logger = logger
	}
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, opts ...RouterOption) *gin.Engine {
	return NewRouterWithGinEngine(gin.New(), handleFunctions, opts...)
}

// NewRouterWithGinEngine adds middleware and routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, opts ...RouterOption) *gin.Engine {
	cfg := routerConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	router.Use(requestID())
	if cfg.serviceName != "" {
		router.Use(otelgin.Middleware(cfg.serviceName))
	}
	if cfg.logger != nil {
		router.Use(accessLog(cfg.logger))
	} else {
		router.Use(gin.Logger())
	}
	router.Use(gin.CustomRecovery(recoverPanic))
	router.Use(cors.Default())

	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	if cfg.imageDir != "" {
		router.Static("/image", cfg.imageDir)
	}
	router.NoRoute(DefaultHandleFunc)
	return router
}

// DefaultHandleFunc answers requests no route matches.
func DefaultHandleFunc(c *gin.Context) {
	apierrors.Respond(c, apierrors.ErrEndpointNotFound)
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"PlaceCODOrder", http.MethodPost, "/order-cod", handleFunctions.OrdersAPI.PlaceCODOrder},
		{"CreatePaymentOrder", http.MethodPost, "/create-order", handleFunctions.PaymentsAPI.CreatePaymentOrder},
		{"VerifyPayment", http.MethodPost, "/verify-payment", handleFunctions.PaymentsAPI.VerifyPayment},
		{"RecordPayment", http.MethodPost, "/payment-success", handleFunctions.OrdersAPI.RecordPayment},
		{"ListOrders", http.MethodGet, "/orders", handleFunctions.OrdersAPI.ListOrders},
		{"GetOrder", http.MethodGet, "/orders/:id", handleFunctions.OrdersAPI.GetOrder},
		{"SearchOrders", http.MethodGet, "/search-orders", handleFunctions.OrdersAPI.SearchOrders},
		{"UpdateOrderStatus", http.MethodPut, "/orders/:id", handleFunctions.OrdersAPI.UpdateOrderStatus},
		{"DeleteOrder", http.MethodDelete, "/orders/:id", handleFunctions.OrdersAPI.DeleteOrder},
		{"Health", http.MethodGet, "/health", handleFunctions.HealthAPI.Health},
	}
}

func recoverPanic(c *gin.Context, recovered any) {
	apierrors.Respond(c, apierrors.ErrInternal.WithMessage(fmt.Sprint(recovered)))
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.LogAttrs(c.Request.Context(), level, "http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("request_id", c.GetString(RequestIDHeader)),
		)
	}
}
