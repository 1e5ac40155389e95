package ordersserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	idemmemory "github.com/Apurer/sundus-book-orders/internal/domains/orders/adapters/idempotency/memory"
	ordermemory "github.com/Apurer/sundus-book-orders/internal/domains/orders/adapters/memory"
	orderapp "github.com/Apurer/sundus-book-orders/internal/domains/orders/application"
	orderdomain "github.com/Apurer/sundus-book-orders/internal/domains/orders/domain"
	orderports "github.com/Apurer/sundus-book-orders/internal/domains/orders/ports"
	paymentapp "github.com/Apurer/sundus-book-orders/internal/domains/payments/application"
	paymentdomain "github.com/Apurer/sundus-book-orders/internal/domains/payments/domain"
	paymentports "github.com/Apurer/sundus-book-orders/internal/domains/payments/ports"
)

const testSecret = "test_secret"

var testNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

type fakeGateway struct {
	requests []paymentports.GatewayOrderRequest
	err      error
}

func (g *fakeGateway) CreateOrder(_ context.Context, req paymentports.GatewayOrderRequest) (*paymentports.GatewayOrder, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	return &paymentports.GatewayOrder{
		ID:       "order_1",
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
		Fields: map[string]any{
			"id":       "order_1",
			"entity":   "order",
			"amount":   float64(req.Amount),
			"currency": req.Currency,
			"receipt":  req.Receipt,
			"status":   "created",
		},
	}, nil
}

type testServer struct {
	router  *gin.Engine
	gateway *fakeGateway
}

func newTestServer(t *testing.T, opts ...RouterOption) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := func() time.Time { return testNow }
	orders := orderapp.NewService(ordermemory.NewRepository(),
		orderapp.WithIdempotencyStore(idemmemory.NewStore()),
		orderapp.WithSequence(orderdomain.NewSequence().WithClock(clock)),
		orderapp.WithClock(clock),
	)
	gateway := &fakeGateway{}
	payments := paymentapp.NewService(gateway, testSecret, paymentapp.WithClock(clock))

	handlers := ApiHandleFunctions{
		OrdersAPI:   NewOrdersAPI(orders),
		PaymentsAPI: NewPaymentsAPI(payments),
		HealthAPI:   NewHealthAPI(time.Now().Add(-time.Minute)),
	}
	opts = append([]RouterOption{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return &testServer{router: NewRouter(handlers, opts...), gateway: gateway}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	switch v := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(v)
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), w.Body.String())
	}
	return w.Code, decoded
}

func (s *testServer) placeCOD(t *testing.T, body map[string]any) int64 {
	t.Helper()
	code, resp := s.do(t, http.MethodPost, "/order-cod", body)
	require.Equal(t, http.StatusOK, code, resp)
	return int64(resp["orderId"].(float64))
}

func orderPath(id int64) string {
	return "/orders/" + strconv.FormatInt(id, 10)
}

func TestPlaceCODOrder_EndToEnd(t *testing.T) {
	srv := newTestServer(t)

	code, resp := srv.do(t, http.MethodPost, "/order-cod", map[string]any{
		"name": "A", "phone": "999", "address": "X", "book": "B1",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "Order placed!", resp["message"])
	id := int64(resp["orderId"].(float64))
	assert.Equal(t, testNow.UnixMilli(), id)

	code, resp = srv.do(t, http.MethodGet, orderPath(id), nil)
	require.Equal(t, http.StatusOK, code)
	order := resp["order"].(map[string]any)
	assert.Equal(t, float64(299), order["price"])
	assert.Equal(t, "Pending", order["status"])
	assert.Equal(t, "COD", order["payment"])
	assert.Equal(t, "999", order["mobile"])
	assert.Nil(t, order["email"])
	assert.Equal(t, "2026-05-01T10:00:00.000Z", order["createdAt"])
	assert.NotContains(t, order, "payment_id")
}

func TestPlaceCODOrder_MissingFieldsLeavesStoreUnchanged(t *testing.T) {
	srv := newTestServer(t)

	for _, body := range []any{
		map[string]any{"phone": "999", "address": "X", "book": "B1"},
		map[string]any{"name": "A", "address": "X", "book": "B1"},
		map[string]any{"name": "A", "phone": "999", "book": "B1"},
		map[string]any{"name": "A", "phone": "999", "address": "X"},
		nil,
	} {
		code, resp := srv.do(t, http.MethodPost, "/order-cod", body)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, false, resp["success"])
		assert.Equal(t, "Required fields missing", resp["message"])
	}

	code, resp := srv.do(t, http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), resp["count"])
	assert.Empty(t, resp["orders"])
}

func TestPlaceCODOrder_NumericContactFields(t *testing.T) {
	srv := newTestServer(t)

	code, resp := srv.do(t, http.MethodPost, "/order-cod",
		`{"name":"A","phone":9876543210,"address":"X","pincode":560001,"book":"B1","price":"450"}`)
	require.Equal(t, http.StatusOK, code, resp)
	id := int64(resp["orderId"].(float64))

	code, resp = srv.do(t, http.MethodGet, orderPath(id), nil)
	require.Equal(t, http.StatusOK, code)
	order := resp["order"].(map[string]any)
	assert.Equal(t, "9876543210", order["phone"])
	assert.Equal(t, "9876543210", order["mobile"])
	assert.Equal(t, "560001", order["pincode"])
	assert.Equal(t, float64(450), order["price"])
}

func TestPlaceCODOrder_MalformedBody(t *testing.T) {
	srv := newTestServer(t)

	code, resp := srv.do(t, http.MethodPost, "/order-cod", "{not json")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid JSON body", resp["error"])
}

func TestGetOrder_NotFound(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/orders/42", "/orders/abc"} {
		code, resp := srv.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, code, path)
		assert.Equal(t, "Order not found", resp["message"])
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	srv := newTestServer(t)
	id := srv.placeCOD(t, map[string]any{"name": "A", "phone": "1", "address": "X", "book": "B"})

	code, resp := srv.do(t, http.MethodPut, "/orders/7", map[string]any{"status": "Lost"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not found", resp["message"])

	code, resp = srv.do(t, http.MethodPut, orderPath(id), map[string]any{"status": "Lost"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid status", resp["message"])
	_, resp = srv.do(t, http.MethodGet, orderPath(id), nil)
	assert.Equal(t, "Pending", resp["order"].(map[string]any)["status"])

	code, resp = srv.do(t, http.MethodPut, orderPath(id), map[string]any{"status": "Shipped"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Updated", resp["message"])
	assert.Equal(t, "Shipped", resp["order"].(map[string]any)["status"])
}

func TestDeleteOrder(t *testing.T) {
	srv := newTestServer(t)
	first := srv.placeCOD(t, map[string]any{"name": "A", "phone": "1", "address": "X", "book": "B"})
	srv.placeCOD(t, map[string]any{"name": "B", "phone": "2", "address": "Y", "book": "B"})

	code, resp := srv.do(t, http.MethodDelete, "/orders/1", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not found", resp["message"])
	_, resp = srv.do(t, http.MethodGet, "/orders", nil)
	assert.Equal(t, float64(2), resp["count"])

	code, resp = srv.do(t, http.MethodDelete, orderPath(first), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Deleted", resp["message"])

	code, _ = srv.do(t, http.MethodGet, orderPath(first), nil)
	assert.Equal(t, http.StatusNotFound, code)
	_, resp = srv.do(t, http.MethodGet, "/orders", nil)
	assert.Equal(t, float64(1), resp["count"])
}

func TestSearchOrders(t *testing.T) {
	srv := newTestServer(t)
	srv.placeCOD(t, map[string]any{"name": "John Doe", "phone": "98765", "email": "john@example.com", "address": "X", "book": "B"})
	srv.placeCOD(t, map[string]any{"name": "Alice", "mobile": "12345", "address": "Y", "book": "B"})

	code, resp := srv.do(t, http.MethodGet, "/search-orders?name=john", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), resp["count"])
	assert.Equal(t, "John Doe", resp["orders"].([]any)[0].(map[string]any)["name"])

	_, resp = srv.do(t, http.MethodGet, "/search-orders?phone=234", nil)
	assert.Equal(t, float64(1), resp["count"])

	_, resp = srv.do(t, http.MethodGet, "/search-orders?name=john&phone=234", nil)
	assert.Equal(t, float64(0), resp["count"])

	_, resp = srv.do(t, http.MethodGet, "/search-orders", nil)
	assert.Equal(t, float64(2), resp["count"])
}

func TestCreatePaymentOrder(t *testing.T) {
	srv := newTestServer(t)

	for _, body := range []map[string]any{{}, {"amount": 0}, {"amount": -5}, {"amount": "abc"}} {
		code, resp := srv.do(t, http.MethodPost, "/create-order", body)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Valid amount required", resp["error"])
	}
	assert.Empty(t, srv.gateway.requests)

	code, resp := srv.do(t, http.MethodPost, "/create-order", map[string]any{"amount": 499.5, "bookName": "Go"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "order_1", resp["orderId"])
	assert.Equal(t, float64(49950), resp["amount"])
	assert.Equal(t, "order", resp["entity"])
	assert.Equal(t, "INR", resp["currency"])

	require.Len(t, srv.gateway.requests, 1)
	req := srv.gateway.requests[0]
	assert.Equal(t, int64(49950), req.Amount)
	assert.Equal(t, "receipt_"+strconv.FormatInt(testNow.UnixMilli(), 10), req.Receipt)
	assert.Equal(t, map[string]string{"book": "Go"}, req.Notes)

	_, _ = srv.do(t, http.MethodPost, "/create-order", map[string]any{"amount": "120"})
	assert.Equal(t, map[string]string{"book": "Unknown"}, srv.gateway.requests[1].Notes)
}

func TestCreatePaymentOrder_GatewayFailure(t *testing.T) {
	srv := newTestServer(t)
	srv.gateway.err = errors.New("authentication failed")

	code, resp := srv.do(t, http.MethodPost, "/create-order", map[string]any{"amount": 100})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Razorpay error", resp["error"])
	assert.Contains(t, resp["details"], "authentication failed")
}

func TestVerifyPayment(t *testing.T) {
	srv := newTestServer(t)

	code, resp := srv.do(t, http.MethodPost, "/verify-payment", map[string]any{"razorpay_order_id": "order_1"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Missing payment details", resp["message"])

	signature := paymentdomain.SignPayment("order_1", "pay_1", testSecret)
	code, resp = srv.do(t, http.MethodPost, "/verify-payment", map[string]any{
		"razorpay_order_id": "order_1", "razorpay_payment_id": "pay_1", "razorpay_signature": signature,
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Payment verified", resp["message"])

	code, resp = srv.do(t, http.MethodPost, "/verify-payment", map[string]any{
		"razorpay_order_id": "order_1", "razorpay_payment_id": "pay_2", "razorpay_signature": signature,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Invalid signature", resp["message"])
}

func TestRecordPayment(t *testing.T) {
	srv := newTestServer(t)
	body := map[string]any{"payment_id": "pay_1", "name": "A", "mobile": "888", "address": "X", "book": "B1", "price": 450}

	code, resp := srv.do(t, http.MethodPost, "/payment-success", map[string]any{"name": "A", "mobile": "888", "address": "X"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Missing fields", resp["message"])

	code, resp = srv.do(t, http.MethodPost, "/payment-success", body)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Payment successful!", resp["message"])
	id := int64(resp["orderId"].(float64))

	_, resp = srv.do(t, http.MethodGet, orderPath(id), nil)
	order := resp["order"].(map[string]any)
	assert.Equal(t, "ONLINE", order["payment"])
	assert.Equal(t, "Paid", order["status"])
	assert.Equal(t, "pay_1", order["payment_id"])
	assert.Equal(t, float64(450), order["price"])

	code, resp = srv.do(t, http.MethodPost, "/payment-success", body)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(id), resp["orderId"])

	body["price"] = 10
	code, resp = srv.do(t, http.MethodPost, "/payment-success", body)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, orderapp.ErrPaymentConflict.Error(), resp["message"])

	_, resp = srv.do(t, http.MethodGet, "/orders", nil)
	assert.Equal(t, float64(1), resp["count"])
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	code, resp := srv.do(t, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Endpoint not found", resp["error"])
}

type brokenOrders struct {
	orderports.Service
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(ApiHandleFunctions{OrdersAPI: NewOrdersAPI(brokenOrders{})},
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Internal error", resp["error"])
	assert.NotEmpty(t, resp["message"])
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	code, resp := srv.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "✅ Server running", resp["status"])
	assert.NotEmpty(t, resp["timestamp"])
	assert.Greater(t, resp["uptime"].(float64), float64(0))
}

func TestStaticImages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.txt"), []byte("cover"), 0o644))
	srv := newTestServer(t, WithImageDir(dir))

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/image/cover.txt", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cover", w.Body.String())
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	srv.router.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}
