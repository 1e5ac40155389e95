//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	// ProviderName is the order API as seen by the storefront.
	ProviderName = "sundus-book-orders-api"
	ConsumerName = "sundus-storefront"

	// GatewayProviderName is the payment gateway as seen by the order API.
	GatewayProviderName = "razorpay-orders"

	StateNoOrders     = "no orders are stored"
	StateOrderExists  = "order 1714557600000 exists"
	StateOrderMissing = "no order with id 404"

	StateGatewayAccepts = "the key pair is valid"
	StateGatewayRejects = "the key pair is invalid"
)

const (
	ExistingOrderID int64 = 1714557600000
	MissingOrderID  int64 = 404

	GatewayKeyID     = "rzp_test_pact"
	GatewayKeySecret = "pact_secret"
	GatewayOrderID   = "order_PactOrder001"
	GatewayReceipt   = "receipt_1714557600000"
)

// ExampleCODPayload is the checkout form the storefront posts for cash on delivery.
func ExampleCODPayload() map[string]any {
	return map[string]any{
		"name":    "Pact Reader",
		"phone":   "9876543210",
		"email":   "reader@example.pact",
		"address": "12 Contract Lane",
		"city":    "Pune",
		"pincode": "411001",
		"book":    "Contracts in Practice",
	}
}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the pact between the storefront and the order API.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
