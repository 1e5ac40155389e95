package ordersserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/sundus-book-orders/internal/domains/orders/adapters/http/mapper"
	paymentdomain "github.com/Apurer/sundus-book-orders/internal/domains/payments/domain"
	paymentports "github.com/Apurer/sundus-book-orders/internal/domains/payments/ports"
)

// CreatePaymentOrderRequest is the body of POST /create-order. Amount is in major units.
type CreatePaymentOrderRequest struct {
	Amount   orderhttpmapper.Price `json:"amount"`
	BookName string                `json:"bookName"`
}

// VerifyPaymentRequest is the body the checkout posts to /verify-payment.
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// PaymentsAPI serves gateway order creation and signature verification.
type PaymentsAPI struct {
	service paymentports.Service
}

// NewPaymentsAPI wires dependencies.
func NewPaymentsAPI(service paymentports.Service) PaymentsAPI {
	return PaymentsAPI{service: service}
}

// Post /create-order
// Create a gateway order for the checkout
func (api *PaymentsAPI) CreatePaymentOrder(c *gin.Context) {
	var payload CreatePaymentOrderRequest
	if !bindJSON(c, &payload) {
		return
	}
	input := paymentports.IntentInput{BookName: payload.BookName}
	if payload.Amount.Value != nil {
		input.Amount = *payload.Amount.Value
	}
	order, err := api.service.CreateIntent(c.Request.Context(), input)
	if err != nil {
		createIntentResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentOrderResponse(order))
}

// Post /verify-payment
// Check the checkout signature for a payment
func (api *PaymentsAPI) VerifyPayment(c *gin.Context) {
	var payload VerifyPaymentRequest
	if !bindJSON(c, &payload) {
		return
	}
	err := api.service.VerifyPayment(c.Request.Context(), paymentdomain.Confirmation{
		OrderID:   payload.OrderID,
		PaymentID: payload.PaymentID,
		Signature: payload.Signature,
	})
	if err != nil {
		verifyPaymentResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment verified"})
}

// toPaymentOrderResponse echoes every gateway field next to success, orderId and amount.
func toPaymentOrderResponse(order *paymentports.GatewayOrder) gin.H {
	body := gin.H{}
	for key, value := range order.Fields {
		body[key] = value
	}
	if _, ok := body["id"]; !ok {
		body["id"] = order.ID
	}
	if _, ok := body["currency"]; !ok && order.Currency != "" {
		body["currency"] = order.Currency
	}
	if _, ok := body["receipt"]; !ok && order.Receipt != "" {
		body["receipt"] = order.Receipt
	}
	body["success"] = true
	body["orderId"] = order.ID
	body["amount"] = order.Amount
	return body
}
