package ordersserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	orderapp "github.com/Apurer/sundus-book-orders/internal/domains/orders/application"
	orderports "github.com/Apurer/sundus-book-orders/internal/domains/orders/ports"
	paymentdomain "github.com/Apurer/sundus-book-orders/internal/domains/payments/domain"
	paymentports "github.com/Apurer/sundus-book-orders/internal/domains/payments/ports"
	apierrors "github.com/Apurer/sundus-book-orders/internal/shared/errors"
)

// errInvalidBody answers request bodies that are not JSON.
var errInvalidBody = apierrors.Failure{Status: http.StatusBadRequest, Err: "Invalid JSON body"}

// Each endpoint labels its unexpected failures differently.
var (
	placeOrderResponder = apierrors.NewChainedResponder(
		apierrors.Failure{Status: http.StatusInternalServerError, Message: "Error placing order"},
		invalidOrderInput("Required fields missing"),
	)
	recordPaymentResponder = apierrors.NewChainedResponder(
		apierrors.Failure{Status: http.StatusInternalServerError, Message: "Error"},
		invalidOrderInput("Missing fields"),
		paymentConflict,
		paymentPending,
	)
	listOrdersResponder   = apierrors.NewChainedResponder(apierrors.Internal("Error fetching orders"))
	getOrderResponder     = apierrors.NewChainedResponder(apierrors.Internal("Error"), orderNotFound("Order not found"))
	searchOrdersResponder = apierrors.NewChainedResponder(apierrors.Internal("Error searching"))
	updateStatusResponder = apierrors.NewChainedResponder(
		apierrors.Internal("Error updating"),
		orderNotFound("Not found"),
		invalidOrderInput("Invalid status"),
	)
	deleteOrderResponder = apierrors.NewChainedResponder(apierrors.Internal("Error deleting"), orderNotFound("Not found"))

	createIntentResponder = apierrors.NewChainedResponder(
		apierrors.Internal("Razorpay error"),
		invalidAmount,
		gatewayFailure,
	)
	verifyPaymentResponder = apierrors.NewChainedResponder(
		apierrors.Internal("Verification failed"),
		paymentRejected,
	)
)

func invalidOrderInput(message string) apierrors.ErrorMapper {
	return func(err error) (apierrors.Failure, bool) {
		if errors.Is(err, orderapp.ErrInvalidInput) {
			return apierrors.BadRequest(message), true
		}
		return apierrors.Failure{}, false
	}
}

func orderNotFound(message string) apierrors.ErrorMapper {
	return func(err error) (apierrors.Failure, bool) {
		if errors.Is(err, orderports.ErrNotFound) {
			return apierrors.NotFound(message), true
		}
		return apierrors.Failure{}, false
	}
}

func paymentConflict(err error) (apierrors.Failure, bool) {
	if errors.Is(err, orderapp.ErrPaymentConflict) {
		return apierrors.Conflict(orderapp.ErrPaymentConflict.Error()), true
	}
	return apierrors.Failure{}, false
}

func paymentPending(err error) (apierrors.Failure, bool) {
	if errors.Is(err, orderapp.ErrPaymentPending) {
		return apierrors.Conflict(orderapp.ErrPaymentPending.Error()), true
	}
	return apierrors.Failure{}, false
}

func invalidAmount(err error) (apierrors.Failure, bool) {
	if errors.Is(err, paymentdomain.ErrInvalidAmount) {
		return apierrors.Failure{Status: http.StatusBadRequest, Err: "Valid amount required"}, true
	}
	return apierrors.Failure{}, false
}

func gatewayFailure(err error) (apierrors.Failure, bool) {
	if errors.Is(err, paymentports.ErrGateway) {
		return apierrors.Internal("Razorpay error").WithDetails(err.Error()), true
	}
	return apierrors.Failure{}, false
}

func paymentRejected(err error) (apierrors.Failure, bool) {
	switch {
	case errors.Is(err, paymentdomain.ErrMissingPaymentDetails):
		return apierrors.BadRequest("Missing payment details"), true
	case errors.Is(err, paymentdomain.ErrInvalidSignature):
		return apierrors.BadRequest("Invalid signature"), true
	}
	return apierrors.Failure{}, false
}

// bindJSON treats an empty body as an empty object.
func bindJSON(c *gin.Context, dest any) bool {
	err := c.ShouldBindJSON(dest)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	apierrors.Respond(c, errInvalidBody.Describe(err))
	return false
}
