package ordersserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	orderhttpmapper "github.com/Apurer/sundus-book-orders/internal/domains/orders/adapters/http/mapper"
	"github.com/Apurer/sundus-book-orders/internal/domains/orders/domain"
	orderports "github.com/Apurer/sundus-book-orders/internal/domains/orders/ports"
	apierrors "github.com/Apurer/sundus-book-orders/internal/shared/errors"
)

// OrdersAPI serves order intake and the admin order endpoints.
type OrdersAPI struct {
	service orderports.Service
}

// NewOrdersAPI wires dependencies.
func NewOrdersAPI(service orderports.Service) OrdersAPI {
	return OrdersAPI{service: service}
}

// Post /order-cod
// Place a cash-on-delivery order
func (api *OrdersAPI) PlaceCODOrder(c *gin.Context) {
	var payload orderhttpmapper.OrderRequest
	if !bindJSON(c, &payload) {
		return
	}
	order, err := api.service.PlaceCODOrder(c.Request.Context(), orderhttpmapper.ToOrderInput(payload))
	if err != nil {
		placeOrderResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order placed!", "orderId": order.ID})
}

// Post /payment-success
// Record the order for a completed online payment
func (api *OrdersAPI) RecordPayment(c *gin.Context) {
	var payload orderhttpmapper.OrderRequest
	if !bindJSON(c, &payload) {
		return
	}
	order, err := api.service.RecordPayment(c.Request.Context(), orderhttpmapper.ToOrderInput(payload))
	if err != nil {
		recordPaymentResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment successful!", "orderId": order.ID})
}

// Get /orders
// List every stored order
func (api *OrdersAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.ListOrders(c.Request.Context())
	if err != nil {
		listOrdersResponder.RespondError(c, err)
		return
	}
	respondOrders(c, orders)
}

// Get /orders/:id
// Find an order by id
func (api *OrdersAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Order not found")
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		getOrderResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// Get /search-orders
// Filter orders by name, email and phone
func (api *OrdersAPI) SearchOrders(c *gin.Context) {
	var query orderhttpmapper.SearchQuery
	params := c.Request.URL.Query()
	for name, dest := range map[string]**string{"name": &query.Name, "email": &query.Email, "phone": &query.Phone} {
		if err := runtime.BindQueryParameter("form", true, false, name, params, dest); err != nil {
			apierrors.Respond(c, apierrors.BadRequest("Invalid query parameter "+name))
			return
		}
	}
	orders, err := api.service.SearchOrders(c.Request.Context(), orderhttpmapper.ToSearchCriteria(query))
	if err != nil {
		searchOrdersResponder.RespondError(c, err)
		return
	}
	respondOrders(c, orders)
}

// Put /orders/:id
// Change the status of an order
func (api *OrdersAPI) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Not found")
	if !ok {
		return
	}
	var payload orderhttpmapper.StatusRequest
	if !bindJSON(c, &payload) {
		return
	}
	order, err := api.service.UpdateStatus(c.Request.Context(), id, orderhttpmapper.ToDomainStatus(payload))
	if err != nil {
		updateStatusResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Updated", "order": order})
}

// Delete /orders/:id
// Remove an order
func (api *OrdersAPI) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Not found")
	if !ok {
		return
	}
	if err := api.service.DeleteOrder(c.Request.Context(), id); err != nil {
		deleteOrderResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Deleted"})
}

func respondOrders(c *gin.Context, orders []*domain.Order) {
	if orders == nil {
		orders = []*domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(orders), "orders": orders})
}

// parseIDParam reports a non-numeric id as a missing order.
func parseIDParam(c *gin.Context, name, notFound string) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithLocation("simple", false, name, runtime.ParamLocationPath, c.Param(name), &id)
	if err != nil {
		apierrors.Respond(c, apierrors.NotFound(notFound))
		return 0, false
	}
	return id, true
}
