package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderUnmarshal_LegacyRow(t *testing.T) {
	raw := `{
		"id": 1714557600000, "name": "A", "phone": 9876543210, "mobile": "9876543210",
		"email": null, "address": "X", "city": "Pune", "pincode": 411001, "book": "B1",
		"payment": "COD", "price": "450", "status": "Pending", "createdAt": "2024-05-01T10:00:00.000Z"
	}`
	var order Order
	require.NoError(t, json.Unmarshal([]byte(raw), &order))

	assert.Equal(t, int64(1714557600000), order.ID)
	assert.Equal(t, "9876543210", order.Phone)
	assert.Equal(t, 450.0, order.Price)
	assert.Nil(t, order.Email)
	require.NotNil(t, order.Pincode)
	assert.Equal(t, "411001", *order.Pincode)
	assert.Equal(t, StatusPending, order.Status)

	out, err := json.Marshal(&order)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"price":450`)
	assert.Contains(t, string(out), `"pincode":"411001"`)
}

func TestOrderUnmarshal_RoundTripKeepsFields(t *testing.T) {
	order, err := NewOnlineOrder(7, OrderInput{
		Name: "A", Phone: "1", Address: "X", Book: "B", Email: "a@b.c", PaymentID: "pay_1",
	}, fixedNow)
	require.NoError(t, err)

	raw, err := json.Marshal(order)
	require.NoError(t, err)
	var decoded Order
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, *order, decoded)
}

func TestOrderUnmarshal_UnparseablePriceFallsBackToDefault(t *testing.T) {
	var order Order
	require.NoError(t, json.Unmarshal([]byte(`{"id": 1, "price": "free"}`), &order))
	assert.Equal(t, float64(DefaultPrice), order.Price)
}
