package mapper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRequest_PriceForms(t *testing.T) {
	cases := map[string]struct {
		body string
		want *float64
	}{
		"number":         {`{"price": 450}`, ptr(450)},
		"numeric string": {`{"price": " 120.5 "}`, ptr(120.5)},
		"garbage string": {`{"price": "free"}`, nil},
		"null":           {`{"price": null}`, nil},
		"absent":         {`{}`, nil},
		"boolean":        {`{"price": true}`, nil},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var req OrderRequest
			require.NoError(t, json.Unmarshal([]byte(tc.body), &req))
			assert.Equal(t, tc.want, ToOrderInput(req).Price)
		})
	}
}

func TestToOrderInput_TrimsIdentifiers(t *testing.T) {
	var req OrderRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"payment_id": " pay_1 ", "name": " A ", "mobile": " 888 ", "email": "  ", "address": "X", "book": "B1"
	}`), &req))

	input := ToOrderInput(req)
	assert.Equal(t, "pay_1", input.PaymentID)
	assert.Equal(t, "A", input.Name)
	assert.Equal(t, "888", input.Mobile)
	assert.Empty(t, input.Email)
	assert.Equal(t, "B1", input.Book)
}

func TestToOrderInput_NumericContactFields(t *testing.T) {
	var req OrderRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "A", "phone": 9876543210, "address": "X", "pincode": 560001, "book": "B1", "price": "450"
	}`), &req))

	input := ToOrderInput(req)
	assert.Equal(t, "9876543210", input.Phone)
	assert.Equal(t, "560001", input.Pincode)
	assert.Equal(t, ptr(450), input.Price)
}

func TestOrderRequest_RejectsObjectFields(t *testing.T) {
	var req OrderRequest
	require.Error(t, json.Unmarshal([]byte(`{"name": {"first": "A"}}`), &req))
}

func TestToSearchCriteria(t *testing.T) {
	name := "john"
	criteria := ToSearchCriteria(SearchQuery{Name: &name})
	assert.Equal(t, "john", criteria.Name)
	assert.Empty(t, criteria.Email)
	assert.Empty(t, criteria.Phone)
}

func ptr(v float64) *float64 { return &v }
