package currency

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andeanmarket/catalog-service/pkg/logger"
)

func TestConvertPriceFields_NestedPayload(t *testing.T) {
	source := &stubRateSource{rate: 0.00025}
	c := NewConverter(testExchangeConfig(), source, logger.NewNop())

	payload := map[string]interface{}{
		"name":  "Cafetera italiana",
		"price": 120000.0,
		"items": []interface{}{
			map[string]interface{}{
				"regular_price": 80000.0,
				"quantity":      2,
			},
		},
		"total": 200000.0,
	}

	converted := c.ConvertPriceFields(context.Background(), payload, "USD")

	out, ok := converted.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Cafetera italiana", out["name"])
	assert.InDelta(t, 30.0, out["price"].(float64), 1e-9)
	assert.InDelta(t, 50.0, out["total"].(float64), 1e-9)

	items := out["items"].([]interface{})
	item := items[0].(map[string]interface{})
	assert.InDelta(t, 20.0, item["regular_price"].(float64), 1e-9)
	// Non-price fields keep their original type and value.
	assert.Equal(t, 2, item["quantity"])
}

func TestConvertPriceFields_DoesNotMutateInput(t *testing.T) {
	source := &stubRateSource{rate: 0.00025}
	c := NewConverter(testExchangeConfig(), source, logger.NewNop())

	payload := map[string]interface{}{"price": 100000.0}
	_ = c.ConvertPriceFields(context.Background(), payload, "USD")

	assert.InDelta(t, 100000.0, payload["price"].(float64), 1e-9)
}

func TestConvertPriceFields_NonNumericPriceLeftAlone(t *testing.T) {
	source := &stubRateSource{rate: 0.00025}
	c := NewConverter(testExchangeConfig(), source, logger.NewNop())

	payload := map[string]interface{}{"price": "n/a"}
	out := c.ConvertPriceFields(context.Background(), payload, "USD").(map[string]interface{})

	assert.Equal(t, "n/a", out["price"])
}
