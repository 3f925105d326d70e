package currency

import "context"

// priceFields is the allow-list of field names treated as money when walking
// a response payload. Anything else is left untouched.
var priceFields = map[string]struct{}{
	"price":          {},
	"regular_price":  {},
	"sale_price":     {},
	"average_price":  {},
	"total":          {},
	"subtotal":       {},
	"shipping_total": {},
}

// ConvertPriceFields walks a JSON-like payload (maps, slices, numbers) and
// converts every allow-listed price field to the target currency. It returns
// a converted copy so cached payloads are never mutated in place. Use it from
// any response builder instead of duplicating currency logic per view.
func (c *Converter) ConvertPriceFields(ctx context.Context, payload interface{}, target string) interface{} {
	switch v := payload.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, val := range v {
			if _, ok := priceFields[key]; ok {
				if amount, ok := asFloat(val); ok {
					out[key] = c.Convert(ctx, amount, target)
					continue
				}
			}
			out[key] = c.ConvertPriceFields(ctx, val, target)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = c.ConvertPriceFields(ctx, item, target)
		}
		return out
	default:
		return payload
	}
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
