package leaf

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/ib-77/ropchain/pkg/rop"
	"github.com/ib-77/ropchain/pkg/rop/flow"
	"github.com/ib-77/ropchain/pkg/rop/solo"
)

// Tap returns a node that passes its input through unchanged after handing
// it to fn, for logging or progress callbacks.
func Tap[V any](name string, fn func(ctx context.Context, v V)) *flow.FunctionNode[V, V] {
	return flow.Func(name, func(ctx context.Context, v V) (V, error) {
		return solo.Tee(ctx, rop.Success(v), func(ctx context.Context, r rop.Result[V]) {
			fn(ctx, r.Result())
		}).Get()
	})
}

// IntField returns a discriminator that reads key from a decoded JSON
// object as an integer, or missing when the key is absent or not integral.
func IntField(key string, missing int) func(map[string]any) int {
	return func(m map[string]any) int {
		switch v := m[key].(type) {
		case float64:
			if v == math.Trunc(v) && v >= math.MinInt && v < math.MaxInt {
				return int(v)
			}
		case int:
			return v
		case json.Number:
			if n, err := v.Int64(); err == nil && n >= math.MinInt && n <= math.MaxInt {
				return int(n)
			}
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n
			}
		}
		return missing
	}
}

// StringField returns a discriminator that reads key from a decoded JSON
// object as a string, or missing when absent.
func StringField(key, missing string) func(map[string]any) string {
	return func(m map[string]any) string {
		if s, ok := m[key].(string); ok {
			return s
		}
		return missing
	}
}
