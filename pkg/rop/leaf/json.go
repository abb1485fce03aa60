package leaf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/ib-77/ropchain/pkg/rop/flow"
)

// ErrNoJSON is returned when a reply contains nothing that looks like a
// JSON object.
var ErrNoJSON = errors.New("no JSON object in input")

// ExtractJSON returns a node that decodes the JSON object embedded in free
// text, as language models tend to wrap it in prose or code fences. The
// object spans from the first '{' to the last '}'. Malformed objects are
// repaired once before giving up; text without braces must be valid JSON
// on its own.
func ExtractJSON[T any](name string) *flow.FunctionNode[string, T] {
	return flow.Func(name, func(_ context.Context, reply string) (T, error) {
		return DecodeJSON[T](reply)
	})
}

// DecodeJSON is the transformation behind ExtractJSON.
func DecodeJSON[T any](reply string) (T, error) {
	var out T

	start, end := strings.Index(reply, "{"), strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		// Arrays and scalars are accepted as is, but never repaired.
		body := strings.TrimSpace(reply)
		if body == "" || json.Unmarshal([]byte(body), &out) != nil {
			return out, ErrNoJSON
		}
		return out, nil
	}
	body := reply[start : end+1]

	err := json.Unmarshal([]byte(body), &out)
	if err == nil {
		return out, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(body)
	if repairErr != nil {
		return out, fmt.Errorf("decode JSON: %w (repair failed: %v)", err, repairErr)
	}
	if err := json.Unmarshal([]byte(repaired), &out); err != nil {
		return out, fmt.Errorf("decode repaired JSON: %w", err)
	}
	return out, nil
}
