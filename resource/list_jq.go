package resource

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/itchyny/gojq"
)

var listJQCodeCache sync.Map

// FilterJQ runs expression over payload. A single result is returned as is;
// several results are collected into a list.
func FilterJQ(ctx context.Context, payload any, expression string) (any, error) {
	trimmedExpression := strings.TrimSpace(expression)
	if trimmedExpression == "" {
		return payload, nil
	}

	code, err := cachedJQCode(trimmedExpression)
	if err != nil {
		return nil, validationError("invalid jq expression", err)
	}

	input, err := jqInput(payload)
	if err != nil {
		return nil, err
	}

	runCtx := ctx
	if runCtx == nil {
		runCtx = context.Background()
	}
	iterator := code.RunWithContext(runCtx, input)
	results := make([]any, 0, 1)
	for {
		value, ok := iterator.Next()
		if !ok {
			break
		}
		if valueErr, isErr := value.(error); isErr {
			return nil, validationError("failed to evaluate jq expression", valueErr)
		}
		results = append(results, value)
	}

	if len(results) == 0 {
		return []any{}, nil
	}
	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

func cachedJQCode(expression string) (*gojq.Code, error) {
	if cached, ok := listJQCodeCache.Load(expression); ok {
		if typed, ok := cached.(*gojq.Code); ok && typed != nil {
			return typed, nil
		}
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, err
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, err
	}

	actual, _ := listJQCodeCache.LoadOrStore(expression, code)
	typed, _ := actual.(*gojq.Code)
	if typed == nil {
		return code, nil
	}
	return typed, nil
}

// jqInput converts json.Number leaves, which gojq does not accept, into
// float64 or int values by round-tripping through a plain decode.
func jqInput(payload any) (any, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, validationError("failed to encode jq input", err)
	}
	var plain any
	if err := json.Unmarshal(encoded, &plain); err != nil {
		return nil, validationError("failed to decode jq input", err)
	}
	return plain, nil
}
