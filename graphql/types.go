package graphql

import (
	"encoding/json"
	"math"
	"time"
)

const throttledCode = "THROTTLED"

type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

type Response[T any] struct {
	Data       T          `json:"data"`
	Errors     []Error    `json:"errors,omitempty"`
	Extensions Extensions `json:"extensions,omitempty"`
}

type Error struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Code returns extensions.code, e.g. THROTTLED or ACCESS_DENIED.
func (e Error) Code() string {
	code, _ := e.Extensions["code"].(string)
	return code
}

type Extensions struct {
	Cost *Cost `json:"cost,omitempty"`
}

// Cost is the query cost report Shopify attaches to every response.
type Cost struct {
	RequestedQueryCost float64        `json:"requestedQueryCost"`
	ActualQueryCost    *float64       `json:"actualQueryCost"`
	ThrottleStatus     ThrottleStatus `json:"throttleStatus"`
}

type ThrottleStatus struct {
	MaximumAvailable   float64 `json:"maximumAvailable"`
	CurrentlyAvailable float64 `json:"currentlyAvailable"`
	RestoreRate        float64 `json:"restoreRate"`
}

// WaitFor returns how long the bucket needs to refill enough points for a
// query of the given cost.
func (s ThrottleStatus) WaitFor(cost float64) time.Duration {
	missing := cost - s.CurrentlyAvailable
	if missing <= 0 || s.RestoreRate <= 0 {
		return 0
	}
	seconds := math.Ceil(missing/s.RestoreRate*1000) / 1000
	return time.Duration(seconds * float64(time.Second))
}

// RawResponse keeps data undecoded, for callers that only print it.
type RawResponse = Response[json.RawMessage]
