package graphql

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/crmarques/shopctl/faults"
	"github.com/crmarques/shopctl/resource"
)

type shopName struct {
	Shop struct {
		Name string `json:"name"`
	} `json:"shop"`
}

func responder(t *testing.T, bodies ...string) (resource.Transport, *[]resource.Request) {
	t.Helper()

	var requests []resource.Request
	transport := resource.TransportFunc(func(_ context.Context, request resource.Request) (resource.Response, error) {
		requests = append(requests, request)
		if len(bodies) == 0 {
			t.Fatalf("unexpected request %d", len(requests))
		}
		body := bodies[0]
		bodies = bodies[1:]
		return resource.Response{StatusCode: http.StatusOK, Body: []byte(body)}, nil
	})
	return transport, &requests
}

func TestQueryDecodesData(t *testing.T) {
	t.Parallel()

	transport, requests := responder(t, `{
		"data": {"shop": {"name": "Acme"}},
		"extensions": {"cost": {"requestedQueryCost": 1, "actualQueryCost": 1, "throttleStatus": {"maximumAvailable": 2000, "currentlyAvailable": 1999, "restoreRate": 100}}}
	}`)
	client := NewClient(transport)

	response, err := Query[shopName](context.Background(), client, `{ shop { name } }`, map[string]any{"first": 1})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if response.Data.Shop.Name != "Acme" {
		t.Fatalf("unexpected data %#v", response.Data)
	}
	if response.Extensions.Cost == nil || response.Extensions.Cost.ThrottleStatus.CurrentlyAvailable != 1999 {
		t.Fatalf("expected cost extension, got %#v", response.Extensions.Cost)
	}

	sent := (*requests)[0]
	if sent.Method != http.MethodPost || sent.Path != "graphql.json" {
		t.Fatalf("unexpected request %s %s", sent.Method, sent.Path)
	}
	want := Request{Query: `{ shop { name } }`, Variables: map[string]any{"first": 1}}
	if diff := cmp.Diff(want, sent.Body); diff != "" {
		t.Fatalf("unexpected request body (-want +got):\n%s", diff)
	}
}

func TestQueryReturnsTypedErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		category faults.ErrorCategory
		message  string
	}{
		{
			name:     "syntax",
			body:     `{"errors":[{"message":"Parse error on \"}\""},{"message":"Field 'x' doesn't exist"}]}`,
			category: faults.ValidationError,
			message:  "Field 'x' doesn't exist",
		},
		{
			name:     "access denied",
			body:     `{"data":{"shop":null},"errors":[{"message":"Access denied for orders field.","extensions":{"code":"ACCESS_DENIED"}}]}`,
			category: faults.AuthError,
			message:  "Access denied",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			transport, requests := responder(t, test.body)
			response, err := Query[json.RawMessage](context.Background(), NewClient(transport), `{ x }`, nil)
			if !faults.IsCategory(err, test.category) {
				t.Fatalf("expected %s, got %v", test.category, err)
			}
			if !strings.Contains(err.Error(), test.message) {
				t.Fatalf("expected message %q in %q", test.message, err.Error())
			}
			if len(response.Errors) == 0 {
				t.Fatal("expected decoded errors to be returned with the error")
			}
			if len(*requests) != 1 {
				t.Fatalf("expected no retry, got %d requests", len(*requests))
			}
		})
	}
}

func TestQueryRetriesThrottledResponses(t *testing.T) {
	t.Parallel()

	throttled := `{
		"errors": [{"message": "Throttled", "extensions": {"code": "THROTTLED"}}],
		"extensions": {"cost": {"requestedQueryCost": 10, "actualQueryCost": null, "throttleStatus": {"maximumAvailable": 1000, "currentlyAvailable": 9.99, "restoreRate": 1000}}}
	}`
	transport, requests := responder(t, throttled, `{"data":{"shop":{"name":"Later"}}}`)

	response, err := Query[shopName](context.Background(), NewClient(transport), `{ shop { name } }`, nil)
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if response.Data.Shop.Name != "Later" || len(*requests) != 2 {
		t.Fatalf("expected retried success, got %#v after %d requests", response.Data, len(*requests))
	}
}

func TestQueryStopsAfterThrottleRetries(t *testing.T) {
	t.Parallel()

	throttled := `{"errors":[{"message":"Throttled","extensions":{"code":"THROTTLED"}}],"extensions":{"cost":{"requestedQueryCost":1,"throttleStatus":{"maximumAvailable":1000,"currentlyAvailable":0.999,"restoreRate":1000}}}}`
	transport, requests := responder(t, throttled, throttled)

	_, err := Query[json.RawMessage](context.Background(), NewClient(transport, WithMaxThrottleRetries(1)), `{ x }`, nil)
	if !faults.IsCategory(err, faults.TransportError) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if len(*requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(*requests))
	}
}

func TestQueryPropagatesTransportErrors(t *testing.T) {
	t.Parallel()

	transport := resource.TransportFunc(func(context.Context, resource.Request) (resource.Response, error) {
		return resource.Response{}, faults.NewStatusError(faults.AuthError, http.StatusUnauthorized, "invalid token")
	})
	_, err := NewClient(transport).Raw(context.Background(), `{ shop { name } }`, nil)
	if !faults.IsCategory(err, faults.AuthError) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestQueryRejectsEmptyDocument(t *testing.T) {
	t.Parallel()

	_, err := Query[json.RawMessage](context.Background(), NewClient(resource.TransportFunc(nil)), "  ", nil)
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestThrottleStatusWaitFor(t *testing.T) {
	t.Parallel()

	status := ThrottleStatus{MaximumAvailable: 1000, CurrentlyAvailable: 50, RestoreRate: 50}
	if got := status.WaitFor(100); got != time.Second {
		t.Fatalf("expected 1s, got %s", got)
	}
	if got := status.WaitFor(10); got != 0 {
		t.Fatalf("expected no wait, got %s", got)
	}
	if got := (ThrottleStatus{CurrentlyAvailable: 0}).WaitFor(10); got != 0 {
		t.Fatalf("expected no wait without restore rate, got %s", got)
	}
}
