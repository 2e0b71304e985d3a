package resource

import (
	"context"
	"net/http"
	"net/url"

	"github.com/crmarques/shopctl/restpath"
)

// Descriptor is the static description of a resource type: its diagnostic
// name, the envelope keys used in request and response bodies, and its
// route table.
type Descriptor struct {
	Name     string
	Singular string
	Plural   string
	Paths    restpath.Table
}

// Resource is implemented (with pointer receivers) by every resource type.
type Resource interface {
	Descriptor() Descriptor
	// PathParams returns the identifiers the value currently knows, such as
	// its own id and parent ids. Empty values are ignored by path resolution.
	PathParams() restpath.Params
}

// PointerTo constrains generic operations to *T implementing Resource.
type PointerTo[T any] interface {
	*T
	Resource
}

// DescriptorOf returns the descriptor of T without needing an instance.
func DescriptorOf[T any, PT PointerTo[T]]() Descriptor {
	return PT(new(T)).Descriptor()
}

// Request is a single Admin API call. Path is relative to the versioned
// Admin API root and carries the ".json" suffix.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport sends requests to the Admin API. Implementations own
// authentication, retries and status classification; a non-nil error is
// returned for every unsuccessful status.
type Transport interface {
	Do(ctx context.Context, request Request) (Response, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, request Request) (Response, error)

func (f TransportFunc) Do(ctx context.Context, request Request) (Response, error) {
	return f(ctx, request)
}
