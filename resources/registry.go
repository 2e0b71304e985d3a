package resources

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"strings"

	"github.com/crmarques/shopctl/faults"
	"github.com/crmarques/shopctl/resource"
	"github.com/crmarques/shopctl/restpath"
	"github.com/crmarques/shopctl/tracked"
)

// Kind exposes one resource type to callers that only know it by name, such
// as the command line. Payloads cross this boundary as JSON.
type Kind interface {
	Name() string
	Descriptor() resource.Descriptor
	Route(operation restpath.Operation, params restpath.Params) (string, string, error)
	Find(ctx context.Context, transport resource.Transport, params restpath.Params, query url.Values) (any, error)
	List(ctx context.Context, transport resource.Transport, params restpath.Params, options resource.ListOptions, maxPages int) (ListResult, error)
	Count(ctx context.Context, transport resource.Transport, params restpath.Params, query url.Values) (int64, error)
	Create(ctx context.Context, transport resource.Transport, params restpath.Params, payload []byte) (any, error)
	Update(ctx context.Context, transport resource.Transport, params restpath.Params, payload []byte, dryRun bool) (UpdateResult, error)
	Delete(ctx context.Context, transport resource.Transport, params restpath.Params) error
}

type ListResult struct {
	Items    []any  `json:"items"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
}

// UpdateResult describes a tracked update. Changes is the minimal body that
// was (or, on a dry run, would have been) sent.
type UpdateResult struct {
	Changes any  `json:"changes"`
	Sent    bool `json:"sent"`
	Value   any  `json:"value"`
}

type kind[T any, PT resource.PointerTo[T]] struct {
	name string
}

var registry = map[string]Kind{}

func register[T any, PT resource.PointerTo[T]](name string) {
	registry[name] = kind[T, PT]{name: name}
}

func init() {
	register[Shop]("shop")
	register[Product]("products")
	register[Variant]("variants")
	register[Blog]("blogs")
	register[Article]("articles")
	register[Order]("orders")
	register[Fulfillment]("fulfillments")
	register[Customer]("customers")
	register[Webhook]("webhooks")
	register[Metafield]("metafields")
}

// Lookup accepts the registered plural name as well as the singular and
// descriptor names, case-insensitively.
func Lookup(name string) (Kind, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if found, ok := registry[normalized]; ok {
		return found, true
	}
	for _, candidate := range registry {
		descriptor := candidate.Descriptor()
		if normalized == descriptor.Singular || normalized == strings.ToLower(descriptor.Name) {
			return candidate, true
		}
	}
	return nil, false
}

// Kinds returns every registered kind sorted by name.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(registry))
	for _, item := range registry {
		kinds = append(kinds, item)
	}
	sort.Slice(kinds, func(i, j int) bool {
		return kinds[i].Name() < kinds[j].Name()
	})
	return kinds
}

func (k kind[T, PT]) Name() string {
	return k.name
}

func (k kind[T, PT]) Descriptor() resource.Descriptor {
	return resource.DescriptorOf[T, PT]()
}

func (k kind[T, PT]) Route(operation restpath.Operation, params restpath.Params) (string, string, error) {
	return resource.Route[T, PT](operation, params)
}

func (k kind[T, PT]) Find(ctx context.Context, transport resource.Transport, params restpath.Params, query url.Values) (any, error) {
	return resource.Find[T, PT](ctx, transport, params, query)
}

func (k kind[T, PT]) List(
	ctx context.Context,
	transport resource.Transport,
	params restpath.Params,
	options resource.ListOptions,
	maxPages int,
) (ListResult, error) {
	if maxPages == 1 {
		page, err := resource.All[T, PT](ctx, transport, params, options)
		if err != nil {
			return ListResult{}, err
		}
		return ListResult{Items: toAny(page.Items), Next: page.Next, Previous: page.Previous}, nil
	}

	items, err := resource.AllPages[T, PT](ctx, transport, params, options, maxPages)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: toAny(items)}, nil
}

func (k kind[T, PT]) Count(ctx context.Context, transport resource.Transport, params restpath.Params, query url.Values) (int64, error) {
	return resource.Count[T, PT](ctx, transport, params, query)
}

func (k kind[T, PT]) Create(ctx context.Context, transport resource.Transport, params restpath.Params, payload []byte) (any, error) {
	value := new(T)
	if err := decodePayload(payload, value); err != nil {
		return nil, err
	}
	if err := resource.Create[T, PT](ctx, transport, value, params); err != nil {
		return nil, err
	}
	return value, nil
}

// Update loads the current state, applies payload on top of it and sends
// only the fields that differ.
func (k kind[T, PT]) Update(
	ctx context.Context,
	transport resource.Transport,
	params restpath.Params,
	payload []byte,
	dryRun bool,
) (UpdateResult, error) {
	value, err := resource.FindTracked[T, PT](ctx, transport, params, nil)
	if err != nil {
		return UpdateResult{}, err
	}
	if err := decodePayload(payload, value.Ptr()); err != nil {
		return UpdateResult{}, err
	}

	result := UpdateResult{Changes: changesOf(value)}
	if dryRun {
		result.Value = value.Ptr()
		return result, nil
	}

	sent, err := resource.SaveTracked[T, PT](ctx, transport, value, params)
	if err != nil {
		return UpdateResult{}, err
	}
	result.Sent = sent
	result.Value = value.Ptr()
	return result, nil
}

func (k kind[T, PT]) Delete(ctx context.Context, transport resource.Transport, params restpath.Params) error {
	return resource.Delete[T, PT](ctx, transport, new(T), params)
}

func changesOf[T any](value *tracked.Value[T]) any {
	if !value.IsDirty() {
		return map[string]any{}
	}
	return value.ChangedFields()
}

func decodePayload(payload []byte, target any) error {
	if len(strings.TrimSpace(string(payload))) == 0 {
		return faults.NewTypedError(faults.ValidationError, "payload is empty", nil)
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return faults.NewTypedError(faults.ValidationError, "payload is not a valid resource body", err)
	}
	return nil
}

func toAny[T any](items []*T) []any {
	converted := make([]any, 0, len(items))
	for _, item := range items {
		converted = append(converted, item)
	}
	return converted
}
