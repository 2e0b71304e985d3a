package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	debugctx "github.com/crmarques/shopctl/debugctx"
	"github.com/crmarques/shopctl/restpath"
	"github.com/crmarques/shopctl/tracked"
)

const pathSuffix = ".json"

// Route resolves operation for T with params and returns the method and the
// request path including the ".json" suffix.
func Route[T any, PT PointerTo[T]](operation restpath.Operation, params restpath.Params) (string, string, error) {
	descriptor := DescriptorOf[T, PT]()
	method, path, err := restpath.Route(descriptor.Name, descriptor.Paths, operation, params)
	if err != nil {
		return "", "", err
	}
	return method, path + pathSuffix, nil
}

func send[T any, PT PointerTo[T]](
	ctx context.Context,
	transport Transport,
	operation restpath.Operation,
	params restpath.Params,
	query url.Values,
	body any,
) (Response, error) {
	if transport == nil {
		return Response{}, validationError("transport is not configured", nil)
	}

	method, path, err := Route[T, PT](operation, params)
	if err != nil {
		debugctx.Printf(ctx, "resource route failed resource=%q operation=%q error=%v", DescriptorOf[T, PT]().Name, operation, err)
		return Response{}, err
	}
	debugctx.Printf(ctx, "resource route resource=%q operation=%q method=%q path=%q", DescriptorOf[T, PT]().Name, operation, method, path)

	return transport.Do(ctx, Request{
		Method: method,
		Path:   path,
		Query:  query,
		Body:   body,
	})
}

// Find fetches a single resource addressed by params.
func Find[T any, PT PointerTo[T]](ctx context.Context, transport Transport, params restpath.Params, query url.Values) (*T, error) {
	response, err := send[T, PT](ctx, transport, restpath.OperationFind, params, query, nil)
	if err != nil {
		return nil, err
	}

	value := new(T)
	if err := decodeEnvelope(response.Body, DescriptorOf[T, PT]().Singular, value); err != nil {
		return nil, err
	}
	return value, nil
}

// FindTracked fetches a resource and wraps it with a clean snapshot.
func FindTracked[T any, PT PointerTo[T]](ctx context.Context, transport Transport, params restpath.Params, query url.Values) (*tracked.Value[T], error) {
	value, err := Find[T, PT](ctx, transport, params, query)
	if err != nil {
		return nil, err
	}
	return tracked.WrapExisting(*value), nil
}

// All fetches one page of resources.
func All[T any, PT PointerTo[T]](ctx context.Context, transport Transport, params restpath.Params, options ListOptions) (Page[T], error) {
	response, err := send[T, PT](ctx, transport, restpath.OperationAll, params, options.values(), nil)
	if err != nil {
		return Page[T]{}, err
	}

	descriptor := DescriptorOf[T, PT]()
	items, err := decodeList[T](ctx, response.Body, descriptor.Plural, options.JQ)
	if err != nil {
		return Page[T]{}, err
	}

	next, previous := ParseLinkCursors(response.Header)
	return Page[T]{Items: items, Next: next, Previous: previous}, nil
}

// AllPages follows next cursors until the last page or until maxPages pages
// were read; maxPages <= 0 reads every page.
func AllPages[T any, PT PointerTo[T]](ctx context.Context, transport Transport, params restpath.Params, options ListOptions, maxPages int) ([]*T, error) {
	var items []*T
	pageOptions := options
	for pages := 0; maxPages <= 0 || pages < maxPages; pages++ {
		page, err := All[T, PT](ctx, transport, params, pageOptions)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
		if page.Next == "" {
			break
		}
		pageOptions.PageInfo = page.Next
	}
	return items, nil
}

func decodeList[T any](ctx context.Context, body []byte, key string, expression string) ([]*T, error) {
	field, err := envelopeField(body, key)
	if err != nil {
		return nil, err
	}

	if expression != "" {
		raw, err := decodeAny(field)
		if err != nil {
			return nil, err
		}
		filtered, err := FilterJQ(ctx, raw, expression)
		if err != nil {
			return nil, err
		}
		if _, isList := filtered.([]any); !isList {
			filtered = []any{filtered}
		}
		field, err = json.Marshal(filtered)
		if err != nil {
			return nil, validationError("failed to encode filtered list", err)
		}
	}

	var items []*T
	if err := json.Unmarshal(field, &items); err != nil {
		return nil, validationError(fmt.Sprintf("failed to decode %q", key), err)
	}
	return items, nil
}

// Count returns the number of resources addressed by params.
func Count[T any, PT PointerTo[T]](ctx context.Context, transport Transport, params restpath.Params, query url.Values) (int64, error) {
	response, err := send[T, PT](ctx, transport, restpath.OperationCount, params, query, nil)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := decodeEnvelope(response.Body, "count", &count); err != nil {
		return 0, err
	}
	return count, nil
}

// Create posts the full value and decodes the created resource back into it.
func Create[T any, PT PointerTo[T]](ctx context.Context, transport Transport, value *T, extra restpath.Params) error {
	return write[T, PT](ctx, transport, restpath.OperationCreate, value, extra, value)
}

// Update puts the full value and decodes the stored resource back into it.
func Update[T any, PT PointerTo[T]](ctx context.Context, transport Transport, value *T, extra restpath.Params) error {
	return write[T, PT](ctx, transport, restpath.OperationUpdate, value, extra, value)
}

// Save updates values that carry an id and creates the others.
func Save[T any, PT PointerTo[T]](ctx context.Context, transport Transport, value *T, extra restpath.Params) error {
	if hasID(PT(value).PathParams().Merge(extra)) {
		return Update[T, PT](ctx, transport, value, extra)
	}
	return Create[T, PT](ctx, transport, value, extra)
}

// SaveTracked persists only what changed since the last snapshot. A new
// value is created with its full body; otherwise the changed fields and the
// id are sent as an update. Nothing is sent when the value is clean or when
// the diff holds no fields, and the value then stays as it is. The snapshot
// is refreshed after success. The result reports whether a request was made.
func SaveTracked[T any, PT PointerTo[T]](ctx context.Context, transport Transport, value *tracked.Value[T], extra restpath.Params) (bool, error) {
	if value == nil {
		return false, validationError("tracked value is nil", nil)
	}
	if !value.IsDirty() {
		debugctx.Printf(ctx, "resource save skipped resource=%q reason=%q", DescriptorOf[T, PT]().Name, "clean")
		return false, nil
	}

	target := value.Ptr()
	var err error
	if value.IsNew() {
		err = Create[T, PT](ctx, transport, target, extra)
	} else {
		changed := value.ChangedFields()
		if isEmptyChange(changed) {
			// Only removals: an update body cannot express them.
			debugctx.Printf(ctx, "resource save skipped resource=%q reason=%q", DescriptorOf[T, PT]().Name, "no sendable changes")
			return false, nil
		}
		err = write[T, PT](ctx, transport, restpath.OperationUpdate, target, extra, partialBody(changed, value.Get()))
	}
	if err != nil {
		return true, err
	}

	value.MarkClean()
	return true, nil
}

func partialBody(changed any, current any) any {
	fields, ok := changed.(map[string]any)
	if !ok {
		return changed
	}
	if snapshot, isObject := tracked.Snapshot(current).(map[string]any); isObject {
		if id, found := snapshot["id"]; found {
			fields["id"] = id
		}
	}
	return fields
}

func isEmptyChange(changed any) bool {
	if changed == nil {
		return true
	}
	fields, ok := changed.(map[string]any)
	return ok && len(fields) == 0
}

func write[T any, PT PointerTo[T]](
	ctx context.Context,
	transport Transport,
	operation restpath.Operation,
	value *T,
	extra restpath.Params,
	payload any,
) error {
	if value == nil {
		return validationError("resource value is nil", nil)
	}

	descriptor := DescriptorOf[T, PT]()
	params := PT(value).PathParams().Merge(extra)
	response, err := send[T, PT](ctx, transport, operation, params, nil, wrapEnvelope(descriptor.Singular, payload))
	if err != nil {
		return err
	}
	if response.StatusCode == http.StatusNoContent || len(response.Body) == 0 {
		return nil
	}
	return decodeEnvelope(response.Body, descriptor.Singular, value)
}

// Delete removes the resource addressed by the value's identifiers.
func Delete[T any, PT PointerTo[T]](ctx context.Context, transport Transport, value *T, extra restpath.Params) error {
	if value == nil {
		return validationError("resource value is nil", nil)
	}
	_, err := send[T, PT](ctx, transport, restpath.OperationDelete, PT(value).PathParams().Merge(extra), nil, nil)
	return err
}

func hasID(params restpath.Params) bool {
	id, ok := params["id"]
	return ok && id != ""
}
