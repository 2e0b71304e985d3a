package resource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"reflect"
	"testing"

	"github.com/crmarques/shopctl/faults"
	"github.com/crmarques/shopctl/restpath"
	"github.com/crmarques/shopctl/tracked"
)

type testArticle struct {
	ID     int64  `json:"id,omitempty"`
	BlogID int64  `json:"blog_id,omitempty"`
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
}

var testArticlePaths = restpath.Table{
	{Method: http.MethodGet, Operation: restpath.OperationAll, Params: []string{"blog_id"}, Template: "blogs/{blog_id}/articles"},
	{Method: http.MethodGet, Operation: restpath.OperationCount, Params: []string{"blog_id"}, Template: "blogs/{blog_id}/articles/count"},
	{Method: http.MethodGet, Operation: restpath.OperationFind, Params: []string{"blog_id", "id"}, Template: "blogs/{blog_id}/articles/{id}"},
	{Method: http.MethodPost, Operation: restpath.OperationCreate, Params: []string{"blog_id"}, Template: "blogs/{blog_id}/articles"},
	{Method: http.MethodPut, Operation: restpath.OperationUpdate, Params: []string{"blog_id", "id"}, Template: "blogs/{blog_id}/articles/{id}"},
	{Method: http.MethodDelete, Operation: restpath.OperationDelete, Params: []string{"blog_id", "id"}, Template: "blogs/{blog_id}/articles/{id}"},
}

func (a *testArticle) Descriptor() Descriptor {
	return Descriptor{Name: "Article", Singular: "article", Plural: "articles", Paths: testArticlePaths}
}

func (a *testArticle) PathParams() restpath.Params {
	params := restpath.Params{}
	if a.ID != 0 {
		params["id"] = jsonInt(a.ID)
	}
	if a.BlogID != 0 {
		params["blog_id"] = jsonInt(a.BlogID)
	}
	return params
}

func jsonInt(value int64) string {
	encoded, _ := json.Marshal(value)
	return string(encoded)
}

type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   string
}

type fakeTransport struct {
	requests  []recordedRequest
	responses []Response
	err       error
}

func (f *fakeTransport) Do(_ context.Context, request Request) (Response, error) {
	body := ""
	if request.Body != nil {
		encoded, err := json.Marshal(request.Body)
		if err != nil {
			return Response{}, err
		}
		body = string(encoded)
	}
	f.requests = append(f.requests, recordedRequest{
		Method: request.Method,
		Path:   request.Path,
		Query:  request.Query,
		Body:   body,
	})
	if f.err != nil {
		return Response{}, f.err
	}
	if len(f.responses) == 0 {
		return Response{StatusCode: http.StatusOK, Body: []byte(`{}`)}, nil
	}
	response := f.responses[0]
	f.responses = f.responses[1:]
	return response, nil
}

func jsonResponse(body string) Response {
	return Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: []byte(body)}
}

func assertJSONEqual(t *testing.T, got string, want string) {
	t.Helper()

	var gotValue, wantValue any
	if err := json.Unmarshal([]byte(got), &gotValue); err != nil {
		t.Fatalf("invalid JSON %q: %v", got, err)
	}
	if err := json.Unmarshal([]byte(want), &wantValue); err != nil {
		t.Fatalf("invalid expected JSON %q: %v", want, err)
	}
	if !reflect.DeepEqual(gotValue, wantValue) {
		t.Fatalf("expected body %s, got %s", want, got)
	}
}

func TestFindResolvesNestedPath(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{responses: []Response{
		jsonResponse(`{"article":{"id":7,"blog_id":3,"title":"Hello"}}`),
	}}

	article, err := Find[testArticle](context.Background(), transport, restpath.Params{"blog_id": "3", "id": "7"}, nil)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if article.Title != "Hello" || article.ID != 7 {
		t.Fatalf("unexpected article %#v", article)
	}
	if got := transport.requests[0]; got.Method != http.MethodGet || got.Path != "blogs/3/articles/7.json" {
		t.Fatalf("unexpected request %#v", got)
	}
}

func TestFindWithoutMatchingRouteFailsBeforeSending(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}
	_, err := Find[testArticle](context.Background(), transport, restpath.Params{"id": "7"}, nil)
	if !restpath.IsResolutionError(err) {
		t.Fatalf("expected resolution error, got %v", err)
	}
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation category, got %q", faults.CategoryOf(err))
	}
	if len(transport.requests) != 0 {
		t.Fatalf("expected no request, got %d", len(transport.requests))
	}
}

func TestFindRejectsMissingEnvelope(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{responses: []Response{jsonResponse(`{"blog":{}}`)}}
	_, err := Find[testArticle](context.Background(), transport, restpath.Params{"blog_id": "3", "id": "7"}, nil)
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAllReturnsItemsAndCursors(t *testing.T) {
	t.Parallel()

	response := jsonResponse(`{"articles":[{"id":1,"title":"a"},{"id":2,"title":"b"}]}`)
	response.Header.Set("Link", `<https://shop.myshopify.com/admin/api/2024-07/blogs/3/articles.json?limit=2&page_info=prev123>; rel="previous", <https://shop.myshopify.com/admin/api/2024-07/blogs/3/articles.json?limit=2&page_info=next456>; rel="next"`)
	transport := &fakeTransport{responses: []Response{response}}

	page, err := All[testArticle](context.Background(), transport, restpath.Params{"blog_id": "3"}, ListOptions{
		Limit: 2,
		Query: url.Values{"author": []string{"ann"}},
	})
	if err != nil {
		t.Fatalf("All returned error: %v", err)
	}
	if len(page.Items) != 2 || page.Items[1].Title != "b" {
		t.Fatalf("unexpected items %#v", page.Items)
	}
	if page.Next != "next456" || page.Previous != "prev123" {
		t.Fatalf("unexpected cursors next=%q previous=%q", page.Next, page.Previous)
	}

	query := transport.requests[0].Query
	if query.Get("limit") != "2" || query.Get("author") != "ann" {
		t.Fatalf("unexpected query %v", query)
	}
}

func TestAllWithPageInfoDropsFilters(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{responses: []Response{jsonResponse(`{"articles":[]}`)}}
	_, err := All[testArticle](context.Background(), transport, restpath.Params{"blog_id": "3"}, ListOptions{
		Limit:    5,
		PageInfo: "abc",
		Query:    url.Values{"author": []string{"ann"}},
	})
	if err != nil {
		t.Fatalf("All returned error: %v", err)
	}

	query := transport.requests[0].Query
	if query.Get("author") != "" {
		t.Fatalf("expected filters to be dropped, got %v", query)
	}
	if query.Get("page_info") != "abc" || query.Get("limit") != "5" {
		t.Fatalf("unexpected query %v", query)
	}
}

func TestAllAppliesJQFilter(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{responses: []Response{
		jsonResponse(`{"articles":[{"id":1,"author":"ann"},{"id":2,"author":"bob"},{"id":3,"author":"ann"}]}`),
	}}

	page, err := All[testArticle](context.Background(), transport, restpath.Params{"blog_id": "3"}, ListOptions{
		JQ: `map(select(.author == "ann"))`,
	})
	if err != nil {
		t.Fatalf("All returned error: %v", err)
	}
	if len(page.Items) != 2 || page.Items[0].ID != 1 || page.Items[1].ID != 3 {
		t.Fatalf("unexpected filtered items %#v", page.Items)
	}
}

func TestAllPagesFollowsCursors(t *testing.T) {
	t.Parallel()

	first := jsonResponse(`{"articles":[{"id":1}]}`)
	first.Header.Set("Link", `<https://shop.myshopify.com/admin/api/2024-07/blogs/3/articles.json?page_info=p2>; rel="next"`)
	second := jsonResponse(`{"articles":[{"id":2}]}`)
	transport := &fakeTransport{responses: []Response{first, second}}

	items, err := AllPages[testArticle](context.Background(), transport, restpath.Params{"blog_id": "3"}, ListOptions{Limit: 1}, 0)
	if err != nil {
		t.Fatalf("AllPages returned error: %v", err)
	}
	if len(items) != 2 || items[1].ID != 2 {
		t.Fatalf("unexpected items %#v", items)
	}
	if got := transport.requests[1].Query.Get("page_info"); got != "p2" {
		t.Fatalf("expected second request to carry cursor, got %q", got)
	}
}

func TestAllPagesHonoursPageLimit(t *testing.T) {
	t.Parallel()

	first := jsonResponse(`{"articles":[{"id":1}]}`)
	first.Header.Set("Link", `<https://shop.myshopify.com/admin/api/2024-07/blogs/3/articles.json?page_info=p2>; rel="next"`)
	transport := &fakeTransport{responses: []Response{first}}

	items, err := AllPages[testArticle](context.Background(), transport, restpath.Params{"blog_id": "3"}, ListOptions{}, 1)
	if err != nil {
		t.Fatalf("AllPages returned error: %v", err)
	}
	if len(items) != 1 || len(transport.requests) != 1 {
		t.Fatalf("expected a single page, got %d items in %d requests", len(items), len(transport.requests))
	}
}

func TestCount(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{responses: []Response{jsonResponse(`{"count":42}`)}}
	count, err := Count[testArticle](context.Background(), transport, restpath.Params{"blog_id": "3"}, nil)
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if count != 42 {
		t.Fatalf("expected 42, got %d", count)
	}
	if transport.requests[0].Path != "blogs/3/articles/count.json" {
		t.Fatalf("unexpected path %q", transport.requests[0].Path)
	}
}

func TestSaveChoosesCreateOrUpdate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		article    testArticle
		wantMethod string
		wantPath   string
	}{
		{
			name:       "create without id",
			article:    testArticle{BlogID: 3, Title: "new"},
			wantMethod: http.MethodPost,
			wantPath:   "blogs/3/articles.json",
		},
		{
			name:       "update with id",
			article:    testArticle{ID: 9, BlogID: 3, Title: "old"},
			wantMethod: http.MethodPut,
			wantPath:   "blogs/3/articles/9.json",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			transport := &fakeTransport{responses: []Response{
				jsonResponse(`{"article":{"id":9,"blog_id":3,"title":"stored"}}`),
			}}
			article := test.article
			if err := Save[testArticle](context.Background(), transport, &article, nil); err != nil {
				t.Fatalf("Save returned error: %v", err)
			}

			got := transport.requests[0]
			if got.Method != test.wantMethod || got.Path != test.wantPath {
				t.Fatalf("expected %s %s, got %s %s", test.wantMethod, test.wantPath, got.Method, got.Path)
			}
			if article.Title != "stored" || article.ID != 9 {
				t.Fatalf("expected response to be decoded into value, got %#v", article)
			}
		})
	}
}

func TestCreateUsesExtraParams(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{responses: []Response{jsonResponse(`{"article":{"id":1}}`)}}
	article := testArticle{Title: "x"}
	if err := Create[testArticle](context.Background(), transport, &article, restpath.Params{"blog_id": "5"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if transport.requests[0].Path != "blogs/5/articles.json" {
		t.Fatalf("unexpected path %q", transport.requests[0].Path)
	}
	assertJSONEqual(t, transport.requests[0].Body, `{"article":{"title":"x"}}`)
}

func TestSaveTrackedSendsOnlyChangedFields(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{responses: []Response{
		jsonResponse(`{"article":{"id":7,"blog_id":3,"title":"Hello","author":"ann"}}`),
		jsonResponse(`{"article":{"id":7,"blog_id":3,"title":"Updated","author":"ann"}}`),
	}}
	ctx := context.Background()

	value, err := FindTracked[testArticle](ctx, transport, restpath.Params{"blog_id": "3", "id": "7"}, nil)
	if err != nil {
		t.Fatalf("FindTracked returned error: %v", err)
	}
	if value.IsDirty() {
		t.Fatal("expected freshly loaded value to be clean")
	}

	value.Ptr().Title = "Updated"
	sent, err := SaveTracked[testArticle](ctx, transport, value, nil)
	if err != nil {
		t.Fatalf("SaveTracked returned error: %v", err)
	}
	if !sent {
		t.Fatal("expected a request for a dirty value")
	}

	update := transport.requests[1]
	if update.Method != http.MethodPut || update.Path != "blogs/3/articles/7.json" {
		t.Fatalf("unexpected update request %#v", update)
	}
	assertJSONEqual(t, update.Body, `{"article":{"id":7,"title":"Updated"}}`)
	if value.IsDirty() {
		t.Fatal("expected value to be clean after save")
	}
}

func TestSaveTrackedSkipsCleanValue(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}
	value := tracked.WrapExisting(testArticle{ID: 1, BlogID: 3, Title: "same"})

	sent, err := SaveTracked[testArticle](context.Background(), transport, value, nil)
	if err != nil {
		t.Fatalf("SaveTracked returned error: %v", err)
	}
	if sent || len(transport.requests) != 0 {
		t.Fatalf("expected no request, sent=%v requests=%d", sent, len(transport.requests))
	}
}

func TestSaveTrackedSkipsRemovalOnlyChange(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}
	value := tracked.WrapExisting(testArticle{ID: 5, BlogID: 2, Author: "x"})
	value.Ptr().Author = ""
	if !value.IsDirty() {
		t.Fatal("expected removed field to make the value dirty")
	}

	sent, err := SaveTracked[testArticle](context.Background(), transport, value, nil)
	if err != nil {
		t.Fatalf("SaveTracked returned error: %v", err)
	}
	if sent || len(transport.requests) != 0 {
		t.Fatalf("expected no request, sent=%v requests=%d", sent, len(transport.requests))
	}
	if !value.IsDirty() {
		t.Fatal("expected value to stay dirty when nothing was sent")
	}
}

func TestSaveTrackedCreatesNewValueWithFullBody(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{responses: []Response{
		jsonResponse(`{"article":{"id":11,"blog_id":3,"title":"fresh","author":"bob"}}`),
	}}
	value := tracked.WrapNew(testArticle{BlogID: 3, Title: "fresh", Author: "bob"})

	sent, err := SaveTracked[testArticle](context.Background(), transport, value, nil)
	if err != nil {
		t.Fatalf("SaveTracked returned error: %v", err)
	}
	if !sent {
		t.Fatal("expected create request")
	}
	assertJSONEqual(t, transport.requests[0].Body, `{"article":{"blog_id":3,"title":"fresh","author":"bob"}}`)
	if value.Get().ID != 11 || value.IsNew() || value.IsDirty() {
		t.Fatalf("expected created value to be clean with id, got %#v", value.Get())
	}
}

func TestSaveTrackedKeepsDirtyStateOnFailure(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{err: faults.NewStatusError(faults.ConflictError, http.StatusUnprocessableEntity, "title is invalid")}
	value := tracked.WrapExisting(testArticle{ID: 1, BlogID: 3, Title: "a"})
	value.Ptr().Title = "b"

	sent, err := SaveTracked[testArticle](context.Background(), transport, value, nil)
	if !sent || err == nil {
		t.Fatalf("expected failed request, sent=%v err=%v", sent, err)
	}
	if !value.IsDirty() {
		t.Fatal("expected value to stay dirty after failure")
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{responses: []Response{{StatusCode: http.StatusOK, Body: []byte(`{}`)}}}
	article := testArticle{ID: 4, BlogID: 3}
	if err := Delete[testArticle](context.Background(), transport, &article, nil); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if got := transport.requests[0]; got.Method != http.MethodDelete || got.Path != "blogs/3/articles/4.json" {
		t.Fatalf("unexpected request %#v", got)
	}
}

func TestNilTransportIsValidationError(t *testing.T) {
	t.Parallel()

	_, err := Find[testArticle](context.Background(), nil, restpath.Params{"blog_id": "1", "id": "2"}, nil)
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
