package restpath

import (
	"errors"
	"net/http"
	"testing"

	"github.com/crmarques/shopctl/faults"
)

var articleTable = Table{
	{Method: http.MethodGet, Operation: OperationFind, Params: []string{"blog_id", "id"}, Template: "blogs/{blog_id}/articles/{id}"},
	{Method: http.MethodGet, Operation: OperationFind, Params: []string{"id"}, Template: "articles/{id}"},
	{Method: http.MethodGet, Operation: OperationAll, Params: []string{"blog_id"}, Template: "blogs/{blog_id}/articles"},
	{Method: http.MethodGet, Operation: OperationCount, Params: []string{"blog_id"}, Template: "blogs/{blog_id}/articles/count"},
	{Method: http.MethodPost, Operation: OperationCreate, Params: []string{"blog_id"}, Template: "blogs/{blog_id}/articles"},
}

func TestResolveBlogArticleScenario(t *testing.T) {
	t.Parallel()

	entry, ok := Resolve(articleTable, OperationFind, []string{"id"})
	if !ok {
		t.Fatal("expected standalone route to match with only id")
	}
	if entry.Template != "articles/{id}" {
		t.Fatalf("expected articles/{id}, got %q", entry.Template)
	}

	entry, ok = Resolve(articleTable, OperationFind, []string{"blog_id", "id"})
	if !ok {
		t.Fatal("expected nested route to match")
	}
	if entry.Template != "blogs/{blog_id}/articles/{id}" {
		t.Fatalf("expected nested route, got %q", entry.Template)
	}
}

func TestResolveSelection(t *testing.T) {
	t.Parallel()

	tieTable := Table{
		{Method: http.MethodGet, Operation: OperationFind, Params: []string{"order_id"}, Template: "orders/{order_id}/first"},
		{Method: http.MethodGet, Operation: OperationFind, Params: []string{"id"}, Template: "second/{id}"},
		{Method: http.MethodGet, Operation: OperationAll, Params: []string{"order_id", "id"}, Template: "orders/{order_id}/other/{id}"},
	}

	tests := []struct {
		name      string
		table     Table
		operation Operation
		available []string
		want      string
		wantOK    bool
	}{
		{name: "most_specific_wins_regardless_of_order", table: Table{articleTable[1], articleTable[0]}, operation: OperationFind, available: []string{"id", "blog_id"}, want: "blogs/{blog_id}/articles/{id}", wantOK: true},
		{name: "extra_params_ignored", table: articleTable, operation: OperationAll, available: []string{"blog_id", "id", "unrelated"}, want: "blogs/{blog_id}/articles", wantOK: true},
		{name: "tie_prefers_first_declared", table: tieTable, operation: OperationFind, available: []string{"id", "order_id"}, want: "orders/{order_id}/first", wantOK: true},
		{name: "other_operations_filtered_out", table: tieTable, operation: OperationFind, available: []string{"order_id", "id"}, want: "orders/{order_id}/first", wantOK: true},
		{name: "over_constrained_is_no_match", table: articleTable, operation: OperationAll, available: []string{"id"}, wantOK: false},
		{name: "empty_available_is_no_match", table: articleTable, operation: OperationFind, available: nil, wantOK: false},
		{name: "undeclared_operation_is_no_match", table: articleTable, operation: OperationDelete, available: []string{"blog_id", "id"}, wantOK: false},
		{name: "empty_table_is_no_match", table: nil, operation: OperationFind, available: []string{"id"}, wantOK: false},
		{name: "parameterless_route_matches_empty_set", table: Table{{Method: http.MethodGet, Operation: OperationFind, Template: "shop"}}, operation: OperationFind, want: "shop", wantOK: true},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			entry, ok := test.table.Resolve(test.operation, test.available)
			if ok != test.wantOK {
				t.Fatalf("Resolve ok=%t, want %t (entry %#v)", ok, test.wantOK, entry)
			}
			if ok && entry.Template != test.want {
				t.Fatalf("expected %q, got %q", test.want, entry.Template)
			}
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	t.Parallel()

	first, _ := Resolve(articleTable, OperationFind, []string{"id", "blog_id"})
	for range 50 {
		again, _ := Resolve(articleTable, OperationFind, []string{"blog_id", "id"})
		if again.Template != first.Template {
			t.Fatalf("resolution changed between calls: %q vs %q", first.Template, again.Template)
		}
	}
}

func TestRoute(t *testing.T) {
	t.Parallel()

	method, path, err := Route("Article", articleTable, OperationFind, Params{"blog_id": "9", "id": "42", "unused": ""})
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}
	if method != http.MethodGet || path != "blogs/9/articles/42" {
		t.Fatalf("unexpected route %s %s", method, path)
	}

	_, _, err = Route("Article", articleTable, OperationUpdate, Params{"blog_id": "9", "id": "42"})
	if err == nil {
		t.Fatal("expected resolution error")
	}
	if !IsResolutionError(err) {
		t.Fatalf("expected ResolutionError, got %T", err)
	}
	var resolutionErr *ResolutionError
	if !errors.As(err, &resolutionErr) {
		t.Fatalf("expected errors.As to find ResolutionError")
	}
	if resolutionErr.Resource != "Article" || resolutionErr.Operation != OperationUpdate {
		t.Fatalf("unexpected diagnostic fields: %#v", resolutionErr)
	}
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if got, want := err.Error(), "no path for Article update with params [blog_id, id]"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParamsNamesAndMerge(t *testing.T) {
	t.Parallel()

	params := Params{"id": "1", "blog_id": "", "owner_id": "7"}
	names := params.Names()
	if len(names) != 2 || names[0] != "id" || names[1] != "owner_id" {
		t.Fatalf("unexpected names %#v", names)
	}

	merged := params.Merge(Params{"blog_id": "3", "id": ""})
	if merged["blog_id"] != "3" || merged["id"] != "1" || merged["owner_id"] != "7" {
		t.Fatalf("unexpected merge %#v", merged)
	}
	if _, ok := params["blog_id"]; !ok {
		t.Fatal("Merge must not mutate the receiver")
	}
}

func TestParseOperation(t *testing.T) {
	t.Parallel()

	if op, ok := ParseOperation(" Count "); !ok || op != OperationCount {
		t.Fatalf("expected count, got %q ok=%t", op, ok)
	}
	if _, ok := ParseOperation("patch"); ok {
		t.Fatal("expected patch to be rejected")
	}
	if ops := articleTable.Operations(); len(ops) != 4 || ops[0] != OperationFind || ops[3] != OperationCreate {
		t.Fatalf("unexpected operations %#v", ops)
	}
	if articleTable.Supports(OperationDelete) {
		t.Fatal("article table declares no delete route")
	}
}
