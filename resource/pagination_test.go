package resource

import (
	"net/http"
	"testing"
)

func TestParseLinkCursors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		links        []string
		wantNext     string
		wantPrevious string
	}{
		{
			name: "no header",
		},
		{
			name:     "next only",
			links:    []string{`<https://s.myshopify.com/admin/api/2024-07/products.json?limit=50&page_info=abc>; rel="next"`},
			wantNext: "abc",
		},
		{
			name: "both in one header",
			links: []string{
				`<https://s.myshopify.com/admin/api/2024-07/products.json?page_info=p1>; rel="previous", <https://s.myshopify.com/admin/api/2024-07/products.json?page_info=n1>; rel="next"`,
			},
			wantNext:     "n1",
			wantPrevious: "p1",
		},
		{
			name: "comma inside url",
			links: []string{
				`<https://s.myshopify.com/admin/api/2024-07/products.json?fields=id,title&page_info=n2>; rel="next"`,
			},
			wantNext: "n2",
		},
		{
			name:  "unknown rel ignored",
			links: []string{`<https://s.myshopify.com/x.json?page_info=z>; rel="first"`},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			header := http.Header{}
			for _, value := range test.links {
				header.Add("Link", value)
			}
			next, previous := ParseLinkCursors(header)
			if next != test.wantNext || previous != test.wantPrevious {
				t.Fatalf("expected next=%q previous=%q, got next=%q previous=%q", test.wantNext, test.wantPrevious, next, previous)
			}
		})
	}
}

func TestListOptionsValues(t *testing.T) {
	t.Parallel()

	values := ListOptions{Limit: 10, Fields: []string{"id", "title"}}.values()
	if values.Get("limit") != "10" || values.Get("fields") != "id,title" {
		t.Fatalf("unexpected values %v", values)
	}
	if values.Has("page_info") {
		t.Fatalf("unexpected page_info in %v", values)
	}
}
