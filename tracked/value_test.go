package tracked

import (
	"encoding/json"
	"testing"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/go-cmp/cmp"
)

type option struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type product struct {
	ID      int64             `json:"id,omitempty"`
	Title   string            `json:"title,omitempty"`
	Tags    string            `json:"tags,omitempty"`
	Options []option          `json:"options,omitempty"`
	Extra   map[string]string `json:"extra,omitempty"`
}

func TestWrapNewIsAlwaysDirty(t *testing.T) {
	t.Parallel()

	value := WrapNew(product{Title: "Shirt", Tags: "summer"})
	if !value.IsNew() {
		t.Fatal("expected new value")
	}
	if !value.IsDirty() {
		t.Fatal("expected new value to be dirty")
	}

	want := map[string]any{"title": "Shirt", "tags": "summer"}
	if diff := cmp.Diff(want, value.ChangedFields()); diff != "" {
		t.Fatalf("unexpected changed fields (-want +got):\n%s", diff)
	}
	if _, ok := value.Original(); ok {
		t.Fatal("new value must not expose a snapshot")
	}
}

func TestWrapExistingRoundTrip(t *testing.T) {
	t.Parallel()

	value := WrapExisting(product{ID: 1, Title: "Shirt"})
	if value.IsDirty() {
		t.Fatal("freshly wrapped existing value must be clean")
	}

	value.Ptr().Title = "Shirt"
	if value.IsDirty() {
		t.Fatal("writing an identical value must keep the value clean")
	}

	value.Ptr().Title = "Hoodie"
	if !value.IsDirty() {
		t.Fatal("expected value to be dirty after mutation")
	}

	value.MarkClean()
	if value.IsDirty() {
		t.Fatal("expected value to be clean after MarkClean")
	}
	if got := value.Get().Title; got != "Hoodie" {
		t.Fatalf("expected mutated title to survive MarkClean, got %q", got)
	}

	value.Set(product{ID: 1, Title: "Hoodie", Tags: "winter"})
	if !value.IsDirty() {
		t.Fatal("expected Set to be observed")
	}
}

func TestChangedFieldsIsMinimal(t *testing.T) {
	t.Parallel()

	value := WrapExisting(map[string]any{"a": 1, "b": 2})
	value.Get()["b"] = 3

	want := map[string]any{"b": json.Number("3")}
	if diff := cmp.Diff(want, value.ChangedFields()); diff != "" {
		t.Fatalf("unexpected changed fields (-want +got):\n%s", diff)
	}
}

func TestChangedFieldsNestedObject(t *testing.T) {
	t.Parallel()

	type wrapper struct {
		Opt option `json:"opt"`
	}

	value := WrapExisting(wrapper{Opt: option{Name: "Color", Values: []string{"R", "B"}}})
	value.Ptr().Opt.Name = "Size"

	want := map[string]any{"opt": map[string]any{"name": "Size"}}
	if diff := cmp.Diff(want, value.ChangedFields()); diff != "" {
		t.Fatalf("unexpected changed fields (-want +got):\n%s", diff)
	}
}

func TestChangedFieldsAddedField(t *testing.T) {
	t.Parallel()

	value := WrapExisting(product{ID: 7})
	value.Ptr().Title = "Added"

	want := map[string]any{"title": "Added"}
	if diff := cmp.Diff(want, value.ChangedFields()); diff != "" {
		t.Fatalf("unexpected changed fields (-want +got):\n%s", diff)
	}
}

func TestChangedFieldsReplacesWholeArrays(t *testing.T) {
	t.Parallel()

	value := WrapExisting(product{ID: 7, Options: []option{{Name: "Color", Values: []string{"R"}}}})
	value.Ptr().Options[0].Values = append(value.Ptr().Options[0].Values, "B")

	want := map[string]any{
		"options": []any{
			map[string]any{"name": "Color", "values": []any{"R", "B"}},
		},
	}
	if diff := cmp.Diff(want, value.ChangedFields()); diff != "" {
		t.Fatalf("unexpected changed fields (-want +got):\n%s", diff)
	}
}

func TestChangedFieldsIgnoresRemovedFields(t *testing.T) {
	t.Parallel()

	value := WrapExisting(product{ID: 7, Title: "Shirt", Tags: "summer"})
	value.Ptr().Tags = ""

	if !value.IsDirty() {
		t.Fatal("removing a field must still mark the value dirty")
	}
	if diff := cmp.Diff(map[string]any{}, value.ChangedFields()); diff != "" {
		t.Fatalf("removed fields must not be reported (-want +got):\n%s", diff)
	}
}

func TestChangedFieldsAppliesAsMergePatch(t *testing.T) {
	t.Parallel()

	before := product{
		ID:      3,
		Title:   "Shirt",
		Options: []option{{Name: "Color", Values: []string{"R", "B"}}},
		Extra:   map[string]string{"material": "cotton", "fit": "slim"},
	}
	value := WrapExisting(before)
	value.Ptr().Title = "Linen shirt"
	value.Ptr().Extra = map[string]string{"material": "linen", "fit": "slim", "origin": "PT"}

	originalJSON := mustJSON(t, before)
	patchJSON := mustJSON(t, value.ChangedFields())
	currentJSON := mustJSON(t, value.Get())

	merged, err := jsonpatch.MergePatch(originalJSON, patchJSON)
	if err != nil {
		t.Fatalf("MergePatch: %v", err)
	}
	if !jsonpatch.Equal(merged, currentJSON) {
		t.Fatalf("applying changed fields to the snapshot must yield the current value\nmerged:  %s\ncurrent: %s", merged, currentJSON)
	}
}

func TestSnapshotPanicsOnUnserialisableValue(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()

	WrapExisting(map[string]any{"ch": make(chan int)})
}

func mustJSON(t *testing.T, value any) []byte {
	t.Helper()
	encoded, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	return encoded
}
