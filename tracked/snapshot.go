package tracked

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Snapshot serialises v to JSON and decodes it back into a generic tree of
// map[string]any, []any, json.Number, string, bool and nil. Values that cannot
// be serialised are a programming error and panic.
func Snapshot(v any) any {
	encoded, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("tracked: value of type %T is not JSON serialisable: %v", v, err))
	}

	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()

	var tree any
	if err := decoder.Decode(&tree); err != nil {
		panic(fmt.Sprintf("tracked: re-decoding %T failed: %v", v, err))
	}
	return tree
}
