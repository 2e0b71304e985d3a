package tracked

import "reflect"

// Diff returns the part of current that differs from original.
//
// Objects are compared key by key over the keys of current: keys missing from
// original are included, equal values are omitted, nested objects are diffed
// recursively and kept only when the nested diff is non-empty, and any other
// difference (arrays included) carries current's whole value. Keys present
// only in original are never reported. When either side is not an object the
// result is nil for equal values and current otherwise.
func Diff(original, current any) any {
	originalObject, originalIsObject := original.(map[string]any)
	currentObject, currentIsObject := current.(map[string]any)
	if !originalIsObject || !currentIsObject {
		if reflect.DeepEqual(original, current) {
			return nil
		}
		return current
	}
	return diffObjects(originalObject, currentObject)
}

func diffObjects(original, current map[string]any) map[string]any {
	changed := make(map[string]any)
	for key, currentValue := range current {
		originalValue, found := original[key]
		if !found {
			changed[key] = currentValue
			continue
		}
		if reflect.DeepEqual(originalValue, currentValue) {
			continue
		}

		originalNested, originalIsObject := originalValue.(map[string]any)
		currentNested, currentIsObject := currentValue.(map[string]any)
		if originalIsObject && currentIsObject {
			if nested := diffObjects(originalNested, currentNested); len(nested) > 0 {
				changed[key] = nested
			}
			continue
		}

		changed[key] = currentValue
	}
	return changed
}
