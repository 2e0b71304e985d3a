package tracked

import "reflect"

// Value pairs a live T with the JSON snapshot taken when it was last known to
// match the remote state. Mutations go through Ptr or Set; changes are found
// by re-serialising on demand rather than by intercepting writes.
//
// A Value is owned by a single edit session and does no locking.
type Value[T any] struct {
	value       T
	original    any
	hasOriginal bool
}

// WrapNew wraps a value that has never been persisted.
func WrapNew[T any](v T) *Value[T] {
	return &Value[T]{value: v}
}

// WrapExisting wraps a persisted value and snapshots its current state.
func WrapExisting[T any](v T) *Value[T] {
	tracked := &Value[T]{value: v}
	tracked.MarkClean()
	return tracked
}

func (v *Value[T]) Get() T {
	return v.value
}

// Ptr gives mutable access to the wrapped value.
func (v *Value[T]) Ptr() *T {
	return &v.value
}

func (v *Value[T]) Set(value T) {
	v.value = value
}

// IsNew reports whether the value has no snapshot yet.
func (v *Value[T]) IsNew() bool {
	return !v.hasOriginal
}

// Original returns the last snapshot and whether one exists.
func (v *Value[T]) Original() (any, bool) {
	return v.original, v.hasOriginal
}

func (v *Value[T]) IsDirty() bool {
	if !v.hasOriginal {
		return true
	}
	return !reflect.DeepEqual(v.original, Snapshot(v.value))
}

// ChangedFields returns the full serialisation for new values and the Diff
// against the snapshot otherwise.
func (v *Value[T]) ChangedFields() any {
	current := Snapshot(v.value)
	if !v.hasOriginal {
		return current
	}
	return Diff(v.original, current)
}

// MarkClean records the current state as persisted.
func (v *Value[T]) MarkClean() {
	v.original = Snapshot(v.value)
	v.hasOriginal = true
}
