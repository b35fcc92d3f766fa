package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *GroveError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *GroveError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// CategoryMissing is returned when a drag-capable tab-set is declared
// without a category tag.
func CategoryMissing(tabset string) *GroveError {
	return New(ErrCodeCategoryMissing,
		fmt.Sprintf("tab-set '%s' must declare a unique category to distinguish it from other strips", tabset)).
		WithDetail("tabset", tabset)
}

// NoCollection is returned when a draggable tab is not bound to a backing collection.
func NoCollection(label string) *GroveError {
	return New(ErrCodeNoCollection,
		fmt.Sprintf("draggable tab '%s' must be bound to a repeating collection", label)).
		WithDetail("tab", label)
}

// InvalidTransfer reports a transfer payload with a missing or malformed field.
func InvalidTransfer(field string) *GroveError {
	return New(ErrCodeInvalidTransfer, fmt.Sprintf("transfer payload field '%s' missing or malformed", field)).
		WithDetail("field", field)
}

// StoreUnavailable wraps an I/O failure of an ephemeral store backend.
func StoreUnavailable(backend string, err error) *GroveError {
	return Wrap(err, ErrCodeStoreUnavailable, fmt.Sprintf("%s store unavailable", backend)).
		WithDetail("backend", backend)
}

// StoreCodec wraps a failure to encode or decode a store entry.
func StoreCodec(key string, err error) *GroveError {
	return Wrap(err, ErrCodeStoreCodec, "failed to encode or decode store entry").
		WithDetail("key", key)
}
