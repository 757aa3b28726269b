// Package kvstore defines the key-value storage contract the storefront
// state is persisted through. Implementations are origin-wide: every
// process pointed at the same backing medium sees the same documents.
package kvstore

// Store is a synchronous string-keyed document store. Read never fails:
// malformed or unreachable content is reported as absent and decode
// recovery is the caller's responsibility.
type Store interface {
	// Read returns the raw value for key, or ok=false when absent.
	Read(key string) (value string, ok bool)

	// Write stores the raw value under key, replacing any previous value.
	Write(key, value string) error

	// Remove deletes the key. Removing an absent key is not an error.
	Remove(key string) error

	// Close releases any backing resources and stops change delivery.
	Close() error
}

// Notifier delivers cross-process change events. There is no payload and
// no delta, only the key that changed: subscribers re-read the store.
type Notifier interface {
	// OnExternalChange registers fn to be called with the key of every
	// observed change. The returned cancel func unregisters it.
	OnExternalChange(fn func(key string)) (cancel func())
}

// NotifyingStore is implemented by every adapter in this module.
type NotifyingStore interface {
	Store
	Notifier
}
