package provider

import (
	"encoding/json"
	"fmt"
)

// ConfigError: a required credential or setting is absent. Raised before any
// network I/O is attempted and never retried.
type ConfigError struct {
	Provider Tag
	Setting  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s not configured", e.Provider, e.Setting)
}

// ProviderError: the remote transport rejected or failed the request.
// Eligible for the engine's one-shot legacy fallback.
type ProviderError struct {
	Provider Tag
	Message  string
	Payload  json.RawMessage // raw provider response, diagnostics only
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s send failed: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s send failed: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// PersistenceError: the pending-queue write failed. Surfaces immediately;
// the desktop path has no alternative transport.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("pending queue write failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// UnknownProviderError: the tenant's explicit override names a provider
// nobody implements.
type UnknownProviderError struct {
	Tag Tag
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider: %s", e.Tag)
}
