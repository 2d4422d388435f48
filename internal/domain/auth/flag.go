// Package auth maintains the authentication flag in the local storage area.
//
// The flag is a client-side gate only: it has no expiry and is not tied to a
// user identity. Login sets it, logout clears it, the navigation guard reads it.
package auth

import (
	"context"
	"fmt"

	"invoicedesk/internal/core/kv"
)

// FlagKey is the storage key of the authentication flag.
const FlagKey = "adminAuthenticated"

const flagSet = "true"

// FlagStore reads and writes the authentication flag.
type FlagStore struct {
	area kv.Store
}

// NewFlagStore creates a flag store over the given storage area.
func NewFlagStore(area kv.Store) *FlagStore {
	return &FlagStore{area: area}
}

// IsAuthenticated reports whether the flag holds exactly "true".
// It reads the storage area on every call.
func (f *FlagStore) IsAuthenticated(ctx context.Context) (bool, error) {
	v, found, err := f.area.Get(ctx, FlagKey)
	if err != nil {
		return false, fmt.Errorf("read auth flag: %w", err)
	}
	return found && string(v) == flagSet, nil
}

// Set marks the area as authenticated.
func (f *FlagStore) Set(ctx context.Context) error {
	if err := f.area.Set(ctx, FlagKey, []byte(flagSet)); err != nil {
		return fmt.Errorf("set auth flag: %w", err)
	}
	return nil
}

// Clear removes the flag.
func (f *FlagStore) Clear(ctx context.Context) error {
	if err := f.area.Delete(ctx, FlagKey); err != nil {
		return fmt.Errorf("clear auth flag: %w", err)
	}
	return nil
}
