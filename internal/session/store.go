// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned by [Store.Get] when no session exists for the id.
var ErrNotFound = errors.New("session: not found")

// Store persists sessions keyed by opaque session id.
//
// Implementations must treat Delete as idempotent: deleting an absent
// session is a success, which keeps logout safe to repeat.
type Store interface {
	// Save writes the full session state, replacing any previous state.
	// The entry expires with the token (or the default TTL when unknown).
	Save(ctx context.Context, id string, sess *Session) error

	// Get loads the session for the id, or [ErrNotFound].
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes the session. Absent sessions are not an error.
	Delete(ctx context.Context, id string) error
}
