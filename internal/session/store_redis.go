// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mp-gt/dicri-portal/internal/platform/constants"
)

// RedisStore persists sessions as Redis hashes.
//
// # Key Layout
//
// Each session lives under `dicri:session:<sha256(id)>`. The raw id never
// touches Redis, so a leaked keyspace dump cannot be replayed as a session.
// Fields are the [constants.SessionField*] names; Usuario and Modulos are
// stored as JSON blobs since Redis hashes are flat.
//
// # Expiry
//
// The hash TTL tracks the token's own expiry so Redis garbage-collects dead
// sessions without a reaper process.
type RedisStore struct {
	client     *redis.Client
	defaultTTL time.Duration
	clock      func() time.Time
}

// NewRedisStore constructs a Redis-backed session [Store]. defaultTTL bounds
// sessions whose token expiry is unknown; zero falls back to the package
// default.
func NewRedisStore(client *redis.Client, defaultTTL time.Duration) *RedisStore {
	if defaultTTL <= 0 {
		defaultTTL = constants.DefaultSessionTTL
	}
	return &RedisStore{client: client, defaultTTL: defaultTTL, clock: time.Now}
}

// Save implements [Store].
func (store *RedisStore) Save(ctx context.Context, id string, sess *Session) error {

	userJSON, err := json.Marshal(sess.Usuario)
	if err != nil {
		return fmt.Errorf("session: failed to marshal user: %w", err)
	}
	modulosJSON, err := json.Marshal(sess.Modulos)
	if err != nil {
		return fmt.Errorf("session: failed to marshal modules: %w", err)
	}
	rolesJSON, err := json.Marshal(sess.Roles)
	if err != nil {
		return fmt.Errorf("session: failed to marshal roles: %w", err)
	}
	perfilesJSON, err := json.Marshal(sess.Perfiles)
	if err != nil {
		return fmt.Errorf("session: failed to marshal profiles: %w", err)
	}

	key := store.key(id)
	fields := map[string]interface{}{
		constants.SessionFieldToken:    sess.Token,
		constants.SessionFieldTokenExp: sess.TokenExp.UTC().Format(time.RFC3339),
		constants.SessionFieldUser:     string(userJSON),
		constants.SessionFieldModulos:  string(modulosJSON),
		constants.SessionFieldPerfiles: string(perfilesJSON),
		constants.SessionFieldRoles:    string(rolesJSON),
		constants.SessionFieldVerified: sess.VerifiedAt.UTC().Format(time.RFC3339),
	}

	pipe := store.client.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, store.ttl(sess))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session: failed to persist session: %w", err)
	}

	return nil
}

// Get implements [Store].
func (store *RedisStore) Get(ctx context.Context, id string) (*Session, error) {

	fields, err := store.client.HGetAll(ctx, store.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("session: failed to load session: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	sess := &Session{Token: fields[constants.SessionFieldToken]}

	if raw := fields[constants.SessionFieldTokenExp]; raw != "" {
		if exp, err := time.Parse(time.RFC3339, raw); err == nil {
			sess.TokenExp = exp
		}
	}
	if raw := fields[constants.SessionFieldVerified]; raw != "" {
		if at, err := time.Parse(time.RFC3339, raw); err == nil {
			sess.VerifiedAt = at
		}
	}
	if raw := fields[constants.SessionFieldUser]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &sess.Usuario); err != nil {
			return nil, fmt.Errorf("session: corrupt user payload: %w", err)
		}
	}
	if raw := fields[constants.SessionFieldModulos]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &sess.Modulos); err != nil {
			return nil, fmt.Errorf("session: corrupt modules payload: %w", err)
		}
	}
	if raw := fields[constants.SessionFieldPerfiles]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &sess.Perfiles); err != nil {
			return nil, fmt.Errorf("session: corrupt profiles payload: %w", err)
		}
	}
	if raw := fields[constants.SessionFieldRoles]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &sess.Roles); err != nil {
			return nil, fmt.Errorf("session: corrupt roles payload: %w", err)
		}
	}

	return sess, nil
}

// Delete implements [Store]. Deleting an absent key is a success.
func (store *RedisStore) Delete(ctx context.Context, id string) error {
	if err := store.client.Del(ctx, store.key(id)).Err(); err != nil {
		return fmt.Errorf("session: failed to delete session: %w", err)
	}
	return nil
}

// key derives the Redis key from a raw session id.
func (store *RedisStore) key(id string) string {
	sum := sha256.Sum256([]byte(id))
	return constants.RedisPrefixSession + hex.EncodeToString(sum[:])
}

// ttl picks the hash expiry: until the token expires, or the configured
// default when the token carries no usable expiry.
func (store *RedisStore) ttl(sess *Session) time.Duration {
	if sess.TokenExp.IsZero() {
		return store.defaultTTL
	}
	ttl := time.Until(sess.TokenExp)
	if store.clock != nil {
		ttl = sess.TokenExp.Sub(store.clock())
	}
	if ttl <= 0 {
		return time.Second
	}
	return ttl
}
