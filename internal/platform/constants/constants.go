// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

/*
Package constants provides centralized, immutable values for the portal gateway.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Sessions: Redis key taxonomy and session header names.
  - Review Workflow: DICRI role names and validation bounds.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "dicri-portal"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// UpstreamRequestTimeout is the per-call deadline for the DICRI backend API.
	UpstreamRequestTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Sessions

const (
	// SessionIDHeader carries the gateway session id on every portal request.
	SessionIDHeader = "X-Session-ID"

	// SessionIDCookieName is the fallback cookie for browser clients.
	SessionIDCookieName = "dicri_session"

	// RedisPrefixSession is the key prefix for persisted sessions.
	RedisPrefixSession = "dicri:session:"

	// SessionIDBytes is the entropy of a freshly issued session id.
	SessionIDBytes = 32

	// DefaultSessionTTL bounds a session's lifetime when the upstream token
	// carries no usable expiry claim.
	DefaultSessionTTL = 8 * time.Hour

	// DefaultVerifyMaxAge is how long a successful upstream verification is
	// trusted before /auth/verify performs another round trip.
	DefaultVerifyMaxAge = 5 * time.Minute
)

// Persisted session fields. These are the only at-rest keys the portal owns;
// the session store is their exclusive writer.
const (
	SessionFieldToken    = "token"
	SessionFieldTokenExp = "token_exp"
	SessionFieldUser     = "user"
	SessionFieldModulos  = "modulos"
	SessionFieldPerfiles = "perfiles"
	SessionFieldRoles    = "roles"
	SessionFieldVerified = "verified_at"
)

// # Review Workflow

const (
	// RoleAdmin grants access to the administration views and full review powers.
	RoleAdmin = "ADMIN"

	// RoleCoordinador is the DICRI coordinator role that approves and rejects
	// expedientes pending review.
	RoleCoordinador = "COORDINADOR_DICRI"

	// RoleTecnico is the field technician role that registers expedientes,
	// escenas and indicios.
	RoleTecnico = "TECNICO_DICRI"

	// MinJustificacionLen is the minimum trimmed length of a rejection
	// justification. Mirrors the backend rule; the server stays authoritative.
	MinJustificacionLen = 10
)

// # Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldSuccess = "success"
	FieldMessage = "message"
	FieldData    = "data"
	FieldItems   = "items"
	FieldTotal   = "total"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)
