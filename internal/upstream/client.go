// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

/*
Package upstream implements the HTTP client for the DICRI backend REST API.

The backend is consumed as an opaque collaborator: authentication issuance,
authorization enforcement, persistence and business-rule validation all live
there. This package owns the transport concerns only:

  - Envelope: every backend response is `{success, message, data}`.
  - Bearer: the session token travels in the Authorization header and is
    taken from the request context; no token means no header.
  - 401 Policy: any endpoint answering 401 triggers the unauthorized hook
    exactly once per call, centralizing the forced-logout rule at the
    transport boundary instead of per call site.

No retries, no queueing, no optimistic state: one call, one outcome.
*/
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mp-gt/dicri-portal/internal/platform/apperr"
	"github.com/mp-gt/dicri-portal/internal/platform/constants"
)

// # Context Plumbing

// tokenKey is the private context key carrying the bearer token.
type tokenKey struct{}

// WithToken returns a context that carries the bearer token for outgoing calls.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext extracts the bearer token, or "" when anonymous.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// # Envelope

// Envelope mirrors the backend's `{success, message, data}` response shape.
// Data is kept raw so each domain service decodes its own payload type.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// DecodeData unmarshals the envelope payload into target.
func (e *Envelope) DecodeData(target interface{}) error {
	if len(e.Data) == 0 {
		return apperr.Upstream("Respuesta del servicio DICRI sin datos", nil)
	}
	if err := json.Unmarshal(e.Data, target); err != nil {
		return apperr.Upstream("Respuesta del servicio DICRI malformada", err)
	}
	return nil
}

// # Client

// UnauthorizedHook is invoked whenever the backend answers 401, regardless of
// which endpoint was called. Wired once in main to the session invalidator.
type UnauthorizedHook func(ctx context.Context)

// Client is the portal's single gateway to the DICRI backend API.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	logger         *slog.Logger
	onUnauthorized UnauthorizedHook
}

// NewClient constructs a backend API client for the given base URL.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: constants.UpstreamRequestTimeout,
		},
		logger: logger,
	}
}

// SetUnauthorizedHook registers the global 401 handler. Call once during wiring.
func (c *Client) SetUnauthorizedHook(hook UnauthorizedHook) {
	c.onUnauthorized = hook
}

// Healthy reports whether the backend is reachable. Any HTTP response
// counts as healthy here; only transport failures are errors, since a 401
// from a probe still proves the service is up.
func (c *Client) Healthy(ctx context.Context) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("upstream: backend unreachable: %w", err)
	}
	_ = response.Body.Close()
	return nil
}

// Get performs a GET request against the backend.
func (c *Client) Get(ctx context.Context, path string) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body (nil body sends "{}").
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Envelope, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

// Delete performs a DELETE request against the backend.
func (c *Client) Delete(ctx context.Context, path string) (*Envelope, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

// do executes one round trip and maps the outcome to the portal error taxonomy.
//
// # Flow
//  1. Marshal the body (if any) and build the request.
//  2. Attach the bearer token from context (absence omits the header).
//  3. Execute. Transport failure maps to 502 UPSTREAM_ERROR.
//  4. Map non-2xx statuses; 401 additionally fires the unauthorized hook.
//  5. Decode the `{success, message, data}` envelope.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*Envelope, error) {

	// ── 1. Request Construction ───────────────────────────────────────────
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("upstream: failed to marshal body: %w", err))
		}
		reader = bytes.NewReader(payload)
	} else if method == http.MethodPost {
		// Action endpoints (aprobar, enviar-revision) expect an empty object.
		reader = strings.NewReader("{}")
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("upstream: failed to build request: %w", err))
	}
	request.Header.Set("Content-Type", "application/json")

	// ── 2. Bearer Injection ───────────────────────────────────────────────
	if token := TokenFromContext(ctx); token != "" {
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}

	// ── 3. Execution ──────────────────────────────────────────────────────
	response, err := c.httpClient.Do(request)
	if err != nil {
		c.logger.WarnContext(ctx, "upstream_transport_failure",
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err),
		)
		return nil, apperr.Upstream("No se pudo contactar el servicio DICRI", err)
	}
	defer func() { _ = response.Body.Close() }()

	rawBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, apperr.Upstream("No se pudo leer la respuesta del servicio DICRI", err)
	}

	// ── 4. Status Mapping ─────────────────────────────────────────────────
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, c.mapFailure(ctx, method, path, response.StatusCode, rawBody)
	}

	// ── 5. Envelope Decoding ──────────────────────────────────────────────
	envelope := &Envelope{}
	if err := json.Unmarshal(rawBody, envelope); err != nil {
		return nil, apperr.Upstream("Respuesta del servicio DICRI malformada", err)
	}

	return envelope, nil
}

// maxResponseBytes bounds upstream response bodies (list endpoints included).
const maxResponseBytes = 8 << 20

// mapFailure converts a non-2xx upstream response into an [*apperr.AppError].
func (c *Client) mapFailure(ctx context.Context, method, path string, status int, rawBody []byte) error {

	// Pull the backend's own message when the body carries the envelope.
	message := ""
	envelope := &Envelope{}
	if err := json.Unmarshal(rawBody, envelope); err == nil {
		message = envelope.Message
	}

	switch {
	case status == http.StatusUnauthorized:
		// Global 401 policy: invalidate the session exactly here, never per call site.
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		if message == "" {
			message = "Sesión expirada"
		}
		return apperr.Unauthorized(message)

	case status == http.StatusForbidden:
		if message == "" {
			message = "Acceso restringido"
		}
		return apperr.Forbidden(message)

	case status == http.StatusNotFound:
		if message == "" {
			message = "Recurso no encontrado"
		}
		return apperr.NotFound(message)

	case status >= 400 && status < 500:
		if message == "" {
			message = fmt.Sprintf("Solicitud rechazada por el servicio DICRI (%d)", status)
		}
		return apperr.ValidationError(message)

	default:
		c.logger.ErrorContext(ctx, "upstream_server_error",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", status),
		)
		if message == "" {
			message = "El servicio DICRI no está disponible"
		}
		return apperr.Upstream(message, nil)
	}
}
