// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

/*
Package audit records a local trail of session and review-workflow events.

The trail is observability only: the DICRI backend remains the system of
record, and every write here is best-effort. A failed audit insert is logged
and swallowed so it can never block a login or a review transition.
*/
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Event names recorded by the portal.
const (
	EventLogin          = "sesion.login"
	EventLogout         = "sesion.logout"
	EventSessionExpired = "sesion.expirada"
	EventEnviarRevision = "expediente.enviar_revision"
	EventAprobar        = "expediente.aprobar"
	EventRechazar       = "expediente.rechazar"
	EventEliminar       = "expediente.eliminar"
)

// Entry is one audit row.
type Entry struct {
	// Event is one of the Event* constants.
	Event string
	// Actor is the username that performed the action ("" for anonymous).
	Actor string
	// ExpedienteID links workflow events to their case file (0 for session events).
	ExpedienteID int
	// Detail carries free-form context (justification text, counts).
	Detail map[string]any
}

// Recorder persists audit entries.
//
// # Why an interface?
//
// Domain services depend on this interface so tests can capture entries in
// memory without a database.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

// # PostgreSQL Recorder

// PGRecorder writes audit entries to the portal's local PostgreSQL database.
type PGRecorder struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPGRecorder constructs a PostgreSQL-backed [Recorder].
func NewPGRecorder(pool *pgxpool.Pool, logger *slog.Logger) *PGRecorder {
	return &PGRecorder{pool: pool, logger: logger}
}

// Record inserts one audit row. Failures are logged, never returned:
// auditing must not interfere with the operation being audited.
func (recorder *PGRecorder) Record(ctx context.Context, entry Entry) {

	detail, err := json.Marshal(entry.Detail)
	if err != nil {
		detail = []byte("{}")
	}

	var expedienteID *int
	if entry.ExpedienteID > 0 {
		expedienteID = &entry.ExpedienteID
	}

	_, err = recorder.pool.Exec(ctx,
		`INSERT INTO portal_audit_log (evento, actor, id_investigacion, detalle, creado_en)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.Event, entry.Actor, expedienteID, detail, time.Now().UTC(),
	)
	if err != nil {
		recorder.logger.WarnContext(ctx, "audit_record_failed",
			slog.String("event", entry.Event),
			slog.Any("error", err),
		)
	}
}

// # Nop Recorder

// NopRecorder discards every entry. Used when the audit database is disabled.
type NopRecorder struct{}

// Record implements [Recorder] by doing nothing.
func (NopRecorder) Record(context.Context, Entry) {}
