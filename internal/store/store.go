// Package store provides the transcript archive: an append-only record of
// exchanged messages. It is an audit log only — live session state dies
// with the connection and is never reconstructed from here.
package store

import (
	"context"
	"time"
)

// TurnRecord is one archived message.
type TurnRecord struct {
	SessionID string
	Role      string
	Content   string
	CreatedAt time.Time
}

// Repository defines the interface for persisting transcript records.
type Repository interface {
	// SaveTurn appends one record to the archive.
	SaveTurn(ctx context.Context, rec TurnRecord) error

	// CountTurns returns the number of archived records for a session.
	CountTurns(ctx context.Context, sessionID string) (int64, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
