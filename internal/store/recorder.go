package store

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// writeTimeout bounds each archive write so a stuck database cannot wedge
// the drain goroutine.
const writeTimeout = 5 * time.Second

// Recorder decouples transcript writes from the chat hot path. Record never
// blocks: events go through a bounded queue drained by a single background
// goroutine; when the queue is full the event is dropped with a warning.
type Recorder struct {
	repo    Repository
	queue   chan TurnRecord
	logger  *slog.Logger
	done    chan struct{}
	closeMu sync.Mutex
	closed  bool
}

// NewRecorder starts the drain goroutine. queueSize <= 0 falls back to 1000.
func NewRecorder(repo Repository, queueSize int, logger *slog.Logger) *Recorder {
	if queueSize <= 0 {
		queueSize = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Recorder{
		repo:   repo,
		queue:  make(chan TurnRecord, queueSize),
		logger: logger,
		done:   make(chan struct{}),
	}
	go r.drain()
	return r
}

// Record enqueues one message for archival. Records arriving after Close
// are dropped; the connection handlers outlive server shutdown, so late
// calls here are expected.
func (r *Recorder) Record(sessionID, role, content string) {
	rec := TurnRecord{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}

	r.closeMu.Lock()
	defer r.closeMu.Unlock()
	if r.closed {
		r.logger.Warn("Transcript recorder closed, dropping record", "session_id", sessionID, "role", role)
		return
	}
	select {
	case r.queue <- rec:
	default:
		r.logger.Warn("Transcript queue full, dropping record", "session_id", sessionID, "role", role)
	}
}

func (r *Recorder) drain() {
	defer close(r.done)
	for rec := range r.queue {
		r.write(rec)
	}
}

func (r *Recorder) write(rec TurnRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	err := r.repo.SaveTurn(ctx, rec)
	if err != nil && isSQLiteConflict(err) {
		// One retry on lock contention; the archive is best-effort.
		time.Sleep(50 * time.Millisecond)
		err = r.repo.SaveTurn(ctx, rec)
	}
	if err != nil {
		r.logger.Warn("Failed to archive transcript record", "session_id", rec.SessionID, "error", err)
	}
}

// isSQLiteConflict reports whether the error is a SQLITE_BUSY or
// "database is locked" concurrency error, both of which warrant a retry.
func isSQLiteConflict(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "SQLITE_BUSY") ||
		strings.Contains(err.Error(), "database is locked")
}

// Close stops accepting records and flushes the queue.
func (r *Recorder) Close() error {
	r.closeMu.Lock()
	defer r.closeMu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	close(r.queue)
	<-r.done
	return nil
}
