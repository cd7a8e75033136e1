// Package audit records security- and business-relevant events. Audit entries
// are deliberately separate from application logs: slog output is ephemeral
// debug material, while audit entries are immutable records written for every
// state-changing operation, including failures, and must survive independently
// of the user records they mention. The Sink interface keeps the destination an
// injected capability so services never write to an ambient global and tests
// can substitute a capturing sink.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Outcome of the audited operation.
const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
)

// ActorUnknown is recorded when the caller could not be identified.
const ActorUnknown = "unknown"

// Entry is a single append-only audit record. UserEmail is denormalized on
// purpose: the entry must remain meaningful even if the user is later removed.
type Entry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Action    string             `bson:"action" json:"action"`
	UserEmail string             `bson:"user_email" json:"user_email"`
	Status    string             `bson:"status" json:"status"`
	Details   string             `bson:"details" json:"details"`
	IPAddress string             `bson:"ip_address" json:"ip_address"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Sink persists audit entries. Implementations must never mutate or delete
// entries after insert.
type Sink interface {
	Record(ctx context.Context, entry Entry) error
}

// Recorder writes entries to a sink with fire-and-forget semantics: a failure
// to persist an audit entry is logged locally and never aborts the operation
// being described.
type Recorder struct {
	sink Sink
}

// NewRecorder returns a Recorder over sink. A nil sink yields a recorder that
// drops everything, which keeps call sites nil-safe.
func NewRecorder(sink Sink) *Recorder {
	if sink == nil {
		sink = NopSink{}
	}
	return &Recorder{sink: sink}
}

// Record stamps the entry and hands it to the sink. The actor defaults to
// "unknown" when empty.
func (r *Recorder) Record(ctx context.Context, action, actor, status, details, ip string) {
	if actor == "" {
		actor = ActorUnknown
	}
	entry := Entry{
		Action:    action,
		UserEmail: actor,
		Status:    status,
		Details:   details,
		IPAddress: ip,
		Timestamp: time.Now().UTC(),
	}
	if err := r.sink.Record(ctx, entry); err != nil {
		slog.Warn("audit entry dropped", "action", action, "error", err)
	}
}

// NopSink discards every entry.
type NopSink struct{}

func (NopSink) Record(context.Context, Entry) error { return nil }

// CaptureSink retains entries in memory for inspection in tests.
type CaptureSink struct {
	mu      sync.Mutex
	entries []Entry
	// Err, if set, is returned from Record to simulate a failing sink.
	Err error
}

func (c *CaptureSink) Record(_ context.Context, entry Entry) error {
	if c.Err != nil {
		return c.Err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry)
	return nil
}

// Entries returns a copy of everything recorded so far.
func (c *CaptureSink) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Last returns the most recent entry, or a zero Entry if none were recorded.
func (c *CaptureSink) Last() Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) == 0 {
		return Entry{}
	}
	return c.entries[len(c.entries)-1]
}
