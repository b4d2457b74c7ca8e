package event

import (
	"context"
	"log/slog"
	"time"
)

// Type identifies the kind of event.
type Type int

const (
	TransferStarted Type = iota + 1
	ChunkTransferred
	TransferComplete
	TransferFailed
	VerifyStarted
	VerifyOK
	VerifyFailed
)

var typeNames = [...]string{
	TransferStarted:  "TransferStarted",
	ChunkTransferred: "ChunkTransferred",
	TransferComplete: "TransferComplete",
	TransferFailed:   "TransferFailed",
	VerifyStarted:    "VerifyStarted",
	VerifyOK:         "VerifyOK",
	VerifyFailed:     "VerifyFailed",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single point in the life of a transfer.
type Event struct {
	Type      Type
	Timestamp time.Time
	Bytes     int64 // size of this chunk
	Total     int64 // bytes delivered so far
	Error     error
}

// Message is the slog message every event record carries.
const Message = "fastdd.event"

// Recorder turns transfer progress into structured log records. It
// implements engine.Progress; calls must not overlap.
type Recorder struct {
	log   *slog.Logger
	now   func() time.Time
	total int64
}

// NewRecorder returns a Recorder writing to log.
func NewRecorder(log *slog.Logger) *Recorder {
	return &Recorder{log: log, now: time.Now}
}

// Emit records ev, stamping it if needed. Chunk events are logged at debug
// level, failures at warn and everything else at info.
func (r *Recorder) Emit(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = r.now()
	}
	level := slog.LevelInfo
	switch ev.Type {
	case ChunkTransferred:
		level = slog.LevelDebug
	case TransferFailed, VerifyFailed:
		level = slog.LevelWarn
	}

	ctx := context.Background()
	if !r.log.Enabled(ctx, level) {
		return
	}
	attrs := []slog.Attr{
		slog.String("type", ev.Type.String()),
		slog.Time("ts", ev.Timestamp),
		slog.Int64("bytes", ev.Bytes),
		slog.Int64("total", ev.Total),
	}
	if ev.Error != nil {
		attrs = append(attrs, slog.String("error", ev.Error.Error()))
	}
	r.log.LogAttrs(ctx, level, Message, attrs...)
}

func (r *Recorder) BytesTransferred(n int64) {
	r.total += n
	r.Emit(Event{Type: ChunkTransferred, Bytes: n, Total: r.total})
}

func (r *Recorder) Complete() {
	r.Emit(Event{Type: TransferComplete, Total: r.total})
}

func (r *Recorder) Error() {
	r.Emit(Event{Type: TransferFailed, Total: r.total})
}

// Total returns the bytes reported so far.
func (r *Recorder) Total() int64 { return r.total }
