package tracing

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record captures one pipeline execution for diagnostics: input, output,
// failure, and timing.
type Record struct {
	ID       string        `json:"id"`
	Asset    string        `json:"asset"`
	Input    any           `json:"input"`
	Output   any           `json:"output,omitempty"`
	Err      string        `json:"error,omitempty"`
	Cached   bool          `json:"cached"`
	Start    time.Time     `json:"start"`
	Duration time.Duration `json:"duration"`
}

// DefaultRecorderCapacity bounds the in-memory trace log per recorder.
const DefaultRecorderCapacity = 256

// Recorder keeps a bounded ring of execution records. It is safe for
// concurrent use.
type Recorder struct {
	mu    sync.Mutex
	ring  []Record
	next  int
	count int
}

// NewRecorder returns a recorder holding at most capacity records; a
// non-positive capacity uses the default.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultRecorderCapacity
	}
	return &Recorder{ring: make([]Record, capacity)}
}

// Observe appends a record, overwriting the oldest when full. The record's
// ID and timing fields are filled in here.
func (r *Recorder) Observe(asset string, input, output any, err error, cached bool, start time.Time) {
	rec := Record{
		ID:       uuid.NewString(),
		Asset:    asset,
		Input:    input,
		Output:   output,
		Cached:   cached,
		Start:    start,
		Duration: time.Since(start),
	}
	if err != nil {
		rec.Err = err.Error()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ring[r.next] = rec
	r.next = (r.next + 1) % len(r.ring)
	if r.count < len(r.ring) {
		r.count++
	}
}

// Snapshot returns the recorded executions oldest-first.
func (r *Recorder) Snapshot() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, 0, r.count)
	start := r.next - r.count
	if start < 0 {
		start += len(r.ring)
	}
	for i := 0; i < r.count; i++ {
		out = append(out, r.ring[(start+i)%len(r.ring)])
	}
	return out
}

// Len returns the number of records currently held.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
