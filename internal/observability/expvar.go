package observability

import (
	"expvar"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var expvarSeq uint64

// ExpvarRecorder publishes filtering counters via expvar for deployments
// that prefer process-local metrics without external dependencies.
type ExpvarRecorder struct {
	name string

	mu     sync.Mutex
	counts map[string]map[string]int64 // outcome -> format -> count
	nodes  int
}

// ExpvarSnapshot captures a read-only view of the recorded metrics.
type ExpvarSnapshot struct {
	Counts        map[string]map[string]int64 `json:"records_total"`
	TaxonomyNodes int                         `json:"taxonomy_nodes"`
	RecordedAt    time.Time                   `json:"recorded_at"`
}

// NewExpvarRecorder constructs an expvar-backed recorder and publishes it
// under the supplied name. When name is empty, a unique identifier is
// generated.
func NewExpvarRecorder(name string) *ExpvarRecorder {
	if name == "" {
		id := atomic.AddUint64(&expvarSeq, 1)
		name = fmt.Sprintf("taxfilter_metrics_%d", id)
	}
	rec := &ExpvarRecorder{
		name:   name,
		counts: make(map[string]map[string]int64),
	}
	expvar.Publish(name, expvar.Func(func() any {
		return rec.Snapshot()
	}))
	return rec
}

// Name returns the expvar export name associated with the recorder.
func (r *ExpvarRecorder) Name() string { return r.name }

// Snapshot returns an immutable copy of the aggregated metrics.
func (r *ExpvarRecorder) Snapshot() ExpvarSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]map[string]int64, len(r.counts))
	for outcome, byFormat := range r.counts {
		cpy := make(map[string]int64, len(byFormat))
		for format, count := range byFormat {
			cpy[format] = count
		}
		counts[outcome] = cpy
	}
	return ExpvarSnapshot{Counts: counts, TaxonomyNodes: r.nodes, RecordedAt: time.Now().UTC()}
}

func (r *ExpvarRecorder) inc(outcome, format string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byFormat, ok := r.counts[outcome]
	if !ok {
		byFormat = make(map[string]int64)
		r.counts[outcome] = byFormat
	}
	byFormat[format]++
}

func (r *ExpvarRecorder) RecordScanned(format string)  { r.inc("scanned", format) }
func (r *ExpvarRecorder) RecordKept(format string)     { r.inc("kept", format) }
func (r *ExpvarRecorder) RecordDropped(format string)  { r.inc("dropped", format) }
func (r *ExpvarRecorder) RecordUnmapped(format string) { r.inc("unmapped", format) }

func (r *ExpvarRecorder) SetTaxonomyNodes(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes = n
}
