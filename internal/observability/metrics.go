// Package observability provides record-filtering metrics recorders: a
// Prometheus-backed recorder for scraped deployments and an expvar-backed
// one for process-local inspection.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives per-record filtering outcomes. Implementations must be
// cheap enough to call once per streamed record.
type Recorder interface {
	RecordScanned(format string)
	RecordKept(format string)
	RecordDropped(format string)
	RecordUnmapped(format string)
	SetTaxonomyNodes(n int)
}

type nopRecorder struct{}

func (nopRecorder) RecordScanned(string)  {}
func (nopRecorder) RecordKept(string)     {}
func (nopRecorder) RecordDropped(string)  {}
func (nopRecorder) RecordUnmapped(string) {}
func (nopRecorder) SetTaxonomyNodes(int)  {}

// Nop returns a recorder that discards everything.
func Nop() Recorder { return nopRecorder{} }

// PromRecorder publishes filtering counters and the loaded taxonomy size via
// Prometheus.
type PromRecorder struct {
	scanned  *prometheus.CounterVec
	kept     *prometheus.CounterVec
	dropped  *prometheus.CounterVec
	unmapped *prometheus.CounterVec
	nodes    prometheus.Gauge
}

// NewPromRecorder constructs a recorder and registers its collectors with
// reg (prometheus.DefaultRegisterer when nil).
func NewPromRecorder(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &PromRecorder{
		scanned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxfilter_records_scanned_total",
			Help: "Sequence records read from input streams.",
		}, []string{"format"}),
		kept: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxfilter_records_kept_total",
			Help: "Sequence records accepted by the descendant filter.",
		}, []string{"format"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxfilter_records_dropped_total",
			Help: "Sequence records rejected or unresolvable.",
		}, []string{"format"}),
		unmapped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxfilter_unmapped_reads_total",
			Help: "Read identifiers absent from the classification report.",
		}, []string{"format"}),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "taxfilter_taxonomy_nodes",
			Help: "Nodes in the loaded taxonomy tree.",
		}),
	}
	for _, c := range []prometheus.Collector{r.scanned, r.kept, r.dropped, r.unmapped, r.nodes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *PromRecorder) RecordScanned(format string)  { r.scanned.WithLabelValues(format).Inc() }
func (r *PromRecorder) RecordKept(format string)     { r.kept.WithLabelValues(format).Inc() }
func (r *PromRecorder) RecordDropped(format string)  { r.dropped.WithLabelValues(format).Inc() }
func (r *PromRecorder) RecordUnmapped(format string) { r.unmapped.WithLabelValues(format).Inc() }
func (r *PromRecorder) SetTaxonomyNodes(n int)       { r.nodes.Set(float64(n)) }
