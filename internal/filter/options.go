// Package filter streams FASTA and FASTQ records through a fixed
// descendant-membership test, keeping only records whose taxon sits at or
// below a chosen ancestor. Filters resolve their target before touching any
// record, so a bad ancestor never produces partial output.
package filter

import (
	"errors"

	"taxfilter/internal/observability"
	"taxfilter/pkg/taxonomy"
)

// ErrUnmappedRead reports a FASTQ read identifier absent from the
// classification report. Fatal under the default strict policy.
var ErrUnmappedRead = errors.New("filter: read id not present in classification report")

type options struct {
	log taxonomy.Logger
	rec observability.Recorder
}

// Option configures a filter.
type Option func(*options)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(l taxonomy.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithRecorder attaches a metrics recorder; the default discards everything.
func WithRecorder(r observability.Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.rec = r
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{log: taxonomy.NopLogger(), rec: observability.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Stats summarizes one filtering run.
type Stats struct {
	Scanned  int
	Kept     int
	Dropped  int
	Unmapped int // lenient FASTQ runs only; zero elsewhere
}
