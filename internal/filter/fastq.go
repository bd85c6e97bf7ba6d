package filter

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"taxfilter/internal/seqio"
	"taxfilter/pkg/taxonomy"
)

// FastqConfig controls FASTQ filtering behavior.
type FastqConfig struct {
	Format ReportFormat
	// Lenient downgrades unmapped read ids from fatal to skip-and-count.
	// The default treats them as a data-integrity problem: the report is
	// externally supplied and may silently be incomplete.
	Lenient bool
}

// Fastq filters FASTQ records against verdicts precomputed from a
// classification report. One Fastq may run over several input files; the
// verdict map is shared while per-file stats are not.
type Fastq struct {
	verdicts map[string]bool
	cfg      FastqConfig
	opts     options
	ancestor *taxonomy.Node
}

// NewFastq resolves the target ancestor by taxon id and reads the whole
// classification report. Both happen before any record or output file is
// touched.
func NewFastq(tree *taxonomy.Tree, ancestorID int64, report io.Reader, cfg FastqConfig, opts ...Option) (*Fastq, error) {
	df, err := tree.DescendantFilterByID(ancestorID)
	if err != nil {
		return nil, err
	}
	verdicts, err := loadReport(report, cfg.Format, df)
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	o.rec.SetTaxonomyNodes(tree.Len())
	o.log.Debug("classification report loaded", "format", cfg.Format.String(), "reads", len(verdicts))
	return &Fastq{verdicts: verdicts, cfg: cfg, opts: o, ancestor: df.Target()}, nil
}

// Run streams records from in to out, one pass, preserving input order. A
// read id missing from the report aborts the run with ErrUnmappedRead unless
// the lenient policy is configured.
func (f *Fastq) Run(in io.Reader, out io.Writer) (Stats, error) {
	var stats Stats
	err := seqio.ScanFastq(in, func(rec seqio.FastqRecord) error {
		stats.Scanned++
		f.opts.rec.RecordScanned("fastq")
		accepted, seen := f.verdicts[rec.ID()]
		if !seen {
			f.opts.rec.RecordUnmapped("fastq")
			if !f.cfg.Lenient {
				return fmt.Errorf("%w: %s", ErrUnmappedRead, rec.ID())
			}
			stats.Unmapped++
			stats.Dropped++
			f.opts.rec.RecordDropped("fastq")
			f.opts.log.Warn("skipping unmapped read", "id", rec.ID())
			return nil
		}
		if !accepted {
			stats.Dropped++
			f.opts.rec.RecordDropped("fastq")
			return nil
		}
		if err := seqio.WriteFastq(out, rec); err != nil {
			return err
		}
		stats.Kept++
		f.opts.rec.RecordKept("fastq")
		return nil
	})
	if err != nil {
		return stats, err
	}
	f.opts.log.Info("fastq filter done",
		"ancestor", f.ancestor.Name,
		"scanned", stats.Scanned, "kept", stats.Kept,
		"dropped", stats.Dropped, "unmapped", stats.Unmapped)
	return stats, nil
}

// OutputName maps an input FASTQ path to its filtered counterpart in
// outputDir: reads.fastq.gz becomes reads.filtered.fastq.gz, preserving the
// input/output file correspondence for paired runs.
func OutputName(inputPath, outputDir string) string {
	base := filepath.Base(inputPath)
	parts := strings.SplitN(base, ".", 2)
	name := parts[0] + ".filtered"
	if len(parts) == 2 {
		name += "." + parts[1]
	}
	return filepath.Join(outputDir, name)
}
