package filter

import (
	"io"
	"strings"

	"taxfilter/internal/seqio"
	"taxfilter/pkg/taxonomy"
)

// FastaConfig controls accession-class exclusion for FASTA filtering.
type FastaConfig struct {
	ExcludeCurated   bool
	ExcludePredicted bool
}

// Fasta filters FASTA records by descendant membership of the organism named
// in the record description (the bracketed `[Genus species]` convention of
// RefSeq headers). FASTA filtering never fails per record: unresolvable or
// excluded records are dropped and counted.
type Fasta struct {
	filter *taxonomy.DescendantFilter
	cfg    FastaConfig
	opts   options
}

// NewFasta resolves the target ancestor by name. An unknown name fails here,
// before any record is read.
func NewFasta(tree *taxonomy.Tree, ancestorName string, cfg FastaConfig, opts ...Option) (*Fasta, error) {
	df, err := tree.DescendantFilterByName(ancestorName)
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	o.rec.SetTaxonomyNodes(tree.Len())
	return &Fasta{filter: df, cfg: cfg, opts: o}, nil
}

// Run streams records from in to out, one pass, preserving input order.
func (f *Fasta) Run(in io.Reader, out io.Writer) (Stats, error) {
	var stats Stats
	err := seqio.ScanFasta(in, func(rec seqio.FastaRecord) error {
		stats.Scanned++
		f.opts.rec.RecordScanned("fasta")
		if f.accept(rec) {
			if err := seqio.WriteFasta(out, rec); err != nil {
				return err
			}
			stats.Kept++
			f.opts.rec.RecordKept("fasta")
			return nil
		}
		stats.Dropped++
		f.opts.rec.RecordDropped("fasta")
		return nil
	})
	if err != nil {
		return stats, err
	}
	f.opts.log.Info("fasta filter done",
		"ancestor", f.filter.Target().Name,
		"scanned", stats.Scanned, "kept", stats.Kept, "dropped", stats.Dropped)
	return stats, nil
}

func (f *Fasta) accept(rec seqio.FastaRecord) bool {
	switch ClassifyAccession(rec.ID) {
	case AccessionCurated:
		if f.cfg.ExcludeCurated {
			return false
		}
	case AccessionPredicted:
		if f.cfg.ExcludePredicted {
			return false
		}
	}
	name, ok := organismName(rec.Desc)
	if !ok {
		return false
	}
	return f.filter.ContainsName(name)
}

// organismName extracts the bracketed organism name from a RefSeq-style
// description, using the last closing bracket so names containing brackets
// survive.
func organismName(desc string) (string, bool) {
	start := strings.Index(desc, "[")
	end := strings.LastIndex(desc, "]")
	if start < 0 || end < 0 || end <= start {
		return "", false
	}
	return desc[start+1 : end], true
}
