package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"taxfilter/internal/blob"
	"taxfilter/internal/filter"
	"taxfilter/internal/seqio"
)

func newFilterFastaCmd(root *rootOptions) *cobra.Command {
	var (
		excludeCurated   bool
		excludePredicted bool
	)
	cmd := &cobra.Command{
		Use:   "filter-fasta <input> <ancestor-name> [output]",
		Short: "Keep FASTA records whose bracketed organism descends from the given taxon",
		Long: `Stream a FASTA file and keep the records whose [Organism name] in the
description belongs to the clade rooted at <ancestor-name>. Records with
no recognizable organism are dropped. Input and output may be plain or
gzip-compressed; "-" or an empty output means stdout.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(root.verbose)
			tree, err := openTree(cmd.Context(), root)
			if err != nil {
				return err
			}
			rec, stopMetrics, err := newRecorder(root)
			if err != nil {
				return err
			}
			defer stopMetrics()
			f, err := filter.NewFasta(tree, args[1], filter.FastaConfig{
				ExcludeCurated:   excludeCurated,
				ExcludePredicted: excludePredicted,
			}, filter.WithLogger(log), filter.WithRecorder(rec))
			if err != nil {
				return err
			}

			in, err := seqio.OpenInput(args[0])
			if err != nil {
				return fmt.Errorf("open input %s: %w", args[0], err)
			}
			defer func() { _ = in.Close() }()

			outPath := ""
			if len(args) == 3 {
				outPath = args[2]
			}
			out, err := seqio.OpenOutput(outPath)
			if err != nil {
				return fmt.Errorf("open output %s: %w", outPath, err)
			}

			stats, err := f.Run(in, out)
			if cerr := out.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("filter %s: %w", args[0], err)
			}
			log.Info("fasta filter complete", "scanned", stats.Scanned, "kept", stats.Kept, "dropped", stats.Dropped)
			return nil
		},
	}
	cmd.Flags().BoolVar(&excludeCurated, "exclude-curated", false, "drop curated RefSeq records (NM_, NC_, ...)")
	cmd.Flags().BoolVar(&excludePredicted, "exclude-predicted", false, "drop predicted RefSeq records (XM_, XP_, XR_)")
	return cmd
}

func newFilterFastqCmd(root *rootOptions) *cobra.Command {
	var (
		ancestorID int64
		reportPath string
		format     string
		outputDir  string
		lenient    bool
		publish    bool
	)
	cmd := &cobra.Command{
		Use:   "filter-fastq <input>...",
		Short: "Keep FASTQ reads a classifier assigned to the given clade",
		Long: `Stream FASTQ files and keep the reads whose classifier-assigned taxon
descends from --ancestor-id, according to a Kraken2 or Centrifuge report.
Each input produces <stem>.filtered.<rest> in --output-dir (created if
missing); a single input streams to stdout with --output-dir "-". A read
absent from the report aborts the run unless --lenient is set.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := newLogger(root.verbose)

			reportFormat, err := filter.ParseReportFormat(format)
			if err != nil {
				return err
			}
			tree, err := openTree(ctx, root)
			if err != nil {
				return err
			}
			report, err := os.Open(reportPath)
			if err != nil {
				return fmt.Errorf("open report %s: %w", reportPath, err)
			}
			rec, stopMetrics, err := newRecorder(root)
			if err != nil {
				_ = report.Close()
				return err
			}
			defer stopMetrics()
			f, err := filter.NewFastq(tree, ancestorID, report, filter.FastqConfig{
				Format:  reportFormat,
				Lenient: lenient,
			}, filter.WithLogger(log), filter.WithRecorder(rec))
			_ = report.Close()
			if err != nil {
				return err
			}

			if outputDir == "-" {
				if len(args) != 1 {
					return errors.New("writing to stdout requires exactly one input")
				}
				if publish {
					return errors.New("--publish requires file outputs")
				}
				in, err := seqio.OpenInput(args[0])
				if err != nil {
					return fmt.Errorf("open input %s: %w", args[0], err)
				}
				defer func() { _ = in.Close() }()
				if _, err := f.Run(in, cmd.OutOrStdout()); err != nil {
					return fmt.Errorf("filter %s: %w", args[0], err)
				}
				return nil
			}

			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return fmt.Errorf("create output dir %s: %w", outputDir, err)
			}
			var outputs []string
			for _, input := range args {
				outPath := filter.OutputName(input, outputDir)
				if err := filterOne(f, input, outPath); err != nil {
					return err
				}
				outputs = append(outputs, outPath)
			}

			if publish {
				store, err := blob.Open(ctx)
				if err != nil {
					return fmt.Errorf("open blob store: %w", err)
				}
				runID := time.Now().UTC().Format("20060102T150405Z")
				for _, outPath := range outputs {
					key := "runs/" + runID + "/" + filepath.Base(outPath)
					if _, err := blob.PublishFile(ctx, store, key, outPath); err != nil {
						return fmt.Errorf("publish %s: %w", outPath, err)
					}
					log.Info("published filtered output", "key", key)
				}
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&ancestorID, "ancestor-id", 0, "taxonomy id of the clade root to keep")
	cmd.Flags().StringVar(&reportPath, "report", "", "classifier report file")
	cmd.Flags().StringVar(&format, "format", "kraken2", "report format: kraken2 or centrifuge")
	cmd.Flags().StringVar(&outputDir, "output-dir", ".", "directory for filtered outputs, or \"-\" to stream a single input to stdout")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "skip reads missing from the report instead of failing")
	cmd.Flags().BoolVar(&publish, "publish", false, "upload filtered outputs to the blob store")
	mustMarkRequired(cmd, "ancestor-id", "report")
	return cmd
}

func filterOne(f *filter.Fastq, inputPath, outputPath string) error {
	in, err := seqio.OpenInput(inputPath)
	if err != nil {
		return fmt.Errorf("open input %s: %w", inputPath, err)
	}
	defer func() { _ = in.Close() }()

	out, err := seqio.OpenOutput(outputPath)
	if err != nil {
		return fmt.Errorf("open output %s: %w", outputPath, err)
	}
	_, err = f.Run(in, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// an aborted run must not leave a truncated output behind
		_ = os.Remove(outputPath)
		return fmt.Errorf("filter %s: %w", inputPath, err)
	}
	return nil
}

func mustMarkRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}
