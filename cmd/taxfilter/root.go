package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"taxfilter/internal/infra/persistence/sqlite"
	"taxfilter/internal/observability"
	"taxfilter/pkg/taxonomy"
)

// slogLogger adapts log/slog to the taxonomy.Logger interface so the
// library packages stay free of a concrete logging dependency.
type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func newLogger(verbose bool) taxonomy.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slogLogger{l: slog.New(h)}
}

type rootOptions struct {
	dbPath        string
	verbose       bool
	metricsListen string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "taxfilter",
		Short:         "Query the NCBI taxonomy and filter sequence files by clade",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "taxonomy.db", "path to the sqlite taxonomy database")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.metricsListen, "metrics-listen", "",
		"serve Prometheus metrics on this address for the duration of the run")

	cmd.AddCommand(
		newLoadCmd(opts),
		newGetIDCmd(opts),
		newGetNameCmd(opts),
		newGetLineageCmd(opts),
		newCommonAncestorCmd(opts),
		newFilterFastaCmd(opts),
		newFilterFastqCmd(opts),
	)
	return cmd
}

// newRecorder selects the metrics backend for a filter run: a
// fresh-named expvar recorder by default, or a Prometheus registry
// served over HTTP while the run lasts when --metrics-listen is set.
// The returned stop function tears the listener down.
func newRecorder(opts *rootOptions) (observability.Recorder, func(), error) {
	if opts.metricsListen == "" {
		return observability.NewExpvarRecorder(""), func() {}, nil
	}
	reg := prometheus.NewRegistry()
	rec, err := observability.NewPromRecorder(reg)
	if err != nil {
		return nil, nil, fmt.Errorf("register metrics: %w", err)
	}
	ln, err := net.Listen("tcp", opts.metricsListen)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics listener %s: %w", opts.metricsListen, err)
	}
	srv := &http.Server{Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
	go func() { _ = srv.Serve(ln) }()
	return rec, func() { _ = srv.Close() }, nil
}

// openTree loads the persisted taxonomy for query and filter commands.
func openTree(ctx context.Context, opts *rootOptions) (*taxonomy.Tree, error) {
	store, err := sqlite.NewStore(opts.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open taxonomy database: %w", err)
	}
	defer func() { _ = store.Close() }()
	tree, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy from %s: %w", store.Path(), err)
	}
	return tree, nil
}
