package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taxfilter/internal/blob"
	"taxfilter/internal/infra/persistence/postgres"
	"taxfilter/internal/infra/persistence/sqlite"
	"taxfilter/pkg/taxonomy"
)

func newLoadCmd(root *rootOptions) *cobra.Command {
	var (
		postgresDSN string
		taxPrefix   string
		fromBlob    string
	)
	cmd := &cobra.Command{
		Use:   "load [taxdump-dir]",
		Short: "Parse an NCBI taxdump and persist the indexed taxonomy",
		Long: `Parse nodes.dmp and names.dmp from a taxdump directory, materialize
ancestry paths, and persist the result. Persistence is all-or-nothing: a
load that fails leaves any previous taxonomy untouched.

With --from-blob the taxdump archive (tar.gz) is fetched from the
configured blob store instead of a local directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := newLogger(root.verbose)

			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if fromBlob != "" {
				store, err := blob.Open(ctx)
				if err != nil {
					return fmt.Errorf("open blob store: %w", err)
				}
				tmp, err := os.MkdirTemp("", "taxdump-*")
				if err != nil {
					return err
				}
				defer func() { _ = os.RemoveAll(tmp) }()
				log.Info("fetching taxdump archive", "key", fromBlob, "driver", store.Driver())
				if err := blob.FetchTaxdump(ctx, store, fromBlob, tmp); err != nil {
					return fmt.Errorf("fetch taxdump %s: %w", fromBlob, err)
				}
				dir = tmp
			}

			log.Info("parsing taxdump", "dir", dir, "prefix", taxPrefix)
			tree, err := taxonomy.LoadNCBIDumpDir(dir, taxPrefix)
			if err != nil {
				return fmt.Errorf("load taxdump: %w", err)
			}
			log.Info("taxonomy indexed", "nodes", tree.Len())

			if postgresDSN != "" {
				store, err := postgres.NewStore(ctx, postgresDSN)
				if err != nil {
					return fmt.Errorf("open postgres store: %w", err)
				}
				defer func() { _ = store.Close() }()
				if err := store.Save(ctx, tree); err != nil {
					return fmt.Errorf("save taxonomy to postgres: %w", err)
				}
				log.Info("taxonomy saved", "backend", "postgres")
				fmt.Fprintf(cmd.OutOrStdout(), "loaded %d taxa\n", tree.Len())
				return nil
			}

			store, err := sqlite.NewStore(root.dbPath)
			if err != nil {
				return fmt.Errorf("open taxonomy database: %w", err)
			}
			defer func() { _ = store.Close() }()
			if err := store.Save(ctx, tree); err != nil {
				return fmt.Errorf("save taxonomy to %s: %w", store.Path(), err)
			}
			log.Info("taxonomy saved", "backend", "sqlite", "path", store.Path())
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d taxa\n", tree.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&postgresDSN, "postgres", "", "persist to PostgreSQL at this DSN instead of sqlite")
	cmd.Flags().StringVar(&taxPrefix, "tax-prefix", "", "filename prefix for the dump files (e.g. \"new_\" for new_nodes.dmp)")
	cmd.Flags().StringVar(&fromBlob, "from-blob", "", "fetch the taxdump tar.gz from the blob store under this key")
	return cmd
}
