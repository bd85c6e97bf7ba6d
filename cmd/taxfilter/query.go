package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"taxfilter/pkg/taxonomy"
)

func newGetIDCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get-id <name>",
		Short: "Print the taxonomy id for a scientific name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := openTree(cmd.Context(), root)
			if err != nil {
				return err
			}
			id, err := tree.IDByName(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func newGetNameCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get-name <id>",
		Short: "Print the scientific name for a taxonomy id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parse taxonomy id %q: %w", args[0], err)
			}
			tree, err := openTree(cmd.Context(), root)
			if err != nil {
				return err
			}
			name, err := tree.NameByID(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
}

func newGetLineageCmd(root *rootOptions) *cobra.Command {
	var (
		showNames bool
		delimiter string
	)
	cmd := &cobra.Command{
		Use:   "get-lineage <name>",
		Short: "Print the lineage of a taxon, from the taxon up to the root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := openTree(cmd.Context(), root)
			if err != nil {
				return err
			}
			lineage, err := tree.LineageByName(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatLineage(lineage, delimiter, showNames))
			return nil
		},
	}
	cmd.Flags().BoolVar(&showNames, "show-names", false, "render each taxon as \"Name (id)\" instead of the bare id")
	cmd.Flags().StringVar(&delimiter, "delimiter", ";", "separator between lineage entries")
	return cmd
}

// formatLineage renders a taxon-to-root lineage on a single line.
func formatLineage(lineage []*taxonomy.Node, delimiter string, showNames bool) string {
	parts := make([]string, 0, len(lineage))
	for _, n := range lineage {
		if showNames {
			parts = append(parts, fmt.Sprintf("%s (%d)", n.Name, n.ID))
		} else {
			parts = append(parts, strconv.FormatInt(n.ID, 10))
		}
	}
	return strings.Join(parts, delimiter)
}

func newCommonAncestorCmd(root *rootOptions) *cobra.Command {
	var onlyCanonical bool
	cmd := &cobra.Command{
		Use:   "common-ancestor-distance <name1> <name2>",
		Short: "Print the tree distance between two taxa and their lowest common ancestor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := openTree(cmd.Context(), root)
			if err != nil {
				return err
			}
			a, err := tree.IDByName(args[0])
			if err != nil {
				return err
			}
			b, err := tree.IDByName(args[1])
			if err != nil {
				return err
			}
			lca, err := tree.CommonAncestor(a, b)
			if err != nil {
				return err
			}
			var dist int
			if onlyCanonical {
				dist, err = tree.DistanceCanonical(a, b)
			} else {
				dist, err = tree.Distance(a, b)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", dist, lca.Name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&onlyCanonical, "only-canonical", false, "count only canonical ranks when measuring distance")
	return cmd
}
