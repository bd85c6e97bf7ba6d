// Command taxfilter loads NCBI taxonomy dumps into a queryable store and
// filters sequence files by taxonomic clade membership.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "taxfilter: %v\n", err)
		os.Exit(1)
	}
}
