package filter

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxfilter/pkg/taxonomy"
)

const fastqInput = `@r1
ACGT
+
IIII
@r2
CCCC
+
IIII
@r3
GGGG
+
IIII
`

func kraken2Fixture() string {
	return strings.Join([]string{
		"C\tr1\t4\t100\tx", // E. coli, in clade
		"C\tr2\t5\t100\tx", // Archaea, out of clade
		"C\tr3\t3\t100\tx", // Escherichia, in clade
	}, "\n") + "\n"
}

func TestFastqFilterKeepsCladeInOrder(t *testing.T) {
	tree := testTree(t)
	f, err := NewFastq(tree, 2, strings.NewReader(kraken2Fixture()), FastqConfig{Format: FormatKraken2})
	require.NoError(t, err)

	var out bytes.Buffer
	stats, err := f.Run(strings.NewReader(fastqInput), &out)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Scanned)
	assert.Equal(t, 2, stats.Kept)
	assert.Equal(t, 1, stats.Dropped)
	assert.Equal(t, "@r1\nACGT\n+\nIIII\n@r3\nGGGG\n+\nIIII\n", out.String())
}

func TestFastqFilterStrictUnmappedRead(t *testing.T) {
	tree := testTree(t)
	report := "C\tr1\t4\t100\tx\nC\tr2\t5\t100\tx\n" // r3 missing
	f, err := NewFastq(tree, 2, strings.NewReader(report), FastqConfig{Format: FormatKraken2})
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = f.Run(strings.NewReader(fastqInput), &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnmappedRead))
	assert.Contains(t, err.Error(), "r3")
}

func TestFastqFilterLenientSkipsUnmapped(t *testing.T) {
	tree := testTree(t)
	report := "C\tr1\t4\t100\tx\nC\tr2\t5\t100\tx\n" // r3 missing
	f, err := NewFastq(tree, 2, strings.NewReader(report), FastqConfig{Format: FormatKraken2, Lenient: true})
	require.NoError(t, err)

	var out bytes.Buffer
	stats, err := f.Run(strings.NewReader(fastqInput), &out)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Kept)
	assert.Equal(t, 1, stats.Unmapped)
	assert.Equal(t, 2, stats.Dropped)
	assert.NotContains(t, out.String(), "@r3")
}

func TestFastqFilterUnknownAncestorFailsBeforeStreaming(t *testing.T) {
	tree := testTree(t)
	_, err := NewFastq(tree, 999, strings.NewReader(kraken2Fixture()), FastqConfig{Format: FormatKraken2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, taxonomy.ErrNotFound))
}

func TestFastqFilterCentrifugeReport(t *testing.T) {
	tree := testTree(t)
	report := strings.Join([]string{
		"readID\tseqID\ttaxID\tscore",
		"r1\tseq\t4\t100",
		"r2\tseq\t5\t100",
		"r3\tseq\t3\t100",
	}, "\n") + "\n"
	f, err := NewFastq(tree, 2, strings.NewReader(report), FastqConfig{Format: FormatCentrifuge})
	require.NoError(t, err)
	var out bytes.Buffer
	stats, err := f.Run(strings.NewReader(fastqInput), &out)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Kept)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "reads.filtered.fastq.gz"), OutputName("/data/reads.fastq.gz", "out"))
	assert.Equal(t, filepath.Join(".", "sample.filtered.fq"), OutputName("sample.fq", "."))
	assert.Equal(t, filepath.Join("out", "bare.filtered"), OutputName("bare", "out"))
}
