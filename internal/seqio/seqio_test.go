package seqio

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanFasta(t *testing.T) {
	in := ">NM_1.1 some protein [Escherichia coli]\nACGT\nACGT\n>XP_2.1\nTTTT\n"
	var recs []FastaRecord
	err := ScanFasta(strings.NewReader(in), func(r FastaRecord) error {
		recs = append(recs, r)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "NM_1.1", recs[0].ID)
	assert.Equal(t, "some protein [Escherichia coli]", recs[0].Desc)
	assert.Equal(t, "ACGTACGT", string(recs[0].Seq))
	assert.Equal(t, "XP_2.1", recs[1].ID)
	assert.Empty(t, recs[1].Desc)
}

func TestWriteFastaWraps(t *testing.T) {
	seq := strings.Repeat("A", FastaWrap+10)
	var buf bytes.Buffer
	require.NoError(t, WriteFasta(&buf, FastaRecord{ID: "x", Seq: []byte(seq)}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, ">x", lines[0])
	assert.Len(t, lines[1], FastaWrap)
	assert.Len(t, lines[2], 10)
}

func TestScanFastq(t *testing.T) {
	in := "@r1 extra\nACGT\n+\nIIII\n@r2\nTT\n+r2\nII\n"
	var ids []string
	err := ScanFastq(strings.NewReader(in), func(r FastqRecord) error {
		ids = append(ids, r.ID())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, ids)
}

func TestScanFastqRejectsTruncated(t *testing.T) {
	in := "@r1\nACGT\n+\n"
	err := ScanFastq(strings.NewReader(in), func(FastqRecord) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}

func TestScanFastqRejectsQualityMismatch(t *testing.T) {
	in := "@r1\nACGT\n+\nII\n"
	err := ScanFastq(strings.NewReader(in), func(FastqRecord) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quality length")
}

func TestWriteFastqVerbatim(t *testing.T) {
	rec := FastqRecord{Header: "r1 extra", Seq: "ACGT", Plus: "r1", Qual: "IIII"}
	var buf bytes.Buffer
	require.NoError(t, WriteFastq(&buf, rec))
	assert.Equal(t, "@r1 extra\nACGT\n+r1\nIIII\n", buf.String())
}

func TestOpenInputGzipByMagic(t *testing.T) {
	dir := t.TempDir()
	// deliberately no .gz suffix: detection must work by magic bytes
	path := filepath.Join(dir, "reads.fastq")
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte("@r1\nAC\n+\nII\n"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	rc, err := OpenInput(path)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
	var ids []string
	require.NoError(t, ScanFastq(rc, func(r FastqRecord) error {
		ids = append(ids, r.ID())
		return nil
	}))
	assert.Equal(t, []string{"r1"}, ids)
}

func TestOpenOutputGzipRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.fasta.gz")
	wc, err := OpenOutput(path)
	require.NoError(t, err)
	require.NoError(t, WriteFasta(wc, FastaRecord{ID: "x", Seq: []byte("ACGT")}))
	require.NoError(t, wc.Close())

	rc, err := OpenInput(path)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
	var recs []FastaRecord
	require.NoError(t, ScanFasta(rc, func(r FastaRecord) error {
		recs = append(recs, r)
		return nil
	}))
	require.Len(t, recs, 1)
	assert.Equal(t, "ACGT", string(recs[0].Seq))
}
