package seqio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// FastaRecord is one FASTA entry.
type FastaRecord struct {
	ID   string // first whitespace-delimited token of the header
	Desc string // remainder of the header, may be empty
	Seq  []byte // concatenated sequence lines, no newlines
}

// FastaWrap is the line width used when writing sequences, matching the
// NCBI RefSeq convention.
const FastaWrap = 80

// ScanFasta streams records from r, calling onRecord for each. Scanning
// stops on the first callback error, which is returned unchanged.
func ScanFasta(r io.Reader, onRecord func(FastaRecord) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)

	var header string
	var seq bytes.Buffer
	emit := func() error {
		if header == "" {
			return nil
		}
		rec := FastaRecord{Seq: append([]byte(nil), seq.Bytes()...)}
		rec.ID, rec.Desc = splitHeader(header)
		seq.Reset()
		header = ""
		return onRecord(rec)
	}

	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, ">") {
			if err := emit(); err != nil {
				return err
			}
			header = strings.TrimSpace(line[1:])
			continue
		}
		seq.WriteString(strings.TrimSpace(line))
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scan fasta: %w", err)
	}
	return emit()
}

func splitHeader(header string) (id, desc string) {
	if i := strings.IndexAny(header, " \t"); i >= 0 {
		return header[:i], strings.TrimSpace(header[i+1:])
	}
	return header, ""
}

// WriteFasta writes one record with the sequence wrapped at FastaWrap
// columns.
func WriteFasta(w io.Writer, rec FastaRecord) error {
	header := rec.ID
	if rec.Desc != "" {
		header += " " + rec.Desc
	}
	if _, err := fmt.Fprintf(w, ">%s\n", header); err != nil {
		return err
	}
	for start := 0; start < len(rec.Seq); start += FastaWrap {
		end := start + FastaWrap
		if end > len(rec.Seq) {
			end = len(rec.Seq)
		}
		if _, err := w.Write(rec.Seq[start:end]); err != nil {
			return err
		}
		if _, err := w.Write([]byte{'\n'}); err != nil {
			return err
		}
	}
	return nil
}
