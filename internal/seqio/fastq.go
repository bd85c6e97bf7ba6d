package seqio

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// FastqRecord is one four-line FASTQ entry, kept verbatim so accepted
// records can be re-emitted byte-for-byte.
type FastqRecord struct {
	Header string // '@' line, without the '@'
	Seq    string
	Plus   string // '+' line, without the '+'
	Qual   string
}

// ID returns the read identifier: the first whitespace-delimited token of
// the header.
func (r FastqRecord) ID() string {
	if i := strings.IndexAny(r.Header, " \t"); i >= 0 {
		return r.Header[:i]
	}
	return r.Header
}

// ScanFastq streams records from r, calling onRecord for each. A truncated
// trailing record is an error, never silently dropped.
func ScanFastq(r io.Reader, onRecord func(FastqRecord) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)

	line := 0
	var rec FastqRecord
	for sc.Scan() {
		text := sc.Text()
		switch line % 4 {
		case 0:
			if !strings.HasPrefix(text, "@") {
				return fmt.Errorf("fastq record %d: header %q does not start with '@'", line/4+1, text)
			}
			rec.Header = text[1:]
		case 1:
			rec.Seq = text
		case 2:
			if !strings.HasPrefix(text, "+") {
				return fmt.Errorf("fastq record %d: separator %q does not start with '+'", line/4+1, text)
			}
			rec.Plus = text[1:]
		case 3:
			rec.Qual = text
			if len(rec.Qual) != len(rec.Seq) {
				return fmt.Errorf("fastq record %d (%s): quality length %d != sequence length %d",
					line/4+1, rec.ID(), len(rec.Qual), len(rec.Seq))
			}
			if err := onRecord(rec); err != nil {
				return err
			}
			rec = FastqRecord{}
		}
		line++
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scan fastq: %w", err)
	}
	if line%4 != 0 {
		return fmt.Errorf("fastq: truncated record at end of input")
	}
	return nil
}

// WriteFastq re-emits one record unchanged.
func WriteFastq(w io.Writer, rec FastqRecord) error {
	_, err := fmt.Fprintf(w, "@%s\n%s\n+%s\n%s\n", rec.Header, rec.Seq, rec.Plus, rec.Qual)
	return err
}
