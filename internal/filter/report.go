package filter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"taxfilter/pkg/taxonomy"
)

// ReportFormat selects the classification-report dialect. The format is an
// explicit flag, never auto-detected.
type ReportFormat int

const (
	FormatKraken2 ReportFormat = iota
	FormatCentrifuge
)

func (f ReportFormat) String() string {
	switch f {
	case FormatKraken2:
		return "kraken2"
	case FormatCentrifuge:
		return "centrifuge"
	default:
		return fmt.Sprintf("ReportFormat(%d)", int(f))
	}
}

// ParseReportFormat recognizes the CLI spellings of the report formats.
func ParseReportFormat(s string) (ReportFormat, error) {
	switch strings.ToLower(s) {
	case "kraken2":
		return FormatKraken2, nil
	case "centrifuge":
		return FormatCentrifuge, nil
	default:
		return 0, fmt.Errorf("unknown report format %q (want kraken2 or centrifuge)", s)
	}
}

// loadReport reads the whole classification report into a readID→verdict
// map, applying the descendant test as it goes.
//
// Centrifuge reports can assign several taxa to one read; the best-scoring
// assignment wins, with descendant assignments winning score ties.
//
// Kraken2 emits one row per mate for paired reads, so a read id is accepted
// only if no row ever marks it unclassified or out of clade.
func loadReport(r io.Reader, format ReportFormat, df *taxonomy.DescendantFilter) (map[string]bool, error) {
	switch format {
	case FormatCentrifuge:
		return loadCentrifugeReport(r, df)
	case FormatKraken2:
		return loadKraken2Report(r, df)
	default:
		return nil, fmt.Errorf("unknown report format %v", format)
	}
}

func loadCentrifugeReport(r io.Reader, df *taxonomy.DescendantFilter) (map[string]bool, error) {
	scores := make(map[string]int64)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "readID") {
			// column header
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 4 {
			return nil, fmt.Errorf("centrifuge report line %d: expected at least 4 columns, got %d", lineNo, len(fields))
		}
		id := fields[0]
		taxid, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("centrifuge report line %d: taxID %q: %w", lineNo, fields[2], err)
		}
		score, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("centrifuge report line %d: score %q: %w", lineNo, fields[3], err)
		}
		current := scores[id]
		if score >= current {
			if df.ContainsID(taxid) {
				scores[id] = score
			} else if score > current {
				// a better-scoring out-of-clade hit displaces the verdict
				scores[id] = 0
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read centrifuge report: %w", err)
	}
	verdicts := make(map[string]bool, len(scores))
	for id, score := range scores {
		verdicts[id] = score > 0
	}
	return verdicts, nil
}

func loadKraken2Report(r io.Reader, df *taxonomy.DescendantFilter) (map[string]bool, error) {
	verdicts := make(map[string]bool)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, fmt.Errorf("kraken2 report line %d: expected at least 3 columns, got %d", lineNo, len(fields))
		}
		classified, id := fields[0], fields[1]
		if classified == "U" {
			verdicts[id] = false
			continue
		}
		if accepted, seen := verdicts[id]; seen && !accepted {
			// the other mate already rejected this read
			continue
		}
		taxid, err := kraken2Taxid(fields[2])
		if err != nil {
			return nil, fmt.Errorf("kraken2 report line %d: %w", lineNo, err)
		}
		verdicts[id] = df.ContainsID(taxid)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read kraken2 report: %w", err)
	}
	return verdicts, nil
}

// kraken2Taxid parses the third kraken2 column, which is either a bare
// numeric taxid or the `Taxon name (taxid 123)` form.
func kraken2Taxid(field string) (int64, error) {
	if i := strings.LastIndex(field, "(taxid"); i >= 0 {
		rest := strings.TrimSpace(field[i+len("(taxid"):])
		rest = strings.TrimSuffix(rest, ")")
		taxid, err := strconv.ParseInt(strings.TrimSpace(rest), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("taxid in %q: %w", field, err)
		}
		return taxid, nil
	}
	taxid, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("taxid %q: %w", field, err)
	}
	return taxid, nil
}
