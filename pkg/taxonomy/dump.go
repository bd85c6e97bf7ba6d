package taxonomy

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// NCBI taxdump files delimit fields with "\t|\t" and terminate lines with
// a trailing "\t|".
const dumpDelim = "\t|\t"

type dumpNode struct {
	id       int64
	parentID int64
	rank     string
}

// LoadNCBIDump reads nodes.dmp and names.dmp content, builds the tree, and
// indexes it before returning. Only rows whose name class is "scientific
// name" contribute names; every node must end up with one. The NCBI root
// points at itself, which is normalized to "no parent" here.
func LoadNCBIDump(nodes, names io.Reader) (*Tree, error) {
	raw, err := readNodes(nodes)
	if err != nil {
		return nil, err
	}
	nameByID, err := readNames(names)
	if err != nil {
		return nil, err
	}

	tree := NewTree()
	for _, rec := range raw {
		name, ok := nameByID[rec.id]
		if !ok {
			return nil, fmt.Errorf("names.dmp: no scientific name for taxid %d", rec.id)
		}
		if err := tree.Insert(rec.id, name, rec.rank, rec.parentID); err != nil {
			return nil, err
		}
	}
	if err := tree.Index(); err != nil {
		return nil, err
	}
	return tree, nil
}

// LoadNCBIDumpDir loads <prefix>nodes.dmp and <prefix>names.dmp from a
// directory, the layout produced by unpacking an NCBI taxdump archive.
func LoadNCBIDumpDir(dir, prefix string) (*Tree, error) {
	nodesPath := filepath.Join(dir, prefix+"nodes.dmp")
	namesPath := filepath.Join(dir, prefix+"names.dmp")
	nodesFile, err := os.Open(nodesPath)
	if err != nil {
		return nil, fmt.Errorf("open nodes dump: %w", err)
	}
	defer func() { _ = nodesFile.Close() }()
	namesFile, err := os.Open(namesPath)
	if err != nil {
		return nil, fmt.Errorf("open names dump: %w", err)
	}
	defer func() { _ = namesFile.Close() }()
	return LoadNCBIDump(nodesFile, namesFile)
}

func readNodes(r io.Reader) ([]dumpNode, error) {
	var out []dumpNode
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, dumpDelim)
		if len(fields) < 3 {
			return nil, fmt.Errorf("nodes.dmp: malformed line %q", line)
		}
		id, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("nodes.dmp: taxid in line %q: %w", line, err)
		}
		parentID, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("nodes.dmp: parent taxid in line %q: %w", line, err)
		}
		if parentID == id {
			// the root references itself in the dump
			parentID = 0
		}
		out = append(out, dumpNode{id: id, parentID: parentID, rank: fields[2]})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read nodes.dmp: %w", err)
	}
	return out, nil
}

func readNames(r io.Reader) (map[int64]string, error) {
	out := make(map[int64]string)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, dumpDelim)
		if len(fields) < 4 {
			return nil, fmt.Errorf("names.dmp: malformed line %q", line)
		}
		// the trailing field still carries the line terminator "\t|"
		if !strings.HasPrefix(fields[3], "scientific name") {
			continue
		}
		id, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("names.dmp: taxid in line %q: %w", line, err)
		}
		out[id] = fields[1]
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read names.dmp: %w", err)
	}
	return out, nil
}
