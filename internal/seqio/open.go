// Package seqio streams FASTA and FASTQ records with transparent gzip and
// stdin/stdout handling. Readers hold O(1) state beyond the current record.
package seqio

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"
)

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

type multiWriteCloser struct {
	io.Writer
	closers []io.Closer
}

func (m *multiWriteCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// OpenInput opens path for reading, "-" meaning stdin. Gzip input is
// detected by magic number (1F 8B) or by .gz suffix.
func OpenInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		br := bufio.NewReader(os.Stdin)
		if magic, _ := br.Peek(2); len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
			gr, err := gzip.NewReader(br)
			if err != nil {
				return nil, err
			}
			return &multiReadCloser{Reader: gr, closers: []io.Closer{gr}}, nil
		}
		return io.NopCloser(br), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var sig [2]byte
	n, _ := fh.Read(sig[:])
	if _, err := fh.Seek(0, io.SeekStart); err != nil {
		_ = fh.Close()
		return nil, err
	}
	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	}
	return fh, nil
}

// OpenOutput opens path for writing, "" or "-" meaning stdout. Output ending
// in .gz is gzip-compressed.
func OpenOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		bw := bufio.NewWriter(os.Stdout)
		return &multiWriteCloser{Writer: bw, closers: []io.Closer{flushCloser{bw}}}, nil
	}
	fh, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		gw := gzip.NewWriter(fh)
		return &multiWriteCloser{Writer: gw, closers: []io.Closer{gw, fh}}, nil
	}
	bw := bufio.NewWriter(fh)
	return &multiWriteCloser{Writer: bw, closers: []io.Closer{flushCloser{bw}, fh}}, nil
}

type flushCloser struct{ bw *bufio.Writer }

func (f flushCloser) Close() error { return f.bw.Flush() }
