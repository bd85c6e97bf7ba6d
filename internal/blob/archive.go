package blob

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FetchTaxdump downloads a taxdump archive (tar.gz holding nodes.dmp and
// names.dmp, the layout NCBI publishes) from the store and unpacks the dump
// files into destDir. Archive members with path separators are rejected.
func FetchTaxdump(ctx context.Context, store Store, key, destDir string) error {
	_, rc, err := store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("fetch taxdump %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()

	gr, err := gzip.NewReader(rc)
	if err != nil {
		return fmt.Errorf("taxdump %s: %w", key, err)
	}
	defer func() { _ = gr.Close() }()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	tr := tar.NewReader(gr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("taxdump %s: %w", key, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		name := hdr.Name
		if strings.Contains(name, "/") || strings.Contains(name, "..") {
			return fmt.Errorf("taxdump %s: suspicious member %q", key, name)
		}
		if !strings.HasSuffix(name, ".dmp") {
			continue
		}
		dest := filepath.Join(destDir, name)
		f, err := os.Create(dest)
		if err != nil {
			return err
		}
		if _, err := io.Copy(f, tr); err != nil { //nolint:gosec // trusted archive source
			_ = f.Close()
			return fmt.Errorf("unpack %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
}

// PublishFile uploads a local file under the given key, used to deposit
// filtered outputs alongside their run.
func PublishFile(ctx context.Context, store Store, key, path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer func() { _ = f.Close() }()
	return store.Put(ctx, key, f, PutOptions{ContentType: "application/octet-stream"})
}
