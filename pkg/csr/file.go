package csr

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile encodes g into path. The graph is written to a temporary file in
// the same directory and renamed over path, so a failure never leaves a
// partial graph file behind.
func WriteFile(path string, g *Graph) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: create directory: %w", ErrIOFailure, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", ErrIOFailure, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = Encode(tmp, g); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %w", ErrIOFailure, tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrIOFailure, tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("%w: chmod %s: %w", ErrIOFailure, tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: rename to %s: %w", ErrIOFailure, path, err)
	}
	return nil
}

// ReadFile decodes the graph stored at path.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIOFailure, path, err)
	}
	defer f.Close()

	g, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return g, nil
}

// ReadFileHeader returns the counts stored at the start of path.
func ReadFileHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, fmt.Errorf("%w: open %s: %w", ErrIOFailure, path, err)
	}
	defer f.Close()

	h, err := ReadHeader(f)
	if err != nil {
		return Header{}, fmt.Errorf("read header of %s: %w", path, err)
	}
	return h, nil
}
