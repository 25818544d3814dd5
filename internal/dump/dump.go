// Package dump reads and writes user records as TOML documents, optionally
// wrapped in an xz stream.
package dump

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ulikunitz/xz"

	"github.com/qntx/userdb/internal/store"
)

// Format represents a dump file encoding.
type Format int

const (
	TOML Format = iota
	TOMLXz
)

// Detect determines the format from a file name.
func Detect(name string) Format {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".xz") || strings.HasSuffix(lower, ".txz") {
		return TOMLXz
	}
	return TOML
}

type document struct {
	Users []store.User `toml:"user"`
}

// Export writes users to w as one [[user]] table each.
func Export(w io.Writer, users []store.User) error {
	if err := toml.NewEncoder(w).Encode(document{Users: users}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Import reads users written by Export.
func Import(r io.Reader) ([]store.User, error) {
	var doc document
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc.Users, nil
}

// Create creates the file at path for writing, compressing when the name
// ends in .xz. Close flushes the compressor before the file.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if Detect(path) != TOMLXz {
		return f, nil
	}

	zw, err := xz.NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("compress: %w", err)
	}
	return &xzWriteCloser{Writer: zw, f: f}, nil
}

// Open opens the file at path for reading, decompressing when the name ends
// in .xz.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if Detect(path) != TOMLXz {
		return f, nil
	}

	zr, err := xz.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decompress: %w", err)
	}
	return &xzReadCloser{Reader: zr, f: f}, nil
}

type xzWriteCloser struct {
	*xz.Writer
	f *os.File
}

func (w *xzWriteCloser) Close() error {
	return errors.Join(w.Writer.Close(), w.f.Close())
}

type xzReadCloser struct {
	*xz.Reader
	f *os.File
}

func (r *xzReadCloser) Close() error {
	return r.f.Close()
}
