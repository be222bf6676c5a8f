package view

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/jex/internal/value"
)

// Format selects the encoding of a saved document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks the format from the file extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Save writes the values of v to path. The document is written to a
// temporary file in the same directory and renamed over path, so path is
// either fully replaced or left as it was.
func Save(v *JSONView, path string) error {
	if v == nil {
		return &IOError{Op: "save", Path: path, Err: errors.New("frame has no values")}
	}
	if err := writeAtomic(path, v.Values(), FormatFor(path)); err != nil {
		return &IOError{Op: "save", Path: path, Err: err}
	}
	return nil
}

func writeAtomic(path string, values []value.Value, format Format) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = encode(tmp, values, format); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}
	if err = tmp.Chmod(mode); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func encode(w io.Writer, values []value.Value, format Format) error {
	if format == FormatYAML {
		return value.WriteYAML(w, values)
	}
	return value.WriteJSON(w, values)
}
