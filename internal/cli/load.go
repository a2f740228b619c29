package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/stmtc/compiler"
	"github.com/syssam/stmtc/dialect/sql/schema"
)

// DecodeDescriptors reads one descriptor per YAML document. Unknown keys are
// rejected.
func DecodeDescriptors(r io.Reader) ([]*compiler.Descriptor, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var ds []*compiler.Descriptor
	for {
		d := &compiler.Descriptor{}
		err := dec.Decode(d)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding descriptor %d: %w", len(ds)+1, err)
		}
		ds = append(ds, d)
	}
	if len(ds) == 0 {
		return nil, errors.New("no descriptors")
	}
	return ds, nil
}

// LoadDescriptors reads the descriptors of a YAML file.
func LoadDescriptors(path string) ([]*compiler.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ds, err := DecodeDescriptors(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// SnapshotFormat infers the snapshot format from a file name.
func SnapshotFormat(path string) schema.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mp", ".bin":
		return schema.FormatMsgpack
	default:
		return schema.FormatYAML
	}
}

// LoadIndexes reads an index snapshot.
func LoadIndexes(path string) (schema.Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	s, err := schema.ReadSnapshot(f, SnapshotFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for table, indexes := range s {
		if r := schema.ValidateIndexes(table, indexes); r.HasErrors() {
			return nil, fmt.Errorf("%s: %w", path, r.Err())
		}
	}
	return s, nil
}

// NewLogger returns a text logger writing to w at the named level. Each
// verbose step lowers the level by one (warn, info, debug).
func NewLogger(w io.Writer, level string, verbose int) (*slog.Logger, error) {
	var l slog.Level
	if level != "" {
		if err := l.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q", level)
		}
	}
	l -= slog.Level(4 * verbose)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}
