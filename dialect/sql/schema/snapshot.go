package schema

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format is a snapshot encoding.
type Format string

// Snapshot formats.
const (
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// WriteSnapshot encodes the metadata to w. Snapshots let callers compile
// offline against metadata captured from a live database.
func WriteSnapshot(w io.Writer, s Static, format Format) error {
	switch format {
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("schema: encode yaml snapshot: %w", err)
		}
		return enc.Close()
	case FormatMsgpack:
		if err := msgpack.NewEncoder(w).Encode(s); err != nil {
			return fmt.Errorf("schema: encode msgpack snapshot: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("schema: unknown snapshot format %q", format)
	}
}

// ReadSnapshot decodes metadata written by WriteSnapshot.
func ReadSnapshot(r io.Reader, format Format) (Static, error) {
	s := make(Static)
	switch format {
	case FormatYAML, "":
		if err := yaml.NewDecoder(r).Decode(&s); err != nil && err != io.EOF {
			return nil, fmt.Errorf("schema: decode yaml snapshot: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
			return nil, fmt.Errorf("schema: decode msgpack snapshot: %w", err)
		}
	default:
		return nil, fmt.Errorf("schema: unknown snapshot format %q", format)
	}
	return s, nil
}
