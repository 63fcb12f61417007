package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for file extensions and format names that no
// codec handles.
var ErrUnknownFormat = errors.New("unknown snapshot format")

type Format uint8

const (
	FormatJSON Format = iota
	FormatYAML
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatMsgpack:
		return "msgpack"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

var extensions = map[string]Format{
	".json":    FormatJSON,
	".yaml":    FormatYAML,
	".yml":     FormatYAML,
	".msgpack": FormatMsgpack,
	".mpk":     FormatMsgpack,
}

// FormatFor picks the codec by file extension.
func FormatFor(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// IsSnapshot reports whether path has a snapshot extension.
func IsSnapshot(path string) bool {
	_, err := FormatFor(path)
	return err == nil
}

// ParseFormat accepts the names produced by Format.String.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mpk":
		return FormatMsgpack, nil
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownFormat)
}

// Decode reads one document.
func Decode(r io.Reader, f Format) (*Document, error) {
	var doc Document
	var err error
	switch f {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&doc)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(&doc)
	default:
		return nil, fmt.Errorf("decode: %w", ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f, err)
	}
	if doc.Schema > schemaVersion {
		return nil, fmt.Errorf("decode %s: schema %d is newer than %d", f, doc.Schema, schemaVersion)
	}
	return &doc, nil
}

// Encode writes one document.
func Encode(w io.Writer, f Format, doc *Document) error {
	if doc.Schema == 0 {
		doc.Schema = schemaVersion
	}
	var err error
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(doc)
		if err == nil {
			err = enc.Close()
		}
	case FormatMsgpack:
		err = msgpack.NewEncoder(w).Encode(doc)
	default:
		return fmt.Errorf("encode: %w", ErrUnknownFormat)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	return nil
}
