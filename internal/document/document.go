// SPDX-License-Identifier: MPL-2.0

// Package document reads registry metadata files and decodes them into the
// untyped shape the validation engine consumes: objects become
// map[string]any, arrays []any, and numbers keep enough precision to be
// checked as integers.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/tokenregistry/metacheck/pkg/cueutil"
)

// MaxSize is the largest document the loader accepts.
const MaxSize = cueutil.DefaultMaxFileSize

// ErrUnsupportedFormat is the sentinel error wrapped by UnsupportedFormatError.
var ErrUnsupportedFormat = errors.New("unsupported document format")

type (
	// Format identifies a document encoding.
	Format string

	// UnsupportedFormatError is returned for files whose extension maps to no decoder.
	// It wraps ErrUnsupportedFormat for errors.Is() compatibility.
	UnsupportedFormatError struct {
		Path string
	}

	// DecodeError is returned when a document's bytes cannot be decoded.
	DecodeError struct {
		Path   string
		Format Format
		Err    error
	}
)

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
	CUE  Format = "cue"
)

// Error implements the error interface.
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported document format %q (supported: .json, .yaml, .yml, .toml, .cue)", e.Path, filepath.Ext(e.Path))
}

// Unwrap returns ErrUnsupportedFormat so callers can use errors.Is for programmatic detection.
func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %v", e.Path, e.Format, e.Err)
}

// Unwrap returns the decoder error.
func (e *DecodeError) Unwrap() error { return e.Err }

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, true
	case ".yaml", ".yml":
		return YAML, true
	case ".toml":
		return TOML, true
	case ".cue":
		return CUE, true
	default:
		return "", false
	}
}

// Load reads and decodes the file at path.
func Load(path string) (any, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, &UnsupportedFormatError{Path: path}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, format, path)
}

// Decode decodes data in the given format. name is used in error messages.
func Decode(data []byte, format Format, name string) (any, error) {
	if err := cueutil.CheckFileSize(data, MaxSize, name); err != nil {
		return nil, err
	}

	switch format {
	case JSON:
		return decodeJSON(data, name)
	case YAML:
		return decodeYAML(data, name)
	case TOML:
		var out map[string]any
		if err := toml.Unmarshal(data, &out); err != nil {
			return nil, &DecodeError{Path: name, Format: format, Err: err}
		}
		return normalize(out), nil
	case CUE:
		out, err := cueutil.Evaluate(data, cueutil.WithFilename(name), cueutil.WithMaxFileSize(MaxSize))
		if err != nil {
			return nil, &DecodeError{Path: name, Format: format, Err: err}
		}
		return normalize(out), nil
	default:
		return nil, &UnsupportedFormatError{Path: name}
	}
}

// decodeJSON keeps numbers as json.Number so that large integers are not
// rounded before range checks, and rejects trailing data.
func decodeJSON(data []byte, name string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, &DecodeError{Path: name, Format: JSON, Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &DecodeError{Path: name, Format: JSON, Err: errors.New("unexpected data after top-level value")}
	}
	return out, nil
}

func decodeYAML(data []byte, name string) (any, error) {
	var out any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, &DecodeError{Path: name, Format: YAML, Err: err}
	}
	return normalize(out), nil
}

// normalize converts decoder-specific container types to map[string]any and
// []any. YAML mappings with non-string keys get their keys formatted with %v,
// matching how a JSON document would spell them.
func normalize(v any) any {
	switch n := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, e := range n {
			out[k] = normalize(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(n))
		for k, e := range n {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = normalize(e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}
