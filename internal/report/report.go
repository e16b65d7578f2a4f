// SPDX-License-Identifier: MPL-2.0

package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/tokenregistry/metacheck/internal/checker"
	"github.com/tokenregistry/metacheck/pkg/metadata"
)

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"

	SchemeAuto  ColorScheme = "auto"
	SchemeDark  ColorScheme = "dark"
	SchemeLight ColorScheme = "light"

	// NoChangesMessage is printed in text mode when the worklist is empty.
	NoChangesMessage = "No metadata changes."
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid report format")

type (
	// Format selects a renderer.
	Format string

	// ColorScheme selects the palette variant for styled output.
	ColorScheme string

	// Options configures Write.
	Options struct {
		Format      Format
		ColorScheme ColorScheme
	}

	// InvalidFormatError is returned for unknown Format values.
	// It wraps ErrInvalidFormat for errors.Is() compatibility.
	InvalidFormatError struct {
		Value Format
	}
)

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid report format %q (valid: text, json, markdown)", e.Value)
}

// Unwrap returns ErrInvalidFormat so callers can use errors.Is for programmatic detection.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// Write renders results to w in opts.Format. An empty Format means text.
func Write(w io.Writer, results []checker.FileResult, opts Options) error {
	switch opts.Format {
	case FormatText, "":
		return writeText(w, results, opts.ColorScheme)
	case FormatJSON:
		return writeJSON(w, results)
	case FormatMarkdown:
		return writeMarkdown(w, results, opts.ColorScheme)
	default:
		return &InvalidFormatError{Value: opts.Format}
	}
}

// Header returns the line introducing a file's results, naming the rule set,
// the document type, the document's name and its token id or file name.
func Header(r checker.FileResult) string {
	return fmt.Sprintf("Running %s checks for %s metadata '%s' '%s'",
		r.Result.RuleSet.Name, r.Result.RuleSet.Type, documentName(r), documentIdent(r))
}

func documentName(r checker.FileResult) string {
	name, _ := metadata.LookupString(r.Document, "name")
	return name
}

func documentIdent(r checker.FileResult) string {
	if id, ok := metadata.LookupString(r.Document, "tokenId"); ok && id != "" {
		return id
	}
	return r.Entry.Path
}

// Summary counts results.
type Summary struct {
	Checked int `json:"checked"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
}

// Summarize counts passing and failing files.
func Summarize(results []checker.FileResult) Summary {
	s := Summary{Checked: len(results)}
	for _, r := range results {
		if r.Success() {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}
