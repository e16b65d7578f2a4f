// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var (
	// ErrSVGScriptTag is returned by ScanSVG when the document opens a script element.
	ErrSVGScriptTag = errors.New("svg contains a script element")
	// ErrSVGEncoding is returned by ScanSVG when the document is not valid UTF-8.
	ErrSVGEncoding = errors.New("svg is not valid UTF-8")
	// ErrSVGSyntax is the sentinel error wrapped by SVGSyntaxError.
	ErrSVGSyntax = errors.New("svg is not well-formed XML")

	errNoRoot          = errors.New("document must contain a root element")
	errMultipleRoots   = errors.New("document must contain only one root element")
	errTextOutsideRoot = errors.New("text data outside of root node")
)

// SVGSyntaxError is returned by ScanSVG when the XML tokenizer rejects the input.
// It wraps ErrSVGSyntax for errors.Is() compatibility.
type SVGSyntaxError struct {
	Err error
}

// Error implements the error interface.
func (e *SVGSyntaxError) Error() string {
	return fmt.Sprintf("%s: %v", ErrSVGSyntax, e.Err)
}

// Unwrap returns ErrSVGSyntax so callers can use errors.Is for programmatic detection.
func (e *SVGSyntaxError) Unwrap() error { return ErrSVGSyntax }

// ScanSVG tokenizes data as XML in a single forward pass and stops at the
// first script element or the first well-formedness error. No document tree
// is built; memory use is bounded by the element nesting depth.
//
// Element names are compared on their local part and case-insensitively, so
// both <svg:script> and <SCRIPT> are rejected. A non-empty document needs
// exactly one root element and no text outside it. Empty input is accepted.
func ScanSVG(data []byte) error {
	if !utf8.Valid(data) {
		return ErrSVGEncoding
	}
	if len(data) == 0 {
		return nil
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	// The bytes are already known to be UTF-8; encoding labels in the
	// declaration are not acted on.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	depth := 0
	seenRoot := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if !seenRoot {
				return &SVGSyntaxError{Err: errNoRoot}
			}
			return nil
		}
		if err != nil {
			return &SVGSyntaxError{Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if strings.EqualFold(t.Name.Local, "script") {
				return ErrSVGScriptTag
			}
			if depth == 0 {
				if seenRoot {
					return &SVGSyntaxError{Err: errMultipleRoots}
				}
				seenRoot = true
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return &SVGSyntaxError{Err: errTextOutsideRoot}
			}
		}
	}
}
