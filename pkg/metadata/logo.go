// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	// PNGDataURLPrefix marks base64 encoded PNG logo content.
	PNGDataURLPrefix = "data:image/png;base64,"
	// SVGDataURLPrefix marks base64 encoded SVG logo content.
	SVGDataURLPrefix = "data:image/svg+xml;base64,"

	// MaxLogoLength is the character-length equivalent of ~64 KB of base64 data.
	MaxLogoLength = 87_400

	// LogoPattern matches the accepted data-URL prefixes.
	LogoPattern = `^data:image/(png|svg\+xml);base64,`
)

// ErrorSink receives human-readable refinement failures.
type ErrorSink func(message string)

// ValidateLogo checks data-URL encoded logo content and reports every problem
// found to sink. Each failing stage reports exactly one message and stops the
// remaining stages, so a malformed payload never reaches the SVG scanner.
func ValidateLogo(content string, sink ErrorSink) {
	var prefix string
	switch {
	case strings.HasPrefix(content, PNGDataURLPrefix):
		prefix = PNGDataURLPrefix
	case strings.HasPrefix(content, SVGDataURLPrefix):
		prefix = SVGDataURLPrefix
	default:
		sink(fmt.Sprintf("The logo must be prefixed with either '%s' or '%s' according to the image type.",
			PNGDataURLPrefix, SVGDataURLPrefix))
		return
	}

	payload := strings.TrimPrefix(content, prefix)
	// DecodeString skips line breaks; the payload must be one unbroken run.
	if strings.ContainsAny(payload, "\r\n") {
		sink("The logo content is not valid base64: line breaks are not allowed.")
		return
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		sink(fmt.Sprintf("The logo content is not valid base64: %v.", err))
		return
	}

	if prefix == PNGDataURLPrefix {
		if !IsPNG(data) {
			sink(logoTypeMismatch(prefix, "PNG"))
		}
		return
	}

	if IsPNG(data) {
		sink(logoTypeMismatch(prefix, "SVG"))
		return
	}

	if err := ScanSVG(data); err != nil {
		sink(svgMessage(err))
	}
}

func logoTypeMismatch(prefix, kind string) string {
	return fmt.Sprintf("The logo Data URL Type is '%s' but the content is not a valid %s image.", prefix, kind)
}

func svgMessage(err error) string {
	switch {
	case errors.Is(err, ErrSVGScriptTag):
		return "The '<script>' tag is not allowed in .svg files."
	case errors.Is(err, ErrSVGEncoding):
		return "The logo content is not valid UTF-8 text."
	default:
		var syntaxErr *SVGSyntaxError
		if errors.As(err, &syntaxErr) {
			return fmt.Sprintf("The logo content is not a well-formed SVG document: %v.", syntaxErr.Err)
		}
		return err.Error()
	}
}
