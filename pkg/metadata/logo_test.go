// SPDX-License-Identifier: MPL-2.0

package metadata_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/tokenregistry/metacheck/internal/testutil/metadatatest"
	"github.com/tokenregistry/metacheck/pkg/metadata"
)

func collectLogoErrors(content string) []string {
	var msgs []string
	metadata.ValidateLogo(content, func(msg string) { msgs = append(msgs, msg) })
	return msgs
}

func TestValidateLogo(t *testing.T) {
	t.Parallel()

	pngAsSVG := metadata.SVGDataURLPrefix + strings.TrimPrefix(metadatatest.PNGLogo(), metadata.PNGDataURLPrefix)

	tests := []struct {
		name    string
		content string
		// wantErr is a substring of the single expected error; empty means valid.
		wantErr string
	}{
		{"png", metadatatest.PNGLogo(), ""},
		{"svg", metadatatest.SVGLogo(`<svg><rect/></svg>`), ""},
		{"svg with namespace and prolog", metadatatest.SVGLogo(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><circle cx="5" cy="5" r="4"/></svg>`), ""},
		{"svg mentioning script in text", metadatatest.SVGLogo(`<svg><text>script</text></svg>`), ""},
		{"missing prefix", strings.TrimPrefix(metadatatest.PNGLogo(), metadata.PNGDataURLPrefix), "must be prefixed with either"},
		{"jpeg prefix", "data:image/jpeg;base64,AAAA", "must be prefixed with either"},
		{"bad base64", metadata.PNGDataURLPrefix + "not*base64", "not valid base64"},
		{"png prefix on svg bytes", metadata.PNGDataURLPrefix + strings.TrimPrefix(metadatatest.SVGLogo(`<svg/>`), metadata.SVGDataURLPrefix), "not a valid PNG image"},
		{"png relabeled as svg", pngAsSVG, "not a valid SVG image"},
		{"script element", metadatatest.SVGLogo(`<svg><script>alert(1)</script></svg>`), "The '<script>' tag is not allowed in .svg files."},
		{"uppercase script element", metadatatest.SVGLogo(`<svg><SCRIPT>alert(1)</SCRIPT></svg>`), "The '<script>' tag is not allowed"},
		{"namespaced script element", metadatatest.SVGLogo(`<svg xmlns:x="http://www.w3.org/2000/svg"><x:script>alert(1)</x:script></svg>`), "The '<script>' tag is not allowed"},
		{"unclosed element", metadatatest.SVGLogo(`<svg><rect>`), "not a well-formed SVG document"},
		{"mismatched tags", metadatatest.SVGLogo(`<svg></rect>`), "not a well-formed SVG document"},
		{"invalid utf-8", metadata.SVGDataURLPrefix + "/w==", "not valid UTF-8"},
		{"empty svg payload", metadata.SVGDataURLPrefix, ""},
		{"plain text", metadatatest.SVGLogo("hello, not an svg"), "text data outside of root node"},
		{"text before root", metadatatest.SVGLogo("plain text <svg/>"), "text data outside of root node"},
		{"text after root", metadatatest.SVGLogo("<svg/> trailing"), "text data outside of root node"},
		{"two root elements", metadatatest.SVGLogo("<svg/><svg/>"), "only one root element"},
		{"comment only", metadatatest.SVGLogo("<!-- nothing -->"), "must contain a root element"},
		{"whitespace around root", metadatatest.SVGLogo("\n  <svg/>\n"), ""},
		{"latin-1 declaration", metadatatest.SVGLogo(`<?xml version="1.0" encoding="ISO-8859-1"?><svg/>`), ""},
		{"line break in payload", metadata.PNGDataURLPrefix + "iVBORw0KGgoAAAAN\nSUhEUgAAAAEAAAAB", "line breaks are not allowed"},
		{"carriage return in payload", metadata.SVGDataURLPrefix + "PHN2Zy8+\r\n", "line breaks are not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			msgs := collectLogoErrors(tt.content)
			if tt.wantErr == "" {
				if len(msgs) != 0 {
					t.Fatalf("ValidateLogo() errors = %q, want none", msgs)
				}
				return
			}
			if len(msgs) != 1 {
				t.Fatalf("ValidateLogo() errors = %q, want exactly one", msgs)
			}
			if !strings.Contains(msgs[0], tt.wantErr) {
				t.Errorf("ValidateLogo() error = %q, want it to contain %q", msgs[0], tt.wantErr)
			}
		})
	}
}

func TestScanSVG(t *testing.T) {
	t.Parallel()

	if err := metadata.ScanSVG([]byte(`<svg><g><rect/></g></svg>`)); err != nil {
		t.Errorf("ScanSVG(clean) = %v, want nil", err)
	}

	if err := metadata.ScanSVG([]byte(`<svg><script/></svg>`)); !errors.Is(err, metadata.ErrSVGScriptTag) {
		t.Errorf("ScanSVG(script) = %v, want ErrSVGScriptTag", err)
	}

	if err := metadata.ScanSVG([]byte{0xff, 0xfe}); !errors.Is(err, metadata.ErrSVGEncoding) {
		t.Errorf("ScanSVG(invalid utf-8) = %v, want ErrSVGEncoding", err)
	}

	err := metadata.ScanSVG([]byte(`<svg>`))
	if !errors.Is(err, metadata.ErrSVGSyntax) {
		t.Fatalf("ScanSVG(unclosed) = %v, want ErrSVGSyntax", err)
	}
	var syntaxErr *metadata.SVGSyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Errorf("ScanSVG(unclosed) error should be *SVGSyntaxError, got %T", err)
	}
}

func TestScanSVG_RootElement(t *testing.T) {
	t.Parallel()

	if err := metadata.ScanSVG(nil); err != nil {
		t.Errorf("ScanSVG(empty) = %v, want nil", err)
	}

	for _, in := range []string{"hello", "<svg/><svg/>", "<svg/>x", "   "} {
		if err := metadata.ScanSVG([]byte(in)); !errors.Is(err, metadata.ErrSVGSyntax) {
			t.Errorf("ScanSVG(%q) = %v, want ErrSVGSyntax", in, err)
		}
	}
}

func TestScanSVG_StopsAtFirstScript(t *testing.T) {
	t.Parallel()

	// The trailing garbage is never reached.
	err := metadata.ScanSVG([]byte(`<svg><script>alert(1)</script><<<`))
	if !errors.Is(err, metadata.ErrSVGScriptTag) {
		t.Errorf("ScanSVG() = %v, want ErrSVGScriptTag", err)
	}
}

func TestScanSVG_DeepNesting(t *testing.T) {
	t.Parallel()

	const depth = 1_000
	svg := strings.Repeat("<g>", depth) + strings.Repeat("</g>", depth)
	if err := metadata.ScanSVG([]byte(svg)); err != nil {
		t.Errorf("ScanSVG(deep) = %v, want nil", err)
	}
}
