// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tokenregistry/metacheck/internal/checker"
)

// Palette shared with the CLI styles.
const (
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorError     = lipgloss.Color("#EF4444")
	ColorHighlight = lipgloss.Color("#3B82F6")
	ColorMuted     = lipgloss.Color("#6B7280")
)

type textStyles struct {
	pass   lipgloss.Style
	fail   lipgloss.Style
	errTag lipgloss.Style
	path   lipgloss.Style
	muted  lipgloss.Style
}

// newTextStyles binds the palette to a renderer for w, so color is dropped
// automatically when w is not a terminal.
func newTextStyles(w io.Writer, scheme ColorScheme) textStyles {
	r := lipgloss.NewRenderer(w)
	switch scheme {
	case SchemeDark:
		r.SetHasDarkBackground(true)
	case SchemeLight:
		r.SetHasDarkBackground(false)
	}

	return textStyles{
		pass:   r.NewStyle().Bold(true).Foreground(ColorSuccess),
		fail:   r.NewStyle().Bold(true).Foreground(ColorError),
		errTag: r.NewStyle().Foreground(ColorError),
		path:   r.NewStyle().Foreground(ColorHighlight),
		muted:  r.NewStyle().Foreground(ColorMuted),
	}
}

func writeText(w io.Writer, results []checker.FileResult, scheme ColorScheme) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, NoChangesMessage)
		return err
	}

	st := newTextStyles(w, scheme)
	var b strings.Builder
	for _, r := range results {
		b.WriteString(Header(r))
		b.WriteByte('\n')

		for _, vr := range r.Result.Results {
			tag := st.pass.Render("pass")
			if !vr.Success {
				tag = st.fail.Render("fail")
			}
			b.WriteString(indent(line("["+tag+"]", vr.Name)))
			b.WriteByte('\n')

			if vr.Success {
				continue
			}
			for _, e := range vr.Errors {
				parts := []string{"[" + st.errTag.Render("error") + "]"}
				if e.Path != "" {
					parts = append(parts, st.path.Render(e.Path))
				}
				parts = append(parts, e.Message)
				b.WriteString(indent(indent(line(parts...))))
				b.WriteByte('\n')
			}
		}
	}

	if len(results) > 1 {
		s := Summarize(results)
		b.WriteString(st.muted.Render(fmt.Sprintf("%d file(s) checked, %d passed, %d failed.", s.Checked, s.Passed, s.Failed)))
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func indent(s string) string { return "  " + s }

func line(parts ...string) string { return strings.Join(parts, " ") }
