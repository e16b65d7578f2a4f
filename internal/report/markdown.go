// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/tokenregistry/metacheck/internal/checker"
)

const markdownWrap = 100

// Markdown returns the unrendered markdown summary of results.
func Markdown(results []checker.FileResult) string {
	var b strings.Builder
	b.WriteString("# Metadata check report\n\n")

	if len(results) == 0 {
		b.WriteString(NoChangesMessage + "\n")
		return b.String()
	}

	s := Summarize(results)
	fmt.Fprintf(&b, "%d file(s) checked, **%d passed**, **%d failed**.\n\n", s.Checked, s.Passed, s.Failed)

	b.WriteString("| File | Type | Rule set | Status |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, r := range results {
		status := "pass"
		if !r.Success() {
			status = "**fail**"
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s | %s |\n", r.Entry.Path, r.Result.RuleSet.Type, r.Result.RuleSet.Name, status)
	}

	for _, r := range results {
		if r.Success() {
			continue
		}
		fmt.Fprintf(&b, "\n## `%s`\n\n", r.Entry.Path)
		for _, vr := range r.Result.Failed() {
			fmt.Fprintf(&b, "- **%s**\n", vr.Name)
			for _, e := range vr.Errors {
				if e.Path != "" {
					fmt.Fprintf(&b, "  - `%s`: %s\n", e.Path, e.Message)
				} else {
					fmt.Fprintf(&b, "  - %s\n", e.Message)
				}
			}
		}
		if r.LoadErr != nil {
			for _, sug := range r.LoadErr.Suggestions {
				fmt.Fprintf(&b, "\n> %s\n", sug)
			}
		}
	}
	return b.String()
}

func writeMarkdown(w io.Writer, results []checker.FileResult, scheme ColorScheme) error {
	style := glamour.WithAutoStyle()
	switch scheme {
	case SchemeDark:
		style = glamour.WithStandardStyle("dark")
	case SchemeLight:
		style = glamour.WithStandardStyle("light")
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(markdownWrap))
	if err != nil {
		return err
	}
	out, err := r.Render(Markdown(results))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
