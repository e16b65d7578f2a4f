// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

type ignoreMatcher interface {
	MatchesPath(path string) bool
}

// loadIgnoreFiles compiles .gitignore and .metacheckignore at root into one
// matcher. It returns nil when neither file contributes a pattern.
func loadIgnoreFiles(root string) (ignoreMatcher, []Diagnostic) {
	var (
		lines []string
		diags []Diagnostic
	)
	for _, name := range []string{".gitignore", IgnoreFileName} {
		path := filepath.Join(root, name)
		content, err := os.ReadFile(path)
		if err != nil {
			if !isNotExist(err) {
				diags = append(diags, Diagnostic{
					Severity: SeverityWarning,
					Code:     CodeIgnoreFileUnreadable,
					Message:  "ignore file could not be read; its patterns are not applied",
					Path:     path,
					Cause:    err,
				})
			}
			continue
		}
		lines = append(lines, strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")...)
	}

	if len(lines) == 0 {
		return nil, diags
	}
	return ignore.CompileIgnoreLines(lines...), diags
}
