// SPDX-License-Identifier: MPL-2.0

package report

import (
	"encoding/json"
	"io"

	"github.com/tokenregistry/metacheck/internal/checker"
	"github.com/tokenregistry/metacheck/pkg/rules"
)

type (
	jsonReport struct {
		Files   []jsonFile `json:"files"`
		Summary Summary    `json:"summary"`
	}

	jsonFile struct {
		Path    string                   `json:"path"`
		Type    rules.RuleSetType        `json:"type"`
		Name    string                   `json:"name,omitempty"`
		TokenID string                   `json:"tokenId,omitempty"`
		Success bool                     `json:"success"`
		RuleSet rules.ValidationRuleSet  `json:"ruleSet"`
		Results []rules.ValidationResult `json:"results"`
	}
)

func writeJSON(w io.Writer, results []checker.FileResult) error {
	out := jsonReport{
		Files:   make([]jsonFile, 0, len(results)),
		Summary: Summarize(results),
	}
	for _, r := range results {
		f := jsonFile{
			Path:    r.Entry.Path,
			Type:    r.Entry.Type,
			Name:    documentName(r),
			Success: r.Success(),
			RuleSet: r.Result.RuleSet,
			Results: r.Result.Results,
		}
		if id := documentIdent(r); id != r.Entry.Path {
			f.TokenID = id
		}
		out.Files = append(out.Files, f)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
