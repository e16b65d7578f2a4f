// SPDX-License-Identifier: MPL-2.0

package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tokenregistry/metacheck/internal/checker"
	"github.com/tokenregistry/metacheck/internal/discovery"
	"github.com/tokenregistry/metacheck/internal/issue"
	"github.com/tokenregistry/metacheck/internal/testutil/metadatatest"
	"github.com/tokenregistry/metacheck/pkg/rules"
)

func passing() checker.FileResult {
	return checker.FileResult{
		Entry:    discovery.Entry{Path: "metadata/tokens/" + metadatatest.TokenID + ".json", Type: rules.TypeToken},
		Document: metadatatest.NewTokenMetadata(),
		Result: rules.RuleSetValidationResult{
			RuleSet: rules.ValidationRuleSet{Type: rules.TypeToken, Name: rules.WellFormedness},
			Results: []rules.ValidationResult{
				{Success: true, Name: "Schema validation"},
				{Success: true, Name: "Filename matching"},
			},
		},
	}
}

func failing() checker.FileResult {
	return checker.FileResult{
		Entry:    discovery.Entry{Path: "metadata/contracts/pool.json", Type: rules.TypeContract},
		Document: map[string]any{"name": "Pool"},
		Result: rules.RuleSetValidationResult{
			RuleSet: rules.ValidationRuleSet{Type: rules.TypeContract, Name: rules.WellFormedness},
			Results: []rules.ValidationResult{
				{Success: false, Name: "Schema validation", Errors: []rules.ValidationError{
					{Message: "Required", Path: "template"},
					{Message: "Unrecognized key(s) in object: 'extra'"},
				}},
				{Success: true, Name: "File extension"},
			},
		},
	}
}

func TestWriteText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		results []checker.FileResult
		want    string
	}{
		{
			name:    "empty worklist",
			results: nil,
			want:    "No metadata changes.\n",
		},
		{
			name:    "single passing file",
			results: []checker.FileResult{passing()},
			want: "Running well-formedness checks for token metadata 'SigmaUSD' '" + metadatatest.TokenID + "'\n" +
				"  [pass] Schema validation\n" +
				"  [pass] Filename matching\n",
		},
		{
			name:    "failing file falls back to the path and adds a summary",
			results: []checker.FileResult{failing(), passing()},
			want: "Running well-formedness checks for contract metadata 'Pool' 'metadata/contracts/pool.json'\n" +
				"  [fail] Schema validation\n" +
				"    [error] template Required\n" +
				"    [error] Unrecognized key(s) in object: 'extra'\n" +
				"  [pass] File extension\n" +
				"Running well-formedness checks for token metadata 'SigmaUSD' '" + metadatatest.TokenID + "'\n" +
				"  [pass] Schema validation\n" +
				"  [pass] Filename matching\n" +
				"2 file(s) checked, 1 passed, 1 failed.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := Write(&buf, tt.results, Options{Format: FormatText}); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("Write() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, []checker.FileResult{passing(), failing()}, Options{Format: FormatJSON}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var got struct {
		Files []struct {
			Path    string `json:"path"`
			Type    string `json:"type"`
			Name    string `json:"name"`
			TokenID string `json:"tokenId"`
			Success bool   `json:"success"`
			RuleSet struct {
				Type string `json:"type"`
				Name string `json:"name"`
			} `json:"ruleSet"`
			Results []rules.ValidationResult `json:"results"`
		} `json:"files"`
		Summary Summary `json:"summary"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if diff := cmp.Diff(Summary{Checked: 2, Passed: 1, Failed: 1}, got.Summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
	if len(got.Files) != 2 {
		t.Fatalf("files = %d, want 2", len(got.Files))
	}
	if got.Files[0].TokenID != metadatatest.TokenID || got.Files[1].TokenID != "" {
		t.Errorf("tokenIds = %q, %q", got.Files[0].TokenID, got.Files[1].TokenID)
	}
	if got.Files[1].Success || got.Files[1].RuleSet.Type != "contract" {
		t.Errorf("files[1] = %+v, want failed contract", got.Files[1])
	}
	if diff := cmp.Diff(failing().Result.Results, got.Files[1].Results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteJSON_EmptyIsArray(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, nil, Options{Format: FormatJSON}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"files": []`) {
		t.Errorf("empty report should list no files, got:\n%s", buf.String())
	}
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	load := checker.FileResult{
		Entry: discovery.Entry{Path: "metadata/tokens/broken.json", Type: rules.TypeToken},
		Result: rules.RuleSetValidationResult{
			RuleSet: rules.ValidationRuleSet{Type: rules.TypeToken, Name: rules.WellFormedness},
			Results: []rules.ValidationResult{{Name: checker.ParseRuleName, Errors: []rules.ValidationError{{Message: "unexpected EOF"}}}},
		},
		LoadErr: &issue.ActionableError{Operation: "load metadata document", Suggestions: []string{"Fix the syntax error"}},
	}

	md := Markdown([]checker.FileResult{passing(), failing(), load})
	for _, want := range []string{
		"3 file(s) checked, **1 passed**, **2 failed**.",
		"| `metadata/contracts/pool.json` | contract | well-formedness | **fail** |",
		"## `metadata/contracts/pool.json`",
		"  - `template`: Required",
		"  - Unrecognized key(s) in object: 'extra'",
		"- **Document parsing**",
		"> Fix the syntax error",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown() missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "## `metadata/tokens/"+metadatatest.TokenID) {
		t.Error("Markdown() lists a passing file in the failure details")
	}
}

func TestWriteMarkdown_Renders(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, []checker.FileResult{failing()}, Options{Format: FormatMarkdown, ColorScheme: SchemeDark}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Metadata check report") {
		t.Errorf("rendered markdown missing title:\n%s", buf.String())
	}
}

func TestWrite_InvalidFormat(t *testing.T) {
	t.Parallel()

	err := Write(&bytes.Buffer{}, nil, Options{Format: "xml"})
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Write() error = %v, want ErrInvalidFormat", err)
	}
}
