// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestCatalog_Complete(t *testing.T) {
	t.Parallel()

	ids := []Id{
		MetadataFileNotFoundId,
		DocumentParseErrorId,
		UnsupportedFormatId,
		NoRuleSetId,
		UnknownDocumentTypeId,
		ConfigLoadFailedId,
		GitRepositoryUnavailableId,
	}

	if MetadataFileNotFoundId != 1 {
		t.Errorf("MetadataFileNotFoundId = %d, want 1", MetadataFileNotFoundId)
	}

	for _, id := range ids {
		is := Get(id)
		if is == nil {
			t.Errorf("Get(%d) returned nil", id)
			continue
		}
		if is.Id() != id {
			t.Errorf("Get(%d).Id() = %d", id, is.Id())
		}
		if !strings.HasPrefix(strings.TrimSpace(string(is.MarkdownMsg())), "# ") {
			t.Errorf("issue %d should start with a heading", id)
		}
	}

	values := Values()
	if len(values) != len(ids) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(ids))
	}
	for i, is := range values {
		if is.Id() != ids[i] {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, is.Id(), ids[i])
		}
	}

	if Get(0) != nil {
		t.Error("Get(0) should return nil")
	}
}

func TestIssue_Render(t *testing.T) {
	t.Parallel()

	out, err := Get(ConfigLoadFailedId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "Failed to load configuration") {
		t.Errorf("Render() output missing heading:\n%s", out)
	}
	if !strings.Contains(out, "metacheck config init") {
		t.Errorf("Render() output missing command:\n%s", out)
	}
}
