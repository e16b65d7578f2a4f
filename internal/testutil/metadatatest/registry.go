// SPDX-License-Identifier: MPL-2.0

package metadatatest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// WriteDocument encodes doc as indented JSON at path, creating parent
// directories. The test fails immediately on error.
func WriteDocument(t testing.TB, path string, doc any) {
	t.Helper()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	WriteFile(t, path, string(data)+"\n")
}

// WriteFile writes raw content at path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// TokenPath returns the registry location of a token document named after tokenID.
func TokenPath(root, tokenID string) string {
	return filepath.Join(root, "tokens", tokenID+".json")
}
