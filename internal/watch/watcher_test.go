// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tokenregistry/metacheck/internal/logging"
)

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()

	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()

	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// startWatcher runs a watcher over root and returns a channel receiving each
// callback's paths.
func startWatcher(t *testing.T, root string, ignore ...string) <-chan []string {
	t.Helper()

	calls := make(chan []string, 8)
	w, err := New(Config{
		Root:      root,
		Extension: ".json",
		Ignore:    ignore,
		Debounce:  100 * time.Millisecond,
		Logger:    logging.Discard(),
		OnChange: func(_ context.Context, changed []string) error {
			calls <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-errCh; err != nil {
			t.Errorf("Run() error = %v", err)
		}
	})
	return calls
}

func waitCall(t *testing.T, calls <-chan []string) []string {
	t.Helper()

	select {
	case got := <-calls:
		return got
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for OnChange")
		return nil
	}
}

func TestWatcher_DebouncesDocuments(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkdirs(t, root, "tokens", "contracts")
	calls := startWatcher(t, root)

	writeFile(t, filepath.Join(root, "tokens", "b.json"))
	time.Sleep(10 * time.Millisecond)
	writeFile(t, filepath.Join(root, "tokens", "a.json"))
	writeFile(t, filepath.Join(root, "contracts", "pool.json"))
	// Not documents: ignored by extension, location and schema suffix.
	writeFile(t, filepath.Join(root, "tokens", "notes.txt"))
	writeFile(t, filepath.Join(root, "stray.json"))
	writeFile(t, filepath.Join(root, "tokens", "token-metadata.schema.json"))

	got := waitCall(t, calls)
	want := []string{
		filepath.Join(root, "contracts", "pool.json"),
		filepath.Join(root, "tokens", "a.json"),
		filepath.Join(root, "tokens", "b.json"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("OnChange paths mismatch (-want +got):\n%s", diff)
	}

	select {
	case extra := <-calls:
		t.Errorf("unexpected second callback: %v", extra)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_NewDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	calls := startWatcher(t, root)

	// tokens/ does not exist at startup.
	mkdirs(t, root, "tokens")
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(root, "tokens", "late.json"))

	got := waitCall(t, calls)
	if diff := cmp.Diff([]string{filepath.Join(root, "tokens", "late.json")}, got); diff != "" {
		t.Errorf("OnChange paths mismatch (-want +got):\n%s", diff)
	}
}

func TestWatcher_UserIgnores(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkdirs(t, root, "tokens/drafts")
	calls := startWatcher(t, root, "tokens/drafts/**")

	writeFile(t, filepath.Join(root, "tokens", "drafts", "wip.json"))
	writeFile(t, filepath.Join(root, "tokens", "kept.json"))

	got := waitCall(t, calls)
	if diff := cmp.Diff([]string{filepath.Join(root, "tokens", "kept.json")}, got); diff != "" {
		t.Errorf("OnChange paths mismatch (-want +got):\n%s", diff)
	}
}

func TestWatcher_RunTwice(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Root: t.TempDir(), Logger: logging.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := w.Run(ctx); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if err := w.Run(ctx); err == nil {
		t.Error("second Run() error = nil, want error")
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file.json")
	writeFile(t, file)

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Root: dir, Ignore: []string{"tokens/**/wip-*.json"}}, false},
		{"empty root", Config{}, true},
		{"missing root", Config{Root: filepath.Join(dir, "nope")}, true},
		{"root is a file", Config{Root: file}, true},
		{"bad ignore pattern", Config{Root: dir, Ignore: []string{"tokens/["}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestDefaultIgnoresIsCopy(t *testing.T) {
	t.Parallel()

	got := DefaultIgnores()
	got[0] = "mutated"
	if DefaultIgnores()[0] == "mutated" {
		t.Error("DefaultIgnores() exposes the package slice")
	}
}
