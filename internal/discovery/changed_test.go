// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/google/go-cmp/cmp"

	"github.com/tokenregistry/metacheck/pkg/rules"
)

func commitAll(t *testing.T, wt *git.Worktree, msg string) plumbing.Hash {
	t.Helper()

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatalf("add: %v", err)
	}
	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "Registry Bot", Email: "bot@example.com", When: time.Unix(1_700_000_000, 0)},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return hash
}

func TestChanged(t *testing.T) {
	t.Parallel()

	repoDir := t.TempDir()
	repo, err := git.PlainInit(repoDir, false)
	if err != nil {
		t.Fatal(err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}

	root := filepath.Join(repoDir, "metadata")
	writeTree(t, root, "tokens/a.json", "tokens/c.json", "contracts/pool.json")
	base := commitAll(t, wt, "initial registry")
	if err := repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName("base"), base)); err != nil {
		t.Fatal(err)
	}

	// Committed: modify a, add b, delete c, add a stray file.
	if err := os.WriteFile(filepath.Join(root, "tokens", "a.json"), []byte(`{"name":"A"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	writeTree(t, root, "tokens/b.json", "stray.json")
	if err := os.Remove(filepath.Join(root, "tokens", "c.json")); err != nil {
		t.Fatal(err)
	}
	commitAll(t, wt, "update registry")

	// Uncommitted: untracked d and modified pool.
	writeTree(t, root, "tokens/d.json")
	if err := os.WriteFile(filepath.Join(root, "contracts", "pool.json"), []byte(`{"x":1}`), 0o644); err != nil {
		t.Fatal(err)
	}

	d := newDiscovery(t, Options{Root: root})
	got, err := d.Changed(context.Background(), "base", "")
	if err != nil {
		t.Fatalf("Changed() error = %v", err)
	}

	want := []Entry{
		{Path: filepath.Join(root, "contracts", "pool.json"), Type: rules.TypeContract},
		{Path: filepath.Join(root, "tokens", "a.json"), Type: rules.TypeToken},
		{Path: filepath.Join(root, "tokens", "b.json"), Type: rules.TypeToken},
		{Path: filepath.Join(root, "tokens", "d.json"), Type: rules.TypeToken},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Changed() mismatch (-want +got):\n%s", diff)
	}

	var skipped bool
	for _, diag := range d.Diagnostics() {
		if diag.Code == CodeChangedFileSkipped && diag.Path == "stray.json" {
			skipped = true
		}
	}
	if !skipped {
		t.Errorf("Diagnostics() = %+v, want %s for stray.json", d.Diagnostics(), CodeChangedFileSkipped)
	}

	tokens, err := d.Changed(context.Background(), "base", rules.TypeToken)
	if err != nil {
		t.Fatalf("Changed(token) error = %v", err)
	}
	if len(tokens) != 3 {
		t.Errorf("Changed(token) = %v, want 3 entries", tokens)
	}
}

func TestChanged_Errors(t *testing.T) {
	t.Parallel()

	t.Run("not a repository", func(t *testing.T) {
		t.Parallel()

		d := newDiscovery(t, Options{Root: t.TempDir()})
		if _, err := d.Changed(context.Background(), "origin/main", ""); !errors.Is(err, ErrGitUnavailable) {
			t.Errorf("Changed() error = %v, want ErrGitUnavailable", err)
		}
	})

	t.Run("unknown ref", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		repo, err := git.PlainInit(dir, false)
		if err != nil {
			t.Fatal(err)
		}
		wt, err := repo.Worktree()
		if err != nil {
			t.Fatal(err)
		}
		writeTree(t, dir, "tokens/a.json")
		commitAll(t, wt, "initial")

		d := newDiscovery(t, Options{Root: dir})
		if _, err := d.Changed(context.Background(), "origin/does-not-exist", ""); !errors.Is(err, ErrGitUnavailable) {
			t.Errorf("Changed() error = %v, want ErrGitUnavailable", err)
		}
	})
}
