// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/tokenregistry/metacheck/pkg/rules"
)

// ErrGitUnavailable is the sentinel error wrapped by GitError.
var ErrGitUnavailable = errors.New("git repository unavailable")

// GitError reports a failed git operation during changed-file discovery.
// It wraps ErrGitUnavailable for errors.Is() compatibility.
type GitError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *GitError) Error() string {
	return fmt.Sprintf("git %s: %v", e.Op, e.Err)
}

// Unwrap returns both the sentinel and the underlying go-git error.
func (e *GitError) Unwrap() []error { return []error{ErrGitUnavailable, e.Err} }

// Changed lists documents that differ between the merge base of baseRef and
// HEAD, plus uncommitted and untracked documents in the working tree.
// Deleted files are not listed. typ restricts the result when non-empty.
func (d *Discovery) Changed(ctx context.Context, baseRef string, typ rules.RuleSetType) ([]Entry, error) {
	repo, err := git.PlainOpenWithOptions(d.root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, &GitError{Op: "open", Err: err}
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, &GitError{Op: "worktree", Err: err}
	}

	paths, err := committedChanges(ctx, repo, baseRef)
	if err != nil {
		return nil, err
	}

	status, err := wt.Status()
	if err != nil {
		d.diags = append(d.diags, Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeWorktreeStatusFailed,
			Message:  "uncommitted changes were not inspected",
			Cause:    err,
		})
	}
	for path, st := range status {
		if st.Worktree == git.Deleted || (st.Worktree == git.Unmodified && st.Staging == git.Deleted) {
			continue
		}
		if st.Worktree != git.Unmodified || st.Staging != git.Unmodified {
			paths = append(paths, path)
		}
	}
	slices.Sort(paths)
	paths = slices.Compact(paths)

	repoRoot, err := canonical(wt.Filesystem.Root())
	if err != nil {
		return nil, err
	}
	root, err := canonical(d.root)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, p := range paths {
		rel, err := filepath.Rel(root, filepath.Join(repoRoot, filepath.FromSlash(p)))
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		rel = filepath.ToSlash(rel)
		if !strings.HasSuffix(rel, d.ext) || d.excluded(rel) {
			continue
		}

		t, ok := TypeOf(rel)
		if !ok {
			d.diags = append(d.diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeChangedFileSkipped,
				Message:  fmt.Sprintf("changed file is not under %s/ or %s/", TokensDir, ContractsDir),
				Path:     rel,
			})
			continue
		}
		if typ != "" && t != typ {
			continue
		}

		path := filepath.Join(d.root, filepath.FromSlash(rel))
		if !fileExists(path) {
			continue
		}
		entries = append(entries, Entry{Path: path, Type: t})
	}

	d.logger.Debug("discovered changed metadata files", "base", baseRef, "count", len(entries))
	return entries, nil
}

// committedChanges returns repository-relative paths added or modified
// between the merge base of baseRef and HEAD.
func committedChanges(ctx context.Context, repo *git.Repository, baseRef string) ([]string, error) {
	baseHash, err := repo.ResolveRevision(plumbing.Revision(baseRef))
	if err != nil {
		return nil, &GitError{Op: fmt.Sprintf("resolve %q", baseRef), Err: err}
	}
	head, err := repo.Head()
	if err != nil {
		return nil, &GitError{Op: "resolve HEAD", Err: err}
	}

	baseCommit, err := repo.CommitObject(*baseHash)
	if err != nil {
		return nil, &GitError{Op: "read base commit", Err: err}
	}
	headCommit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, &GitError{Op: "read HEAD commit", Err: err}
	}

	if bases, err := baseCommit.MergeBase(headCommit); err == nil && len(bases) > 0 {
		baseCommit = bases[0]
	}

	baseTree, err := baseCommit.Tree()
	if err != nil {
		return nil, &GitError{Op: "read base tree", Err: err}
	}
	headTree, err := headCommit.Tree()
	if err != nil {
		return nil, &GitError{Op: "read HEAD tree", Err: err}
	}

	changes, err := object.DiffTreeWithOptions(ctx, baseTree, headTree, nil)
	if err != nil {
		return nil, &GitError{Op: "diff", Err: err}
	}

	paths := make([]string, 0, len(changes))
	for _, c := range changes {
		if c.To.Name == "" {
			continue
		}
		paths = append(paths, c.To.Name)
	}
	return paths, nil
}

func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}
