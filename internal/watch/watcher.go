// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs registry checks when metadata documents change.
//
// A Watcher monitors the tokens/ and contracts/ trees of a registry root and
// invokes a callback after a debounce period. Events within the debounce
// window are coalesced so the callback fires once with every changed document.
package watch

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Config.Debounce is not positive.
// Editors commonly write a temp file and rename it; both events fall well inside it.
const DefaultDebounce = 300 * time.Millisecond

var (
	// ErrInvalidConfig is the sentinel error wrapped by ConfigError.
	ErrInvalidConfig = errors.New("invalid watch config")

	// defaultIgnores are always excluded: editor swap files, OS metadata and
	// generated schema files.
	defaultIgnores = []string{
		"**/*.swp",
		"**/*.swo",
		"**/*~",
		"**/.DS_Store",
		"**/*.schema.*",
	}

	watchedDirs = []string{"tokens", "contracts"}
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Root is the registry directory containing tokens/ and contracts/.
		Root string

		// Extension selects watched documents, e.g. ".json".
		Extension string

		// Ignore are doublestar patterns relative to Root merged with the defaults.
		Ignore []string

		// Debounce is the quiet period after the last event before OnChange fires.
		Debounce time.Duration

		// OnChange receives the sorted, deduplicated document paths (joined
		// with Root) that were written or created. A returned error is logged
		// and watching continues.
		OnChange func(ctx context.Context, changed []string) error

		Logger *log.Logger
	}

	// ConfigError lists the problems found by Config.Validate.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	ConfigError struct {
		Problems []string
	}

	// Watcher monitors a registry root. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		patterns []string
		ignores  []string
		logger   *log.Logger
		debounce time.Duration
		root     string
		started  atomic.Bool
	}
)

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "invalid watch config: " + strings.Join(e.Problems, "; ")
}

// Unwrap returns ErrInvalidConfig so callers can use errors.Is for programmatic detection.
func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate checks the ignore patterns and that Root is an existing directory.
func (c Config) Validate() error {
	var problems []string
	if c.Root == "" {
		problems = append(problems, "root is empty")
	} else if info, err := os.Stat(c.Root); err != nil || !info.IsDir() {
		problems = append(problems, fmt.Sprintf("root %q is not a directory", c.Root))
	}
	for _, pat := range c.Ignore {
		if !doublestar.ValidatePattern(pat) {
			problems = append(problems, fmt.Sprintf("invalid ignore pattern %q", pat))
		}
	}
	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}

// New validates cfg, creates the fsnotify watcher and registers every
// directory of the tokens/ and contracts/ trees that exist under Root.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	patterns := make([]string, 0, len(watchedDirs))
	for _, dir := range watchedDirs {
		patterns = append(patterns, dir+"/**/*"+cfg.Extension)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		patterns: patterns,
		ignores:  slices.Concat(defaultIgnores, cfg.Ignore),
		logger:   logger,
		debounce: debounce,
		root:     absRoot,
	}

	if err := w.addDirectories(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("close watcher after init failure", "err", closeErr)
		}
		return nil, err
	}
	return w, nil
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks. It
// returns nil on cancellation and an error when the watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire may run after ctx is cancelled because it is scheduled by
	// time.AfterFunc. Callbacks never overlap: a busy run reschedules.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("previous check still running, rescheduling")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.OnChange == nil {
			return
		}
		paths := make([]string, len(changed))
		for i, rel := range changed {
			paths[i] = filepath.Join(w.cfg.Root, filepath.FromSlash(rel))
		}
		if err := w.cfg.OnChange(ctx, paths); err != nil {
			w.logger.Error("check after change failed", "err", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close watcher", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}

			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
				continue
			}

			rel, ok := w.relevant(evt.Name)
			if !ok {
				continue
			}
			w.logger.Debug("metadata changed", "path", rel, "op", evt.Op.String())

			mu.Lock()
			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalWatchError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// relevant returns the slash-separated path of name relative to the root
// when it is a watched, non-ignored document.
func (w *Watcher) relevant(name string) (string, bool) {
	rel, err := filepath.Rel(w.root, name)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if w.isIgnored(rel) || !matchAny(w.patterns, rel) {
		return "", false
	}
	return rel, true
}

// addDirectories registers the root, tokens/, contracts/ and every
// non-ignored directory below them. The root is watched so that tokens/ or
// contracts/ created later are picked up.
func (w *Watcher) addDirectories() error {
	if err := w.fsw.Add(w.root); err != nil {
		return fmt.Errorf("watch: add root %q: %w", w.root, err)
	}

	for _, dir := range watchedDirs {
		base := filepath.Join(w.root, dir)
		if _, err := os.Stat(base); err != nil {
			continue
		}
		walkErr := filepath.WalkDir(base, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				w.logger.Warn("skipping inaccessible path", "path", path, "err", err)
				return nil //nolint:nilerr // inaccessible directories are skipped, not fatal
			}
			if !d.IsDir() {
				return nil
			}
			if rel, relErr := filepath.Rel(w.root, path); relErr == nil && w.isIgnored(filepath.ToSlash(rel)+"/") {
				return filepath.SkipDir
			}
			if addErr := w.fsw.Add(path); addErr != nil {
				return fmt.Errorf("watch: add directory %q: %w", path, addErr)
			}
			return nil
		})
		if walkErr != nil {
			return walkErr
		}
	}
	return nil
}

// maybeAddDir extends the watch to directories created after startup.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	top, _, _ := strings.Cut(rel, "/")
	if !slices.Contains(watchedDirs, top) || w.isIgnored(rel+"/") {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("add new directory", "path", path, "err", err)
		return
	}
	w.logger.Debug("watching new directory", "path", rel)
}

func (w *Watcher) isIgnored(rel string) bool {
	return matchAny(w.ignores, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}
