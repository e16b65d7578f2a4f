// SPDX-License-Identifier: MPL-2.0

package checker

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/tokenregistry/metacheck/internal/discovery"
	"github.com/tokenregistry/metacheck/internal/document"
	"github.com/tokenregistry/metacheck/internal/issue"
	"github.com/tokenregistry/metacheck/pkg/rules"
)

const (
	// DefaultJobs is the worker count used when Options.Jobs is not positive.
	DefaultJobs = 4

	// ParseRuleName names the synthetic rule reported for unloadable files.
	ParseRuleName = "Document parsing"
)

type (
	// Options configures a Checker.
	Options struct {
		// RuleSet is the rule set name applied to every entry, e.g. "well-formedness".
		RuleSet string
		// Extension is passed to rule sets that check file names.
		Extension string
		Jobs      int
		Logger    *log.Logger
	}

	// FileResult is the outcome of checking one worklist entry.
	FileResult struct {
		Entry discovery.Entry
		// Document is the decoded document, nil when loading failed.
		Document any
		Result   rules.RuleSetValidationResult
		// LoadErr is set when the file could not be read or decoded.
		LoadErr *issue.ActionableError
	}

	// Checker validates worklists.
	Checker struct {
		ruleSet string
		ext     string
		jobs    int
		logger  *log.Logger
	}
)

// New creates a Checker.
func New(opts Options) *Checker {
	c := &Checker{
		ruleSet: opts.RuleSet,
		ext:     opts.Extension,
		jobs:    opts.Jobs,
		logger:  opts.Logger,
	}
	if c.ruleSet == "" {
		c.ruleSet = rules.WellFormedness
	}
	if c.ext == "" {
		c.ext = rules.DefaultExtension
	}
	if c.jobs <= 0 {
		c.jobs = DefaultJobs
	}
	if c.logger == nil {
		c.logger = log.New(os.Stderr)
	}
	return c
}

// Success reports whether the file loaded and every rule passed.
func (r FileResult) Success() bool {
	return r.LoadErr == nil && r.Result.Success()
}

// AllPassed reports whether every result succeeded.
func AllPassed(results []FileResult) bool {
	for _, r := range results {
		if !r.Success() {
			return false
		}
	}
	return true
}

// Run checks every entry and returns one result per entry in the same order.
// Rule sets are resolved for all entries before any file is read, so an
// unknown rule set name fails the whole run with an *issue.ActionableError.
func (c *Checker) Run(ctx context.Context, entries []discovery.Entry) ([]FileResult, error) {
	ruleSets := make(map[rules.RuleSetType]rules.ValidationRuleSet)
	for _, e := range entries {
		if _, ok := ruleSets[e.Type]; ok {
			continue
		}
		rs, err := rules.Lookup(e.Type, c.ruleSet, c.ext)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("select rule set").
				WithResource(string(e.Type) + "/" + c.ruleSet).
				WithIssue(issue.NoRuleSetId).
				Wrap(err).
				Build()
		}
		c.logger.Debug("selected rule set", "type", e.Type, "name", rs.Name, "rules", len(rs.Rules))
		ruleSets[e.Type] = rs
	}

	results := make([]FileResult, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.jobs)

	for i, e := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.checkOne(e, ruleSets[e.Type])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// CheckFile checks one entry synchronously.
func (c *Checker) CheckFile(e discovery.Entry) (FileResult, error) {
	rs, err := rules.Lookup(e.Type, c.ruleSet, c.ext)
	if err != nil {
		return FileResult{}, err
	}
	return c.checkOne(e, rs), nil
}

func (c *Checker) checkOne(e discovery.Entry, rs rules.ValidationRuleSet) FileResult {
	doc, err := document.Load(e.Path)
	if err != nil {
		loadErr := loadError(e.Path, err)
		c.logger.Debug("document failed to load", "path", e.Path, "err", err)
		return FileResult{
			Entry:   e,
			LoadErr: loadErr,
			Result:  parseFailure(rs, err),
		}
	}

	res := rules.Validate(rs, rules.ValidationContext{Entry: doc, Filename: e.Path})
	c.logger.Debug("checked document", "path", e.Path, "success", res.Success())
	return FileResult{Entry: e, Document: doc, Result: res}
}

// parseFailure reports a load error as the single failed rule of rs.
func parseFailure(rs rules.ValidationRuleSet, err error) rules.RuleSetValidationResult {
	return rules.RuleSetValidationResult{
		RuleSet: rs,
		Results: []rules.ValidationResult{{
			Success: false,
			Name:    ParseRuleName,
			Errors:  []rules.ValidationError{{Message: err.Error()}},
		}},
	}
}

func loadError(path string, err error) *issue.ActionableError {
	ec := issue.NewErrorContext().
		WithOperation("load metadata document").
		WithResource(path).
		Wrap(err)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		ec.WithIssue(issue.MetadataFileNotFoundId).
			WithSuggestion("Check the path, or run 'metacheck check --all' to check every document")
	case errors.Is(err, document.ErrUnsupportedFormat):
		ec.WithIssue(issue.UnsupportedFormatId).
			WithSuggestion("Use one of the .json, .yaml, .yml, .toml or .cue extensions")
	default:
		ec.WithIssue(issue.DocumentParseErrorId).
			WithSuggestion("Fix the syntax error reported above and run the check again")
	}
	return ec.Build()
}
