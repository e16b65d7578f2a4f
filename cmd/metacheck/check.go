// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokenregistry/metacheck/internal/checker"
	"github.com/tokenregistry/metacheck/internal/discovery"
	"github.com/tokenregistry/metacheck/internal/issue"
	"github.com/tokenregistry/metacheck/internal/report"
	"github.com/tokenregistry/metacheck/pkg/rules"
	"github.com/tokenregistry/metacheck/pkg/types"
)

// checkFlagValues holds the flags of `metacheck check`.
type checkFlagValues struct {
	all     bool
	changed bool
	docType string
	ruleSet string
	format  string
	jobs    int
}

func newCheckCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &checkFlagValues{}

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Check registry metadata documents",
		Long: `Check registry metadata documents against a rule set.

Documents are selected by exactly one of:
  - file arguments (bare names are looked up under tokens/ or contracts/)
  - --all, every document in the metadata directory
  - --changed, documents changed relative to git.base_ref

The exit status is 0 when every document passes, 1 when any rule fails.`,
		Example: `  metacheck check --all
  metacheck check --changed --format markdown
  metacheck check --type token 03faf2cb329f2e90d6d23b58d91bbb6c046aa143261cc21f52fbe2824bfcbf04.json
  metacheck check --rules signature --type token proof.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), app, rootFlags, flags, args)
		},
	}

	cmd.Flags().BoolVar(&flags.all, "all", false, "check every document in the metadata directory")
	cmd.Flags().BoolVar(&flags.changed, "changed", false, "check documents changed relative to git.base_ref")
	cmd.Flags().StringVarP(&flags.docType, "type", "t", "", "document type: token or contract (default: inferred from the directory)")
	cmd.Flags().StringVarP(&flags.ruleSet, "rules", "r", rules.WellFormedness, "rule set name: well-formedness or signature")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "output format: text, json or markdown (default: ui.format)")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "parallel workers (default: jobs from config)")
	cmd.MarkFlagsMutuallyExclusive("all", "changed")

	return cmd
}

func runCheck(ctx context.Context, app *App, rootFlags *rootFlagValues, flags *checkFlagValues, args []string) error {
	if (flags.all || flags.changed) && len(args) > 0 {
		return usageError(errors.New("file arguments cannot be combined with --all or --changed"))
	}
	if !flags.all && !flags.changed && len(args) == 0 {
		return usageError(errors.New("pass metadata files, --all or --changed"))
	}

	typ, err := parseDocumentType(flags.docType)
	if err != nil {
		return usageError(err)
	}

	s, err := app.session(ctx, rootFlags)
	if err != nil {
		return err
	}

	format := report.Format(s.cfg.UI.Format)
	if flags.format != "" {
		format = report.Format(flags.format)
	}
	if err := validateFormat(format); err != nil {
		return usageError(err)
	}

	jobs := s.cfg.Jobs
	if flags.jobs > 0 {
		jobs = flags.jobs
	}

	disc, err := newDiscovery(s)
	if err != nil {
		return usageError(err)
	}

	var entries []discovery.Entry
	switch {
	case flags.all:
		entries, err = disc.All(typ)
	case flags.changed:
		entries, err = disc.Changed(ctx, s.cfg.Git.BaseRef, typ)
	default:
		entries, err = disc.Resolve(args, typ)
	}
	s.renderDiagnostics(disc.Diagnostics())
	if err != nil {
		return discoveryError(err, s.cfg.Git.BaseRef)
	}

	chk := checker.New(checker.Options{
		RuleSet:   flags.ruleSet,
		Extension: s.cfg.DocumentFormat.Extension(),
		Jobs:      jobs,
		Logger:    s.logger,
	})
	results, err := chk.Run(ctx, entries)
	if err != nil {
		var ae *issue.ActionableError
		if errors.As(err, &ae) {
			return usageError(err)
		}
		return ioError(err)
	}

	if err := report.Write(app.stdout, results, report.Options{Format: format, ColorScheme: s.colorScheme()}); err != nil {
		return ioError(fmt.Errorf("write report: %w", err))
	}

	if !checker.AllPassed(results) {
		return &ExitError{Code: types.ExitCheckFailed}
	}
	return nil
}

func newDiscovery(s *session) (*discovery.Discovery, error) {
	return discovery.New(discovery.Options{
		Root:      s.root,
		Extension: s.cfg.DocumentFormat.Extension(),
		Ignore:    s.cfg.Ignore,
		Logger:    s.logger,
	})
}

func parseDocumentType(value string) (rules.RuleSetType, error) {
	if value == "" {
		return "", nil
	}
	typ := rules.RuleSetType(value)
	if ok, errs := typ.IsValid(); !ok {
		return "", errs[0]
	}
	return typ, nil
}

func validateFormat(f report.Format) error {
	switch f {
	case report.FormatText, report.FormatJSON, report.FormatMarkdown:
		return nil
	default:
		return &report.InvalidFormatError{Value: f}
	}
}

// discoveryError attaches catalog guidance to worklist failures.
func discoveryError(err error, baseRef string) error {
	ec := issue.NewErrorContext().Wrap(err)

	var notFound *discovery.FileNotFoundError
	switch {
	case errors.As(err, &notFound):
		return ioError(ec.WithOperation("find metadata file").
			WithResource(notFound.Path).
			WithIssue(issue.MetadataFileNotFoundId).
			WithSuggestion("Pass a path relative to the current directory, or a bare file name with --type").
			Build())
	case errors.Is(err, discovery.ErrUnknownDocumentType):
		return usageError(ec.WithOperation("determine document type").
			WithIssue(issue.UnknownDocumentTypeId).
			WithSuggestion("Move the file under tokens/ or contracts/, or pass --type token|contract").
			Build())
	case errors.Is(err, discovery.ErrGitUnavailable):
		return ioError(ec.WithOperation("list changed metadata files").
			WithResource(baseRef).
			WithIssue(issue.GitRepositoryUnavailableId).
			WithSuggestion("Run inside the registry clone and fetch the base ref, or set git.base_ref").
			Build())
	default:
		return ioError(ec.WithOperation("discover metadata files").Build())
	}
}
