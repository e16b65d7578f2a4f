// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tokenregistry/metacheck/internal/checker"
	"github.com/tokenregistry/metacheck/internal/report"
	"github.com/tokenregistry/metacheck/internal/watch"
)

func newWatchCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	var (
		ruleSet  string
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-check metadata documents as they change",
		Long: `Check every document once, then watch tokens/ and contracts/ and
re-check documents whenever they are written. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), app, rootFlags, ruleSet, debounce)
		},
	}
	cmd.Flags().StringVarP(&ruleSet, "rules", "r", "", "rule set name (default: well-formedness)")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-checking")

	return cmd
}

func runWatch(ctx context.Context, app *App, rootFlags *rootFlagValues, ruleSet string, debounce time.Duration) error {
	s, err := app.session(ctx, rootFlags)
	if err != nil {
		return err
	}

	disc, err := newDiscovery(s)
	if err != nil {
		return usageError(err)
	}
	chk := checker.New(checker.Options{
		RuleSet:   ruleSet,
		Extension: s.cfg.DocumentFormat.Extension(),
		Jobs:      s.cfg.Jobs,
		Logger:    s.logger,
	})
	opts := report.Options{Format: report.FormatText, ColorScheme: s.colorScheme()}

	entries, err := disc.All("")
	if err != nil {
		return discoveryError(err, s.cfg.Git.BaseRef)
	}
	s.renderDiagnostics(disc.Diagnostics())
	results, err := chk.Run(ctx, entries)
	if err != nil {
		return usageError(err)
	}
	if err := report.Write(app.stdout, results, opts); err != nil {
		return ioError(err)
	}

	w, err := watch.New(watch.Config{
		Root:      s.root,
		Extension: s.cfg.DocumentFormat.Extension(),
		Ignore:    s.cfg.Ignore,
		Debounce:  debounce,
		Logger:    s.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			entries, err := disc.Resolve(changed, "")
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "\n%s %d document(s) changed\n", CmdStyle.Render("→"), len(entries))
			results, err := chk.Run(ctx, entries)
			if err != nil {
				return err
			}
			return report.Write(app.stdout, results, opts)
		},
	})
	if err != nil {
		return usageError(err)
	}

	fmt.Fprintf(app.stdout, "\n%s Watching %s for changes (Ctrl+C to stop)...\n", CmdStyle.Render("→"), s.root)
	if err := w.Run(ctx); err != nil {
		return ioError(err)
	}
	return nil
}
