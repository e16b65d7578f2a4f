// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"

	"github.com/tokenregistry/metacheck/internal/config"
	"github.com/tokenregistry/metacheck/internal/discovery"
	"github.com/tokenregistry/metacheck/internal/issue"
	"github.com/tokenregistry/metacheck/internal/logging"
	"github.com/tokenregistry/metacheck/internal/report"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// App wires CLI services and output writers. It is the composition root
	// for the command tree.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// session is the per-invocation state derived from flags and configuration.
	session struct {
		cfg     *config.Config
		logger  *log.Logger
		root    string
		verbose bool
	}
)

// NewApp creates an App, filling unset dependencies with defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// Run executes the command line args and returns the process exit status.
func (a *App) Run(ctx context.Context, args []string) int {
	flags := &rootFlagValues{}
	root := newRootCommand(a, flags)
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := fang.Execute(ctx, root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			a.handleError(w, styles, err, flags.verbose)
		}),
	)
	return int(exitCode(err))
}

// session loads configuration and applies the global flags on top of it.
func (a *App) session(ctx context.Context, flags *rootFlagValues) (*session, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return nil, usageError(err)
	}

	verbose := flags.verbose || cfg.UI.Verbose
	root := cfg.MetadataDir
	if flags.dir != "" {
		root = flags.dir
	}

	logger := logging.New(logging.Options{Verbose: verbose, Writer: a.stderr})
	logger.Debug("configuration loaded", "metadata_dir", root, "format", cfg.DocumentFormat, "jobs", cfg.Jobs)

	return &session{cfg: cfg, logger: logger, root: root, verbose: verbose}, nil
}

func (s *session) colorScheme() report.ColorScheme {
	return report.ColorScheme(s.cfg.UI.ColorScheme)
}

// renderDiagnostics logs non-fatal discovery problems as warnings.
func (s *session) renderDiagnostics(diags []discovery.Diagnostic) {
	for _, d := range diags {
		kv := []any{"code", d.Code}
		if d.Path != "" {
			kv = append(kv, "path", d.Path)
		}
		if d.Cause != nil {
			kv = append(kv, "err", d.Cause)
		}
		if d.Severity == discovery.SeverityError {
			s.logger.Error(d.Message, kv...)
		} else {
			s.logger.Warn(d.Message, kv...)
		}
	}
}

// handleError prints command failures. Check failures were already reported
// by the renderer; actionable errors get their suggestions and, in verbose
// mode, the catalog guidance for their issue.
func (a *App) handleError(w io.Writer, styles fang.Styles, err error, verbose bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		fang.DefaultErrorHandler(w, styles, err)
		return
	}

	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+ae.Format(verbose))
	if !verbose || ae.Issue == 0 {
		return
	}
	if guide := issue.Get(ae.Issue); guide != nil {
		if out, renderErr := guide.Render("notty"); renderErr == nil {
			fmt.Fprint(w, out)
		}
	}
}
