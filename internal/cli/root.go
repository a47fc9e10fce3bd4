// Package cli is the saarevents command-line interface. Every command builds
// the application services, restores the stored session and prints JSON.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/target/saarevents/internal/bootstrap"
	apperrors "github.com/target/saarevents/internal/errors"
)

// Exit codes returned by Execute.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitUsage        = 2
	ExitUnauthorized = 3
)

// Options wires the CLI to its environment. Zero values select the real
// terminal and the configuration from the process environment.
type Options struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// NewApp builds the services for one invocation.
	NewApp func(ctx context.Context) (*bootstrap.App, error)
	// ReadPassword reads a secret without echo.
	ReadPassword func() ([]byte, error)
	// OpenURL is called with the federated sign-in URL; the URL is always printed too.
	OpenURL func(url string) error
}

func (o Options) withDefaults() Options {
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
	if o.NewApp == nil {
		o.NewApp = defaultApp
	}
	if o.ReadPassword == nil {
		o.ReadPassword = func() ([]byte, error) { return term.ReadPassword(int(os.Stdin.Fd())) }
	}
	return o
}

func defaultApp(ctx context.Context) (*bootstrap.App, error) {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := bootstrap.InitLogger(cfg.LogLevel.Level(), cfg.IsDev)
	return bootstrap.NewApp(ctx, bootstrap.AppDeps{Config: cfg, Logger: logger})
}

// runner carries per-invocation state shared by the commands.
type runner struct {
	opts  Options
	query string
}

// NewRootCommand builds the command tree.
func NewRootCommand(opts Options) *cobra.Command {
	r := &runner{opts: opts.withDefaults()}

	root := &cobra.Command{
		Use:   "saarevents",
		Short: "Browse Saarland events and manage your account",
		Long: `saarevents talks to the Saarland events API.

The signed-in session is stored locally (or in Redis when SESSION_BACKEND=redis)
and restored on every invocation. Output is JSON; use --query to filter it
with a JMESPath expression.

Examples:
  saarevents login --username alice
  saarevents events list --city Saarbrücken
  saarevents favorites toggle 12
  saarevents whoami --query username`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})
	root.SetIn(r.opts.In)
	root.SetOut(r.opts.Out)
	root.SetErr(r.opts.Err)
	root.PersistentFlags().StringVarP(&r.query, "query", "q", "", "JMESPath expression applied to the JSON output")

	root.AddGroup(
		&cobra.Group{ID: groupAccount, Title: "Account:"},
		&cobra.Group{ID: groupEvents, Title: "Events:"},
		&cobra.Group{ID: groupAdmin, Title: "Administration:"},
	)
	root.AddCommand(
		r.loginCommand(),
		r.registerCommand(),
		r.passwordCommand(),
		r.logoutCommand(),
		r.whoamiCommand(),
		r.syncCommand(),
		r.favoritesCommand(),
		r.eventsCommand(),
		r.categoriesCommand(),
		r.citiesCommand(),
		r.reviewsCommand(),
		r.remindCommand(),
		r.submitCommand(),
		r.adminCommand(),
	)
	return root
}

const (
	groupAccount = "account"
	groupEvents  = "events"
	groupAdmin   = "admin"
)

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, opts Options, args []string) int {
	root := NewRootCommand(opts)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	errOut := root.ErrOrStderr()
	_, _ = fmt.Fprintln(errOut, "error:", err)
	return ExitCode(err)
}

// ExitCode maps a command error onto a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case apperrors.IsUnauthorized(err), apperrors.IsSessionInvalid(err),
		errors.Is(err, apperrors.ErrForbidden):
		return ExitUnauthorized
	case apperrors.IsValidation(err), errors.Is(err, errUsage):
		return ExitUsage
	default:
		return ExitFailure
	}
}

var errUsage = errors.New("usage")

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// withApp builds the services, restores and syncs the stored session, runs fn
// and releases everything afterwards.
func (r *runner) withApp(cmd *cobra.Command, fn func(ctx context.Context, app *bootstrap.App) error) error {
	ctx := cmd.Context()
	app, err := r.opts.NewApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			app.Logger.WarnContext(ctx, "release resources", "error", cerr)
		}
	}()

	if _, err := app.Session.Init(ctx); err != nil {
		if !apperrors.IsSessionInvalid(err) {
			return fmt.Errorf("restore session: %w", err)
		}
		// The stale session has already been cleared; continue signed out.
		app.Logger.WarnContext(ctx, "stored session is no longer valid", "error", err)
	}
	return fn(ctx, app)
}
