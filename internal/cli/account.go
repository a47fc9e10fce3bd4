package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/target/saarevents/internal/bootstrap"
	domainauth "github.com/target/saarevents/internal/domain/auth"
	"github.com/target/saarevents/internal/domain/model"
)

type loginFlags struct {
	username  string
	token     string
	federated bool
	stdinPass bool
}

func (r *runner) loginCommand() *cobra.Command {
	var f loginFlags
	cmd := &cobra.Command{
		Use:     "login",
		GroupID: groupAccount,
		Short:   "Sign in with a password, a token or a federated provider",
		Long: `Sign in and store the session for later commands.

Without flags the username and password are prompted for. --federated opens
the provider's sign-in page and waits for the redirect on a local callback
server. --token signs in with a credential obtained elsewhere.

Examples:
  saarevents login --username alice
  echo "$PASSWORD" | saarevents login --username alice --password-stdin
  saarevents login --federated
  saarevents login --token eyJhbGciOi...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				id, err := r.login(ctx, cmd, app, f)
				if err != nil {
					return err
				}
				return r.printJSON(cmd.OutOrStdout(), viewOf(id, true))
			})
		},
	}
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "account username")
	cmd.Flags().BoolVar(&f.stdinPass, "password-stdin", false, "read the password from stdin")
	cmd.Flags().StringVar(&f.token, "token", "", "sign in with an existing bearer credential")
	cmd.Flags().BoolVar(&f.federated, "federated", false, "sign in through the configured identity provider")
	cmd.MarkFlagsMutuallyExclusive("token", "federated", "username")
	return cmd
}

func (r *runner) login(ctx context.Context, cmd *cobra.Command, app *bootstrap.App, f loginFlags) (domainauth.Identity, error) {
	switch {
	case f.token != "":
		return app.Session.LoginWithCredential(ctx, strings.TrimSpace(f.token))
	case f.federated:
		return r.federatedLogin(ctx, cmd, app)
	}

	in := bufio.NewReader(cmd.InOrStdin())
	username := f.username
	if username == "" {
		u, err := prompt(in, cmd.ErrOrStderr(), "Username: ")
		if err != nil {
			return domainauth.Identity{}, err
		}
		username = u
	}
	password, err := r.password(in, cmd.ErrOrStderr(), f.stdinPass)
	if err != nil {
		return domainauth.Identity{}, err
	}
	return app.Session.SignIn(ctx, model.SignInInput{Username: username, Password: password})
}

func (r *runner) federatedLogin(ctx context.Context, cmd *cobra.Command, app *bootstrap.App) (domainauth.Identity, error) {
	srv, err := bootstrap.StartCallbackServer(bootstrap.CallbackServerConfig{
		Addr:    app.Config.Callback.Addr,
		Service: app.Session,
		Logger:  app.Logger,
	})
	if err != nil {
		return domainauth.Identity{}, err
	}
	defer func() {
		if serr := srv.Shutdown(context.WithoutCancel(ctx)); serr != nil {
			app.Logger.WarnContext(ctx, "stop callback server", "error", serr)
		}
	}()

	begin, err := app.Session.BeginFederatedLogin(srv.RedirectURL())
	if err != nil {
		return domainauth.Identity{}, err
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Open this URL to sign in:\n  %s\n", begin.AuthURL)
	if r.opts.OpenURL != nil {
		if oerr := r.opts.OpenURL(begin.AuthURL); oerr != nil {
			app.Logger.DebugContext(ctx, "open browser", "error", oerr)
		}
	}

	timeout := app.Config.Callback.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return srv.Wait(waitCtx)
}

type registerFlags struct {
	username  string
	email     string
	stdinPass bool
}

func (r *runner) registerCommand() *cobra.Command {
	var f registerFlags
	cmd := &cobra.Command{
		Use:     "register",
		GroupID: groupAccount,
		Short:   "Create a new account",
		Long: `Create a new account. Registration does not sign in; run login afterwards.

Example:
  saarevents register --username bob --email bob@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				in := bufio.NewReader(cmd.InOrStdin())
				password, err := r.password(in, cmd.ErrOrStderr(), f.stdinPass)
				if err != nil {
					return err
				}
				resp, err := app.Session.Register(ctx, model.SignUpInput{
					Username: f.username,
					Email:    f.email,
					Password: password,
				})
				if err != nil {
					return err
				}
				return r.printJSON(cmd.OutOrStdout(), resp)
			})
		},
	}
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "account username")
	cmd.Flags().StringVar(&f.email, "email", "", "account e-mail address")
	cmd.Flags().BoolVar(&f.stdinPass, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (r *runner) passwordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "password",
		GroupID: groupAccount,
		Short:   "Recover a forgotten password",
	}

	var email string
	forgot := &cobra.Command{
		Use:   "forgot",
		Short: "E-mail a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.Session.ForgotPassword(ctx, email); err != nil {
					return err
				}
				return r.printJSON(cmd.OutOrStdout(), model.MessageResponse{
					Message: "If the address is registered, a reset link is on its way.",
				})
			})
		},
	}
	forgot.Flags().StringVar(&email, "email", "", "account e-mail address")
	_ = forgot.MarkFlagRequired("email")

	var token string
	var stdinPass bool
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Set a new password with the token from a reset link",
		Long: `Set a new password with the token from a reset link. The new password is
prompted for unless --password-stdin is given.

Example:
  saarevents password reset --token 3f2c...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				in := bufio.NewReader(cmd.InOrStdin())
				password, err := r.password(in, cmd.ErrOrStderr(), stdinPass)
				if err != nil {
					return err
				}
				if err := app.Session.ResetPassword(ctx, token, password); err != nil {
					return err
				}
				return r.printJSON(cmd.OutOrStdout(), model.MessageResponse{
					Message: "Password changed. Sign in with the new password.",
				})
			})
		},
	}
	reset.Flags().StringVar(&token, "token", "", "token from the reset link")
	reset.Flags().BoolVar(&stdinPass, "password-stdin", false, "read the new password from stdin")
	_ = reset.MarkFlagRequired("token")

	cmd.AddCommand(forgot, reset)
	return cmd
}

func (r *runner) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		GroupID: groupAccount,
		Short:   "Forget the stored session",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.Session.Logout(ctx); err != nil {
					return err
				}
				return r.printJSON(cmd.OutOrStdout(), identityView{})
			})
		},
	}
}

func (r *runner) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "whoami",
		GroupID: groupAccount,
		Short:   "Show the signed-in user",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(_ context.Context, app *bootstrap.App) error {
				id, present := app.Session.Current()
				return r.printJSON(cmd.OutOrStdout(), viewOf(id, present))
			})
		},
	}
}

// syncView reports the outcome of an explicit profile sync.
type syncView struct {
	identityView
	Favorites []int64 `json:"favorites"`
}

func (r *runner) syncCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "sync",
		GroupID: groupAccount,
		Short:   "Refresh the profile and favorites from the server",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				id, err := app.Session.Refresh(ctx)
				if err != nil {
					return err
				}
				_, present := app.Session.Current()
				return r.printJSON(cmd.OutOrStdout(), syncView{
					identityView: viewOf(id, present),
					Favorites:    app.Session.Favorites().IDs(),
				})
			})
		},
	}
}

func prompt(in *bufio.Reader, w io.Writer, label string) (string, error) {
	if _, err := fmt.Fprint(w, label); err != nil {
		return "", err
	}
	line, err := in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimSpace(line), nil
}

func (r *runner) password(in *bufio.Reader, w io.Writer, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	if _, err := fmt.Fprint(w, "Password: "); err != nil {
		return "", err
	}
	pw, err := r.opts.ReadPassword()
	_, _ = fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}
