package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"invoicedesk/internal/domain/auth"
)

// LoginOptions holds flags for the login command.
type LoginOptions struct {
	*RootOptions
	Username string
	Password string
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check admin credentials and set the authentication flag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := commandContext(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			a, err := openApp(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.auth.Login(ctx, auth.Credentials{Username: opts.Username, Password: opts.Password}); err != nil {
				return err
			}
			return newFormatter(rootOpts, cmd.OutOrStdout()).Write(
				map[string]bool{"authenticated": true}, Textf("logged in"))
		},
	}

	cmd.Flags().StringVarP(&opts.Username, "username", "u", "admin", "admin username")
	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "admin password")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the authentication flag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := commandContext(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			a, err := openApp(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.auth.Logout(ctx); err != nil {
				return err
			}
			return newFormatter(rootOpts, cmd.OutOrStdout()).Write(
				map[string]bool{"authenticated": false}, Textf("logged out"))
		},
	}
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the authentication flag is set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := commandContext(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			a, err := openApp(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			ok, err := a.auth.IsAuthenticated(ctx)
			if err != nil {
				return err
			}
			return newFormatter(rootOpts, cmd.OutOrStdout()).Write(
				map[string]bool{"authenticated": ok}, Textf("authenticated: %t", ok))
		},
	}
}

// NewHashPasswordCommand creates the hash-password command, which prints a
// value for ADMIN_PASSWORD_HASH.
func NewHashPasswordCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return err
		},
	}
}
