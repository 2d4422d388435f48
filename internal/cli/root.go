// Package cli implements invoicedeskctl, an admin tool that works directly on
// a storage area shared with the server.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json" | "yaml"
	Backend string
	Dir     string
	Strict  bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for invoicedeskctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "invoicedeskctl",
		Short: "Inspect and edit an invoicedesk storage area",
		Long: `invoicedeskctl reads and writes the same storage area as the server:
document collections, the admin authentication flag and the page guard.

Storage settings default to the server's environment variables
(STORAGE_BACKEND, STORAGE_DIR, DATABASE_URL, REDIS_URL) and can be
overridden with flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "storage backend (file|postgres|redis|memory); defaults to STORAGE_BACKEND")
	cmd.PersistentFlags().StringVar(&opts.Dir, "dir", "", "storage directory for the file backend; defaults to STORAGE_DIR")
	cmd.PersistentFlags().BoolVar(&opts.Strict, "strict", false, "fail on corrupted collections instead of treating them as empty")

	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewNavigateCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewHashPasswordCommand(opts))

	return cmd
}
