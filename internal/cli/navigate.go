package cli

import (
	"io"

	"github.com/spf13/cobra"
)

type navigateResult struct {
	Path      string `json:"path"`
	Component string `json:"component"`
	Outcome   string `json:"outcome"`
	Target    string `json:"target"`
}

// NewNavigateCommand creates the navigate command, which evaluates the page
// guard for a path against the current flag.
func NewNavigateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "navigate <path>",
		Short: "Evaluate the page guard for a path",
		Long: `Evaluate the page guard for a path against the current authentication flag.

Examples:
  invoicedeskctl navigate /invoice
  invoicedeskctl navigate / --format json`,
		Args: cobra.ExactArgs(1),
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

			decision, err := a.navigator.Navigate(ctx, args[0])
			if err != nil {
				return err
			}

			result := navigateResult{
				Path:      decision.Route.Path,
				Component: decision.Route.Component,
				Outcome:   string(decision.Outcome),
				Target:    decision.Target,
			}
			return newFormatter(rootOpts, cmd.OutOrStdout()).Write(result, func(w io.Writer) error {
				if decision.Allowed() {
					return Textf("allow %s -> %s", result.Path, result.Component)(w)
				}
				return Textf("redirect %s -> %s", result.Path, result.Target)(w)
			})
		},
	}
}
