package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"invoicedesk/internal/core/kv"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	Max int
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print changes to storage keys as they happen",
		Long: `Print changes to storage keys as they happen, including writes made by
the server or other invoicedeskctl processes. The file and postgres
backends support watching.`,
		Args: cobra.NoArgs,
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

			w, ok := a.res.Area.(kv.Watcher)
			if !ok {
				return fmt.Errorf("storage backend does not support watching")
			}
			events, err := w.Watch(ctx)
			if err != nil {
				return err
			}

			out := newFormatter(rootOpts, cmd.OutOrStdout())
			seen := 0
			for ev := range events {
				change := "changed"
				if ev.Deleted {
					change = "deleted"
				}
				if err := out.Write(ev, Textf("%s %s", ev.Key, change)); err != nil {
					return err
				}
				seen++
				if opts.Max > 0 && seen >= opts.Max {
					return nil
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Max, "max", 0, "exit after this many events (0 watches until interrupted)")

	return cmd
}
