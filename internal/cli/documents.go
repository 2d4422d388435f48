package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"invoicedesk/internal/domain/documents"
)

// SaveOptions holds flags for the save command.
type SaveOptions struct {
	*RootOptions
	Data string
	File string
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "save <invoice|quotation|receipt>",
		Short: "Append a JSON record to a document collection",
		Long: `Append one JSON record to the collection of the given document type.
The record is read from --data, --file, or stdin, and stored as is.

Examples:
  invoicedeskctl save invoice --data '{"client":"Acme","amount":100}'
  invoicedeskctl save receipt --file receipt.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docType, err := documents.ParseType(args[0])
			if err != nil {
				return err
			}

			record, err := opts.readRecord(cmd.InOrStdin())
			if err != nil {
				return err
			}

			ctx, err := commandContext(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			a, err := openApp(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.documents.SaveItem(ctx, docType, record); err != nil {
				return err
			}

			items, err := a.documents.GetItems(ctx, docType)
			if err != nil {
				return err
			}
			result := map[string]any{"type": docType, "count": len(items)}
			return newFormatter(rootOpts, cmd.OutOrStdout()).Write(result,
				Textf("saved %s (%d in collection)", docType, len(items)))
		},
	}

	cmd.Flags().StringVar(&opts.Data, "data", "", "record as inline JSON")
	cmd.Flags().StringVar(&opts.File, "file", "", "path to a file holding the JSON record")
	cmd.MarkFlagsMutuallyExclusive("data", "file")

	return cmd
}

func (o *SaveOptions) readRecord(stdin io.Reader) (json.RawMessage, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case o.Data != "":
		data = []byte(o.Data)
	case o.File != "":
		data, err = os.ReadFile(o.File)
	default:
		data, err = io.ReadAll(stdin)
	}
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("record is not valid JSON")
	}
	return json.RawMessage(data), nil
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <invoice|quotation|receipt>",
		Short: "Print the records of a document collection in insertion order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docType, err := documents.ParseType(args[0])
			if err != nil {
				return err
			}

			ctx, err := commandContext(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			a, err := openApp(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			items, err := a.documents.GetItems(ctx, docType)
			if err != nil {
				return err
			}

			return newFormatter(rootOpts, cmd.OutOrStdout()).Write(items, func(w io.Writer) error {
				if len(items) == 0 {
					_, err := fmt.Fprintf(w, "no %s records\n", docType)
					return err
				}
				for i, item := range items {
					if _, err := fmt.Fprintf(w, "%d\t%s\n", i+1, item); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
