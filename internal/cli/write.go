package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/rtdb/database"
	"github.com/wesleyorama2/rtdb/http"
)

// writeOp describes one of the commands that send a payload.
type writeOp struct {
	name   string
	short  string
	long   string
	method http.Method
	call   func(ref database.Reference, ctx context.Context, payload string) (*http.Response, error)
}

var (
	opSet = writeOp{
		name:   "set",
		short:  "Replace the subtree at PATH with DATA",
		long:   "Replace the whole subtree at PATH with DATA. Existing children not in DATA are removed.",
		method: http.MethodPut,
		call:   database.Reference.Set,
	}
	opPush = writeOp{
		name:   "push",
		short:  "Append DATA under a generated key below PATH",
		long:   "Append DATA as a new child of PATH. The database generates the key and answers {\"name\": KEY}.",
		method: http.MethodPost,
		call:   database.Reference.Push,
	}
	opUpdate = writeOp{
		name:   "update",
		short:  "Merge the keys of DATA into PATH",
		long:   "Merge the keys of the JSON object DATA into PATH. Sibling keys are kept.",
		method: http.MethodPatch,
		call:   database.Reference.Update,
	}
)

func newWriteCmd(flags *rootFlags, op writeOp) *cobra.Command {
	var (
		nodes      []string
		schemaFile string
		keyOnly    bool
	)

	cmd := &cobra.Command{
		Use:   op.name + " PATH DATA",
		Short: op.short,
		Long: op.long + `

DATA is a JSON document, @FILE to read it from a file, or - to read stdin.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readData(args[1], cmd.InOrStdin())
			if err != nil {
				return err
			}
			root, err := openDatabase(cmd, flags, schemaFile)
			if err != nil {
				return err
			}
			ref, err := locate(root, args[0], nodes)
			if err != nil {
				return err
			}

			resp, err := perform(cmd, flags, ref, operation{
				method:  op.method,
				payload: payload,
				call: func(ctx context.Context, ref database.Reference) (*http.Response, error) {
					return op.call(ref, ctx, payload)
				},
			})
			if err != nil {
				return err
			}

			if keyOnly {
				key, err := database.PushedKey(resp)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), key)
				return nil
			}
			printResponse(cmd.OutOrStdout(), formatter(cmd, flags), resp)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&nodes, "node", nil, "Child key appended after PATH (can be used multiple times)")
	cmd.Flags().StringVar(&schemaFile, "schema", "", "JSON Schema file DATA must satisfy")
	if op.method == http.MethodPost {
		cmd.Flags().BoolVar(&keyOnly, "key-only", false, "Print only the generated key")
	}

	return cmd
}

func newRemoveCmd(flags *rootFlags) *cobra.Command {
	var nodes []string

	cmd := &cobra.Command{
		Use:     "remove PATH",
		Aliases: []string{"rm", "delete"},
		Short:   "Delete the subtree at PATH",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := openDatabase(cmd, flags, "")
			if err != nil {
				return err
			}
			ref, err := locate(root, args[0], nodes)
			if err != nil {
				return err
			}

			resp, err := perform(cmd, flags, ref, operation{
				method: http.MethodDelete,
				call: func(ctx context.Context, ref database.Reference) (*http.Response, error) {
					return ref.Remove(ctx)
				},
			})
			if err != nil {
				return err
			}
			printResponse(cmd.OutOrStdout(), formatter(cmd, flags), resp)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&nodes, "node", nil, "Child key appended after PATH (can be used multiple times)")
	return cmd
}
