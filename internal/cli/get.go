package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/rtdb/database"
	"github.com/wesleyorama2/rtdb/http"
	"github.com/wesleyorama2/rtdb/internal/filter"
	"github.com/wesleyorama2/rtdb/pkg/jsonpath"
)

func newGetCmd(flags *rootFlags) *cobra.Command {
	var (
		nodes   []string
		extract string
		jq      string
	)

	cmd := &cobra.Command{
		Use:   "get [PATH]",
		Short: "Read the JSON stored at PATH",
		Long: `Read the JSON stored at PATH. A missing node reads as null.

  rtdb get users/42 --extract '$.name'
  rtdb get users --jq 'keys'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := openDatabase(cmd, flags, "")
			if err != nil {
				return err
			}
			ref, err := locate(root, firstArg(args), nodes)
			if err != nil {
				return err
			}

			resp, err := perform(cmd, flags, ref, operation{
				method: http.MethodGet,
				call: func(ctx context.Context, ref database.Reference) (*http.Response, error) {
					return ref.Get(ctx)
				},
			})
			if err != nil {
				return err
			}

			f := formatter(cmd, flags)
			switch {
			case extract != "":
				value, err := jsonpath.Extract(resp.Body(), extract)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), f.FormatValue(value))
			case jq != "":
				value, err := filter.ApplyToJSON(resp.Bytes(), jq)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), f.FormatValue(string(value)))
			default:
				printResponse(cmd.OutOrStdout(), f, resp)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&nodes, "node", nil, "Child key appended after PATH (can be used multiple times)")
	cmd.Flags().StringVar(&extract, "extract", "", "JSONPath expression selecting part of the result")
	cmd.Flags().StringVar(&jq, "jq", "", "jq expression applied to the result")
	cmd.MarkFlagsMutuallyExclusive("extract", "jq")

	return cmd
}

func newURLCmd(flags *rootFlags) *cobra.Command {
	var nodes []string

	cmd := &cobra.Command{
		Use:   "url [PATH]",
		Short: "Print the URL a request for PATH would use",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := openDatabase(cmd, flags, "")
			if err != nil {
				return err
			}
			ref, err := locate(root, firstArg(args), nodes)
			if err != nil {
				return err
			}
			req, err := ref.Request(http.MethodGet, "")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), req.URL)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&nodes, "node", nil, "Child key appended after PATH (can be used multiple times)")
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
