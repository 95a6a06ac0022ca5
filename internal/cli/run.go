package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/rtdb/database"
	"github.com/wesleyorama2/rtdb/http"
	"github.com/wesleyorama2/rtdb/internal/output"
)

// operation describes one database call issued by a command.
type operation struct {
	method  http.Method
	payload string
	call    func(ctx context.Context, ref database.Reference) (*http.Response, error)
}

// formatter picks the output provider for the command's stdout.
func formatter(cmd *cobra.Command, flags *rootFlags) output.FormatProvider {
	format, _ := output.ParseFormat(flags.output)
	noColor := true
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		noColor = !output.UseColor(f, flags.noColor)
	}
	return output.GetFormatter(format, flags.verbose, noColor)
}

// perform issues op against ref and prints the response. A failure status is
// printed like any other response and returned as a *StatusError.
func perform(cmd *cobra.Command, flags *rootFlags, ref database.Reference, op operation) (*http.Response, error) {
	f := formatter(cmd, flags)

	if flags.verbose {
		req, err := ref.Request(op.method, op.payload)
		if err != nil {
			return nil, err
		}
		fmt.Fprint(cmd.ErrOrStderr(), f.FormatRequest(req))
	}

	resp, err := op.call(cmd.Context(), ref)
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		fmt.Fprint(cmd.OutOrStdout(), f.FormatResponse(resp))
		return resp, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return resp, nil
}

func printResponse(w io.Writer, f output.FormatProvider, resp *http.Response) {
	fmt.Fprint(w, f.FormatResponse(resp))
}
