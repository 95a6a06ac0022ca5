package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	rtdbconfig "github.com/wesleyorama2/rtdb/config"
	"github.com/wesleyorama2/rtdb/internal/output"
)

var version = "0.1.0"

// rootFlags holds the persistent flags shared by every command.
type rootFlags struct {
	configPath string
	profile    string
	url        string
	headers    []string
	timeout    time.Duration
	jsonSuffix bool
	output     string
	verbose    bool
	noColor    bool
	debug      bool
}

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:     "rtdb",
		Short:   "Read and write a realtime JSON database from the terminal",
		Version: version,
		Long: `rtdb addresses nodes of a realtime JSON database by path and reads,
replaces, appends to, merges into or deletes them over its REST interface.

  rtdb get users/42
  rtdb set users/42 '{"name":"Ada"}'
  rtdb push posts @post.json
  rtdb update users/42 '{"age":36}'
  rtdb remove users/42

A failure status from the database is printed and reported with exit code 3.
Transport failures exit with code 2.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := output.ParseFormat(flags.output); err != nil {
				return err
			}
			setupLogger(cmd.ErrOrStderr(), flags.debug)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Config file (default $RTDB_CONFIG or ~/.config/rtdb/config.yaml)")
	pf.StringVarP(&flags.profile, "profile", "p", "", "Profile to use from the config file")
	pf.StringVar(&flags.url, "url", "", "Database base URL (overrides $RTDB_URL and the profile)")
	pf.StringArrayVarP(&flags.headers, "header", "H", nil, "HTTP headers to include (can be used multiple times)")
	pf.DurationVarP(&flags.timeout, "timeout", "t", rtdbconfig.DefaultTimeout, "Request timeout")
	pf.BoolVar(&flags.jsonSuffix, "json-suffix", false, "Append .json to every request URL")
	pf.StringVarP(&flags.output, "output", "o", string(output.FormatText), "Output format: text, json, yaml or raw")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Show request, timing and headers")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	pf.BoolVar(&flags.debug, "debug", false, "Log debug records to stderr")

	root.AddCommand(
		newGetCmd(flags),
		newWriteCmd(flags, opSet),
		newWriteCmd(flags, opPush),
		newWriteCmd(flags, opUpdate),
		newRemoveCmd(flags),
		newURLCmd(flags),
		newVersionCmd(),
	)

	return root
}

// setupLogger installs the default slog logger: debug level when enabled,
// warnings only otherwise.
func setupLogger(w io.Writer, debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	root := NewRootCmd()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err != nil && !isReported(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rtdb version %s\n", version)
		},
	}
}
