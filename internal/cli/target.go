package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	rtdbconfig "github.com/wesleyorama2/rtdb/config"
	"github.com/wesleyorama2/rtdb/database"
	"github.com/wesleyorama2/rtdb/internal/config"
	"github.com/wesleyorama2/rtdb/pkg/jsonschema"
)

// loadConfig returns the config named by --config, or the one found at the
// default location. A missing default file is not an error.
func loadConfig(flags *rootFlags) (*config.Config, error) {
	if flags.configPath != "" {
		return config.LoadConfig(flags.configPath)
	}
	path := config.DefaultPath()
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && os.Getenv(config.EnvConfigPath) == "" {
		return nil, nil
	}
	return config.LoadConfig(path)
}

// resolveProfile merges the selected profile with the environment and flags.
// Flags win over $RTDB_URL, which wins over the profile.
func resolveProfile(cmd *cobra.Command, flags *rootFlags) (config.Profile, *config.Config, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return config.Profile{}, nil, err
	}

	var profile config.Profile
	if cfg != nil {
		if profile, err = cfg.Profile(flags.profile); err != nil {
			return config.Profile{}, nil, err
		}
	} else if flags.profile != "" {
		return config.Profile{}, nil, fmt.Errorf("profile %q requested but no config file found", flags.profile)
	}

	if u := os.Getenv(config.EnvBaseURL); u != "" {
		profile.BaseURL = u
	}
	if flags.url != "" {
		profile.BaseURL = flags.url
	}
	if profile.BaseURL == "" {
		return config.Profile{}, nil, fmt.Errorf("no database URL: use --url, $%s or a config profile", config.EnvBaseURL)
	}

	headers := make(map[string]string, len(profile.Headers)+len(flags.headers))
	for k, v := range profile.Headers {
		headers[k] = v
	}
	for _, h := range flags.headers {
		key, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(key) == "" {
			return config.Profile{}, nil, fmt.Errorf("invalid header %q, want 'Name: value'", h)
		}
		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	profile.Headers = headers

	if cmd.Flags().Changed("timeout") {
		profile.Timeout = flags.timeout.String()
	}
	profile.JSONSuffix = profile.JSONSuffix || flags.jsonSuffix

	return profile, cfg, nil
}

// openDatabase builds the root reference for the resolved profile. schemaFile,
// when set, is checked against every payload in addition to the profile's
// schemas.
func openDatabase(cmd *cobra.Command, flags *rootFlags, schemaFile string) (database.Reference, error) {
	profile, cfg, err := resolveProfile(cmd, flags)
	if err != nil {
		return database.Reference{}, err
	}

	var extra []database.PayloadValidator
	if schemaFile != "" {
		schema, err := jsonschema.CompileFile(schemaFile)
		if err != nil {
			return database.Reference{}, err
		}
		extra = append(extra, database.PayloadValidatorFunc(func(_, payload string) error {
			if err := schema.Validate(payload); err != nil {
				return fmt.Errorf("schema %s: %w", schema.Name(), err)
			}
			return nil
		}))
	}

	opts, err := rtdbconfig.Options(cfg, profile, extra...)
	if err != nil {
		return database.Reference{}, err
	}
	return database.New(profile.BaseURL, opts...)
}

// locate applies PATH verbatim and then each --node as a single validated
// segment. An empty PATH or "/" addresses the root.
func locate(root database.Reference, path string, nodes []string) (database.Reference, error) {
	ref := root
	if p := strings.Trim(path, "/"); p != "" {
		ref = root.Path(p)
	}
	return ref.Children(nodes...)
}

// readData resolves a DATA argument: "-" reads stdin, "@file" reads a file,
// anything else is the payload itself.
func readData(arg string, stdin io.Reader) (string, error) {
	switch {
	case arg == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read data from stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	case strings.HasPrefix(arg, "@"):
		data, err := os.ReadFile(arg[1:])
		if err != nil {
			return "", fmt.Errorf("failed to read data file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return arg, nil
}
