package config

import (
	"strings"
	"time"

	"github.com/wesleyorama2/rtdb/database"
	"github.com/wesleyorama2/rtdb/http"
	internal "github.com/wesleyorama2/rtdb/internal/config"
	"github.com/wesleyorama2/rtdb/pkg/jsonschema"
)

// DefaultTimeout applies to profiles without a timeout.
const DefaultTimeout = 30 * time.Second

type (
	// Config is a loaded profile file.
	Config = internal.Config
	// Profile describes one database.
	Profile = internal.Profile
)

// Load reads and validates a profile file.
func Load(path string) (*Config, error) {
	return internal.LoadConfig(path)
}

// Open loads the file at path and returns the root reference of the named
// profile. An empty name selects the default profile.
func Open(path, profile string, opts ...database.Option) (database.Reference, error) {
	cfg, err := Load(path)
	if err != nil {
		return database.Reference{}, err
	}
	p, err := cfg.Profile(profile)
	if err != nil {
		return database.Reference{}, err
	}
	profileOpts, err := Options(cfg, p)
	if err != nil {
		return database.Reference{}, err
	}
	return database.New(p.BaseURL, append(profileOpts, opts...)...)
}

// Options translates p into database options. Schema files are compiled
// now, relative to cfg when it is not nil. Every extra validator runs after
// the profile's schemas.
func Options(cfg *Config, p Profile, extra ...database.PayloadValidator) ([]database.Option, error) {
	opts := []database.Option{
		database.WithClientOptions(http.WithTimeout(p.TimeoutDuration(DefaultTimeout))),
	}
	for k, v := range p.Headers {
		opts = append(opts, database.WithHeader(k, v))
	}
	if p.JSONSuffix {
		opts = append(opts, database.WithJSONSuffix())
	}

	var checks Validators
	if len(p.Schemas) > 0 {
		pv := jsonschema.NewPathValidator(strings.TrimRight(p.BaseURL, "/"))
		for pattern, file := range p.Schemas {
			if cfg != nil {
				file = cfg.SchemaPath(file)
			}
			schema, err := jsonschema.CompileFile(file)
			if err != nil {
				return nil, err
			}
			if err := pv.Add(pattern, schema); err != nil {
				return nil, err
			}
		}
		checks = append(checks, pv)
	}
	checks = append(checks, extra...)
	if len(checks) > 0 {
		opts = append(opts, database.WithPayloadValidator(checks))
	}

	return opts, nil
}

// Validators requires every validator to accept the payload.
type Validators []database.PayloadValidator

// ValidatePayload returns the first rejection.
func (vs Validators) ValidatePayload(locator, payload string) error {
	for _, v := range vs {
		if err := v.ValidatePayload(locator, payload); err != nil {
			return err
		}
	}
	return nil
}
