package config

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sahilm/fuzzy"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors joins several validation errors into one error.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report field names as they are spelled in the file
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		_, err := ParseDuration(fl.Field().String())
		return err == nil
	})

	return v
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) []ValidationError {
	var errs []ValidationError

	if len(config.Profiles) == 0 {
		errs = append(errs, ValidationError{
			Path:    "profiles",
			Message: "at least one profile is required",
		})
	}

	if config.Default != "" {
		if _, ok := config.Profiles[config.Default]; !ok {
			errs = append(errs, ValidationError{
				Path:    "default",
				Message: fmt.Sprintf("profile not found: %s", config.Default),
			})
		}
	}

	if err := validate.Struct(config); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return append(errs, ValidationError{Path: "config", Message: err.Error()})
		}
		for _, fe := range fieldErrs {
			errs = append(errs, ValidationError{
				Path:    strings.TrimPrefix(fe.Namespace(), "Config."),
				Message: describe(fe),
			})
		}
	}

	return errs
}

// ValidateProfile validates a single profile, e.g. one built from flags.
func ValidateProfile(p Profile) []ValidationError {
	var errs []ValidationError
	if err := validate.Struct(p); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return []ValidationError{{Path: "profile", Message: err.Error()}}
		}
		for _, fe := range fieldErrs {
			errs = append(errs, ValidationError{
				Path:    strings.TrimPrefix(fe.Namespace(), "Profile."),
				Message: describe(fe),
			})
		}
	}
	return errs
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return fmt.Sprintf("invalid URL: %v", fe.Value())
	case "startswith":
		return fmt.Sprintf("must start with %s", fe.Param())
	case "duration":
		return fmt.Sprintf("invalid duration: %v", fe.Value())
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

// Profile returns the named profile. An empty name selects the default
// profile, or the only profile when there is just one.
func (c *Config) Profile(name string) (Profile, error) {
	if name == "" {
		name = c.Default
	}
	if name == "" {
		if len(c.Profiles) == 1 {
			for _, p := range c.Profiles {
				return p, nil
			}
		}
		return Profile{}, fmt.Errorf("no profile selected and no default profile set")
	}

	if p, ok := c.Profiles[name]; ok {
		return p, nil
	}

	names := c.ProfileNames()
	if matches := fuzzy.Find(name, names); len(matches) > 0 {
		return Profile{}, fmt.Errorf("profile not found: %s (did you mean %q?)", name, matches[0].Str)
	}
	return Profile{}, fmt.Errorf("profile not found: %s (available: %s)", name, strings.Join(names, ", "))
}

// ProfileNames returns the profile names in sorted order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
