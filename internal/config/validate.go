package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	relerrors "github.com/ariel-frischer/relnote/internal/errors"
)

// ValidateYAMLSyntax checks that the YAML file has valid syntax before it is
// handed to koanf, so syntax problems are reported with the file path rather
// than as an opaque merge failure. A missing or empty file is valid.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%s: %w", filePath, err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		var typeError *yaml.TypeError
		if errors.As(err, &typeError) {
			return fmt.Errorf("%s: %s", filePath, strings.Join(typeError.Errors, "; "))
		}
		return fmt.Errorf("%s: %s", filePath, err)
	}

	return nil
}

// ValidateSettings checks the merged configuration against its constraints.
// Violations are configuration errors in the taxonomy: invalid numeric
// options and unrecognized output modes are fatal before any work starts.
func ValidateSettings(cfg *Settings) error {
	if cfg.Repo != "" {
		parts := strings.Split(cfg.Repo, "/")
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			return relerrors.NewConfigError(
				fmt.Sprintf("invalid repository slug %q, expected owner/name", cfg.Repo),
			)
		}
	}

	validate := validator.New()
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fieldErr := validationErrors[0]
		return relerrors.NewConfigError(
			fmt.Sprintf("config field %s: %s", fieldKey(fieldErr.Field()), describeConstraint(fieldErr)),
			"Run 'relnote config init' to generate a commented config template",
		)
	}
	return relerrors.Wrap(err, relerrors.Config, "validating config")
}

// fieldKey maps a Go struct field name to its config key.
func fieldKey(field string) string {
	switch field {
	case "MaxSkips":
		return "max_skips"
	case "PageSize":
		return "page_size"
	case "FetchTimeout":
		return "fetch_timeout"
	default:
		return strings.ToLower(field)
	}
}

// describeConstraint renders a validator tag violation as plain language.
func describeConstraint(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("must be at least %s (got %v)", fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("must be at most %s (got %v)", fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of [%s] (got %q)", fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %s constraint", fe.Tag())
	}
}
