package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"

	"github.com/wattpower/watt/internal/rule"
)

// ConfigError reports every rule file problem found in one pass: decode
// errors, build errors (a malformed expression node), and typecheck
// errors (an unknown variable, a mistyped comparison) are all
// accumulated rather than stopping at the first, matching
// expr.ConfigError's own "report the whole list" stance.
type multierrorError = multierror.Error

type ConfigError struct {
	*multierrorError
}

// Load reads and decodes the TOML rule file at path into a typechecked
// rule.Rule slice, ready for daemon.Config.Rules.
func Load(path string) ([]rule.Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode is Load without the filesystem open, for tests and embedded
// rule documents.
func Decode(r io.Reader) ([]rule.Rule, error) {
	var doc Document
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &ConfigError{multierrorError: multierror.Append(nil, fmt.Errorf("config: decode: %w", err))}
	}

	var errs *multierror.Error
	rules := make([]rule.Rule, 0, len(doc.Rules))

	for i, node := range doc.Rules {
		built, err := buildRule(node)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("rules[%d]: %w", i, err))
			continue
		}
		if err := rule.Typecheck(built); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("rules[%d]: %w", i, err))
			continue
		}
		rules = append(rules, built)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, &ConfigError{multierrorError: err.(*multierror.Error)}
	}
	return rules, nil
}
