package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] for YAML configuration
// files, used with [kong.Configuration]:
//
//	kong.Configuration(resolve(baseConfig), "/path/to/config")
//
// The file is a mapping of flag names to values. The mapping may instead
// be nested under the key name, as written by the init command. Keys may
// use underscores in place of hyphens:
//
//	config:
//	  log-level: debug
//	  log_format: json
//	  max-depth: 500
//	  source:
//	    - ~/.calc/prelude
//
// Command-line flags override configuration values. A file that is not a
// YAML mapping is rejected.
func resolve(name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var root map[string]any
		if err := yaml.NewDecoder(r).Decode(&root); err != nil {
			if err == io.EOF {
				return config{}, nil
			}

			return nil, fmt.Errorf("parse configuration: %w", err)
		}

		if nested, ok := root[name].(map[string]any); ok {
			root = nested
		}

		cfg := make(config, len(root))
		for key, val := range root {
			cfg[key] = flagValue(val)
		}

		return cfg, nil
	}
}

// config implements [kong.Resolver] for YAML configuration.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// flagValue converts a decoded YAML value to the form kong parses: numbers
// and sequence items become strings.
func flagValue(val any) any {
	switch v := val.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = fmt.Sprint(flagValue(item))
		}

		return items
	default:
		return v
	}
}
