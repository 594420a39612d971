// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "MALDIKERN_"

// PathEnvVar names a config file when Load is called with an empty path.
const PathEnvVar = EnvPrefix + "CONFIG"

// DefaultPaths are searched, in order, when neither a path nor PathEnvVar
// is given.
var DefaultPaths = []string{
	"maldikern.yaml",
	"maldikern.yml",
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Unlisted MALDIKERN_* variables are ignored.
var envMappings = map[string]string{
	"maldikern_kernel_sigma":             "kernel.sigma",
	"maldikern_kernel_lower_bound":       "kernel.lower_bound",
	"maldikern_kernel_upper_bound":       "kernel.upper_bound",
	"maldikern_kernel_fixed":             "kernel.fixed",
	"maldikern_kernel_cache_size":        "kernel.cache_size",
	"maldikern_assembler_workers":        "assembler.workers",
	"maldikern_assembler_validate_input": "assembler.validate_input",
	"maldikern_log_level":                "logging.level",
	"maldikern_log_format":               "logging.format",
	"maldikern_log_caller":               "logging.caller",
}

// Load layers configuration sources and validates the result:
//
//  1. Defaults (kernel.DefaultSigma and friends).
//  2. YAML file: path, else $MALDIKERN_CONFIG, else the first existing
//     DefaultPaths entry. An explicitly named file must exist.
//  3. MALDIKERN_* environment variables.
//
// Errors from any layer are wrapped with the layer name; validation
// failures wrap ErrInvalidConfig.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	configPath, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolvePath picks the config file to read, or "" for none.
func resolvePath(path string) (string, error) {
	explicit := path
	if explicit == "" {
		explicit = os.Getenv(PathEnvVar)
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config: %w", err)
		}

		return explicit, nil
	}

	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("config: %w", err)
		}
	}

	return "", nil
}

// envTransformFunc maps MALDIKERN_KERNEL_SIGMA to kernel.sigma etc.
// Returning "" drops the variable.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
