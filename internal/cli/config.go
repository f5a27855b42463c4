package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mkraev/engru/internal/config"
)

// validConfigKeys lists all supported configuration keys.
var validConfigKeys = []string{
	config.KeyProvider,
	config.KeyBatchSize,
	config.KeyMaxRetries,
	config.KeyLogPrefix,
	config.KeyOutputDir,
	config.KeyProxy,
}

// configKeyEnv maps config keys to their environment variable fallbacks.
var configKeyEnv = map[string]string{
	config.KeyProvider:   config.EnvProvider,
	config.KeyBatchSize:  config.EnvBatchSize,
	config.KeyMaxRetries: config.EnvMaxRetries,
	config.KeyLogPrefix:  config.EnvLogPrefix,
	config.KeyOutputDir:  config.EnvOutputDir,
	config.KeyProxy:      config.EnvProxy,
}

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/engru/config.
Settings can also be overridden via environment variables.

Supported settings:
  provider      Translation backend: google, openai (env: ENGRU_PROVIDER)
  batch-size    Chunks per backend call (env: ENGRU_BATCH_SIZE)
  max-retries   Total attempts per batch (env: ENGRU_MAX_RETRIES)
  log-prefix    Marker prefixed to progress lines (env: ENGRU_LOG_PREFIX)
  output-dir    Default directory for output files (env: ENGRU_OUTPUT_DIR)
  proxy         HTTP proxy for the google backend (env: ENGRU_PROXY)`,
		Example: `  engru config set provider openai
  engru config set output-dir ~/Documents/translations
  engru config get batch-size
  engru config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Example: `  engru config set provider openai
  engru config set batch-size 10`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			return runConfigSet(env, key, value)
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value.

Prints the value to stdout, or nothing if not set.`,
		Example: `  engru config get provider`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd, env, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration values.

Shows both values from the config file and environment variable overrides.`,
		Example: `  engru config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(cmd, env)
		},
	}
}

// runConfigSet handles the "config set" command.
func runConfigSet(env *Env, key, value string) error {
	// Validate key.
	if !isValidConfigKey(key) {
		return fmt.Errorf("unknown config key %q (valid keys: %v)", key, validConfigKeys)
	}

	// Key-specific validation.
	switch key {
	case config.KeyProvider:
		if _, err := ParseProvider(value); err != nil {
			return err
		}
	case config.KeyBatchSize, config.KeyMaxRetries:
		if n, err := strconv.Atoi(value); err != nil || n < 1 {
			return fmt.Errorf("invalid %s %q: must be a positive integer", key, value)
		}
	case config.KeyOutputDir:
		// Expand ~ and validate directory.
		expanded := config.ExpandPath(value)
		if err := config.EnsureOutputDir(expanded); err != nil {
			return fmt.Errorf("invalid output-dir: %w", err)
		}
		// Store the expanded path for consistency.
		value = expanded
	}

	// Save to config file.
	if err := config.Save(key, value); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, value)
	return nil
}

// runConfigGet handles the "config get" command.
func runConfigGet(cmd *cobra.Command, env *Env, key string) error {
	// Validate key.
	if !isValidConfigKey(key) {
		return fmt.Errorf("unknown config key %q (valid keys: %v)", key, validConfigKeys)
	}

	value, err := config.Get(key)
	if err != nil {
		return err
	}

	// Check environment variable fallback.
	if value == "" {
		value = env.Getenv(configKeyEnv[key])
	}

	if value != "" {
		fmt.Fprintln(cmd.OutOrStdout(), value)
	}

	return nil
}

// runConfigList handles the "config list" command.
func runConfigList(cmd *cobra.Command, env *Env) error {
	data, err := config.List()
	if err != nil {
		return err
	}

	// Add environment variable values for completeness.
	for _, key := range validConfigKeys {
		if _, ok := data[key]; ok {
			continue
		}
		if envVal := env.Getenv(configKeyEnv[key]); envVal != "" {
			data[key] = envVal + " (from env)"
		}
	}

	out := cmd.OutOrStdout()
	if len(data) == 0 {
		fmt.Fprintln(out, "No configuration set.")
		fmt.Fprintln(out, "\nAvailable settings:")
		for _, key := range validConfigKeys {
			fmt.Fprintf(out, "  %s\n", key)
		}
		return nil
	}

	for _, key := range validConfigKeys {
		if value, ok := data[key]; ok {
			fmt.Fprintf(out, "%s=%s\n", key, value)
		}
	}

	return nil
}

// isValidConfigKey checks if a key is a valid configuration key.
func isValidConfigKey(key string) bool {
	return slices.Contains(validConfigKeys, key)
}
