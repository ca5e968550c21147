package main

import (
	"errors"
	"fmt"
	"sort"

	"babelbox/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and edit the env file",
	Long: `Config reads and writes KEY=value pairs in the env file named by ENV_FILE
(default .env). Secret-looking values are masked unless --show-secrets is set.`,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every key in the env file",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print one value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set one value, creating the file if needed",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.PersistentFlags().Bool("show-secrets", false, "print secret values unmasked")

	configCmd.AddCommand(configListCmd, configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func envFile() (*config.EnvFile, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return &config.EnvFile{Path: cfg.EnvFile}, nil
}

func display(cmd *cobra.Command, key, value string) string {
	if show, _ := cmd.Flags().GetBool("show-secrets"); show {
		return value
	}
	return config.Mask(key, value)
}

func runConfigList(cmd *cobra.Command, args []string) error {
	f, err := envFile()
	if err != nil {
		return err
	}
	env, err := f.All()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, display(cmd, k, env[k]))
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	f, err := envFile()
	if err != nil {
		return err
	}
	v, ok, err := f.Get(args[0])
	if errors.Is(err, config.ErrEnvFileMissing) || (err == nil && !ok) {
		return fmt.Errorf("%s is not set in %s", args[0], f.Path)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), display(cmd, args[0], v))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	f, err := envFile()
	if err != nil {
		return err
	}
	if err := f.Set(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s updated in %s\n", args[0], f.Path)
	return nil
}
