package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forPelevin/reelcut/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the reelcut config file",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config to --config or ./reelcut.yaml (API keys stay in the environment)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = "reelcut.yaml"
			}
			force, _ := cmd.Flags().GetBool("force")
			if err := writeDefaultConfig(path, force); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return err
		},
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}

func writeDefaultConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return config.Default().Save(path)
}
