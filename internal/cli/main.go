package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "reelcut [input]",
		Short:        "Pick short-form clips from a video or transcript and score them with background music",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return run(cmd, input)
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.PersistentFlags().String("config", "", "Config file (default ./reelcut.yaml or ~/.reelcut/config.yaml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Debug logging")

	root.Flags().String("out", "", "Output directory (overrides config)")
	root.Flags().Bool("transcript", false, "Treat input as a transcript file (.json or plain text)")
	root.Flags().Bool("demo", false, "Use canned data instead of external services")
	root.Flags().Bool("no-cut", false, "Skip clip extraction")

	root.AddCommand(newHistoryCmd())
	root.AddCommand(newConfigCmd())
	return root
}
