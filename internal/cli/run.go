package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/forPelevin/reelcut/internal/config"
	"github.com/forPelevin/reelcut/internal/logging"
	"github.com/forPelevin/reelcut/internal/pipeline"
	"github.com/forPelevin/reelcut/internal/types"
)

func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logging.Init(verbose)

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

func run(cmd *cobra.Command, input string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		settings.OutDir = out
	}
	asTranscript, _ := cmd.Flags().GetBool("transcript")
	demoMode, _ := cmd.Flags().GetBool("demo")
	noCut, _ := cmd.Flags().GetBool("no-cut")

	if input == "" && !demoMode {
		return errors.New("input is required (or pass --demo)")
	}
	if input != "" {
		abs, err := filepath.Abs(input)
		if err != nil {
			return err
		}
		input = abs
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
	defer cancel()

	cfg := pipeline.Config{
		Input:           input,
		TranscriptInput: asTranscript,
		Demo:            demoMode,
		CutClips:        !noCut && !asTranscript,
		Settings:        *settings,
		Log:             log.Logger,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	sum, err := pipeline.Run(ctx, cfg)
	if sum.RunDir != "" {
		generated, placeholders := countMusic(sum.Result.Clips)
		cliLog := logging.WithComponent("cli")
		cliLog.Info().
			Str("run_dir", sum.RunDir).
			Int("clips", len(sum.Result.Clips)).
			Int("files", len(sum.ClipFiles)).
			Int("music_generated", generated).
			Int("music_placeholders", placeholders).
			Msg("done")
	}
	return err
}

// countMusic splits clips by whether their background track was generated.
func countMusic(cs []types.Clip) (generated, placeholders int) {
	for _, c := range cs {
		switch {
		case c.BackgroundMusic == nil:
		case c.BackgroundMusic.Status.IsPlaceholder():
			placeholders++
		default:
			generated++
		}
	}
	return generated, placeholders
}
