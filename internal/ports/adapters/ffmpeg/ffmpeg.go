package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
	log     zerolog.Logger
}

func New(ffmpegPath, ffprobePath string, log zerolog.Logger) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{
		ffmpeg:  ffmpegPath,
		ffprobe: ffprobePath,
		log:     log.With().Str("component", "ffmpeg").Logger(),
	}
}

func (a *Adapter) ExtractAudioMono16k(ctx context.Context, inMedia, outWav string) error {
	args := []string{
		"-y",
		"-i", inMedia,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	}
	if b, err := a.run(ctx, a.ffmpeg, args); err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w\n%s", err, string(b))
	}
	return nil
}

// CutClip copies [start, end] of inMedia into outPath without re-encoding.
func (a *Adapter) CutClip(ctx context.Context, inMedia, start, end, outPath string) error {
	args := []string{
		"-y",
		"-i", inMedia,
		"-ss", start,
		"-to", end,
		"-c", "copy",
		outPath,
	}
	if b, err := a.run(ctx, a.ffmpeg, args); err != nil {
		return fmt.Errorf("ffmpeg cut clip: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) ProbeDuration(ctx context.Context, inMedia string) (float64, error) {
	b, err := a.run(ctx, a.ffprobe, []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inMedia,
	})
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

func (a *Adapter) run(ctx context.Context, bin string, args []string) ([]byte, error) {
	a.log.Debug().Str("cmd", bin).Strs("args", args).Msg("exec")
	return exec.CommandContext(ctx, bin, args...).CombinedOutput()
}
