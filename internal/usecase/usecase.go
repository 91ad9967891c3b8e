package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/forPelevin/reelcut/internal/ports"
	"github.com/forPelevin/reelcut/internal/types"
)

type Deps struct {
	Video ports.VideoTool
	ASR   ports.ASR
	Text  ports.TextGenerator
	Music ports.MusicGenerator
}

type Usecase struct {
	d    Deps
	opts AnalyzerOptions
	// base has no component field; every stage adds its own.
	base zerolog.Logger
	log  zerolog.Logger
}

func New(d Deps, opts AnalyzerOptions, log zerolog.Logger) Usecase {
	return Usecase{
		d:    d,
		opts: opts,
		base: log,
		log:  log.With().Str("component", "usecase").Logger(),
	}
}

type Input struct {
	// MediaPath is the source video. Transcribed unless Transcript is set.
	MediaPath  string
	Transcript *types.Transcript

	// CutClips extracts the clip files from MediaPath after enrichment.
	CutClips bool

	CacheDir string
	OutDir   string
}

type Output struct {
	Transcript types.Transcript
	Result     types.Result
	ClipFiles  []string
}

func (u Usecase) Run(ctx context.Context, in Input) (Output, error) {
	tr, err := u.transcript(ctx, in)
	if err != nil {
		return Output{}, fmt.Errorf("transcribe: %w", err)
	}
	u.log.Info().Int("segments", len(tr.Segments)).Msg("transcript ready")

	an, err := NewAnalyzer(u.d.Text, u.opts, u.base)
	if err != nil {
		return Output{}, err
	}
	res, err := an.Analyze(ctx, tr)
	if err != nil {
		return Output{}, fmt.Errorf("analyze: %w", err)
	}
	u.log.Info().Int("clips", len(res.Clips)).Msg("analysis complete")

	if u.d.Music == nil {
		return Output{}, errors.New("music generator is required")
	}
	en := NewEnricher(u.d.Music, filepath.Join(in.OutDir, "music"), u.base)
	res.Clips = en.Enrich(ctx, tr, res.Clips)

	out := Output{Transcript: tr, Result: res}
	if !in.CutClips || in.MediaPath == "" {
		return out, nil
	}
	x := NewExtractor(u.d.Video, filepath.Join(in.OutDir, "clips"), u.base)
	files, err := x.Cut(ctx, in.MediaPath, res.Clips)
	out.ClipFiles = files
	if err != nil {
		return out, fmt.Errorf("extract clips: %w", err)
	}
	return out, nil
}

func (u Usecase) transcript(ctx context.Context, in Input) (types.Transcript, error) {
	if in.Transcript != nil {
		return *in.Transcript, nil
	}
	if in.MediaPath == "" {
		return types.Transcript{}, errors.New("either a media path or a transcript is required")
	}
	if err := os.MkdirAll(in.CacheDir, 0o755); err != nil {
		return types.Transcript{}, err
	}
	wav := filepath.Join(in.CacheDir, "audio.wav")
	if err := u.d.Video.ExtractAudioMono16k(ctx, in.MediaPath, wav); err != nil {
		return types.Transcript{}, err
	}
	return u.d.ASR.Transcribe(ctx, wav, in.CacheDir)
}
