package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/reelcut/internal/domain/clips"
	"github.com/forPelevin/reelcut/internal/ports"
	"github.com/forPelevin/reelcut/internal/types"
)

type AnalyzerOptions struct {
	ChunkSize       int
	MaxAttempts     int
	BaseDelay       time.Duration
	Temperature     float64
	MaxOutputTokens int
	Bounds          clips.Bounds
}

func DefaultAnalyzerOptions() AnalyzerOptions {
	return AnalyzerOptions{
		ChunkSize:       clips.DefaultChunkSize,
		MaxAttempts:     3,
		BaseDelay:       time.Second,
		Temperature:     0.4,
		MaxOutputTokens: 512,
		Bounds:          clips.DefaultBounds(),
	}
}

type Analyzer struct {
	gen  ports.TextGenerator
	opts AnalyzerOptions
	log  zerolog.Logger

	// sleep is swapped in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewAnalyzer(gen ports.TextGenerator, opts AnalyzerOptions, log zerolog.Logger) (*Analyzer, error) {
	if gen == nil {
		return nil, errors.New("analyzer: text generator is required")
	}
	def := DefaultAnalyzerOptions()
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = def.ChunkSize
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = def.MaxAttempts
	}
	if opts.BaseDelay < 0 {
		opts.BaseDelay = 0
	}
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = def.MaxOutputTokens
	}
	if opts.Bounds == (clips.Bounds{}) {
		opts.Bounds = def.Bounds
	}
	return &Analyzer{
		gen:   gen,
		opts:  opts,
		log:   log.With().Str("component", "analyzer").Logger(),
		sleep: sleepCtx,
	}, nil
}

// Analyze asks the model for clips chunk by chunk. A failing chunk adds no
// clips; when nothing survives the deterministic fallback clip is returned.
func (a *Analyzer) Analyze(ctx context.Context, tr types.Transcript) (types.Result, error) {
	if len(tr.Segments) == 0 {
		return types.Result{Clips: []types.Clip{}}, nil
	}

	trEnd := clips.TranscriptEnd(tr)
	chunks := clips.Chunk(tr.Segments, a.opts.ChunkSize)
	all := make([]types.Clip, 0, 3*len(chunks))

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return types.Result{}, err
		}
		got, err := a.analyzeChunk(ctx, chunk)
		if err != nil {
			if ctx.Err() != nil {
				return types.Result{}, ctx.Err()
			}
			a.log.Warn().Err(err).Int("chunk", i+1).Int("chunks", len(chunks)).Msg("chunk failed")
			continue
		}
		kept, dropped := clips.Normalize(got, a.opts.Bounds, trEnd)
		for _, d := range dropped {
			a.log.Warn().Err(d).Int("chunk", i+1).Msg("clip dropped")
		}
		a.log.Info().Int("chunk", i+1).Int("chunks", len(chunks)).Int("clips", len(kept)).Msg("chunk analyzed")
		all = append(all, kept...)
	}

	if len(all) == 0 {
		a.log.Warn().Msg("no clips selected, using fallback clip")
		return clips.FallbackFor(trEnd), nil
	}
	return types.Result{Clips: all}, nil
}

func (a *Analyzer) analyzeChunk(ctx context.Context, chunk []types.Segment) ([]types.Clip, error) {
	text, err := a.generate(ctx, clips.BuildPrompt(chunk))
	if err != nil {
		return nil, err
	}
	return clips.ParseResponse(text)
}

// generate retries only on throttling, doubling the delay each attempt.
func (a *Analyzer) generate(ctx context.Context, prompt string) (string, error) {
	req := ports.TextRequest{
		Prompt:          prompt,
		Temperature:     a.opts.Temperature,
		MaxOutputTokens: a.opts.MaxOutputTokens,
	}
	for attempt := 0; ; attempt++ {
		text, err := a.gen.Generate(ctx, req)
		if err == nil {
			return text, nil
		}
		if !ports.IsThrottled(err) || attempt+1 >= a.opts.MaxAttempts {
			return "", fmt.Errorf("generate: %w", err)
		}
		wait := a.opts.BaseDelay << attempt
		a.log.Warn().Err(err).Int("attempt", attempt+1).Dur("wait", wait).Msg("throttled, retrying")
		if err := a.sleep(ctx, wait); err != nil {
			return "", err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
