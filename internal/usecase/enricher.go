package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/forPelevin/reelcut/internal/domain/timewindow"
	"github.com/forPelevin/reelcut/internal/ports"
	"github.com/forPelevin/reelcut/internal/types"
)

const (
	defaultMood         = "cinematic"
	musicDurationSec    = 20
	musicContextRunes   = 200
	musicOutputFormat   = "mp3"
	musicFailedTitle    = "Music Generation Failed"
	musicUnavailableMsg = "Stability AI temporarily unavailable"
	musicAuthMsg        = "Invalid Stability AI API key"
)

type Enricher struct {
	gen      ports.MusicGenerator
	musicDir string
	log      zerolog.Logger
	now      func() time.Time
}

// NewEnricher writes generated tracks under musicDir.
func NewEnricher(gen ports.MusicGenerator, musicDir string, log zerolog.Logger) *Enricher {
	return &Enricher{
		gen:      gen,
		musicDir: musicDir,
		log:      log.With().Str("component", "enricher").Logger(),
		now:      time.Now,
	}
}

// Enrich attaches background music to every clip, in order. It never fails:
// each clip gets either a generated track or a placeholder.
func (e *Enricher) Enrich(ctx context.Context, tr types.Transcript, in []types.Clip) []types.Clip {
	out := make([]types.Clip, 0, len(in))
	for i, c := range in {
		e.log.Info().Int("clip", i+1).Int("clips", len(in)).Msg("generating music")
		c.BackgroundMusic = e.musicFor(ctx, tr, c, i+1)
		e.log.Info().
			Int("clip", i+1).
			Str("status", string(c.BackgroundMusic.Status)).
			Bool("placeholder", c.BackgroundMusic.Status.IsPlaceholder()).
			Msg("music ready")
		out = append(out, c)
	}
	return out
}

func (e *Enricher) musicFor(ctx context.Context, tr types.Transcript, c types.Clip, n int) (m *types.Music) {
	mood := c.MusicMood
	if mood == "" {
		mood = defaultMood
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Int("clip", n).Msg("music generation panicked")
			m = errorMusic(n, mood, fmt.Errorf("%v", r))
		}
	}()

	text, err := timewindow.SegmentsInWindow(tr.Segments, c.Start, c.End)
	if err != nil {
		e.log.Warn().Err(err).Int("clip", n).Msg("no transcript context for clip")
		text = ""
	}
	prompt := musicPrompt(mood, text)

	audio, err := e.gen.Generate(ctx, ports.MusicRequest{
		Prompt:       prompt,
		DurationSec:  musicDurationSec,
		OutputFormat: musicOutputFormat,
	})
	if err != nil {
		return e.placeholder(err, mood, prompt)
	}

	path, err := e.persist(audio)
	if err != nil {
		e.log.Error().Err(err).Int("clip", n).Msg("persist music")
		return errorMusic(n, mood, err)
	}
	dur := musicDurationSec
	return &types.Music{
		ID:       "stability_music_" + uuid.NewString(),
		Status:   types.MusicCompleted,
		URL:      &path,
		Title:    musicTitle(mood),
		Mood:     mood,
		Prompt:   prompt,
		Duration: &dur,
	}
}

func (e *Enricher) placeholder(err error, mood, prompt string) *types.Music {
	m := &types.Music{
		ID:     "mock_music_" + uuid.NewString(),
		Title:  musicTitle(mood),
		Mood:   mood,
		Prompt: prompt,
		Mock:   true,
	}

	var se *ports.StatusError
	switch {
	case errors.Is(err, ports.ErrNotConfigured):
		e.log.Info().Str("mood", mood).Msg("no music credential, using mock music")
		m.Status = types.MusicMock
	case errors.As(err, &se) && (se.StatusCode == http.StatusServiceUnavailable || se.StatusCode == http.StatusTooManyRequests):
		m.Status = types.MusicServiceUnavailable
		m.Error = musicUnavailableMsg
	case errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized:
		m.Status = types.MusicAuthError
		m.Error = musicAuthMsg
	case errors.As(err, &se):
		m.Status = types.MusicAPIError
		m.Error = fmt.Sprintf("API returned %d: %s", se.StatusCode, se.Body)
	default:
		m.Status = types.MusicRequestFailed
		m.Error = err.Error()
	}
	if m.Status != types.MusicMock {
		e.log.Warn().Err(err).Str("status", string(m.Status)).Msg("music generation failed, using placeholder")
	}
	return m
}

func (e *Enricher) persist(audio []byte) (string, error) {
	if err := os.MkdirAll(e.musicDir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("generated_music_%d_%s.%s", e.now().Unix(), uuid.NewString()[:8], musicOutputFormat)
	path := filepath.Join(e.musicDir, name)
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func errorMusic(n int, mood string, err error) *types.Music {
	return &types.Music{
		ID:     fmt.Sprintf("error_music_%d", n),
		Status: types.MusicError,
		Title:  musicFailedTitle,
		Mood:   mood,
		Error:  err.Error(),
		Mock:   true,
	}
}

func musicPrompt(mood, transcriptText string) string {
	r := []rune(transcriptText)
	if len(r) > musicContextRunes {
		r = r[:musicContextRunes]
	}
	return fmt.Sprintf("Instrumental background music, %s mood. %s", mood, string(r))
}

func musicTitle(mood string) string {
	return "Background Music - " + cases.Title(language.English).String(mood)
}
