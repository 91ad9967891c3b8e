package ports

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/forPelevin/reelcut/internal/types"
)

// ErrNotConfigured is returned by a collaborator that has no credential and
// therefore made no call.
var ErrNotConfigured = errors.New("collaborator not configured")

// StatusError is a non-2xx answer from an HTTP collaborator. Body is already
// redacted and truncated.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// IsThrottled reports whether err is an HTTP 429 from a collaborator.
func IsThrottled(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests
}

type VideoTool interface {
	ExtractAudioMono16k(ctx context.Context, inMedia, outWav string) error
	CutClip(ctx context.Context, inMedia, start, end, outPath string) error
	ProbeDuration(ctx context.Context, inMedia string) (float64, error)
}

type ASR interface {
	Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error)
}

type TextRequest struct {
	Prompt          string
	Temperature     float64
	MaxOutputTokens int
}

type TextGenerator interface {
	Generate(ctx context.Context, req TextRequest) (string, error)
}

type MusicRequest struct {
	Prompt       string
	DurationSec  int
	OutputFormat string
}

type MusicGenerator interface {
	// Generate returns the raw audio bytes of a generated track.
	Generate(ctx context.Context, req MusicRequest) ([]byte, error)
}
