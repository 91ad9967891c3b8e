// Package demo provides canned collaborators so the pipeline can run end to
// end without credentials, binaries or a source video.
package demo

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/forPelevin/reelcut/internal/ports"
	"github.com/forPelevin/reelcut/internal/types"
)

// Duration of the canned media, in seconds.
const Duration = 60

func Transcript() types.Transcript {
	segs := []types.Segment{
		{Start: 0, End: 15, Text: "Welcome to our amazing product demonstration. Today we're going to show you how artificial intelligence can transform your content creation workflow."},
		{Start: 15, End: 30, Text: "This revolutionary technology analyzes your videos and automatically generates engaging short-form clips."},
		{Start: 30, End: 45, Text: "The AI understands context, identifies key moments, and even suggests the perfect background music for each clip."},
		{Start: 45, End: 60, Text: "Whether you're a content creator, marketer, or educator, this tool will save you hours of manual editing work."},
	}
	text := ""
	for i, s := range segs {
		if i > 0 {
			text += " "
		}
		text += s.Text
	}
	return types.Transcript{Text: text, Segments: segs}
}

func Clips() []types.Clip {
	return []types.Clip{
		{Start: "00:00:00", End: "00:00:15", Hook: "Revolutionary AI transforms content creation workflow", MusicMood: "energetic"},
		{Start: "00:00:15", End: "00:00:30", Hook: "Automatic short-form clip generation technology", MusicMood: "cinematic"},
		{Start: "00:00:30", End: "00:00:45", Hook: "AI understands context and identifies key moments", MusicMood: "uplifting"},
	}
}

type ASR struct{}

func (ASR) Transcribe(ctx context.Context, _, _ string) (types.Transcript, error) {
	if err := ctx.Err(); err != nil {
		return types.Transcript{}, err
	}
	return Transcript(), nil
}

// Text answers every prompt with the canned clip list.
type Text struct{}

func (Text) Generate(ctx context.Context, _ ports.TextRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := json.Marshal(types.Result{Clips: Clips()})
	if err != nil {
		return "", err
	}
	return "```json\n" + string(b) + "\n```", nil
}

// Music reports no credential, which yields mock tracks downstream.
type Music struct{}

func (Music) Generate(context.Context, ports.MusicRequest) ([]byte, error) {
	return nil, ports.ErrNotConfigured
}

// Video never touches ffmpeg. CutClip writes an empty placeholder file.
type Video struct{}

func (Video) ExtractAudioMono16k(ctx context.Context, _, _ string) error {
	return ctx.Err()
}

func (Video) CutClip(ctx context.Context, _, _, _, outPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outPath, nil, 0o644)
}

func (Video) ProbeDuration(context.Context, string) (float64, error) {
	return Duration, nil
}

var (
	_ ports.ASR            = ASR{}
	_ ports.TextGenerator  = Text{}
	_ ports.MusicGenerator = Music{}
	_ ports.VideoTool      = Video{}
)
