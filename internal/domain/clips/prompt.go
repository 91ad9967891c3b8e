package clips

import (
	"fmt"
	"strings"

	"github.com/forPelevin/reelcut/internal/domain/timewindow"
	"github.com/forPelevin/reelcut/internal/types"
)

const DefaultChunkSize = 40

// Chunk splits segments into contiguous runs of at most size, preserving order.
func Chunk(segments []types.Segment, size int) [][]types.Segment {
	if size <= 0 {
		size = DefaultChunkSize
	}
	out := make([][]types.Segment, 0, (len(segments)+size-1)/size)
	for i := 0; i < len(segments); i += size {
		end := i + size
		if end > len(segments) {
			end = len(segments)
		}
		out = append(out, segments[i:end])
	}
	return out
}

func BuildPrompt(segments []types.Segment) string {
	lines := make([]string, 0, len(segments))
	for _, s := range segments {
		lines = append(lines, fmt.Sprintf("[%.2f - %.2f] %s", s.Start, s.End, s.Text))
	}

	return "You are a professional video editor.\n\n" +
		"From the transcript below, select 2–3 engaging video clips.\n\n" +
		"Rules:\n" +
		"- Each clip must be 5–30 seconds\n" +
		"- Use timestamps exactly\n" +
		"- Return ONLY valid JSON\n" +
		"- No markdown\n" +
		"- No explanations\n\n" +
		"JSON format:\n" +
		"{\n" +
		"  \"clips\": [\n" +
		"    {\n" +
		"      \"start\": \"HH:MM:SS\",\n" +
		"      \"end\": \"HH:MM:SS\",\n" +
		"      \"hook\": \"short engaging description\",\n" +
		"      \"music_mood\": \"energetic | calm | cinematic | hype\"\n" +
		"    }\n" +
		"  ]\n" +
		"}\n\n" +
		"Transcript:\n" +
		strings.Join(lines, "\n")
}

const (
	fallbackStart = "00:00:10"
	fallbackEnd   = "00:00:40"
	fallbackHook  = "Key insight that hooks the viewer"
	fallbackMood  = "energetic"
)

// Fallback is returned when no chunk produced a usable clip.
func Fallback() types.Result {
	return types.Result{Clips: []types.Clip{{
		Start:     fallbackStart,
		End:       fallbackEnd,
		Hook:      fallbackHook,
		MusicMood: fallbackMood,
	}}}
}

// FallbackFor is Fallback for media ending at transcriptEnd seconds. When the
// media ends by the usual fallback start, the window moves to 00:00:00.
func FallbackFor(transcriptEnd float64) types.Result {
	res := Fallback()
	st, _ := timewindow.TimestampToSeconds(fallbackStart)
	if transcriptEnd > 0 && transcriptEnd <= float64(st) {
		en, _ := timewindow.TimestampToSeconds(fallbackEnd)
		res.Clips[0].Start = timewindow.SecondsToTimestamp(0)
		res.Clips[0].End = timewindow.SecondsToTimestamp(float64(en - st))
	}
	return res
}
