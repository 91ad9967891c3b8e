package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/reelcut/internal/domain/clips"
	"github.com/forPelevin/reelcut/internal/ports"
	"github.com/forPelevin/reelcut/internal/types"
)

type scriptedText struct {
	replies []textReply
	calls   int
	prompts []string
}

type textReply struct {
	text string
	err  error
}

func (s *scriptedText) Generate(_ context.Context, req ports.TextRequest) (string, error) {
	s.prompts = append(s.prompts, req.Prompt)
	i := s.calls
	s.calls++
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	return s.replies[i].text, s.replies[i].err
}

var throttled = &ports.StatusError{Provider: "test", StatusCode: http.StatusTooManyRequests, Body: "slow down"}

func newTestAnalyzer(t *testing.T, gen ports.TextGenerator, opts AnalyzerOptions) (*Analyzer, *[]time.Duration) {
	t.Helper()
	a, err := NewAnalyzer(gen, opts, zerolog.Nop())
	if err != nil {
		t.Fatalf("new analyzer: %v", err)
	}
	var waits []time.Duration
	a.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return a, &waits
}

func segments(n int, step float64) []types.Segment {
	out := make([]types.Segment, n)
	for i := range out {
		out[i] = types.Segment{Start: float64(i) * step, End: float64(i+1) * step, Text: "line"}
	}
	return out
}

func TestAnalyze_EmptyTranscriptMakesNoCalls(t *testing.T) {
	gen := &scriptedText{replies: []textReply{{text: "{}"}}}
	a, _ := newTestAnalyzer(t, gen, DefaultAnalyzerOptions())

	res, err := a.Analyze(context.Background(), types.Transcript{})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Clips == nil || len(res.Clips) != 0 {
		t.Fatalf("expected empty non-nil clips, got %#v", res.Clips)
	}
	if gen.calls != 0 {
		t.Fatalf("expected no generator calls, got %d", gen.calls)
	}
}

func TestAnalyze_MalformedResponsesFallBack(t *testing.T) {
	gen := &scriptedText{replies: []textReply{{text: "Sorry, I can't do that."}}}
	a, _ := newTestAnalyzer(t, gen, DefaultAnalyzerOptions())

	res, err := a.Analyze(context.Background(), types.Transcript{Segments: segments(90, 2)})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if gen.calls != 3 {
		t.Fatalf("expected one call per chunk (3), got %d", gen.calls)
	}
	want := clips.Fallback()
	if len(res.Clips) != 1 || res.Clips[0] != want.Clips[0] {
		t.Fatalf("expected fallback clip, got %+v", res.Clips)
	}
}

func TestAnalyze_RetriesThrottlingWithBackoff(t *testing.T) {
	gen := &scriptedText{replies: []textReply{
		{err: throttled},
		{err: throttled},
		{text: `{"clips":[{"start":"00:00:02","end":"00:00:12","hook":"first","music_mood":"hype"},{"start":"00:00:20","end":"00:00:30","hook":"second","music_mood":"calm"}]}`},
	}}
	opts := DefaultAnalyzerOptions()
	opts.BaseDelay = 100 * time.Millisecond
	a, waits := newTestAnalyzer(t, gen, opts)

	res, err := a.Analyze(context.Background(), types.Transcript{Segments: segments(10, 4)})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if gen.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", gen.calls)
	}
	if len(res.Clips) != 2 || res.Clips[0].Hook != "first" || res.Clips[1].Hook != "second" {
		t.Fatalf("unexpected clips: %+v", res.Clips)
	}
	if len(*waits) != 2 || (*waits)[0] != 100*time.Millisecond || (*waits)[1] != 200*time.Millisecond {
		t.Fatalf("unexpected backoff waits: %v", *waits)
	}
}

func TestAnalyze_GivesUpAfterMaxAttempts(t *testing.T) {
	gen := &scriptedText{replies: []textReply{{err: throttled}}}
	a, waits := newTestAnalyzer(t, gen, DefaultAnalyzerOptions())

	res, err := a.Analyze(context.Background(), types.Transcript{Segments: segments(5, 4)})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if gen.calls != 3 || len(*waits) != 2 {
		t.Fatalf("expected 3 calls and 2 waits, got %d calls and %d waits", gen.calls, len(*waits))
	}
	if len(res.Clips) != 1 || res.Clips[0].Hook != clips.Fallback().Clips[0].Hook {
		t.Fatalf("expected fallback after exhausting retries, got %+v", res.Clips)
	}
}

func TestAnalyze_NonThrottlingErrorIsNotRetried(t *testing.T) {
	gen := &scriptedText{replies: []textReply{{err: errors.New("connection reset")}}}
	a, waits := newTestAnalyzer(t, gen, DefaultAnalyzerOptions())

	if _, err := a.Analyze(context.Background(), types.Transcript{Segments: segments(5, 4)}); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if gen.calls != 1 || len(*waits) != 0 {
		t.Fatalf("expected a single call without waits, got %d calls, %d waits", gen.calls, len(*waits))
	}
}

func TestAnalyze_FailedChunkIsSkipped(t *testing.T) {
	gen := &scriptedText{replies: []textReply{
		{text: `{"clips":[{"start":"00:00:01","end":"00:00:10","hook":"a","music_mood":"calm"}]}`},
		{text: "not json at all"},
		{text: `{"clips":[{"start":"00:03:00","end":"00:03:20","hook":"c","music_mood":"hype"}]}`},
	}}
	opts := DefaultAnalyzerOptions()
	opts.ChunkSize = 2
	a, _ := newTestAnalyzer(t, gen, opts)

	res, err := a.Analyze(context.Background(), types.Transcript{Segments: segments(6, 40)})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.Clips) != 2 || res.Clips[0].Hook != "a" || res.Clips[1].Hook != "c" {
		t.Fatalf("expected clips from chunks 1 and 3 in order, got %+v", res.Clips)
	}
	if !strings.Contains(gen.prompts[1], "[80.00 - 120.00] line") {
		t.Fatalf("second prompt should embed the second chunk:\n%s", gen.prompts[1])
	}
}

func TestAnalyze_NormalizesModelClips(t *testing.T) {
	gen := &scriptedText{replies: []textReply{
		{text: `{"clips":[{"start":"0:0:5","end":"0:1:30","hook":"long"},{"start":"nope","end":"00:00:10","hook":"bad"}]}`},
	}}
	a, _ := newTestAnalyzer(t, gen, DefaultAnalyzerOptions())

	res, err := a.Analyze(context.Background(), types.Transcript{Segments: segments(30, 4)})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.Clips) != 1 {
		t.Fatalf("expected 1 clip, got %+v", res.Clips)
	}
	if res.Clips[0].Start != "00:00:05" || res.Clips[0].End != "00:00:35" {
		t.Fatalf("expected clamped canonical clip, got %+v", res.Clips[0])
	}
}

func TestAnalyze_CanceledContext(t *testing.T) {
	gen := &scriptedText{replies: []textReply{{text: "{}"}}}
	a, _ := newTestAnalyzer(t, gen, DefaultAnalyzerOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := a.Analyze(ctx, types.Transcript{Segments: segments(3, 1)}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewAnalyzer_RequiresGenerator(t *testing.T) {
	if _, err := NewAnalyzer(nil, DefaultAnalyzerOptions(), zerolog.Nop()); err == nil {
		t.Fatalf("expected error without generator")
	}
}
