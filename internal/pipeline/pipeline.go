package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/forPelevin/reelcut/internal/config"
	"github.com/forPelevin/reelcut/internal/domain/clips"
	"github.com/forPelevin/reelcut/internal/ports"
	"github.com/forPelevin/reelcut/internal/ports/adapters/demo"
	"github.com/forPelevin/reelcut/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/reelcut/internal/ports/adapters/gemini"
	"github.com/forPelevin/reelcut/internal/ports/adapters/openrouter"
	"github.com/forPelevin/reelcut/internal/ports/adapters/stability"
	"github.com/forPelevin/reelcut/internal/ports/adapters/whispercpp"
	"github.com/forPelevin/reelcut/internal/ports/adapters/whisperpy"
	"github.com/forPelevin/reelcut/internal/storage"
	"github.com/forPelevin/reelcut/internal/types"
	"github.com/forPelevin/reelcut/internal/usecase"
)

const (
	ModeVideo      = "video"
	ModeTranscript = "transcript"
	ModeDemo       = "demo"

	// Pasted text has no timing, so it becomes one segment of this length.
	plainTextSegmentSec = 30
)

type Config struct {
	// Input is a media file, or a transcript file when TranscriptInput is set.
	// It may be empty in demo mode.
	Input           string
	TranscriptInput bool
	Demo            bool
	CutClips        bool

	Settings config.Config
	// Log must not carry a component field; each stage sets its own.
	Log zerolog.Logger
}

func (c Config) mode() string {
	switch {
	case c.Demo:
		return ModeDemo
	case c.TranscriptInput:
		return ModeTranscript
	default:
		return ModeVideo
	}
}

func (c Config) Validate() error {
	if c.Input == "" && !c.Demo {
		return errors.New("input is empty")
	}
	if c.Input != "" {
		if _, err := os.Stat(c.Input); err != nil {
			return fmt.Errorf("stat input: %w", err)
		}
	}

	a := c.Settings.Analyzer
	if a.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be > 0")
	}
	if a.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be > 0")
	}
	if a.MinClip <= 0 {
		return fmt.Errorf("min clip must be > 0")
	}
	if a.MaxClip <= 0 {
		return fmt.Errorf("max clip must be > 0")
	}
	if a.MinClip > a.MaxClip {
		return fmt.Errorf("min clip must be <= max clip")
	}
	if c.Demo {
		return nil
	}

	if c.mode() == ModeVideo {
		switch c.Settings.ASR.Engine {
		case config.EngineWhisperCpp:
			if c.Settings.ASR.WhisperModel == "" {
				return fmt.Errorf("whisper model path is required")
			}
		case config.EngineWhisperPy:
		default:
			return fmt.Errorf("unknown asr engine %q", c.Settings.ASR.Engine)
		}
	}

	llm := c.Settings.LLM
	switch llm.Provider {
	case config.ProviderGemini:
		return gemini.ValidateBaseURL(llm.Gemini.BaseURL)
	case config.ProviderOpenRouter:
		return openrouter.ValidateBaseURL(llm.OpenRouter.BaseURL, llm.OpenRouter.AllowedHosts)
	default:
		return fmt.Errorf("unknown llm provider %q", llm.Provider)
	}
}

// Summary describes a finished run.
type Summary struct {
	RunID     string
	RunDir    string
	Mode      string
	Result    types.Result
	ClipFiles []string
}

func Run(ctx context.Context, cfg Config) (Summary, error) {
	log := cfg.Log.With().Str("component", "pipeline").Logger()
	s := cfg.Settings

	deps, err := buildDeps(cfg)
	if err != nil {
		return Summary{}, err
	}
	uc := usecase.New(deps, analyzerOptions(s.Analyzer), cfg.Log)

	// A transcript file is always the user's text, demo or not.
	in := usecase.Input{CutClips: cfg.CutClips}
	switch {
	case cfg.TranscriptInput:
		tr, err := LoadTranscript(cfg.Input)
		if err != nil {
			return Summary{}, err
		}
		in.Transcript = &tr
	case cfg.Demo && cfg.Input == "":
		tr := demo.Transcript()
		in.Transcript = &tr
	default:
		in.MediaPath = cfg.Input
	}

	baseCache := s.CacheDir
	if baseCache == "" {
		baseCache = ".cache"
	}
	in.CacheDir = filepath.Join(baseCache, "runs", hash(cfg.Input))

	outRoot := s.OutDir
	if outRoot == "" {
		outRoot = "out"
	}
	name := cfg.Input
	if name == "" {
		name = ModeDemo
	}
	in.OutDir = buildRunOutDir(outRoot, name, time.Now().UTC())
	if err := os.MkdirAll(in.OutDir, 0o755); err != nil {
		return Summary{}, err
	}
	log.Info().Str("mode", cfg.mode()).Str("run_dir", in.OutDir).Msg("preparing workspace")

	out, runErr := uc.Run(ctx, in)
	sum := Summary{
		RunDir:    in.OutDir,
		Mode:      cfg.mode(),
		Result:    out.Result,
		ClipFiles: out.ClipFiles,
	}
	// Extraction failures still leave an enriched clip list worth keeping.
	if runErr != nil && len(out.Result.Clips) == 0 {
		return sum, runErr
	}

	if err := writeArtifacts(in.OutDir, out); err != nil {
		return sum, err
	}
	log.Info().Int("clips", len(out.Result.Clips)).Str("path", filepath.Join(in.OutDir, "clips.json")).Msg("clips written")

	sum.RunID = recordRun(ctx, log, s.HistoryDB, cfg.Input, sum)
	return sum, runErr
}

func buildDeps(cfg Config) (usecase.Deps, error) {
	if cfg.Demo {
		return usecase.Deps{
			Video: demo.Video{},
			ASR:   demo.ASR{},
			Text:  demo.Text{},
			Music: demo.Music{},
		}, nil
	}

	s := cfg.Settings
	d := usecase.Deps{
		Video: ffmpeg.New(s.FFmpeg.FFmpegPath, s.FFmpeg.FFprobePath, cfg.Log),
		Music: stability.New(s.Music.APIKey, s.Music.URL, s.Music.Model),
	}

	switch s.ASR.Engine {
	case config.EngineWhisperPy:
		d.ASR = whisperpy.New(s.ASR.Python, s.ASR.PythonModel)
	default:
		d.ASR = whispercpp.New(s.ASR.WhisperBin, s.ASR.WhisperModel)
	}

	var err error
	switch s.LLM.Provider {
	case config.ProviderOpenRouter:
		d.Text, err = openrouter.New(s.LLM.OpenRouter.APIKey, s.LLM.OpenRouter.Model, s.LLM.OpenRouter.BaseURL)
	default:
		d.Text, err = gemini.New(s.LLM.Gemini.APIKey, s.LLM.Gemini.Model, s.LLM.Gemini.BaseURL)
	}
	if err != nil {
		return usecase.Deps{}, err
	}
	return d, nil
}

func analyzerOptions(a config.AnalyzerConfig) usecase.AnalyzerOptions {
	return usecase.AnalyzerOptions{
		ChunkSize:       a.ChunkSize,
		MaxAttempts:     a.MaxAttempts,
		BaseDelay:       a.BaseDelay,
		Temperature:     a.Temperature,
		MaxOutputTokens: a.MaxOutputTokens,
		Bounds:          clips.Bounds{Min: a.MinClip, Max: a.MaxClip},
	}
}

func writeArtifacts(runDir string, out usecase.Output) error {
	b, err := json.MarshalIndent(out.Transcript, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, "transcript.json"), b, 0o644); err != nil {
		return err
	}
	return types.WriteResult(filepath.Join(runDir, "clips.json"), out.Result)
}

// recordRun is best effort: a broken history database never fails a run.
func recordRun(ctx context.Context, log zerolog.Logger, dbPath, input string, sum Summary) string {
	if dbPath == "" {
		return ""
	}
	h, err := storage.Open(dbPath)
	if err != nil {
		log.Warn().Err(err).Msg("open run history")
		return ""
	}
	defer h.Close()

	r, err := h.Record(ctx, storage.Run{
		Input:  input,
		Mode:   sum.Mode,
		Clips:  len(sum.Result.Clips),
		RunDir: sum.RunDir,
	})
	if err != nil {
		log.Warn().Err(err).Msg("record run")
		return ""
	}
	return r.ID
}

// LoadTranscript reads a transcript file. JSON files hold a transcript
// object; anything else is plain text and becomes a single 0-30 s segment.
func LoadTranscript(path string) (types.Transcript, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return types.Transcript{}, err
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var tr types.Transcript
		if err := json.Unmarshal(b, &tr); err != nil {
			return types.Transcript{}, fmt.Errorf("decode transcript %s: %w", path, err)
		}
		if tr.Text == "" {
			parts := make([]string, 0, len(tr.Segments))
			for _, s := range tr.Segments {
				parts = append(parts, s.Text)
			}
			tr.Text = strings.Join(parts, " ")
		}
		return tr, nil
	}

	text := strings.TrimSpace(string(b))
	if text == "" {
		return types.Transcript{}, fmt.Errorf("transcript %s is empty", path)
	}
	return types.Transcript{
		Text:     text,
		Segments: []types.Segment{{Start: 0, End: plainTextSegmentSec, Text: text}},
	}, nil
}

func buildRunOutDir(outRoot, input string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", input, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

var (
	_ ports.VideoTool      = (*ffmpeg.Adapter)(nil)
	_ ports.ASR            = (*whispercpp.Adapter)(nil)
	_ ports.ASR            = (*whisperpy.Adapter)(nil)
	_ ports.TextGenerator  = (*gemini.Adapter)(nil)
	_ ports.TextGenerator  = (*openrouter.Adapter)(nil)
	_ ports.MusicGenerator = (*stability.Adapter)(nil)
)
