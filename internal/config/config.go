package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"

	EngineWhisperCpp = "whispercpp"
	EngineWhisperPy  = "whisper"
)

// Config holds all application configuration. Credentials never come from
// the file, only from the environment.
type Config struct {
	OutDir    string `yaml:"out_dir"`
	CacheDir  string `yaml:"cache_dir"`
	HistoryDB string `yaml:"history_db"`

	LLM      LLMConfig      `yaml:"llm"`
	Music    MusicConfig    `yaml:"music"`
	ASR      ASRConfig      `yaml:"asr"`
	FFmpeg   FFmpegConfig   `yaml:"ffmpeg"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
}

type LLMConfig struct {
	Provider   string           `yaml:"provider"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
}

type GeminiConfig struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type OpenRouterConfig struct {
	APIKey       string   `yaml:"-"`
	Model        string   `yaml:"model"`
	BaseURL      string   `yaml:"base_url"`
	AllowedHosts []string `yaml:"allowed_hosts"`
}

type MusicConfig struct {
	APIKey string `yaml:"-"`
	URL    string `yaml:"url"`
	Model  string `yaml:"model"`
}

type ASRConfig struct {
	Engine       string `yaml:"engine"`
	WhisperBin   string `yaml:"whisper_bin"`
	WhisperModel string `yaml:"whisper_model"`
	Python       string `yaml:"python"`
	PythonModel  string `yaml:"python_model"`
}

type FFmpegConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
}

type AnalyzerConfig struct {
	ChunkSize       int           `yaml:"chunk_size"`
	MaxAttempts     int           `yaml:"max_attempts"`
	BaseDelay       time.Duration `yaml:"base_delay"`
	Temperature     float64       `yaml:"temperature"`
	MaxOutputTokens int           `yaml:"max_output_tokens"`
	MinClip         time.Duration `yaml:"min_clip"`
	MaxClip         time.Duration `yaml:"max_clip"`
}

// Load reads configuration from path, or from the first config file found in
// the usual places, over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays credentials and endpoint overrides from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	c.LLM.Gemini.APIKey = getenv("GEMINI_API_KEY")
	c.LLM.OpenRouter.APIKey = getenv("OPENROUTER_API_KEY")
	c.Music.APIKey = getenv("STABILITY_API_KEY")

	setIf(&c.LLM.Provider, getenv("REELCUT_LLM_PROVIDER"))
	setIf(&c.LLM.Gemini.Model, getenv("GEMINI_MODEL"))
	setIf(&c.LLM.OpenRouter.Model, getenv("OPENROUTER_MODEL"))
	setIf(&c.LLM.OpenRouter.BaseURL, getenv("OPENROUTER_BASE_URL"))

	if v := getenv("OPENROUTER_ALLOWED_HOSTS"); v != "" {
		var hosts []string
		for _, h := range strings.Split(v, ",") {
			if h = strings.TrimSpace(h); h != "" {
				hosts = append(hosts, h)
			}
		}
		c.LLM.OpenRouter.AllowedHosts = hosts
	}
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() *Config {
	return &Config{
		OutDir:    "out",
		CacheDir:  ".cache",
		HistoryDB: filepath.Join(".cache", "history.db"),
		LLM: LLMConfig{
			Provider: ProviderGemini,
			Gemini: GeminiConfig{
				Model:   "gemini-2.0-flash",
				BaseURL: "https://generativelanguage.googleapis.com",
			},
			OpenRouter: OpenRouterConfig{
				Model:   "z-ai/glm-4.5-air:free",
				BaseURL: "https://openrouter.ai",
			},
		},
		Music: MusicConfig{
			URL:   "https://api.stability.ai/v2beta/audio/stable-audio-2/text-to-audio",
			Model: "stable-audio-2.5",
		},
		ASR: ASRConfig{
			Engine:       EngineWhisperCpp,
			WhisperBin:   ".cache/bin/whisper.cpp",
			WhisperModel: ".cache/models/ggml-base.bin",
			Python:       "python",
			PythonModel:  "base",
		},
		FFmpeg: FFmpegConfig{
			FFmpegPath:  "ffmpeg",
			FFprobePath: "ffprobe",
		},
		Analyzer: AnalyzerConfig{
			ChunkSize:       40,
			MaxAttempts:     3,
			BaseDelay:       time.Second,
			Temperature:     0.4,
			MaxOutputTokens: 512,
			MinClip:         5 * time.Second,
			MaxClip:         30 * time.Second,
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./reelcut.yaml",
		"./reelcut.yml",
		filepath.Join(os.Getenv("HOME"), ".reelcut", "config.yaml"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
