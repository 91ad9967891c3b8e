package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/forPelevin/reelcut/internal/ports"
	"github.com/forPelevin/reelcut/internal/ports/adapters/redact"
)

type Adapter struct {
	key     string
	model   string
	baseURL string
	client  *http.Client
}

const (
	requestTimeout = 90 * time.Second
	defaultModel   = "z-ai/glm-4.5-air:free"
)

func New(apiKey, model, baseURL string) (*Adapter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("OPENROUTER_API_KEY is required (set it in .env)")
	}
	if model == "" {
		model = defaultModel
	}
	baseURL = normalizeBaseURL(baseURL)
	return &Adapter{key: apiKey, model: model, baseURL: baseURL, client: &http.Client{Timeout: 5 * time.Minute}}, nil
}

// clip list schema passed as response_format; providers that ignore it
// still get the same contract through the prompt.
var clipListSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"clips": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"start":      map[string]any{"type": "string"},
					"end":        map[string]any{"type": "string"},
					"hook":       map[string]any{"type": "string"},
					"music_mood": map[string]any{"type": "string"},
				},
				"required": []string{"start", "end", "hook", "music_mood"},
			},
		},
	},
	"required": []string{"clips"},
}

func (a *Adapter) Generate(ctx context.Context, in ports.TextRequest) (string, error) {
	payload := map[string]any{
		"model":  a.model,
		"stream": false,
		"messages": []map[string]any{
			{"role": "user", "content": in.Prompt},
		},
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   "reelcut_clips",
				"schema": clipListSchema,
			},
		},
	}
	if in.Temperature > 0 {
		payload["temperature"] = in.Temperature
	}
	if in.MaxOutputTokens > 0 {
		payload["max_tokens"] = in.MaxOutputTokens
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	url := a.baseURL + "/api/v1/chat/completions"

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+a.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("openrouter timeout after %s (model=%s)", requestTimeout, a.model)
		}
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return "", fmt.Errorf("openrouter status %d and read body failed: %v", resp.StatusCode, readErr)
		}
		return "", &ports.StatusError{
			Provider:   "openrouter",
			StatusCode: resp.StatusCode,
			Body:       redact.Truncate(redact.Secrets(string(rb), a.key), 400),
		}
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content any `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("decode openrouter response: %w", err)
	}
	if len(raw.Choices) == 0 {
		return "", errors.New("openrouter: no choices")
	}
	return messageContentToString(raw.Choices[0].Message.Content)
}

func messageContentToString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []any:
		// Some providers return an array of {type,text} parts.
		var b strings.Builder
		for _, it := range x {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if t, ok := m["text"].(string); ok {
				b.WriteString(t)
			}
		}
		s := b.String()
		if strings.TrimSpace(s) == "" {
			return "", errors.New("openrouter: empty content")
		}
		return s, nil
	default:
		return "", fmt.Errorf("openrouter: unexpected content type %T", v)
	}
}
