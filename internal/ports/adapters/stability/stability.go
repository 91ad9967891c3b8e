package stability

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/forPelevin/reelcut/internal/ports"
	"github.com/forPelevin/reelcut/internal/ports/adapters/redact"
)

const (
	DefaultURL   = "https://api.stability.ai/v2beta/audio/stable-audio-2/text-to-audio"
	DefaultModel = "stable-audio-2.5"

	requestTimeout = 60 * time.Second
)

type Adapter struct {
	key    string
	url    string
	model  string
	client *http.Client
}

// New never fails: without a key every Generate call returns
// ports.ErrNotConfigured and the caller falls back to a placeholder.
func New(apiKey, url, model string) *Adapter {
	if url == "" {
		url = DefaultURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Adapter{
		key:    strings.TrimSpace(apiKey),
		url:    url,
		model:  model,
		client: &http.Client{Timeout: requestTimeout},
	}
}

func (a *Adapter) Generate(ctx context.Context, in ports.MusicRequest) ([]byte, error) {
	if a.key == "" {
		return nil, ports.ErrNotConfigured
	}

	format := in.OutputFormat
	if format == "" {
		format = "mp3"
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := [][2]string{
		{"prompt", in.Prompt},
		{"output_format", format},
		{"duration", strconv.Itoa(in.DurationSec)},
		{"model", a.model},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("write form field %s: %w", f[0], err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+a.key)
	req.Header.Set("Accept", "audio/*")
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stability request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		rb, _ := io.ReadAll(resp.Body)
		return nil, &ports.StatusError{
			Provider:   "stability",
			StatusCode: resp.StatusCode,
			Body:       redact.Truncate(redact.Secrets(string(rb), a.key), 400),
		}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read stability audio: %w", err)
	}
	return audio, nil
}
