// Package whisperpy runs the reference Python whisper CLI
// (python -m whisper) and reads its JSON output.
package whisperpy

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/forPelevin/reelcut/internal/types"
)

type Adapter struct {
	python string
	model  string
}

func New(pythonPath, modelName string) *Adapter {
	if pythonPath == "" {
		pythonPath = "python"
	}
	if modelName == "" {
		modelName = "base"
	}
	return &Adapter{python: pythonPath, model: modelName}
}

func (a *Adapter) Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error) {
	outDir := filepath.Join(cacheDir, "whisper_output")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return types.Transcript{}, err
	}

	cmd := exec.CommandContext(ctx, a.python, "-m", "whisper",
		wavPath,
		"--model", a.model,
		"--output_dir", outDir,
		"--output_format", "json",
		"--fp16", "False",
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.Transcript{}, fmt.Errorf("python whisper failed: %w\n%s", err, string(b))
	}

	base := strings.TrimSuffix(filepath.Base(wavPath), filepath.Ext(wavPath))
	jb, err := os.ReadFile(filepath.Join(outDir, base+".json"))
	if err != nil {
		return types.Transcript{}, fmt.Errorf("read whisper output: %w", err)
	}
	return parseOutput(jb)
}

func parseOutput(jb []byte) (types.Transcript, error) {
	var tr types.Transcript
	if err := json.Unmarshal(jb, &tr); err != nil {
		return types.Transcript{}, fmt.Errorf("parse whisper json: %w", err)
	}
	tr.Text = strings.TrimSpace(tr.Text)
	for i := range tr.Segments {
		tr.Segments[i].Text = strings.TrimSpace(tr.Segments[i].Text)
	}
	return tr, nil
}
