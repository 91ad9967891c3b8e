package clips

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/forPelevin/reelcut/internal/types"
)

// NoJSONError means the model answered without any JSON object.
type NoJSONError struct {
	Snippet string
}

func (e *NoJSONError) Error() string {
	return fmt.Sprintf("no JSON object in model response: %q", e.Snippet)
}

// SchemaError means a JSON object was found but it is not a clip list.
type SchemaError struct {
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("clip list schema mismatch: %s: %v", e.Reason, e.Err)
	}
	return "clip list schema mismatch: " + e.Reason
}

func (e *SchemaError) Unwrap() error { return e.Err }

type rawClip struct {
	Start     *string `json:"start"`
	End       *string `json:"end"`
	Hook      *string `json:"hook"`
	MusicMood *string `json:"music_mood"`
}

// ParseResponse extracts and validates {"clips":[{start,end,hook,music_mood}]}
// from raw model text. music_mood is optional; the other fields are required.
func ParseResponse(text string) ([]types.Clip, error) {
	obj, err := extractJSONObject(text)
	if err != nil {
		return nil, err
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &top); err != nil {
		return nil, &SchemaError{Reason: "invalid JSON object", Err: err}
	}
	rawList, ok := top["clips"]
	if !ok {
		return nil, &SchemaError{Reason: `missing "clips"`}
	}
	if t := bytes.TrimSpace(rawList); len(t) == 0 || t[0] != '[' {
		return nil, &SchemaError{Reason: `"clips" is not an array`}
	}

	var raw []rawClip
	if err := json.Unmarshal(rawList, &raw); err != nil {
		return nil, &SchemaError{Reason: "clip has wrong field types", Err: err}
	}

	out := make([]types.Clip, 0, len(raw))
	for i, rc := range raw {
		if rc.Start == nil || rc.End == nil || rc.Hook == nil {
			return nil, &SchemaError{Reason: fmt.Sprintf("clip %d: start, end and hook are required", i)}
		}
		c := types.Clip{
			Start: strings.TrimSpace(*rc.Start),
			End:   strings.TrimSpace(*rc.End),
			Hook:  strings.TrimSpace(*rc.Hook),
		}
		if rc.MusicMood != nil {
			c.MusicMood = strings.TrimSpace(*rc.MusicMood)
		}
		out = append(out, c)
	}
	return out, nil
}

func extractJSONObject(s string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", &NoJSONError{}
	}

	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}

	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start >= 0 && end > start {
		return t[start : end+1], nil
	}
	return "", &NoJSONError{Snippet: truncate(t, 200)}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
