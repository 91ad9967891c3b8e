package types

import (
	"encoding/json"
	"fmt"
)

type Transcript struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Clip is one candidate short. Start and End are HH:MM:SS timestamps.
type Clip struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Hook      string `json:"hook"`
	MusicMood string `json:"music_mood"`

	BackgroundMusic *Music `json:"background_music,omitempty"`
}

type MusicStatus string

const (
	MusicCompleted          MusicStatus = "completed"
	MusicMock               MusicStatus = "mock"
	MusicServiceUnavailable MusicStatus = "service_unavailable"
	MusicAuthError          MusicStatus = "auth_error"
	MusicAPIError           MusicStatus = "api_error"
	MusicRequestFailed      MusicStatus = "request_failed"
	MusicError              MusicStatus = "error"
)

// IsPlaceholder reports whether the result carries no generated audio.
func (s MusicStatus) IsPlaceholder() bool {
	switch s {
	case MusicCompleted:
		return false
	case MusicMock, MusicServiceUnavailable, MusicAuthError, MusicAPIError, MusicRequestFailed, MusicError:
		return true
	}
	panic(fmt.Sprintf("unknown music status %q", string(s)))
}

func (s MusicStatus) Valid() bool {
	switch s {
	case MusicCompleted, MusicMock, MusicServiceUnavailable, MusicAuthError, MusicAPIError, MusicRequestFailed, MusicError:
		return true
	default:
		return false
	}
}

func (s *MusicStatus) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	st := MusicStatus(v)
	if !st.Valid() {
		return fmt.Errorf("unknown music status %q", v)
	}
	*s = st
	return nil
}

// Music is the background track attached to a clip. URL is a local file
// path and stays null for placeholder results.
type Music struct {
	ID       string      `json:"id"`
	Status   MusicStatus `json:"status"`
	URL      *string     `json:"url"`
	Title    string      `json:"title"`
	Mood     string      `json:"mood"`
	Prompt   string      `json:"prompt"`
	Duration *int        `json:"duration,omitempty"`
	Error    string      `json:"error,omitempty"`
	Mock     bool        `json:"mock,omitempty"`
}

// Result is the clips.json document shared between stages and runs.
type Result struct {
	Clips []Clip `json:"clips"`
}
