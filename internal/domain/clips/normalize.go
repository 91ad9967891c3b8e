package clips

import (
	"fmt"
	"time"

	"github.com/forPelevin/reelcut/internal/domain/timewindow"
	"github.com/forPelevin/reelcut/internal/types"
)

const (
	DefaultMinClip = 5 * time.Second
	DefaultMaxClip = 30 * time.Second
)

type Bounds struct {
	Min time.Duration
	Max time.Duration
}

func DefaultBounds() Bounds {
	return Bounds{Min: DefaultMinClip, Max: DefaultMaxClip}
}

// NewClip builds a clip with canonical timestamps and a duration inside b.
// Too long clips are cut to b.Max, too short ones are extended to b.Min.
func NewClip(start, end, hook, mood string, b Bounds) (types.Clip, error) {
	st, err := timewindow.TimestampToSeconds(start)
	if err != nil {
		return types.Clip{}, err
	}
	en, err := timewindow.TimestampToSeconds(end)
	if err != nil {
		return types.Clip{}, err
	}
	if en <= st {
		return types.Clip{}, fmt.Errorf("clip end %s is not after start %s", end, start)
	}

	minS, maxS := int(b.Min/time.Second), int(b.Max/time.Second)
	if maxS > 0 && en-st > maxS {
		en = st + maxS
	}
	if minS > 0 && en-st < minS {
		en = st + minS
	}

	return types.Clip{
		Start:     timewindow.SecondsToTimestamp(float64(st)),
		End:       timewindow.SecondsToTimestamp(float64(en)),
		Hook:      hook,
		MusicMood: mood,
	}, nil
}

// Normalize applies NewClip to every clip and drops the ones that fail or
// start at or after transcriptEnd (seconds; ignored when <= 0). Dropped clips
// are reported with the reason.
func Normalize(in []types.Clip, b Bounds, transcriptEnd float64) (kept []types.Clip, dropped []error) {
	kept = make([]types.Clip, 0, len(in))
	for i, c := range in {
		nc, err := NewClip(c.Start, c.End, c.Hook, c.MusicMood, b)
		if err != nil {
			dropped = append(dropped, fmt.Errorf("clip %d: %w", i, err))
			continue
		}
		if transcriptEnd > 0 {
			st, _ := timewindow.TimestampToSeconds(nc.Start)
			if float64(st) >= transcriptEnd {
				dropped = append(dropped, fmt.Errorf("clip %d: start %s is past transcript end %s",
					i, nc.Start, timewindow.SecondsToTimestamp(transcriptEnd)))
				continue
			}
		}
		kept = append(kept, nc)
	}
	return kept, dropped
}

// TranscriptEnd returns the latest segment end in seconds.
func TranscriptEnd(tr types.Transcript) float64 {
	var end float64
	for _, s := range tr.Segments {
		if s.End > end {
			end = s.End
		}
	}
	return end
}
