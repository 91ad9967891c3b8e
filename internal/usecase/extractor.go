package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/forPelevin/reelcut/internal/domain/timewindow"
	"github.com/forPelevin/reelcut/internal/ports"
	"github.com/forPelevin/reelcut/internal/types"
)

type Extractor struct {
	video    ports.VideoTool
	clipsDir string
	log      zerolog.Logger
}

func NewExtractor(video ports.VideoTool, clipsDir string, log zerolog.Logger) *Extractor {
	return &Extractor{
		video:    video,
		clipsDir: clipsDir,
		log:      log.With().Str("component", "extractor").Logger(),
	}
}

// Cut writes clip_001.mp4, clip_002.mp4, ... with a stream copy. The first
// failing clip aborts the stage.
func (x *Extractor) Cut(ctx context.Context, mediaPath string, cs []types.Clip) ([]string, error) {
	if len(cs) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(x.clipsDir, 0o755); err != nil {
		return nil, err
	}

	mediaDur, err := x.video.ProbeDuration(ctx, mediaPath)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(cs))
	for i, c := range cs {
		n := i + 1
		st, err := timewindow.TimestampToSeconds(c.Start)
		if err != nil {
			return out, fmt.Errorf("clip %d: %w", n, err)
		}
		if mediaDur > 0 && float64(st) >= mediaDur {
			return out, fmt.Errorf("clip %d: start %s is past media end %s",
				n, c.Start, timewindow.SecondsToTimestamp(mediaDur))
		}

		path := filepath.Join(x.clipsDir, fmt.Sprintf("clip_%03d.mp4", n))
		x.log.Info().Int("clip", n).Str("start", c.Start).Str("end", c.End).Str("out", path).Msg("cutting clip")
		if err := x.video.CutClip(ctx, mediaPath, c.Start, c.End, path); err != nil {
			return out, fmt.Errorf("clip %d: %w", n, err)
		}
		out = append(out, path)
	}
	return out, nil
}
