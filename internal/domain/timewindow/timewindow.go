package timewindow

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/forPelevin/reelcut/internal/types"
)

type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid timestamp %q: %s", e.Input, e.Reason)
}

// TimestampToSeconds parses HH:MM:SS. Minutes and seconds must be below 60.
func TimestampToSeconds(ts string) (int, error) {
	parts := strings.Split(strings.TrimSpace(ts), ":")
	if len(parts) != 3 {
		return 0, &FormatError{Input: ts, Reason: "want HH:MM:SS"}
	}
	var v [3]int
	for i, p := range parts {
		if !isDigits(p) {
			return 0, &FormatError{Input: ts, Reason: fmt.Sprintf("part %q is not a non-negative integer", p)}
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, &FormatError{Input: ts, Reason: fmt.Sprintf("part %q is not a non-negative integer", p)}
		}
		v[i] = n
	}
	if v[1] >= 60 || v[2] >= 60 {
		return 0, &FormatError{Input: ts, Reason: "minutes and seconds must be < 60"}
	}
	return v[0]*3600 + v[1]*60 + v[2], nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func SecondsToTimestamp(sec float64) string {
	s := int(math.Floor(sec))
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// SegmentsInWindow joins the text of every segment overlapping [startTs, endTs].
// Overlap is inclusive on both ends; partially covered segments are included whole.
func SegmentsInWindow(segments []types.Segment, startTs, endTs string) (string, error) {
	start, err := TimestampToSeconds(startTs)
	if err != nil {
		return "", err
	}
	end, err := TimestampToSeconds(endTs)
	if err != nil {
		return "", err
	}
	startS, endS := float64(start), float64(end)

	texts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.End >= startS && s.Start <= endS {
			texts = append(texts, s.Text)
		}
	}
	return strings.Join(texts, " "), nil
}
