package srt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"timeqr/internal/urltemplate"
)

// ErrInvalidInterval reports a non-positive bucket interval.
var ErrInvalidInterval = errors.New("interval must be positive")

// Cue is one numbered caption block.
type Cue struct {
	Index int
	Start int
	End   int
	Text  string
}

// BuildCues lays out one cue per bucket. The final cue ends at totalSeconds
// rather than at the bucket boundary.
func BuildCues(template string, totalSeconds, intervalSeconds int) ([]Cue, error) {
	if intervalSeconds <= 0 {
		return nil, fmt.Errorf("build cues: %w (got %d)", ErrInvalidInterval, intervalSeconds)
	}
	if totalSeconds <= 0 {
		return nil, nil
	}
	cues := make([]Cue, 0, (totalSeconds+intervalSeconds-1)/intervalSeconds)
	for start := 0; start < totalSeconds; start += intervalSeconds {
		cues = append(cues, Cue{
			Index: start/intervalSeconds + 1,
			Start: start,
			End:   min(start+intervalSeconds, totalSeconds),
			Text:  urltemplate.BucketURL(template, start),
		})
	}
	return cues, nil
}

// Encode writes cues in SRT block form.
func Encode(w io.Writer, cues []Cue) error {
	bw := bufio.NewWriter(w)
	for _, cue := range cues {
		if _, err := fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n", cue.Index, FormatTimestamp(cue.Start), FormatTimestamp(cue.End), cue.Text); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile creates or truncates path and writes the cues for template. It
// returns the number of cues written. A failure part way leaves a truncated
// file behind.
func WriteFile(path, template string, totalSeconds, intervalSeconds int) (int, error) {
	cues, err := BuildCues(template, totalSeconds, intervalSeconds)
	if err != nil {
		return 0, err
	}
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create subtitles: %w", err)
	}
	defer file.Close()

	if err := Encode(file, cues); err != nil {
		return 0, fmt.Errorf("write subtitles: %w", err)
	}
	if err := file.Close(); err != nil {
		return 0, fmt.Errorf("close subtitles: %w", err)
	}
	return len(cues), nil
}

// Summary describes an existing SRT file.
type Summary struct {
	Cues  int
	First int
	Last  int
}

// Inspect counts the cues in an SRT file and reports the earliest start and
// latest end timestamp in whole seconds.
func Inspect(path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("read srt: %w", err)
	}
	content := strings.TrimSpace(strings.ReplaceAll(string(data), "\r\n", "\n"))
	if content == "" {
		return Summary{}, nil
	}
	var summary Summary
	summary.First = -1
	for _, block := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		summary.Cues++
		for _, line := range strings.Split(block, "\n") {
			start, end, ok := strings.Cut(line, "-->")
			if !ok {
				continue
			}
			if s, err := ParseTimestamp(start); err == nil && (summary.First < 0 || s < summary.First) {
				summary.First = s
			}
			if e, err := ParseTimestamp(end); err == nil && e > summary.Last {
				summary.Last = e
			}
		}
	}
	if summary.First < 0 {
		summary.First = 0
	}
	return summary, nil
}

// ParseTimestamp parses HH:MM:SS, ignoring any ",mmm" fraction.
func ParseTimestamp(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	if whole, _, ok := strings.Cut(strings.ReplaceAll(value, ".", ","), ","); ok {
		value = whole
	}
	hms := strings.Split(value, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	if errH != nil || errM != nil || errS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return hours*3600 + minutes*60 + seconds, nil
}
