package srt

import "fmt"

// FormatTimestamp renders whole seconds as HH:MM:SS. Hours are padded to two
// digits but not truncated, so offsets of 100 hours or more produce a wider
// field. Negative input is treated as zero.
func FormatTimestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
