package workflow

import (
	"path/filepath"
	"strings"
)

// Layout carries the naming rules for derived output paths.
type Layout struct {
	// Dir receives default outputs; empty means the working directory.
	Dir               string
	VideoExtension    string
	SubtitleExtension string
}

// Paths are the artifacts of one run.
type Paths struct {
	Video     string
	Subtitles string
}

// DerivePaths returns the video and subtitle paths for audioPath. An explicit
// outputPath wins; otherwise the video is named after the audio base name.
// The subtitle path replaces the video extension.
func DerivePaths(audioPath, outputPath string, layout Layout) Paths {
	videoExt := layout.VideoExtension
	if videoExt == "" {
		videoExt = ".mp4"
	}
	subtitleExt := layout.SubtitleExtension
	if subtitleExt == "" {
		subtitleExt = ".srt"
	}

	video := strings.TrimSpace(outputPath)
	if video == "" {
		base := filepath.Base(audioPath)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		video = filepath.Join(layout.Dir, stem+videoExt)
	}
	subtitles := strings.TrimSuffix(video, filepath.Ext(video)) + subtitleExt
	return Paths{Video: video, Subtitles: subtitles}
}
