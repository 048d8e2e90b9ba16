// Package workflow runs one generate request end to end.
//
// Run validates the URL template before anything touches disk, probes the
// audio duration once, resolves the QR layout for the run, takes the output
// lock, writes the subtitle file, and hands frame production to the
// assembler. Which artifacts are produced follows the GenerateVideo and
// SubtitlesOnly switches: subtitles are written when either is set, video
// only when GenerateVideo is set and SubtitlesOnly is not.
package workflow
