// Package ffprobe reads media durations with the ffprobe command-line tool.
//
// The prober asks ffprobe for the container duration only, formatted as a
// single bare number, and returns it as seconds. Failures carry ffprobe's
// stderr so a missing file or unsupported container is self-explanatory.
package ffprobe
