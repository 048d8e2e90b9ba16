// Package srt renders the caption track that accompanies a QR video.
//
// Each cue spans one bucket and carries the bucket's time-stamped URL as its
// text, so players that show subtitles print the same link the QR code
// encodes. Timestamps use whole seconds (HH:MM:SS) to match the bucket grid.
package srt
