// Package assembler turns an audio file and a URL template into a QR video.
//
// Assemble probes the audio duration, splits it into fixed-length buckets,
// renders one QR frame per bucket and streams each frame interval*fps times
// into an encoder session alongside the original audio. Buckets are written
// strictly in order; the final bucket always contributes a full interval of
// frames even when the audio ends part way through it, so the video may run
// up to one interval past the audio.
//
// Progress is reported through the Observer interface so callers can attach a
// terminal bar, a log sampler or nothing at all.
package assembler
