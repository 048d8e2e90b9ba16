// Package config loads, normalizes, and validates timeqr configuration data.
//
// It supplies defaults that reproduce the classic behaviour (version 1 QR
// codes at 10 pixels per module, one code per second at 30 fps, H.264/AAC
// output), expands user paths, reads TOML files, and honours environment
// overrides for the ffmpeg and ffprobe binaries. Command-line flags are
// applied on top of the loaded Config by the CLI.
package config
