package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateQR(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateQR() error {
	if c.QR.Version < 0 || c.QR.Version > 40 {
		return fmt.Errorf("qr.version must be between 1 and 40, or 0 for auto (got %d)", c.QR.Version)
	}
	switch c.QR.Level {
	case "L", "M", "Q", "H":
	default:
		return fmt.Errorf("qr.level must be one of L, M, Q, H (got %q)", c.QR.Level)
	}
	if c.QR.BoxSize <= 0 {
		return errors.New("qr.box_size must be positive")
	}
	if c.QR.Border < 0 {
		return errors.New("qr.border must not be negative")
	}
	return nil
}

func (c *Config) validateVideo() error {
	if c.Video.FPS <= 0 {
		return errors.New("video.fps must be positive")
	}
	if c.Video.IntervalSeconds <= 0 {
		return errors.New("video.interval_seconds must be positive")
	}
	if c.Video.Codec == "" {
		return errors.New("video.codec must be set")
	}
	if c.Video.AudioCodec == "" {
		return errors.New("video.audio_codec must be set")
	}
	if c.Video.ThreadQueueSize <= 0 {
		return errors.New("video.thread_queue_size must be positive")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.Output.SubtitleExtension == c.Video.Extension {
		return fmt.Errorf("output.subtitle_extension must differ from video.extension (%s)", c.Video.Extension)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error (got %q)", strings.TrimSpace(c.Logging.Level))
	}
	return nil
}
