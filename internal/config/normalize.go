package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeTools()
	c.normalizeQR()
	c.normalizeVideo()
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

// normalizeTools applies environment overrides. Binaries stay as given so
// bare names are still resolved through PATH.
func (c *Config) normalizeTools() {
	if value, ok := os.LookupEnv(envFFmpeg); ok && strings.TrimSpace(value) != "" {
		c.Tools.FFmpeg = value
	}
	if value, ok := os.LookupEnv(envFFprobe); ok && strings.TrimSpace(value) != "" {
		c.Tools.FFprobe = value
	}
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpegBinary
	}
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobeBinary
	}
}

func (c *Config) normalizeQR() {
	c.QR.Level = strings.ToUpper(strings.TrimSpace(c.QR.Level))
	if c.QR.Level == "" {
		c.QR.Level = defaultQRLevel
	}
}

func (c *Config) normalizeVideo() {
	ext := strings.TrimSpace(c.Video.Extension)
	if ext == "" {
		ext = defaultVideoExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Video.Extension = strings.ToLower(ext)
	c.Video.Codec = strings.TrimSpace(c.Video.Codec)
	c.Video.Profile = strings.TrimSpace(c.Video.Profile)
	c.Video.AudioCodec = strings.TrimSpace(c.Video.AudioCodec)
}

func (c *Config) normalizeOutput() error {
	ext := strings.TrimSpace(c.Output.SubtitleExtension)
	if ext == "" {
		ext = defaultSubtitleExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Output.SubtitleExtension = strings.ToLower(ext)

	if strings.TrimSpace(c.Output.Dir) != "" {
		dir, err := expandPath(strings.TrimSpace(c.Output.Dir))
		if err != nil {
			return fmt.Errorf("output.dir: %w", err)
		}
		c.Output.Dir = dir
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		file, err := expandPath(strings.TrimSpace(c.Logging.File))
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = file
	}
	return nil
}
