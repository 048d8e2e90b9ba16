package config

const (
	defaultFFmpegBinary      = "ffmpeg"
	defaultFFprobeBinary     = "ffprobe"
	defaultQRVersion         = 1
	defaultQRLevel           = "L"
	defaultQRBoxSize         = 10
	defaultQRBorder          = 4
	defaultFPS               = 30
	defaultIntervalSeconds   = 1
	defaultVideoExtension    = ".mp4"
	defaultVideoCodec        = "libx264"
	defaultVideoProfile      = "main"
	defaultAudioCodec        = "aac"
	defaultThreadQueueSize   = 512
	defaultSubtitleExtension = ".srt"
	defaultForbiddenChars    = "_"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"

	envFFmpeg  = "TIMEQR_FFMPEG"
	envFFprobe = "TIMEQR_FFPROBE"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
		},
		QR: QR{
			Version: defaultQRVersion,
			Level:   defaultQRLevel,
			BoxSize: defaultQRBoxSize,
			Border:  defaultQRBorder,
		},
		Video: Video{
			FPS:             defaultFPS,
			IntervalSeconds: defaultIntervalSeconds,
			Extension:       defaultVideoExtension,
			Codec:           defaultVideoCodec,
			Profile:         defaultVideoProfile,
			AudioCodec:      defaultAudioCodec,
			ThreadQueueSize: defaultThreadQueueSize,
		},
		Output: Output{
			SubtitleExtension: defaultSubtitleExtension,
			Lock:              true,
		},
		Validation: Validation{
			ForbiddenCharacters: defaultForbiddenChars,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
