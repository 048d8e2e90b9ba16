package qrframe

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	// PixelFormat names the byte layout of Frame.Pix for ffmpeg.
	PixelFormat = "rgb24"

	bytesPerPixel = 3

	minVersion = 1
	maxVersion = 40
)

var (
	// ErrCapacityExceeded reports a URL that does not fit the forced symbol version.
	ErrCapacityExceeded = errors.New("qr capacity exceeded")
	// ErrInvalidOptions reports out-of-range generator options.
	ErrInvalidOptions = errors.New("invalid qr options")
)

// CapacityError carries the details of a URL that does not fit.
type CapacityError struct {
	Length   int
	Capacity int
	Version  int
	Level    string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("qr capacity exceeded: %d bytes do not fit version %d level %s (max %d bytes)", e.Length, e.Version, e.Level, e.Capacity)
}

// Is matches ErrCapacityExceeded.
func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// Options fixes the symbol layout for a run.
type Options struct {
	// Version is the QR version (1-40). Zero means the caller will resolve one
	// with ResolveVersion before rendering.
	Version int
	// Level is the error correction level: L, M, Q or H.
	Level string
	// BoxSize is the number of pixels per module.
	BoxSize int
	// Border is the quiet zone width in modules.
	Border int
}

// DefaultOptions returns version 1, level L, 10 pixel modules and a 4 module border.
func DefaultOptions() Options {
	return Options{Version: 1, Level: "L", BoxSize: 10, Border: 4}
}

// Frame is a packed rgb24 raster.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

// Equal reports whether two frames have the same dimensions and pixels.
func (f Frame) Equal(other Frame) bool {
	return f.Width == other.Width && f.Height == other.Height && bytes.Equal(f.Pix, other.Pix)
}

// Generator renders URLs with fixed options.
type Generator struct {
	opts  Options
	level qrcode.RecoveryLevel
}

// New validates opts and returns a Generator. Options.Version must be set;
// resolve "auto" with ResolveVersion first.
func New(opts Options) (*Generator, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.Version < minVersion || opts.Version > maxVersion {
		return nil, fmt.Errorf("%w: version %d outside %d-%d", ErrInvalidOptions, opts.Version, minVersion, maxVersion)
	}
	if opts.BoxSize <= 0 {
		return nil, fmt.Errorf("%w: box size must be positive", ErrInvalidOptions)
	}
	if opts.Border < 0 {
		return nil, fmt.Errorf("%w: border must not be negative", ErrInvalidOptions)
	}
	opts.Level = strings.ToUpper(strings.TrimSpace(opts.Level))
	return &Generator{opts: opts, level: level}, nil
}

// Options returns the generator configuration.
func (g *Generator) Options() Options {
	return g.opts
}

// Size returns the frame edge length in pixels.
func (g *Generator) Size() int {
	return (modulesForVersion(g.opts.Version) + 2*g.opts.Border) * g.opts.BoxSize
}

// Capacity returns the byte-mode payload ceiling for the configured version and level.
func (g *Generator) Capacity() int {
	return byteCapacity(g.opts.Version, g.level)
}

// Render encodes url into a frame. The result depends only on url and the
// generator options.
func (g *Generator) Render(url string) (Frame, error) {
	code, err := qrcode.NewWithForcedVersion(url, g.opts.Version, g.level)
	if err != nil {
		if fitsVersion(url, g.opts.Version, g.level) {
			return Frame{}, fmt.Errorf("encode qr: %w", err)
		}
		return Frame{}, &CapacityError{
			Length:   len(url),
			Capacity: g.Capacity(),
			Version:  g.opts.Version,
			Level:    g.opts.Level,
		}
	}
	code.DisableBorder = true
	bitmap := code.Bitmap()

	size := g.Size()
	frame := Frame{Width: size, Height: size, Pix: make([]byte, size*size*bytesPerPixel)}
	box := g.opts.BoxSize
	offset := g.opts.Border * box
	stride := size * bytesPerPixel
	for my, row := range bitmap {
		for mx, set := range row {
			if !set {
				continue
			}
			for py := 0; py < box; py++ {
				start := (offset+my*box+py)*stride + (offset+mx*box)*bytesPerPixel
				line := frame.Pix[start : start+box*bytesPerPixel]
				for i := range line {
					line[i] = 0xff
				}
			}
		}
	}
	return frame, nil
}

// ResolveVersion returns the smallest version at level that fits longest.
func ResolveVersion(longest, level string) (int, error) {
	recovery, err := parseLevel(level)
	if err != nil {
		return 0, err
	}
	code, err := qrcode.New(longest, recovery)
	if err != nil {
		return 0, &CapacityError{
			Length:   len(longest),
			Capacity: byteCapacity(maxVersion, recovery),
			Version:  maxVersion,
			Level:    strings.ToUpper(strings.TrimSpace(level)),
		}
	}
	return code.VersionNumber, nil
}

func modulesForVersion(version int) int {
	return 17 + 4*version
}

func fitsVersion(content string, version int, level qrcode.RecoveryLevel) bool {
	_, err := qrcode.NewWithForcedVersion(content, version, level)
	return err == nil
}

// byteCapacity finds the longest lowercase payload that still encodes.
func byteCapacity(version int, level qrcode.RecoveryLevel) int {
	lo, hi := 0, 3000
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if fitsVersion(strings.Repeat("a", mid), version, level) {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

func parseLevel(level string) (qrcode.RecoveryLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "L", "":
		return qrcode.Low, nil
	case "M":
		return qrcode.Medium, nil
	case "Q":
		return qrcode.High, nil
	case "H":
		return qrcode.Highest, nil
	default:
		return qrcode.Low, fmt.Errorf("%w: error correction level %q (want L, M, Q or H)", ErrInvalidOptions, level)
	}
}
