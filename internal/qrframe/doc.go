// Package qrframe rasterizes URLs into fixed-size QR video frames.
//
// Symbols are encoded with github.com/skip2/go-qrcode at a forced version so
// every frame of a run has the same dimensions; the encoder is declared once
// with those dimensions and never renegotiated. Frames are white modules on a
// black background in packed rgb24 layout, ready to be written straight into
// a rawvideo stream.
//
// The forced version is a hard capacity ceiling. Render returns a
// *CapacityError instead of upgrading the version when a URL does not fit;
// ResolveVersion picks a version up front for callers that prefer "auto".
package qrframe
