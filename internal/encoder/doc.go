// Package encoder defines the port the QR video pipeline encodes through and
// an ffmpeg-backed implementation of it.
//
// An encoder session has three typed ports: a raw frame sink (the Session
// itself is an io.Writer accepting packed frames in the declared format), an
// audio source path, and an output path. The pipeline only ever writes whole
// frames in presentation order and then closes the session; everything about
// codecs and containers stays behind the Encoder interface so an in-process
// encoder can replace the external process without touching frame
// generation.
package encoder
