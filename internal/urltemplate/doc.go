// Package urltemplate validates shortener stems and expands them into the
// time-stamped URLs encoded in each QR frame and subtitle cue.
//
// A template is the base URL that receives a `?t=<seconds>` query parameter
// per bucket. Validation distinguishes fatal problems (characters the
// shortener cannot carry) from warnings (a missing http/https scheme) so the
// caller can decide whether a warning aborts the run.
package urltemplate
