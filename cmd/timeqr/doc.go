// Package main hosts the timeqr CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration, builds the structured
// logger, and hands generate requests to the workflow package. Progress is
// drawn as a terminal bar when stdout is a TTY and logged in sampled steps
// otherwise.
//
// Keep this package lean: add new functionality to the internal packages
// first, then surface it through dedicated commands or flags here.
package main
