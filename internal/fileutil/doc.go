// Package fileutil holds small filesystem helpers shared by the generate
// workflow: output locking and parent directory creation.
package fileutil
