package preflight

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"timeqr/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// ErrFailed wraps the details of failed checks.
var ErrFailed = errors.New("preflight failed")

// ForGenerate checks that audioPath is readable and that the directories
// receiving outputs are writable. Directories that do not exist yet are
// checked at their nearest existing ancestor, since the run creates them.
func ForGenerate(audioPath string, outputs ...string) []Result {
	results := []Result{CheckInputFile("Audio file", audioPath)}
	seen := make(map[string]bool)
	for _, output := range outputs {
		if strings.TrimSpace(output) == "" {
			continue
		}
		dir := nearestExistingDir(filepath.Dir(output))
		if seen[dir] {
			continue
		}
		seen[dir] = true
		results = append(results, CheckDirectoryAccess("Output directory", dir))
	}
	return results
}

// RunAll reports binary availability and output directory access for cfg.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	var results []Result
	for _, status := range CheckSystemDeps(ctx, cfg) {
		result := Result{Name: status.Name, Passed: status.Available, Detail: status.Detail}
		if status.Available && status.Version != "" {
			result.Detail = status.Version
		}
		results = append(results, result)
	}
	dir := cfg.Output.Dir
	if dir == "" {
		dir = "."
	}
	results = append(results, CheckDirectoryAccess("Output directory", nearestExistingDir(dir)))
	return results
}

// Err joins failed results into a single error, or returns nil.
func Err(results []Result) error {
	var failed []string
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", result.Name, result.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrFailed, strings.Join(failed, "; "))
}
