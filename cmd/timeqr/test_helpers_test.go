package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"timeqr/internal/testsupport"
)

type cliTestEnv struct {
	dir        string
	configPath string
	audioPath  string
	ffmpegLog  string
}

func setupCLITestEnv(t *testing.T, duration string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("TIMEQR_FFMPEG", "")
	t.Setenv("TIMEQR_FFPROBE", "")
	work := filepath.Join(base, "work")
	if err := os.MkdirAll(work, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", work, err)
	}
	t.Chdir(work)

	env := &cliTestEnv{
		dir:        work,
		configPath: filepath.Join(base, "timeqr.toml"),
		audioPath:  filepath.Join(work, "talk.wav"),
		ffmpegLog:  filepath.Join(base, "ffmpeg-args.txt"),
	}
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries(duration, env.ffmpegLog))
	testsupport.WriteConfig(t, env.configPath, cfg)
	testsupport.WriteFile(t, env.audioPath, 44)
	return env
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(normalizeHelpArgs(append(flags, args...)))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}
