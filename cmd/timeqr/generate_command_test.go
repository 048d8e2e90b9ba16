package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"timeqr/internal/srt"
	"timeqr/internal/testsupport"
)

func TestGenerateWritesSubtitlesAndVideo(t *testing.T) {
	env := setupCLITestEnv(t, "10.000000")

	out, stderr, err := runCLI(t, env.configPath, "generate", env.audioPath, "http://x.co/a", "-d", "5")
	if err != nil {
		t.Fatalf("generate: %v\nstderr: %s", err, stderr)
	}
	// Default outputs are named relative to the working directory.
	requireContains(t, out, "Subtitles file 'talk.srt' generated.")
	requireContains(t, out, "Video 'talk.mp4' of duration 00:00:10 generated in")
	requireContains(t, out, "300 (150 per bucket)")
	requireContains(t, stderr, "subtitles written")

	summary, err := srt.Inspect(filepath.Join(env.dir, "talk.srt"))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if summary.Cues != 2 {
		t.Fatalf("expected 2 cues, got %d", summary.Cues)
	}

	args, err := os.ReadFile(env.ffmpegLog)
	if err != nil {
		t.Fatalf("read ffmpeg args: %v", err)
	}
	requireContains(t, string(args), "-s 290x290 -pix_fmt rgb24 -r 30 -i -")
	requireContains(t, string(args), "-c:v libx264 -pix_fmt yuv420p -profile:v main -c:a aac")

	video, err := os.ReadFile(filepath.Join(env.dir, "talk.mp4"))
	if err != nil || string(video) != "fake video" {
		t.Fatalf("expected stub video output, got %q (%v)", video, err)
	}
}

func TestGenerateRejectsUnderscore(t *testing.T) {
	env := setupCLITestEnv(t, "10.0")

	_, _, err := runCLI(t, env.configPath, "generate", env.audioPath, "http://x.co/a_b")
	if err == nil || !strings.Contains(err.Error(), "forbidden character") {
		t.Fatalf("expected forbidden character error, got %v", err)
	}
	if names := listFiles(t, env.dir); len(names) != 1 || names[0] != "talk.wav" {
		t.Fatalf("expected only the audio file, found %v", names)
	}
}

func TestGenerateRejectsTemplateBeforeCreatingDirectories(t *testing.T) {
	env := setupCLITestEnv(t, "10.0")
	outDir := filepath.Join(env.dir, "out")
	logFile := filepath.Join(env.dir, "logs", "timeqr.log")
	cfg := testsupport.NewConfig(t,
		testsupport.WithStubbedBinaries("10.0", env.ffmpegLog),
		testsupport.WithOutputDir(outDir),
		testsupport.WithLogFile(logFile),
	)
	testsupport.WriteConfig(t, env.configPath, cfg)

	_, _, err := runCLI(t, env.configPath, "generate", env.audioPath, "http://x.co/a_b")
	if err == nil || !strings.Contains(err.Error(), "forbidden character") {
		t.Fatalf("expected forbidden character error, got %v", err)
	}
	if names := listFiles(t, env.dir); len(names) != 1 || names[0] != "talk.wav" {
		t.Fatalf("expected only the audio file, found %v", names)
	}

	out, stderr, err := runCLI(t, env.configPath, "generate", env.audioPath, "http://x.co/a", "--subtitles-only")
	if err != nil {
		t.Fatalf("generate: %v\nstderr: %s", err, stderr)
	}
	requireContains(t, out, "Subtitles file '"+filepath.Join(outDir, "talk.srt")+"' generated.")
	if _, err := os.Stat(logFile); err != nil {
		t.Fatalf("expected log file after a valid run: %v", err)
	}
}

func TestGenerateWarnsOnMissingScheme(t *testing.T) {
	env := setupCLITestEnv(t, "3.0")

	out, _, err := runCLI(t, env.configPath, "generate", env.audioPath, "x.co/abc", "--subtitles-only")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	requireContains(t, out, "[WARN]")
	requireContains(t, out, "Subtitles file")

	_, _, err = runCLI(t, env.configPath, "generate", env.audioPath, "x.co/abc", "--subtitles-only", "--strict-scheme")
	if err == nil || !strings.Contains(err.Error(), "http://") {
		t.Fatalf("expected strict scheme failure, got %v", err)
	}
}

func TestGenerateSubtitlesOnlyWithOutput(t *testing.T) {
	env := setupCLITestEnv(t, "5.0")
	target := filepath.Join(env.dir, "renders", "qr_codes_video.mp4")

	out, _, err := runCLI(t, env.configPath, "generate", env.audioPath, "http://x.co/a", "--subtitles-only", "-d", "2", "-o", target)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	requireContains(t, out, "qr_codes_video.srt")
	if strings.Contains(out, "Video '") {
		t.Fatalf("video should not be generated: %s", out)
	}
	if _, err := os.Stat(env.ffmpegLog); !os.IsNotExist(err) {
		t.Fatalf("ffmpeg should not run, stat err = %v", err)
	}

	content, err := os.ReadFile(filepath.Join(env.dir, "renders", "qr_codes_video.srt"))
	if err != nil {
		t.Fatalf("read subtitles: %v", err)
	}
	want := "1\n00:00:00 --> 00:00:02\nhttp://x.co/a?t=0\n\n" +
		"2\n00:00:02 --> 00:00:04\nhttp://x.co/a?t=2\n\n" +
		"3\n00:00:04 --> 00:00:05\nhttp://x.co/a?t=4\n\n"
	if string(content) != want {
		t.Fatalf("unexpected subtitles:\n%s", content)
	}
}

func TestGenerateDryRun(t *testing.T) {
	env := setupCLITestEnv(t, "10.0")

	out, _, err := runCLI(t, env.configPath, "generate", env.audioPath, "http://x.co/a", "-d", "5", "--dry-run")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	requireContains(t, out, "Dry run: no files written")
	requireContains(t, out, "-s 290x290")
	requireContains(t, out, "version 1, level L, 17 bytes max")
	if names := listFiles(t, env.dir); len(names) != 1 {
		t.Fatalf("expected no outputs, found %v", names)
	}
}

func TestGenerateCapacityError(t *testing.T) {
	env := setupCLITestEnv(t, "10.0")

	_, _, err := runCLI(t, env.configPath, "generate", env.audioPath, "https://example.com/longer-path")
	if err == nil || !strings.Contains(err.Error(), "capacity") {
		t.Fatalf("expected capacity error, got %v", err)
	}

	out, _, err := runCLI(t, env.configPath, "generate", env.audioPath, "https://example.com/longer-path", "--qr-version", "auto", "--dry-run")
	if err != nil {
		t.Fatalf("auto version: %v", err)
	}
	requireContains(t, out, "version 3, level L")
}

func TestGenerateMissingAudio(t *testing.T) {
	env := setupCLITestEnv(t, "10.0")

	_, _, err := runCLI(t, env.configPath, "generate", filepath.Join(env.dir, "nope.wav"), "http://x.co/a")
	if err == nil || !strings.Contains(err.Error(), "Audio file") {
		t.Fatalf("expected preflight failure, got %v", err)
	}
}

func TestGenerateFlagValidation(t *testing.T) {
	env := setupCLITestEnv(t, "10.0")
	tests := [][]string{
		{"-d", "0"},
		{"--fps=-1"},
		{"--qr-version", "41"},
		{"--qr-level", "X"},
	}
	for _, extra := range tests {
		args := append([]string{"generate", env.audioPath, "http://x.co/a"}, extra...)
		if _, _, err := runCLI(t, env.configPath, args...); err == nil {
			t.Fatalf("expected error for %v", extra)
		}
	}
}

func TestParseQRVersion(t *testing.T) {
	tests := map[string]int{"auto": 0, "AUTO": 0, "0": 0, "1": 1, " 40 ": 40}
	for input, want := range tests {
		got, err := parseQRVersion(input)
		if err != nil || got != want {
			t.Fatalf("parseQRVersion(%q) = %d, %v; want %d", input, got, err, want)
		}
	}
	if _, err := parseQRVersion("seven"); err == nil {
		t.Fatal("expected error for non-numeric version")
	}
}
