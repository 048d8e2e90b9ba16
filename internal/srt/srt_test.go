package srt

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatTimestamp(t *testing.T) {
	tests := map[int]string{
		0:      "00:00:00",
		61:     "00:01:01",
		3661:   "01:01:01",
		86399:  "23:59:59",
		360000: "100:00:00",
		-5:     "00:00:00",
	}
	for in, want := range tests {
		if got := FormatTimestamp(in); got != want {
			t.Fatalf("FormatTimestamp(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildCuesClipsFinalCue(t *testing.T) {
	cues, err := BuildCues("url", 5, 2)
	if err != nil {
		t.Fatalf("BuildCues: %v", err)
	}
	want := []Cue{
		{Index: 1, Start: 0, End: 2, Text: "url?t=0"},
		{Index: 2, Start: 2, End: 4, Text: "url?t=2"},
		{Index: 3, Start: 4, End: 5, Text: "url?t=4"},
	}
	if len(cues) != len(want) {
		t.Fatalf("expected %d cues, got %d", len(want), len(cues))
	}
	for i := range want {
		if cues[i] != want[i] {
			t.Fatalf("cue %d = %+v, want %+v", i, cues[i], want[i])
		}
	}
}

func TestBuildCuesZeroDuration(t *testing.T) {
	cues, err := BuildCues("url", 0, 1)
	if err != nil {
		t.Fatalf("BuildCues: %v", err)
	}
	if len(cues) != 0 {
		t.Fatalf("expected no cues, got %d", len(cues))
	}
}

func TestBuildCuesRejectsNonPositiveInterval(t *testing.T) {
	if _, err := BuildCues("url", 10, 0); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.srt")
	count, err := WriteFile(path, "https://tinyurl.com/x", 5, 2)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 cues, got %d", count)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read srt: %v", err)
	}
	want := strings.Join([]string{
		"1", "00:00:00 --> 00:00:02", "https://tinyurl.com/x?t=0", "",
		"2", "00:00:02 --> 00:00:04", "https://tinyurl.com/x?t=2", "",
		"3", "00:00:04 --> 00:00:05", "https://tinyurl.com/x?t=4", "",
		"",
	}, "\n")
	if string(data) != want {
		t.Fatalf("unexpected srt content:\n%s\nwant:\n%s", data, want)
	}

	summary, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if summary.Cues != 3 || summary.First != 0 || summary.Last != 5 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestWriteFileZeroDurationCreatesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.srt")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	count, err := WriteFile(path, "url", 0, 1)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 cues, got %d", count)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected empty file, got %d bytes", info.Size())
	}
}

func TestParseTimestamp(t *testing.T) {
	if got, err := ParseTimestamp("01:01:01"); err != nil || got != 3661 {
		t.Fatalf("ParseTimestamp = %d, %v", got, err)
	}
	if got, err := ParseTimestamp(" 00:00:02,500 "); err != nil || got != 2 {
		t.Fatalf("ParseTimestamp with millis = %d, %v", got, err)
	}
	if _, err := ParseTimestamp("1:2"); err == nil {
		t.Fatal("expected error for malformed timestamp")
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "talk.srt")
	if _, err := WriteFile(path, "http://x.co/a", 3725, 60); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	summary, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	// 3725s at 60s per cue: 62 full cues plus a 5s tail.
	if summary.Cues != 63 || summary.First != 0 || summary.Last != 3725 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	crlf := filepath.Join(dir, "crlf.srt")
	content := "1\r\n00:00:05,000 --> 00:00:07,500\r\nhello\r\n\r\n"
	if err := os.WriteFile(crlf, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	summary, err = Inspect(crlf)
	if err != nil {
		t.Fatalf("Inspect crlf: %v", err)
	}
	if summary.Cues != 1 || summary.First != 5 || summary.Last != 7 {
		t.Fatalf("unexpected crlf summary %+v", summary)
	}

	if _, err := Inspect(filepath.Join(dir, "missing.srt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
