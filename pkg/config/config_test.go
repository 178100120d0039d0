package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	if cfg.Interval() != DefaultIntervalSemitones {
		t.Errorf("Interval() = %d, want %d", cfg.Interval(), DefaultIntervalSemitones)
	}
	if _, ok := cfg.TopStringMIDI(); ok {
		t.Error("TopStringMIDI() should be unset by default")
	}
	if cfg.SavePath == "" {
		t.Error("SavePath should have a default")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, `{not json`)
	cfg := Load(path)
	if cfg.Interval() != DefaultIntervalSemitones {
		t.Error("malformed file should behave like no file")
	}
}

func TestLoadValidFile(t *testing.T) {
	path := writeConfig(t, `{
		"save_path": "/tmp/scores",
		"default_top_string_midi": 50,
		"default_interval_semitones": 7
	}`)

	cfg := Load(path)
	if cfg.SavePath != "/tmp/scores" {
		t.Errorf("SavePath = %q, want /tmp/scores", cfg.SavePath)
	}
	if top, ok := cfg.TopStringMIDI(); !ok || top != 50 {
		t.Errorf("TopStringMIDI() = %d, %v, want 50, true", top, ok)
	}
	if cfg.Interval() != 7 {
		t.Errorf("Interval() = %d, want 7", cfg.Interval())
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := writeConfig(t, `{"default_interval_semitones": "seven", "save_path": "   "}`)
	cfg := Load(path)
	// wrong-typed and blank values fall back per key
	if cfg.Interval() != DefaultIntervalSemitones {
		t.Errorf("Interval() = %d, want default", cfg.Interval())
	}
	if cfg.SavePath == "" || cfg.SavePath == "   " {
		t.Errorf("SavePath = %q, want default", cfg.SavePath)
	}
}

func TestIntervalRejectsNonPositive(t *testing.T) {
	for _, v := range []float64{0, -3} {
		cfg := Config{DefaultIntervalSemitones: v}
		if cfg.Interval() != DefaultIntervalSemitones {
			t.Errorf("Interval() with %v = %d, want %d", v, cfg.Interval(), DefaultIntervalSemitones)
		}
	}
}

func TestTopStringMIDIRejectsNonPositive(t *testing.T) {
	zero := 0.0
	cfg := Config{DefaultTopStringMIDI: &zero}
	if _, ok := cfg.TopStringMIDI(); ok {
		t.Error("non-positive top string should read as unset")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/scores", filepath.Join(home, "scores")},
		{`~\scores`, filepath.Join(home, "scores")},
		{`"~/scores"`, filepath.Join(home, "scores")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOutputDirCreates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	cfg := Config{SavePath: dir}

	got, err := cfg.OutputDir()
	if err != nil {
		t.Fatalf("OutputDir() error = %v", err)
	}
	if got != dir {
		t.Errorf("OutputDir() = %q, want %q", got, dir)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Error("OutputDir() did not create the directory")
	}
}
