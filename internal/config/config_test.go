package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gyuu/internal/processor"
	"gyuu/internal/save"
)

func TestLoadLayersEnvFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "GYUU_QUALITY=55\nGYUU_FORMAT=webp\nGYUU_MAX_WIDTH=1920\nGYUU_DOWNLOAD_PAUSE=250ms\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	// godotenv exports into the process environment; t.Setenv restores it.
	for _, key := range []string{"GYUU_QUALITY", "GYUU_FORMAT", "GYUU_DOWNLOAD_PAUSE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("GYUU_MAX_WIDTH", "800")

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Quality != 55 || cfg.Format != "webp" {
		t.Fatalf("env file not applied: %+v", cfg)
	}
	if cfg.MaxWidth != 800 {
		t.Fatalf("environment should win over .env, got %d", cfg.MaxWidth)
	}
	if cfg.DownloadPause != 250*time.Millisecond {
		t.Fatalf("got pause %s", cfg.DownloadPause)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("missing .env should be ignored: %v", err)
	}
	if cfg.Quality != 80 || cfg.Format != "auto" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.MaxWidth = -10
	cfg.MaxHeight = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.MaxWidth != 0 {
		t.Fatalf("negative bound should be unset, got %d", cfg.MaxWidth)
	}

	bad := Defaults()
	bad.Quality = 0
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected quality error")
	}

	bad = Defaults()
	bad.Format = "avif"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected format error")
	}

	bad = Defaults()
	bad.OutputDir, bad.Archive = "out", "out.tar.zst"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected output/archive conflict")
	}
}

func TestOptionsAndHost(t *testing.T) {
	cfg := Defaults()
	cfg.Quality = 60
	cfg.Format = "jpg"
	cfg.MaxHeight = 720

	opts, err := cfg.Options()
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.Quality != 0.6 || opts.Format != processor.FormatJPEG || opts.MaxHeight != 720 {
		t.Fatalf("unexpected options: %+v", opts)
	}

	if cfg.Host() != nil {
		t.Fatalf("expected no host by default")
	}
	cfg.OutputDir = "out"
	if _, ok := cfg.Host().(save.DirHost); !ok {
		t.Fatalf("expected DirHost")
	}
	cfg.OutputDir = ""
	cfg.Archive = "batch"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if h, ok := cfg.Host().(save.ArchiveHost); !ok || h.Path != "batch.tar.zst" {
		t.Fatalf("expected ArchiveHost with suffix, got %#v", cfg.Host())
	}
}
