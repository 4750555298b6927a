package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"gyuu/internal/processor"
	"gyuu/internal/save"
)

type Config struct {
	Quality       int    `env:"GYUU_QUALITY"`        // 1-100
	Format        string `env:"GYUU_FORMAT"`         // auto|jpeg|png|webp
	MaxWidth      int    `env:"GYUU_MAX_WIDTH"`      // 0 = unbounded
	MaxHeight     int    `env:"GYUU_MAX_HEIGHT"`     // 0 = unbounded
	Recursive     bool   `env:"GYUU_RECURSIVE"`      // descend into subdirectories
	Palette       bool   `env:"GYUU_PALETTE"`        // 256-colour palette for PNG output
	StripMetadata bool   `env:"GYUU_STRIP_METADATA"` // scrub originals kept by the size fallback
	PreserveICC   bool   `env:"GYUU_PRESERVE_ICC"`

	OutputDir     string        `env:"GYUU_OUTPUT"`         // save into this folder
	Archive       string        `env:"GYUU_ARCHIVE"`        // save the batch as a .tar.zst
	DownloadDir   string        `env:"GYUU_DOWNLOAD_DIR"`   // fallback when no output is set
	DownloadPause time.Duration `env:"GYUU_DOWNLOAD_PAUSE"` // gap between fallback downloads
	SaveTimeout   time.Duration `env:"GYUU_SAVE_TIMEOUT"`

	LogLevel   string `env:"GYUU_LOG_LEVEL"`
	LogFile    string `env:"GYUU_LOG_FILE"`
	NoProgress bool   `env:"GYUU_NO_PROGRESS"`
}

// Defaults mirrors the desktop app's initial controls.
func Defaults() *Config {
	return &Config{
		Quality:       80,
		Format:        string(processor.FormatAuto),
		DownloadPause: save.DefaultDownloadPause,
		SaveTimeout:   save.DefaultTimeout,
		LogLevel:      "warn",
	}
}

// Load layers Defaults, the optional .env file at envFile and GYUU_*
// environment variables. A missing .env file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate rejects unusable settings and normalizes non-positive size
// bounds to unset.
func (c *Config) Validate() error {
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", c.Quality)
	}
	if _, err := processor.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.MaxWidth < 0 {
		c.MaxWidth = 0
	}
	if c.MaxHeight < 0 {
		c.MaxHeight = 0
	}
	if c.OutputDir != "" && c.Archive != "" {
		return errors.New("--output cannot be used with --archive")
	}
	if c.Archive != "" && !strings.HasSuffix(c.Archive, ".tar.zst") {
		c.Archive += ".tar.zst"
	}
	if c.DownloadPause < 0 {
		c.DownloadPause = 0
	}
	return nil
}

// Options converts the config into per-batch processing options.
func (c *Config) Options() (processor.Options, error) {
	format, err := processor.ParseFormat(c.Format)
	if err != nil {
		return processor.Options{}, err
	}
	return processor.Options{
		Quality:       float64(c.Quality) / 100,
		Format:        format,
		MaxWidth:      c.MaxWidth,
		MaxHeight:     c.MaxHeight,
		Palette:       c.Palette,
		StripMetadata: c.StripMetadata,
		PreserveICC:   c.PreserveICC,
	}.Normalized(), nil
}

// Host returns the save host selected by the config, or nil when saves
// should go through the download fallback.
func (c *Config) Host() save.Host {
	switch {
	case c.Archive != "":
		return save.ArchiveHost{Path: c.Archive}
	case c.OutputDir != "":
		return save.DirHost{Dir: c.OutputDir}
	default:
		return nil
	}
}

func (c *Config) Downloader() save.Downloader {
	return save.Downloader{Dir: c.DownloadDir, Pause: c.DownloadPause}
}
