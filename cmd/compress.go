package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"gyuu/internal/batch"
	"gyuu/internal/config"
	"gyuu/internal/processor"
	"gyuu/internal/save"
	"gyuu/internal/tui"
	"gyuu/pkg/imgutil"
)

var (
	compressQuality       int
	compressFormat        string
	compressMaxWidth      int
	compressMaxHeight     int
	compressRecursive     bool
	compressPalette       bool
	compressStripMetadata bool
	compressPreserveICC   bool
	compressOutputDir     string
	compressArchive       string
	compressDownloadDir   string
	compressSaveTimeout   time.Duration
	compressNoProgress    bool
)

var compressCmd = &cobra.Command{
	Use:   "compress [flags] <path>...",
	Short: "Compress, resize and re-encode images",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyCompressFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
		opts, err := cfg.Options()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		var jobs []processor.Job
		for _, path := range args {
			found, err := processor.Discover(ctx, path, cfg.Recursive, cfg.OutputDir)
			if err != nil {
				return err
			}
			jobs = append(jobs, found...)
		}

		session := batch.NewSession(batch.UUIDGenerator{}, logger)
		pipeline := processor.New(nil, nil, logger)

		var procErr error
		if cfg.NoProgress {
			procErr = session.Process(ctx, pipeline, jobs, opts, nil)
		} else {
			updates := make(chan processor.ProgressUpdate, 64)
			program := tea.NewProgram(tui.NewModel(updates))

			uiDone := make(chan struct{})
			go func() {
				final, _ := program.Run()
				if m, ok := final.(tui.Model); ok && m.Interrupted() {
					cancel()
				}
				for range updates {
				}
				close(uiDone)
			}()

			procErr = session.Process(ctx, pipeline, jobs, opts, updates)
			close(updates)
			<-uiDone
		}

		out := cmd.OutOrStdout()
		printEntries(out, session.Entries())
		fmt.Fprintln(out, tui.RenderSummary("Summary", summaryRows(session.Summary())))

		if procErr != nil {
			return fmt.Errorf("compress interrupted: %w", procErr)
		}

		items := session.Items()
		if len(items) == 0 {
			fmt.Fprintln(out, tui.DimStyle.Render("Nothing to save."))
			return nil
		}

		manager := save.NewManager(cfg.Host(), cfg.Downloader(), cfg.SaveTimeout, logger)
		result, err := manager.SaveAll(ctx, items)
		if err != nil {
			return err
		}
		printSaveOutcome(out, result)
		return nil
	},
}

func applyCompressFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("quality") {
		c.Quality = compressQuality
	}
	if flags.Changed("format") {
		c.Format = compressFormat
	}
	if flags.Changed("max-width") {
		c.MaxWidth = compressMaxWidth
	}
	if flags.Changed("max-height") {
		c.MaxHeight = compressMaxHeight
	}
	if flags.Changed("recursive") {
		c.Recursive = compressRecursive
	}
	if flags.Changed("palette") {
		c.Palette = compressPalette
	}
	if flags.Changed("strip-metadata") {
		c.StripMetadata = compressStripMetadata
	}
	if flags.Changed("preserve-icc") {
		c.PreserveICC = compressPreserveICC
	}
	if flags.Changed("output") {
		c.OutputDir = compressOutputDir
	}
	if flags.Changed("archive") {
		c.Archive = compressArchive
	}
	if flags.Changed("download-dir") {
		c.DownloadDir = compressDownloadDir
	}
	if flags.Changed("save-timeout") {
		c.SaveTimeout = compressSaveTimeout
	}
	if flags.Changed("no-progress") {
		c.NoProgress = compressNoProgress
	}
}

func printEntries(w io.Writer, entries []batch.Entry) {
	for _, e := range entries {
		switch e.Status {
		case batch.StatusReady:
			item := e.Item
			line := fmt.Sprintf("  %s %s %s  %s → %s  %s",
				tui.GoodStyle.Render("✓"),
				tui.FileStyle.Render(e.Name),
				tui.DimStyle.Render("→ "+item.RelPath),
				imgutil.FormatSize(item.OriginalSize),
				imgutil.FormatSize(item.CompressedSize),
				tui.ReductionStyle(item.ReductionPercent()).Render(imgutil.FormatReduction(item.ReductionPercent())),
			)
			if item.FellBack {
				line += " " + tui.WarnStyle.Render("(kept original)")
			}
			fmt.Fprintln(w, line)
		case batch.StatusFailed:
			fmt.Fprintf(w, "  %s %s %s\n",
				tui.ErrorStyle.Render("✗"),
				tui.FileStyle.Render(e.Name),
				tui.ErrorStyle.Render(describeFailure(e.Err)),
			)
		}
	}
}

func describeFailure(err error) string {
	var decErr *processor.DecodeError
	var encErr *processor.EncodeError
	switch {
	case err == nil:
		return "failed"
	case errors.As(err, &decErr):
		return "could not decode: " + decErr.Err.Error()
	case errors.As(err, &encErr):
		return "could not encode " + encErr.MIME + ": " + encErr.Err.Error()
	default:
		return err.Error()
	}
}

func summaryRows(sum batch.Summary) []tui.SummaryRow {
	reduction := "n/a"
	style := tui.DimStyle
	if sum.HasData {
		reduction = imgutil.FormatReduction(sum.ReductionPercent)
		style = tui.ReductionStyle(sum.ReductionPercent)
	}
	return []tui.SummaryRow{
		{Label: "Files compressed", Value: fmt.Sprintf("%d", sum.Count)},
		{Label: "Original size", Value: imgutil.FormatSize(sum.OriginalBytes)},
		{Label: "Compressed size", Value: imgutil.FormatSize(sum.CompressedBytes)},
		{Label: "Reduction", Value: reduction, Style: &style},
	}
}

func printSaveOutcome(w io.Writer, res save.BulkOutcome) {
	switch {
	case res.Cancelled:
		fmt.Fprintln(w, tui.WarnStyle.Render("Save cancelled."))
	case res.Fallback:
		fmt.Fprintf(w, "Downloaded %d file(s) to: %s\n", res.Count, res.Folder)
	default:
		fmt.Fprintf(w, "Saved %d file(s) to: %s\n", res.Count, res.Folder)
	}
}

func init() {
	d := config.Defaults()
	flags := compressCmd.Flags()
	flags.IntVarP(&compressQuality, "quality", "q", d.Quality, "output quality, 1-100")
	flags.StringVarP(&compressFormat, "format", "f", d.Format, "output format: auto, jpeg, png or webp")
	flags.IntVar(&compressMaxWidth, "max-width", d.MaxWidth, "maximum output width in pixels (0 = unbounded)")
	flags.IntVar(&compressMaxHeight, "max-height", d.MaxHeight, "maximum output height in pixels (0 = unbounded)")
	flags.BoolVarP(&compressRecursive, "recursive", "r", d.Recursive, "descend into subdirectories")
	flags.BoolVar(&compressPalette, "palette", false, "reduce PNG output to a 256-colour palette")
	flags.BoolVar(&compressStripMetadata, "strip-metadata", false, "strip metadata from originals kept because re-encoding grew them")
	flags.BoolVar(&compressPreserveICC, "preserve-icc", false, "keep ICC colour profiles when stripping metadata")
	flags.StringVarP(&compressOutputDir, "output", "o", "", "save results into this folder")
	flags.StringVar(&compressArchive, "archive", "", "save results as one .tar.zst archive")
	flags.StringVar(&compressDownloadDir, "download-dir", "", "fallback download folder (default ~/Downloads)")
	flags.DurationVar(&compressSaveTimeout, "save-timeout", d.SaveTimeout, "give up on a save after this long")
	flags.BoolVar(&compressNoProgress, "no-progress", false, "disable the progress display")

	rootCmd.AddCommand(compressCmd)
}
