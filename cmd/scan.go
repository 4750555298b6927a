package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"gyuu/internal/config"
	"gyuu/internal/processor"
	"gyuu/internal/tui"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] <path>...",
	Short: "Show what compress would do without writing anything",
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

		out := cmd.OutOrStdout()
		first := true
		for _, path := range args {
			jobs, err := processor.Discover(ctx, path, cfg.Recursive, "")
			if err != nil {
				return err
			}
			for _, job := range jobs {
				if err := ctx.Err(); err != nil {
					return err
				}
				src, ok, err := processor.LoadSource(job)
				if err != nil {
					logger.Warnw("read failed", "file", job.Display, "error", err)
					continue
				}
				if !ok {
					continue
				}

				if !first {
					fmt.Fprintln(out)
				}
				first = false

				plan, err := processor.PlanSource(src, opts)
				if err != nil {
					fmt.Fprintf(out, "%s\n  %s %s\n",
						tui.FileStyle.Render(job.Display),
						tui.DimStyle.Render("-"),
						tui.ErrorStyle.Render(describeFailure(err)),
					)
					continue
				}
				printPlan(out, job.Display, plan)
			}
		}
		return nil
	},
}

func printPlan(w io.Writer, display string, plan processor.Plan) {
	bullet := tui.DimStyle.Render("-")
	fmt.Fprintf(w, "%s\n", tui.FileStyle.Render(display))

	size := fmt.Sprintf("%dx%d", plan.Width, plan.Height)
	if plan.TargetWidth != plan.Width || plan.TargetHeight != plan.Height {
		size += fmt.Sprintf(" → %dx%d", plan.TargetWidth, plan.TargetHeight)
	}
	fmt.Fprintf(w, "  %s %s %s\n", bullet, tui.CategoryStyle.Render("Size:"), tui.ValueStyle.Render(size))

	output := plan.Output.MIME + " as " + plan.FileName
	if plan.Quantized {
		output += " (quantized)"
	}
	fmt.Fprintf(w, "  %s %s %s\n", bullet, tui.CategoryStyle.Render("Output:"), tui.ValueStyle.Render(output))

	categories := plan.Metadata.Categories()
	if len(categories) == 0 {
		fmt.Fprintf(w, "  %s %s %s\n", bullet, tui.CategoryStyle.Render("Metadata:"), tui.DimStyle.Render("none"))
		return
	}
	fmt.Fprintf(w, "  %s %s\n", bullet, tui.CategoryStyle.Render("Metadata:"))
	for _, c := range categories {
		fmt.Fprintf(w, "    %s %s\n", bullet, tui.ValueStyle.Render(c))
	}
}

func init() {
	d := config.Defaults()
	flags := scanCmd.Flags()
	flags.IntVarP(&compressQuality, "quality", "q", d.Quality, "output quality, 1-100")
	flags.StringVarP(&compressFormat, "format", "f", d.Format, "output format: auto, jpeg, png or webp")
	flags.IntVar(&compressMaxWidth, "max-width", d.MaxWidth, "maximum output width in pixels (0 = unbounded)")
	flags.IntVar(&compressMaxHeight, "max-height", d.MaxHeight, "maximum output height in pixels (0 = unbounded)")
	flags.BoolVarP(&compressRecursive, "recursive", "r", d.Recursive, "descend into subdirectories")

	rootCmd.AddCommand(scanCmd)
}
