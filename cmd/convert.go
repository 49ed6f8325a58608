package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"assetkit/internal/config"
	"assetkit/internal/converter"
	"assetkit/internal/report"
	"assetkit/internal/tui"
)

var convertProgress bool

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert JPEG/PNG images to WebP and update the page references",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var res converter.Result
		err := withProgress(cmd.Context(), "assetkit convert", convertProgress, func(ctx context.Context, updates chan<- report.ProgressUpdate, log *zerolog.Logger) error {
			var err error
			res, err = converter.Run(ctx, converter.Options{
				Fs:              afero.NewOsFs(),
				ImagesDir:       cfg.ImagesDir,
				HTMLPath:        cfg.HTMLPath,
				Quality:         cfg.Convert.Quality,
				DeleteOriginals: cfg.Convert.DeleteOriginals,
				Logger:          log,
			}, updates)
			return err
		}, tea.WithOutput(os.Stdout))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(res.Jobs) == 0 {
			fmt.Fprintf(out, "No JPEG/PNG files found in %s\n", cfg.ImagesDir)
			return nil
		}

		fmt.Fprintln(out, tui.RenderSummary("Conversion", convertRows(res)))
		if failed := tui.RenderList("Failed:", res.Report.IDs(report.OutcomeFailed)); failed != "" {
			fmt.Fprintln(out, failed)
		}
		return nil
	},
}

func convertRows(res converter.Result) []tui.SummaryRow {
	totals := res.Report.Totals()
	rows := []tui.SummaryRow{
		tui.Row("Converted", "%d", totals.Success),
		{Label: "Failed", Value: fmt.Sprintf("%d", totals.Failed), Tone: failTone(totals.Failed)},
		tui.Row("Before", "%d KB", totals.SrcKB),
		tui.Row("After", "%d KB", totals.DstKB),
		tui.Row("Saved", "%d KB", totals.SrcKB-totals.DstKB),
		{Label: "Reduction (of KB totals)", Value: fmt.Sprintf("%.0f%%", report.ReductionPercent(totals.SrcKB, totals.DstKB)), Tone: tui.ToneGood},
	}
	switch {
	case !res.Rewrite.Found:
		rows = append(rows, tui.Row("HTML", "not found"))
	case res.Rewrite.Count > 0:
		rows = append(rows, tui.Row("HTML", "%d references updated", res.Rewrite.Count))
	default:
		rows = append(rows, tui.Row("HTML", "unchanged"))
	}
	return rows
}

func failTone(n int) tui.Tone {
	if n > 0 {
		return tui.ToneWarn
	}
	return tui.ToneNormal
}

func init() {
	flags := convertCmd.Flags()
	flags.IntP("quality", "q", config.DefaultQuality, "WebP quality (1-100)")
	flags.Bool("delete-originals", false, "remove each source image after a successful conversion")
	flags.BoolVar(&convertProgress, "progress", false, "show a progress view instead of log lines")

	bindFlags(convertCmd, map[string]string{
		"convert.quality":          "quality",
		"convert.delete_originals": "delete-originals",
	}, false)

	rootCmd.AddCommand(convertCmd)
}
