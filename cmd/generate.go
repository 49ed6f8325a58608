package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"assetkit/internal/config"
	"assetkit/internal/generator"
	"assetkit/internal/imagen"
	"assetkit/internal/report"
	"assetkit/internal/tui"
)

var generateProgress bool

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the site photography with Imagen",
	Long:  "generate requests every image in the prompt catalogue that is not on disk yet and writes a Markdown manifest beside them.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RequireAPIKey(); err != nil {
			return err
		}

		fs := afero.NewOsFs()
		catalogue, err := generator.LoadCatalogue(fs, cfg.Generate.Prompts)
		if err != nil {
			return err
		}

		var res generator.Result
		err = withProgress(cmd.Context(), "assetkit generate", generateProgress, func(ctx context.Context, updates chan<- report.ProgressUpdate, log *zerolog.Logger) error {
			client := imagen.NewClient(imagen.Options{
				APIKey:  cfg.APIKey,
				BaseURL: cfg.Generate.BaseURL,
				Model:   cfg.Generate.Model,
				Logger:  log,
			})
			log.Info().Str("model", client.Model()).Int("images", len(catalogue.Images)).Str("dir", cfg.ImagesDir).Msg("starting generation")

			var err error
			res, err = generator.Run(ctx, generator.Options{
				Fs:           fs,
				OutputDir:    cfg.ImagesDir,
				Catalogue:    catalogue,
				Client:       client,
				MaxAttempts:  cfg.Generate.MaxAttempts,
				RetryWait:    cfg.Generate.RetryWait,
				APIWait:      cfg.Generate.APIWait,
				SafetyFilter: cfg.Generate.SafetyFilter,
				Manifest: generator.ManifestInfo{
					Name:    cfg.Generate.Manifest,
					Project: cfg.Project,
					RunID:   runID,
					Now:     time.Now(),
				},
				Logger: log,
			}, updates)
			return err
		}, tea.WithOutput(os.Stdout))
		if err != nil {
			return err
		}

		totals := res.Report.Totals()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, tui.RenderSummary("Generation", []tui.SummaryRow{
			{Label: "Generated", Value: fmt.Sprintf("%d", totals.Success), Tone: tui.ToneGood},
			tui.Row("Skipped", "%d", totals.Skipped),
			{Label: "Failed", Value: fmt.Sprintf("%d", totals.Failed), Tone: failTone(totals.Failed)},
			tui.Row("Written", "%d KB", report.KB(totals.DstBytes)),
			tui.Row("Manifest", "%s", res.ManifestPath),
		}))
		if failed := tui.RenderList("Failed (re-run to retry):", res.Report.IDs(report.OutcomeFailed)); failed != "" {
			fmt.Fprintln(out, failed)
		}
		return nil
	},
}

func init() {
	flags := generateCmd.Flags()
	flags.String("model", "", "Imagen model name")
	flags.String("prompts", "", "prompt catalogue YAML (default: built-in catalogue)")
	flags.Int("max-attempts", config.DefaultMaxAttempts, "attempts per image before giving up")
	flags.BoolVar(&generateProgress, "progress", false, "show a progress view instead of log lines")

	bindFlags(generateCmd, map[string]string{
		"generate.model":        "model",
		"generate.prompts":      "prompts",
		"generate.max_attempts": "max-attempts",
	}, false)

	rootCmd.AddCommand(generateCmd)
}
