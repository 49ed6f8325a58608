package generator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"assetkit/internal/fsx"
	"assetkit/internal/imagen"
	"assetkit/internal/logging"
	"assetkit/internal/report"
	"assetkit/pkg/imgutil"
)

// ErrEmptyResponse marks an API call that succeeded but returned no image.
var ErrEmptyResponse = errors.New("no image returned (empty response)")

// Client is the slice of the Imagen client the generator needs.
type Client interface {
	GenerateImages(ctx context.Context, req imagen.Request) ([]imagen.Image, error)
}

type Options struct {
	Fs           afero.Fs
	OutputDir    string
	Catalogue    Catalogue
	Client       Client
	MaxAttempts  int
	RetryWait    time.Duration
	APIWait      time.Duration
	SafetyFilter string
	Manifest     ManifestInfo
	Sleep        func(time.Duration)
	Logger       *zerolog.Logger
}

type Result struct {
	Report       *report.Report
	ManifestPath string
}

// Run generates every catalogue entry in order. Entries whose output file
// already exists are skipped without calling the API, which makes an
// interrupted run safe to repeat. A failing entry is retried with a fixed
// wait and then recorded as failed; the run always reaches the manifest.
func Run(ctx context.Context, opts Options, updates chan<- report.ProgressUpdate) (Result, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	logger := opts.Logger
	if logger == nil {
		discard := logging.Discard()
		logger = &discard
	}

	res := Result{Report: report.New()}
	if opts.Client == nil {
		return res, errors.New("generator: client is required")
	}

	if err := opts.Fs.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return res, fmt.Errorf("create output dir: %w", err)
	}

	entries := opts.Catalogue.Images
	total := len(entries)
	report.Send(updates, report.ProgressUpdate{TotalDelta: total})

	for i, entry := range entries {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}

		log := logger.With().Int("index", i+1).Int("total", total).Str("file", entry.Filename).Logger()
		outPath := filepath.Join(opts.OutputDir, entry.Filename)

		item := report.Item{ID: entry.Filename}
		if info, err := opts.Fs.Stat(outPath); err == nil {
			item.Outcome = report.OutcomeSkipped
			log.Info().Int64("existing_kb", report.KB(info.Size())).Msg("skipped, file exists")
		} else {
			size, err := generateOne(ctx, opts, entry, outPath, &log)
			if err != nil {
				item.Outcome = report.OutcomeFailed
				item.Err = err
				log.Error().Err(err).Msg("giving up")
			} else {
				item.Outcome = report.OutcomeSuccess
				item.DstBytes = size
			}
		}

		if err := res.Report.Record(item); err != nil {
			return res, err
		}
		report.Done(updates, item)

		if i < total-1 && opts.APIWait > 0 {
			opts.Sleep(opts.APIWait)
		}
	}

	path, err := WriteManifest(opts.Fs, opts.OutputDir, opts.Manifest, opts.Catalogue, res.Report)
	if err != nil {
		return res, fmt.Errorf("write manifest: %w", err)
	}
	res.ManifestPath = path
	return res, nil
}

func generateOne(ctx context.Context, opts Options, entry Entry, outPath string, log *zerolog.Logger) (int64, error) {
	req := imagen.Request{
		Prompt:         opts.Catalogue.FullPrompt(entry),
		AspectRatio:    entry.AspectRatio,
		NumberOfImages: 1,
		SafetyFilter:   opts.SafetyFilter,
	}

	var lastErr error
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		log.Info().Int("attempt", attempt).Int("max", opts.MaxAttempts).Msg("generating")

		size, err := attemptOnce(ctx, opts.Fs, opts.Client, req, outPath, log)
		if err == nil {
			log.Info().Int64("kb", report.KB(size)).Msg("generated")
			return size, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Msg("attempt failed")

		if attempt < opts.MaxAttempts {
			log.Info().Dur("wait", opts.RetryWait).Msg("retrying")
			opts.Sleep(opts.RetryWait)
		}
	}
	return 0, lastErr
}

func attemptOnce(ctx context.Context, fs afero.Fs, client Client, req imagen.Request, outPath string, log *zerolog.Logger) (int64, error) {
	images, err := client.GenerateImages(ctx, req)
	if err != nil {
		return 0, err
	}
	if len(images) == 0 || len(images[0].Data) == 0 {
		return 0, ErrEmptyResponse
	}

	data := images[0].Data
	if kind, err := imgutil.SniffBytes(data); err == nil && !kind.MatchesExtension(filepath.Ext(outPath)) {
		log.Warn().Str("content", kind.String()).Str("mime", images[0].MIMEType).Msg("payload format differs from file extension")
	}

	if err := fsx.WriteFile(fs, outPath, data, 0o644); err != nil {
		return 0, fmt.Errorf("write image: %w", err)
	}
	return int64(len(data)), nil
}
