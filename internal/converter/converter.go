package converter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"assetkit/internal/fsx"
	"assetkit/internal/logging"
	"assetkit/internal/report"
	"assetkit/pkg/imgutil"
)

var ErrImagesDirMissing = errors.New("images directory not found")

// Run converts every source image in opts.ImagesDir to WebP, one at a time,
// then rewrites extension references in opts.HTMLPath. Per-file failures are
// recorded in the report and never abort the run; only a missing images
// directory is returned as an error.
func Run(ctx context.Context, opts Options, updates chan<- report.ProgressUpdate) (Result, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	logger := opts.Logger
	if logger == nil {
		discard := logging.Discard()
		logger = &discard
	}

	res := Result{Report: report.New()}

	info, err := opts.Fs.Stat(opts.ImagesDir)
	if err != nil || !info.IsDir() {
		return res, fmt.Errorf("%w: %s", ErrImagesDirMissing, opts.ImagesDir)
	}

	jobs, err := Enumerate(opts.Fs, opts.ImagesDir)
	if err != nil {
		return res, err
	}
	res.Jobs = jobs
	if len(jobs) == 0 {
		return res, nil
	}

	report.Send(updates, report.ProgressUpdate{TotalDelta: len(jobs)})

	total := len(jobs)
	for i, job := range jobs {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}

		log := logger.With().Int("index", i+1).Int("total", total).Str("file", job.Name).Logger()
		log.Info().Msg("converting")

		item := report.Item{ID: job.Name}
		srcSize, dstSize, err := convertFile(opts.Fs, job, opts.Quality, &log)
		if err != nil {
			item.Outcome = report.OutcomeFailed
			item.Err = err
			log.Error().Err(err).Msg("conversion failed")
		} else {
			item.Outcome = report.OutcomeSuccess
			item.SrcBytes = srcSize
			item.DstBytes = dstSize
			log.Info().
				Int64("src_kb", report.KB(srcSize)).
				Int64("dst_kb", report.KB(dstSize)).
				Int64("saved_kb", report.KB(srcSize)-report.KB(dstSize)).
				Str("reduction", fmt.Sprintf("%.0f%%", report.ReductionPercent(srcSize, dstSize))).
				Msg("converted")

			if opts.DeleteOriginals {
				if err := opts.Fs.Remove(job.Path); err != nil {
					log.Warn().Err(err).Msg("could not delete original")
				}
			}
		}

		if err := res.Report.Record(item); err != nil {
			return res, err
		}
		report.Done(updates, item)
	}

	rewrite, err := RewriteReferences(opts.Fs, opts.HTMLPath, WebPSubstitutions)
	if err != nil {
		logger.Error().Err(err).Str("html", opts.HTMLPath).Msg("html update failed")
	}
	res.Rewrite = rewrite
	switch {
	case err != nil:
	case !rewrite.Found:
		logger.Warn().Str("html", opts.HTMLPath).Msg("html not found")
	case rewrite.Count > 0:
		logger.Info().Int("replaced", rewrite.Count).Str("backup", filepath.Base(rewrite.Backup)).Msg("html updated")
	default:
		logger.Info().Msg("html unchanged (already .webp or no image references)")
	}

	return res, nil
}

// Enumerate lists the convertible files directly inside dir, sorted by name.
func Enumerate(fs afero.Fs, dir string) ([]Job, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, err
	}

	var jobs []Job
	for _, entry := range entries {
		if !entry.Mode().IsRegular() {
			continue
		}
		if !SourceExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		jobs = append(jobs, Job{Path: filepath.Join(dir, entry.Name()), Name: entry.Name()})
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })
	return jobs, nil
}

// DestinationPath swaps the source extension for .webp.
func DestinationPath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + TargetExt
}

func convertFile(fs afero.Fs, job Job, quality int, log *zerolog.Logger) (int64, int64, error) {
	file, err := fs.Open(job.Path)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	kind, err := imgutil.SniffReader(file)
	if err != nil {
		return 0, 0, fmt.Errorf("sniff: %w", err)
	}
	if kind != imgutil.KindJPEG && kind != imgutil.KindPNG {
		return 0, 0, fmt.Errorf("unsupported image content (%s)", kind)
	}

	if kind == imgutil.KindJPEG {
		meta, err := readMetadata(file)
		switch {
		case err != nil:
			log.Debug().Err(err).Msg("exif inspection failed")
		case meta.Orientation > 1:
			log.Warn().Int("orientation", meta.Orientation).Msg("exif orientation is dropped by webp output")
		}
		if err == nil && !meta.empty() {
			log.Debug().Bool("gps", meta.HasGPS).Str("camera", meta.Camera).Msg("source exif not carried into webp")
		}
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return 0, 0, err
	}
	data, mode, err := encodeWebP(file, quality)
	if err != nil {
		return 0, 0, err
	}
	log.Debug().Stringer("mode", mode).Int("quality", quality).Msg("encoded")

	dst := DestinationPath(job.Path)
	if err := fsx.WriteFile(fs, dst, data, 0o644); err != nil {
		return 0, 0, err
	}

	srcInfo, err := fs.Stat(job.Path)
	if err != nil {
		return 0, 0, err
	}
	return srcInfo.Size(), int64(len(data)), nil
}
