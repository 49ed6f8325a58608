package converter

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"assetkit/internal/report"
)

// TargetExt is the extension every converted file is written with.
const TargetExt = ".webp"

// Method 6 is the slowest, best-compressing WebP effort level.
const encodeMethod = 6

// SourceExtensions are matched case-insensitively against input file names.
var SourceExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

type Options struct {
	Fs              afero.Fs
	ImagesDir       string
	HTMLPath        string
	Quality         int
	DeleteOriginals bool
	Logger          *zerolog.Logger
}

type Job struct {
	Path string
	Name string
}

type Result struct {
	Report  *report.Report
	Jobs    []Job
	Rewrite RewriteResult
}

type ColorMode int

const (
	ModeRGB ColorMode = iota
	ModeRGBA
)

func (m ColorMode) String() string {
	if m == ModeRGBA {
		return "RGBA"
	}
	return "RGB"
}
