package generator

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"assetkit/internal/fsx"
	"assetkit/internal/report"
)

type ManifestInfo struct {
	Name    string
	Project string
	RunID   string
	Now     time.Time
}

// RenderManifest lists every catalogue entry with its outcome. Entries that
// never reached the report are shown as failed.
func RenderManifest(info ManifestInfo, catalogue Catalogue, r *report.Report) string {
	now := info.Now
	if now.IsZero() {
		now = time.Now()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s - image list\n\n", info.Project)
	fmt.Fprintf(&b, "Generated: %s\n", now.Format("2006-01-02 15:04"))
	if info.RunID != "" {
		fmt.Fprintf(&b, "Run: %s\n", info.RunID)
	}
	b.WriteString("\n")
	b.WriteString("| File | Aspect ratio | Status |\n")
	b.WriteString("|------|--------------|--------|\n")
	for _, entry := range catalogue.Images {
		status := "failed"
		if item, ok := r.Lookup(entry.Filename); ok {
			status = manifestStatus(item.Outcome)
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", entry.Filename, entry.AspectRatio, status)
	}
	return b.String()
}

func manifestStatus(o report.Outcome) string {
	switch o {
	case report.OutcomeSuccess:
		return "generated"
	case report.OutcomeSkipped:
		return "skipped (exists)"
	default:
		return "failed"
	}
}

func WriteManifest(fs afero.Fs, dir string, info ManifestInfo, catalogue Catalogue, r *report.Report) (string, error) {
	name := info.Name
	if name == "" {
		name = "image-manifest.md"
	}
	path := filepath.Join(dir, name)
	if err := fsx.WriteFile(fs, path, []byte(RenderManifest(info, catalogue, r)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
