package cmd

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"assetkit/internal/config"
	"assetkit/internal/converter"
	"assetkit/internal/report"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeSite(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())

	images := filepath.Join("output", config.DefaultProject, "assets", "images")
	if err := os.MkdirAll(images, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, 24, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: 90, A: 255})
		}
	}
	f, err := os.Create(filepath.Join(images, "hero.png"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()

	page := `<html><head><title>cafe</title></head><body><img src="assets/images/hero.png"></body></html>`
	if err := os.WriteFile(filepath.Join("output", config.DefaultProject, "index.html"), []byte(page), 0o644); err != nil {
		t.Fatalf("write page: %v", err)
	}
}

func TestConvertCommand(t *testing.T) {
	writeSite(t)
	project := filepath.Join("output", config.DefaultProject)

	out, err := run(t, "convert")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(out, "Conversion") || !strings.Contains(out, "1 references updated") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(project, "assets", "images", "hero.webp")); err != nil {
		t.Fatalf("webp not written: %v", err)
	}
	page, err := os.ReadFile(filepath.Join(project, "index.html"))
	if err != nil || !strings.Contains(string(page), "hero.webp") {
		t.Fatalf("page not rewritten: %s (%v)", page, err)
	}
	if _, err := os.Stat(filepath.Join(project, "index.html.bak")); err != nil {
		t.Fatalf("backup missing: %v", err)
	}

	out, err = run(t, "audit")
	if err == nil {
		t.Fatalf("expected audit findings")
	}
	if !strings.Contains(out, "h1:") || !strings.Contains(out, "img-alt:") {
		t.Fatalf("unexpected audit output:\n%s", out)
	}
}

func TestConvertMissingImagesDir(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := run(t, "convert"); err == nil {
		t.Fatalf("expected error for missing images directory")
	}
}

func TestGenerateRequiresAPIKey(t *testing.T) {
	writeSite(t)
	t.Setenv(config.APIKeyEnv, "")

	_, err := run(t, "generate")
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestConvertRowsUsePerFileKB(t *testing.T) {
	r := report.New()
	for _, item := range []report.Item{
		{ID: "a.jpg", Outcome: report.OutcomeSuccess, SrcBytes: 4*1024 + 1000, DstBytes: 1*1024 + 1000},
		{ID: "b.png", Outcome: report.OutcomeSuccess, SrcBytes: 4*1024 + 1000, DstBytes: 1*1024 + 1000},
	} {
		if err := r.Record(item); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	values := map[string]string{}
	for _, row := range convertRows(converter.Result{Report: r}) {
		values[row.Label] = row.Value
	}
	if values["Before"] != "8 KB" || values["After"] != "2 KB" || values["Saved"] != "6 KB" {
		t.Fatalf("unexpected size rows: %v", values)
	}
	if values["Reduction (of KB totals)"] != "75%" {
		t.Fatalf("reduction = %q", values["Reduction (of KB totals)"])
	}
	if values["HTML"] != "not found" {
		t.Fatalf("html row = %q", values["HTML"])
	}
}
