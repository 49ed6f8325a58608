package generator

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"assetkit/internal/imagen"
)

//go:embed prompts.yaml
var defaultCatalogue []byte

// Entry describes one image to generate.
type Entry struct {
	Filename    string `yaml:"filename"`
	AspectRatio string `yaml:"aspect_ratio"`
	Prompt      string `yaml:"prompt"`
}

type Catalogue struct {
	BrandStyle string  `yaml:"brand_style"`
	Images     []Entry `yaml:"images"`
}

// DefaultCatalogue returns the catalogue compiled into the binary.
func DefaultCatalogue() (Catalogue, error) {
	return ParseCatalogue(defaultCatalogue)
}

// LoadCatalogue reads a catalogue file, or the embedded one when path is empty.
func LoadCatalogue(fs afero.Fs, path string) (Catalogue, error) {
	if path == "" {
		return DefaultCatalogue()
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Catalogue{}, fmt.Errorf("read prompts: %w", err)
	}
	return ParseCatalogue(data)
}

func ParseCatalogue(data []byte) (Catalogue, error) {
	var c Catalogue
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalogue{}, fmt.Errorf("parse prompts: %w", err)
	}
	for i := range c.Images {
		c.Images[i].Filename = strings.TrimSpace(c.Images[i].Filename)
		c.Images[i].Prompt = strings.TrimSpace(c.Images[i].Prompt)
		if strings.TrimSpace(c.Images[i].AspectRatio) == "" {
			c.Images[i].AspectRatio = imagen.DefaultAspectRatio
		}
	}
	if err := c.Validate(); err != nil {
		return Catalogue{}, fmt.Errorf("invalid prompts: %w", err)
	}
	return c, nil
}

func (c Catalogue) Validate() error {
	seen := make(map[string]bool, len(c.Images))
	for i, entry := range c.Images {
		if entry.Filename == "" {
			return fmt.Errorf("images[%d]: filename is required", i)
		}
		if entry.Filename != filepath.Base(entry.Filename) {
			return fmt.Errorf("images[%d]: filename %q must not contain a directory", i, entry.Filename)
		}
		if seen[entry.Filename] {
			return fmt.Errorf("images[%d]: duplicate filename %q", i, entry.Filename)
		}
		seen[entry.Filename] = true
		if entry.Prompt == "" {
			return fmt.Errorf("images[%d]: prompt is required", i)
		}
		if !imagen.ValidAspectRatio(entry.AspectRatio) {
			return fmt.Errorf("images[%d]: unsupported aspect ratio %q", i, entry.AspectRatio)
		}
	}
	return nil
}

// FullPrompt appends the brand style to the entry's prompt.
func (c Catalogue) FullPrompt(entry Entry) string {
	style := strings.TrimSpace(c.BrandStyle)
	if style == "" {
		return entry.Prompt
	}
	return entry.Prompt + " " + style
}
