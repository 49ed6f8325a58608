package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultProject      = "THE-CORNER-CAFE"
	DefaultOutputRoot   = "output"
	DefaultQuality      = 85
	DefaultModel        = "imagen-4.0-generate-001"
	DefaultBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	DefaultMaxAttempts  = 3
	DefaultRetryWait    = 15 * time.Second
	DefaultAPIWait      = 3 * time.Second
	DefaultManifestName = "image-manifest.md"
	DefaultSafetyFilter = "block_low_and_above"

	APIKeyEnv = "GEMINI_API_KEY"
)

var ErrMissingAPIKey = errors.New(APIKeyEnv + " is not set")

type Config struct {
	Project    string `mapstructure:"project"`
	OutputRoot string `mapstructure:"output_root"`
	ImagesDir  string `mapstructure:"images_dir"`
	HTMLPath   string `mapstructure:"html_path"`
	APIKey     string `mapstructure:"api_key"`

	Convert  ConvertConfig  `mapstructure:"convert"`
	Generate GenerateConfig `mapstructure:"generate"`
}

type ConvertConfig struct {
	Quality         int  `mapstructure:"quality"`
	DeleteOriginals bool `mapstructure:"delete_originals"`
}

type GenerateConfig struct {
	Model        string        `mapstructure:"model"`
	BaseURL      string        `mapstructure:"base_url"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	RetryWait    time.Duration `mapstructure:"retry_wait"`
	APIWait      time.Duration `mapstructure:"api_wait"`
	Manifest     string        `mapstructure:"manifest"`
	Prompts      string        `mapstructure:"prompts"`
	SafetyFilter string        `mapstructure:"safety_filter"`
}

// New returns a viper instance with every default registered and the API
// key bound to its environment variable. Flags are bound by the caller.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("assetkit")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("project", DefaultProject)
	v.SetDefault("output_root", DefaultOutputRoot)
	v.SetDefault("images_dir", "")
	v.SetDefault("html_path", "")
	v.SetDefault("convert.quality", DefaultQuality)
	v.SetDefault("convert.delete_originals", false)
	v.SetDefault("generate.model", DefaultModel)
	v.SetDefault("generate.base_url", DefaultBaseURL)
	v.SetDefault("generate.max_attempts", DefaultMaxAttempts)
	v.SetDefault("generate.retry_wait", DefaultRetryWait)
	v.SetDefault("generate.api_wait", DefaultAPIWait)
	v.SetDefault("generate.manifest", DefaultManifestName)
	v.SetDefault("generate.prompts", "")
	v.SetDefault("generate.safety_filter", DefaultSafetyFilter)

	_ = v.BindEnv("api_key", APIKeyEnv)
	return v
}

// Load reads .env files (when present), the optional config file and the
// environment, then fills in the project-derived paths.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	loadDotEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDerived()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// dotEnvFiles are loaded in order. godotenv never overrides a variable that
// is already set, so .env.local wins over .env and the real environment wins
// over both.
var dotEnvFiles = []string{".env.local", ".env"}

func loadDotEnv() {
	for _, name := range dotEnvFiles {
		// Missing files are fine.
		_ = godotenv.Load(name)
	}
}

func (c *Config) applyDerived() {
	c.Project = strings.TrimSpace(c.Project)
	c.APIKey = strings.TrimSpace(c.APIKey)
	projectRoot := filepath.Join(c.OutputRoot, c.Project)
	if c.ImagesDir == "" {
		c.ImagesDir = filepath.Join(projectRoot, "assets", "images")
	}
	if c.HTMLPath == "" {
		c.HTMLPath = filepath.Join(projectRoot, "index.html")
	}
}

func (c *Config) Validate() error {
	if c.Project == "" {
		return errors.New("project is required")
	}
	if c.Convert.Quality < 1 || c.Convert.Quality > 100 {
		return fmt.Errorf("convert.quality must be within 1..100, got %d", c.Convert.Quality)
	}
	if c.Generate.MaxAttempts < 1 {
		return fmt.Errorf("generate.max_attempts must be at least 1, got %d", c.Generate.MaxAttempts)
	}
	if c.Generate.RetryWait < 0 || c.Generate.APIWait < 0 {
		return errors.New("generate waits must not be negative")
	}
	if strings.TrimSpace(c.Generate.Manifest) == "" {
		return errors.New("generate.manifest is required")
	}
	return nil
}

// RequireAPIKey is checked by the generate command before any work starts.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
