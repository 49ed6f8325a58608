package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"assetkit/internal/config"
	"assetkit/internal/logging"
)

var (
	configFile string
	debug      bool

	v      = config.New()
	cfg    *config.Config
	logger zerolog.Logger
	runID  string
)

var rootCmd = &cobra.Command{
	Use:   "assetkit",
	Short: "assetkit - image pipeline for the cafe site",
	Long:  "assetkit converts site images to WebP, generates photography with Imagen and audits the built page.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(v, configFile)
		if err != nil {
			return err
		}
		cfg = loaded
		runID = uuid.NewString()
		logger = logging.New(os.Stderr, debug).With().Str("run_id", runID).Logger()
		logger.Debug().Str("project", cfg.Project).Str("images_dir", cfg.ImagesDir).Str("html", cfg.HTMLPath).Msg("config loaded")
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	rootCmd.SilenceErrors = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default ./assetkit.yaml)")
	flags.BoolVar(&debug, "debug", false, "enable debug logging")
	flags.String("project", config.DefaultProject, "project name under the output root")
	flags.String("output-root", config.DefaultOutputRoot, "root folder holding project output")
	flags.String("images-dir", "", "images folder (default <output-root>/<project>/assets/images)")
	flags.String("html", "", "site page (default <output-root>/<project>/index.html)")

	bindFlags(rootCmd, map[string]string{
		"project":     "project",
		"output_root": "output-root",
		"images_dir":  "images-dir",
		"html_path":   "html",
	}, true)
}

// bindFlags ties viper keys to flags so flags override file and env values.
func bindFlags(cmd *cobra.Command, keys map[string]string, persistent bool) {
	flags := cmd.Flags()
	if persistent {
		flags = cmd.PersistentFlags()
	}
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind %s: %v", name, err))
		}
	}
}
