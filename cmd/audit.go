package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"assetkit/internal/audit"
	"assetkit/internal/tui"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Check the built page for missing metadata and broken references",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		findings, err := audit.Run(afero.NewOsFs(), cfg.HTMLPath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(findings) == 0 {
			fmt.Fprintf(out, "%s: all checks passed\n", cfg.HTMLPath)
			return nil
		}

		lines := make([]string, 0, len(findings))
		for _, f := range findings {
			lines = append(lines, f.String())
		}
		fmt.Fprintln(out, tui.RenderList(cfg.HTMLPath+":", lines))
		return fmt.Errorf("audit: %d problem(s) found", len(findings))
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
}
