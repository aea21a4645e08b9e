package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/csvclean/internal/config"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or save csvclean configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "log_level: %s\n", a.cfg.LogLevel)
			fmt.Fprintf(w, "preview_rows: %d\n", a.cfg.PreviewRows)
			fmt.Fprintf(w, "missing_threshold: %g\n", a.cfg.MissingThreshold)
			fmt.Fprintf(w, "n_estimators: %d\n", a.cfg.NEstimators)
			fmt.Fprintf(w, "learning_rate: %g\n", a.cfg.LearningRate)
			fmt.Fprintf(w, "max_depth: %d\n", a.cfg.MaxDepth)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "save",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(a.cfg, a.cfgFile); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration saved")
			return nil
		},
	})
	return cmd
}
