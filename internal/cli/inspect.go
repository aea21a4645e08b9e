package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/csvclean/processor"
	"github.com/YuminosukeSato/csvclean/report"
)

func (a *app) inspectCmd() *cobra.Command {
	var (
		rows      int
		threshold float64
	)
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print a preview, the schema and the missing-value report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := processor.NewFromFile(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("rows") {
				rows = a.cfg.PreviewRows
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = a.cfg.MissingThreshold
			}
			r, err := report.Build(args[0], p, rows, threshold)
			if err != nil {
				return err
			}
			return printInspection(cmd.OutOrStdout(), r)
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 0, "number of preview rows (default from config)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "lowest missing percentage to highlight (default from config)")
	return cmd
}

func printInspection(w io.Writer, r *report.Report) error {
	_, err := w.Write(r.Markdown())
	if err != nil {
		return err
	}
	flagged := 0
	for _, m := range r.Missing {
		if report.BandColour(m.Band) != "" {
			flagged++
		}
	}
	_, err = fmt.Fprintf(w, "\n%d of %d columns at or above %g%% missing\n", flagged, len(r.Missing), r.Threshold)
	return err
}
