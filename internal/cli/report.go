package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/csvclean/pkg/errors"
	"github.com/YuminosukeSato/csvclean/processor"
	"github.com/YuminosukeSato/csvclean/report"
)

func (a *app) reportCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Render the inspection as Markdown or HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := processor.NewFromFile(args[0])
			if err != nil {
				return err
			}
			r, err := report.Build(args[0], p, a.cfg.PreviewRows, a.cfg.MissingThreshold)
			if err != nil {
				return err
			}
			var body []byte
			switch strings.ToLower(format) {
			case "markdown", "md":
				body = r.Markdown()
			case "html":
				body = r.HTML()
			default:
				return errors.NewValidationError("format", "must be markdown or html", format)
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(out, body, 0o644); err != nil {
				return errors.Wrapf(err, "write %s", out)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s report to %s\n", format, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "markdown", "report format: markdown or html")
	cmd.Flags().StringVar(&out, "out", "", "write the report to this path instead of stdout")
	return cmd
}

func (a *app) plotCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "plot <file>",
		Short: "Draw a PNG bar chart of missing percentages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := processor.NewFromFile(args[0])
			if err != nil {
				return err
			}
			missing, err := p.HighlightMissing(a.cfg.MissingThreshold)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := report.PlotMissing(&buf, missing); err != nil {
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return errors.Wrapf(err, "write %s", out)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote chart of %d columns to %s\n", len(missing), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "missing.png", "PNG output path")
	return cmd
}
