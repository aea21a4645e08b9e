// Package cli wires the csvclean commands onto a TableProcessor.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/csvclean/internal/config"
	"github.com/YuminosukeSato/csvclean/pkg/errors"
	"github.com/YuminosukeSato/csvclean/pkg/log"
	"github.com/YuminosukeSato/csvclean/processor"
	"github.com/YuminosukeSato/csvclean/table"
)

// app carries the state shared by one command tree.
type app struct {
	cfgFile  string
	logLevel string
	cfg      *config.Global
}

// NewRootCommand builds a fresh command tree. Each call has its own flag
// state, so tests can run several invocations side by side.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "csvclean",
		Short:         "Inspect and clean tabular data files",
		Long:          `csvclean profiles missing values in CSV and XLSX files and fills them with simple statistics or a gradient-boosted model.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ~/.csvclean/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error, disabled (overrides config)")

	root.AddCommand(
		a.inspectCmd(),
		a.dropCmd(),
		a.fillCmd(),
		a.fillModelCmd(),
		a.reportCmd(),
		a.plotCmd(),
		a.configCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(""); err != nil {
		return err
	}
	c, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		c.LogLevel = a.logLevel
	}
	a.cfg = c
	return log.SetupLogger(c.LogLevel, cmd.ErrOrStderr())
}

// Execute runs the command line and returns the process exit status.
func Execute() int {
	return run(NewRootCommand(), os.Args[1:], os.Stderr)
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %s: %v\n", errors.Kind(err), err)
		return 1
	}
	return 0
}

// save writes the processor's table to output, or back to input when output
// is empty.
func save(cmd *cobra.Command, p *processor.TableProcessor, input, output string) error {
	if err := p.Err(); err != nil {
		return err
	}
	if output == "" {
		output = input
	}
	if err := table.WriteFile(output, p.Table()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows x %d columns to %s\n", p.Table().NumRows(), p.Table().NumColumns(), output)
	return nil
}

// splitList turns a comma-separated flag value into trimmed, non-empty names.
func splitList(s []string) []string {
	var out []string
	for _, item := range s {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
