package cli

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/csvclean/pkg/errors"
	"github.com/YuminosukeSato/csvclean/processor"
)

func (a *app) dropCmd() *cobra.Command {
	var (
		columns []string
		output  string
	)
	cmd := &cobra.Command{
		Use:   "drop <file>",
		Short: "Remove columns and write the table back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := splitList(columns)
			if len(names) == 0 {
				return errors.NewValidationError("columns", "at least one column is required", columns)
			}
			p, err := processor.NewFromFile(args[0])
			if err != nil {
				return err
			}
			return save(cmd, p.RemoveColumns(names...), args[0], output)
		},
	}
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "comma-separated column names to remove")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this path instead of overwriting the input")
	return cmd
}

func (a *app) fillCmd() *cobra.Command {
	var (
		strategy string
		columns  []string
		output   string
	)
	cmd := &cobra.Command{
		Use:   "fill <file>",
		Short: "Fill missing values with the column mean, median or mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := processor.NewFromFile(args[0])
			if err != nil {
				return err
			}
			return save(cmd, p.FillMissing(strategy, splitList(columns)...), args[0], output)
		},
	}
	cmd.Flags().StringVar(&strategy, "strategy", "mean", "fill strategy: mean, median or mode")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "columns to fill (default: every numeric column)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this path instead of overwriting the input")
	return cmd
}

func (a *app) fillModelCmd() *cobra.Command {
	var (
		target       string
		features     []string
		nEstimators  int
		learningRate float64
		maxDepth     int
		output       string
	)
	cmd := &cobra.Command{
		Use:   "fill-model <file>",
		Short: "Predict missing values of one column from other columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := a.cfg.Boost()
			f := cmd.Flags()
			if f.Changed("n-estimators") {
				params.NEstimators = nEstimators
			}
			if f.Changed("learning-rate") {
				params.LearningRate = learningRate
			}
			if f.Changed("max-depth") {
				params.MaxDepth = maxDepth
			}
			p, err := processor.NewFromFile(args[0])
			if err != nil {
				return err
			}
			return save(cmd, p.FillMissingModelBased(target, splitList(features), params), args[0], output)
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "column whose missing values are predicted")
	cmd.Flags().StringSliceVar(&features, "features", nil, "comma-separated predictor columns")
	cmd.Flags().IntVar(&nEstimators, "n-estimators", 0, "boosting rounds (default from config)")
	cmd.Flags().Float64Var(&learningRate, "learning-rate", 0, "shrinkage per round (default from config)")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum tree depth (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this path instead of overwriting the input")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("features")
	return cmd
}
