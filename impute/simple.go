// Package impute fills missing cells of a table, either with a per-column
// statistic or with the predictions of a gradient-boosted model trained on the
// rows whose target is present.
package impute

import (
	"github.com/montanaflynn/stats"

	"github.com/YuminosukeSato/csvclean/core/model"
	"github.com/YuminosukeSato/csvclean/pkg/errors"
	"github.com/YuminosukeSato/csvclean/table"
)

// Strategy names a central-tendency fill.
type Strategy string

const (
	Mean   Strategy = "mean"
	Median Strategy = "median"
	Mode   Strategy = "mode"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case Mean, Median, Mode:
		return Strategy(s), nil
	}
	return "", errors.NewValidationError("strategy", "must be one of 'mean', 'median', 'mode'", s)
}

// SimpleImputer fills the nulls of one column with a statistic of its own
// present values.
type SimpleImputer struct {
	model.BaseEstimator

	Strategy Strategy

	column string
	fill   table.Value
	empty  bool
}

// NewSimpleImputer creates an imputer for strategy.
func NewSimpleImputer(strategy Strategy) *SimpleImputer {
	return &SimpleImputer{Strategy: strategy}
}

// Check reports whether the strategy applies to c without computing anything.
func (s *SimpleImputer) Check(c *table.Column) error {
	if _, err := ParseStrategy(string(s.Strategy)); err != nil {
		return err
	}
	if (s.Strategy == Mean || s.Strategy == Median) && !c.IsNumeric() {
		return errors.NewValidationError("columns",
			"strategy '"+string(s.Strategy)+"' needs a numeric column", c.Name)
	}
	return nil
}

// Fit computes the fill value of c. A column without present values is
// accepted; Transform then leaves it alone.
func (s *SimpleImputer) Fit(c *table.Column) error {
	if err := s.Check(c); err != nil {
		return err
	}
	s.column = c.Name
	s.empty = c.NonNullCount() == 0
	if s.empty {
		s.SetFitted()
		return nil
	}

	switch s.Strategy {
	case Mean:
		v, err := stats.Mean(c.Floats())
		if err != nil {
			return errors.Wrapf(err, "mean of column '%s'", c.Name)
		}
		s.fill = table.Num(v)
	case Median:
		v, err := stats.Median(c.Floats())
		if err != nil {
			return errors.Wrapf(err, "median of column '%s'", c.Name)
		}
		s.fill = table.Num(v)
	case Mode:
		s.fill = mode(c)
	}
	s.SetFitted()
	return nil
}

// mode returns the most frequent present value; among equally frequent values
// the one that appears first wins.
func mode(c *table.Column) table.Value {
	counts := make(map[string]int)
	first := make(map[string]int)
	for i, v := range c.Values {
		if v.Null {
			continue
		}
		k := c.Key(i)
		if _, ok := first[k]; !ok {
			first[k] = i
		}
		counts[k]++
	}

	best, bestCount := -1, 0
	for k, n := range counts {
		idx := first[k]
		if n > bestCount || (n == bestCount && idx < best) {
			best, bestCount = idx, n
		}
	}
	return c.Values[best]
}

// FillValue returns the fitted statistic; ok is false for an all-null column.
func (s *SimpleImputer) FillValue() (v table.Value, ok bool) {
	return s.fill, s.IsFitted() && !s.empty
}

// Transform writes the fill value into every null cell of c and returns the
// number of cells written. An all-null column is left untouched and reported
// through errors.Warn.
func (s *SimpleImputer) Transform(c *table.Column) (int, error) {
	if !s.IsFitted() {
		return 0, errors.NewNotFittedError("SimpleImputer", "Transform")
	}
	if c.Name != s.column {
		return 0, errors.NewValidationError("column", "imputer was fitted on '"+s.column+"'", c.Name)
	}
	if s.empty {
		errors.Warn(errors.NewEmptyColumnWarning(c.Name, string(s.Strategy)))
		return 0, nil
	}

	filled := 0
	for i, v := range c.Values {
		if v.Null {
			c.Set(i, s.fill)
			filled++
		}
	}
	return filled, nil
}

// FitTransform runs Fit then Transform on the same column.
func (s *SimpleImputer) FitTransform(c *table.Column) (int, error) {
	if err := s.Fit(c); err != nil {
		return 0, err
	}
	return s.Transform(c)
}
