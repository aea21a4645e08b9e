// Package processor exposes TableProcessor, the engine that owns one table and
// applies inspection, column removal and imputation to it.
package processor

import (
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/YuminosukeSato/csvclean/impute"
	"github.com/YuminosukeSato/csvclean/pkg/errors"
	"github.com/YuminosukeSato/csvclean/pkg/log"
	"github.com/YuminosukeSato/csvclean/preprocessing"
	"github.com/YuminosukeSato/csvclean/table"
)

// TableProcessor owns a table for its whole lifetime. Mutating methods return
// the processor so calls can be chained; the first failure is recorded, turns
// every later mutating call into a no-op and is returned by Err. A failed
// operation leaves the table as it was.
//
// A TableProcessor is not safe for concurrent use.
type TableProcessor struct {
	id       string
	source   string
	table    *table.Table
	encoders *impute.EncoderRegistry
	logger   log.Logger
	err      error
}

// Option configures a TableProcessor.
type Option func(*TableProcessor)

// WithLogger sets the logger; the processor id is attached to every record.
func WithLogger(l log.Logger) Option {
	return func(p *TableProcessor) {
		p.logger = l
	}
}

// WithSource names the input in log records.
func WithSource(source string) Option {
	return func(p *TableProcessor) {
		p.source = source
	}
}

// New wraps an already loaded table.
func New(t *table.Table, opts ...Option) *TableProcessor {
	p := &TableProcessor{
		id:       uuid.NewString(),
		source:   "memory",
		table:    t,
		encoders: impute.NewEncoderRegistry(),
		logger:   log.GetLoggerWithName("processor"),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(log.ProcessorIDKey, p.id)
	return p
}

// NewFromFile loads a CSV file, or an .xlsx workbook, into a new processor.
func NewFromFile(path string, opts ...Option) (*TableProcessor, error) {
	start := time.Now()
	t, err := table.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := New(t, append([]Option{WithSource(path)}, opts...)...)
	p.logLoaded(start)
	return p, nil
}

// NewFromReader loads comma-separated text from r into a new processor.
func NewFromReader(r io.Reader, opts ...Option) (*TableProcessor, error) {
	start := time.Now()
	t, err := table.ReadCSV(r)
	if err != nil {
		return nil, err
	}
	p := New(t, append([]Option{WithSource("stream")}, opts...)...)
	p.logLoaded(start)
	return p, nil
}

func (p *TableProcessor) logLoaded(start time.Time) {
	p.logger.Info("Table loaded",
		log.OperationKey, log.OperationLoad,
		log.SourceKey, p.source,
		log.RowsKey, p.table.NumRows(),
		log.ColumnsKey, p.table.NumColumns(),
		log.DurationMsKey, time.Since(start).Milliseconds())
}

// ID returns the processor's unique id.
func (p *TableProcessor) ID() string { return p.id }

// Table returns the owned table.
func (p *TableProcessor) Table() *table.Table { return p.table }

// Err returns the first error recorded by a mutating call.
func (p *TableProcessor) Err() error { return p.err }

// Encoder returns the label encoder fitted for a column by a model-based
// fill.
func (p *TableProcessor) Encoder(column string) (*preprocessing.LabelEncoder, bool) {
	return p.encoders.Get(column)
}

// Encoders returns the processor's encoder registry.
func (p *TableProcessor) Encoders() *impute.EncoderRegistry { return p.encoders }

func (p *TableProcessor) fail(op string, err error) *TableProcessor {
	p.err = err
	p.logger.Error("Operation failed", err,
		log.OperationKey, op,
		log.ErrorTypeKey, errors.Kind(err))
	return p
}

// Preview returns the first rows rows for display; rows <= 0 means the
// default window.
func (p *TableProcessor) Preview(rows int) *table.Preview {
	return p.table.Preview(rows)
}

// BasicInfo returns the schema summary.
func (p *TableProcessor) BasicInfo() table.Info {
	return p.table.BasicInfo()
}

// MissingReport returns the null count and percentage of every column.
func (p *TableProcessor) MissingReport() ([]table.MissingInfo, error) {
	return p.table.MissingReport()
}

// HighlightMissing returns the missing report with a severity band per column.
func (p *TableProcessor) HighlightMissing(threshold float64) ([]table.HighlightedMissing, error) {
	return p.table.HighlightMissing(threshold)
}

// RemoveColumns drops the named columns that exist. It fails when none of
// them does.
func (p *TableProcessor) RemoveColumns(names ...string) *TableProcessor {
	if p.err != nil {
		return p
	}
	start := time.Now()
	removed, err := p.table.RemoveColumns(names...)
	if err != nil {
		return p.fail(log.OperationRemoveColumns, err)
	}
	p.logger.Info("Columns removed",
		log.OperationKey, log.OperationRemoveColumns,
		log.RemovedKey, removed,
		log.ColumnsKey, p.table.NumColumns(),
		log.DurationMsKey, time.Since(start).Milliseconds())
	return p
}

// FillMissing fills the nulls of each column with its own mean, median or
// mode. Without columns every numeric column is filled. All columns are
// validated and every fill value computed before the first cell is written.
func (p *TableProcessor) FillMissing(strategy string, columns ...string) *TableProcessor {
	if p.err != nil {
		return p
	}
	start := time.Now()

	s, err := impute.ParseStrategy(strategy)
	if err != nil {
		return p.fail(log.OperationFillMissing, err)
	}
	if len(columns) == 0 {
		columns = p.table.NumericColumnNames()
	}

	cols := make([]*table.Column, len(columns))
	for i, name := range columns {
		c, ok := p.table.Column(name)
		if !ok {
			return p.fail(log.OperationFillMissing,
				errors.NewValidationError("columns", "column does not exist", name))
		}
		cols[i] = c
	}

	imputers := make([]*impute.SimpleImputer, len(cols))
	for i, c := range cols {
		imputers[i] = impute.NewSimpleImputer(s)
		if err := imputers[i].Fit(c); err != nil {
			return p.fail(log.OperationFillMissing, err)
		}
	}

	for i, c := range cols {
		filled, err := imputers[i].Transform(c)
		if err != nil {
			return p.fail(log.OperationFillMissing, err)
		}
		p.logger.Debug("Column filled",
			log.ColumnKey, c.Name,
			log.StrategyKey, string(s),
			log.FilledKey, filled)
	}
	p.logger.Info("Missing values filled",
		log.OperationKey, log.OperationFillMissing,
		log.StrategyKey, string(s),
		log.ColumnsKey, len(cols),
		log.DurationMsKey, time.Since(start).Milliseconds())
	return p
}

// FillMissingModelBased fills the nulls of target with predictions of a
// gradient-boosted model trained on the rows where target is present. A text
// target goes through a classifier, a numeric one through a regressor. The
// encoders fitted along the way stay available through Encoder.
func (p *TableProcessor) FillMissingModelBased(target string, features []string, params impute.BoostParams) *TableProcessor {
	if p.err != nil {
		return p
	}
	start := time.Now()

	imp := impute.NewModelImputer(target, features, params).WithLogger(p.logger)
	res, err := imp.Impute(p.table)
	if err != nil {
		return p.fail(log.OperationFillModel, err)
	}
	p.encoders.Merge(res.Encoders)

	p.logger.Info("Missing values filled",
		log.OperationKey, log.OperationFillModel,
		log.TargetKey, target,
		log.StrategyKey, "gradient_boosting",
		log.FilledKey, len(res.Rows),
		log.DurationMsKey, time.Since(start).Milliseconds())
	return p
}
