// Standard attribute keys for table and model operations. Keys follow a
// hierarchical naming convention ("data.rows", "impute.strategy") so log
// pipelines can filter on them.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type, e.g. "GradientBoostingRegressor".
	ModelNameKey = "model.name"

	// ProcessorIDKey is the unique id of a TableProcessor instance.
	ProcessorIDKey = "processor.id"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "component"
)

// Data shape.
const (
	// SourceKey names the input the table was loaded from (path or "stream").
	SourceKey = "data.source"

	// RowsKey is the number of rows in the table.
	RowsKey = "data.rows"

	// ColumnsKey is the number of columns in the table.
	ColumnsKey = "data.columns"

	// SamplesKey is the number of training samples handed to an estimator.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of feature columns handed to an estimator.
	FeaturesKey = "data.features"

	// ClassesKey is the number of classes seen by a classifier.
	ClassesKey = "data.classes"
)

// Imputation.
const (
	// ColumnKey names the column being modified.
	ColumnKey = "impute.column"

	// TargetKey names the target column of a model-based fill.
	TargetKey = "impute.target"

	// StrategyKey is the fill strategy ("mean", "median", "mode", "gradient_boosting").
	StrategyKey = "impute.strategy"

	// FilledKey is the number of cells written.
	FilledKey = "impute.filled"

	// RemovedKey lists removed columns.
	RemovedKey = "edit.removed"
)

// Performance and training.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// LossKey records the training loss.
	LossKey = "metrics.loss"

	// R2ScoreKey records in-sample R² of a regressor.
	R2ScoreKey = "metrics.r2_score"

	// AccuracyKey records in-sample accuracy of a classifier.
	AccuracyKey = "metrics.accuracy"

	// IterationKey records the boosting iteration.
	IterationKey = "training.iteration"

	// LearningRateKey records the shrinkage rate.
	LearningRateKey = "hyperparams.learning_rate"

	// NEstimatorsKey records the number of boosting rounds.
	NEstimatorsKey = "hyperparams.n_estimators"

	// MaxDepthKey records the maximum tree depth.
	MaxDepthKey = "hyperparams.max_depth"
)

// Errors.
const (
	// ErrorTypeKey categorizes the failure, e.g. "ValidationError".
	ErrorTypeKey = "error.type"
)

// Standard attribute values.
const (
	OperationLoad          = "load"
	OperationRemoveColumns = "remove_columns"
	OperationFillMissing   = "fill_missing"
	OperationFillModel     = "fill_missing_model_based"
	OperationFit           = "fit"
	OperationPredict       = "predict"
	OperationTransform     = "transform"
)
