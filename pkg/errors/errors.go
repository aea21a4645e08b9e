// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// テーブル処理エンジンの失敗は ParseError / ValidationError / EncodingError /
// TrainingError / DivisionError のいずれかとして呼び出し側に返されます。
package errors

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("csvclean-warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler は警告ハンドラを設定します。
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// EmptyColumnWarning は統計量を計算できない（全て欠損の）列をスキップした場合の警告です。
type EmptyColumnWarning struct {
	Column   string
	Strategy string
}

func (w *EmptyColumnWarning) Error() string {
	return fmt.Sprintf("column '%s' has no non-null values; %s fill skipped", w.Column, w.Strategy)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *EmptyColumnWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("column", w.Column).
		Str("strategy", w.Strategy).
		Str("type", "EmptyColumnWarning")
}

// NewEmptyColumnWarning は新しいEmptyColumnWarningを作成します。
func NewEmptyColumnWarning(column, strategy string) *EmptyColumnWarning {
	return &EmptyColumnWarning{Column: column, Strategy: strategy}
}

// ===========================================================================
//
//	テーブル処理のエラー型
//
// ===========================================================================

// ParseError は入力が区切りテキストとして解釈できない、またはデコードに失敗した場合のエラーです。
type ParseError struct {
	Source string
	Line   int // 0 when the failure is not tied to a line
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("csvclean: parse %s: line %d: %s", e.Source, e.Line, e.Reason)
	}
	return fmt.Sprintf("csvclean: parse %s: %s", e.Source, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ParseError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("source", e.Source).
		Int("line", e.Line).
		Str("reason", e.Reason).
		Str("type", "ParseError")
}

// NewParseError は新しいParseErrorを作成し、スタックトレースを付与します。
func NewParseError(source string, line int, reason string) error {
	return errors.WithStack(&ParseError{Source: source, Line: line, Reason: reason})
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
// 存在しない列、空の列選択、未知の戦略、空の学習/予測パーティションなど。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("csvclean: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// EncodingError は学習時に存在しなかったカテゴリを変換しようとした場合のエラーです。
type EncodingError struct {
	Column string
	Value  string
}

func (e *EncodingError) Error() string {
	col := e.Column
	if col == "" {
		col = "<unnamed>"
	}
	return fmt.Sprintf("csvclean: column '%s': category %q was not seen during fit", col, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *EncodingError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("column", e.Column).
		Str("value", e.Value).
		Str("type", "EncodingError")
}

// NewEncodingError は新しいEncodingErrorを作成し、スタックトレースを付与します。
func NewEncodingError(column, value string) error {
	return errors.WithStack(&EncodingError{Column: column, Value: value})
}

// TrainingError はモデルの学習に失敗した場合のエラーです。原因のエラーをラップします。
type TrainingError struct {
	Model string
	Err   error
}

func (e *TrainingError) Error() string {
	return fmt.Sprintf("csvclean: training %s failed: %v", e.Model, e.Err)
}

func (e *TrainingError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *TrainingError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model", e.Model).
		AnErr("cause", e.Err).
		Str("type", "TrainingError")
}

// NewTrainingError は新しいTrainingErrorを作成し、スタックトレースを付与します。
func NewTrainingError(model string, err error) error {
	return errors.WithStack(&TrainingError{Model: model, Err: err})
}

// DivisionError は行数0のテーブルで割合を計算しようとした場合のエラーです。
type DivisionError struct {
	Op string
}

func (e *DivisionError) Error() string {
	return fmt.Sprintf("csvclean: %s: division by zero (table has no rows)", e.Op)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DivisionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("type", "DivisionError")
}

// NewDivisionError は新しいDivisionErrorを作成し、スタックトレースを付与します。
func NewDivisionError(op string) error {
	return errors.WithStack(&DivisionError{Op: op})
}

// ===========================================================================
//
//	推定器のエラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` や `Transform` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("csvclean: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) axisName() string {
	if e.Axis == 0 {
		return "rows"
	}
	return "features"
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("csvclean: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, e.axisName(), e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", e.axisName()).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("csvclean: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ModelError は機械学習モデルに関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("csvclean: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("csvclean: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

// ===========================================================================
//
//	判定関数
//
// ===========================================================================

// IsParseError はエラーチェーンにParseErrorが含まれるかを返します。
func IsParseError(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}

// IsValidationError はエラーチェーンにValidationErrorが含まれるかを返します。
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsEncodingError はエラーチェーンにEncodingErrorが含まれるかを返します。
func IsEncodingError(err error) bool {
	var target *EncodingError
	return errors.As(err, &target)
}

// IsTrainingError はエラーチェーンにTrainingErrorが含まれるかを返します。
func IsTrainingError(err error) bool {
	var target *TrainingError
	return errors.As(err, &target)
}

// IsDivisionError はエラーチェーンにDivisionErrorが含まれるかを返します。
func IsDivisionError(err error) bool {
	var target *DivisionError
	return errors.As(err, &target)
}

// Kind はエラーの分類名を返します（CLIやログ出力用）。
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsParseError(err):
		return "ParseError"
	case IsEncodingError(err):
		return "EncodingError"
	case IsTrainingError(err):
		return "TrainingError"
	case IsDivisionError(err):
		return "DivisionError"
	case IsValidationError(err):
		return "ValidationError"
	default:
		return "Error"
	}
}

// QuoteList は列名の一覧をエラーメッセージ用に整形します。
func QuoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingleClass は分類対象のクラスが1種類しかない場合のエラーです。
	ErrSingleClass = New("target has a single class")
)
