package preprocessing

import (
	"fmt"
	"sort"

	"github.com/YuminosukeSato/csvclean/core/model"
	"github.com/YuminosukeSato/csvclean/pkg/errors"
)

// LabelEncoder はscikit-learn互換のラベルエンコーダ
// 文字列カテゴリを 0..n_classes-1 の整数コードに変換する
type LabelEncoder struct {
	model.BaseEstimator

	// Column はエラーメッセージに使う列名（任意）
	Column string

	// Classes は学習したカテゴリ（辞書順）
	Classes []string

	index map[string]int
}

var _ model.LabelTransformer = (*LabelEncoder)(nil)

// NewLabelEncoder は新しいLabelEncoderを作成する
//
// 使用例:
//
//	le := preprocessing.NewLabelEncoder("city")
//	codes, err := le.FitTransform([]string{"Tokyo", "Osaka", "Tokyo"})
//	// codes == []int{1, 0, 1}
func NewLabelEncoder(column string) *LabelEncoder {
	return &LabelEncoder{Column: column}
}

// Fit はカテゴリの一覧を学習する。コードは辞書順に割り当てられる
func (le *LabelEncoder) Fit(labels []string) error {
	if len(labels) == 0 {
		return errors.NewModelError("LabelEncoder.Fit", "empty data", errors.ErrEmptyData)
	}

	seen := make(map[string]struct{}, len(labels))
	classes := make([]string, 0)
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		classes = append(classes, l)
	}
	sort.Strings(classes)

	le.Classes = classes
	le.index = make(map[string]int, len(classes))
	for i, c := range classes {
		le.index[c] = i
	}
	le.SetFitted()
	return nil
}

// Transform はラベルを整数コードに変換する
// 学習時に存在しなかったカテゴリは EncodingError になる
func (le *LabelEncoder) Transform(labels []string) ([]int, error) {
	if !le.IsFitted() {
		return nil, errors.NewNotFittedError("LabelEncoder", "Transform")
	}

	codes := make([]int, len(labels))
	for i, l := range labels {
		code, ok := le.index[l]
		if !ok {
			return nil, errors.NewEncodingError(le.Column, l)
		}
		codes[i] = code
	}
	return codes, nil
}

// FitTransform は学習と変換を同時に行う
func (le *LabelEncoder) FitTransform(labels []string) ([]int, error) {
	if err := le.Fit(labels); err != nil {
		return nil, err
	}
	return le.Transform(labels)
}

// InverseTransform は整数コードを元のラベルに戻す
func (le *LabelEncoder) InverseTransform(codes []int) ([]string, error) {
	if !le.IsFitted() {
		return nil, errors.NewNotFittedError("LabelEncoder", "InverseTransform")
	}

	labels := make([]string, len(codes))
	for i, c := range codes {
		if c < 0 || c >= len(le.Classes) {
			return nil, errors.NewValueError("LabelEncoder.InverseTransform",
				fmt.Sprintf("code %d out of range [0, %d)", c, len(le.Classes)))
		}
		labels[i] = le.Classes[c]
	}
	return labels, nil
}

// NClasses は学習したカテゴリ数を返す
func (le *LabelEncoder) NClasses() int {
	return len(le.Classes)
}

// GetParams はエンコーダのパラメータを取得する
func (le *LabelEncoder) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"column":    le.Column,
		"n_classes": len(le.Classes),
	}
}

// String はエンコーダの文字列表現を返す
func (le *LabelEncoder) String() string {
	if !le.IsFitted() {
		return fmt.Sprintf("LabelEncoder(column=%q, fitted=false)", le.Column)
	}
	return fmt.Sprintf("LabelEncoder(column=%q, classes=%d)", le.Column, len(le.Classes))
}
