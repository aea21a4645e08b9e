package impute

import (
	"sort"

	"github.com/YuminosukeSato/csvclean/preprocessing"
)

// EncoderRegistry maps a column name to the label encoder fitted for it.
type EncoderRegistry struct {
	encoders map[string]*preprocessing.LabelEncoder
}

// NewEncoderRegistry returns an empty registry.
func NewEncoderRegistry() *EncoderRegistry {
	return &EncoderRegistry{encoders: make(map[string]*preprocessing.LabelEncoder)}
}

// Register stores le under its column name, replacing any earlier encoder.
func (r *EncoderRegistry) Register(le *preprocessing.LabelEncoder) {
	r.encoders[le.Column] = le
}

// Get returns the encoder of a column.
func (r *EncoderRegistry) Get(column string) (*preprocessing.LabelEncoder, bool) {
	le, ok := r.encoders[column]
	return le, ok
}

// Names returns the registered column names in sorted order.
func (r *EncoderRegistry) Names() []string {
	names := make([]string, 0, len(r.encoders))
	for n := range r.encoders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered encoders.
func (r *EncoderRegistry) Len() int {
	return len(r.encoders)
}

// Merge copies every encoder of other into r.
func (r *EncoderRegistry) Merge(other *EncoderRegistry) {
	for n, le := range other.encoders {
		r.encoders[n] = le
	}
}
