package table

import (
	"github.com/YuminosukeSato/csvclean/pkg/errors"
)

// RemoveColumns drops every requested column that exists. Names that do not
// match are ignored as long as at least one does; when none match the table
// is left as is and a ValidationError is returned. The removed names are
// returned in request order.
func (t *Table) RemoveColumns(names ...string) ([]string, error) {
	drop := make(map[string]struct{}, len(names))
	var matched []string
	for _, n := range names {
		if _, dup := drop[n]; dup || !t.HasColumn(n) {
			continue
		}
		drop[n] = struct{}{}
		matched = append(matched, n)
	}
	if len(matched) == 0 {
		return nil, errors.NewValidationError("columns", "no matching columns", errors.QuoteList(names))
	}

	kept := t.columns[:0]
	for _, c := range t.columns {
		if _, ok := drop[c.Name]; !ok {
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(t.columns); i++ {
		t.columns[i] = nil
	}
	t.columns = kept
	t.reindex()
	return matched, nil
}
