package clean

import (
	"fmt"
	"strings"

	"github.com/Imsharad/upwork-jobs-agent/internal/config"
	"github.com/Imsharad/upwork-jobs-agent/internal/domain"
)

// SchemaError reports raw columns the input is missing.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Project keeps the mapped columns under their semantic names and folds the
// tag columns into Tags. Any other column, including old score columns, is dropped.
func Project(t domain.RawTable, s config.Schema) ([]domain.ProjectedRecord, error) {
	var missing []string
	for _, col := range s.RequiredColumns() {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	out := make([]domain.ProjectedRecord, 0, len(t.Records))
	for _, rec := range t.Records {
		p := domain.ProjectedRecord{
			Values: make(map[string]string, len(s.RawOrder)),
			Tags:   MergeTags(rec, s.TagColumns),
		}
		for _, raw := range s.RawOrder {
			if v, ok := rec.Get(raw); ok {
				p.Values[s.ColumnMap[raw]] = v
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// MergeTags returns the present, non-empty tag cells in column order.
// Repeated tag text is kept.
func MergeTags(rec domain.RawRecord, tagColumns []string) []string {
	tags := make([]string, 0, len(tagColumns))
	for _, col := range tagColumns {
		v, ok := rec.Get(col)
		if !ok || v == "" {
			continue
		}
		tags = append(tags, v)
	}
	return tags
}
