package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Imsharad/upwork-jobs-agent/internal/config"
	"github.com/Imsharad/upwork-jobs-agent/internal/domain"
)

// TableSink accepts a finished table and reports where it went (path or URL).
type TableSink interface {
	Name() string
	Publish(ctx context.Context, t domain.Table) (string, error)
}

type PublishError struct {
	Sink string
	Err  error
}

func (e *PublishError) Error() string { return fmt.Sprintf("publish %s: %v", e.Sink, e.Err) }
func (e *PublishError) Unwrap() error { return e.Err }

// Publish runs s and wraps any failure in a PublishError.
func Publish(ctx context.Context, s TableSink, t domain.Table) (string, error) {
	log := zap.S().Named("sink")
	loc, err := s.Publish(ctx, t)
	if err != nil {
		log.Errorw("publish failed", "sink", s.Name(), "error", err)
		return "", &PublishError{Sink: s.Name(), Err: err}
	}
	log.Infow("published", "sink", s.Name(), "rows", len(t.Rows), "location", loc)
	return loc, nil
}

// Secondary builds the sinks enabled in cfg, in a fixed order.
func Secondary(cfg config.Config, inputPath string) []TableSink {
	var out []TableSink
	if x := cfg.Outputs.XLSX; x.Enabled {
		out = append(out, &XLSXFile{Path: x.Path, Sheet: x.Sheet})
	}
	if s := cfg.Outputs.SQLite; s.Enabled {
		out = append(out, &SQLite{Path: s.Path, InputPath: inputPath, RetentionDays: s.RetentionDays})
	}
	if g := cfg.Outputs.Sheets; g.Enabled {
		out = append(out, NewSheets(g))
	}
	return out
}

type cell struct {
	text    string
	numeric bool
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// tagsCell renders tags as a JSON array; nil renders as [].
func tagsCell(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tags); err != nil {
		return "[]"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func rowCells(j domain.JobRecord, columns []string) []cell {
	out := make([]cell, len(columns))
	for i, col := range columns {
		switch v := j.Value(col).(type) {
		case float64:
			out[i] = cell{text: formatNumber(v), numeric: true}
		case []string:
			out[i] = cell{text: tagsCell(v)}
		case string:
			out[i] = cell{text: v}
		}
	}
	return out
}

// rowValues is rowCells typed for spreadsheet APIs: numbers stay float64.
func rowValues(j domain.JobRecord, columns []string) []any {
	out := make([]any, len(columns))
	for i, col := range columns {
		switch v := j.Value(col).(type) {
		case []string:
			out[i] = tagsCell(v)
		case nil:
			out[i] = ""
		default:
			out[i] = v
		}
	}
	return out
}

func headerValues(columns []string) []any {
	out := make([]any, len(columns))
	for i, c := range columns {
		out[i] = c
	}
	return out
}
