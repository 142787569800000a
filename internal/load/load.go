package load

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Imsharad/upwork-jobs-agent/internal/domain"
)

const (
	FormatTSV  = "tsv"
	FormatHTML = "html"
)

// LoadError reports input that is missing, empty or structurally unreadable.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func loadErr(path string, format string, args ...any) *LoadError {
	return &LoadError{Path: path, Err: fmt.Errorf(format, args...)}
}

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return FormatHTML
	default:
		return FormatTSV
	}
}

// File loads path as format; an empty format is detected from the extension.
func File(path, format, cardSelector string) (domain.RawTable, error) {
	if format == "" {
		format = DetectFormat(path)
	}
	switch format {
	case FormatTSV:
		return TSV(path)
	case FormatHTML:
		return HTML(path, cardSelector)
	default:
		return domain.RawTable{}, loadErr(path, "unknown input format %q", format)
	}
}
