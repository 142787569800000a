package sink

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/Imsharad/upwork-jobs-agent/internal/domain"
)

type Quoting string

const (
	QuoteNonNumeric Quoting = "nonnumeric"
	QuoteAll        Quoting = "all"
	QuoteMinimal    Quoting = "minimal"
)

func ParseQuoting(s string) (Quoting, error) {
	switch q := Quoting(strings.ToLower(strings.TrimSpace(s))); q {
	case "":
		return QuoteNonNumeric, nil
	case QuoteNonNumeric, QuoteAll, QuoteMinimal:
		return q, nil
	}
	return "", fmt.Errorf("unknown quoting policy %q (want nonnumeric, all or minimal)", s)
}

// CSVFile is the primary output. Path is replaced atomically, under an
// exclusive lock on Path+".lock". The lock file is left in place after a run:
// deleting it while another writer waits on it would let two writers hold
// different locks for the same Path.
//
// Numbers are written in shortest form ("97", not "97.0") and tags as a JSON
// array (["Go","SQL"]), so the file does not diff cleanly against exports that
// used a float repr and a Python list repr.
type CSVFile struct {
	Path    string
	Quoting Quoting
	// LockRetry is the delay between lock attempts; zero means 100ms.
	LockRetry time.Duration
}

func (c *CSVFile) Name() string { return "csv" }

func (c *CSVFile) Publish(ctx context.Context, t domain.Table) (string, error) {
	if c.Path == "" {
		return "", errors.New("output path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return "", err
	}

	retry := c.LockRetry
	if retry <= 0 {
		retry = 100 * time.Millisecond
	}
	lock := flock.New(c.Path + ".lock")
	locked, err := lock.TryLockContext(ctx, retry)
	if err != nil {
		return "", fmt.Errorf("lock %s: %w", c.Path, err)
	}
	if !locked {
		return "", fmt.Errorf("lock %s: not acquired", c.Path)
	}
	defer func() { _ = lock.Unlock() }()

	tmp := c.Path + ".tmp"
	if err := c.writeFile(tmp, t); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, c.Path); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return c.Path, nil
}

func (c *CSVFile) writeFile(path string, t domain.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := WriteCSV(w, t, c.Quoting); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes a header and one line per row, comma separated, "\n" terminated.
// Quotes inside a quoted field are doubled.
func WriteCSV(w io.Writer, t domain.Table, q Quoting) error {
	if q == "" {
		q = QuoteNonNumeric
	}
	header := make([]cell, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = cell{text: c}
	}
	if err := writeLine(w, header, q); err != nil {
		return err
	}
	for _, r := range t.Rows {
		if err := writeLine(w, rowCells(r, t.Columns), q); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w io.Writer, cells []cell, q Quoting) error {
	var b strings.Builder
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		if needsQuotes(c, q) {
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(c.text, `"`, `""`))
			b.WriteByte('"')
		} else {
			b.WriteString(c.text)
		}
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func needsQuotes(c cell, q Quoting) bool {
	switch q {
	case QuoteAll:
		return true
	case QuoteNonNumeric:
		if !c.numeric {
			return true
		}
	}
	return strings.ContainsAny(c.text, ",\"\r\n")
}
