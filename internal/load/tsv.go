package load

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/Imsharad/upwork-jobs-agent/internal/domain"
)

// TSV reads a tab separated export with a header row.
// Empty cells are left out of the record, so they read as null.
func TSV(path string) (domain.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.RawTable{}, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	t, err := ReadTSV(f)
	if err != nil {
		return domain.RawTable{}, &LoadError{Path: path, Err: err}
	}
	zap.S().Named("load").Infof("read %d rows, %d columns from %s", len(t.Records), len(t.Columns), path)
	return t, nil
}

// ReadTSV parses r. A UTF-8 byte order mark is dropped.
func ReadTSV(r io.Reader) (domain.RawTable, error) {
	sc := newTSVScanner(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))

	header, err := sc.next()
	if errors.Is(err, io.EOF) {
		return domain.RawTable{}, errors.New("empty file")
	}
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read header: %w", err)
	}
	if len(header) == 1 && header[0] == "" {
		return domain.RawTable{}, errors.New("header row has no columns")
	}
	columns := dedupeColumns(header)

	var records []domain.RawRecord
	for {
		row, err := sc.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.RawTable{}, fmt.Errorf("read row %d: %w", len(records)+2, err)
		}

		rec := make(domain.RawRecord, len(columns))
		for i, col := range columns {
			if i >= len(row) || row[i] == "" {
				continue
			}
			rec[col] = row[i]
		}
		records = append(records, rec)
	}

	return domain.RawTable{Columns: columns, Records: records}, nil
}

// tsvScanner splits tab separated records. A cell that starts with '"' is
// quoted until the next lone '"' ("" is a literal quote); text after the
// closing quote is kept as is. A '"' anywhere else is an ordinary character.
// Blank lines are skipped.
type tsvScanner struct {
	r    *bufio.Reader
	line int
}

func newTSVScanner(r io.Reader) *tsvScanner {
	return &tsvScanner{r: bufio.NewReader(r), line: 1}
}

const (
	fieldStart = iota
	fieldPlain
	fieldQuoted
	fieldQuoteSeen // a '"' inside a quoted cell: closing quote or first half of ""
)

// next returns the following record, or io.EOF when input is exhausted.
func (s *tsvScanner) next() ([]string, error) {
	for {
		fields, blank, err := s.record()
		if err != nil {
			return nil, err
		}
		if !blank {
			return fields, nil
		}
	}
}

func (s *tsvScanner) record() (fields []string, blank bool, err error) {
	var b strings.Builder
	state := fieldStart
	quoted := false
	startLine := s.line
	read := false

	endField := func() {
		fields = append(fields, b.String())
		b.Reset()
		state = fieldStart
	}
	done := func() ([]string, bool, error) {
		endField()
		return fields, len(fields) == 1 && fields[0] == "" && !quoted, nil
	}

	for {
		c, _, rerr := s.r.ReadRune()
		if rerr == io.EOF {
			if state == fieldQuoted {
				return nil, false, fmt.Errorf("line %d: unterminated quoted field", startLine)
			}
			if !read {
				return nil, false, io.EOF
			}
			return done()
		}
		if rerr != nil {
			return nil, false, rerr
		}
		read = true

		switch state {
		case fieldQuoted:
			if c == '"' {
				state = fieldQuoteSeen
				continue
			}
			if c == '\n' {
				s.line++
			}
			b.WriteRune(c)
			continue
		case fieldQuoteSeen:
			if c == '"' {
				b.WriteRune('"')
				state = fieldQuoted
				continue
			}
			state = fieldPlain
		case fieldStart:
			if c == '"' {
				state = fieldQuoted
				quoted = true
				continue
			}
			state = fieldPlain
		}

		switch c {
		case '\t':
			endField()
		case '\n':
			s.line++
			return done()
		case '\r':
			if next, _, err := s.r.ReadRune(); err == nil && next != '\n' {
				_ = s.r.UnreadRune()
			}
			s.line++
			return done()
		default:
			b.WriteRune(c)
		}
	}
}

// dedupeColumns suffixes repeated header names with ".1", ".2", ...
func dedupeColumns(header []string) []string {
	used := make(map[string]bool, len(header))
	counts := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		name := h
		for used[name] {
			counts[h]++
			name = fmt.Sprintf("%s.%d", h, counts[h])
		}
		used[name] = true
		out[i] = name
	}
	return out
}
