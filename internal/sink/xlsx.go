package sink

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/Imsharad/upwork-jobs-agent/internal/domain"
)

// XLSXFile writes the table to a single named sheet; numbers stay numeric.
type XLSXFile struct {
	Path  string
	Sheet string
}

func (x *XLSXFile) Name() string { return "xlsx" }

func (x *XLSXFile) Publish(ctx context.Context, t domain.Table) (string, error) {
	if x.Path == "" {
		return "", errors.New("xlsx path is empty")
	}
	sheet := x.Sheet
	if sheet == "" {
		sheet = "jobs"
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return "", err
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return "", err
	}

	if err := sw.SetRow("A1", headerValues(t.Columns)); err != nil {
		return "", err
	}
	for i, r := range t.Rows {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		if err := sw.SetRow(axis, rowValues(r, t.Columns)); err != nil {
			return "", err
		}
	}
	if err := sw.Flush(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(x.Path), 0o755); err != nil {
		return "", err
	}
	if err := f.SaveAs(x.Path); err != nil {
		return "", err
	}
	return x.Path, nil
}
