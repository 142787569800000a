package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Imsharad/upwork-jobs-agent/internal/config"
	"github.com/Imsharad/upwork-jobs-agent/internal/domain"
	"github.com/Imsharad/upwork-jobs-agent/internal/secrets"
)

const spreadsheetMime = "application/vnd.google-apps.spreadsheet"

// Sheets replaces the contents of one worksheet of a spreadsheet found
// (or created) by title.
type Sheets struct {
	Cfg config.SheetsOutput
	// Options replace credential lookup when set.
	Options []option.ClientOption

	limiter        *rate.Limiter
	sheetsEndpoint string
	driveEndpoint  string
}

func NewSheets(cfg config.SheetsOutput) *Sheets {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	return &Sheets{Cfg: cfg, limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

func (s *Sheets) Name() string { return "sheets" }

// ResolveCredentials prefers the keychain entry, then the credentials file.
func ResolveCredentials(cfg config.SheetsOutput) ([]byte, error) {
	if cfg.KeyringAccount != "" {
		b, err := secrets.GetSheetsCredentials(cfg.KeyringAccount)
		if err == nil {
			return b, nil
		}
		zap.S().Named("sink").Debugf("sheets: keychain lookup for %q failed: %v", cfg.KeyringAccount, err)
	}
	if cfg.CredentialsFile != "" {
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials: %w", err)
		}
		return b, nil
	}
	return nil, errors.New("no sheets credentials in keychain or credentials_file")
}

func (s *Sheets) clientOptions() ([]option.ClientOption, error) {
	if len(s.Options) > 0 {
		return s.Options, nil
	}
	creds, err := ResolveCredentials(s.Cfg)
	if err != nil {
		return nil, err
	}
	return []option.ClientOption{
		option.WithCredentialsJSON(creds),
		option.WithScopes(sheets.SpreadsheetsScope, drive.DriveScope),
	}, nil
}

func (s *Sheets) wait(ctx context.Context) error {
	if s.limiter == nil {
		s.limiter = rate.NewLimiter(rate.Limit(1), 1)
	}
	return s.limiter.Wait(ctx)
}

func (s *Sheets) Publish(ctx context.Context, t domain.Table) (string, error) {
	log := zap.S().Named("sink")

	opts, err := s.clientOptions()
	if err != nil {
		return "", err
	}
	sheetsOpts, driveOpts := opts, opts
	if s.sheetsEndpoint != "" {
		sheetsOpts = append(append([]option.ClientOption{}, opts...), option.WithEndpoint(s.sheetsEndpoint))
	}
	if s.driveEndpoint != "" {
		driveOpts = append(append([]option.ClientOption{}, opts...), option.WithEndpoint(s.driveEndpoint))
	}

	ssvc, err := sheets.NewService(ctx, sheetsOpts...)
	if err != nil {
		return "", fmt.Errorf("sheets client: %w", err)
	}
	dsvc, err := drive.NewService(ctx, driveOpts...)
	if err != nil {
		return "", fmt.Errorf("drive client: %w", err)
	}

	id, created, err := s.findOrCreate(ctx, ssvc, dsvc)
	if err != nil {
		return "", err
	}
	log.Debugf("sheets: spreadsheet %s (created=%v)", id, created)

	if err := s.ensureWorksheet(ctx, ssvc, id); err != nil {
		return "", err
	}

	rng := quoteSheet(s.Cfg.Worksheet)
	if err := s.wait(ctx); err != nil {
		return "", err
	}
	if _, err := ssvc.Spreadsheets.Values.Clear(id, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear %s: %w", rng, err)
	}

	if err := s.wait(ctx); err != nil {
		return "", err
	}
	vr := &sheets.ValueRange{Values: tableValues(t)}
	if _, err := ssvc.Spreadsheets.Values.Update(id, rng+"!A1", vr).ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("write %s: %w", rng, err)
	}

	for _, who := range s.Cfg.ShareWith {
		if err := s.wait(ctx); err != nil {
			return "", err
		}
		perm := &drive.Permission{Type: "user", Role: "writer", EmailAddress: who}
		if _, err := dsvc.Permissions.Create(id, perm).SendNotificationEmail(false).Context(ctx).Do(); err != nil {
			return "", fmt.Errorf("share with %s: %w", who, err)
		}
	}

	return spreadsheetURL(id), nil
}

func (s *Sheets) findOrCreate(ctx context.Context, ssvc *sheets.Service, dsvc *drive.Service) (id string, created bool, err error) {
	if err := s.wait(ctx); err != nil {
		return "", false, err
	}
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escapeQuery(s.Cfg.Title), spreadsheetMime)
	list, err := dsvc.Files.List().Q(q).Fields("files(id, name)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", false, fmt.Errorf("find spreadsheet %q: %w", s.Cfg.Title, err)
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, false, nil
	}

	if err := s.wait(ctx); err != nil {
		return "", false, err
	}
	ss, err := ssvc.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: s.Cfg.Title},
	}).Context(ctx).Do()
	if err != nil {
		return "", false, fmt.Errorf("create spreadsheet %q: %w", s.Cfg.Title, err)
	}
	return ss.SpreadsheetId, true, nil
}

func (s *Sheets) ensureWorksheet(ctx context.Context, ssvc *sheets.Service, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	ss, err := ssvc.Spreadsheets.Get(id).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet %s: %w", id, err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == s.Cfg.Worksheet {
			return nil
		}
	}

	if err := s.wait(ctx); err != nil {
		return err
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: s.Cfg.Worksheet}},
		}},
	}
	if _, err := ssvc.Spreadsheets.BatchUpdate(id, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add worksheet %q: %w", s.Cfg.Worksheet, err)
	}
	return nil
}

func tableValues(t domain.Table) [][]any {
	out := make([][]any, 0, len(t.Rows)+1)
	out = append(out, headerValues(t.Columns))
	for _, r := range t.Rows {
		out = append(out, rowValues(r, t.Columns))
	}
	return out
}

// escapeQuery escapes a Drive query string literal.
func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

// quoteSheet quotes a worksheet name for A1 notation.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func spreadsheetURL(id string) string {
	return "https://docs.google.com/spreadsheets/d/" + id
}
