package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

func (v Validation) Error() string {
	return "config validation failed:\n- " + strings.Join(v.Errors, "\n- ")
}

// NormalizeAndValidate returns a normalized copy of cfg and what is wrong with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Input.HTML.CardSelector = strings.TrimSpace(out.Input.HTML.CardSelector)
	if out.Input.HTML.CardSelector == "" {
		out.Input.HTML.CardSelector = "article"
	}

	// xlsx
	x := &out.Outputs.XLSX
	x.Path = strings.TrimSpace(x.Path)
	x.Sheet = strings.TrimSpace(x.Sheet)
	if x.Enabled {
		if x.Path == "" {
			res.addErr("outputs.xlsx.path is required when outputs.xlsx.enabled=true")
		} else if ext := strings.ToLower(filepath.Ext(x.Path)); ext != ".xlsx" {
			res.addWarn("outputs.xlsx.path %q does not end in .xlsx", x.Path)
		}
		if x.Sheet == "" {
			x.Sheet = "jobs"
		}
		if len(x.Sheet) > 31 {
			res.addErr("outputs.xlsx.sheet must be at most 31 characters")
		}
	}

	// sqlite
	s := &out.Outputs.SQLite
	s.Path = strings.TrimSpace(s.Path)
	if s.Enabled && s.Path == "" {
		res.addErr("outputs.sqlite.path is required when outputs.sqlite.enabled=true")
	}
	if s.RetentionDays < 0 {
		res.addErr("outputs.sqlite.retention_days must be >= 0")
	}

	// sheets
	g := &out.Outputs.Sheets
	g.Title = strings.TrimSpace(g.Title)
	g.Worksheet = strings.TrimSpace(g.Worksheet)
	g.CredentialsFile = strings.TrimSpace(g.CredentialsFile)
	g.KeyringAccount = strings.TrimSpace(g.KeyringAccount)
	g.ShareWith = trimList(g.ShareWith)
	if g.Worksheet == "" {
		g.Worksheet = "Sheet1"
	}
	if g.Enabled {
		if g.Title == "" {
			res.addErr("outputs.sheets.title is required when outputs.sheets.enabled=true")
		}
		if g.CredentialsFile == "" && g.KeyringAccount == "" {
			res.addErr("outputs.sheets needs credentials_file or keyring_account")
		}
		if g.RequestsPerSecond <= 0 {
			res.addErr("outputs.sheets.requests_per_second must be > 0")
		} else if g.RequestsPerSecond > 5 {
			res.addWarn("outputs.sheets.requests_per_second is high (%v) and may hit API quotas.", g.RequestsPerSecond)
		}
		for _, who := range g.ShareWith {
			if !strings.Contains(who, "@") {
				res.addErr("outputs.sheets.share_with entry %q is not an email address", who)
			}
		}
	}

	// two sinks must not write the same file
	if x.Enabled && s.Enabled && x.Path != "" && filepath.Clean(x.Path) == filepath.Clean(s.Path) {
		res.addErr("outputs.xlsx.path and outputs.sqlite.path point to the same file: %q", x.Path)
	}

	if !x.Enabled && !s.Enabled && !g.Enabled {
		res.addWarn("no secondary outputs enabled; only the CSV file will be written.")
	}

	return out, res
}
