// internal/config/config.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type XLSXOutput struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Sheet   string `yaml:"sheet"`
}

type SQLiteOutput struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	// RetentionDays prunes older runs after each write; 0 keeps everything.
	RetentionDays int `yaml:"retention_days"`
}

type SheetsOutput struct {
	Enabled           bool     `yaml:"enabled"`
	Title             string   `yaml:"title"`
	Worksheet         string   `yaml:"worksheet"`
	ShareWith         []string `yaml:"share_with"`
	CredentialsFile   string   `yaml:"credentials_file"`
	KeyringAccount    string   `yaml:"keyring_account"`
	RequestsPerSecond float64  `yaml:"requests_per_second"`
}

type Config struct {
	Input struct {
		HTML struct {
			CardSelector string `yaml:"card_selector"`
		} `yaml:"html"`
	} `yaml:"input"`

	Outputs struct {
		XLSX   XLSXOutput   `yaml:"xlsx"`
		SQLite SQLiteOutput `yaml:"sqlite"`
		Sheets SheetsOutput `yaml:"sheets"`
	} `yaml:"outputs"`
}

func Default() Config {
	var cfg Config
	cfg.Input.HTML.CardSelector = "article"
	cfg.Outputs.XLSX.Sheet = "jobs"
	cfg.Outputs.Sheets.Worksheet = "Sheet1"
	cfg.Outputs.Sheets.RequestsPerSecond = 1
	return cfg
}

// Load reads path over Default. An empty path returns Default unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
