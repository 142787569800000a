package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/Imsharad/upwork-jobs-agent/internal/config"
	"github.com/Imsharad/upwork-jobs-agent/internal/load"
	"github.com/Imsharad/upwork-jobs-agent/internal/logging"
	"github.com/Imsharad/upwork-jobs-agent/internal/pipeline"
	"github.com/Imsharad/upwork-jobs-agent/internal/secrets"
	"github.com/Imsharad/upwork-jobs-agent/internal/sink"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

type options struct {
	Input   string `short:"i" long:"input" env:"JOBS_INPUT" description:"Scraped job listings (TSV or saved HTML page)"`
	Output  string `short:"o" long:"output" env:"JOBS_OUTPUT" description:"Ranked CSV to write"`
	Config  string `short:"c" long:"config" env:"JOBS_CONFIG" description:"YAML file configuring secondary outputs"`
	Format  string `long:"format" choice:"tsv" choice:"html" description:"Input format (default: from the input extension)"`
	Quoting string `long:"quoting" default:"nonnumeric" choice:"nonnumeric" choice:"all" choice:"minimal" description:"CSV quoting policy"`
	Debug   bool   `long:"debug" env:"JOBS_DEBUG" description:"Enable debug logging"`

	InitConfig       bool   `long:"init-config" description:"Write a default config to --config if none exists, then exit"`
	StoreCredentials string `long:"store-credentials" value-name:"FILE" description:"Store a service account JSON key in the OS keychain for outputs.sheets.keyring_account, then exit"`
}

func run(ctx context.Context, args []string) int {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return exitOK
		}
		return exitUsage
	}

	_, flush := logging.Init(opts.Debug)
	defer flush()
	log := zap.S().Named("main")

	if opts.InitConfig {
		return initConfig(opts.Config)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		log.Errorf("load config: %v", err)
		return exitUsage
	}
	cfg, res := config.NormalizeAndValidate(cfg)
	for _, w := range res.Warnings {
		log.Warn(w)
	}
	if !res.OK() {
		log.Error(res.Error())
		return exitUsage
	}

	if opts.StoreCredentials != "" {
		return storeCredentials(cfg, opts.StoreCredentials)
	}

	if strings.TrimSpace(opts.Input) == "" || strings.TrimSpace(opts.Output) == "" {
		log.Error("--input and --output are required")
		return exitUsage
	}
	quoting, err := sink.ParseQuoting(opts.Quoting)
	if err != nil {
		log.Error(err)
		return exitUsage
	}

	raw, err := load.File(opts.Input, opts.Format, cfg.Input.HTML.CardSelector)
	if err != nil {
		log.Errorf("%v", err)
		return exitFailed
	}

	table, stats, err := pipeline.Run(raw, config.DefaultSchema())
	if err != nil {
		log.Errorf("%v", err)
		return exitFailed
	}
	log.Infow("pipeline done", "loaded", stats.Loaded, "kept", stats.Kept, "dropped", stats.Dropped)

	primary := &sink.CSVFile{Path: opts.Output, Quoting: quoting}
	if _, err := sink.Publish(ctx, primary, table); err != nil {
		return exitFailed
	}

	secondary := sink.Secondary(cfg, opts.Input)
	if len(secondary) > 0 {
		results := sink.PublishAll(ctx, table, secondary...)
		if n := sink.Failed(results); n > 0 {
			log.Warnf("%d of %d secondary outputs failed", n, len(results))
		}
	}

	return exitOK
}

func initConfig(path string) int {
	log := zap.S().Named("main")
	if path == "" {
		log.Error("--init-config needs --config")
		return exitUsage
	}
	created, err := config.EnsureConfig(path)
	if err != nil {
		log.Errorf("write config: %v", err)
		return exitFailed
	}
	if created {
		log.Infof("wrote default config to %s", path)
	} else {
		log.Infof("config %s already exists; left unchanged", path)
	}
	return exitOK
}

func storeCredentials(cfg config.Config, file string) int {
	log := zap.S().Named("main")
	account := cfg.Outputs.Sheets.KeyringAccount
	if account == "" {
		log.Error("outputs.sheets.keyring_account is not set")
		return exitUsage
	}
	b, err := os.ReadFile(file)
	if err != nil {
		log.Errorf("read credentials: %v", err)
		return exitUsage
	}
	if err := secrets.SetSheetsCredentials(account, b); err != nil {
		log.Errorf("store credentials: %v", err)
		return exitFailed
	}
	fmt.Fprintf(os.Stdout, "stored sheets credentials for %q\n", account)
	return exitOK
}
