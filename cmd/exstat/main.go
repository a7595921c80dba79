// Package main provides the CLI entry point for exstat-go.
package main

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ukaji3/exstat-go/pkg/exstat"
	"github.com/ukaji3/exstat-go/pkg/exstat/config"
	"github.com/ukaji3/exstat-go/pkg/exstat/lexicon"
	"github.com/ukaji3/exstat-go/pkg/exstat/output"
	"github.com/ukaji3/exstat-go/pkg/exstat/reader"
)

type flags struct {
	configPath string
	outDir     string
	pretty     bool
	domain     string
	year       int
	sqlitePath string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "exstat [files or directories...]",
		Short: "Extract statistics records from government spreadsheets",
		Long: `exstat-go reads fiscal settlement cards, migration tables and vital
statistics tables (.xlsx, .xlsm, .csv) and writes one JSON array of records
per input file.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, f)
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVarP(&f.outDir, "out-dir", "o", "", "Output directory (default from config: data)")
	cmd.Flags().BoolVar(&f.pretty, "pretty", true, "Pretty-print JSON output")
	cmd.Flags().StringVar(&f.domain, "domain", "", "Domain: settlement, migration, population (default: detect from file name)")
	cmd.Flags().IntVar(&f.year, "year", 0, "Fiscal year (default: FYyyyy in file name)")
	cmd.Flags().StringVar(&f.sqlitePath, "sqlite", "", "Also store records in this SQLite database")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	return cmd
}

func run(cmd *cobra.Command, args []string, f flags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg, f)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	log := config.NewLogger(cfg.Logging, cmd.ErrOrStderr()).With(slog.String("run_id", uuid.NewString()))

	opts := cfg.Options()
	opts.Logger = log
	opts.FiscalYear = f.year
	if f.domain != "" {
		d := lexicon.Domain(f.domain)
		if _, ok := lexicon.For(d); !ok {
			return fmt.Errorf("%w: %q", exstat.ErrUnknownDomain, f.domain)
		}
		opts.Domain = d
	}

	files, err := collectInputs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no supported input files in %s", strings.Join(args, ", "))
	}

	var store *output.Store
	if cfg.Output.SQLitePath != "" {
		store, err = output.OpenStore(cfg.Output.SQLitePath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	b := batch{cfg: cfg, opts: opts, store: store, log: log, out: cmd.OutOrStdout()}
	for _, path := range files {
		b.process(path)
	}

	log.Info("Batch finished",
		slog.Int("files", len(files)),
		slog.Int("failed", b.failed),
		slog.Int("empty", b.empty),
		slog.Int("records", b.records))

	if b.failed > 0 {
		return fmt.Errorf("%d of %d files failed", b.failed, len(files))
	}
	return nil
}

// applyFlags overrides config values with flags the user set explicitly.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f flags) {
	if cmd.Flags().Changed("out-dir") {
		cfg.Output.Dir = f.outDir
	}
	if cmd.Flags().Changed("pretty") {
		cfg.Output.Pretty = f.pretty
	}
	if cmd.Flags().Changed("sqlite") {
		cfg.Output.SQLitePath = f.sqlitePath
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
}

type batch struct {
	cfg   *config.Config
	opts  exstat.Options
	store *output.Store
	log   *slog.Logger
	out   io.Writer

	failed  int
	empty   int
	records int
}

// process extracts one file. Failures are logged and counted so the rest
// of the batch still runs. Files without records are reported but not
// written.
func (b *batch) process(path string) {
	log := b.log.With(slog.String("file", path))

	res, err := exstat.Extract(path, b.opts)
	if err != nil {
		b.failed++
		log.Error("Failed to read file", slog.String("error", err.Error()))
		return
	}

	for _, s := range res.Sheets {
		if s.Err != nil {
			log.Warn("Sheet failed", slog.String("sheet", s.Name), slog.String("error", s.Err.Error()))
		}
	}

	if len(res.Records) == 0 {
		b.empty++
		log.Warn("No records extracted", slog.String("domain", string(res.Domain)))
		fmt.Fprintf(b.out, "%s: 0 records (%s, FY%d), nothing written\n",
			res.Source, res.Domain, res.FiscalYear)
		return
	}

	stem := strings.TrimSuffix(res.Source, filepath.Ext(res.Source))
	outPath, err := output.WriteJSONFile(b.cfg.Output.Dir, stem, res.Records, b.cfg.Output.Pretty)
	if err != nil {
		b.failed++
		log.Error("Failed to write output", slog.String("error", err.Error()))
		return
	}

	if b.store != nil {
		inserted, err := b.store.Save(string(res.Domain), res.Records)
		if err != nil {
			log.Error("Failed to store records", slog.String("error", err.Error()))
		} else {
			log.Debug("Records stored", slog.Int("inserted", inserted))
		}
	}

	b.records += len(res.Records)
	fmt.Fprintf(b.out, "%s: %d records (%s, FY%d) -> %s\n",
		res.Source, len(res.Records), res.Domain, res.FiscalYear, outPath)
}

// collectInputs expands directories into the supported files they contain.
// Explicit file arguments are kept as given so open errors are reported.
func collectInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			files = append(files, arg)
			continue
		}
		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && reader.Supported(path) && !strings.HasPrefix(d.Name(), "~$") {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", arg, err)
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}
