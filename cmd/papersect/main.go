package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/papersect/internal/config"
	"github.com/dgallion1/papersect/internal/layout"
	"github.com/dgallion1/papersect/internal/output"
	"github.com/dgallion1/papersect/internal/parser"
	"github.com/dgallion1/papersect/internal/pipeline"
	"github.com/dgallion1/papersect/internal/rules"
	"github.com/dgallion1/papersect/internal/segment"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// globalFlags override the environment configuration when set.
type globalFlags struct {
	workers  int
	rules    string
	columns  bool
	logLevel string
}

func newRootCmd() *cobra.Command {
	var gf globalFlags

	rootCmd := &cobra.Command{
		Use:   "papersect <input_folder> <output_folder> <txt|xml>",
		Short: "Segment plain-text scientific articles into their sections",
		Long: `papersect reads every .txt file of an input folder and splits each
article into title, authors, abstract, introduction, body, conclusion,
discussion and bibliography.

Mode xml writes <output_folder>/articles.xml; mode txt writes
<output_folder>/resumes.txt.`,
		Version:       version,
		Args:          batchArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runBatch(cmd, gf, args[0], args[1], args[2])
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.IntVar(&gf.workers, "workers", 0, "documents segmented in parallel (default PAPERSECT_WORKERS or CPU count)")
	pf.StringVar(&gf.rules, "rules", "", "YAML file merged over the built-in rules")
	pf.BoolVar(&gf.columns, "columns", false, "keep only the first column of two-column text")
	pf.StringVar(&gf.logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(convertCmd(&gf))
	rootCmd.AddCommand(accuracyCmd())
	rootCmd.AddCommand(serveCmd(&gf))

	return rootCmd
}

// batchArgs rejects a wrong argument count or an unknown mode before any
// file is touched.
func batchArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(3)(cmd, args); err != nil {
		return err
	}
	_, err := output.ParseMode(args[2])
	return err
}

// loadConfig reads the environment and applies the flags the user set.
func loadConfig(cmd *cobra.Command, gf globalFlags) (config.Config, error) {
	cfg := config.Load()
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers = gf.workers
	}
	if flags.Changed("rules") {
		cfg.RulesPath = gf.rules
	}
	if flags.Changed("columns") {
		cfg.Columns = gf.columns
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = gf.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg config.Config, json bool) *slog.Logger {
	lvl, _ := cfg.Level()
	opts := &slog.HandlerOptions{Level: lvl}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func pipelineOptions(cfg config.Config, log *slog.Logger) pipeline.Options {
	return pipeline.Options{
		Workers: cfg.Workers,
		Columns: cfg.Columns,
		Layout:  layout.DefaultConfig(),
		Parser:  parser.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext},
		Log:     log,
	}
}

func runBatch(cmd *cobra.Command, gf globalFlags, in, out, modeArg string) error {
	mode, err := output.ParseMode(modeArg)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, gf)
	if err != nil {
		return err
	}
	log := newLogger(cmd.ErrOrStderr(), cfg, false)

	rs, err := rules.Load(cfg.RulesPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("creating output folder: %w", err)
	}

	start := time.Now()
	paths, err := pipeline.Discover(in)
	if err != nil {
		return err
	}
	log.Info("segmenting", "input", in, "files", len(paths), "workers", cfg.Workers)

	seg := segment.New(rs, log)
	batch := pipeline.Run(cmd.Context(), seg, paths, pipelineOptions(cfg, log))

	path, err := output.WriteFile(out, mode, batch.Succeeded, time.Since(start))
	if err != nil {
		return err
	}
	log.Debug("report written", "path", path)

	fmt.Fprintf(cmd.OutOrStdout(), "Extraction finished in %s mode in %d ms: %d succeeded, %d failed\n",
		mode, time.Since(start).Milliseconds(), len(batch.Succeeded), len(batch.Failed))
	return nil
}
