package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/papersect/internal/layout"
	"github.com/dgallion1/papersect/internal/parser"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type convertOptions struct {
	outDir       string
	columns      bool
	markSections bool
	parser       parser.Options
}

func convertCmd(gf *globalFlags) *cobra.Command {
	var (
		outDir       string
		markSections bool
	)

	cmd := &cobra.Command{
		Use:   "convert <file|dir>...",
		Short: "Convert PDF, DOCX, Markdown or HTML documents to plain-text lines",
		Long: `Convert renders each document as the line-oriented text papersect
segments. Directories are scanned (not recursively) for supported files.
Each input becomes <out>/<name>.txt.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, err := loadConfig(cmd, *gf)
			if err != nil {
				return err
			}
			log := newLogger(cmd.ErrOrStderr(), cfg, false)

			files, err := expandInputs(args)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating output folder: %w", err)
			}

			opts := convertOptions{
				outDir:       outDir,
				columns:      cfg.Columns,
				markSections: markSections,
				parser:       parser.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext},
			}
			failed := convertAll(files, cfg.Workers, opts, log)

			fmt.Fprintf(cmd.OutOrStdout(), "Converted %d of %d files into %s\n", len(files)-failed, len(files), outDir)
			if failed > 0 {
				return fmt.Errorf("%d files failed to convert", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output folder")
	cmd.Flags().BoolVar(&markSections, "mark-sections", false, "upper-case lines that are a bare section heading")
	return cmd
}

// expandInputs replaces every directory argument by the supported files it
// contains.
func expandInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.Type().IsRegular() && parser.IsSupportedExtension(e.Name()) {
				files = append(files, filepath.Join(arg, e.Name()))
			}
		}
	}
	return files, nil
}

func convertAll(files []string, workers int, opts convertOptions, log *slog.Logger) int {
	failures := make([]bool, len(files))
	g := new(errgroup.Group)
	g.SetLimit(max(workers, 1))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			dst, err := convertFile(path, opts)
			if err != nil {
				log.Warn("conversion failed", "file", path, "error", err)
				failures[i] = true
				return nil
			}
			log.Debug("converted", "file", path, "out", dst)
			return nil
		})
	}
	g.Wait()

	n := 0
	for _, f := range failures {
		if f {
			n++
		}
	}
	return n
}

// convertFile writes path as <outDir>/<name>.txt and returns the new path.
func convertFile(path string, opts convertOptions) (string, error) {
	p, err := parser.ForFile(path, opts.parser)
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	doc, err := p.Parse(f, path)
	f.Close()
	if err != nil {
		return "", err
	}

	lines := doc.Lines
	if opts.columns {
		lines, _, _ = layout.KeepFirstColumn(lines, layout.DefaultConfig())
	}
	if opts.markSections {
		lines = layout.MarkSections(lines)
	}
	text := layout.Tidy(strings.Join(lines, "\n")) + "\n"

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dst := filepath.Join(opts.outDir, base+".txt")
	if err := os.WriteFile(dst, []byte(text), 0o644); err != nil {
		return "", err
	}
	return dst, nil
}
