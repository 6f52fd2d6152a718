package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ByLCY/labelgrid/barcode"
	"github.com/ByLCY/labelgrid/config"
	"github.com/ByLCY/labelgrid/layout"
	"github.com/ByLCY/labelgrid/logger"
	"github.com/ByLCY/labelgrid/renderer"
	canvasrenderer "github.com/ByLCY/labelgrid/renderer/canvas"
	"github.com/ByLCY/labelgrid/sheet"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "labelgrid: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "labelgrid",
		Short: "Render barcode labels from a spreadsheet into a PDF",
		Long: `labelgrid reads parts (code, description, price, quantity) from the first
sheet of an xlsx workbook and prints one Code 128 label per unit of quantity,
three labels per 10.6cm x 2.1cm page.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			log, closer, err := logger.New(cfg.Log)
			if err != nil {
				return err
			}
			defer closer.Close()
			defer log.Sync()

			stats, err := run(cfg, log, canvasrenderer.NewRenderer(""))
			if err != nil {
				return err
			}
			log.Info("labels generated",
				zap.String("output", cfg.Output),
				zap.Int("records", stats.Records),
				zap.Int("labels", stats.Cells),
				zap.Int("pages", stats.Pages),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "labels generated: %s\n", cfg.Output)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default ./labelgrid.{yaml,toml,json} when present)")
	flags.String("in", "", "input xlsx workbook")
	flags.String("out", "", "output PDF path")
	flags.String("sheet", "", "worksheet name (default: first sheet)")
	flags.String("debug", "", "write the layout as JSON to this path")
	flags.String("log-level", "", "debug, info, warn or error")
	return cmd
}

// typesetRenderer is a renderer that can also measure text.
type typesetRenderer interface {
	renderer.Renderer
	layout.Typesetter
}

// run chains reading, layout and rendering, and writes the PDF only once it is complete.
func run(cfg *config.Config, log *zap.Logger, r typesetRenderer) (layout.Stats, error) {
	src, err := sheet.Open(cfg.Input, sheet.Options{Sheet: cfg.Sheet, Logger: log})
	if err != nil {
		return layout.Stats{}, err
	}
	defer src.Close()

	res, stats, err := layout.Build(src, cfg.Grid(), layout.BuildOptions{
		Encoder:    barcode.Code128{Width: cfg.Barcode.Width, Height: cfg.Barcode.Height},
		Typesetter: r,
		Font:       cfg.FontResource(),
		Meta:       cfg.Meta,
		Logger:     log,
	})
	if err != nil {
		return stats, fmt.Errorf("layout failed: %w", err)
	}

	if cfg.Debug != "" {
		if err := layout.WriteDebugJSON(res, stats, cfg.Debug); err != nil {
			return stats, fmt.Errorf("write debug JSON: %w", err)
		}
	}

	pdfBytes, err := r.Render(res)
	if err != nil {
		return stats, fmt.Errorf("render PDF: %w", err)
	}
	if err := writeOutput(cfg.Output, pdfBytes); err != nil {
		return stats, err
	}
	return stats, nil
}

// OutputError reports a failure to persist the PDF.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

// writeOutput writes data to a temporary file next to path and renames it
// into place, so path never holds a partial document.
func writeOutput(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	tmp, err := os.CreateTemp(dir, ".labelgrid-*.pdf")
	if err != nil {
		return &OutputError{Path: path, Err: err}
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	if err = tmp.Sync(); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	return nil
}
