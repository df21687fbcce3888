package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/mrlokans/shelf/internal/analysis"
	"github.com/mrlokans/shelf/internal/calibre"
	"github.com/mrlokans/shelf/internal/config"
	"github.com/mrlokans/shelf/internal/export"
	"github.com/mrlokans/shelf/internal/logging"
)

// ExportCommand writes books.json for a whole library
type ExportCommand struct {
	LibraryPath   string
	OutputPath    string
	RemoteBaseURL string
	NoImages      bool
	Verbose       bool

	out io.Writer
}

// NewExportCommand creates the command with defaults taken from cfg.
func NewExportCommand(cfg *config.Config) *ExportCommand {
	return &ExportCommand{
		LibraryPath:   cfg.Library.Path,
		OutputPath:    cfg.Export.Output,
		RemoteBaseURL: cfg.Export.RemoteBaseURL,
		NoImages:      !cfg.Analysis.ImageEnabled,
		out:           os.Stdout,
	}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("export", pflag.ContinueOnError)

	fs.StringVarP(&cmd.LibraryPath, "library", "l", cmd.LibraryPath, "Path to the Calibre library directory (or LIBRARY_PATH)")
	fs.StringVarP(&cmd.OutputPath, "output", "o", cmd.OutputPath, "Path of the books.json file to write")
	fs.StringVar(&cmd.RemoteBaseURL, "base-url", cmd.RemoteBaseURL, "Base URL of the placeholder cover and book links")
	fs.BoolVar(&cmd.NoImages, "no-images", cmd.NoImages, "Skip cover image analysis and use default colors")
	fs.BoolVarP(&cmd.Verbose, "verbose", "v", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export [library] [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Snapshot every book of a Calibre library to a static JSON file for web deployment.\n")
		fmt.Fprintf(os.Stderr, "A copy named <output>.template is written next to it for a later upload step.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s export ~/Calibre\\ Library\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export -l /srv/calibre -o site/public/books.json --no-images\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() > 0 {
		cmd.LibraryPath = fs.Arg(0)
	}
	if cmd.LibraryPath == "" {
		return fmt.Errorf("library path not provided: pass it as an argument, with -l/--library or via LIBRARY_PATH")
	}
	return nil
}

func (cmd *ExportCommand) Run() error {
	return cmd.RunContext(context.Background())
}

func (cmd *ExportCommand) RunContext(ctx context.Context) error {
	if cmd.Verbose {
		logging.Setup(os.Stderr, slog.LevelDebug)
	}

	fmt.Fprintln(cmd.out, "Generating book metadata for web deployment")
	fmt.Fprintln(cmd.out, "===========================================")

	lib, err := calibre.Connect(cmd.LibraryPath, calibre.WithAnalyzer(analysis.Select(!cmd.NoImages, nil)))
	if err != nil {
		return fmt.Errorf("failed to connect to library: %w", err)
	}
	defer lib.Close()

	count, err := lib.Count()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.out, "Library: %s (%d books)\n", lib.Root(), count)

	exporter := export.NewExporter(lib, export.Options{
		Output:        cmd.OutputPath,
		RemoteBaseURL: cmd.RemoteBaseURL,
		Progress:      true,
	}, nil)

	result, err := exporter.Run(ctx)
	if err != nil {
		return err
	}

	output, _ := filepath.Abs(result.OutputFile)
	fmt.Fprintln(cmd.out)
	fmt.Fprintln(cmd.out, "=== Summary ===")
	fmt.Fprintf(cmd.out, "Books processed: %d\n", result.Processed)
	if result.Skipped > 0 {
		fmt.Fprintf(cmd.out, "Books skipped: %d\n", result.Skipped)
	}
	fmt.Fprintf(cmd.out, "Output file: %s\n", output)
	fmt.Fprintf(cmd.out, "Template file: %s\n", result.TemplateFile)
	fmt.Fprintf(cmd.out, "File size: %s\n", humanize.Bytes(uint64(result.Bytes)))
	fmt.Fprintf(cmd.out, "Took: %s\n", result.Duration.Round(time.Millisecond))
	return nil
}
