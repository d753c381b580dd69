package gen

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/broady/aidlgen"
	"github.com/broady/aidlgen/cmd/aidlgen/internal/watch"
	"github.com/broady/aidlgen/javagen"
)

type Cmd struct {
	Input        string   `arg:"" help:"JSON document of type-checked definitions." type:"existingfile"`
	Out          string   `help:"Output directory for generated files." required:"" type:"path"`
	Option       []string `help:"Generator option as key=value (header, indent, transaction_names, skip_default)." short:"o" sep:"none"`
	KeepExisting bool     `help:"Fail instead of replacing files that already exist."`
	Watch        bool     `help:"Watch the input and regenerate on change." short:"w"`
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger, out io.Writer) error {
	opts, err := javagen.ParseOptions(c.Option)
	if err != nil {
		return err
	}

	// Resolve output directory to absolute path
	outDir, err := filepath.Abs(c.Out)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	generate := func(ctx context.Context) error {
		g := aidlgen.FromFile(c.Input).WithOptions(opts).WithLogger(logger)
		if c.KeepExisting {
			g = g.KeepExisting()
		}
		res, err := g.ToDir(ctx, outDir)
		if res != nil {
			fmt.Fprintf(out, "✓ Generated %d files in %s\n", len(res.Files), outDir)
			for _, name := range res.Skipped {
				fmt.Fprintf(out, "✗ Skipped %s\n", name)
			}
		}
		if err != nil {
			// Each problem has already been logged.
			return fmt.Errorf("generation failed with %d problems", len(multierr.Errors(err)))
		}
		return nil
	}

	if !c.Watch {
		return generate(ctx)
	}
	w := &watch.Watcher{Path: c.Input, Logger: logger}
	return w.Run(ctx, generate)
}
