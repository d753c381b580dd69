package check

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.uber.org/multierr"

	"github.com/broady/aidlgen"
	"github.com/broady/aidlgen/javagen"
)

type Cmd struct {
	Input  string   `arg:"" help:"JSON document of type-checked definitions." type:"existingfile"`
	Option []string `help:"Generator option as key=value." short:"o" sep:"none"`
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger, out io.Writer) error {
	opts, err := javagen.ParseOptions(c.Option)
	if err != nil {
		return err
	}

	// Problems are printed below; the logger only carries them in verbose mode.
	genLogger := slog.New(slog.DiscardHandler)
	if logger.Enabled(ctx, slog.LevelDebug) {
		genLogger = logger
	}
	res, err := aidlgen.FromFile(c.Input).
		WithOptions(opts).
		WithLogger(genLogger).
		Check(ctx)
	if err != nil {
		errs := multierr.Errors(err)
		for _, e := range errs {
			fmt.Fprintf(out, "✗ %v\n", e)
		}
		return fmt.Errorf("check failed: %d problems", len(errs))
	}

	fmt.Fprintf(out, "✓ %d definitions generate cleanly\n", res.TypesGenerated)
	return nil
}
