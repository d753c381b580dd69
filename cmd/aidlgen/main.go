package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/broady/aidlgen/cmd/aidlgen/internal/check"
	"github.com/broady/aidlgen/cmd/aidlgen/internal/gen"
)

type CLI struct {
	Verbose bool `help:"Log every generated file." short:"v"`

	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     gen.Cmd    `cmd:"" help:"Generate Java sources from a type-checked document."`
	Check   check.Cmd  `cmd:"" help:"Report every problem generation would hit, without writing files."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run(out io.Writer) error {
	_, err := fmt.Fprintln(out, Version())
	return err
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("aidlgen"),
		kong.Description("Generate Java binder and parcelable sources from AIDL definitions."),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.BindTo(os.Stdout, (*io.Writer)(nil))
	kctx.Bind(newLogger(os.Stderr, cli.Verbose))
	err := kctx.Run()
	kctx.FatalIfErrorf(err)
}
