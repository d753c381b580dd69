// Package aidlgen generates Java binder and parcelable sources from a
// type-checked IDL document.
//
// The front end hands over a JSON document of definitions (see package ir).
// Generation resolves every referenced type, drives the Java marshalling
// bridge (package java) once per field and argument, and writes one file
// per interface, parcelable, union and enum through an output sink.
package aidlgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.uber.org/multierr"

	"github.com/broady/aidlgen/ir"
	"github.com/broady/aidlgen/java"
	"github.com/broady/aidlgen/javagen"
	"github.com/broady/aidlgen/sink"
)

// Result describes a generation run.
type Result struct {
	javagen.GenerateResult

	// Content holds generated files by path. It is only set by Generate.
	Content map[string][]byte
}

// ToDir generates files into dir.
// This is a terminal operation that writes files to disk. Registry
// validation problems are reported with the generation diagnostics.
func (g *Generator) ToDir(ctx context.Context, dir string) (*Result, error) {
	if dir == "" {
		return nil, fmt.Errorf("OutDir is required")
	}
	g.cfg.OutDir = dir
	out := &sink.FilesystemSink{Root: dir, Mode: 0o644, Overwrite: !g.cfg.KeepExisting}
	return g.run(ctx, out)
}

// Generate returns generated files in memory without writing to disk.
// Use ToDir() to write files to disk instead.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	mem := sink.NewMemorySink()
	res, err := g.run(ctx, mem)
	if res != nil {
		res.Content = make(map[string][]byte)
		for _, p := range mem.Paths() {
			res.Content[p] = mem.Get(p)
		}
	}
	return res, err
}

// Check validates the document and runs generation without producing
// output. It reports every problem generation would hit.
func (g *Generator) Check(ctx context.Context) (*Result, error) {
	return g.run(ctx, &sink.DiscardSink{})
}

func (g *Generator) run(ctx context.Context, out sink.OutputSink) (*Result, error) {
	cfg := applyConfigDefaults(&g.cfg)
	logger := cfg.Logger

	doc, err := g.load()
	if err != nil {
		logErrors(logger, err)
		return nil, fmt.Errorf("load document: %w", err)
	}
	types, err := doc.Typenames()
	if err != nil {
		logErrors(logger, err)
		return nil, fmt.Errorf("build registry: %w", err)
	}

	errs := multierr.Combine(types.Validate()...)
	gen, err := javagen.Generate(ctx, types, javagen.GenerateOptions{Sink: out, Options: cfg.Options})
	errs = multierr.Append(errs, err)

	res := &Result{}
	if gen != nil {
		res.GenerateResult = *gen
		for _, f := range gen.Files {
			logger.Debug("generated file",
				slog.String("file", f.Path),
				slog.String("type", f.Type),
				slog.Int64("size", f.Size))
		}
	}
	logErrors(logger, errs)
	return res, errs
}

// logErrors writes one Warn record per error in err.
func logErrors(logger *slog.Logger, err error) {
	for _, e := range multierr.Errors(err) {
		var d *java.Diagnostic
		var ve *ir.ValidationError
		switch {
		case errors.As(e, &d):
			logger.Warn(d.Message,
				slog.String("file", d.Filename),
				slog.String("type", d.Type),
				slog.String("code", string(d.Code)),
				slog.String("op", d.Op))
		case errors.As(e, &ve):
			logger.Warn(ve.Message,
				slog.String("source", ve.Source.String()),
				slog.String("code", ve.Code))
		default:
			logger.Warn("generation failed", slog.Any("error", e))
		}
	}
}
