package aidlgen

import (
	"io"
	"log/slog"
	"os"

	"github.com/broady/aidlgen/ir"
	"github.com/broady/aidlgen/javagen"
)

// Config holds the configuration for code generation.
type Config struct {
	// OutDir is the directory where generated files will be written.
	// e.g. "./gen/java"
	OutDir string

	// Options control the shape of generated Java files.
	Options javagen.Options

	// KeepExisting makes ToDir fail on files that already exist instead of
	// replacing them.
	KeepExisting bool

	// Logger receives per-file progress at Debug and one Warn record per
	// diagnostic. Default: slog.Default().
	Logger *slog.Logger
}

func applyConfigDefaults(cfg *Config) *Config {
	// Make a copy to avoid mutating the input
	result := *cfg

	if result.Logger == nil {
		result.Logger = slog.Default()
	}
	return &result
}

// Generator provides a fluent API for code generation.
// Create with FromFile, FromReader or FromDocument and configure with
// method chaining.
//
// Example:
//
//	res, err := aidlgen.FromFile("types.json").
//	    WithOptions(javagen.Options{TransactionNames: true}).
//	    ToDir(ctx, "./gen/java")
type Generator struct {
	load func() (*ir.Document, error)
	cfg  Config
}

// FromFile creates a Generator that reads the JSON document at path.
func FromFile(path string) *Generator {
	return &Generator{load: func() (*ir.Document, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ir.Decode(f)
	}}
}

// FromReader creates a Generator that reads a JSON document from r. The
// reader is consumed by the first terminal operation.
func FromReader(r io.Reader) *Generator {
	return &Generator{load: func() (*ir.Document, error) {
		return ir.Decode(r)
	}}
}

// FromDocument creates a Generator for an already decoded document.
func FromDocument(doc *ir.Document) *Generator {
	return &Generator{load: func() (*ir.Document, error) {
		return doc, nil
	}}
}

// WithOptions sets the Java generator options.
func (g *Generator) WithOptions(o javagen.Options) *Generator {
	g.cfg.Options = o
	return g
}

// WithLogger sets the logger for progress and diagnostics.
func (g *Generator) WithLogger(l *slog.Logger) *Generator {
	g.cfg.Logger = l
	return g
}

// KeepExisting makes ToDir refuse to replace existing files.
func (g *Generator) KeepExisting() *Generator {
	g.cfg.KeepExisting = true
	return g
}
