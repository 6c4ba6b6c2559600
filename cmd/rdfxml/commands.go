package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/aleksaelezovic/rdfxml/internal/config"
	"github.com/aleksaelezovic/rdfxml/internal/loader"
	"github.com/aleksaelezovic/rdfxml/internal/metrics"
	"github.com/aleksaelezovic/rdfxml/internal/rdfio"
	"github.com/aleksaelezovic/rdfxml/internal/storage"
	"github.com/aleksaelezovic/rdfxml/pkg/rdf"
	"github.com/aleksaelezovic/rdfxml/pkg/rdfxml"
)

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func runParse(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	base := fs.String("base", "", "base IRI (default: the file's file: IRI)")
	contentType := fs.String("type", "", "content type (default: from the file extension, RDF/XML for stdin)")
	typed := fs.Bool("typed", false, "emit rdf:type for typed node elements")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("expected exactly one file (or - for stdin)")
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}

	name := fs.Arg(0)
	if *contentType == "" {
		*contentType = "application/rdf+xml"
		if name != "-" {
			ct, err := rdfio.ContentTypeForFile(name)
			if err != nil {
				return err
			}
			*contentType = ct
		}
	}

	in := stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f

		if *base == "" {
			if *base, err = loader.FileIRI(name); err != nil {
				return err
			}
		}
	}

	parser, err := rdfio.NewParser(*contentType,
		rdfxml.WithBaseIRI(*base),
		rdfxml.WithNodeElementTypes(*typed),
		rdfxml.WithLogger(newLogger(stderr, level)),
	)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(stdout)
	for triple, err := range parser.Triples(in) {
		if err != nil {
			// Triples before the error are valid output
			_ = out.Flush()
			return err
		}
		if _, err := fmt.Fprintln(out, rdf.FormatTriple(triple)); err != nil {
			return err
		}
	}
	return out.Flush()
}

// setup parses the common -config flag next to the flags extra registers,
// then opens the store
func setup(name string, args []string, stderr io.Writer, extra func(*flag.FlagSet)) (*config.Config, *storage.Store, *slog.Logger, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML config file")
	if extra != nil {
		extra(fs)
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, nil, nil, err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	level, _ := cfg.SlogLevel() // checked by Validate
	logger := newLogger(stderr, level)

	store, err := storage.Open(cfg.Store.Path, logger)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return cfg, store, logger, fs.Args(), nil
}

func runLoad(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var metricsPath string
	cfg, store, logger, files, err := setup("load", args, stderr, func(fs *flag.FlagSet) {
		fs.StringVar(&metricsPath, "metrics", "", "write loader metrics in Prometheus text format to this file (- for stdout)")
	})
	if err != nil {
		return err
	}
	defer store.Close()

	if len(files) == 0 {
		return errors.New("no files given")
	}

	reg := prometheus.NewRegistry()
	m, err := metrics.NewMetrics(reg)
	if err != nil {
		return err
	}

	results, loadErr := loader.New(store, cfg, m, logger).LoadFiles(ctx, files)
	for _, res := range results {
		status := "ok"
		if res.Err != nil {
			status = "error: " + res.Err.Error()
		}
		fmt.Fprintf(stdout, "%s: %d parsed, %d stored (%s)\n", res.Path, res.Parsed, res.Stored, status)
	}

	if metricsPath != "" {
		if err := writeMetrics(reg, metricsPath, stdout); err != nil {
			return errors.Join(loadErr, err)
		}
	}
	return loadErr
}

// writeMetrics dumps everything gathered from reg to path
func writeMetrics(reg prometheus.Gatherer, path string, stdout io.Writer) (err error) {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	w := stdout
	if path != "-" {
		var f *os.File
		if f, err = os.Create(path); err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

func runCount(args []string, stdout, stderr io.Writer) error {
	_, store, _, _, err := setup("count", args, stderr, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := store.Count()
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, count)
	return nil
}

func runDump(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var s, p, o string
	_, store, _, _, err := setup("dump", args, stderr, func(fs *flag.FlagSet) {
		fs.StringVar(&s, "s", "", "only triples with this subject (<iri> or _:label)")
		fs.StringVar(&p, "p", "", "only triples with this predicate (<iri>)")
		fs.StringVar(&o, "o", "", `only triples with this object (<iri>, _:label or "literal")`)
	})
	if err != nil {
		return err
	}
	defer store.Close()

	var pattern storage.Pattern
	if pattern.Subject, err = parseTerm(s, false); err != nil {
		return fmt.Errorf("-s: %w", err)
	}
	if pattern.Predicate, err = parseTerm(p, false); err != nil {
		return fmt.Errorf("-p: %w", err)
	}
	if pattern.Object, err = parseTerm(o, true); err != nil {
		return fmt.Errorf("-o: %w", err)
	}

	out := bufio.NewWriter(stdout)
	for t, err := range store.Match(ctx, pattern) {
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, rdf.FormatTriple(t)); err != nil {
			return err
		}
	}
	return out.Flush()
}

// parseTerm reads a pattern term in N-Triples notation. Literal values
// are taken verbatim, without unescaping. An empty string matches anything.
func parseTerm(v string, literal bool) (rdf.Term, error) {
	switch {
	case v == "":
		return nil, nil
	case strings.HasPrefix(v, "_:") && len(v) > 2:
		return rdf.NewBlankNode(v[2:]), nil
	case strings.HasPrefix(v, "<") && strings.HasSuffix(v, ">") && len(v) > 2:
		return rdf.NewNamedNode(v[1 : len(v)-1]), nil
	case literal && strings.HasPrefix(v, `"`):
		end := strings.LastIndex(v, `"`)
		if end == 0 {
			return nil, fmt.Errorf("unterminated literal %s", v)
		}
		value, rest := v[1:end], v[end+1:]
		switch {
		case rest == "":
			return rdf.NewLiteral(value), nil
		case strings.HasPrefix(rest, "@") && len(rest) > 1:
			return rdf.NewLiteralWithLanguage(value, rest[1:]), nil
		case strings.HasPrefix(rest, "^^<") && strings.HasSuffix(rest, ">"):
			return rdf.NewLiteralWithDatatype(value, rdf.NewNamedNode(rest[3:len(rest)-1])), nil
		}
		return nil, fmt.Errorf("malformed literal %s", v)
	}
	return nil, fmt.Errorf("malformed term %s", v)
}
