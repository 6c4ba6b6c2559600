// Package loader parses RDF/XML documents concurrently and writes their
// triples to the store in batches.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/aleksaelezovic/rdfxml/internal/config"
	"github.com/aleksaelezovic/rdfxml/internal/metrics"
	"github.com/aleksaelezovic/rdfxml/internal/rdfio"
	"github.com/aleksaelezovic/rdfxml/internal/storage"
	"github.com/aleksaelezovic/rdfxml/pkg/rdf"
	"github.com/aleksaelezovic/rdfxml/pkg/rdfxml"
)

// Result reports the outcome of one document
type Result struct {
	Path   string
	Parsed int   // triples produced by the parser
	Stored int   // triples not already in the store
	Err    error // parse error; triples before it are stored
}

// Loader feeds documents into a store
type Loader struct {
	store   *storage.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
	cfg     config.Config
}

// New creates a loader. m may be nil to disable metrics.
func New(store *storage.Store, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		store:   store,
		metrics: m,
		logger:  logger,
		cfg:     *cfg,
	}
}

// LoadFiles loads every path with at most Loader.Workers documents in
// flight. A parse error ends only its own document and is reported in its
// Result and in the joined error; store failures and cancellation stop
// the whole run.
func (l *Loader) LoadFiles(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.cfg.Loader.Workers)

	for i, path := range paths {
		g.Go(func() error {
			res, err := l.loadFile(gctx, path)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Path, res.Err))
		}
	}
	return results, errors.Join(errs...)
}

// kindUnsupported labels documents no parser accepts
const kindUnsupported = "UnsupportedFormat"

func (l *Loader) loadFile(ctx context.Context, path string) (Result, error) {
	contentType, err := rdfio.ContentTypeForFile(path)
	if err != nil {
		l.metrics.DocumentStarted()
		l.metrics.DocumentFailed(kindUnsupported, 0, 0, 0)
		l.logger.Warn("skipping file", "path", path, "error", err)
		return Result{Path: path, Err: err}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Result{Path: path}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	base := l.cfg.Parser.BaseIRI
	if base == "" {
		if base, err = FileIRI(path); err != nil {
			return Result{Path: path}, err
		}
	}

	res, err := l.LoadReader(ctx, f, base, contentType)
	res.Path = path
	return res, err
}

// LoadReader parses one document of the given content type against base.
// The returned error is a store or context failure; parse errors and
// unsupported content types land in Result.Err.
func (l *Loader) LoadReader(ctx context.Context, r io.Reader, base, contentType string) (Result, error) {
	start := time.Now()
	l.metrics.DocumentStarted()

	// Blank node ids stay unique across documents sharing one store
	prefix := uuid.NewString() + "-"
	logger := l.logger.With("base", base)

	var res Result
	parser, err := rdfio.NewParser(contentType,
		rdfxml.WithBaseIRI(base),
		rdfxml.WithBlankNodePrefix(prefix),
		rdfxml.WithNodeElementTypes(l.cfg.Parser.TypedNodes),
		rdfxml.WithLogger(logger),
	)
	if err != nil {
		l.metrics.DocumentFailed(kindUnsupported, 0, 0, time.Since(start))
		res.Err = err
		return res, nil
	}

	batch := make([]*rdf.Triple, 0, l.cfg.Loader.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		added, err := l.store.AddTriples(ctx, batch)
		if err != nil {
			return fmt.Errorf("failed to store batch: %w", err)
		}
		res.Stored += added
		batch = batch[:0]
		return nil
	}

	for triple, err := range parser.Triples(r) {
		if err != nil {
			res.Err = err
			break
		}
		if err := ctx.Err(); err != nil {
			l.metrics.DocumentFailed("Canceled", res.Parsed, res.Stored, time.Since(start))
			return res, err
		}

		res.Parsed++
		batch = append(batch, triple)
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				l.metrics.DocumentFailed("Storage", res.Parsed, res.Stored, time.Since(start))
				return res, err
			}
		}
	}
	if err := flush(); err != nil {
		l.metrics.DocumentFailed("Storage", res.Parsed, res.Stored, time.Since(start))
		return res, err
	}

	if res.Err != nil {
		kind := rdfxml.KindOf(res.Err)
		l.metrics.DocumentFailed(kind.String(), res.Parsed, res.Stored, time.Since(start))
		logger.Warn("document stopped early", "kind", kind, "parsed", res.Parsed, "error", res.Err)
		return res, nil
	}

	l.metrics.DocumentLoaded(res.Parsed, res.Stored, time.Since(start))
	logger.Info("document loaded", "parsed", res.Parsed, "stored", res.Stored, "duration", time.Since(start))
	return res, nil
}

// FileIRI turns a file path into an absolute file: IRI
func FileIRI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}
