// Package transpile runs Python source through parsing, translation and
// output validation.
//
// Design: Pipeline is stateless apart from its options and cache, so one
// instance serves every caller. Each stage gets its own span; failures
// inside the Python program are diagnostics, failures of the run are errors.
package transpile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/valdisz/PyToJs/pkg/cache"
	"github.com/valdisz/PyToJs/pkg/diag"
	"github.com/valdisz/PyToJs/pkg/frontend"
	"github.com/valdisz/PyToJs/pkg/jsgen"
	"github.com/valdisz/PyToJs/pkg/jsruntime"
	"github.com/valdisz/PyToJs/pkg/logger"
	"github.com/valdisz/PyToJs/pkg/pyast"
)

var ErrTranslationFailed = errors.New("translation failed")

type Options struct {
	Translate      jsgen.Options
	ValidateOutput bool
	IncludePrelude bool
	// LogDiagnostics logs every diagnostic. Off for callers that print
	// diagnostics themselves.
	LogDiagnostics bool
	// Cache stores finished results. Nil disables caching.
	Cache *cache.Cache
}

func DefaultOptions() Options {
	return Options{
		Translate:      jsgen.DefaultOptions(),
		ValidateOutput: true,
	}
}

// Result is one translated source. Output is empty unless OK.
type Result struct {
	File        string            `json:"file,omitempty"`
	Output      string            `json:"output"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	OK          bool              `json:"ok"`
	Cached      bool              `json:"cached"`
	Duration    time.Duration     `json:"duration"`
}

// Err returns ErrTranslationFailed when the result carries blocking
// diagnostics, and nil otherwise.
func (r *Result) Err() error {
	if r.OK {
		return nil
	}
	n := 0
	for _, d := range r.Diagnostics {
		if d.Blocking() {
			n++
		}
	}
	return fmt.Errorf("%w: %s: %d error(s)", ErrTranslationFailed, r.File, n)
}

type Pipeline struct {
	opts       Options
	variant    string
	validators sync.Pool
}

func New(opts Options) *Pipeline {
	if opts.Translate.IndentSize <= 0 {
		opts.Translate.IndentSize = jsgen.DefaultIndentSize
	}
	opts.Translate.Runtime = opts.Translate.Runtime.WithDefaults()

	p := &Pipeline{opts: opts, variant: variant(opts)}
	p.validators.New = func() any { return NewValidator() }
	return p
}

// variant encodes every option that changes the output, so a cached
// result is only reused under identical settings.
func variant(opts Options) string {
	rt := opts.Translate.Runtime
	return strings.Join([]string{
		fmt.Sprintf("indent=%d", opts.Translate.IndentSize),
		"rt=" + strings.Join([]string{rt.ToArray, rt.Mul, rt.IsIn, rt.ComprehensionFor, rt.Print}, ","),
		fmt.Sprintf("prelude=%t", opts.IncludePrelude),
	}, ";")
}

// Translate converts src. file names the source in logs and diagnostics
// output only. Syntax errors are returned as errors wrapping
// *frontend.ParseError; translation problems are in Result.Diagnostics.
func (p *Pipeline) Translate(ctx context.Context, file string, src []byte) (*Result, error) {
	ctx, span := startStage(ctx, "Translate", file)
	defer span.End()

	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := cache.Key(src, p.variant)
	if p.opts.Cache != nil {
		entry, err := p.opts.Cache.Get(ctx, key)
		switch {
		case err == nil:
			logger.LogCacheHit(key)
			res := &Result{
				File:        file,
				Output:      entry.Output,
				Diagnostics: entry.Diagnostics,
				OK:          entry.OK,
				Cached:      true,
				Duration:    time.Since(start),
			}
			p.finish(ctx, res)
			setResultAttributes(span, res, res.Duration)
			return res, nil
		case !errors.Is(err, cache.ErrNotFound):
			logger.Warn("Cache lookup failed", "file", file, "error", err)
		}
	}

	mod, err := p.parse(ctx, file, src)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tr := p.translate(ctx, file, mod)
	res := &Result{
		File:        file,
		Output:      tr.Output,
		Diagnostics: tr.Diagnostics,
		OK:          tr.OK,
	}

	if res.OK && p.opts.ValidateOutput {
		if err := p.validate(ctx, file, res.Output); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "invalid output")
			return nil, fmt.Errorf("%s: %w", file, err)
		}
	}
	if res.OK && p.opts.IncludePrelude {
		res.Output = jsruntime.Prelude() + "\n" + res.Output
	}

	if p.opts.Cache != nil {
		entry := &cache.Entry{Output: res.Output, Diagnostics: res.Diagnostics, OK: res.OK}
		if err := p.opts.Cache.Put(ctx, key, entry); err != nil {
			logger.Warn("Cache store failed", "file", file, "error", err)
		}
	}

	res.Duration = time.Since(start)
	p.finish(ctx, res)
	setResultAttributes(span, res, res.Duration)
	return res, nil
}

func (p *Pipeline) parse(ctx context.Context, file string, src []byte) (*pyast.Module, error) {
	ctx, span := startStage(ctx, "Parse", file)
	defer span.End()

	mod, err := frontend.Parse(ctx, src)
	if err != nil {
		return nil, err
	}
	logger.LogParsing(file, pyast.Count(mod))
	return mod, nil
}

func (p *Pipeline) translate(ctx context.Context, file string, mod *pyast.Module) *jsgen.Result {
	_, span := startStage(ctx, "Generate", file)
	defer span.End()

	return jsgen.Translate(mod, p.opts.Translate)
}

func (p *Pipeline) validate(ctx context.Context, file, js string) error {
	ctx, span := startStage(ctx, "Validate", file)
	defer span.End()

	v := p.validators.Get().(*Validator)
	defer p.validators.Put(v)
	return v.Validate(ctx, js)
}

func (p *Pipeline) finish(ctx context.Context, res *Result) {
	if p.opts.LogDiagnostics {
		for _, d := range res.Diagnostics {
			logger.LogDiagnostic(res.File, d)
		}
	}
	logger.LogTranslation(res.File, res.OK, len(res.Diagnostics), res.Duration)
	recordTranslation(ctx, res)
}

// TranslateFile reads and translates the file at path.
func (p *Pipeline) TranslateFile(ctx context.Context, path string) (*Result, error) {
	logger.LogFileProcessing(path)
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return p.Translate(ctx, path, src)
}

// FileResult is one entry of a batch. Err holds a syntax or output
// validation error for that file; Result is nil when Err is set.
type FileResult struct {
	Path   string
	Result *Result
	Err    error
}

// TranslateBatch translates paths with up to workers files in flight.
// Results keep the order of paths. A read error cancels the remaining
// files and is returned; per-file failures are reported in FileResult.
func (p *Pipeline) TranslateBatch(ctx context.Context, paths []string, workers int) ([]FileResult, error) {
	if workers < 1 {
		workers = 1
	}
	logger.LogPhase("batch")
	defer logger.LogPhaseComplete("batch")

	results := make([]FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			logger.LogFileProcessing(path)

			res, err := p.Translate(gctx, path, src)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			results[i] = FileResult{Path: path, Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
