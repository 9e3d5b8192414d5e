package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fyrsmithlabs/iocx/internal/logging"
	"github.com/fyrsmithlabs/iocx/internal/validate"
	"github.com/fyrsmithlabs/iocx/pkg/allowlist"
	"github.com/fyrsmithlabs/iocx/pkg/artifacts"
)

// ErrRead indicates the input document could not be read as UTF-8 text.
var ErrRead = errors.New("reading input")

// minChunk is the smallest word chunk worth handing to its own worker.
const minChunk = 256

// cancelCheck is how many tokens a pass handles between context checks.
const cancelCheck = 1024

const instrumentationName = "github.com/fyrsmithlabs/iocx/internal/extract"

// Extractor finds indicators in text. It is safe for concurrent use.
type Extractor struct {
	dispatcher *Dispatcher
	workers    int
	allow      *allowlist.Allowlist
	logger     *logging.Logger
	metrics    *Metrics
	tracer     trace.Tracer
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithWorkers sets how many goroutines share the word pass. Values below 1
// are treated as 1.
func WithWorkers(n int) Option {
	return func(e *Extractor) {
		if n < 1 {
			n = 1
		}
		e.workers = n
	}
}

// WithAllowlist drops tokens the allowlist matches.
func WithAllowlist(a *allowlist.Allowlist) Option {
	return func(e *Extractor) { e.allow = a }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(e *Extractor) { e.metrics = m }
}

// WithTracer records a span per extraction. Without it the global otel
// tracer provider is used.
func WithTracer(t trace.Tracer) Option {
	return func(e *Extractor) {
		if t != nil {
			e.tracer = t
		}
	}
}

// New returns an Extractor using v.
func New(v *validate.Validators, opts ...Option) (*Extractor, error) {
	if v == nil {
		return nil, errors.New("validators are required")
	}
	e := &Extractor{
		dispatcher: NewDispatcher(v),
		workers:    1,
		logger:     logging.NewNop(),
		tracer:     otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Extract returns the indicators in text, or nil when there are none.
// If ctx is canceled the result is nil.
func (e *Extractor) Extract(ctx context.Context, text string) *artifacts.Artifacts {
	res, err := e.Scan(ctx, text)
	if err != nil {
		return nil
	}
	return res
}

// Scan is Extract reporting cancellation. It returns (nil, nil) when text
// holds no indicators and (nil, ctx.Err()) when ctx ends first.
func (e *Extractor) Scan(ctx context.Context, text string) (*artifacts.Artifacts, error) {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "extract.Scan")
	defer span.End()

	lines, words := Lines(text), Words(text)
	span.SetAttributes(
		attribute.Int("iocx.lines", len(lines)),
		attribute.Int("iocx.words", len(words)),
		attribute.Int("iocx.workers", e.workers),
	)
	e.metrics.RecordTokens(LineStream, len(lines))
	e.metrics.RecordTokens(WordStream, len(words))

	var lineRes, wordRes *artifacts.Artifacts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		lineRes, err = e.pass(gctx, lines)
		return err
	})
	g.Go(func() (err error) {
		wordRes, err = e.wordPass(gctx, words)
		return err
	})
	if err := g.Wait(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		e.metrics.RecordExtraction("canceled", time.Since(start).Seconds())
		e.logger.Debug(ctx, "extraction canceled", zap.Error(err))
		return nil, err
	}

	res := artifacts.Combine(lineRes, wordRes).Finalize()
	elapsed := time.Since(start)

	if res.IsEmpty() {
		span.SetAttributes(attribute.Int("iocx.indicators", 0))
		e.metrics.RecordExtraction("empty", elapsed.Seconds())
		e.logger.Debug(ctx, "no indicators found",
			zap.Int("lines", len(lines)),
			zap.Int("words", len(words)),
			zap.Duration("duration", elapsed),
		)
		return nil, nil
	}

	span.SetAttributes(attribute.Int("iocx.indicators", res.Total()))
	e.metrics.RecordExtraction("found", elapsed.Seconds())
	fields := []zap.Field{
		zap.Int("lines", len(lines)),
		zap.Int("words", len(words)),
		zap.Int("indicators", res.Total()),
		zap.Duration("duration", elapsed),
	}
	for _, c := range artifacts.Categories() {
		if n := res.Count(c); n > 0 {
			fields = append(fields, zap.Int(c.String(), n))
		}
	}
	e.logger.Debug(ctx, "extraction finished", fields...)
	return res, nil
}

// ExtractFile reads path and extracts from its contents. Read failures and
// content that is not valid UTF-8 are wrapped in ErrRead.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (*artifacts.Artifacts, error) {
	ctx = logging.WithSource(ctx, path)

	data, err := os.ReadFile(path)
	if err != nil {
		e.logger.Warn(ctx, "failed to read input", zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}
	if !utf8.Valid(data) {
		e.logger.Warn(ctx, "input is not valid UTF-8")
		return nil, fmt.Errorf("%w: %s: content is not valid UTF-8", ErrRead, path)
	}
	return e.Scan(ctx, string(data))
}

// wordPass runs the word tokens, split across workers when worthwhile.
func (e *Extractor) wordPass(ctx context.Context, words []Token) (*artifacts.Artifacts, error) {
	n := min(e.workers, len(words)/minChunk)
	if n <= 1 {
		return e.pass(ctx, words)
	}

	chunks := chunk(words, n)
	partials := make([]*artifacts.Artifacts, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n)
	for i, c := range chunks {
		g.Go(func() (err error) {
			partials[i], err = e.pass(gctx, c)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts.Sum(partials...), nil
}

// pass classifies tokens into a fresh record owned by the caller.
func (e *Extractor) pass(ctx context.Context, tokens []Token) (*artifacts.Artifacts, error) {
	out := artifacts.Empty()
	for i, tok := range tokens {
		if i%cancelCheck == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		m, ok := e.dispatcher.Dispatch(tok)
		if !ok {
			continue
		}
		category := m.Category.String()
		if e.allow.Allowed(tok.Value) {
			e.metrics.RecordAllowlisted(category)
			e.logger.Trace(ctx, "allowlisted indicator dropped",
				zap.String("category", category),
				e.logger.Indicator("indicator", tok.Value),
			)
			continue
		}
		e.metrics.RecordIndicator(category)
		out.Add(m.Category, m.Value)
	}
	return out.Finalize(), nil
}
