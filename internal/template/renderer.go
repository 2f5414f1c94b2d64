package template

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/systmms/bwsconnect/internal/logging"
	"github.com/systmms/bwsconnect/internal/metrics"
	"github.com/systmms/bwsconnect/internal/resolve"
)

// Resolver looks up the normalized value of a secret by key.
// *resolve.Resolver implements it.
type Resolver interface {
	Resolve(ctx context.Context, key string) (resolve.Value, bool, error)
}

// Renderer substitutes resolvable placeholders in text.
//
// Missing secrets and missing explicit fields leave the placeholder as
// literal text. Any error from the Resolver aborts the render.
type Renderer struct {
	resolver    Resolver
	scanner     *Scanner
	logger      *logging.Logger
	metrics     *metrics.Metrics
	concurrency int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithScanner replaces the default bws scanner.
func WithScanner(s *Scanner) Option {
	return func(r *Renderer) { r.scanner = s }
}

// WithLogger sets the debug logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// WithMetrics records placeholder outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Renderer) { r.metrics = m }
}

// WithConcurrency resolves up to n placeholders at once. n <= 1 resolves
// them one at a time.
func WithConcurrency(n int) Option {
	return func(r *Renderer) { r.concurrency = n }
}

// NewRenderer creates a renderer backed by resolver.
func NewRenderer(resolver Resolver, opts ...Option) *Renderer {
	r := &Renderer{
		resolver:    resolver,
		scanner:     NewScanner(DefaultScheme),
		logger:      logging.Discard(),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// replacement is the outcome for one placeholder.
type replacement struct {
	text string
	ok   bool
}

// Render returns input with every resolvable placeholder replaced.
//
// Placeholders are found in the original input and spliced back in scan
// order at their own offsets, so repeated placeholders are replaced one by
// one and an unresolved placeholder never absorbs the replacement of a
// later one sharing its prefix. Substituted values are never scanned again.
func (r *Renderer) Render(ctx context.Context, input string) (string, error) {
	placeholders := r.scanner.ScanAll(input)
	if len(placeholders) == 0 {
		r.metrics.ObserveRender()
		return input, nil
	}
	r.logger.Debug("found %d placeholders", len(placeholders))

	results, err := r.resolveAll(ctx, input, placeholders)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.Grow(len(input))
	last := 0
	for i, p := range placeholders {
		if !results[i].ok {
			continue
		}
		out.WriteString(input[last:p.Start])
		out.WriteString(results[i].text)
		last = p.End
	}
	out.WriteString(input[last:])
	r.metrics.ObserveRender()
	return out.String(), nil
}

func (r *Renderer) resolveAll(ctx context.Context, input string, placeholders []Placeholder) ([]replacement, error) {
	results := make([]replacement, len(placeholders))

	if r.concurrency <= 1 {
		for i, p := range placeholders {
			res, err := r.replacementFor(ctx, input, p)
			if err != nil {
				return nil, err
			}
			results[i] = res
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, p := range placeholders {
		g.Go(func() error {
			res, err := r.replacementFor(gctx, input, p)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Renderer) replacementFor(ctx context.Context, input string, p Placeholder) (replacement, error) {
	value, found, err := r.resolver.Resolve(ctx, p.Key)
	if err != nil {
		return replacement{}, err
	}
	if !found {
		r.logger.Debug("%s: secret %q not found, leaving placeholder", p.Raw, p.Key)
		r.metrics.ObservePlaceholder(metrics.OutcomeSecretNotFound)
		return replacement{}, nil
	}

	chosen, ok := selectValue(p, value)
	if !ok {
		r.logger.Debug("%s: field %q not found, leaving placeholder", p.Raw, p.Path)
		r.metrics.ObservePlaceholder(metrics.OutcomeFieldNotFound)
		return replacement{}, nil
	}

	text, err := resolve.Text(chosen)
	if err != nil {
		return replacement{}, err
	}
	r.metrics.ObservePlaceholder(metrics.OutcomeResolved)
	return replacement{text: adjustIndent(input, p, text), ok: true}, nil
}

// selectValue picks the part of a secret value that replaces p. The target
// path is looked up first. When it misses, a placeholder without an
// explicit path falls back to the whole value; one with an explicit path
// gets nothing.
func selectValue(p Placeholder, value resolve.Value) (resolve.Value, bool) {
	if v, ok := resolve.Extract(value, p.TargetPath()); ok {
		return v, true
	}
	if p.HasPath {
		return resolve.Null, false
	}
	return value, true
}
