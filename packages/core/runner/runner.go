package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abdul-hamid-achik/barbouse/packages/classify"
	"github.com/abdul-hamid-achik/barbouse/packages/core/env"
	"github.com/abdul-hamid-achik/barbouse/packages/core/parser"
	"github.com/abdul-hamid-achik/barbouse/packages/filter"
	"github.com/abdul-hamid-achik/barbouse/packages/http"
	"github.com/abdul-hamid-achik/barbouse/packages/logging"
	"github.com/abdul-hamid-achik/barbouse/packages/output"
)

type Config struct {
	// Vars supplies {NAME} substitutions.
	Vars map[string]string
	// Engine selects the filter engine; empty means jq.
	Engine string
	// FilterOverride replaces any filter declared in the files.
	FilterOverride string
	ShowHeaders    bool
	BodyOnly       bool
	DryRun         bool
}

type Runner struct {
	client   *http.Client
	renderer *output.Renderer
	saver    *classify.Saver
	logger   *slog.Logger
	compiler filter.Compiler
	override filter.Filter
	config   *Config
}

type Option func(*Runner)

func WithHTTPClient(c *http.Client) Option {
	return func(r *Runner) {
		r.client = c
	}
}

func WithRenderer(rd *output.Renderer) Option {
	return func(r *Runner) {
		r.renderer = rd
	}
}

func WithSaver(s *classify.Saver) Option {
	return func(r *Runner) {
		r.saver = s
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// NewRunner builds a runner. The filter engine and override filter are
// resolved here so that a bad override fails before any request is sent.
func NewRunner(cfg *Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	compiler, err := filter.NewCompiler(cfg.Engine)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		compiler: compiler,
		config:   cfg,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		r.client = http.NewClient()
	}
	if r.renderer == nil {
		r.renderer = output.NewRenderer()
	}
	if r.saver == nil {
		r.saver = classify.NewSaver("")
	}
	if r.logger == nil {
		r.logger = logging.Discard()
	}

	if cfg.FilterOverride != "" {
		expr := env.Substitute(cfg.FilterOverride, cfg.Vars)
		f, err := compiler.Compile(expr)
		if err != nil {
			return nil, &parser.FilterCompileError{Expr: expr, Err: err}
		}
		r.override = f
	}

	return r, nil
}

// FileResult describes one processed request file.
type FileResult struct {
	File       string
	Definition *parser.RequestDefinition
	Outcome    *classify.Outcome
	// SavedPath is set when the response was saved as an attachment.
	SavedPath string
	Duration  time.Duration
}

// RunFile runs the full pipeline for one request file.
func (r *Runner) RunFile(ctx context.Context, path string) (*FileResult, error) {
	start := time.Now()
	result := &FileResult{File: path}

	def, err := parser.ParseFile(path, r.config.Vars, r.compiler)
	if err != nil {
		return nil, err
	}
	result.Definition = def
	r.warnDefinition(def)

	if r.config.DryRun {
		r.renderer.Request(def.Method, def.URL, def.Headers, def.Body)
		result.Duration = time.Since(start)
		return result, nil
	}

	if !r.config.BodyOnly {
		r.renderer.Progress(def.Method, def.URL)
	}

	resp, err := r.client.Do(ctx, http.FromDefinition(def))
	if err != nil {
		return nil, err
	}
	r.logger.Debug("response received",
		"file", path,
		"status", resp.StatusCode,
		"bytes", len(resp.Body),
		"duration_ms", resp.DurationMs(),
	)

	outcome := classify.Classify(resp)
	result.Outcome = outcome

	if err := r.render(def, outcome, result); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	return result, nil
}

// activeFilter returns the override filter when set, else the file's.
func (r *Runner) activeFilter(def *parser.RequestDefinition) filter.Filter {
	if r.override != nil {
		return r.override
	}
	return def.Filter
}

func (r *Runner) render(def *parser.RequestDefinition, outcome *classify.Outcome, result *FileResult) error {
	switch body := outcome.Body.(type) {
	case classify.Attachment:
		path, err := r.saver.Save(body)
		if err != nil {
			return err
		}
		result.SavedPath = path
		r.logger.Info("attachment saved", "file", def.File, "path", path, "bytes", len(body.Data))
		r.headers(outcome)
		r.renderer.Attachment(path)

	case classify.JSON:
		data, err := r.renderer.FormatJSON(body.Value, r.activeFilter(def))
		if err != nil {
			return err
		}
		r.headers(outcome)
		return r.renderer.Write(data)

	case classify.Text:
		if r.activeFilter(def) != nil {
			r.logger.Warn("response is not JSON, filter not applied", "file", def.File)
		}
		r.headers(outcome)
		r.renderer.Text(body.Raw)

	default:
		return fmt.Errorf("unexpected response body type %T", body)
	}
	return nil
}

func (r *Runner) headers(outcome *classify.Outcome) {
	if r.config.ShowHeaders {
		r.renderer.Headers(outcome.StatusCode, outcome.Reason, outcome.Headers)
	}
}

func (r *Runner) warnDefinition(def *parser.RequestDefinition) {
	for _, line := range def.Ignored {
		r.logger.Warn("ignoring unrecognized header line", "file", def.File, "line", line.Line, "text", line.Text)
	}
	for _, name := range def.Unresolved {
		r.logger.Warn("placeholder left unresolved", "file", def.File, "name", name)
	}
}
