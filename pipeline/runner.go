package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/c360studio/semschema/docs"
	"github.com/c360studio/semschema/hierarchy"
	"github.com/c360studio/semschema/jsonld"
	"github.com/c360studio/semschema/metrics"
)

// Stage names used for logging and metrics.
const (
	StageVersion  = "version"
	StageFetch    = "fetch"
	StageParse    = "parse"
	StageCombine  = "combine"
	StageDescribe = "describe"
	StageDeliver  = "deliver"
)

// Run is the outcome of one successful build.
type Run struct {
	ID           string
	Version      string
	StartedAt    time.Time
	FinishedAt   time.Time
	Model        *hierarchy.Model
	Descriptions map[string]string
	Stats        hierarchy.Stats
	Paths        hierarchy.PathReport
}

// Sink receives the model of a successful build.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, run *Run) error
}

// Runner executes builds.
type Runner struct {
	versions    hierarchy.VersionSource
	data        hierarchy.DataSource
	builderOpts []hierarchy.Option
	sinks       []Sink
	metrics     *metrics.Metrics
	converter   *docs.Converter
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithSinks appends sinks.
func WithSinks(sinks ...Sink) Option {
	return func(r *Runner) { r.sinks = append(r.sinks, sinks...) }
}

// WithMetrics records stage durations, item counts and run outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithDescriptions renders rdfs:comment values with conv.
func WithDescriptions(conv *docs.Converter) Option {
	return func(r *Runner) { r.converter = conv }
}

// WithBuilderOptions passes options to every Builder.
func WithBuilderOptions(opts ...hierarchy.Option) Option {
	return func(r *Runner) { r.builderOpts = append(r.builderOpts, opts...) }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithClock overrides the clock used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// NewRunner creates a runner reading from the given sources.
func NewRunner(versions hierarchy.VersionSource, data hierarchy.DataSource, opts ...Option) *Runner {
	r := &Runner{
		versions: versions,
		data:     data,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Run performs one build and delivers it to every sink concurrently. Any
// stage or sink failure fails the run.
func (r *Runner) Run(ctx context.Context) (*Run, error) {
	run := &Run{ID: uuid.New().String(), StartedAt: r.now()}
	logger := r.logger.With("run_id", run.ID)

	run, err := r.run(ctx, run, logger)
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusFailure
		logger.Error("Build failed", "error", err)
	}
	if r.metrics != nil {
		r.metrics.RecordRun(status, r.now())
	}
	return run, err
}

func (r *Runner) run(ctx context.Context, run *Run, logger *slog.Logger) (*Run, error) {
	opts := append([]hierarchy.Option{hierarchy.WithLogger(logger)}, r.builderOpts...)
	b := hierarchy.NewBuilder(r.versions, r.data, opts...)

	stages := []struct {
		name string
		fn   func() error
	}{
		{StageVersion, func() error { return b.FetchVersion(ctx) }},
		{StageFetch, func() error { return b.FetchData(ctx) }},
		{StageParse, b.Parse},
		{StageCombine, b.Combine},
	}
	for _, s := range stages {
		if err := r.stage(s.name, s.fn); err != nil {
			return nil, err
		}
	}

	run.Version = b.Version
	run.Model = b.Model
	run.Stats = b.Stats
	run.Paths = b.Paths
	r.recordItems(b)

	if r.converter != nil {
		err := r.stage(StageDescribe, func() error {
			items := make([]jsonld.Item, 0, len(b.SchemasRaw)+len(b.PropertiesRaw))
			items = append(items, b.SchemasRaw...)
			items = append(items, b.PropertiesRaw...)
			descriptions, err := docs.Descriptions(items, r.converter)
			run.Descriptions = descriptions
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	if err := r.stage(StageDeliver, func() error { return r.deliver(ctx, run, logger) }); err != nil {
		return nil, err
	}
	run.FinishedAt = r.now()

	logger.Info("Build complete",
		"version", run.Version,
		"schemas", len(run.Model.Schemas),
		"properties", len(run.Model.Properties),
		"sinks", len(r.sinks),
		"duration", run.FinishedAt.Sub(run.StartedAt))
	return run, nil
}

func (r *Runner) stage(name string, fn func() error) error {
	if r.metrics != nil {
		defer r.metrics.StartStage(name)()
	}
	if err := fn(); err != nil {
		return fmt.Errorf("%s stage: %w", name, err)
	}
	return nil
}

func (r *Runner) deliver(ctx context.Context, run *Run, logger *slog.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, sink := range r.sinks {
		g.Go(func() error {
			start := time.Now()
			if err := sink.Deliver(ctx, run); err != nil {
				return fmt.Errorf("sink %s: %w", sink.Name(), err)
			}
			logger.Debug("Delivered model", "sink", sink.Name(), "duration", time.Since(start))
			return nil
		})
	}
	return g.Wait()
}

func (r *Runner) recordItems(b *hierarchy.Builder) {
	if r.metrics == nil {
		return
	}
	r.metrics.SetItems(metrics.ItemsRaw, b.Stats.Raw)
	r.metrics.SetItems(metrics.ItemsActive, b.Stats.Active)
	r.metrics.SetItems(metrics.ItemsSchemas, b.Stats.Schemas)
	r.metrics.SetItems(metrics.ItemsProperties, b.Stats.Properties)
	r.metrics.SetItems(metrics.ItemsDroppedProperties, b.Stats.DroppedProperties)
	r.metrics.SetItems(metrics.ItemsPlaceholders, b.Stats.Placeholders)
	r.metrics.SetItems(metrics.ItemsUncoveredRoots, len(b.Paths.Uncovered))
}
