package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/c360studio/semstreams/natsclient"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/semschema/config"
	"github.com/c360studio/semschema/docs"
	"github.com/c360studio/semschema/graph"
	"github.com/c360studio/semschema/hierarchy"
	"github.com/c360studio/semschema/jsonld"
	"github.com/c360studio/semschema/metrics"
	"github.com/c360studio/semschema/pipeline"
	"github.com/c360studio/semschema/source"
	"github.com/c360studio/semschema/storage"
)

// graphStream holds the entity messages published by the graph sink.
const graphStream = "GRAPH"

// App wires the configured sources, sinks and NATS collaborators.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	nats      *natsclient.Client
	store     *storage.Store
	publisher *graph.Publisher
	metrics   *metrics.Metrics
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	return &App{cfg: cfg, logger: logger, metrics: metrics.New()}
}

// Start connects to NATS when storage or publishing is enabled.
func (a *App) Start(ctx context.Context) error {
	if !a.cfg.NATS.Store && !a.cfg.NATS.Publish {
		return nil
	}

	client, err := connectToNATS(ctx, a.cfg.NATS.URL, a.logger)
	if err != nil {
		return err
	}
	a.nats = client

	js, err := client.JetStream()
	if err != nil {
		return fmt.Errorf("get JetStream context: %w", err)
	}

	if a.cfg.NATS.Store {
		store, err := storage.NewStore(ctx, js, a.cfg.NATS.Bucket)
		if err != nil {
			return fmt.Errorf("initialize storage: %w", err)
		}
		a.store = store
	}

	if a.cfg.NATS.Publish {
		if err := ensureGraphStream(ctx, js); err != nil {
			return err
		}
		a.publisher = graph.NewPublisher(client, a.logger)
	}
	return nil
}

// Shutdown closes the NATS connection.
func (a *App) Shutdown(ctx context.Context) {
	if a.nats == nil {
		return
	}
	if err := a.nats.Close(ctx); err != nil {
		a.logger.Warn("Failed to close NATS connection", "error", err)
	}
}

// Runner builds a pipeline runner from the configuration.
func (a *App) Runner() (*pipeline.Runner, error) {
	policy, err := hierarchy.ParseRootPolicy(a.cfg.Resolve.RootPolicy)
	if err != nil {
		return nil, err
	}
	sinks, err := pipeline.SinksFromConfig(a.cfg, a.store, a.publisher, a.logger)
	if err != nil {
		return nil, err
	}

	versions, data := source.FromConfig(a.cfg.Source, a.logger)
	opts := []pipeline.Option{
		pipeline.WithSinks(sinks...),
		pipeline.WithMetrics(a.metrics),
		pipeline.WithLogger(a.logger),
		pipeline.WithBuilderOptions(
			hierarchy.WithRootPolicy(policy),
			hierarchy.WithArchiveFilter(jsonld.ArchiveFilter{Containers: a.cfg.Resolve.ArchiveContainers}),
		),
	}
	if a.cfg.Resolve.Descriptions || a.cfg.Export.Profile == "full" {
		opts = append(opts, pipeline.WithDescriptions(docs.NewConverter(docs.DefaultLinkBase)))
	}
	return pipeline.NewRunner(versions, data, opts...), nil
}

// Build runs the pipeline once and writes the metrics textfile when
// configured, whether or not the build succeeded.
func (a *App) Build(ctx context.Context) (*pipeline.Run, error) {
	runner, err := a.Runner()
	if err != nil {
		return nil, err
	}
	run, buildErr := runner.Run(ctx)

	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := a.metrics.WriteTextfile(path); err != nil {
			a.logger.Warn("Failed to write metrics textfile", "path", path, "error", err)
		}
	}
	return run, buildErr
}

func connectToNATS(ctx context.Context, url string, logger *slog.Logger) (*natsclient.Client, error) {
	logger.Info("Connecting to NATS", "url", url)

	client, err := natsclient.NewClient(url,
		natsclient.WithName(appName),
		natsclient.WithMaxReconnects(-1),
		natsclient.WithReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create NATS client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, wrapNATSError(err, url)
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.WaitForConnection(connCtx); err != nil {
		return nil, wrapNATSError(err, url)
	}

	logger.Info("Connected to NATS", "url", url)
	return client, nil
}

// wrapNATSError provides helpful guidance when NATS connection fails.
func wrapNATSError(err error, url string) error {
	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

To start NATS:
  docker compose up -d nats

Or disable nats.store and nats.publish to build without NATS.`, err, url)
	}

	return fmt.Errorf("NATS connection failed: %w", err)
}

func ensureGraphStream(ctx context.Context, js jetstream.JetStream) error {
	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     graphStream,
		Subjects: []string{graph.GraphIngestSubject},
		MaxAge:   24 * time.Hour,
		Storage:  jetstream.FileStorage,
	})
	if err != nil {
		return fmt.Errorf("ensure %s stream: %w", graphStream, err)
	}
	return nil
}
