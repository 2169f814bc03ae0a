package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/c360studio/semschema/codegen"
	"github.com/c360studio/semschema/config"
	"github.com/c360studio/semschema/export"
	"github.com/c360studio/semschema/graph"
	"github.com/c360studio/semschema/output"
	"github.com/c360studio/semschema/storage"
)

// SinkFunc adapts a function to a Sink.
type SinkFunc struct {
	SinkName string
	Fn       func(ctx context.Context, run *Run) error
}

// Name returns SinkName.
func (s SinkFunc) Name() string { return s.SinkName }

// Deliver calls Fn.
func (s SinkFunc) Deliver(ctx context.Context, run *Run) error { return s.Fn(ctx, run) }

// FileSink writes schemaData.json.
type FileSink struct {
	Sink   output.FileSink
	Logger *slog.Logger
}

func (s FileSink) Name() string { return "file" }

func (s FileSink) Deliver(_ context.Context, run *Run) error {
	path, err := s.Sink.Write(run.Model)
	if err != nil {
		return err
	}
	logger(s.Logger).Info("Wrote model", "path", path)
	return nil
}

// StoreSink saves the model in the KV store.
type StoreSink struct {
	Store  *storage.Store
	Logger *slog.Logger
}

func (s StoreSink) Name() string { return "store" }

func (s StoreSink) Deliver(ctx context.Context, run *Run) error {
	rev, err := s.Store.Put(ctx, &storage.Record{
		Version: run.Version,
		RunID:   run.ID,
		Model:   run.Model,
	})
	if err != nil {
		return err
	}
	logger(s.Logger).Info("Stored model", "version", run.Version, "revision", rev)
	return nil
}

// GraphSink publishes class and property entities.
type GraphSink struct {
	Publisher *graph.Publisher
}

func (s GraphSink) Name() string { return "graph" }

func (s GraphSink) Deliver(ctx context.Context, run *Run) error {
	_, err := s.Publisher.PublishModel(ctx, run.Version, run.Model)
	return err
}

// ExportSink writes RDF serializations to Dir/File.<ext>. Descriptions of
// the run are used for rdfs:comment statements.
type ExportSink struct {
	Dir     string
	File    string
	Formats []export.Format
	Profile export.Profile
	BaseIRI string
	Logger  *slog.Logger
}

func (s ExportSink) Name() string { return "export" }

func (s ExportSink) Deliver(_ context.Context, run *Run) error {
	name := s.File
	if name == "" {
		name = "schemaData"
	}
	exporter := export.NewRDFExporter(export.Options{
		Profile:      s.Profile,
		BaseIRI:      s.BaseIRI,
		Descriptions: run.Descriptions,
	})
	paths, err := exporter.WriteFiles(s.Dir, name, s.Formats, run.Model)
	if err != nil {
		return err
	}
	logger(s.Logger).Info("Exported RDF", "files", paths)
	return nil
}

// CodegenSink generates the Go package of the model. Dir is created when
// missing.
type CodegenSink struct {
	Dir     string
	Package string
	Logger  *slog.Logger
}

func (s CodegenSink) Name() string { return "codegen" }

func (s CodegenSink) Deliver(_ context.Context, run *Run) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("create codegen directory: %w", err)
	}
	paths, err := codegen.Generate(s.Dir, s.Package, run.Version, run.Model)
	if err != nil {
		return err
	}
	logger(s.Logger).Info("Generated Go package", "dir", s.Dir, "files", len(paths))
	return nil
}

func logger(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}

// SinksFromConfig builds the sinks enabled by cfg. The JSON file sink is
// always included; store and publisher are used when non-nil.
func SinksFromConfig(cfg *config.Config, store *storage.Store, publisher *graph.Publisher, logger *slog.Logger) ([]Sink, error) {
	sinks := []Sink{FileSink{
		Sink:   output.FileSink{Dir: cfg.Output.Dir, File: cfg.Output.File, Pretty: cfg.Output.Pretty},
		Logger: logger,
	}}
	if store != nil {
		sinks = append(sinks, StoreSink{Store: store, Logger: logger})
	}
	if publisher != nil {
		sinks = append(sinks, GraphSink{Publisher: publisher})
	}

	if len(cfg.Export.Formats) > 0 {
		formats, err := export.ParseFormats(cfg.Export.Formats)
		if err != nil {
			return nil, err
		}
		profile, err := export.ParseProfile(cfg.Export.Profile)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, ExportSink{
			Dir:     cfg.ExportDir(),
			File:    strings.TrimSuffix(cfg.Output.File, ".json"),
			Formats: formats,
			Profile: profile,
			BaseIRI: cfg.Export.BaseIRI,
			Logger:  logger,
		})
	}

	if cfg.Codegen.Dir != "" {
		sinks = append(sinks, CodegenSink{Dir: cfg.Codegen.Dir, Package: cfg.Codegen.Package, Logger: logger})
	}
	return sinks, nil
}
