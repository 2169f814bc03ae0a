package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/semschema/codegen"
	"github.com/c360studio/semschema/export"
	"github.com/c360studio/semschema/hierarchy"
	"github.com/c360studio/semschema/output"
	"github.com/c360studio/semschema/server"
	"github.com/c360studio/semschema/source"
)

func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}

func buildCmd(g *globals) *cobra.Command {
	var (
		version string
		files   string
		outDir  string
		pretty  bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Resolve a release and deliver the model to every configured sink",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup()
			if err != nil {
				return err
			}
			if version != "" {
				cfg.Source.Version = version
			}
			if files != "" {
				cfg.Source.Files = files
			}
			if outDir != "" {
				cfg.Output.Dir = outDir
			}
			if pretty {
				cfg.Output.Pretty = true
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			app := NewApp(cfg, logger)
			if err := app.Start(ctx); err != nil {
				return err
			}
			defer app.Shutdown(context.Background())

			run, err := app.Build(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Built schema.org %s: %d schemas, %d properties (run %s)\n",
				run.Version, len(run.Model.Schemas), len(run.Model.Properties), run.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "Pin the release version instead of resolving the latest")
	cmd.Flags().StringVar(&files, "files", "", "Glob of local JSON-LD release files")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON model")
	return cmd
}

func latestCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Print the latest released schema.org version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup()
			if err != nil {
				return err
			}
			versions, _ := source.FromConfig(cfg.Source, logger)
			version, err := versions.LatestVersion(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}

// modelPath returns input, or the configured model file when input is empty.
func modelPath(input string, dir, file string) string {
	if input != "" {
		return input
	}
	return filepath.Join(dir, file)
}

func exportCmd(g *globals) *cobra.Command {
	var (
		input   string
		formats []string
		profile string
		outDir  string
		name    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a resolved model as RDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.setup()
			if err != nil {
				return err
			}
			if len(formats) == 0 {
				formats = cfg.Export.Formats
			}
			if len(formats) == 0 {
				formats = []string{string(export.FormatTurtle)}
			}
			parsed, err := export.ParseFormats(formats)
			if err != nil {
				return err
			}
			if profile == "" {
				profile = cfg.Export.Profile
			}
			p, err := export.ParseProfile(profile)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = cfg.ExportDir()
			}

			m, err := output.ReadFile(modelPath(input, cfg.Output.Dir, cfg.Output.File))
			if err != nil {
				return err
			}
			exporter := export.NewRDFExporter(export.Options{Profile: p, BaseIRI: cfg.Export.BaseIRI})
			paths, err := exporter.WriteFiles(outDir, name, parsed, m)
			if err != nil {
				return err
			}
			for _, path := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Model file (defaults to the configured output file)")
	cmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "Formats: turtle, ntriples, jsonld")
	cmd.Flags().StringVar(&profile, "profile", "", "Export profile: hierarchy or full")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory")
	cmd.Flags().StringVar(&name, "name", "schemaData", "Base file name")
	return cmd
}

func generateCmd(g *globals) *cobra.Command {
	var (
		input   string
		dir     string
		pkg     string
		version string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a Go package from a resolved model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.setup()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.Codegen.Dir
			}
			if pkg == "" {
				pkg = cfg.Codegen.Package
			}

			m, err := output.ReadFile(modelPath(input, cfg.Output.Dir, cfg.Output.File))
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
			paths, err := codegen.Generate(dir, pkg, version, m)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d files in %s\n", len(paths), dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Model file (defaults to the configured output file)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Target directory")
	cmd.Flags().StringVarP(&pkg, "package", "p", "", "Package name")
	cmd.Flags().StringVar(&version, "version", "", "Release version recorded in the package")
	return cmd
}

func serveCmd(g *globals) *cobra.Command {
	var (
		input     string
		addr      string
		fromStore bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a resolved model over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			app := NewApp(cfg, logger)
			var (
				version string
				m       *hierarchy.Model
			)
			if fromStore {
				cfg.NATS.Store = true
				if err := app.Start(ctx); err != nil {
					return err
				}
				defer app.Shutdown(context.Background())

				rec, err := app.store.Latest(ctx)
				if err != nil {
					return fmt.Errorf("load latest model: %w", err)
				}
				version, m = rec.Version, rec.Model
			} else {
				m, err = output.ReadFile(modelPath(input, cfg.Output.Dir, cfg.Output.File))
				if err != nil {
					return err
				}
			}

			srv, err := server.New(version, m, cfg.Server.Mode,
				server.WithMetrics(app.metrics),
				server.WithLogger(logger))
			if err != nil {
				return err
			}
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Model file (defaults to the configured output file)")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address")
	cmd.Flags().BoolVar(&fromStore, "from-store", false, "Serve the latest model from the NATS KV store")
	return cmd
}

func watchCmd(g *globals) *cobra.Command {
	var files string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild whenever the local release files change",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup()
			if err != nil {
				return err
			}
			if files != "" {
				cfg.Source.Files = files
			}
			if cfg.Source.Files == "" {
				return errors.New("watch needs local release files: set source.files or --files")
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			app := NewApp(cfg, logger)
			if err := app.Start(ctx); err != nil {
				return err
			}
			defer app.Shutdown(context.Background())

			w, err := source.NewWatcher(cfg.Source.Files, cfg.Source.WatchDebounce, logger)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			if err := w.Start(ctx); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			defer w.Stop()

			if _, err := app.Build(ctx); err != nil {
				logger.Error("Initial build failed", "error", err)
			}

			for {
				select {
				case <-ctx.Done():
					return nil
				case change, ok := <-w.Changes():
					if !ok {
						return nil
					}
					logger.Info("Release files changed, rebuilding", "paths", change.Paths)
					if _, err := app.Build(ctx); err != nil {
						logger.Error("Rebuild failed", "error", err)
					}
				}
			}
		},
	}

	cmd.Flags().StringVar(&files, "files", "", "Glob of local JSON-LD release files")
	return cmd
}
