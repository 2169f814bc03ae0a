// Package main provides the semschema binary entry point.
// Semschema resolves the schema.org vocabulary into a class hierarchy with
// inherited property sets and delivers it as JSON, RDF, Go code, a KV record
// and graph entities.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/semschema/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semschema"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globals holds the persistent flags shared by every command.
type globals struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Resolve the schema.org vocabulary",
		Long: `Semschema downloads a schema.org release and resolves it into a class
hierarchy where every class carries its own properties, the properties it
inherits from each ancestor, and every root-to-class specificity path.

The resolved model is written to schemaData.json and can additionally be
exported as RDF, generated as a Go package, stored in a NATS KV bucket,
published as graph entities, or served over HTTP.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		buildCmd(g),
		latestCmd(g),
		exportCmd(g),
		generateCmd(g),
		serveCmd(g),
		watchCmd(g),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))
}

// setup installs the logger and loads the configuration. An explicit config
// file replaces the user and project layers; environment overrides apply in
// both cases.
func (g *globals) setup() (*config.Config, *slog.Logger, error) {
	logger := newLogger(os.Stderr, g.logLevel)
	slog.SetDefault(logger)

	loader := config.NewLoader(logger)
	if g.configPath == "" {
		cfg, err := loader.Load()
		if err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, logger, nil
	}

	cfg, err := config.LoadFromFile(g.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	loader.ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, logger, nil
}
