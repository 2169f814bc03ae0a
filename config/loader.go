package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "semschema.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/semschema"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
	// EnvFile is loaded into the environment before env overrides are applied
	EnvFile = ".env"
	// EnvPrefix prefixes every environment override
	EnvPrefix = "SEMSCHEMA_"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger   *slog.Logger
	home     string
	workDir  string
	lookupFn func(string) (string, bool)
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithHomeDir overrides the directory the user config is resolved against
func WithHomeDir(dir string) LoaderOption {
	return func(l *Loader) { l.home = dir }
}

// WithWorkDir overrides the directory the project config search starts from
func WithWorkDir(dir string) LoaderOption {
	return func(l *Loader) { l.workDir = dir }
}

// WithLookupEnv overrides environment lookup
func WithLookupEnv(fn func(string) (string, bool)) LoaderOption {
	return func(l *Loader) { l.lookupFn = fn }
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{logger: logger, lookupFn: os.LookupEnv}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/semschema/config.yaml)
// 3. Project config (semschema.yaml in current or parent directories)
// 4. Environment variables (SEMSCHEMA_*), after loading .env from the work dir
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	userConfigPath := l.userConfigPath()
	if userConfigPath != "" {
		if userConfig, err := LoadFromFile(userConfigPath); err == nil {
			l.logger.Debug("Loaded user config", slog.String("path", userConfigPath))
			config.Merge(userConfig)
		} else if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Failed to load user config", slog.String("path", userConfigPath), slog.String("error", err.Error()))
		}
	}

	projectConfigPath := l.findProjectConfig()
	if projectConfigPath != "" {
		if projectConfig, err := LoadFromFile(projectConfigPath); err == nil {
			l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
			config.Merge(projectConfig)
		} else {
			l.logger.Warn("Failed to load project config", slog.String("path", projectConfigPath), slog.String("error", err.Error()))
		}
	} else {
		l.logger.Debug("No project config found")
	}

	l.loadEnvFile()
	l.ApplyEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyEnv overrides config fields from SEMSCHEMA_* variables. NATS_URL is
// honoured when SEMSCHEMA_NATS_URL is unset.
func (l *Loader) ApplyEnv(c *Config) {
	str := map[string]*string{
		"SOURCE_VERSIONS_URL": &c.Source.VersionsURL,
		"SOURCE_DATA_URL":     &c.Source.DataURL,
		"SOURCE_VERSION":      &c.Source.Version,
		"SOURCE_FILES":        &c.Source.Files,
		"ROOT_POLICY":         &c.Resolve.RootPolicy,
		"OUTPUT_DIR":          &c.Output.Dir,
		"EXPORT_PROFILE":      &c.Export.Profile,
		"CODEGEN_DIR":         &c.Codegen.Dir,
		"NATS_URL":            &c.NATS.URL,
		"NATS_BUCKET":         &c.NATS.Bucket,
		"SERVER_ADDR":         &c.Server.Addr,
		"SERVER_MODE":         &c.Server.Mode,
		"METRICS_TEXTFILE":    &c.Metrics.Textfile,
	}
	for name, dst := range str {
		if v, ok := l.lookupFn(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	if c.NATS.URL == "" {
		if v, ok := l.lookupFn("NATS_URL"); ok {
			c.NATS.URL = v
		}
	}

	if v, ok := l.lookupFn(EnvPrefix + "EXPORT_FORMATS"); ok && v != "" {
		c.Export.Formats = splitList(v)
	}

	flags := map[string]*bool{
		"SOURCE_ALLOW_INSECURE": &c.Source.AllowInsecure,
		"NATS_STORE":            &c.NATS.Store,
		"NATS_PUBLISH":          &c.NATS.Publish,
		"OUTPUT_PRETTY":         &c.Output.Pretty,
	}
	for name, dst := range flags {
		v, ok := l.lookupFn(EnvPrefix + name)
		if !ok || v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			l.logger.Warn("Ignoring invalid boolean", slog.String("var", EnvPrefix+name), slog.String("value", v))
			continue
		}
		*dst = b
	}
}

// EnsureUserConfig creates the user config file with defaults if it doesn't exist
func (l *Loader) EnsureUserConfig() error {
	userConfigPath := l.userConfigPath()

	if _, err := os.Stat(userConfigPath); err == nil {
		return nil
	}

	config := DefaultConfig()
	if err := config.SaveToFile(userConfigPath); err != nil {
		return err
	}

	l.logger.Info("Created default user config", slog.String("path", userConfigPath))
	return nil
}

func (l *Loader) loadEnvFile() {
	path := filepath.Join(l.startDir(), EnvFile)
	if _, err := os.Stat(path); err != nil {
		return
	}
	// Existing variables win over the file.
	if err := godotenv.Load(path); err != nil {
		l.logger.Warn("Failed to load env file", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	l.logger.Debug("Loaded env file", slog.String("path", path))
}

// userConfigPath returns the path to the user config file
func (l *Loader) userConfigPath() string {
	home := l.home
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

func (l *Loader) startDir() string {
	if l.workDir != "" {
		return l.workDir
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// findProjectConfig searches for semschema.yaml in current and parent directories
func (l *Loader) findProjectConfig() string {
	dir := l.startDir()
	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
