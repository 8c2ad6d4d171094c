package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vdirective/internal/errors"
	"github.com/vango-dev/vdirective/pkg/compiler"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vdirective.yaml"

	// DefaultAddr is the default server address.
	DefaultAddr = "localhost:8080"

	// DefaultTemplatesDir is the default template directory.
	DefaultTemplatesDir = "templates"

	// DefaultTemplateExt is the default template file extension.
	DefaultTemplateExt = ".html"

	// DefaultMetricsPath is the default Prometheus endpoint.
	DefaultMetricsPath = "/metrics"
)

// Config represents the complete vdirective.yaml configuration.
type Config struct {
	Templates TemplatesConfig `yaml:"templates"`
	Render    RenderConfig    `yaml:"render"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// TemplatesConfig locates component templates.
type TemplatesConfig struct {
	// Dir holds one template per component; the file name without the
	// extension is the component name.
	Dir string `yaml:"dir"`

	// Ext is the template file extension.
	Ext string `yaml:"ext"`

	// Watch reloads templates when files change.
	Watch bool `yaml:"watch"`
}

// RenderConfig controls compilation and server rendering.
type RenderConfig struct {
	// Policy is "strict" or "lenient".
	Policy string `yaml:"policy"`

	// Pretty indents server output.
	Pretty bool `yaml:"pretty"`

	// Sanitize runs v-html markup through the UGC sanitizer. A nil value
	// means true.
	Sanitize *bool `yaml:"sanitize"`

	// CacheSize bounds the compiled template cache.
	CacheSize int `yaml:"cache_size"`
}

// ServerConfig configures `vdirective serve`.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MetricsPath string `yaml:"metrics_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the directory.
// It looks for vdirective.yaml in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	return loadFile(path, os.Getenv)
}

func loadFile(path string, getenv func(string) string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E210").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				Wrap(err)
		}
		return nil, errors.New("E211").Wrap(err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(interpolateEnv(data, getenv), cfg); err != nil {
		return nil, errors.New("E211").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid YAML").
			Wrap(err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	cfg.configPath = abs
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envPattern matches ${VAR} and ${VAR:-default}.
var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		value := getenv(string(parts[1]))
		if value == "" && len(parts[2]) > 0 {
			value = string(parts[2])
		}
		return []byte(value)
	})
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

func (c *Config) applyDefaults() {
	if c.Templates.Dir == "" {
		c.Templates.Dir = DefaultTemplatesDir
	}
	if c.Templates.Ext == "" {
		c.Templates.Ext = DefaultTemplateExt
	}
	if !strings.HasPrefix(c.Templates.Ext, ".") {
		c.Templates.Ext = "." + c.Templates.Ext
	}
	if c.Render.Policy == "" {
		c.Render.Policy = compiler.PolicyStrict.String()
	}
	if c.Render.Sanitize == nil {
		sanitize := true
		c.Render.Sanitize = &sanitize
	}
	if c.Render.CacheSize == 0 {
		c.Render.CacheSize = compiler.DefaultCacheSize
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.MetricsPath == "" {
		c.Server.MetricsPath = DefaultMetricsPath
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var problems []string
	if _, err := compiler.ParsePolicy(c.Render.Policy); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Render.CacheSize < 0 {
		problems = append(problems, fmt.Sprintf("cache_size must not be negative, got %d", c.Render.CacheSize))
	}
	if !strings.HasPrefix(c.Server.MetricsPath, "/") {
		problems = append(problems, fmt.Sprintf("metrics_path must start with /, got %q", c.Server.MetricsPath))
	}
	if _, err := c.LogLevel(); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return errors.New("E212").WithDetail(strings.Join(problems, "; "))
	}
	return nil
}

// Policy returns the parsed SSR policy.
func (c *Config) Policy() compiler.Policy {
	p, err := compiler.ParsePolicy(c.Render.Policy)
	if err != nil {
		return compiler.PolicyStrict
	}
	return p
}

// SanitizeHTML reports whether v-html markup is sanitized.
func (c *Config) SanitizeHTML() bool {
	return c.Render.Sanitize == nil || *c.Render.Sanitize
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return level, nil
}

// TemplatesPath returns the absolute path to the template directory.
func (c *Config) TemplatesPath() string {
	if filepath.IsAbs(c.Templates.Dir) || c.configPath == "" {
		return c.Templates.Dir
	}
	return filepath.Join(c.Dir(), c.Templates.Dir)
}

// Exists checks if a config file exists in the directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing vdirective.yaml, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E210").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
