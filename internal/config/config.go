package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv
const (
	EnvWorkers      = "REDIRLOOKUP_WORKERS"
	EnvTimeout      = "REDIRLOOKUP_TIMEOUT"
	EnvMaxRedirects = "REDIRLOOKUP_MAX_REDIRECTS"
	EnvLogLevel     = "REDIRLOOKUP_LOG_LEVEL"
	EnvProxy        = "REDIRLOOKUP_PROXY"
)

// AppConfig holds the complete application configuration
type AppConfig struct {
	Tracer  TracerConfig  `yaml:"tracer"`
	IO      IOConfig      `yaml:"io"`
	Proxies ProxyConfig   `yaml:"proxies"`
	Browser BrowserConfig `yaml:"browser"`
	Log     LogConfig     `yaml:"log"`
}

// TracerConfig holds the redirect tracer configuration
type TracerConfig struct {
	Workers           int           `yaml:"workers"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxRedirects      int           `yaml:"max_redirects"`
	UserAgents        []string      `yaml:"user_agents,omitempty"`
	FollowMetaRefresh bool          `yaml:"follow_meta_refresh"`
	Refang            bool          `yaml:"refang"`
}

// IOConfig holds the input/output configuration
type IOConfig struct {
	InputFile  string `yaml:"input_file"`
	OutputFile string `yaml:"output_file"`
	Indent     string `yaml:"indent"`
}

// ProxyConfig holds the proxy configuration
type ProxyConfig struct {
	Enabled bool     `yaml:"enabled"`
	Rotate  bool     `yaml:"rotate"`
	List    []string `yaml:"list"`
	Auth    struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"auth"`
}

// BrowserConfig holds the headless browser configuration
type BrowserConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Headless  bool          `yaml:"headless"`
	UserAgent string        `yaml:"user_agent"`
	WaitTime  time.Duration `yaml:"wait_time"`
}

// LogConfig holds the diagnostic output configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load loads the configuration from a YAML file. Settings missing from the
// file keep their default values.
func Load(filename string) (*AppConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", filename, err)
	}

	config := CreateDefault("", "")
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filename, err)
	}
	config.applyDefaults()

	return config, nil
}

// CreateDefault creates a default configuration
func CreateDefault(inputFile, outputFile string) *AppConfig {
	return &AppConfig{
		Tracer: TracerConfig{
			Workers:      DefaultWorkers,
			Timeout:      DefaultTimeout,
			MaxRedirects: DefaultMaxRedirects,
			UserAgents:   DefaultUserAgents,
		},
		IO: IOConfig{
			InputFile:  inputFile,
			OutputFile: outputFile,
			Indent:     DefaultIndent,
		},
		Proxies: ProxyConfig{
			Rotate: true,
			List:   []string{},
		},
		Browser: BrowserConfig{
			Headless:  true,
			UserAgent: DefaultUserAgents[0],
			WaitTime:  DefaultBrowserWait,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// LoadEnv loads the given .env files into the process environment, silently
// skipping files that do not exist, and applies the overrides to config.
func LoadEnv(config *AppConfig, filenames ...string) error {
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", name, err)
		}
	}
	return ApplyEnv(config)
}

// ApplyEnv overrides config with the REDIRLOOKUP_* environment variables.
func ApplyEnv(config *AppConfig) error {
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		config.Tracer.Workers = n
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		config.Tracer.Timeout = d
	}
	if v := os.Getenv(EnvMaxRedirects); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxRedirects, err)
		}
		config.Tracer.MaxRedirects = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv(EnvProxy); v != "" {
		var list []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				list = append(list, p)
			}
		}
		config.Proxies.List = list
		config.Proxies.Enabled = len(list) > 0
	}
	config.applyDefaults()
	return nil
}

func (c *AppConfig) applyDefaults() {
	if c.Tracer.Workers < 1 {
		c.Tracer.Workers = DefaultWorkers
	}
	if c.Tracer.Timeout <= 0 {
		c.Tracer.Timeout = DefaultTimeout
	}
	if len(c.Tracer.UserAgents) == 0 {
		c.Tracer.UserAgents = DefaultUserAgents
	}
	if c.IO.Indent == "" {
		c.IO.Indent = DefaultIndent
	}
	if c.Browser.UserAgent == "" {
		c.Browser.UserAgent = c.Tracer.UserAgents[0]
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}
