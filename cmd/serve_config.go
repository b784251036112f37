package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/giantswarm/mcp-vcenter/internal/config"
	"github.com/giantswarm/mcp-vcenter/internal/server"
)

// Environment variables read by the serve command.
const (
	envHost           = "HOST"
	envPort           = "PORT"
	envTransport      = "MCP_TRANSPORT"
	envLogFormat      = "LOG_FORMAT"
	envDebug          = "DEBUG"
	envMetricsEnabled = "METRICS_ENABLED"
	envMetricsAddr    = "METRICS_ADDR"
	envEnableHSTS     = "ENABLE_HSTS"
	envAllowedOrigins = "ALLOWED_ORIGINS"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

// envValueTrue is the string value used to enable boolean environment variables.
const envValueTrue = "true"

// ServeConfig holds all configuration for the serve command.
type ServeConfig struct {
	// Transport settings
	Transport string
	HTTPAddr  string

	// Endpoint paths
	SSEEndpoint     string
	MessageEndpoint string
	HTTPEndpoint    string

	DisableStreaming bool
	DebugMode        bool
	LogFormat        string

	// HTTP hardening, mostly relevant behind a router
	EnableHSTS     bool
	AllowedOrigins string

	Metrics MetricsServeConfig
}

// MetricsServeConfig holds configuration for the dedicated metrics server.
type MetricsServeConfig struct {
	Enabled bool
	Addr    string
}

// FileConfig is the optional TOML file passed with --config. Unset keys
// leave the corresponding setting alone.
type FileConfig struct {
	Transport        string             `toml:"transport,omitempty"`
	HTTPAddr         string             `toml:"http_addr,omitempty"`
	HTTPEndpoint     string             `toml:"http_endpoint,omitempty"`
	SSEEndpoint      string             `toml:"sse_endpoint,omitempty"`
	MessageEndpoint  string             `toml:"message_endpoint,omitempty"`
	DisableStreaming *bool              `toml:"disable_streaming,omitempty"`
	Debug            *bool              `toml:"debug,omitempty"`
	LogFormat        string             `toml:"log_format,omitempty"`
	EnableHSTS       *bool              `toml:"enable_hsts,omitempty"`
	AllowedOrigins   []string           `toml:"allowed_origins,omitempty"`
	Metrics          *FileMetricsConfig `toml:"metrics,omitempty"`
}

// FileMetricsConfig is the [metrics] table of the TOML file.
type FileMetricsConfig struct {
	Enabled *bool  `toml:"enabled,omitempty"`
	Addr    string `toml:"addr,omitempty"`
}

// ReadConfigFile loads a FileConfig from path.
func ReadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfigFile(data)
}

// ParseConfigFile decodes TOML data. Unknown keys are rejected so typos do
// not silently fall back to defaults.
func ParseConfigFile(data []byte) (*FileConfig, error) {
	cfg := &FileConfig{}
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode TOML: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown keys in config file: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// resolveServeConfig layers the sources for every setting: an explicitly set
// flag wins, then the TOML file, then the environment, then the flag default.
func resolveServeConfig(flags *pflag.FlagSet, cfg ServeConfig, file *FileConfig, env config.Environment) ServeConfig {
	if file == nil {
		file = &FileConfig{}
	}
	changed := func(name string) bool {
		return flags != nil && flags.Changed(name)
	}

	if !changed("transport") {
		pickString(&cfg.Transport, file.Transport, env(envTransport))
	}
	if !changed("http-addr") {
		pickString(&cfg.HTTPAddr, file.HTTPAddr, listenAddrFromEnv(env))
	}
	if !changed("http-endpoint") {
		pickString(&cfg.HTTPEndpoint, file.HTTPEndpoint, "")
	}
	if !changed("sse-endpoint") {
		pickString(&cfg.SSEEndpoint, file.SSEEndpoint, "")
	}
	if !changed("message-endpoint") {
		pickString(&cfg.MessageEndpoint, file.MessageEndpoint, "")
	}
	if !changed("disable-streaming") {
		pickBool(&cfg.DisableStreaming, file.DisableStreaming, "", "")
	}
	if !changed("debug") {
		pickBool(&cfg.DebugMode, file.Debug, env(envDebug), envDebug)
	}
	if !changed("log-format") {
		pickString(&cfg.LogFormat, file.LogFormat, env(envLogFormat))
	}
	if !changed("enable-hsts") {
		pickBool(&cfg.EnableHSTS, file.EnableHSTS, env(envEnableHSTS), envEnableHSTS)
	}
	if !changed("allowed-origins") {
		pickString(&cfg.AllowedOrigins, strings.Join(file.AllowedOrigins, ","), env(envAllowedOrigins))
	}

	metrics := file.Metrics
	if metrics == nil {
		metrics = &FileMetricsConfig{}
	}
	if !changed("metrics-enabled") {
		pickBool(&cfg.Metrics.Enabled, metrics.Enabled, env(envMetricsEnabled), envMetricsEnabled)
	}
	if !changed("metrics-addr") {
		pickString(&cfg.Metrics.Addr, metrics.Addr, env(envMetricsAddr))
	}

	return cfg
}

func pickString(target *string, fromFile, fromEnv string) {
	switch {
	case fromFile != "":
		*target = fromFile
	case fromEnv != "":
		*target = fromEnv
	}
}

func pickBool(target *bool, fromFile *bool, fromEnv, envName string) {
	if fromFile != nil {
		*target = *fromFile
		return
	}
	if b, ok := parseBoolEnv(fromEnv, envName); ok {
		*target = b
	}
}

// listenAddrFromEnv builds host:port from HOST and PORT. It returns "" when
// neither is set so the flag default stays in place.
func listenAddrFromEnv(env config.Environment) string {
	host, port := env(envHost), env(envPort)
	if host == "" && port == "" {
		return ""
	}
	if host == "" {
		host = defaultHost
	}
	if port == "" {
		port = defaultPort
	} else if _, ok := parseIntEnv(port, envPort); !ok {
		port = defaultPort
	}
	return net.JoinHostPort(host, port)
}

// parseIntEnv parses an integer from an environment variable value.
// Returns the parsed int and true if successful, or zero and false if parsing fails.
// Logs a warning if the value is present but invalid.
func parseIntEnv(value, envName string) (int, bool) {
	if value == "" {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("invalid integer in environment, ignoring it", "variable", envName, "value", value)
		return 0, false
	}
	return n, true
}

// parseBoolEnv parses a boolean from an environment variable value.
func parseBoolEnv(value, envName string) (bool, bool) {
	if value == "" {
		return false, false
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("invalid boolean in environment, ignoring it", "variable", envName, "value", value)
		return false, false
	}
	return b, true
}

func (c ServeConfig) validate() error {
	switch c.Transport {
	case transportStdio, server.TransportSSE, server.TransportStreamableHTTP:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s, %s)",
			c.Transport, transportStdio, server.TransportSSE, server.TransportStreamableHTTP)
	}
	if c.Transport != transportStdio && c.HTTPAddr == "" {
		return errors.New("--http-addr must not be empty for HTTP transports")
	}
	return nil
}

func (c ServeConfig) httpConfig() server.HTTPConfig {
	return server.HTTPConfig{
		Addr:             c.HTTPAddr,
		Transport:        c.Transport,
		HTTPEndpoint:     c.HTTPEndpoint,
		SSEEndpoint:      c.SSEEndpoint,
		MessageEndpoint:  c.MessageEndpoint,
		DisableStreaming: c.DisableStreaming,
		EnableHSTS:       c.EnableHSTS,
		AllowedOrigins:   c.AllowedOrigins,
	}
}
