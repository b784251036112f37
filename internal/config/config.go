package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/giantswarm/mcp-vcenter/internal/logging"
)

// Environment variable names read by the resolver.
const (
	EnvHost         = "VCENTER_HOST"
	EnvUsername     = "VCENTER_USERNAME"
	EnvPassword     = "VCENTER_PASSWORD"
	EnvVerifySSL    = "VCENTER_VERIFY_SSL"
	EnvTimeout      = "VCENTER_TIMEOUT"
	EnvVCAPServices = "VCAP_SERVICES"
)

const (
	envValueFalse     = "false"
	sourceEnvironment = "environment"
)

// DefaultTimeout is used when VCENTER_TIMEOUT is unset or invalid.
const DefaultTimeout = 30 * time.Second

// ErrCredentialsNotFound is wrapped by the ConfigurationError returned when
// neither the environment nor a service binding provides credentials.
var ErrCredentialsNotFound = errors.New("vCenter credentials not found")

// ConfigurationError reports that no usable vCenter credentials exist.
type ConfigurationError struct {
	// Sources lists the credential sources that were tried, in order.
	Sources []string
	Err     error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v in %s; set %s, %s and %s or bind a vCenter service",
		e.Err, strings.Join(e.Sources, " or "), EnvHost, EnvUsername, EnvPassword)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Environment looks up a single variable. os.Getenv satisfies it.
type Environment func(key string) string

// MapEnvironment adapts a map to an Environment, mostly for tests.
func MapEnvironment(values map[string]string) Environment {
	return func(key string) string {
		return values[key]
	}
}

// Credentials is the minimal triple needed to authenticate against vCenter.
type Credentials struct {
	Host     string
	Username string
	Password string

	// Source names where the credentials came from, for logging only.
	Source string
}

func (c Credentials) complete() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

// ConnectionConfig holds everything the API client needs. It is not modified
// after Resolve returns it.
type ConnectionConfig struct {
	Host      string
	Username  string
	Password  string
	VerifySSL bool
	Timeout   time.Duration
}

// NewConnectionConfig builds a ConnectionConfig from credentials with default
// options.
func NewConnectionConfig(creds Credentials) ConnectionConfig {
	return ConnectionConfig{
		Host:      strings.TrimRight(creds.Host, "/"),
		Username:  creds.Username,
		Password:  creds.Password,
		VerifySSL: true,
		Timeout:   DefaultTimeout,
	}
}

// Resolve produces the connection configuration from env.
func Resolve(env Environment) (ConnectionConfig, error) {
	creds, err := ResolveCredentials(env)
	if err != nil {
		return ConnectionConfig{}, err
	}

	cfg := NewConnectionConfig(creds)
	cfg.VerifySSL = parseVerifySSL(env(EnvVerifySSL))
	cfg.Timeout = parseTimeout(env(EnvTimeout))
	return cfg, nil
}

// ResolveCredentials returns credentials from the environment, falling back to
// the VCAP_SERVICES service binding.
func ResolveCredentials(env Environment) (Credentials, error) {
	if creds, ok := credentialsFromEnv(env); ok {
		slog.Info("using vCenter credentials from environment variables", logging.Source(creds.Source))
		return creds, nil
	}

	if creds, ok := credentialsFromServiceBinding(env(EnvVCAPServices)); ok {
		slog.Info("using vCenter credentials from service binding", logging.Source(creds.Source))
		return creds, nil
	}

	return Credentials{}, &ConfigurationError{
		Sources: []string{"environment variables", "service binding (" + EnvVCAPServices + ")"},
		Err:     ErrCredentialsNotFound,
	}
}

func credentialsFromEnv(env Environment) (Credentials, bool) {
	creds := Credentials{
		Host:     env(EnvHost),
		Username: env(EnvUsername),
		Password: env(EnvPassword),
		Source:   sourceEnvironment,
	}
	return creds, creds.complete()
}

// parseVerifySSL only treats an explicit "false" as disabling verification.
func parseVerifySSL(value string) bool {
	return strings.ToLower(value) != envValueFalse
}

func parseTimeout(value string) time.Duration {
	if value == "" {
		return DefaultTimeout
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		slog.Warn("invalid VCENTER_TIMEOUT value, using default",
			slog.String("value", value),
			slog.Duration("default", DefaultTimeout))
		return DefaultTimeout
	}
	return time.Duration(seconds) * time.Second
}
