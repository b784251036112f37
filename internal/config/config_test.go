package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vcapVCenter = `{
  "user-provided": [
    {
      "name": "my-vcenter",
      "label": "user-provided",
      "credentials": {
        "host": "https://binding-vcenter.example.com/",
        "username": "binding-user",
        "password": "binding-pass"
      }
    }
  ]
}`

func TestResolve_EnvironmentDefaults(t *testing.T) {
	env := MapEnvironment(map[string]string{
		EnvHost:     "https://vcenter.example.com",
		EnvUsername: "administrator@vsphere.local",
		EnvPassword: "secret",
	})

	cfg, err := Resolve(env)
	require.NoError(t, err)

	assert.Equal(t, "https://vcenter.example.com", cfg.Host)
	assert.Equal(t, "administrator@vsphere.local", cfg.Username)
	assert.Equal(t, "secret", cfg.Password)
	assert.True(t, cfg.VerifySSL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestResolve_EnvironmentTakesPriorityOverBinding(t *testing.T) {
	env := MapEnvironment(map[string]string{
		EnvHost:         "https://env-vcenter.example.com",
		EnvUsername:     "env-user",
		EnvPassword:     "env-pass",
		EnvVCAPServices: vcapVCenter,
	})

	cfg, err := Resolve(env)
	require.NoError(t, err)

	assert.Equal(t, "https://env-vcenter.example.com", cfg.Host)
	assert.Equal(t, "env-user", cfg.Username)
	assert.True(t, cfg.VerifySSL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestResolve_TrailingSlashStripped(t *testing.T) {
	env := MapEnvironment(map[string]string{
		EnvHost:     "https://vcenter.example.com//",
		EnvUsername: "user",
		EnvPassword: "pass",
	})

	cfg, err := Resolve(env)
	require.NoError(t, err)
	assert.Equal(t, "https://vcenter.example.com", cfg.Host)
}

func TestResolve_OptionalSettings(t *testing.T) {
	tests := []struct {
		name            string
		verifySSL       string
		timeout         string
		expectedVerify  bool
		expectedTimeout time.Duration
	}{
		{
			name:            "unset values use defaults",
			expectedVerify:  true,
			expectedTimeout: 30 * time.Second,
		},
		{
			name:            "verify false disables verification",
			verifySSL:       "false",
			expectedVerify:  false,
			expectedTimeout: 30 * time.Second,
		},
		{
			name:            "verify FALSE is case-insensitive",
			verifySSL:       "FALSE",
			expectedVerify:  false,
			expectedTimeout: 30 * time.Second,
		},
		{
			name:            "verify with any other value enables verification",
			verifySSL:       "no",
			expectedVerify:  true,
			expectedTimeout: 30 * time.Second,
		},
		{
			name:            "valid timeout",
			timeout:         "45",
			expectedVerify:  true,
			expectedTimeout: 45 * time.Second,
		},
		{
			name:            "invalid timeout falls back to default",
			timeout:         "invalid",
			expectedVerify:  true,
			expectedTimeout: 30 * time.Second,
		},
		{
			name:            "negative timeout falls back to default",
			timeout:         "-5",
			expectedVerify:  true,
			expectedTimeout: 30 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := MapEnvironment(map[string]string{
				EnvHost:      "https://vcenter.example.com",
				EnvUsername:  "user",
				EnvPassword:  "pass",
				EnvVerifySSL: tt.verifySSL,
				EnvTimeout:   tt.timeout,
			})

			cfg, err := Resolve(env)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedVerify, cfg.VerifySSL)
			assert.Equal(t, tt.expectedTimeout, cfg.Timeout)
		})
	}
}

func TestResolve_NoSources(t *testing.T) {
	_, err := Resolve(MapEnvironment(nil))
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.True(t, errors.Is(err, ErrCredentialsNotFound))
	assert.Contains(t, err.Error(), "environment variables")
	assert.Contains(t, err.Error(), EnvVCAPServices)
}

func TestResolve_PartialEnvironmentFallsBackToBinding(t *testing.T) {
	env := MapEnvironment(map[string]string{
		EnvHost:         "https://env-vcenter.example.com",
		EnvUsername:     "env-user",
		EnvVCAPServices: vcapVCenter,
	})

	cfg, err := Resolve(env)
	require.NoError(t, err)
	assert.Equal(t, "https://binding-vcenter.example.com", cfg.Host)
	assert.Equal(t, "binding-user", cfg.Username)
	assert.Equal(t, "binding-pass", cfg.Password)
}

func TestResolveCredentials_ServiceBinding(t *testing.T) {
	tests := []struct {
		name         string
		payload      string
		expectFound  bool
		expectedHost string
	}{
		{
			name:         "matches on name",
			payload:      vcapVCenter,
			expectFound:  true,
			expectedHost: "https://binding-vcenter.example.com/",
		},
		{
			name: "matches on label case-insensitively",
			payload: `{"vsphere": [{"name": "infra", "label": "VMware-vSphere",
				"credentials": {"host": "https://label.example.com", "username": "u", "password": "p"}}]}`,
			expectFound:  true,
			expectedHost: "https://label.example.com",
		},
		{
			name: "esxi keyword",
			payload: `{"hosts": [{"name": "lab-ESXi", "label": "host",
				"credentials": {"host": "https://esxi.example.com", "username": "u", "password": "p"}}]}`,
			expectFound:  true,
			expectedHost: "https://esxi.example.com",
		},
		{
			name: "mysql service never matches",
			payload: `{"p.mysql": [{"name": "db", "label": "mysql",
				"credentials": {"host": "mysql.example.com", "username": "u", "password": "p"}}]}`,
			expectFound: false,
		},
		{
			name: "incomplete vCenter credentials are skipped",
			payload: `{"user-provided": [
				{"name": "vcenter-a", "label": "x", "credentials": {"host": "https://a.example.com", "username": "u"}},
				{"name": "vcenter-b", "label": "x", "credentials": {"host": "https://b.example.com", "username": "u", "password": "p"}}
			]}`,
			expectFound:  true,
			expectedHost: "https://b.example.com",
		},
		{
			name: "non-string credential fields are ignored",
			payload: `{"user-provided": [{"name": "vcenter", "label": "x",
				"credentials": {"host": "https://a.example.com", "username": "u", "password": 1234}}]}`,
			expectFound: false,
		},
		{
			name:        "malformed JSON is treated as absent",
			payload:     `{"user-provided": [`,
			expectFound: false,
		},
		{
			name:        "empty payload",
			payload:     "",
			expectFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := ResolveCredentials(MapEnvironment(map[string]string{
				EnvVCAPServices: tt.payload,
			}))

			if !tt.expectFound {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrCredentialsNotFound))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedHost, creds.Host)
			assert.Contains(t, creds.Source, "service-binding:")
		})
	}
}

func TestResolveCredentials_BucketsScannedInDocumentOrder(t *testing.T) {
	payload := `{
		"zz-user-provided": [{"name": "vcenter-a", "label": "x", "credentials": {"host": "https://a.example.com", "username": "u", "password": "p"}}],
		"aa-vmware": [{"name": "vcenter-b", "label": "x", "credentials": {"host": "https://b.example.com", "username": "u", "password": "p"}}]
	}`

	for i := 0; i < 10; i++ {
		creds, err := ResolveCredentials(MapEnvironment(map[string]string{EnvVCAPServices: payload}))
		require.NoError(t, err)
		assert.Equal(t, "https://a.example.com", creds.Host)
		assert.Equal(t, "service-binding:vcenter-a", creds.Source)
	}
}

func TestResolveCredentials_MalformedServiceBinding(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not JSON", payload: `{not json`},
		{name: "top-level array", payload: `[{"name": "vcenter"}]`},
		{name: "bucket is not a list", payload: `{"vmware": {"name": "vcenter"}}`},
		{name: "trailing data", payload: `{"vmware": []} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveCredentials(MapEnvironment(map[string]string{EnvVCAPServices: tt.payload}))
			assert.ErrorIs(t, err, ErrCredentialsNotFound)
		})
	}
}
