package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"

	"github.com/giantswarm/mcp-vcenter/internal/logging"
)

// serviceKeywords identify a vCenter service in a service binding.
var serviceKeywords = []string{"vcenter", "vmware", "esxi"}

// boundService is one descriptor of a VCAP_SERVICES bucket.
type boundService struct {
	Name        string         `json:"name"`
	Label       string         `json:"label"`
	Credentials map[string]any `json:"credentials"`
}

// credentialsFromServiceBinding scans a VCAP_SERVICES payload for the first
// vCenter service carrying a complete credential triple. Malformed payloads are
// logged and treated as absent.
func credentialsFromServiceBinding(payload string) (Credentials, bool) {
	if payload == "" {
		return Credentials{}, false
	}

	buckets, err := decodeServiceBuckets(payload)
	if err != nil {
		slog.Warn("failed to parse service binding, ignoring it",
			slog.String("variable", EnvVCAPServices),
			logging.Err(err))
		return Credentials{}, false
	}

	for _, bucket := range buckets {
		for _, svc := range bucket {
			if !isVCenterService(svc) {
				continue
			}
			creds := Credentials{
				Host:     stringField(svc.Credentials, "host"),
				Username: stringField(svc.Credentials, "username"),
				Password: stringField(svc.Credentials, "password"),
				Source:   "service-binding:" + svc.Name,
			}
			if creds.complete() {
				return creds, true
			}
		}
	}

	return Credentials{}, false
}

// decodeServiceBuckets decodes the top-level object of a VCAP_SERVICES payload
// and returns its buckets in document order.
func decodeServiceBuckets(payload string) ([][]boundService, error) {
	dec := json.NewDecoder(strings.NewReader(payload))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object, got %v", tok)
	}

	var buckets [][]boundService
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return nil, err
		}
		var bucket []boundService
		if err := dec.Decode(&bucket); err != nil {
			return nil, fmt.Errorf("service type %v: %w", key, err)
		}
		buckets = append(buckets, bucket)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after service binding object")
	}
	return buckets, nil
}

func isVCenterService(svc boundService) bool {
	// A Caser is stateful, so each call gets its own.
	fold := cases.Fold()
	name := fold.String(svc.Name)
	label := fold.String(svc.Label)
	for _, keyword := range serviceKeywords {
		if strings.Contains(name, keyword) || strings.Contains(label, keyword) {
			return true
		}
	}
	return false
}

func stringField(values map[string]any, key string) string {
	s, _ := values[key].(string)
	return s
}
