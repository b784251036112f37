package vcenter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/giantswarm/mcp-vcenter/internal/instrumentation"
	"github.com/giantswarm/mcp-vcenter/internal/logging"
	"go.opentelemetry.io/otel/attribute"
)

// maxErrorBody caps how much of a failed response is kept for logging.
const maxErrorBody = 4 << 10

// filters maps a query parameter to its value; empty values are omitted.
type filters map[string]string

// envelope is the vCenter REST list response wrapper.
type envelope struct {
	Value []any `json:"value"`
}

// buildURL joins endpoint onto the REST base URL and appends non-empty filters.
func (c *RESTClient) buildURL(endpoint string, f filters) string {
	u := c.baseURL + endpoint
	query := url.Values{}
	for key, value := range f {
		if value != "" {
			query.Set(key, value)
		}
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// fetch issues one authenticated GET and returns the records of the value
// envelope. A missing or null value yields an empty slice.
func (c *RESTClient) fetch(ctx context.Context, operation, endpoint string, f filters) (records []Record, err error) {
	target := c.buildURL(endpoint, f)
	start := time.Now()
	statusCode := 0

	ctx, span := instrumentation.StartVCenterSpan(ctx, operation,
		instrumentation.NewSpanAttributeBuilder().
			WithHost(logging.SanitizeHost(c.baseURL)).
			WithCluster(f[filterClusters]).
			WithResourcePool(f[filterResourcePools]).
			Build()...)
	defer func() {
		status := instrumentation.StatusSuccess
		if err != nil {
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err)
		} else {
			span.SetAttributes(attribute.Int(instrumentation.SpanAttrRecordCount, len(records)))
			instrumentation.SetSpanSuccess(span)
		}
		if statusCode != 0 {
			span.SetAttributes(attribute.Int(instrumentation.SpanAttrHTTPStatusCode, statusCode))
		}
		span.End()
		c.metrics.RecordVCenterRequest(ctx, operation, status, statusCode, time.Since(start))
	}()

	callErr := func(code int, body string, cause error) *RemoteCallError {
		return &RemoteCallError{
			Operation:  operation,
			URL:        target,
			StatusCode: code,
			Body:       body,
			Err:        cause,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, callErr(0, "", fmt.Errorf("failed to build request: %w", err))
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("sending vCenter request",
		logging.Operation(operation),
		slog.String("url", logging.SanitizeHost(target)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, callErr(0, "", err)
	}
	defer func() { _ = resp.Body.Close() }()
	statusCode = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, callErr(resp.StatusCode, string(body),
			fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, callErr(resp.StatusCode, "", fmt.Errorf("failed to decode response: %w", err))
	}

	records = make([]Record, 0, len(env.Value))
	for _, item := range env.Value {
		rec, ok := item.(map[string]any)
		if !ok {
			c.logger.Debug("skipping non-object record", logging.Operation(operation))
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// logFailure writes the error and, when a response was received, its status
// code and body.
func (c *RESTClient) logFailure(operation string, err error) {
	attrs := []any{logging.SanitizedErr(err)}

	var callErr *RemoteCallError
	if errors.As(err, &callErr) && callErr.StatusCode != 0 {
		attrs = append(attrs, logging.StatusCode(callErr.StatusCode))
		if callErr.Body != "" {
			attrs = append(attrs, slog.String("response_body", callErr.Body))
		}
	}

	logging.WithOperation(c.logger, operation).Error("vCenter API request failed", attrs...)
}
