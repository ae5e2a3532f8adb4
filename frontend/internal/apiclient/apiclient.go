package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/folio-desk/folio/shared/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	jsonContentType = "application/json"
	formContentType = "application/x-www-form-urlencoded"

	outcomeOK        = "ok"
	outcomeRejected  = "rejected"
	outcomeTransport = "transport"
)

var backendRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "folio",
		Name:      "backend_requests_total",
		Help:      "Requests issued to the remote backend by operation and outcome",
	},
	[]string{"op", "outcome"},
)

// CredentialSource hands out the current bearer credential, empty when signed out.
type CredentialSource interface {
	Credential() string
}

// APIClient struct handles all communication with the backend API.
type APIClient struct {
	BaseURL    string
	HttpClient *http.Client
	creds      CredentialSource
}

// New creates a client for the backend at baseURL. creds may be nil, in which
// case no Authorization header is ever sent.
func New(baseURL string, creds CredentialSource) *APIClient {
	return &APIClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		// no timeout: the transport default applies
		HttpClient: &http.Client{},
		creds:      creds,
	}
}

// do is the single, unified helper for making API requests.
// authenticated requests carry the bearer credential when one is held.
func (c *APIClient) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, authenticated bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", jsonContentType)
	if authenticated && c.creds != nil {
		if token := c.creds.Credential(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		backendRequests.WithLabelValues(op, outcomeTransport).Inc()
		return nil, errors.Transport("Backend unavailable. Please try again.", err)
	}
	if isSuccess(resp.StatusCode) {
		backendRequests.WithLabelValues(op, outcomeOK).Inc()
	} else {
		backendRequests.WithLabelValues(op, outcomeRejected).Inc()
	}
	return resp, nil
}

func (c *APIClient) doJSON(ctx context.Context, op, method, path string, payload any, authenticated bool) (*http.Response, error) {
	if payload == nil {
		return c.do(ctx, op, method, path, nil, "", authenticated)
	}
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s data: %w", op, err)
	}
	return c.do(ctx, op, method, path, bytes.NewBuffer(jsonBody), jsonContentType, authenticated)
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// failure maps a non-2xx response to a typed error. The message comes from
// the body's detail field when present, otherwise fallback.
func failure(resp *http.Response, fallback string) error {
	bodyBytes, _ := io.ReadAll(resp.Body)
	message := detailMessage(bodyBytes)
	if message == "" {
		message = fallback
	}
	return rejection(resp.StatusCode, message)
}

// genericFailure ignores whatever the backend said.
func genericFailure(resp *http.Response, fallback string) error {
	_, _ = io.Copy(io.Discard, resp.Body)
	return rejection(resp.StatusCode, fallback)
}

func rejection(status int, message string) error {
	kind := errors.KindBackend
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		kind = errors.KindUnauthorized
	}
	return &errors.ErrorWithStatusCode{Message: message, StatusCode: status, Kind: kind}
}

// detailMessage extracts "detail" as either a string or a list of {msg} items.
func detailMessage(body []byte) string {
	var parsed struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	switch d := parsed.Detail.(type) {
	case string:
		return strings.TrimSpace(d)
	case []any:
		var msgs []string
		for _, item := range d {
			switch v := item.(type) {
			case string:
				msgs = append(msgs, v)
			case map[string]any:
				if m, ok := v["msg"].(string); ok && m != "" {
					msgs = append(msgs, m)
				}
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func decodeRecord(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Transport("Unexpected response from backend", err)
	}
	return raw, nil
}

// decodeList returns the elements of a JSON array body; anything else is an empty list.
func decodeList(r io.Reader) []any {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil
	}
	list, _ := raw.([]any)
	return list
}
