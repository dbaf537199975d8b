// Package restprovider fetches reference records from a REST endpoint with a
// single batched request per resource:
//
//	GET {endpoint}/{resource}?id=1&id=2
//
// Records are read from a JSON envelope path (default "data"); a top-level
// array response is accepted as well.
package restprovider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"resty.dev/v3"

	"github.com/goliatone/go-refs/pkg/dataprovider"
	"github.com/goliatone/go-refs/pkg/record"
)

// Option configures the provider.
type Option func(*Provider)

// WithHTTPClient injects the HTTP client resty wraps.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		if client != nil {
			p.httpClient = client
		}
	}
}

// WithHeader adds a header sent with every request (e.g. Authorization).
func WithHeader(name, value string) Option {
	return func(p *Provider) {
		if name = strings.TrimSpace(name); name != "" {
			p.headers[name] = value
		}
	}
}

// WithIDParam overrides the identifier query parameter name.
func WithIDParam(name string) Option {
	return func(p *Provider) {
		if name = strings.TrimSpace(name); name != "" {
			p.idParam = name
		}
	}
}

// WithEnvelope overrides the gjson path holding the record array.
func WithEnvelope(path string) Option {
	return func(p *Provider) {
		p.envelope = strings.TrimSpace(path)
	}
}

// WithResourcePath maps a resource onto a different URL path segment.
func WithResourcePath(resource, path string) Option {
	return func(p *Provider) {
		p.paths[strings.TrimSpace(resource)] = strings.Trim(strings.TrimSpace(path), "/")
	}
}

// Provider implements dataprovider.Provider over HTTP.
type Provider struct {
	endpoint   string
	httpClient *http.Client
	client     *resty.Client
	headers    map[string]string
	idParam    string
	envelope   string
	paths      map[string]string
}

var _ dataprovider.Provider = (*Provider)(nil)

// New constructs a provider for endpoint.
func New(endpoint string, opts ...Option) (*Provider, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("restprovider: endpoint is required")
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("restprovider: parse endpoint: %w", err)
	}

	p := &Provider{
		endpoint: endpoint,
		headers:  make(map[string]string),
		idParam:  "id",
		envelope: "data",
		paths:    make(map[string]string),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(p)
	}

	client := resty.New()
	if p.httpClient != nil {
		client = resty.NewWithClient(p.httpClient)
	}
	for name, value := range p.headers {
		client.SetHeader(name, value)
	}
	p.client = client
	return p, nil
}

// Close releases the underlying resty client.
func (p *Provider) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Close()
}

// GetMany implements dataprovider.Provider.
func (p *Provider) GetMany(ctx context.Context, resource string, ids []record.Identifier) ([]record.Record, error) {
	resource = strings.TrimSpace(resource)
	if resource == "" {
		return nil, fmt.Errorf("restprovider: resource is required")
	}
	if len(ids) == 0 {
		return nil, nil
	}

	values := url.Values{}
	for _, id := range ids {
		values.Add(p.idParam, record.Key(id))
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParamsFromValues(values).
		Get(p.resourceURL(resource))
	if err != nil {
		return nil, fmt.Errorf("restprovider: get %s: %w", resource, err)
	}

	//nolint:errcheck
	defer resp.Body.Close()

	switch code := resp.StatusCode(); {
	case code == http.StatusNotFound:
		return nil, fmt.Errorf("%w %q", dataprovider.ErrUnknownResource, resource)
	case code >= http.StatusBadRequest:
		return nil, fmt.Errorf("restprovider: get %s: unexpected status code: %d", resource, code)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("restprovider: read %s: %w", resource, err)
	}
	return decodeRecords(body, p.envelope)
}

func (p *Provider) resourceURL(resource string) string {
	path := resource
	if mapped, ok := p.paths[resource]; ok && mapped != "" {
		path = mapped
	}
	return p.endpoint + "/" + url.PathEscape(path)
}

func decodeRecords(body []byte, envelope string) ([]record.Record, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("restprovider: invalid JSON payload")
	}

	result := gjson.ParseBytes(body)
	if envelope != "" {
		if nested := gjson.GetBytes(body, envelope); nested.IsArray() {
			result = nested
		}
	}
	if !result.IsArray() {
		return nil, fmt.Errorf("restprovider: payload does not contain a record array")
	}

	items := result.Array()
	out := make([]record.Record, 0, len(items))
	for _, item := range items {
		if !item.IsObject() {
			continue
		}
		value, ok := item.Value().(map[string]any)
		if !ok {
			continue
		}
		out = append(out, record.Record(value))
	}
	return out, nil
}
