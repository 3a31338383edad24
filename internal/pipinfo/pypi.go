package pipinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/xerrors"
)

// DefaultPyPIURL is the public Python package index.
const DefaultPyPIURL = "https://pypi.org"

// PyPI reads the JSON API of a PyPI compatible index.
type PyPI struct {
	Client  *http.Client
	BaseURL string
}

var _ Index = new(PyPI)

func (p *PyPI) base() string {
	if p.BaseURL == "" {
		return DefaultPyPIURL
	}
	return strings.TrimSuffix(p.BaseURL, "/")
}

// ProjectURL returns the project page of name.
func (p *PyPI) ProjectURL(name string) string {
	return fmt.Sprintf("%s/project/%s/", p.base(), url.PathEscape(name))
}

// Fetch downloads the release metadata of name.
// HTTP failures are returned as errors; nothing is retried.
func (p *PyPI) Fetch(ctx context.Context, name string) (*Data, error) {
	u := fmt.Sprintf("%s/pypi/%s/json", p.base(), url.PathEscape(name))
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, xerrors.Errorf("failed to create request: %w", err)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/json")

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, xerrors.Errorf("failed to get %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: u, StatusCode: resp.StatusCode}
	}

	var d Data
	err = json.NewDecoder(resp.Body).Decode(&d)
	if err != nil {
		return nil, xerrors.Errorf("failed to decode %s: %w", u, err)
	}
	if d.Info.Name == "" {
		d.Info.Name = name
	}
	return &d, nil
}

// StatusError is returned for unsuccessful HTTP responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}
