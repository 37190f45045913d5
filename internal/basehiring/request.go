package basehiring

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

const (
	formContentType = "application/x-www-form-urlencoded"
	acceptEncoding  = "gzip"
)

// Payload is a loosely typed JSON object as returned by the public API.
type Payload map[string]any

// postForm sends an authenticated form request and decodes the JSON object in the response.
func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values) (Payload, error) {
	if form == nil {
		form = url.Values{}
	}
	form.Set("access_token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL(endpoint), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", formContentType)

	resp, err := c.request(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		body = gz
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var payload Payload
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", endpoint, err)
	}

	if payload == nil {
		payload = Payload{}
	}

	return payload, nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	// The access token travels in the body, so the URL is safe to log.
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	return c.HTTPClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", acceptEncoding)
	req.Header.Set("Accept", "application/json")

	return req
}

// items returns the list stored under key. A missing or null key yields ok == false.
func (p Payload) items(key string) ([]any, bool) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return nil, false
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, false
	}

	return list, true
}
