// Package steam forwards requests to the Steam Web API, appending the
// server-held API key, and narrows the responses to the parts the
// dashboard needs.
package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the Steam Web API root.
const DefaultBaseURL = "https://api.steampowered.com"

// CS2AppID is the Steam application ID of Counter-Strike 2.
const CS2AppID = 730

// Client calls the Steam Web API.
// No caching and no retries, every call is a fresh request.
type Client struct {
	BaseURL string
	Key     string
	HTTP    *http.Client
}

// New makes a client with the given request timeout, zero means no timeout.
func New(baseURL, key string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Key:     key,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Configured reports whether the client has an API key.
func (c *Client) Configured() bool { return c.Key != "" }

func (c *Client) checkConfigured() error {
	if !c.Configured() {
		return notConfigured()
	}
	return nil
}

// get issues a GET request to the path with the given query parameters
// and decodes the JSON body into dst.
func (c *Client) get(ctx context.Context, path string, params url.Values, dst any) error {
	if err := c.checkConfigured(); err != nil {
		return err
	}

	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("key", c.Key)

	u := c.BaseURL + path + "?" + q.Encode()
	log.Printf("[DEBUG] steam request: %s", c.redact(u))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return upstream(0, fmt.Sprintf("make request %s: %v", path, err), err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		// url.Error carries the full URL, including the key
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return upstream(0, fmt.Sprintf("steam request %s failed: %s", path, c.redact(err.Error())), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return upstream(resp.StatusCode, fmt.Sprintf("read response %s: %v", path, err), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := strings.TrimSpace(c.redact(string(body)))
		if text == "" {
			text = "unknown error"
		}
		log.Printf("[WARN] steam api error %d on %s: %s", resp.StatusCode, path, text)
		return upstream(resp.StatusCode, fmt.Sprintf("steam api error %d: %s", resp.StatusCode, text), nil)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return upstream(resp.StatusCode, fmt.Sprintf("decode response %s: %v", path, err), err)
	}

	log.Printf("[DEBUG] steam response %s: %d, %d bytes", path, resp.StatusCode, len(body))
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

// redact replaces every occurrence of the key in s.
func (c *Client) redact(s string) string {
	if c.Key == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.QueryEscape(c.Key), "***")
	return strings.ReplaceAll(s, c.Key, "***")
}
