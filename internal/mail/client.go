// Package mail is a client for a transactional email HTTP API
// (Resend-compatible: send with attachments, domain verification).
package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

var ErrNotConfigured = errors.New("mail client not configured")

type Client struct {
	baseURL string
	apiKey  string
	from    string
	http    *retryablehttp.Client
}

// NewClient builds a mail API client. Transient failures are retried by the
// underlying HTTP client; sending is still best-effort from the caller's view.
func NewClient(baseURL, apiKey, from string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.HTTPClient.Timeout = 15 * time.Second
	rc.Logger = nil

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		from:    from,
		http:    rc,
	}
}

// From returns the configured default sender address.
func (c *Client) From() string { return c.from }

type Attachment struct {
	Filename string
	Content  []byte
}

type Message struct {
	From        string
	To          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

type Domain struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Send dispatches one message and returns the provider message id.
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	if c == nil || c.apiKey == "" {
		return "", ErrNotConfigured
	}
	if msg.From == "" {
		msg.From = c.from
	}
	if len(msg.To) == 0 {
		return "", errors.New("message has no recipients")
	}

	type wireAttachment struct {
		Filename string `json:"filename"`
		Content  string `json:"content"`
	}
	payload := map[string]any{
		"from":    msg.From,
		"to":      msg.To,
		"subject": msg.Subject,
		"html":    msg.HTML,
	}
	if len(msg.Attachments) > 0 {
		atts := make([]wireAttachment, 0, len(msg.Attachments))
		for _, a := range msg.Attachments {
			atts = append(atts, wireAttachment{
				Filename: a.Filename,
				Content:  base64.StdEncoding.EncodeToString(a.Content),
			})
		}
		payload["attachments"] = atts
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/emails", payload, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// CreateDomain registers a sending domain with the provider.
func (c *Client) CreateDomain(ctx context.Context, name string) (*Domain, error) {
	if c == nil || c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	var out Domain
	if err := c.do(ctx, http.MethodPost, "/domains", map[string]any{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyDomain triggers DNS verification for a registered domain.
func (c *Client) VerifyDomain(ctx context.Context, id string) (*Domain, error) {
	if c == nil || c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	var out Domain
	if err := c.do(ctx, http.MethodPost, "/domains/"+id+"/verify", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mail api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mail api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
