// SPDX-License-Identifier: MIT

// Package alist implements a typed client for an AList file-storage server.
package alist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

const successCode = 200

// Entry describes one child of a listed directory.
type Entry struct {
	Name     string    `json:"name"`
	IsDir    bool      `json:"is_dir"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// FileInfo is the download descriptor for a single object. RawURL may be
// empty when the storage backend does not expose a direct link; callers must
// check for that explicitly.
type FileInfo struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	RawURL string `json:"raw_url"`
	Sign   string `json:"sign"`
}

// envelope is the common AList response wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to an AList server using a pre-provisioned token.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates an AList client for the given base URL and token.
func New(base, token string, opts ...Option) *Client {
	c := &Client{
		base:  strings.TrimRight(base, "/"),
		token: token,
		http:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns the children of dir, in the order the server reports them.
func (c *Client) List(ctx context.Context, dir string) ([]Entry, error) {
	body := map[string]any{
		"path":     dir,
		"page":     1,
		"per_page": 0,
		"refresh":  false,
	}
	data, err := c.post(ctx, "list", "/api/fs/list", body)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Content []Entry `json:"content"`
		Total   int     `json:"total"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &APIError{Sentinel: ErrUpstreamBadResponse, Operation: "list", Err: err}
	}
	return payload.Content, nil
}

// Get fetches the download descriptor for the object at p.
func (c *Client) Get(ctx context.Context, p string) (*FileInfo, error) {
	data, err := c.post(ctx, "get", "/api/fs/get", map[string]any{"path": p})
	if err != nil {
		return nil, err
	}
	var info FileInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, &APIError{Sentinel: ErrUpstreamBadResponse, Operation: "get", Err: err}
	}
	return &info, nil
}

// Put uploads content to p, overwriting any existing object.
func (c *Client) Put(ctx context.Context, p string, content []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.base+"/api/fs/put", bytes.NewReader(content))
	if err != nil {
		return &APIError{Sentinel: ErrUpstream, Operation: "put", Err: err}
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("File-Path", url.PathEscape(p))
	req.Header.Set("As-Task", "false")
	req.Header.Set("Content-Type", "application/octet-stream")
	req.ContentLength = int64(len(content))

	res, err := c.http.Do(req)
	if err != nil {
		return transportError("put", err)
	}
	defer res.Body.Close() //nolint:errcheck

	env, err := decodeEnvelope("put", res)
	if err != nil {
		return err
	}
	if env.Code != successCode {
		return &APIError{Sentinel: ErrUpstream, Operation: "put", Status: res.StatusCode, Code: env.Code, Body: env.Message}
	}
	return nil
}

// Remove deletes the object at p. The AList remove endpoint addresses
// objects by parent directory plus name, so the path is split here.
func (c *Client) Remove(ctx context.Context, p string) error {
	dir, name := path.Split(strings.TrimRight(p, "/"))
	if dir != "/" {
		dir = strings.TrimRight(dir, "/")
	}
	body := map[string]any{"dir": dir, "names": []string{name}}
	_, err := c.post(ctx, "remove", "/api/fs/remove", body)
	return err
}

// Download fetches the raw bytes behind a descriptor URL.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &APIError{Sentinel: ErrUpstream, Operation: "download", Err: err}
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, transportError("download", err)
	}
	defer res.Body.Close() //nolint:errcheck

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, &APIError{Sentinel: ErrUpstream, Operation: "download", Status: res.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return io.ReadAll(res.Body)
}

// ReadObject resolves the descriptor for p and downloads its content.
// An object without a usable download URL yields ErrNoDownloadURL.
func (c *Client) ReadObject(ctx context.Context, p string) ([]byte, error) {
	info, err := c.Get(ctx, p)
	if err != nil {
		return nil, err
	}
	if info.RawURL == "" {
		return nil, &APIError{Sentinel: ErrNoDownloadURL, Operation: "get", Body: p}
	}
	return c.Download(ctx, info.RawURL)
}

// post issues a JSON POST to an AList endpoint and unwraps the envelope.
func (c *Client) post(ctx context.Context, op, endpoint string, body any) (json.RawMessage, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("alist: encode %s request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+endpoint, bytes.NewReader(buf))
	if err != nil {
		return nil, &APIError{Sentinel: ErrUpstream, Operation: op, Err: err}
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(op, err)
	}
	defer res.Body.Close() //nolint:errcheck

	env, err := decodeEnvelope(op, res)
	if err != nil {
		return nil, err
	}
	if env.Code != successCode {
		return nil, &APIError{Sentinel: ErrUpstream, Operation: op, Status: res.StatusCode, Code: env.Code, Body: env.Message}
	}
	return env.Data, nil
}

func decodeEnvelope(op string, res *http.Response) (*envelope, error) {
	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, &APIError{Sentinel: ErrUpstreamBadResponse, Operation: op, Status: res.StatusCode, Err: err}
	}
	return &env, nil
}

func transportError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &APIError{Sentinel: ErrTimeout, Operation: op, Err: err}
	}
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) && ne.Timeout() {
		return &APIError{Sentinel: ErrTimeout, Operation: op, Err: err}
	}
	return &APIError{Sentinel: ErrUpstreamUnavailable, Operation: op, Err: err}
}
