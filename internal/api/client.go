package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Makepad-fr/tada/internal/model"
)

// maxErrorBody caps how much of a failed response ends up in an error.
const maxErrorBody = 512

// Client implements Service over HTTP/JSON against a collection endpoint
// such as http://localhost:3000/todos.
type Client struct {
	base *url.URL
	http *http.Client
}

// New creates a client for the collection at baseURL.
func New(baseURL string) (*Client, error) {
	return NewWithHTTPClient(baseURL, http.DefaultClient)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, hc *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q: scheme and host required", baseURL)
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{base: u, http: hc}, nil
}

// Create implements Service.
func (c *Client) Create(ctx context.Context, t model.NewTask) (model.Task, error) {
	var out model.Task
	if err := c.do(ctx, "create", http.MethodPost, c.base.String(), t, &out); err != nil {
		return model.Task{}, err
	}
	if out.ID.IsZero() {
		return model.Task{}, &Error{Op: "create", Err: errors.New("server returned no id")}
	}
	return out, nil
}

// Remove implements Service.
func (c *Client) Remove(ctx context.Context, id model.ID) (map[string]any, error) {
	out := map[string]any{}
	if err := c.do(ctx, "remove", http.MethodDelete, c.item(id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List implements Service.
func (c *Client) List(ctx context.Context) ([]model.Task, error) {
	var out []model.Task
	if err := c.do(ctx, "list", http.MethodGet, c.base.String(), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Task{}
	}
	return out, nil
}

// UpdateTitle implements Service.
func (c *Client) UpdateTitle(ctx context.Context, id model.ID, title string) (model.Task, error) {
	return c.patch(ctx, id, model.Patch{Title: &title})
}

// UpdateStatus implements Service.
func (c *Client) UpdateStatus(ctx context.Context, id model.ID, status bool) (model.Task, error) {
	return c.patch(ctx, id, model.Patch{Status: &status})
}

// UpdateDone implements Service.
func (c *Client) UpdateDone(ctx context.Context, id model.ID, done bool) (model.Task, error) {
	return c.patch(ctx, id, model.Patch{Done: &done})
}

func (c *Client) patch(ctx context.Context, id model.ID, p model.Patch) (model.Task, error) {
	var out model.Task
	if err := c.do(ctx, "update", http.MethodPatch, c.item(id), p, &out); err != nil {
		return model.Task{}, err
	}
	return out, nil
}

func (c *Client) item(id model.ID) string {
	return c.base.JoinPath(url.PathEscape(id.String())).String()
}

// do performs one request. A non-nil body is sent as JSON; a 2xx response
// body is decoded into out.
func (c *Client) do(ctx context.Context, op, method, target string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Err: fmt.Errorf("encode body: %w", err)}
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{Op: op, Status: resp.StatusCode, Err: errors.New(msg)}
	}

	if out == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
	}
	return nil
}
