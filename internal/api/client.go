package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/quizly/internal/store"
)

const defaultTimeout = 60 * time.Second

// Options configures a Client.
type Options struct {
	BaseURL string
	// Token is sent as a bearer token when non-empty.
	Token   string
	Timeout time.Duration

	// Transport overrides the underlying RoundTripper (tests).
	Transport http.RoundTripper
	// Events records every request when non-nil.
	Events store.EventRepo
	Logger *zap.Logger

	// Now supplies the cache-busting timestamp. Defaults to time.Now.
	Now func() time.Time
}

// Client talks to the quiz backend. It performs no retries, caching or
// batching; every method maps to exactly one HTTP request.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.Logger
	now     func() time.Time
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", opts.BaseURL)
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		http: &http.Client{
			Timeout:   timeout,
			Transport: WithRecording(opts.Transport, opts.Events, log),
		},
		log: log,
		now: now,
	}, nil
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, schema *Schema, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	return c.do(op, req, schema, out)
}

func (c *Client) postJSON(ctx context.Context, op, path string, in any, schema *Schema, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", op, err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, nil, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(op, req, schema, out)
}

// formFile is the single file part of a multipart request.
type formFile struct {
	field string
	name  string
	r     io.Reader
}

// formField is one plain multipart field. Order is preserved on the wire.
type formField struct {
	name  string
	value string
}

func (c *Client) postMultipart(ctx context.Context, op, path string, file *formFile, fields []formField, schema *Schema, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if file != nil {
		part, err := mw.CreateFormFile(file.field, file.name)
		if err != nil {
			return fmt.Errorf("%s: create file part: %w", op, err)
		}
		if _, err := io.Copy(part, file.r); err != nil {
			return fmt.Errorf("%s: read %s: %w", op, file.name, err)
		}
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return fmt.Errorf("%s: write field %s: %w", op, f.name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("%s: close form: %w", op, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(op, req, schema, out)
}

// do sends req and decodes a 2xx JSON body into out. A nil out discards the
// body, which may be empty.
func (c *Client) do(op string, req *http.Request, schema *Schema, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ServerError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.StatusCode, body),
		}
	}

	if out == nil {
		return nil
	}
	if err := validateBody(op, schema, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &InvalidResponseError{Op: op, Content: body, Err: err}
	}
	return nil
}

// stream sends a GET and copies a 2xx body to w.
func (c *Client) stream(ctx context.Context, op, path string, w io.Writer) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, &ServerError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, body)}
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &TransportError{Op: op, Err: fmt.Errorf("copy body: %w", err)}
	}
	return n, nil
}

func pathID(id string) string {
	return url.PathEscape(id)
}
