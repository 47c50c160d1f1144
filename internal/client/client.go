package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/Gen1023/financial-products/internal/domain"
	"github.com/Gen1023/financial-products/internal/metrics"
)

// ErrRequestFailed wraps every transport error and non-2xx response. Error
// payloads from the server are not interpreted.
var ErrRequestFailed = errors.New("products API request failed")

// ListResponse is the body of GET /products.
type ListResponse struct {
	Data []domain.Product `json:"data"`
}

// Result is the acknowledgment returned by create, update and delete.
type Result struct {
	Message string          `json:"message"`
	Data    *domain.Product `json:"data,omitempty"`
}

// Client talks to the products REST API under a single base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every call. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns every product.
func (c *Client) List(ctx context.Context) (ListResponse, error) {
	var out ListResponse
	body, err := c.do(ctx, "list", http.MethodGet, "/products", nil)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return ListResponse{}, fmt.Errorf("%w: decode list: %v", ErrRequestFailed, err)
	}
	return out, nil
}

// Create sends the full record; the server decides whether to accept it.
func (c *Client) Create(ctx context.Context, p domain.Product) (Result, error) {
	body, err := c.do(ctx, "create", http.MethodPost, "/products", p)
	if err != nil {
		return Result{}, err
	}
	return parseResult(body), nil
}

func (c *Client) GetByID(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	body, err := c.do(ctx, "get", http.MethodGet, productPath(id), nil)
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return domain.Product{}, fmt.Errorf("%w: decode product: %v", ErrRequestFailed, err)
	}
	return p, nil
}

// Update replaces the record stored under p.ID.
func (c *Client) Update(ctx context.Context, p domain.Product) (Result, error) {
	body, err := c.do(ctx, "update", http.MethodPut, productPath(p.ID), p)
	if err != nil {
		return Result{}, err
	}
	return parseResult(body), nil
}

func (c *Client) Delete(ctx context.Context, id string) (Result, error) {
	body, err := c.do(ctx, "delete", http.MethodDelete, productPath(id), nil)
	if err != nil {
		return Result{}, err
	}
	return parseResult(body), nil
}

func productPath(id string) string {
	return "/products/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, op, method, path string, payload any) (body []byte, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveAPICall(op, start, err)
		ev := zerolog.Ctx(ctx).Debug()
		if err != nil {
			ev = zerolog.Ctx(ctx).Warn().Err(err)
		}
		ev.Str("op", op).Str("method", method).Str("path", path).Dur("took", time.Since(start)).Msg("products api call")
	}()

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrRequestFailed, method, path, err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrRequestFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s %s: status %d", ErrRequestFailed, method, path, resp.StatusCode)
	}
	return body, nil
}

// parseResult accepts any 2xx body: JSON acks are decoded, anything else is
// kept as the message text.
func parseResult(body []byte) Result {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Result{}
	}
	var r Result
	if err := json.Unmarshal(body, &r); err != nil {
		return Result{Message: string(body)}
	}
	return r
}
