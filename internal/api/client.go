// Package api talks to the remote todo collection.
//
// The contract is fixed:
//
//	GET    /todos?userId={id}  -> [todo]
//	POST   /todos              -> todo
//	DELETE /todos/{id}         -> anything 2xx
//
// Every call either returns its value or an error; there are no retries.
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
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/model"
)

// ErrInvalidResponse wraps bodies that do not match the todo contract.
var ErrInvalidResponse = errors.New("invalid response")

// StatusError reports a non-2xx response.
type StatusError struct {
	Op         string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %s", e.Op, e.Status)
}

// Options configure a Client.
type Options struct {
	BaseURL string
	UserID  int
	// Token is sent as a bearer token when non-empty.
	Token string
	// Timeout bounds each request. Zero means no timeout.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client is the remote resource client for one owner.
type Client struct {
	base   *url.URL
	userID int
	token  string
	http   *http.Client
	log    *log.Logger
}

// New validates opts and returns a client.
func New(opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", opts.BaseURL)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		base:   u,
		userID: opts.UserID,
		token:  opts.Token,
		http:   hc,
		log:    logger.WithPrefix("api"),
	}, nil
}

// UserID is the owner every call is scoped to.
func (c *Client) UserID() int { return c.userID }

// ListItems fetches the owner's full collection in server order.
func (c *Client) ListItems(ctx context.Context) ([]model.Item, error) {
	q := url.Values{}
	q.Set("userId", strconv.Itoa(c.userID))
	body, err := c.do(ctx, "list todos", http.MethodGet, "/todos", q, nil)
	if err != nil {
		return nil, err
	}
	if err := validatePayload(body); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	var items []model.Item
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("list todos: %w: %v", ErrInvalidResponse, err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// CreateItem persists d and returns the item with its server-assigned id.
func (c *Client) CreateItem(ctx context.Context, d model.Draft) (model.Item, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return model.Item{}, fmt.Errorf("create todo: %w", err)
	}
	body, err := c.do(ctx, "create todo", http.MethodPost, "/todos", nil, payload)
	if err != nil {
		return model.Item{}, err
	}
	if err := validatePayload(body); err != nil {
		return model.Item{}, fmt.Errorf("create todo: %w", err)
	}
	var it model.Item
	if err := json.Unmarshal(body, &it); err != nil {
		return model.Item{}, fmt.Errorf("create todo: %w: %v", ErrInvalidResponse, err)
	}
	return it, nil
}

// DeleteItem removes one item by id.
func (c *Client) DeleteItem(ctx context.Context, id int) error {
	_, err := c.do(ctx, "delete todo", http.MethodDelete, "/todos/"+strconv.Itoa(id), nil, nil)
	return err
}

func (c *Client) do(ctx context.Context, op, method, path string, q url.Values, payload []byte) ([]byte, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if q != nil {
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", "op", op, "request_id", reqID, "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	c.log.Debug("request",
		"method", method,
		"path", u.Path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"took", time.Since(start).Round(time.Millisecond),
	)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{Op: op, StatusCode: resp.StatusCode, Status: resp.Status}
		c.log.Warn("unexpected status", "op", op, "status", resp.StatusCode, "request_id", reqID)
		return nil, serr
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	return b, nil
}
