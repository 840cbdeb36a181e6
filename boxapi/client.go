package boxapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/funktionslust/boxbulk"

	"github.com/go-playground/validator"
	"go.uber.org/zap"
	"resty.dev/v3"
)

// DefaultBaseURL is the base URL of the content API.
const DefaultBaseURL = "https://api.box.com/2.0"

// Config represents the Client config structure.
type Config struct {
	BaseURL string `validate:"required,url"`
	// Token is the static bearer token sent with every request.
	Token   string `validate:"required"`
	Timeout time.Duration
}

// Client performs the remote operations and page fetches of the commands.
type Client struct {
	Cfg    Config
	http   *resty.Client
	logger *zap.Logger
}

// NewClient validates the config and returns a ready to use Client.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("client config validation error: %v", err)
	}
	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.Token).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}
	return &Client{
		Cfg:    cfg,
		http:   rc,
		logger: logger,
	}, nil
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.http.Close()
}

// APIError is an error response of the remote API.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// Error makes the APIError type implement Error interface.
func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// call performs the request and decodes the successful response into result if it's not nil.
func (c *Client) call(ctx context.Context, method, path string, query map[string]string, body, result interface{}) error {
	req := c.http.R().SetContext(ctx)
	if len(query) != 0 {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}
	res, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	c.logger.Debug("api call", zap.String("method", method), zap.String("path", path), zap.Int("status", res.StatusCode()))
	if res.IsError() {
		return decodeAPIError(res.StatusCode(), res.String())
	}
	return nil
}

// decodeAPIError builds an APIError from the error response body.
func decodeAPIError(status int, body string) error {
	apiErr := &APIError{}
	if err := json.Unmarshal([]byte(body), apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	apiErr.Status = status
	return apiErr
}

// fetchPage fetches one page of the collection at path and converts its entries.
func fetchPage[T any](ctx context.Context, c *Client, path string, cursor boxbulk.PageCursor, convert func(*T) boxbulk.Record) (*boxbulk.Page, error) {
	var col collection[T]
	query := map[string]string{
		"offset": strconv.Itoa(cursor.Offset),
		"limit":  strconv.Itoa(cursor.Size),
	}
	if err := c.call(ctx, http.MethodGet, path, query, nil, &col); err != nil {
		return nil, err
	}
	page := &boxbulk.Page{TotalCount: col.TotalCount, Entries: make([]boxbulk.Record, 0, len(col.Entries))}
	for i := range col.Entries {
		page.Entries = append(page.Entries, convert(&col.Entries[i]))
	}
	return page, nil
}

// kindMismatch is returned by operations called with a record of a foreign kind.
func kindMismatch(want boxbulk.Kind, record boxbulk.Record) error {
	return fmt.Errorf("%w: expected %s, got %s", boxbulk.ErrKindMismatch, want, record.Kind())
}

type collection[T any] struct {
	TotalCount int `json:"total_count"`
	Entries    []T `json:"entries"`
	Offset     int `json:"offset"`
	Limit      int `json:"limit"`
}

// ref is a reference to another remote entity.
type ref struct {
	Type  string `json:"type,omitempty"`
	ID    string `json:"id,omitempty"`
	Login string `json:"login,omitempty"`
	Name  string `json:"name,omitempty"`
}

func (r *ref) id() string {
	if r == nil {
		return ""
	}
	return r.ID
}

func (r *ref) login() string {
	if r == nil {
		return ""
	}
	return r.Login
}

func (r *ref) kind() string {
	if r == nil {
		return ""
	}
	return r.Type
}

// timestamp drops the zero time from request bodies.
func timestamp(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func parentRef(id string) *ref {
	if id == "" {
		return nil
	}
	return &ref{ID: id}
}
