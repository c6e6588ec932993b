// Package dvclient is a typed HTTP client for the DV workflow API, used by
// the dvctl terminal views and suitable for other Go callers.
package dvclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

// DefaultBaseURL is used when DV_API_URL is not set.
const DefaultBaseURL = "http://localhost:8000/api/v1"

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// New builds a client whose base URL comes from DV_API_URL, falling back to
// DefaultBaseURL.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    os.Getenv("DV_API_URL"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer credential, e.g. after Login.
func (c *Client) SetToken(token string) {
	c.token = token
}

// APIError is a non-2xx response decoded from the server envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s (%d): %s %v", e.Code, e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  *PageMeta       `json:"meta"`
	Error *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any, meta *PageMeta) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response (status %d): %w", res.StatusCode, err)
	}

	if res.StatusCode >= 400 || !env.Ok {
		apiErr := &APIError{Status: res.StatusCode, Code: "UNKNOWN", Message: http.StatusText(res.StatusCode)}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			if len(env.Error.Details) > 0 {
				// Details may be a field map or an arbitrary payload; only
				// the map form is surfaced.
				_ = json.Unmarshal(env.Error.Details, &apiErr.Details)
			}
		}
		return apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return err
		}
	}
	if meta != nil && env.Meta != nil {
		*meta = *env.Meta
	}
	return nil
}

// Login obtains a bearer credential and installs it on the client.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, http.MethodPost, "/login", nil, map[string]string{
		"email":    email,
		"password": password,
	}, &result, nil)
	if err != nil {
		return LoginResult{}, err
	}
	c.token = result.AccessToken
	return result, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil, nil, nil)
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var u User
	err := c.do(ctx, http.MethodGet, "/me", nil, nil, &u, nil)
	return u, err
}

func (c *Client) ListDVs(ctx context.Context, opts ListOptions) (DVPage, error) {
	query := url.Values{}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}
	if opts.OfficeCode != "" {
		query.Set("office_code", opts.OfficeCode)
	}
	if opts.Search != "" {
		query.Set("search", opts.Search)
	}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}

	var page DVPage
	err := c.do(ctx, http.MethodGet, "/dvs", query, nil, &page.Items, &page.Meta)
	return page, err
}

func (c *Client) GetDV(ctx context.Context, id uint) (DV, error) {
	var d DV
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/dvs/%d", id), nil, nil, &d, nil)
	return d, err
}

func (c *Client) CreateDV(ctx context.Context, input CreateDVInput) (DV, error) {
	var d DV
	err := c.do(ctx, http.MethodPost, "/dvs", nil, input, &d, nil)
	return d, err
}

func (c *Client) UpdateDV(ctx context.Context, id uint, input UpdateDVInput) (DV, error) {
	var d DV
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/dvs/%d", id), nil, input, &d, nil)
	return d, err
}

func (c *Client) DeleteDV(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/dvs/%d", id), nil, nil, nil, nil)
}

func (c *Client) ApproveDV(ctx context.Context, id uint) (DV, error) {
	var d DV
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/dvs/%d/approve", id), nil, nil, &d, nil)
	return d, err
}

func (c *Client) DisapproveDV(ctx context.Context, id uint, remarks string) (DV, error) {
	var d DV
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/dvs/%d/disapprove", id), nil, map[string]string{
		"remarks": remarks,
	}, &d, nil)
	return d, err
}

func (c *Client) DashboardSummary(ctx context.Context) (DashboardSummary, error) {
	var s DashboardSummary
	err := c.do(ctx, http.MethodGet, "/dashboard/summary", nil, nil, &s, nil)
	return s, err
}

// ShowApprovalActions is the advisory view gate: approval controls are shown
// to admins and reviewers when the record is awaiting a decision. The server
// enforces the real policy.
func ShowApprovalActions(role, status string) bool {
	if status != "submitted" {
		return false
	}
	return role == "admin" || role == "reviewer"
}
