package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/resource-management/internal"
	"github.com/frahmantamala/resource-management/internal/auth"
	"github.com/frahmantamala/resource-management/internal/department"
	"github.com/frahmantamala/resource-management/internal/report"
	"github.com/frahmantamala/resource-management/internal/resource"
	"github.com/frahmantamala/resource-management/internal/submission"
	"github.com/go-resty/resty/v2"
)

const (
	pathLogin       = "/auth/login"
	pathMe          = "/users/me"
	pathReport      = "/reports/business-controller"
	pathResources   = "/resources"
	pathDepartments = "/departments"
	pathAllocations = "/allocations"
	pathSubmissions = "/submissions"
	pathReminders   = "/submissions/reminders"
	pathExport      = "/submissions/export"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// errorEnvelope covers both error bodies the backend writes.
type errorEnvelope struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

func decodeAPIError(resp *resty.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode(), Message: resp.Status()}

	var env errorEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err == nil {
		switch {
		case env.Error != nil:
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		case env.Message != "":
			apiErr.Message = env.Message
		}
	}
	return apiErr
}

// Client talks to the REST backend. GET responses are cached by path and query.
type Client struct {
	http     *resty.Client
	cache    *Cache
	shortTTL time.Duration
	longTTL  time.Duration
	logger   *slog.Logger
}

func NewClient(cfg internal.DashboardConfig, logger *slog.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	hc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIBaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if cfg.AccessToken != "" {
		hc.SetAuthToken(cfg.AccessToken)
	}

	return &Client{
		http:     hc,
		cache:    NewCache(),
		shortTTL: cfg.ShortCacheTTL,
		longTTL:  cfg.LongCacheTTL,
		logger:   logger,
	}
}

func (c *Client) Cache() *Cache {
	return c.cache
}

// Login exchanges credentials for tokens and uses the access token from then on.
func (c *Client) Login(ctx context.Context, email, password string) (*auth.AuthTokens, error) {
	var tokens auth.AuthTokens
	if err := c.postJSON(ctx, pathLogin, auth.LoginDTO{Email: email, Password: password}, &tokens); err != nil {
		return nil, err
	}
	c.http.SetAuthToken(tokens.AccessToken)
	c.cache.Clear()
	return &tokens, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*internal.User, error) {
	var u internal.User
	if err := c.getJSON(ctx, pathMe, nil, 0, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) BusinessControllerReport(ctx context.Context, req report.GenerateRequest) (*report.GenerateResponse, error) {
	var resp report.GenerateResponse
	if err := c.postJSON(ctx, pathReport, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Resources(ctx context.Context) ([]resource.Resource, error) {
	var out []resource.Resource
	if err := c.getJSON(ctx, pathResources, nil, c.shortTTL, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Departments(ctx context.Context) ([]department.DepartmentResponse, error) {
	var out []department.DepartmentResponse
	if err := c.getJSON(ctx, pathDepartments, nil, c.longTTL, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Allocations(ctx context.Context) ([]resource.Allocation, error) {
	var out []resource.Allocation
	if err := c.getJSON(ctx, pathAllocations, nil, c.shortTTL, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Submissions(ctx context.Context, week, dept string) ([]submission.Record, error) {
	query := url.Values{"week": []string{week}}
	if dept != "" {
		query.Set("department", dept)
	}

	var out []submission.Record
	if err := c.getJSON(ctx, pathSubmissions, query, c.shortTTL, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendReminders posts one batch. A successful batch drops every cached overview.
func (c *Client) SendReminders(ctx context.Context, req submission.ReminderRequest) (*submission.ReminderResponse, error) {
	var out submission.ReminderResponse
	if err := c.postJSON(ctx, pathReminders, req, &out); err != nil {
		return nil, err
	}
	c.cache.Invalidate(pathSubmissions)
	return &out, nil
}

func (c *Client) ExportSubmissions(ctx context.Context, week, dept string) ([]byte, error) {
	query := url.Values{"weekStartDate": []string{week}}
	if dept != "" {
		query.Set("department", dept)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet").
		SetQueryParamsFromValues(query).
		Get(pathExport)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", pathExport, err)
	}
	if resp.IsError() {
		return nil, decodeAPIError(resp)
	}
	return resp.Body(), nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, ttl time.Duration, out interface{}) error {
	key := path
	if len(query) > 0 {
		key += "?" + query.Encode()
	}

	if ttl > 0 {
		if body, ok := c.cache.Get(key); ok {
			c.logger.Debug("dashboard cache hit", "key", key)
			return json.Unmarshal(body, out)
		}
	}

	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	resp, err := req.Get(path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.IsError() {
		return decodeAPIError(resp)
	}

	body := resp.Body()
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if ttl > 0 {
		c.cache.Set(key, body, ttl)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	if resp.IsError() {
		return decodeAPIError(resp)
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
