package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/viant/caseflow/client/auth/transport"
	"github.com/viant/caseflow/schema"
	"golang.org/x/oauth2"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const maxErrorBody = 4096

// Report assets
const (
	AssetData  = "data"
	AssetModel = "model"
)

// Client represents CaseFlow API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, options ...Option) *Client {
	ret := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Login exchanges username and password for an access token; the request is anonymous
func (c *Client) Login(ctx context.Context, username, password string) (*oauth2.Token, error) {
	var response schema.TokenResponse
	err := c.do(transport.WithAnonymous(ctx), http.MethodPost, "/auth/login", &schema.LoginRequest{Username: username, Password: password}, &response)
	if err != nil {
		if schema.IsUnauthorized(err) {
			return nil, schema.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	if response.AccessToken == "" {
		return nil, errors.New("failed to login: empty access token")
	}
	return &oauth2.Token{AccessToken: response.AccessToken, TokenType: response.TokenType}, nil
}

// Identity fetches identity of the given token
func (c *Client) Identity(ctx context.Context, token string) (*schema.Identity, error) {
	if token == "" {
		return nil, schema.ErrNoCredential
	}
	identity := &schema.Identity{}
	if err := c.do(transport.WithAuthToken(ctx, token), http.MethodGet, "/auth/me", nil, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// Tasks lists published tasks
func (c *Client) Tasks(ctx context.Context) ([]*schema.Task, error) {
	var tasks []*schema.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Task returns task by slug
func (c *Client) Task(ctx context.Context, slug string) (*schema.Task, error) {
	task := &schema.Task{}
	if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(slug), nil, task); err != nil {
		return nil, err
	}
	return task, nil
}

// SubmitForm posts a form payload
func (c *Client) SubmitForm(ctx context.Context, form string, payload interface{}) error {
	return c.do(ctx, http.MethodPost, "/forms/"+url.PathEscape(form), payload, nil)
}

// Dataset returns raw dataset document
func (c *Client) Dataset(ctx context.Context, name string) (json.RawMessage, error) {
	var data json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/data/"+url.PathEscape(name), nil, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// Report returns the analysis report of a study, e.g. digital_inequality
func (c *Client) Report(ctx context.Context, name string) (json.RawMessage, error) {
	var data json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/"+url.PathEscape(name)+"/report", nil, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// ReportAsset downloads a raw study asset: "data" (CSV) or "model"
func (c *Client) ReportAsset(ctx context.Context, name, asset string) ([]byte, error) {
	switch asset {
	case AssetData, AssetModel:
	default:
		return nil, fmt.Errorf("unsupported report asset: %v", asset)
	}
	var data []byte
	if err := c.do(ctx, http.MethodGet, "/"+url.PathEscape(name)+"/"+asset, nil, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, result interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	switch actual := result.(type) {
	case nil:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case *[]byte:
		if *actual, err = io.ReadAll(resp.Body); err != nil {
			return fmt.Errorf("failed to read %v %v response: %w", method, path, err)
		}
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode %v %v response: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	ret := schema.NewError(resp.StatusCode, "")
	if err := json.Unmarshal(data, ret); err != nil || ret.Message == "" {
		ret.Message = strings.TrimSpace(string(data))
	}
	ret.StatusCode = resp.StatusCode
	return ret
}
