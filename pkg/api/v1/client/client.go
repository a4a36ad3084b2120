// Package client provides the API client for talking to a running
// gateway.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/restbridge/restbridge/internal/auth"
	"github.com/restbridge/restbridge/internal/types"
	"github.com/restbridge/restbridge/pkg/api/v1/routes"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// Client is the interface for the API client
type Client interface {
	// Health Check
	HealthCheck(ctx context.Context) (map[string]string, error)

	// Auth
	Authenticate(ctx context.Context, req auth.Request) (string, error)

	// Model Endpoints
	BrowseRecords(ctx context.Context, model string, query url.Values) (types.PageResult, error)
	ReadRecord(ctx context.Context, model string, id int64, fields []string) (types.Record, error)
	AddRecord(ctx context.Context, model string, values types.Record) (types.CreateResponse, error)
	EditRecord(ctx context.Context, model string, id int64, values types.Record) error
	DeleteRecord(ctx context.Context, model string, id int64) error
}

var _ Client = &APIClient{}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string

	// Timeout is the request timeout
	Timeout time.Duration
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: routes.DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL string
	timeout time.Duration

	// AuthToken is sent as a bearer token on every request when set.
	AuthToken string
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (*APIClient, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return &APIClient{
		baseURL: opts.BaseURL,
		timeout: opts.Timeout,
	}, nil
}

// createAgent creates a new Fiber Agent for the given method and endpoint
func (c *APIClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	fullURL := c.baseURL + endpoint

	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	case http.MethodPatch:
		agent = fiber.Patch(fullURL)
	case http.MethodDelete:
		agent = fiber.Delete(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	// Set timeout from context or client default
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	agent.Set("Content-Type", "application/json")
	agent.Set("Accept", "application/json")
	if c.AuthToken != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.AuthToken)
	}

	if body != nil {
		agent.JSON(body)
	}

	return agent, nil
}

// doRequest sends the HTTP request and processes the response
func (c *APIClient) doRequest(agent *fiber.Agent, v interface{}) error {
	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("error sending request: %w", errs[0])
	}

	if statusCode < 200 || statusCode >= 300 {
		// Surface the server's error envelope when it decodes, the raw
		// body otherwise.
		message := string(body)
		var envelope types.ErrorResponse
		if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
			message = envelope.Error
		}
		return &fiber.Error{
			Code:    statusCode,
			Message: message,
		}
	}

	if v != nil && len(body) > 0 {
		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}

	return nil
}

// executeRequest creates an agent, sends the request, and processes the response
func (c *APIClient) executeRequest(ctx context.Context, method, endpoint string, body, response interface{}) error {
	agent, err := c.createAgent(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	return c.doRequest(agent, response)
}

// HealthCheck checks the health of the API server
func (c *APIClient) HealthCheck(ctx context.Context) (map[string]string, error) {
	var response map[string]string
	err := c.executeRequest(ctx, http.MethodGet, routes.HealthCheckURL(), nil, &response)
	return response, err
}

// Authenticate requests an access token and stores it on the client for
// subsequent calls.
func (c *APIClient) Authenticate(ctx context.Context, req auth.Request) (string, error) {
	var response types.AuthResponse
	if err := c.executeRequest(ctx, http.MethodPost, routes.AuthenticateURL(), req, &response); err != nil {
		return "", err
	}

	c.AuthToken = response.Token
	return response.Token, nil
}

// BrowseRecords lists a page of records of a model. query carries the
// filter conditions and the _page/_size/_order/_fields directives.
func (c *APIClient) BrowseRecords(ctx context.Context, model string, query url.Values) (types.PageResult, error) {
	var response types.PageResult
	err := c.executeRequest(ctx, http.MethodGet, routes.BrowseRecordsURL(model, query), nil, &response)
	return response, err
}

// ReadRecord fetches one record by id, optionally projected to fields.
func (c *APIClient) ReadRecord(ctx context.Context, model string, id int64, fields []string) (types.Record, error) {
	var query url.Values
	if len(fields) > 0 {
		query = url.Values{"fields": {strings.Join(fields, ",")}}
	}

	var response types.Record
	err := c.executeRequest(ctx, http.MethodGet, routes.ReadRecordURL(model, id, query), nil, &response)
	return response, err
}

// AddRecord creates a record and returns its id.
func (c *APIClient) AddRecord(ctx context.Context, model string, values types.Record) (types.CreateResponse, error) {
	var response types.CreateResponse
	err := c.executeRequest(ctx, http.MethodPost, routes.AddRecordURL(model), values, &response)
	return response, err
}

// EditRecord applies a partial update to one record.
func (c *APIClient) EditRecord(ctx context.Context, model string, id int64, values types.Record) error {
	return c.executeRequest(ctx, http.MethodPatch, routes.EditRecordURL(model, id), values, nil)
}

// DeleteRecord removes one record.
func (c *APIClient) DeleteRecord(ctx context.Context, model string, id int64) error {
	return c.executeRequest(ctx, http.MethodDelete, routes.DeleteRecordURL(model, id), nil, nil)
}
