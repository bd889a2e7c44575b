package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	graphql "github.com/hasura/go-graphql-client"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const (
	// DefaultAPIVersion is the Admin API version used when none is configured.
	DefaultAPIVersion = "2025-07"
	// AccessTokenHeader authenticates Admin API calls.
	AccessTokenHeader = "X-Shopify-Access-Token"

	tracerName      = "github.com/Apurer/pooch-profile-api/internal/clients/http/shopify"
	maxResponseBody = 4 << 20
)

// Client talks to the Shopify Admin GraphQL API and to staged upload targets.
type Client struct {
	endpoint    string
	accessToken string
	httpClient  *http.Client
	tracer      trace.Tracer
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for every call.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTracer records a span per outbound call.
func WithTracer(tr trace.Tracer) Option {
	return func(c *Client) {
		if tr != nil {
			c.tracer = tr
		}
	}
}

// NewClient builds a client for store, which is either a bare shop domain
// ("example.myshopify.com") or a base URL with scheme.
func NewClient(store, accessToken, apiVersion string, opts ...Option) (*Client, error) {
	store = strings.TrimRight(strings.TrimSpace(store), "/")
	if store == "" {
		return nil, errors.New("shopify store domain is required")
	}
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, errors.New("shopify access token is required")
	}
	apiVersion = strings.TrimSpace(apiVersion)
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	base := store
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	c := &Client{
		endpoint:    fmt.Sprintf("%s/admin/api/%s/graphql.json", base, apiVersion),
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		tracer:      nooptrace.NewTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Endpoint returns the GraphQL endpoint the client posts to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// responseCapture keeps the status and raw body of the last GraphQL response so failures
// can be classified without depending on the GraphQL client's error shapes.
type responseCapture struct {
	next       http.RoundTripper
	statusCode int
	body       []byte
}

func (r *responseCapture) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := r.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, err
	}
	r.statusCode = resp.StatusCode
	r.body = body
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

// mutate runs m as a named GraphQL mutation and classifies the outcome into the client's
// typed errors. m must be a pointer to a struct carrying graphql tags.
func (c *Client) mutate(ctx context.Context, operation string, m any, variables map[string]any) (err error) {
	if c == nil || c.httpClient == nil {
		return errors.New("shopify client not configured")
	}
	ctx, span := c.tracer.Start(ctx, "shopify."+operation, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("graphql.operation.name", operation)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	next := c.httpClient.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	capture := &responseCapture{next: next}
	gql := graphql.NewClient(c.endpoint, &http.Client{
		Transport:     capture,
		Timeout:       c.httpClient.Timeout,
		CheckRedirect: c.httpClient.CheckRedirect,
		Jar:           c.httpClient.Jar,
	}).WithRequestModifier(func(req *http.Request) {
		req.Header.Set("Accept", "application/json")
		req.Header.Set(AccessTokenHeader, c.accessToken)
	})

	mutateErr := gql.Mutate(ctx, m, variables, graphql.OperationName(operation))
	if capture.statusCode == 0 {
		if mutateErr == nil {
			mutateErr = errors.New("no response")
		}
		return fmt.Errorf("call %s: %w", operation, mutateErr)
	}
	span.SetAttributes(attribute.Int("http.response.status_code", capture.statusCode))

	status, body := capture.statusCode, capture.body
	if status < 200 || status > 299 {
		return &ResponseError{Operation: operation, StatusCode: status, Body: body}
	}
	var envelope graphQLResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return &DecodeError{Operation: operation, StatusCode: status, Body: body, Err: err}
	}
	if len(envelope.Errors) > 0 {
		return &GraphQLErrors{Operation: operation, StatusCode: status, Errors: envelope.Errors}
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return &DecodeError{Operation: operation, StatusCode: status, Body: body, Err: errors.New("response carries no data")}
	}
	if mutateErr != nil {
		return &DecodeError{Operation: operation, StatusCode: status, Body: body, Err: mutateErr}
	}
	return nil
}
