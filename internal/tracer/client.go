// Package tracer talks to the analysis backend that catalogues taint sources
// and sinks and traces paths between them.
package tracer

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/taintgraph/internal/taint"
	"github.com/scan-io-git/taintgraph/pkg/shared/config"
	"github.com/scan-io-git/taintgraph/pkg/shared/httpclient"
)

const requestIDHeader = "X-Request-ID"

// Client is a thin wrapper over the backend's /taint endpoints.
type Client struct {
	http    *resty.Client
	baseURL string
	logger  hclog.Logger
}

// NewClient builds a client from the global config.
func NewClient(cfg *config.Config, logger hclog.Logger) *Client {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Client{
		http:    httpclient.InitializeRestyClient(logger, cfg),
		baseURL: strings.TrimRight(config.GetTracerBaseURL(cfg), "/"),
		logger:  logger,
	}
}

// QuerySources lists sources whose name matches pattern.
func (c *Client) QuerySources(ctx context.Context, pattern, language string) (*QuerySourcesResponse, error) {
	var out QuerySourcesResponse
	if err := c.getCatalog(ctx, "/taint/sources", pattern, language, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QuerySinks lists sinks whose name matches pattern.
func (c *Client) QuerySinks(ctx context.Context, pattern, language string) (*QuerySinksResponse, error) {
	var out QuerySinksResponse
	if err := c.getCatalog(ctx, "/taint/sinks", pattern, language, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TracePaths asks the backend for paths from req.SourceFunction to
// req.SinkFunction and converts them to TaintPaths. Segments without nodes
// are dropped.
func (c *Client) TracePaths(ctx context.Context, req TracePathRequest) ([]taint.TaintPath, error) {
	if strings.TrimSpace(req.SourceFunction) == "" || strings.TrimSpace(req.SinkFunction) == "" {
		return nil, fmt.Errorf("source and sink functions are required")
	}

	var out TracePathResponse
	resp, err := c.request(ctx).
		SetBody(req).
		SetResult(&out).
		Post(c.baseURL + "/taint/trace")
	if err := checkResponse(resp, err); err != nil {
		return nil, fmt.Errorf("trace %s -> %s: %w", req.SourceFunction, req.SinkFunction, err)
	}

	paths := make([]taint.TaintPath, 0, len(out.Paths))
	for _, seg := range out.Paths {
		if len(seg.Nodes) == 0 {
			c.logger.Warn("skipping empty path segment", "path_index", seg.PathIndex)
			continue
		}
		paths = append(paths, seg.ToTaintPath())
	}
	c.logger.Debug("traced taint paths", "source", req.SourceFunction, "sink", req.SinkFunction, "count", len(paths))
	return paths, nil
}

func (c *Client) getCatalog(ctx context.Context, endpoint, pattern, language string, out interface{}) error {
	r := c.request(ctx).SetResult(out)
	if pattern != "" {
		r.SetQueryParam("pattern", pattern)
	}
	if language != "" {
		r.SetQueryParam("language", language)
	}
	resp, err := r.Get(c.baseURL + endpoint)
	if err := checkResponse(resp, err); err != nil {
		return fmt.Errorf("query %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) request(ctx context.Context) *resty.Request {
	id := uuid.NewString()
	c.logger.Trace("backend request", "request_id", id)
	return c.http.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, id).
		SetHeader("Accept", "application/json")
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return nil
}
