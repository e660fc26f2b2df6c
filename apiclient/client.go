package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/go-resty/resty/v2"
	"github.com/gogf/gf/v2/util/gconv"
	"github.com/sinder-app/sinder/constants"
	"github.com/sinder-app/sinder/log"
	"github.com/sinder-app/sinder/server/handle/api"
	"github.com/sinder-app/sinder/sin"
	"net/http"
	"net/url"
	"strings"
)

// ResponseError is a non-2xx answer from the read api.
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("read api: %d %s", e.StatusCode, e.Message)
}

type Options struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Options)

// WithBaseURL returns an Option that sets the read api base url.
func WithBaseURL(u string) func(*Options) {
	return func(options *Options) {
		options.baseURL = u
	}
}

// WithHTTPClient returns an Option that sends requests through c.
func WithHTTPClient(c *http.Client) func(*Options) {
	return func(options *Options) {
		options.httpClient = c
	}
}

// Client talks to the read api.
type Client struct {
	options *Options
	cli     *resty.Client
}

func New(opts ...Option) *Client {
	c := &Client{}
	c.options = &Options{}
	for _, opt := range opts {
		opt(c.options)
	}
	if c.options.baseURL == "" {
		c.options.baseURL = constants.DefaultAPIURL
	}
	if c.options.httpClient != nil {
		c.cli = resty.NewWithClient(c.options.httpClient)
	} else {
		c.cli = resty.New()
	}
	c.cli.SetBaseURL(strings.TrimRight(c.options.baseURL, "/")).
		SetHeader("Accept", "application/json")
	return c
}

func (c *Client) BaseURL() string {
	return c.options.baseURL
}

func (c *Client) Health(ctx context.Context) (*api.HealthResp, error) {
	resp, err := c.cli.R().SetContext(ctx).Get("/api/health")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		errResp := &api.HealthErrResp{}
		_ = json.Unmarshal(resp.Body(), errResp)
		return nil, &ResponseError{StatusCode: resp.StatusCode(), Message: errResp.Error}
	}
	health := &api.HealthResp{}
	if err := json.Unmarshal(resp.Body(), health); err != nil {
		return nil, fmt.Errorf("decode health: %w", err)
	}
	return health, nil
}

// SinsQuery holds /api/sins parameters. Zero values are left to the
// server defaults.
type SinsQuery struct {
	Limit  int
	Offset int
	Active string
}

// Sins fetches a page of sins. A missing or malformed list decodes as an
// empty one.
func (c *Client) Sins(ctx context.Context, q SinsQuery) (*api.SinsResp, error) {
	params := map[string]string{}
	if q.Limit != 0 {
		params["limit"] = gconv.String(q.Limit)
	}
	if q.Offset != 0 {
		params["offset"] = gconv.String(q.Offset)
	}
	if q.Active != "" {
		params["active"] = q.Active
	}
	resp, err := c.cli.R().SetContext(ctx).SetQueryParams(params).Get("/api/sins")
	if err != nil {
		return nil, err
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	var raw struct {
		Sins    json.RawMessage `json:"sins"`
		Total   int             `json:"total"`
		HasMore bool            `json:"hasMore"`
	}
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("decode sins: %w", err)
	}
	out := &api.SinsResp{Total: raw.Total, HasMore: raw.HasMore}
	if len(raw.Sins) > 0 {
		if err := json.Unmarshal(raw.Sins, &out.Sins); err != nil {
			log.Clnt.Warnf("discarding malformed sin list: %v", err)
			out.Sins = nil
		}
	}
	if out.Sins == nil {
		out.Sins = []*sin.Sin{}
	}
	return out, nil
}

func (c *Client) Absolved(ctx context.Context, address string) (*api.AbsolvedResp, error) {
	resp, err := c.cli.R().SetContext(ctx).
		Get("/api/user/" + url.PathEscape(address) + "/absolved")
	if err != nil {
		return nil, err
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	out := &api.AbsolvedResp{}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return nil, fmt.Errorf("decode absolved sins: %w", err)
	}
	if out.AbsolvedSins == nil {
		out.AbsolvedSins = []*sin.Absolution{}
	}
	return out, nil
}

func checkResponse(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}
	errResp := &api.ErrResp{}
	_ = json.Unmarshal(resp.Body(), errResp)
	msg := errResp.Error
	if errResp.Message != "" {
		msg += ": " + errResp.Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode())
	}
	return &ResponseError{StatusCode: resp.StatusCode(), Message: msg}
}
