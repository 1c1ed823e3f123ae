package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	dbmodel "github.com/evergreen-ci/benchboard/model"
	"github.com/evergreen-ci/benchboard/rest/model"
	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

const (
	defaultClientPort int = 3000
	maxClientPort         = 65535
)

// Client talks to a remote benchboard Service.
type Client struct {
	host   string
	prefix string
	port   int
	client *http.Client
}

// NewClient takes host, port, and URI prefix information and constructs a
// new Client using a pooled http.Client. Call Close to return it.
func NewClient(host string, port int, prefix string) (*Client, error) {
	c := &Client{client: utility.GetHTTPClient()}

	return c.initClient(host, port, prefix)
}

// NewClientFromExisting builds a Client around an existing http.Client.
func NewClientFromExisting(client *http.Client, host string, port int, prefix string) (*Client, error) {
	if client == nil {
		return nil, errors.New("must use a non-nil existing client")
	}

	c := &Client{client: client}

	return c.initClient(host, port, prefix)
}

// Close returns a pooled http.Client. Clients built from an existing
// http.Client should not be closed.
func (c *Client) Close() {
	if c.client != nil {
		utility.PutHTTPClient(c.client)
		c.client = nil
	}
}

func (c *Client) initClient(host string, port int, prefix string) (*Client, error) {
	if err := c.SetHost(host); err != nil {
		return nil, err
	}
	if err := c.SetPort(port); err != nil {
		return nil, err
	}
	c.SetPrefix(prefix)

	return c, nil
}

// SetHost sets the hostname, including the leading "http(s)".
func (c *Client) SetHost(h string) error {
	if !strings.HasPrefix(h, "http") {
		return errors.Errorf("host '%s' is malformed, must start with 'http'", h)
	}

	c.host = strings.TrimSuffix(h, "/")

	return nil
}

func (c *Client) Host() string { return c.host }

// SetPort sets the port. Invalid ports fall back to the default.
func (c *Client) SetPort(p int) error {
	if p <= 0 || p >= maxClientPort {
		c.port = defaultClientPort
		return errors.Errorf("cannot set the port to %d, using %d instead", p, defaultClientPort)
	}

	c.port = p
	return nil
}

func (c *Client) Port() int { return c.port }

// SetPrefix sets the part of the URI between the host and the API version.
func (c *Client) SetPrefix(p string) { c.prefix = strings.Trim(p, "/") }

func (c *Client) Prefix() string { return c.prefix }

func (c *Client) getURL(endpoint string, query url.Values) string {
	var parts []string

	if c.port == 80 || c.port == 0 {
		parts = append(parts, c.host)
	} else {
		parts = append(parts, fmt.Sprintf("%s:%d", c.host, c.port))
	}

	if c.prefix != "" {
		parts = append(parts, c.prefix)
	}

	if endpoint = strings.Trim(endpoint, "/"); endpoint != "" {
		parts = append(parts, endpoint)
	}

	out := strings.Join(parts, "/")
	if len(query) > 0 {
		out += "?" + query.Encode()
	}

	return out
}

func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body interface{}, out interface{}) error {
	if c.client == nil {
		return errors.New("client is closed")
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "problem marshalling request body")
		}
		payload = bytes.NewReader(data)
	}

	target := c.getURL(endpoint, query)
	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return errors.Wrap(err, "problem building request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	grip.Debug(message.Fields{
		"method": method,
		"url":    target,
	})

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "problem making request to '%s'", target)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := gimlet.ErrorResponse{}
		if err = gimlet.GetJSON(resp.Body, &apiErr); err != nil || apiErr.StatusCode == 0 {
			apiErr.StatusCode = resp.StatusCode
			if apiErr.Message == "" {
				apiErr.Message = http.StatusText(resp.StatusCode)
			}
		}
		return apiErr
	}

	return errors.Wrap(gimlet.GetJSON(resp.Body, out), "problem reading response")
}

// GetStatus returns the service status.
func (c *Client) GetStatus(ctx context.Context) (*model.APIStatus, error) {
	out := &model.APIStatus{}
	if err := c.do(ctx, http.MethodGet, "/v1/status", nil, nil, out); err != nil {
		return nil, err
	}

	return out, nil
}

// GetVersions returns the version catalog.
func (c *Client) GetVersions(ctx context.Context) (*model.APIVersionCatalog, error) {
	out := &model.APIVersionCatalog{}
	if err := c.do(ctx, http.MethodGet, "/v1/versions", nil, nil, out); err != nil {
		return nil, err
	}

	return out, nil
}

// GetConfigurations returns the configurations with results. An empty
// version returns all of them.
func (c *Client) GetConfigurations(ctx context.Context, version string) ([]model.APIConfigurationKey, error) {
	query := url.Values{}
	if version != "" {
		query.Set(versionParam, version)
	}

	out := []model.APIConfigurationKey{}
	if err := c.do(ctx, http.MethodGet, "/v1/configurations", query, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// GetBenchmarks returns the benchmark catalog.
func (c *Client) GetBenchmarks(ctx context.Context) (*model.APIBenchmarkCatalog, error) {
	out := &model.APIBenchmarkCatalog{}
	if err := c.do(ctx, http.MethodGet, "/v1/benchmarks", nil, nil, out); err != nil {
		return nil, err
	}

	return out, nil
}

// GetReport builds a report for the keys, in order.
func (c *Client) GetReport(ctx context.Context, keys []string) (*model.APIReport, error) {
	out := &model.APIReport{}
	if err := c.do(ctx, http.MethodGet, "/v1/report", url.Values{keyParam: keys}, nil, out); err != nil {
		return nil, err
	}

	return out, nil
}

// GetAnalysis analyzes one scenario across the keys.
func (c *Client) GetAnalysis(ctx context.Context, keys []string, scenario string) (*model.APIScenarioAnalysis, error) {
	query := url.Values{keyParam: keys}
	query.Set(scenarioParam, scenario)

	out := &model.APIScenarioAnalysis{}
	if err := c.do(ctx, http.MethodGet, "/v1/analysis", query, nil, out); err != nil {
		return nil, err
	}

	return out, nil
}

// GetDefaultSelection returns the landing selection: the latest version,
// its default configurations and their report.
func (c *Client) GetDefaultSelection(ctx context.Context) (*model.APISelection, error) {
	out := &model.APISelection{}
	if err := c.do(ctx, http.MethodGet, "/v1/selection", nil, nil, out); err != nil {
		return nil, err
	}

	return out, nil
}

// ReplaySelection replays the actions on the service, starting from an
// empty selection.
func (c *Client) ReplaySelection(ctx context.Context, actions []dbmodel.SelectionAction) (*model.APISelection, error) {
	return c.replaySelection(ctx, actions, false)
}

// ReplayFromLatest replays the actions on the landing selection.
func (c *Client) ReplayFromLatest(ctx context.Context, actions []dbmodel.SelectionAction) (*model.APISelection, error) {
	return c.replaySelection(ctx, actions, true)
}

func (c *Client) replaySelection(ctx context.Context, actions []dbmodel.SelectionAction, fromLatest bool) (*model.APISelection, error) {
	req := model.APISelectionRequest{
		Actions:    make([]model.APISelectionAction, len(actions)),
		FromLatest: fromLatest,
	}
	for idx := range actions {
		if err := req.Actions[idx].Import(actions[idx]); err != nil {
			return nil, errors.Wrapf(err, "problem converting action %d", idx)
		}
	}

	out := &model.APISelection{}
	if err := c.do(ctx, http.MethodPost, "/v1/selection", nil, req, out); err != nil {
		return nil, err
	}

	return out, nil
}

// ExportReport schedules a report export and returns the job.
func (c *Client) ExportReport(ctx context.Context, keys []string) (*model.APIJob, error) {
	out := &model.APIJob{}
	if err := c.do(ctx, http.MethodPost, "/v1/export", nil, model.APIReportExportRequest{Keys: keys}, out); err != nil {
		return nil, err
	}

	return out, nil
}

// Reload schedules a reload of the service's results.
func (c *Client) Reload(ctx context.Context) (*model.APIJob, error) {
	out := &model.APIJob{}
	if err := c.do(ctx, http.MethodPost, "/v1/admin/reload", nil, nil, out); err != nil {
		return nil, err
	}

	return out, nil
}
