package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/certsight-app/cs-agent/internal/config"
	"github.com/certsight-app/cs-agent/internal/scanner"
	"github.com/certsight-app/cs-agent/internal/version"
)

// Client posts scan result batches to the configured ingest endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	agentName  string
	agentID    string // cached after first accepted report
	httpClient *http.Client
	logger     *zap.Logger
	tags       map[string][]string
	notes      map[string]string
}

// New creates a report Client from the agent configuration.
func New(cfg *config.Config, logger *zap.Logger) *Client {
	tags := make(map[string][]string, len(cfg.Targets))
	notes := make(map[string]string, len(cfg.Targets))
	for _, t := range cfg.Targets {
		if len(t.Tags) > 0 {
			tags[t.Host] = t.Tags
		}
		if t.Notes != "" {
			notes[t.Host] = t.Notes
		}
	}

	return &Client{
		endpoint:  cfg.Report.Endpoint,
		apiKey:    cfg.Report.Key,
		agentName: cfg.Agent.Name,
		httpClient: &http.Client{
			Timeout: cfg.Report.Timeout,
		},
		logger: logger,
		tags:   tags,
		notes:  notes,
	}
}

// Send delivers one scan round to the ingest endpoint and caches the
// server-assigned agent ID for subsequent batches.
func (c *Client) Send(ctx context.Context, results []scanner.Result) (*Response, error) {
	payload := c.buildPayload(results)

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/agent/report", payload)
	if err != nil {
		return nil, err
	}

	if resp.Success && resp.AgentID != "" {
		c.agentID = resp.AgentID
	}

	return resp, nil
}

// GetAgentID returns the cached agent ID (empty before the first
// accepted report).
func (c *Client) GetAgentID() string {
	return c.agentID
}

// SetAgentID seeds the cached agent ID, typically from persisted state.
func (c *Client) SetAgentID(id string) {
	c.agentID = id
}

func (c *Client) buildPayload(results []scanner.Result) *Payload {
	targetResults := make([]TargetResult, 0, len(results))
	for i := range results {
		r := &results[i]
		tr := TargetResult{
			Target:    r.Input,
			CheckedAt: r.CheckedAt,
			Summary:   r.Summary,
			Tags:      c.tags[r.Input],
			Notes:     c.notes[r.Input],
		}
		if r.Err != nil {
			tr.Error = r.Err.Error()
			tr.ErrorKind = r.ErrorKind()
		}
		targetResults = append(targetResults, tr)
	}

	return &Payload{
		AgentID:      c.agentID,
		AgentName:    c.agentName,
		AgentVersion: version.GetVersion(),
		Timestamp:    time.Now().UTC(),
		Results:      targetResults,
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*Response, error) {
	url := c.endpoint + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("User-Agent", fmt.Sprintf("cs-agent/%s", version.GetVersion()))

	c.logger.Debug("sending report",
		zap.String("url", url),
		zap.String("method", method),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("received response",
		zap.Int("status", resp.StatusCode),
		zap.Int("body_length", len(respBody)),
	)

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error   *APIError `json:"error"`
			Success bool      `json:"success"`
		}
		if unmarshalErr := json.Unmarshal(respBody, &errResp); unmarshalErr == nil && errResp.Error != nil {
			return nil, fmt.Errorf("ingest error (%s): %s", errResp.Error.Code, errResp.Error.Message)
		}
		return nil, fmt.Errorf("ingest returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var reportResp Response
	if err := json.Unmarshal(respBody, &reportResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &reportResp, nil
}
