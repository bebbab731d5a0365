// internal/control/client.go
package control

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to a running bridge's control API.
type Client struct {
	base string
	http *http.Client
}

func NewClient(base string, timeout time.Duration) *Client {
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx reply.
type APIError struct {
	Status int
	Body   ErrorBody
}

func (e *APIError) Error() string {
	if e.Body.RequestID != "" {
		return fmt.Sprintf("control api: %d: %s (request %s)", e.Status, e.Body.Error, e.Body.RequestID)
	}
	return fmt.Sprintf("control api: %d: %s", e.Status, e.Body.Error)
}

func (c *Client) Rx(ctx context.Context) (SwitchState, error) {
	var out SwitchState
	err := c.do(ctx, http.MethodGet, "/api/v1/rx", nil, &out)
	return out, err
}

func (c *Client) SetRx(ctx context.Context, on bool) error {
	return c.do(ctx, http.MethodPut, "/api/v1/rx", SwitchState{Enabled: on}, nil)
}

func (c *Client) Tx(ctx context.Context) (SwitchState, error) {
	var out SwitchState
	err := c.do(ctx, http.MethodGet, "/api/v1/tx", nil, &out)
	return out, err
}

func (c *Client) SetTx(ctx context.Context, on bool) error {
	return c.do(ctx, http.MethodPut, "/api/v1/tx", SwitchState{Enabled: on}, nil)
}

func (c *Client) SetModule(ctx context.Context, on bool) error {
	return c.do(ctx, http.MethodPut, "/api/v1/module", SwitchState{Enabled: on}, nil)
}

func (c *Client) Rotation(ctx context.Context) (RotationState, error) {
	var out RotationState
	err := c.do(ctx, http.MethodGet, "/api/v1/rotation", nil, &out)
	return out, err
}

func (c *Client) SetRotation(ctx context.Context, angle int32) (RotationState, error) {
	var out RotationState
	err := c.do(ctx, http.MethodPut, "/api/v1/rotation", RotationState{Angle: angle}, &out)
	return out, err
}

func (c *Client) Fade(ctx context.Context, req FadeRequest) error {
	return c.do(ctx, http.MethodPost, "/api/v1/fade", req, nil)
}

func (c *Client) Monitor(ctx context.Context) (MonitorStatus, error) {
	var out MonitorStatus
	err := c.do(ctx, http.MethodGet, "/api/v1/monitor", nil, &out)
	return out, err
}

func (c *Client) SetMonitor(ctx context.Context, on bool) (MonitorStatus, error) {
	var out MonitorStatus
	err := c.do(ctx, http.MethodPut, "/api/v1/monitor", SwitchState{Enabled: on}, &out)
	return out, err
}

func (c *Client) Version(ctx context.Context) (VersionInfo, error) {
	var out VersionInfo
	err := c.do(ctx, http.MethodGet, "/api/v1/version", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("control api: encode: %w", err)
		}
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("control api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr.Body)
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("control api: decode %s: %w", path, err)
	}
	return nil
}
