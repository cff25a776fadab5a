package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"volumelockr/internal/domain"
	"volumelockr/internal/usecase"
)

// Client talks to a running daemon. Lock state only lives in the daemon's
// memory, so one-shot CLI commands go through here.
type Client struct {
	base string
	http *http.Client
}

var _ usecase.VolumeUseCase = (*Client)(nil)

// NewClient accepts either host:port or a full URL.
func NewClient(addr string) *Client {
	base := addr
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) Status() (usecase.Status, error) {
	var view StatusView
	if err := c.do(http.MethodGet, "/api/volumes", nil, &view); err != nil {
		return usecase.Status{}, err
	}
	return view.Status(), nil
}

func (c *Client) SetVolume(stream domain.Stream, value int) (domain.Volume, error) {
	var view VolumeView
	err := c.do(http.MethodPut, "/api/volumes/"+stream.String(), volumePayload{Value: &value}, &view)
	return volumeFromView(view), err
}

func (c *Client) AdjustRange(stream domain.Stream, lower, upper int) (domain.Volume, error) {
	var view VolumeView
	err := c.do(http.MethodPut, "/api/volumes/"+stream.String(), volumePayload{Lower: &lower, Upper: &upper}, &view)
	return volumeFromView(view), err
}

func (c *Client) Lock(stream domain.Stream, lower, upper int) error {
	return c.do(http.MethodPost, "/api/locks/"+stream.String(), lockPayload{Lower: &lower, Upper: &upper}, nil)
}

func (c *Client) LockFraction(stream domain.Stream, from, to float64) error {
	return c.do(http.MethodPost, "/api/locks/"+stream.String(), lockPayload{From: &from, To: &to}, nil)
}

func (c *Client) Unlock(stream domain.Stream) error {
	return c.do(http.MethodDelete, "/api/locks/"+stream.String(), nil, nil)
}

func (c *Client) SetMode(mode domain.Mode) error {
	return c.do(http.MethodPut, "/api/mode", modePayload{Mode: int(mode)}, nil)
}

func (c *Client) SetProtected(protected bool) error {
	return c.do(http.MethodPut, "/api/protection", protectionPayload{Protected: protected}, nil)
}

func (c *Client) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("daemon at %s unreachable: %w", c.base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError restores the sentinel so callers can use errors.Is across the wire.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)
	var payload errorPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Error == "" {
		return fmt.Errorf("daemon returned %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}
	if sentinel, ok := errorCodes[payload.Code]; ok {
		return &remoteError{msg: payload.Error, sentinel: sentinel}
	}
	return fmt.Errorf("daemon returned %s: %s", resp.Status, payload.Error)
}

type remoteError struct {
	msg      string
	sentinel error
}

func (e *remoteError) Error() string { return e.msg }
func (e *remoteError) Unwrap() error { return e.sentinel }
