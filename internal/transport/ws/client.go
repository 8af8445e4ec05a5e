package ws

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/skyrocket/internal/core"
	"github.com/vovakirdan/skyrocket/internal/sim"
)

// Client drives a remote environment. It implements the runner's Env
// interface. Requests are serialized; a Client is safe for concurrent use
// but steps are still applied one at a time.
type Client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// Dial connects to a server endpoint such as ws://localhost:8090/v1/env.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ws: dial %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

// Reset starts a new remote episode with the given seed.
func (c *Client) Reset(ctx context.Context, seed int64) (sim.Observation, error) {
	resp, err := c.call(ctx, Request{Type: TypeReset, Seed: &seed}, TypeObs)
	if err != nil {
		return nil, err
	}
	return sim.Observation(resp.Observation), nil
}

// Step advances the remote episode.
func (c *Client) Step(ctx context.Context, a core.Action) (sim.StepResult, error) {
	n := int(a)
	resp, err := c.call(ctx, Request{Type: TypeStep, Action: &n}, TypeObs)
	if err != nil {
		return sim.StepResult{}, err
	}
	info := resp.Info
	if info == nil {
		info = map[string]any{}
	}
	return sim.StepResult{
		Observation: sim.Observation(resp.Observation),
		Reward:      resp.Reward,
		Terminal:    resp.Terminal,
		Info:        info,
	}, nil
}

// Spec fetches the remote environment description.
func (c *Client) Spec(ctx context.Context) (Spec, error) {
	resp, err := c.call(ctx, Request{Type: TypeSpec}, TypeSpec)
	if err != nil {
		return Spec{}, err
	}
	if resp.Spec == nil {
		return Spec{}, fmt.Errorf("ws: spec response without spec")
	}
	return *resp.Spec, nil
}

// Close ends the remote session and closes the connection.
func (c *Client) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, callErr := c.call(ctx, Request{Type: TypeClose}, TypeClosed)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.Close(); err != nil && callErr == nil {
		return fmt.Errorf("ws: close: %w", err)
	}
	return callErr
}

func (c *Client) call(ctx context.Context, req Request, want string) (Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Zero when ctx has no deadline, which clears any previous one.
	deadline, _ := ctx.Deadline()
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	_ = c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteJSON(req); err != nil {
		return Response{}, fmt.Errorf("ws: send %s: %w", req.Type, err)
	}

	_ = c.conn.SetReadDeadline(deadline)
	var resp Response
	if err := c.conn.ReadJSON(&resp); err != nil {
		return Response{}, fmt.Errorf("ws: receive %s: %w", req.Type, err)
	}
	if resp.Type == TypeError {
		return resp, &RemoteError{Code: resp.Code, Message: resp.Message}
	}
	if resp.Type != want {
		return resp, fmt.Errorf("ws: %s answered with %q, expected %q", req.Type, resp.Type, want)
	}
	return resp, nil
}
