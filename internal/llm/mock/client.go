package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/pricehunt-bot/internal/llm"
)

type Call struct {
	System string
	Prompt string
}

type Client struct {
	Response string
	Error    error
	Delay    time.Duration

	mu        sync.Mutex
	CallCount int
	LastCall  Call
	AllCalls  []Call
}

func New() *Client {
	return &Client{Response: "[]"}
}

func (c *Client) WithResponse(response string) *Client {
	c.Response = response
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) CompleteWithSystem(ctx context.Context, system, prompt string) (string, error) {
	c.mu.Lock()
	c.CallCount++
	c.LastCall = Call{System: system, Prompt: prompt}
	c.AllCalls = append(c.AllCalls, c.LastCall)
	delay := c.Delay
	err := c.Error
	resp := c.Response
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return "", err
	}
	return resp, nil
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCount = 0
	c.LastCall = Call{}
	c.AllCalls = nil
}

var _ llm.Client = (*Client)(nil)
