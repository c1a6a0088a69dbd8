// Package rcon talks to the Minecraft server and the Velocity proxy over the
// Source RCON protocol.
package rcon

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorcon/rcon"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/config"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/outcome"
)

// DefaultTimeout bounds dialing and every command round trip.
const DefaultTimeout = 5 * time.Second

var (
	// ErrNotConfigured is returned when host or password are missing.
	ErrNotConfigured = errors.New("rcon is not configured")
	// ErrNotConnected is returned when the server cannot be reached.
	ErrNotConnected = errors.New("RCON not connected (server may be offline)")
)

// Executor runs one console command and returns its text response.
type Executor interface {
	Execute(ctx context.Context, command string) (string, error)
}

// conn is the subset of *rcon.Conn the clients use.
type conn interface {
	Execute(command string) (string, error)
	Close() error
}

type dialFunc func(address, password string, timeout time.Duration) (conn, error)

func gorconDial(address, password string, timeout time.Duration) (conn, error) {
	c, err := rcon.Dial(address, password,
		rcon.SetDialTimeout(timeout),
		rcon.SetDeadline(timeout),
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Client keeps one connection to the game server open. A connection that
// errors is dropped and the next command dials again; the failed command is
// not retried.
type Client struct {
	cfg     config.RCON
	timeout time.Duration
	dial    dialFunc

	mu   sync.Mutex
	conn conn
}

// NewClient returns a persistent client for the game server console.
func NewClient(cfg config.RCON) *Client {
	return &Client{cfg: cfg, timeout: DefaultTimeout, dial: gorconDial}
}

// Execute sends command over the shared connection.
func (c *Client) Execute(ctx context.Context, command string) (string, error) {
	if !c.cfg.Enabled() {
		return "", ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		cn, err := c.dial(c.cfg.Address(), c.cfg.Password, c.timeout)
		if err != nil {
			logger.Debug(fmt.Sprintf("Dial failed: %v", err), "RCON")
			return "", fmt.Errorf("%w: %v", ErrNotConnected, err)
		}
		c.conn = cn
		logger.Info("Connected", "RCON")
	}

	resp, err := c.conn.Execute(command)
	if err != nil {
		_ = c.conn.Close()
		c.conn = nil
		logger.Warn("Connection error (server may be restarting)", "RCON")
		return "", fmt.Errorf("RCON error: %w", err)
	}
	return resp, nil
}

// Close drops the shared connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Test runs "list" against the server.
func (c *Client) Test(ctx context.Context) (string, error) {
	return c.Execute(ctx, "list")
}

// ProxyClient opens a fresh connection to the Velocity proxy for every command.
type ProxyClient struct {
	cfg     config.RCON
	timeout time.Duration
	dial    dialFunc
}

func NewProxyClient(cfg config.RCON) *ProxyClient {
	return &ProxyClient{cfg: cfg, timeout: DefaultTimeout, dial: gorconDial}
}

func (p *ProxyClient) Execute(ctx context.Context, command string) (string, error) {
	if !p.cfg.Enabled() {
		return "", fmt.Errorf("proxy %w: set PROXY_RCON_HOST and PROXY_RCON_PASSWORD", ErrNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	logger.Debug(fmt.Sprintf("Connecting to %s (command: %s)", p.cfg.Address(), command), "ProxyRCON")
	cn, err := p.dial(p.cfg.Address(), p.cfg.Password, p.timeout)
	if err != nil {
		return "", fmt.Errorf("proxy RCON connection failed: %w", err)
	}
	defer func() { _ = cn.Close() }()

	resp, err := cn.Execute(command)
	if err != nil {
		return "", fmt.Errorf("proxy RCON command failed: %w", err)
	}
	return resp, nil
}

// Test runs "glist" against the proxy.
func (p *ProxyClient) Test(ctx context.Context) (string, error) {
	return p.Execute(ctx, "glist")
}

// Run executes command and folds the transport error and the response
// heuristic into one result. The response is returned either way.
func Run(ctx context.Context, exec Executor, command string) (string, outcome.Result) {
	resp, err := exec.Execute(ctx, command)
	if err != nil {
		return resp, outcome.FromErr(err)
	}
	if LooksFailed(resp) {
		return resp, outcome.Failedf("RCON failure: %s", resp)
	}
	return resp, outcome.Ok()
}

// Reply renders a response for embeds, falling back when the server sent
// nothing back.
func Reply(resp string) string {
	if resp == "" {
		return "Command executed successfully"
	}
	return resp
}
