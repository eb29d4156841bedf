package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/pytyle/pytyle/internal/runtimepath"
)

// Client sends one Request per connection and reads back one
// Response, matching the daemon's per-connection handling.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient resolves the daemon's socket path with the default dial
// timeout.
func NewClient() (*Client, error) {
	path, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("ipc: resolve socket path: %w", err)
	}
	return &Client{socketPath: path, timeout: 2 * time.Second}, nil
}

// Send dials the daemon, sends req, and returns its Response. A
// non-nil error here always means a connection failure (spec.md §6:
// "exit code 0 on success, non-zero on connection failure"); an
// application-level failure is reported via Response.OK/Error
// instead.
func (c *Client) Send(req Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("ipc: connect to %s: %w", c.socketPath, err)
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	line, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("ipc: encode request: %w", err)
	}
	line = append(line, '\n')
	if _, err := conn.Write(line); err != nil {
		return nil, fmt.Errorf("ipc: send request: %w", err)
	}

	replyLine, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("ipc: read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(replyLine, &resp); err != nil {
		return nil, fmt.Errorf("ipc: decode response: %w", err)
	}
	return &resp, nil
}

// SendAction is the common case: an action name with no daemon
// bookkeeping payload, applied to the currently active screen.
func (c *Client) SendAction(action string) (*Response, error) {
	return c.Send(Request{Action: action})
}
