package mpv

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

const sockNamePrefix = "mpvsub-ipc-"

// NewSocketPath returns a fresh socket path in the temp dir for --input-ipc-server.
func NewSocketPath() string {
	return filepath.Join(os.TempDir(), sockNamePrefix+uuid.NewString())
}

// IPC talks to a running mpv over its JSON IPC unix socket. The connection is
// dialled on first use and redialled once when a write or read fails.
type IPC struct {
	mu       sync.Mutex
	conn     net.Conn
	reader   *bufio.Reader
	sockPath string

	requestIDCount int
}

func NewIPC(sockPath string) *IPC { return &IPC{sockPath: sockPath} }

func (c *IPC) SocketPath() string { return c.sockPath }

func (c *IPC) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.reader = nil
	if err != nil {
		return fmt.Errorf("closing mpv ipc socket fail: %w", err)
	}
	return nil
}

// Command sends command with args and waits for mpv's reply. A reply other
// than "success" is an error.
func (c *IPC) Command(command string, args ...any) (any, error) {
	c.mu.Lock()
	c.requestIDCount++
	req := NewRequest(command, args...)
	req.RequestID = c.requestIDCount
	c.mu.Unlock()

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal mpv command %s: %w", command, err)
	}
	resp, err := c.SendRaw(data)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("mpv ipc response error: %s", resp.Error)
	}
	return resp.Data, nil
}

// ShowText displays an OSD message for the given number of seconds.
func (c *IPC) ShowText(text string, seconds float64) error {
	_, err := c.Command("show-text", text, int(seconds*1000))
	return err
}

// SendRaw writes one already encoded JSON command and returns the first
// non-event line mpv answers with.
func (c *IPC) SendRaw(data []byte) (Response, error) {
	if c.sockPath == "" {
		return Response{}, fmt.Errorf("mpv ipc socket path is empty")
	}

	data = bytes.TrimRight(data, "\r\n")
	if bytes.ContainsAny(data, "\r\n") {
		return Response{}, fmt.Errorf("mpv ipc command must be a single line")
	}
	data = append(data, '\n')

	c.mu.Lock()
	defer c.mu.Unlock()

	var lastErr error
	// 1 initial + 1 retry on a fresh connection
	for range 2 {
		if c.conn == nil {
			conn, err := net.Dial("unix", c.sockPath)
			if err != nil {
				lastErr = fmt.Errorf("connect to mpv ipc socket fail: %w", err)
				continue
			}
			c.conn = conn
			c.reader = bufio.NewReader(conn)
		}

		if _, err := c.conn.Write(data); err != nil {
			lastErr = fmt.Errorf("writing to mpv ipc socket fail: %w", err)
			c.reset()
			continue
		}

		resp, err := c.readReply()
		if err != nil {
			lastErr = err
			c.reset()
			continue
		}
		return resp, nil
	}
	return Response{}, lastErr
}

// readReply skips asynchronous event lines until a command reply arrives.
func (c *IPC) readReply() (Response, error) {
	for {
		line, err := c.reader.ReadBytes('\n')
		if err != nil {
			return Response{}, fmt.Errorf("reading from mpv ipc socket fail: %w", err)
		}

		var resp Response
		if err := json.Unmarshal(line, &resp); err != nil {
			return Response{}, fmt.Errorf("unmarshal mpv ipc response fail: %w", err)
		}
		if resp.Event != "" {
			continue
		}
		return resp, nil
	}
}

func (c *IPC) reset() {
	_ = c.conn.Close()
	c.conn = nil
	c.reader = nil
}
