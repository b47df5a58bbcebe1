package mpv

import (
	"bufio"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMPV answers every command line with an event line followed by a reply.
func fakeMPV(t *testing.T, reply func(req map[string]any) Response) (string, <-chan string) {
	t.Helper()

	dir, err := os.MkdirTemp("", "mpvsub")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	sock := filepath.Join(dir, "ipc.sock")
	ln, err := net.Listen("unix", sock)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	lines := make(chan string, 16)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				r := bufio.NewReader(conn)
				for {
					line, err := r.ReadString('\n')
					if err != nil {
						return
					}
					lines <- strings.TrimSuffix(line, "\n")

					var req map[string]any
					_ = json.Unmarshal([]byte(line), &req)
					event, _ := json.Marshal(Response{Event: "property-change", Name: "pause"})
					resp, _ := json.Marshal(reply(req))
					_, _ = conn.Write(append(append(event, '\n'), append(resp, '\n')...))
				}
			}(conn)
		}
	}()
	return sock, lines
}

func TestNewRequest(t *testing.T) {
	data, err := json.Marshal(NewRequest("set_property", "pause", true))
	require.NoError(t, err)
	assert.JSONEq(t, `{"command":["set_property","pause",true]}`, string(data))
}

func TestIPCSendRaw(t *testing.T) {
	sock, lines := fakeMPV(t, func(map[string]any) Response { return Response{Error: "success"} })

	ipc := NewIPC(sock)
	defer ipc.Close()

	resp, err := ipc.SendRaw([]byte(`{"command":["cycle","pause"]}` + "\n"))
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, `{"command":["cycle","pause"]}`, <-lines)
}

func TestIPCSendRawRejectsMultipleLines(t *testing.T) {
	ipc := NewIPC("/nonexistent.sock")
	_, err := ipc.SendRaw([]byte("{}\n{}"))
	assert.Error(t, err)
}

func TestIPCCommand(t *testing.T) {
	sock, lines := fakeMPV(t, func(req map[string]any) Response {
		cmd := req["command"].([]any)
		if cmd[0] == "get_property" {
			return Response{Error: "success", Data: 12.5}
		}
		return Response{Error: "property not found"}
	})

	ipc := NewIPC(sock)
	defer ipc.Close()

	v, err := ipc.Command("get_property", "time-pos")
	require.NoError(t, err)
	assert.Equal(t, 12.5, v)
	assert.JSONEq(t, `{"command":["get_property","time-pos"],"request_id":1}`, <-lines)

	_, err = ipc.Command("set_property", "nope", 1)
	assert.ErrorContains(t, err, "property not found")
}

func TestIPCReconnects(t *testing.T) {
	sock, _ := fakeMPV(t, func(map[string]any) Response { return Response{Error: "success"} })

	ipc := NewIPC(sock)
	defer ipc.Close()

	require.NoError(t, ipc.ShowText("hello", 2))

	// a dead connection is replaced on the next call
	require.NoError(t, ipc.conn.Close())
	require.NoError(t, ipc.ShowText("again", 2))
}

func TestIPCNoSocket(t *testing.T) {
	_, err := NewIPC("").SendRaw([]byte("{}"))
	assert.Error(t, err)

	_, err = NewIPC(filepath.Join(t.TempDir(), "missing.sock")).SendRaw([]byte("{}"))
	assert.ErrorContains(t, err, "connect to mpv ipc socket fail")
}

func TestNewSocketPath(t *testing.T) {
	a, b := NewSocketPath(), NewSocketPath()
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(filepath.Base(a), sockNamePrefix))
}
