package sway

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gosway "github.com/joshuarubin/go-sway"
)

const (
	msgRunCommand    uint32 = 0
	msgGetWorkspaces uint32 = 1
	msgSubscribe     uint32 = 2
	msgGetOutputs    uint32 = 3
	msgGetTree       uint32 = 4
	evWorkspace      uint32 = 1 << 31
)

// replies maps a request type to the JSON body the fake compositor answers with.
type replies map[uint32]string

// startFakeCompositor speaks the i3-ipc framing on a temporary unix socket.
// A subscription is acknowledged and then sent the given event frames.
func startFakeCompositor(t *testing.T, answers replies, events ...string) (path string, requests <-chan string) {
	t.Helper()

	path = filepath.Join(t.TempDir(), "sway.sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	seen := make(chan string, 16)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serve(conn, answers, events, seen)
		}
	}()
	return path, seen
}

func serve(conn net.Conn, answers replies, events []string, seen chan<- string) {
	defer conn.Close()
	for {
		t, payload, err := readFrame(conn)
		if err != nil {
			return
		}
		select {
		case seen <- string(payload):
		default:
		}
		if t == msgSubscribe {
			writeFrame(conn, msgSubscribe, `{"success": true}`)
			for _, ev := range events {
				writeFrame(conn, evWorkspace, ev)
			}
			continue
		}
		writeFrame(conn, t, answers[t])
	}
}

func readFrame(r io.Reader) (uint32, []byte, error) {
	header := make([]byte, 14)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, nil, err
	}
	size := binary.NativeEndian.Uint32(header[6:])
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, err
	}
	return binary.NativeEndian.Uint32(header[10:]), payload, nil
}

func writeFrame(w io.Writer, t uint32, body string) {
	frame := make([]byte, 14, 14+len(body))
	copy(frame, "i3-ipc")
	binary.NativeEndian.PutUint32(frame[6:], uint32(len(body)))
	binary.NativeEndian.PutUint32(frame[10:], t)
	_, _ = w.Write(append(frame, body...))
}

const tree = `{"id": 1, "type": "root", "name": "root", "nodes": [
	{"id": 2, "type": "output", "name": "__i3", "nodes": [
		{"id": 3, "type": "workspace", "name": "__i3_scratch"}
	]},
	{"id": 10, "type": "output", "name": "DP-1", "nodes": [
		{"id": 4, "type": "workspace", "name": "11", "nodes": [
			{"id": 40, "type": "con"}, {"id": 41, "type": "con"}
		]},
		{"id": 7, "type": "workspace", "name": "web", "floating_nodes": [
			{"id": 70, "type": "floating_con"}
		]}
	]}
]}`

func dial(t *testing.T, path string) *Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	conn, err := Dial(ctx, path)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestConn_GetWorkspacesTakesIDsFromTree(t *testing.T) {
	path, _ := startFakeCompositor(t, replies{
		msgGetWorkspaces: `[
			{"num": 11, "name": "11", "output": "DP-1", "focused": true},
			{"num": -1, "name": "web", "output": "DP-1"}
		]`,
		msgGetTree: tree,
	})

	workspaces, err := dial(t, path).GetWorkspaces(context.Background())
	if err != nil {
		t.Fatalf("get workspaces: %v", err)
	}
	if len(workspaces) != 2 {
		t.Fatalf("expected 2 workspaces, got %d", len(workspaces))
	}
	if ws := workspaces[0]; ws.ID != 4 || ws.Num != 11 || !ws.Focused || ws.Output != "DP-1" {
		t.Fatalf("unexpected first workspace %+v", ws)
	}
	if ws := workspaces[1]; ws.ID != 7 || ws.Numbered() {
		t.Fatalf("unexpected second workspace %+v", ws)
	}
}

func TestConn_GetWorkspacesMissingFromTree(t *testing.T) {
	path, _ := startFakeCompositor(t, replies{
		msgGetWorkspaces: `[{"num": 3, "name": "3", "output": "DP-1"}]`,
		msgGetTree:       tree,
	})

	_, err := dial(t, path).GetWorkspaces(context.Background())
	if err == nil || !strings.Contains(err.Error(), `"3"`) {
		t.Fatalf("expected missing workspace error, got %v", err)
	}
}

func TestConn_GetOutputs(t *testing.T) {
	path, _ := startFakeCompositor(t, replies{
		msgGetOutputs: `[
			{"name": "DP-1", "active": true, "rect": {"x": 1920, "y": 0, "width": 2560, "height": 1440}},
			{"name": "HDMI-A-1", "active": false}
		]`,
	})

	outputs, err := dial(t, path).GetOutputs(context.Background())
	if err != nil {
		t.Fatalf("get outputs: %v", err)
	}
	want := []Output{
		{Name: "DP-1", Active: true, Rect: Rect{X: 1920, Width: 2560, Height: 1440}},
		{Name: "HDMI-A-1"},
	}
	if len(outputs) != len(want) || outputs[0] != want[0] || outputs[1] != want[1] {
		t.Fatalf("outputs = %+v, want %+v", outputs, want)
	}
}

func TestConn_GetTree(t *testing.T) {
	path, _ := startFakeCompositor(t, replies{msgGetTree: tree})

	root, err := dial(t, path).GetTree(context.Background())
	if err != nil {
		t.Fatalf("get tree: %v", err)
	}
	ws := root.Find(func(n *Node) bool { return n.Type == NodeWorkspace && n.ID == 4 })
	if ws == nil || len(ws.Nodes) != 2 {
		t.Fatalf("expected workspace 4 with two children, got %+v", ws)
	}
	if root.Find(func(n *Node) bool { return n.ID == 70 }) == nil {
		t.Fatal("expected floating node to be found")
	}
}

func TestConn_RunCommandSurfacesEveryFailure(t *testing.T) {
	path, requests := startFakeCompositor(t, replies{
		msgRunCommand: `[
			{"success": false, "error": "no workspace '3web'"},
			{"success": true},
			{"success": false, "error": "unknown command"}
		]`,
	})

	err := dial(t, path).RunCommand(context.Background(), "a; b; c")
	if got := <-requests; got != "a; b; c" {
		t.Fatalf("compositor received %q", got)
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected CommandError, got %v", err)
	}
	if !strings.Contains(err.Error(), "command 0: no workspace '3web'") || !strings.Contains(err.Error(), "command 2: unknown command") {
		t.Fatalf("expected both failures in %q", err)
	}
}

func TestCommandErrors(t *testing.T) {
	if err := commandErrors("x", []gosway.RunCommandReply{{Success: true}, {Success: true}}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	err := commandErrors("x; y", []gosway.RunCommandReply{{Success: true}, {Error: "nope"}})
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Index != 1 || cmdErr.Message != "nope" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestSubscribe_DeliversWorkspaceEvents(t *testing.T) {
	path, _ := startFakeCompositor(t, nil,
		`{"change": "focus"}`,
		`{"change": "init", "current": {"id": 9, "type": "workspace", "name": "3"}}`,
	)
	t.Setenv("SWAYSOCK", path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sub, err := Subscribe(ctx, path, EventWorkspace)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	for _, want := range []string{"focus", WorkspaceInit} {
		ev, err := sub.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if ev.Type != EventWorkspace || ev.Change != want {
			t.Fatalf("got %+v, want workspace %s", ev, want)
		}
	}
}

func TestSubscribe_StopsOnCancel(t *testing.T) {
	path, _ := startFakeCompositor(t, nil)
	t.Setenv("SWAYSOCK", path)

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := Subscribe(ctx, path, EventWorkspace, EventOutput)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	cancel()
	if _, err := sub.Next(); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSubscribe_RejectsUnknownEvent(t *testing.T) {
	if _, err := Subscribe(context.Background(), "", EventType("window")); err == nil {
		t.Fatal("expected error for unsupported event type")
	}
}
