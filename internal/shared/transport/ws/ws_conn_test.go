package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type testServer struct {
	*httptest.Server
	conns    chan *Conn
	received chan string
}

// newTestServer 把每条收到的文本帧原样回写，并记录下来。
func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	ts := &testServer{conns: make(chan *Conn, 1), received: make(chan string, 16)}
	srv := NewServer(opts, nil)
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := srv.Upgrade(w, r)
		if err != nil {
			return
		}
		c.Run(func(data []byte) {
			ts.received <- string(data)
			_ = c.Push(map[string]string{"echo": string(data)})
		})
		ts.conns <- c
	}))
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *testServer) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func waitDone(t *testing.T, c *Conn) {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(3 * time.Second):
		t.Fatalf("connection did not close")
	}
}

func TestConn_Echo(t *testing.T) {
	ts := newTestServer(t, Options{})
	client := dial(t, ts)

	if err := client.WriteMessage(websocket.TextMessage, []byte(`{"type":"start"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = client.SetReadDeadline(time.Now().Add(3 * time.Second))
	var got map[string]string
	if err := client.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got["echo"] != `{"type":"start"}` {
		t.Fatalf("echo = %v", got)
	}
}

func TestConn_CloseFlushesQueue(t *testing.T) {
	ts := newTestServer(t, Options{})
	client := dial(t, ts)
	server := <-ts.conns

	_ = server.Push(map[string]string{"type": "state"})
	_ = server.Push(map[string]string{"type": "stop"})
	server.Close()

	_ = client.SetReadDeadline(time.Now().Add(3 * time.Second))
	for _, want := range []string{"state", "stop"} {
		var got map[string]string
		if err := client.ReadJSON(&got); err != nil {
			t.Fatalf("read %s: %v", want, err)
		}
		if got["type"] != want {
			t.Fatalf("got %v, want type=%s", got, want)
		}
	}
	if _, _, err := client.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("expected normal close, got %v", err)
	}
	waitDone(t, server)

	if err := server.Push("late"); err != ErrClosed {
		t.Fatalf("push after close = %v, want ErrClosed", err)
	}
}

func TestConn_RateLimitDelaysFrames(t *testing.T) {
	ts := newTestServer(t, Options{MsgPerSecond: 20, MsgBurst: 1})
	client := dial(t, ts)
	<-ts.conns

	want := []string{"a", "b", "c", "d", "e"}
	start := time.Now()
	for _, m := range want {
		if err := client.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	for _, w := range want {
		select {
		case got := <-ts.received:
			if got != w {
				t.Fatalf("got %q, want %q", got, w)
			}
		case <-time.After(3 * time.Second):
			t.Fatalf("frame %q was not delivered", w)
		}
	}
	// 突发 1，其后每 50ms 一个令牌
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Fatalf("frames were not paced, elapsed=%v", elapsed)
	}
}

func TestConn_RateLimitWaitEndsOnClose(t *testing.T) {
	ts := newTestServer(t, Options{MsgPerSecond: 1, MsgBurst: 1})
	client := dial(t, ts)
	server := <-ts.conns

	for _, m := range []string{"a", "b"} {
		if err := client.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if got := <-ts.received; got != "a" {
		t.Fatalf("first frame = %q", got)
	}
	start := time.Now()
	server.Close()
	waitDone(t, server)
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("close should interrupt the limiter wait, took %v", elapsed)
	}
	select {
	case got := <-ts.received:
		t.Fatalf("frame %q delivered after close", got)
	default:
	}
}

func TestConn_ReadLimitClosesConnection(t *testing.T) {
	ts := newTestServer(t, Options{ReadLimit: 16})
	client := dial(t, ts)
	server := <-ts.conns

	_ = client.WriteMessage(websocket.TextMessage, []byte(strings.Repeat("x", 64)))
	waitDone(t, server)
}
