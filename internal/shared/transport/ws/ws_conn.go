package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"PlanetWars/modules/kit/logx"
)

var (
	ErrClosed    = errors.New("ws connection closed")
	ErrQueueFull = errors.New("ws outbound queue full")
)

const PropertyRoom = "room"

// Options 控制单个连接的读写限制，零值字段用默认值。
type Options struct {
	ReadLimit    int64
	MsgPerSecond int
	MsgBurst     int
	OutQueue     int
	WriteWait    time.Duration
	PongWait     time.Duration
}

func (o Options) withDefaults() Options {
	if o.ReadLimit <= 0 {
		o.ReadLimit = 64 << 10
	}
	if o.OutQueue <= 0 {
		o.OutQueue = 256
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 5 * time.Second
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.MsgBurst <= 0 {
		o.MsgBurst = max(o.MsgPerSecond, 1)
	}
	return o
}

// Conn 是一条 JSON 文本帧的 websocket 连接：一个读循环，一个写循环。
type Conn struct {
	conn    *websocket.Conn
	opts    Options
	limiter *rate.Limiter
	outChan chan []byte

	property map[string]any
	sync.RWMutex

	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	runOnce   sync.Once
	log       logx.Logger
}

func NewConn(wsConn *websocket.Conn, opts Options, l logx.Logger) *Conn {
	if l == nil {
		l = logx.Nop()
	}
	opts = opts.withDefaults()
	limit := rate.Inf
	if opts.MsgPerSecond > 0 {
		limit = rate.Limit(opts.MsgPerSecond)
	}
	return &Conn{
		conn:     wsConn,
		opts:     opts,
		limiter:  rate.NewLimiter(limit, opts.MsgBurst),
		outChan:  make(chan []byte, opts.OutQueue),
		property: make(map[string]any),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		log:      l.With(zap.String("remote", wsConn.RemoteAddr().String())),
	}
}

func (c *Conn) SetProperty(key string, value any) {
	c.Lock()
	defer c.Unlock()
	c.property[key] = value
}

func (c *Conn) GetProperty(key string) any {
	c.RLock()
	defer c.RUnlock()
	return c.property[key]
}

func (c *Conn) Addr() string {
	return c.conn.RemoteAddr().String()
}

// Run 启动读写循环，onMessage 在读 goroutine 里被串行调用。
func (c *Conn) Run(onMessage func(data []byte)) {
	c.runOnce.Do(func() {
		go c.readMsgLoop(onMessage)
		go c.writeMsgLoop()
	})
}

// Push 把 v 编码成 JSON 排进发送队列，不阻塞。
func (c *Conn) Push(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("ws marshal: %w", err)
	}
	select {
	case <-c.quit:
		return ErrClosed
	default:
	}
	select {
	case c.outChan <- b:
		return nil
	case <-c.quit:
		return ErrClosed
	default:
		return ErrQueueFull
	}
}

// Close 请求关闭：写循环先发完已排队的报文，再发 close 帧并断开。
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.quit)
	})
}

// Done 在底层连接真正关闭后被关闭。
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

func (c *Conn) readMsgLoop(onMessage func(data []byte)) {
	defer func() {
		if err := recover(); err != nil {
			c.log.Error("ws readMsgLoop panic", zap.String("err", fmt.Sprintf("%v", err)))
		}
		c.Close()
	}()

	c.conn.SetReadLimit(c.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	})

	// 超限时暂停读取等令牌，帧不丢弃
	waitCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-c.quit:
			cancel()
		case <-waitCtx.Done():
		}
	}()

	for {
		typ, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Warn("ws read msg", zap.Error(err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
		if typ != websocket.TextMessage {
			c.log.Debug("ws drop non-text frame", zap.Int("frame_type", typ))
			continue
		}
		if !c.limiter.Allow() {
			c.log.Debug("ws message rate limited, reading paused", zap.Int("bytes", len(data)))
			if err := c.limiter.Wait(waitCtx); err != nil {
				return
			}
		}
		onMessage(data)
	}
}

func (c *Conn) writeMsgLoop() {
	ping := time.NewTicker(c.opts.PongWait * 9 / 10)
	defer func() {
		ping.Stop()
		_ = c.conn.Close()
		close(c.done)
	}()

	for {
		select {
		case msg := <-c.outChan:
			if err := c.write(msg); err != nil {
				c.Close()
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.opts.WriteWait)); err != nil {
				c.Close()
				return
			}
		case <-c.quit:
			c.drain()
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(c.opts.WriteWait))
			return
		}
	}
}

func (c *Conn) drain() {
	for {
		select {
		case msg := <-c.outChan:
			if err := c.write(msg); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *Conn) write(msg []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		c.log.Warn("ws write msg", zap.Error(err))
		return err
	}
	return nil
}
