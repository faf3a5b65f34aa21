package replay

import (
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"PlanetWars/internal/game/protocol"
	"PlanetWars/internal/game/session"
	"PlanetWars/modules/kit/errx"
	"PlanetWars/modules/kit/logx"
	"PlanetWars/modules/kit/tracex"
)

// Entry 是回放文件里的一行：一条发出的报文。
type Entry struct {
	At        time.Time       `json:"at"`
	SessionID string          `json:"session_id"`
	Type      string          `json:"type"`
	Msg       json.RawMessage `json:"msg"`
}

// TeeSender 先把报文记进回放，再交给下游发送。回放写失败只记日志。
type TeeSender struct {
	next      session.Sender
	w         *Writer
	sessionID string
	ctx       context.Context
	log       logx.Logger
}

var _ session.Sender = (*TeeSender)(nil)

// NewTeeSender 在 dir/<sessionID>/ 下为一个会话开一份回放。
func NewTeeSender(next session.Sender, dir, sessionID string, l logx.Logger) *TeeSender {
	if l == nil {
		l = logx.Nop()
	}
	return &TeeSender{
		next:      next,
		w:         NewWriter(filepath.Join(dir, sessionID), "replay"),
		sessionID: sessionID,
		ctx:       tracex.WithSessionID(context.Background(), sessionID),
		log:       l,
	}
}

func (t *TeeSender) Send(msg protocol.Outbound) error {
	if err := t.record(msg); err != nil {
		logx.ReportSysErrorWithLoggerContext(t.ctx, t.log,
			logx.NewSysLog("replay.write", errx.ErrUnavailable.WithCause(err)))
	}
	return t.next.Send(msg)
}

func (t *TeeSender) Close() {
	if err := t.w.Close(); err != nil {
		logx.ReportSysErrorWithLoggerContext(t.ctx, t.log,
			logx.NewSysLog("replay.close", errx.ErrUnavailable.WithCause(err)))
	}
	t.next.Close()
}

func (t *TeeSender) record(msg protocol.Outbound) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return t.w.Write(Entry{
		At:        t.w.now().UTC(),
		SessionID: t.sessionID,
		Type:      msg.MessageType(),
		Msg:       b,
	})
}
