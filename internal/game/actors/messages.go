package actors

import (
	"PlanetWars/internal/game/session"
	"PlanetWars/internal/game/snapshot"
	"PlanetWars/modules/kit/errx"
)

var (
	ErrRoomBusy     = errx.NewBiz("ROOM_BUSY", "房间已有连接")
	ErrRoomNotFound = errx.NewBiz("ROOM_NOT_FOUND", "房间不存在或已结束")
)

// OpenSession 为房间创建对局 actor，Sender 是该房间唯一的传输连接。
type OpenSession struct {
	Room   string
	Sender session.Sender
}

type OpenSessionResp struct {
	Err error
}

// Deliver 把一条原始入站报文交给房间的对局 actor。
type Deliver struct {
	Room    string
	Raw     []byte
	TraceID string
}

type DeliverResp struct {
	Err error
}

// Detach 表示 Sender 对应的连接已断开，只会停掉仍由该 Sender 持有的房间。
type Detach struct {
	Room   string
	Sender session.Sender
}

type ListSessions struct{}

type ListSessionsResp struct {
	Rooms []string
}

type SnapshotReq struct {
	Room string
}

type SnapshotResp struct {
	Room     string
	Phase    string
	Started  bool
	Snapshot snapshot.SnapshotV1
	Err      error
}

// roundDeadline 由定时器发给对局 actor 自己。
type roundDeadline struct {
	Turn int
}

func (roundDeadline) NotInfluenceReceiveTimeout() {}
