package transport

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"PlanetWars/modules/kit/logx"
)

func TestAccess_成功与失败(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := logx.NewZapLogger(zap.New(core))

	ctx := Begin(context.Background(), "WS game.message")
	SetRoom(ctx, "r1")
	if _, ok := CodeOf(ctx); ok {
		t.Fatalf("code should be unset before Result")
	}
	Result(ctx, OK, nil)
	Finish(ctx, l)

	ctx = Begin(context.Background(), "GET /games/:id")
	Result(ctx, NotFound, errors.New("room not found"))
	Finish(ctx, l)

	if n := logs.FilterField(zap.String("room", "r1")).Len(); n != 1 {
		t.Fatalf("room field entries = %d", n)
	}
	if n := logs.FilterField(zap.String("result", "success")).Len(); n != 1 {
		t.Fatalf("success entries = %d", n)
	}
	if n := logs.FilterField(zap.String("error_reason", "room not found")).Len(); n != 1 {
		t.Fatalf("failure entries = %d", n)
	}
}

func TestAccess_无记录时不输出(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Finish(context.Background(), logx.NewZapLogger(zap.New(core)))
	Result(context.Background(), OK, nil)
	if logs.Len() != 0 {
		t.Fatalf("unexpected entries: %d", logs.Len())
	}
}
