package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	gameactor "PlanetWars/internal/game/actor"
	"PlanetWars/internal/game/actors"
	"PlanetWars/internal/game/engine"
	"PlanetWars/internal/game/interfaces"
	"PlanetWars/internal/game/session"
	"PlanetWars/internal/shared/config"
	"PlanetWars/internal/shared/logs"
	"PlanetWars/internal/shared/serverconfig"
	transporthttp "PlanetWars/internal/shared/transport/http"
	"PlanetWars/internal/shared/transport/ws"
	"PlanetWars/modules/kit/logx"
)

func main() {
	cfgErr := serverconfig.Load()
	conf := serverconfig.Conf()
	if err := logs.Init("planetwars", conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()

	var notFound *config.NotFoundError
	switch {
	case errors.As(cfgErr, &notFound):
		logs.Warn("config file not found, using defaults", zap.Error(cfgErr))
	case cfgErr != nil:
		logs.Fatal("load config failed", zap.Error(cfgErr))
	}
	logs.Info("conf",
		zap.String("host", conf.Server.Host),
		zap.Int("port", conf.Server.Port),
		zap.Any("game", conf.Game),
		zap.String("record_store", conf.Record.Store),
		zap.Bool("room_token", conf.Server.JWTSecret != ""),
	)

	baseLogger := logx.NewZapLogger(logs.Logger())

	records, closeRecords, err := openRecords(conf)
	if err != nil {
		logs.Fatal("open record store failed", zap.Error(err))
	}
	defer closeRecords()

	rt := gameactor.NewRuntime(actors.Deps{
		Session:      sessionConfig(conf.Game),
		RoundTimeout: conf.Game.RoundTimeout,
		ReplayDir:    conf.Replay.Dir,
		SnapshotDir:  conf.Snapshot.Dir,
		Records:      records,
		Logger:       baseLogger,
	}, conf.Server.AskTimeout)

	host := conf.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", host, conf.Server.Port)

	httpServer := transporthttp.NewHttpServer(addr, nil, baseLogger)
	wsServer := ws.NewServer(ws.Options{
		ReadLimit:    conf.Server.ReadLimit,
		MsgPerSecond: conf.Server.MsgPerSecond,
		MsgBurst:     conf.Server.MsgBurst,
	}, baseLogger)
	secret := func() string { return serverconfig.Conf().Server.JWTSecret }
	interfaces.New(rt, records, wsServer, secret, baseLogger).Register(httpServer.Routes())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logs.Info("planetwars server started", zap.String("addr", addr))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("planetwars server start failed: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	// 停掉所有对局，未结束的连接随之关闭
	rt.Shutdown()
}

func sessionConfig(g serverconfig.GameConfig) session.Config {
	cfg := session.DefaultConfig()
	cfg.Map = engine.MapConfig{
		PlanetCount:  g.PlanetCount,
		Width:        float64(g.Width),
		Height:       float64(g.Height),
		InitialShips: g.InitialShips,
	}
	if g.MaxTurns > 0 {
		cfg.MaxTurns = g.MaxTurns
	}
	cfg.Seed = uint64(g.Seed)
	return cfg
}
