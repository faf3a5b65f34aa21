package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"PlanetWars/internal/game/infra/persistence/memory"
	"PlanetWars/internal/game/infra/persistence/mongodb"
	"PlanetWars/internal/game/infra/persistence/mysql"
	"PlanetWars/internal/game/record"
	"PlanetWars/internal/shared/infrastructure/db"
	sharedmongo "PlanetWars/internal/shared/infrastructure/mongo"
	"PlanetWars/internal/shared/logs"
	"PlanetWars/internal/shared/serverconfig"
)

const (
	storeMemory = "memory"
	storeMongo  = "mongo"
	storeMySQL  = "mysql"
)

// openRecords 按 record.store 选择战绩存储，返回的 close 负责断开连接。
func openRecords(conf serverconfig.Config) (record.Repository, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch conf.Record.Store {
	case "", storeMemory:
		return memory.NewMatchRepository(), func() {}, nil
	case storeMongo:
		client, database, err := sharedmongo.Open(conf.MongoDB, logs.Logger())
		if err != nil {
			return nil, nil, err
		}
		repo := mongodb.NewMatchRepository(database)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		return repo, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logs.Warn("disconnect mongodb failed", zap.Error(err))
			}
		}, nil
	case storeMySQL:
		gormDB, err := db.Open(conf.MySQL)
		if err != nil {
			return nil, nil, err
		}
		repo := mysql.NewMatchRepository(gormDB)
		if err := repo.Migrate(ctx); err != nil {
			return nil, nil, err
		}
		return repo, func() {
			if sqlDB, err := gormDB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown record store %q", conf.Record.Store)
	}
}
