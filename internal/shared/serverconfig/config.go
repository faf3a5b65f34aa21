package serverconfig

import (
	"sync"

	"PlanetWars/internal/shared/config"
)

const defaultConfigRelPath = "configs/conf.yml"

var (
	mu   sync.RWMutex
	conf = Default()
)

// Default 返回内置默认值，配置文件里没写的字段用它兜底。
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			ReadLimit:    64 << 10,
			MsgPerSecond: 200,
			MsgBurst:     400,
		},
		Game: GameConfig{
			PlanetCount:  10,
			Width:        50,
			Height:       50,
			InitialShips: 5,
			MaxTurns:     200,
		},
		Record: RecordConfig{Store: "memory"},
		Log:    LogConfig{Level: "info"},
	}
}

// Load 读取 configs/conf.yml，文件变更时整体替换当前配置。
func Load() error {
	next := Default()
	if err := config.Load(defaultConfigRelPath, &next, reload); err != nil {
		return err
	}
	Set(next)
	return nil
}

func reload(unmarshal func(out any) error) {
	next := Default()
	if err := unmarshal(&next); err != nil {
		return
	}
	Set(next)
}

// Conf 返回当前配置的拷贝，热更新期间读取也是安全的。
func Conf() Config {
	mu.RLock()
	defer mu.RUnlock()
	return conf
}

func Set(c Config) {
	mu.Lock()
	defer mu.Unlock()
	conf = c
}
