package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ReloadFunc 在配置文件变更后被调用，unmarshal 把最新内容解到调用方给的结构体里。
type ReloadFunc func(unmarshal func(out any) error)

func load(configPath string, out any, onChange ReloadFunc) error {
	if !fileExist(configPath) {
		return fmt.Errorf("config file not exist, configPath=%v", configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	// 环境变量覆盖：PLANETWARS_GAME_MAX_TURNS -> game.max_turns
	v.SetEnvPrefix("PLANETWARS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return err
	}
	if err := v.Unmarshal(out); err != nil {
		return err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		log.Println("配置文件变更:", e.Name)
		if onChange == nil {
			return
		}
		onChange(func(next any) error { return v.Unmarshal(next) })
	})
	v.WatchConfig()
	return nil
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
