package config

import (
	"os"
	"path/filepath"
)

// EnvConfigPath 指定配置文件路径的环境变量，优先级最高。
const EnvConfigPath = "PLANETWARS_CONFIG"

// Load 读取配置到 out，文件变更时回调 onChange（可为 nil）。
//
// 约定：
// 1) 环境变量 PLANETWARS_CONFIG 非空时直接使用；
// 2) 否则从当前目录开始向上查找 relPath（例如 configs/conf.yml）。
func Load(relPath string, out any, onChange ReloadFunc) error {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return load(p, out, onChange)
	}
	if filepath.IsAbs(relPath) {
		return load(relPath, out, onChange)
	}
	curDir, err := os.Getwd()
	if err != nil {
		return err
	}
	path, err := findConfigUpward(curDir, relPath)
	if err != nil {
		return err
	}
	return load(path, out, onChange)
}

func findConfigUpward(startDir, relPath string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, relPath)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &NotFoundError{RelPath: relPath, StartDir: startDir}
		}
		dir = parent
	}
}

// NotFoundError 表示向上查找到根目录仍未找到配置文件。
type NotFoundError struct {
	RelPath  string
	StartDir string
}

func (e *NotFoundError) Error() string {
	return "config file not exist, searched " + e.RelPath + " from: " + e.StartDir
}
