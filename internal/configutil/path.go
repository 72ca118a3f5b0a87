package configutil

import (
	"os"
	"path/filepath"
)

// ExpandPath 展开路径中的 ~ 和环境变量
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		// 获取用户家目录
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = homeDir + path[1:]
		}
	}
	// 展开环境变量
	return os.ExpandEnv(path)
}

// EnsureDir 展开路径并创建其所在目录，返回展开后的路径
func EnsureDir(path string) (string, error) {
	expanded := ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(expanded), 0755); err != nil {
		return expanded, err
	}
	return expanded, nil
}
