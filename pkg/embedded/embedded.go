// Package embedded 提供嵌入数据文件的统一访问接口
//
// Go embed 指令只能嵌入当前包目录及其子目录的文件，
// 因此 embed.FS 变量声明在模块根目录（embed.go），由入口调用 Init 交给本包。
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// ErrNotInitialized 尚未调用 Init
var ErrNotInitialized = errors.New("embedded package not initialized, call Init() first")

// GameplayConfigPath 内置玩法配置的路径
const GameplayConfigPath = "data/gameplay.yaml"

var (
	dataFS      fs.FS
	initialized bool
)

// Init 设置嵌入的数据文件系统
// 必须在读取任何数据文件之前调用
func Init(data fs.FS) {
	dataFS = data
	initialized = data != nil
}

// IsInitialized 返回是否已初始化
func IsInitialized() bool {
	return initialized
}

// ReadFile 读取嵌入的数据文件，路径必须以 "data/" 开头
func ReadFile(path string) ([]byte, error) {
	path, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(dataFS, path)
}

// Exists 检查文件是否存在
func Exists(path string) bool {
	path, err := normalize(path)
	if err != nil {
		return false
	}
	_, err = fs.Stat(dataFS, path)
	return err == nil
}

// normalize 统一分隔符并去掉 "./" 前缀
func normalize(path string) (string, error) {
	if !initialized {
		return "", ErrNotInitialized
	}
	path = strings.TrimPrefix(filepath.ToSlash(path), "./")
	if !strings.HasPrefix(path, "data/") {
		return "", fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", path)
	}
	return path, nil
}
