//go:build android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureStorageDir 确保 Android 上的偏好存储目录存在并可写
// gdata 在 Android 上使用 /data/data/{package}/ 作为存储路径，但不会预先创建子目录，
// 需要在 gdata.Open 之前调用。
//
// 返回：
//   - error: 如果创建目录失败返回错误
func EnsureStorageDir() error {
	// 检测 Android 应用包名
	app, err := detectAndroidApp()
	if err != nil {
		return fmt.Errorf("failed to detect Android app: %w", err)
	}

	// 存储路径: /data/data/{package}/settings
	settingsDir := filepath.Join("/data/data", app, "settings")

	// 创建目录（如果不存在）
	if err := os.MkdirAll(settingsDir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory %s: %w", settingsDir, err)
	}

	// 验证目录可写
	testFile := filepath.Join(settingsDir, ".write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return fmt.Errorf("settings directory %s is not writable: %w", settingsDir, err)
	}
	os.Remove(testFile)

	return nil
}

// detectAndroidApp 从 /proc/self/cmdline 读取应用包名
// cmdline 以 NUL 分隔参数，第一个参数就是包名
func detectAndroidApp() (string, error) {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", err
	}

	name, _, _ := strings.Cut(string(data), "\x00")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("got empty output from /proc/self/cmdline")
	}
	return name, nil
}

// GetStoragePath 获取 Android 存储路径（用于调试）
func GetStoragePath() string {
	app, err := detectAndroidApp()
	if err != nil {
		return ""
	}
	return filepath.Join("/data/data", app)
}
