//go:build !mobile

// Package utils 提供平台相关的小工具
package utils

import "os"

// MobileEmulateEnv 设置为 1 时桌面端也按移动端处理（显示触摸操作提示）
const MobileEmulateEnv = "SHUTTLERALLY_MOBILE_EMULATE"

// IsMobile 检测当前是否在移动设备上运行
// 桌面端编译时默认返回 false
func IsMobile() bool {
	return os.Getenv(MobileEmulateEnv) == "1"
}
