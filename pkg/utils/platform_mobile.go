//go:build mobile

// Package utils 提供平台相关的小工具
package utils

// IsMobile 移动端编译时总是返回 true
func IsMobile() bool {
	return true
}
