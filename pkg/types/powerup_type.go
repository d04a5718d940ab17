// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

// PowerupType 定义道具的类型
type PowerupType int

const (
	// PowerupNone 没有道具生效
	PowerupNone PowerupType = iota
	// PowerupSpeedBoost 加速：玩家移动速度 ×1.5
	PowerupSpeedBoost
	// PowerupPowerHit 重击：玩家击球力度 ×1.8
	PowerupPowerHit
	// PowerupMisdirection 迷踪：羽毛球轨迹随机扰动
	PowerupMisdirection
)

// AllPowerupTypes 可随机生成的道具类型（顺序即配置表顺序）
var AllPowerupTypes = []PowerupType{
	PowerupSpeedBoost,
	PowerupPowerHit,
	PowerupMisdirection,
}

// String 返回道具类型的显示名称
// 该名称同时也是对外通知（OnPowerupChange）使用的字符串
func (p PowerupType) String() string {
	switch p {
	case PowerupSpeedBoost:
		return "Speed Boost"
	case PowerupPowerHit:
		return "Power Hit"
	case PowerupMisdirection:
		return "Misdirection"
	default:
		return ""
	}
}

// ParsePowerupType 将配置中的名称解析为道具类型
// 支持显示名称（"Speed Boost"）和配置键（"speedBoost"）两种写法
func ParsePowerupType(name string) (PowerupType, bool) {
	switch name {
	case "Speed Boost", "speedBoost":
		return PowerupSpeedBoost, true
	case "Power Hit", "powerHit":
		return PowerupPowerHit, true
	case "Misdirection", "misdirection":
		return PowerupMisdirection, true
	default:
		return PowerupNone, false
	}
}
