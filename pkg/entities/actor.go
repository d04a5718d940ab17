// Package entities 定义球场上的参与者：球场、羽毛球、玩家和电脑对手
//
// 玩家与电脑对手实现同一组能力（Actor），渲染层只依赖 Actor 绘制角色，
// 电脑专有的难度、目标点等字段只存在于 Opponent 上。
package entities

import (
	"github.com/decker502/shuttlerally/pkg/components"
	"github.com/decker502/shuttlerally/pkg/input"
	"github.com/decker502/shuttlerally/pkg/physics"
)

// Frame 单帧更新时实体可以观察到的信息
type Frame struct {
	DT      float64      // 本帧时间步长（秒）
	Intent  input.Intent // 玩家输入快照
	Shuttle physics.Body // 上一帧结束时的球状态
	Gravity float64      // 球的重力加速度
}

// Actor 玩家与电脑对手共享的能力集合
type Actor interface {
	// Update 推进一帧
	Update(f Frame)
	// Bounds 返回碰撞盒
	Bounds() components.Rect
	// Reset 回到发球站位
	Reset()
	// Resize 球场尺寸变化后重新计算尺寸并夹紧位置
	Resize()
	// Facing 朝向：1 面向右侧，-1 面向左侧（渲染时镜像）
	Facing() float64
}

var (
	_ Actor = (*Player)(nil)
	_ Actor = (*Opponent)(nil)
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
