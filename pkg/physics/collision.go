// Package physics 提供无状态的碰撞判定与轨迹预测函数
//
// 这里的函数不持有任何状态，实体和球的数据由调用方传入；
// 落地判分不属于这里，越过地面线由模拟循环处理。
package physics

import (
	"math"

	"github.com/decker502/shuttlerally/pkg/components"
)

const (
	// HitRadiusFactor 击球判定半径（相对碰撞盒宽度）
	// 判定范围远大于碰撞盒本身，降低操作难度
	HitRadiusFactor = 2.5

	// HitCeilingFactor 击球高度上限（相对碰撞盒高度，从碰撞盒顶部向下计算）
	// 球低于这个高度时不能被击中，防止"穿地击球"
	HitCeilingFactor = 1.5
)

// Body 运动中的质点（位置 + 速度）
type Body struct {
	X  float64 // 位置X（像素）
	Y  float64 // 位置Y（像素，向下为正）
	VX float64 // 水平速度（像素/秒）
	VY float64 // 垂直速度（像素/秒）
}

// EntityHit 判断球是否在实体的击球范围内
//
// 参数:
//   - bounds: 实体碰撞盒
//   - x, y: 球的位置
//
// 返回:
//   - bool: 球到碰撞盒中心的距离小于 2.5 倍碰撞盒宽度，且球高于高度上限时返回 true
func EntityHit(bounds components.Rect, x, y float64) bool {
	cx, cy := bounds.Center()
	distance := math.Hypot(x-cx, y-cy)
	if distance >= bounds.Width*HitRadiusFactor {
		return false
	}
	return y < bounds.Y+bounds.Height*HitCeilingFactor
}

// ReflectBounds 处理球与左右墙、天花板的碰撞
//
// 越界时把位置夹回边界，并把对应速度分量反向乘以 damping。
// 地面不在这里处理：越过地面线是得分事件。
//
// 返回:
//   - hitWall: 是否撞到左右墙
//   - hitCeiling: 是否撞到天花板
func ReflectBounds(b *Body, width, top, damping float64) (hitWall, hitCeiling bool) {
	switch {
	case b.X < 0:
		b.X = 0
		b.VX *= -damping
		hitWall = true
	case b.X > width:
		b.X = width
		b.VX *= -damping
		hitWall = true
	}

	if b.Y < top {
		b.Y = top
		b.VY *= -damping
		hitCeiling = true
	}
	return hitWall, hitCeiling
}
