package entities

import (
	"github.com/decker502/shuttlerally/pkg/components"
	"github.com/decker502/shuttlerally/pkg/config"
)

// Court 球场几何
//
// 地面线是得分边界，中线把球场分为左侧（玩家）和右侧（电脑）两个半场。
// 尺寸只在 Resize 时变化，实体持有同一个 *Court 并在 Resize 后重新夹紧位置。
type Court struct {
	Width     float64 // 画布宽度
	Height    float64 // 画布高度
	FloorY    float64 // 地面线Y坐标，始终在 (0, Height) 之间
	NetHeight float64 // 球网高度（仅用于绘制）

	cfg config.CourtConfig
}

// NewCourt 创建球场
func NewCourt(cfg config.CourtConfig, width, height float64) *Court {
	c := &Court{cfg: cfg}
	c.Resize(width, height)
	return c
}

// Resize 按新的画布尺寸重新计算地面线和球网
func (c *Court) Resize(width, height float64) {
	c.Width = width
	c.Height = height
	c.FloorY = height * c.cfg.FloorRatio
	c.NetHeight = height * c.cfg.NetHeightRatio
}

// MidX 中线X坐标
func (c *Court) MidX() float64 {
	return c.Width / 2
}

// Top 天花板Y坐标
func (c *Court) Top() float64 {
	return 0
}

// WallDamping 撞墙反弹的速度保留比例
func (c *Court) WallDamping() float64 {
	return c.cfg.WallDamping
}

// OnHumanSide 判断X坐标是否在玩家半场
func (c *Court) OnHumanSide(x float64) bool {
	return x < c.MidX()
}

// Bounds 球场边界矩形
func (c *Court) Bounds() components.Rect {
	return components.Rect{Width: c.Width, Height: c.Height}
}
