package entities

import (
	"github.com/decker502/shuttlerally/pkg/components"
	"github.com/decker502/shuttlerally/pkg/config"
)

// Player 玩家控制的角色，活动范围是左半场
//
// SpeedBoost 和 PowerHit 两个能力标志由模拟循环根据当前道具写入，
// Player 只读取不计算。
type Player struct {
	X      float64 // 碰撞盒左上角X
	Y      float64 // 碰撞盒左上角Y
	Width  float64
	Height float64

	// CharacterIndex 角色外观序号，只影响绘制颜色
	CharacterIndex int

	SpeedBoost bool
	PowerHit   bool

	cfg       config.PlayerConfig
	court     *Court
	baseSpeed float64
}

// NewPlayer 创建玩家角色并放到发球站位
func NewPlayer(cfg *config.GameplayConfig, court *Court, characterIndex int) *Player {
	p := &Player{
		CharacterIndex: characterIndex,
		cfg:            cfg.Player,
		court:          court,
	}
	p.updateSize()
	p.Reset()
	return p
}

// Update 按输入移动并夹紧到左半场
// 对角线移动不做归一化：两个方向同时按下时每个轴都按全速移动
func (p *Player) Update(f Frame) {
	speed := p.Speed()
	step := speed * f.DT

	if f.Intent.Left {
		p.X -= step
	}
	if f.Intent.Right {
		p.X += step
	}
	if f.Intent.Up {
		p.Y -= step
	}
	if f.Intent.Down {
		p.Y += step
	}

	p.clampPosition()
}

// Speed 当前移动速度（像素/秒）
func (p *Player) Speed() float64 {
	if p.SpeedBoost {
		return p.baseSpeed * p.cfg.BoostMultiplier
	}
	return p.baseSpeed
}

// Bounds 实现 Actor
func (p *Player) Bounds() components.Rect {
	return components.Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}

// Reset 回到发球站位并清除能力标志
func (p *Player) Reset() {
	p.X = p.court.Width * p.cfg.ServeXRatio
	p.Y = p.court.FloorY - p.Height
	p.SpeedBoost = false
	p.PowerHit = false
	p.clampPosition()
}

// Resize 实现 Actor
func (p *Player) Resize() {
	p.updateSize()
	p.clampPosition()
}

// Facing 实现 Actor
func (p *Player) Facing() float64 {
	return 1
}

// MaxX 水平活动上限
func (p *Player) MaxX() float64 {
	return p.court.MidX() - p.Width/2
}

// MinY 垂直活动上限（屏幕坐标中较小的Y）
func (p *Player) MinY() float64 {
	return p.court.FloorY - p.Height*2
}

// MaxY 垂直活动下限
func (p *Player) MaxY() float64 {
	return p.court.FloorY - p.Height
}

func (p *Player) updateSize() {
	p.Width = p.court.Width * p.cfg.WidthRatio
	p.Height = p.court.Height * p.cfg.HeightRatio
	p.baseSpeed = p.court.Width * p.cfg.SpeedRatio
}

func (p *Player) clampPosition() {
	p.X = clamp(p.X, 0, p.MaxX())
	p.Y = clamp(p.Y, p.MinY(), p.MaxY())
}
