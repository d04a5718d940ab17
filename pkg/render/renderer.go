// Package render 用 Ebitengine 的矢量图元绘制模拟循环的帧快照
//
// 模拟循环在帧回调中调用 Render 交付快照，Ebitengine 在 Draw 阶段调用 Renderer.Draw 真正绘制。
// 两者都在 Ebitengine 的主循环中执行，不需要加锁。
package render

import (
	"image/color"
	"math"

	"github.com/decker502/shuttlerally/pkg/components"
	"github.com/decker502/shuttlerally/pkg/engine"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	// gradientBands 天空和地面渐变的分段数
	gradientBands = 24
	// trajectoryDash 预测轨迹每隔一段绘制一段，形成虚线
	trajectoryDash = 2
)

// Renderer 绘制最近一次交付的帧快照
type Renderer struct {
	frame  *engine.Frame
	frames int

	// powerupColors 道具颜色解析缓存
	powerupColors map[string]color.RGBA
}

var _ engine.Renderer = (*Renderer)(nil)

// NewRenderer 创建渲染器
func NewRenderer() *Renderer {
	return &Renderer{
		powerupColors: make(map[string]color.RGBA),
	}
}

// Render 实现 engine.Renderer，只保存快照
func (r *Renderer) Render(f *engine.Frame) {
	r.frame = f
	r.frames++
}

// Frame 最近一次交付的快照，尚未交付时为 nil
func (r *Renderer) Frame() *engine.Frame {
	return r.frame
}

// Frames 累计交付的快照数量
func (r *Renderer) Frames() int {
	return r.frames
}

// Draw 绘制最近一帧；还没有快照时只清屏
func (r *Renderer) Draw(screen *ebiten.Image) {
	f := r.frame
	if f == nil {
		screen.Fill(color.Black)
		return
	}

	r.drawCourt(screen, f)
	r.drawTrajectory(screen, f)
	r.drawPowerups(screen, f)
	r.drawPlayer(screen, f.Player)
	r.drawOpponent(screen, f.Opponent)
	r.drawShuttle(screen, f.Shuttle)
}

func (r *Renderer) drawCourt(screen *ebiten.Image, f *engine.Frame) {
	// 天空
	band := f.FloorY / gradientBands
	for i := range gradientBands {
		t := float64(i) / (gradientBands - 1)
		y := float64(i) * band
		vector.DrawFilledRect(screen, 0, float32(y), float32(f.Width), float32(band+1), gradient(skyTop, skyBottom, t), false)
	}

	// 地面
	ground := f.Height - f.FloorY
	band = ground / gradientBands
	for i := range gradientBands {
		t := float64(i) / (gradientBands - 1)
		y := f.FloorY + float64(i)*band
		vector.DrawFilledRect(screen, 0, float32(y), float32(f.Width), float32(band+1), gradient(floorTop, floorBottom, t), false)
	}

	// 场地线：中线、发球线、边界
	white := color.White
	vector.StrokeLine(screen, float32(f.MidX), float32(f.FloorY), float32(f.MidX), float32(f.Height), 2, white, false)
	serviceY := f.FloorY + ground*0.3
	vector.StrokeLine(screen, 0, float32(serviceY), float32(f.Width), float32(serviceY), 2, white, false)
	vector.StrokeRect(screen, float32(f.Width*0.05), float32(f.FloorY), float32(f.Width*0.9), float32(ground), 2, white, false)

	// 球网：立柱 + 网面
	netTop := f.FloorY - f.NetHeight
	vector.DrawFilledRect(screen, float32(f.MidX-5), float32(netTop-20), 10, float32(f.NetHeight+20), netPostColor, false)
	vector.DrawFilledRect(screen, float32(f.MidX-2), float32(netTop), 4, float32(f.NetHeight), withAlpha(color.RGBA{255, 255, 255, 255}, 180), false)
	for y := netTop + 10; y < f.FloorY; y += 10 {
		vector.StrokeLine(screen, float32(f.MidX-5), float32(y), float32(f.MidX+5), float32(y), 0.5, withAlpha(color.RGBA{255, 255, 255, 255}, 128), false)
	}
}

// drawTrajectory 虚线绘制预测轨迹，没有人击球时快照中没有轨迹
func (r *Renderer) drawTrajectory(screen *ebiten.Image, f *engine.Frame) {
	dash := withAlpha(color.RGBA{255, 255, 255, 255}, 77)
	for i := 1; i < len(f.Trajectory); i++ {
		if i%trajectoryDash == 0 {
			continue
		}
		a, b := f.Trajectory[i-1], f.Trajectory[i]
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 2, dash, true)
	}
}

func (r *Renderer) drawPowerups(screen *ebiten.Image, f *engine.Frame) {
	pulse := 1 + 0.1*math.Sin(float64(r.frames)*0.1)
	for _, p := range f.Powerups {
		if p.State != components.PowerupInactive {
			continue
		}
		c := r.powerupColor(p.Color)
		radius := float32(p.Radius * pulse)
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), radius*1.5, withAlpha(c, 64), true)
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), radius*0.6, c, true)
		vector.StrokeCircle(screen, float32(p.X), float32(p.Y), radius, 2, c, true)
	}
}

func (r *Renderer) drawPlayer(screen *ebiten.Image, v engine.ActorView) {
	look := CharacterPalette(v.CharacterIndex)
	b := v.Bounds
	cx, cy := b.Center()

	if v.PowerHit {
		vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(b.Width), color.NRGBA{255, 165, 0, 128}, true)
	}

	drawFigure(screen, b, look.Body, look.Hair)

	if v.SpeedBoost {
		vector.StrokeCircle(screen, float32(cx), float32(b.Bottom()-5), float32(b.Width*0.8), 2, color.NRGBA{0, 255, 255, 180}, true)
	}
}

func (r *Renderer) drawOpponent(screen *ebiten.Image, v engine.ActorView) {
	drawFigure(screen, v.Bounds, opponentBody, opponentHair)
}

// drawFigure 简化的人物：躯干矩形 + 头部圆形 + 头发
func drawFigure(screen *ebiten.Image, b components.Rect, body, hair color.RGBA) {
	headSize := b.Width * 0.9
	headX := b.X + b.Width/2
	headY := b.Y + headSize/2

	bodyTop := b.Y + headSize*0.9
	vector.DrawFilledRect(screen, float32(b.X+b.Width*0.1), float32(bodyTop), float32(b.Width*0.8), float32(b.Bottom()-bodyTop), body, true)

	vector.DrawFilledCircle(screen, float32(headX), float32(headY), float32(headSize/2), skinColor, true)
	vector.DrawFilledRect(screen, float32(headX-headSize/2), float32(b.Y), float32(headSize), float32(headSize*0.25), hair, true)
}

func (r *Renderer) drawShuttle(screen *ebiten.Image, v engine.ShuttleView) {
	x, y, size := float32(v.X), float32(v.Y), float32(v.Size)

	if v.Misdirection {
		vector.StrokeCircle(screen, x, y, size*3, 1, color.NRGBA{255, 255, 255, 180}, true)
	}
	vector.DrawFilledCircle(screen, x, y, size, shuttleColor, true)
	vector.StrokeCircle(screen, x, y, size, 1, color.Black, true)
}

// powerupColor 解析道具颜色，格式错误时使用白色
func (r *Renderer) powerupColor(hex string) color.RGBA {
	if c, ok := r.powerupColors[hex]; ok {
		return c
	}
	c, err := ParseHexColor(hex)
	if err != nil {
		c = color.RGBA{255, 255, 255, 255}
	}
	r.powerupColors[hex] = c
	return c
}
