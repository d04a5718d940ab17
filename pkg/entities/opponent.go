package entities

import (
	"log"
	"math"
	"math/rand/v2"

	"github.com/decker502/shuttlerally/pkg/components"
	"github.com/decker502/shuttlerally/pkg/config"
	"github.com/decker502/shuttlerally/pkg/physics"
)

// MinDifficulty 难度下限，难度必须为正
const MinDifficulty = 0.05

// 电脑决策使用的几何常量（相对角色宽高）
const (
	highBallHeights    = 3.0 // 球高于 floor-3h 视为高球
	interceptHeights   = 2.0 // 拦截点高度 floor-2h
	jumpBallHeights    = 1.5 // 球高于 floor-1.5h 时起跳
	jumpTargetHeights  = 1.2 // 起跳目标高度 floor-1.2h
	interceptMinTime   = 0.1 // 拦截外推时间窗（秒）
	interceptMaxTime   = 1.0
	interceptNetMargin = 2.0 // 拦截点离中线至少 2w
	landingNetMargin   = 1.0 // 落点目标离中线至少 1w
	interceptErrorSize = 0.1 // 拦截误差幅度（相对画布宽度）
	landingErrorSize   = 0.15
)

// Opponent 电脑对手，活动范围是右半场
//
// 这是一个反应式的目标选择 AI，不做前瞻规划：
// 每次决策根据球当前的位置和速度选出一个目标点，然后以固定速度向目标移动。
// 难度同时线性影响移动速度和瞄准误差。
type Opponent struct {
	X      float64 // 角色锚点X（碰撞盒右边缘）
	Y      float64 // 碰撞盒顶部Y
	Width  float64
	Height float64

	Difficulty    float64
	ReactionDelay float64 // 两次决策之间的最小间隔（秒），难度为 1 时每帧决策

	TargetX float64
	TargetY float64
	Moving  bool

	cfg        config.OpponentConfig
	body       config.PlayerConfig
	drag       float64
	court      *Court
	rng        *rand.Rand
	speed      float64
	planTimer  float64
	lastError  float64
	lastBranch TargetBranch
}

// TargetBranch 最近一次决策选择的目标类型
type TargetBranch int

const (
	BranchNone      TargetBranch = iota // 尚未决策
	BranchIntercept                     // 高球拦截
	BranchLanding                       // 预测落点
	BranchReady                         // 网前准备
	BranchNeutral                       // 回中
)

// NewOpponent 创建电脑对手
//
// 难度超出 (0,1] 时会被夹紧并记录日志。
func NewOpponent(cfg *config.GameplayConfig, court *Court, rng *rand.Rand) *Opponent {
	o := &Opponent{
		cfg:   cfg.Opponent,
		body:  cfg.Player,
		drag:  cfg.Shuttle.Drag,
		court: court,
		rng:   rng,
	}
	o.SetDifficulty(cfg.Opponent.Difficulty)
	o.updateSize()
	o.Reset()
	return o
}

// SetDifficulty 设置难度并重算速度与反应延迟
func (o *Opponent) SetDifficulty(d float64) {
	clamped := clamp(d, MinDifficulty, 1)
	if clamped != d {
		log.Printf("[Opponent] Difficulty %.3f out of range, clamped to %.3f", d, clamped)
	}
	o.Difficulty = clamped
	o.ReactionDelay = o.cfg.MaxReactionDelay * (1 - clamped)
	o.speed = o.court.Width * o.cfg.SpeedRatio * clamped
}

// Update 决策并向目标移动
//
// 决策读取的是上一帧的球状态，需在球积分之前调用。
func (o *Opponent) Update(f Frame) {
	o.planTimer -= f.DT
	if o.planTimer <= 0 {
		o.plan(f.Shuttle, f.Gravity)
		o.planTimer = o.ReactionDelay
	}
	o.move(f.DT)
}

func (o *Opponent) plan(s physics.Body, gravity float64) {
	mid := o.court.MidX()
	floor := o.court.FloorY
	w, h := o.Width, o.Height

	switch {
	case s.VX > 0 || s.X > mid:
		switch {
		case s.Y < floor-h*highBallHeights && s.VY > 0:
			// 高球：在时间窗内线性外推拦截点
			t := clamp((s.Y-(floor-h*interceptHeights))/s.VY, interceptMinTime, interceptMaxTime)
			x := clamp(s.X+s.VX*t, mid+w*interceptNetMargin, o.court.Width-w)
			o.lastError = o.aimError(interceptErrorSize)
			o.TargetX = x + o.lastError
			if s.Y < floor-h*jumpBallHeights {
				o.TargetY = floor - h*jumpTargetHeights
			} else {
				o.TargetY = floor - h
			}
			o.lastBranch = BranchIntercept

		case s.VY > 0 && s.X > mid:
			// 正在下落到右半场：解析求落点
			landing := physics.PredictLandingX(s, gravity, floor, o.drag)
			o.lastError = o.aimError(landingErrorSize)
			o.TargetX = clamp(landing+o.lastError, mid+w*landingNetMargin, o.court.Width-w)
			o.TargetY = floor - h
			o.lastBranch = BranchLanding

		default:
			o.TargetX = o.court.Width * o.cfg.ReadyXRatio
			o.TargetY = floor - h
			o.lastError = 0
			o.lastBranch = BranchReady
		}
		o.Moving = true

	case s.X < mid && !o.Moving:
		// 球在玩家半场：回到中间位置，加一点随机偏移
		o.TargetX = o.court.Width * (o.cfg.NeutralXRatio + o.rng.Float64()*o.cfg.NeutralSpreadRatio)
		o.TargetY = floor - h
		o.lastError = 0
		o.lastBranch = BranchNeutral
		o.Moving = true
	}
}

// aimError 零均值的瞄准误差，幅度随难度线性减小，难度为 1 时恰好为 0
func (o *Opponent) aimError(size float64) float64 {
	return (1 - o.Difficulty) * o.court.Width * size * (o.rng.Float64() - 0.5)
}

func (o *Opponent) move(dt float64) {
	defer o.clampPosition()

	if !o.Moving {
		return
	}

	dx := o.TargetX - o.X
	dy := o.TargetY - o.Y
	distance := math.Hypot(dx, dy)
	if distance < o.cfg.StopDistance {
		o.Moving = false
		return
	}

	// 单帧步长不超过剩余距离，大步长时不会越过目标来回振荡
	step := math.Min(o.speed*dt, distance)
	o.X += dx / distance * step
	o.Y += dy / distance * step
}

// Bounds 实现 Actor
// 锚点在碰撞盒右边缘，与玩家镜像
func (o *Opponent) Bounds() components.Rect {
	return components.Rect{X: o.X - o.Width, Y: o.Y, Width: o.Width, Height: o.Height}
}

// Reset 回到发球站位并清除目标
func (o *Opponent) Reset() {
	o.X = o.court.Width * o.cfg.ServeXRatio
	o.Y = o.court.FloorY - o.Height
	o.clampPosition()
	o.TargetX = o.X
	o.TargetY = o.Y
	o.Moving = false
	o.planTimer = 0
	o.lastError = 0
	o.lastBranch = BranchNone
}

// Resize 实现 Actor
func (o *Opponent) Resize() {
	o.updateSize()
	o.speed = o.court.Width * o.cfg.SpeedRatio * o.Difficulty
	o.clampPosition()
}

// Facing 实现 Actor
func (o *Opponent) Facing() float64 {
	return -1
}

// Speed 移动速度（像素/秒）
func (o *Opponent) Speed() float64 {
	return o.speed
}

// LastAimError 最近一次决策加在目标X上的误差
func (o *Opponent) LastAimError() float64 {
	return o.lastError
}

// LastBranch 最近一次决策选择的目标类型
func (o *Opponent) LastBranch() TargetBranch {
	return o.lastBranch
}

// MinX 水平活动下限
func (o *Opponent) MinX() float64 {
	return o.court.MidX() + o.Width/2
}

// MaxX 水平活动上限
func (o *Opponent) MaxX() float64 {
	return o.court.Width - o.Width
}

func (o *Opponent) updateSize() {
	// 与玩家使用相同的体型
	o.Width = o.court.Width * o.body.WidthRatio
	o.Height = o.court.Height * o.body.HeightRatio
}

func (o *Opponent) clampPosition() {
	o.X = clamp(o.X, o.MinX(), o.MaxX())
	o.Y = clamp(o.Y, o.court.FloorY-o.Height*2, o.court.FloorY-o.Height)
}
