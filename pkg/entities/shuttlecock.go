package entities

import (
	"math"
	"math/rand/v2"

	"github.com/decker502/shuttlerally/pkg/config"
	"github.com/decker502/shuttlerally/pkg/physics"
)

// ShuttleState 羽毛球状态
type ShuttleState int

const (
	ShuttleServing ShuttleState = iota // 发球位，尚未开始飞行
	ShuttleFlying                      // 飞行中
	ShuttleStruck                      // 本帧被击中，下次更新转为飞行
	ShuttleLanded                      // 落地，等待重新发球
)

// String 返回状态名
func (s ShuttleState) String() string {
	switch s {
	case ShuttleServing:
		return "serving"
	case ShuttleFlying:
		return "flying"
	case ShuttleStruck:
		return "struck"
	case ShuttleLanded:
		return "landed"
	default:
		return "unknown"
	}
}

const (
	// 电脑击球：强制打向玩家半场并给出固定的上挑角度，保证回球合法
	aiDirXScale  = 0.8
	aiDirXSpread = 0.2
	aiDirY       = -0.7
)

// Shuttlecock 羽毛球
//
// 状态机: Serving → Flying → (Struck ⇄ Flying) → Landed → Serving
// 随机性来自注入的 *rand.Rand，测试中可以固定种子。
type Shuttlecock struct {
	physics.Body

	Gravity float64 // 重力加速度（像素/秒²）
	Size    float64 // 绘制半径
	State   ShuttleState

	// Misdirection 迷踪能力标志，由模拟循环写入
	Misdirection bool

	cfg   config.ShuttleConfig
	court *Court
	rng   *rand.Rand

	// 上次 Resize 时的画布尺寸，用于保持相对位置
	width, height float64
}

// NewShuttlecock 创建羽毛球，初始静止在发球点
func NewShuttlecock(cfg *config.GameplayConfig, court *Court, rng *rand.Rand) *Shuttlecock {
	s := &Shuttlecock{
		cfg:    cfg.Shuttle,
		court:  court,
		rng:    rng,
		width:  court.Width,
		height: court.Height,
	}
	s.updateScale()
	s.X, s.Y = s.ServePoint()
	s.State = ShuttleServing
	return s
}

// ServePoint 发球点：球场中线上方
func (s *Shuttlecock) ServePoint() (float64, float64) {
	return s.court.Width / 2, s.court.Height * s.cfg.ServeHeightRatio
}

// Reset 回到发球点，赋予随机的水平初速度和固定的向上初速度，清除迷踪标志
func (s *Shuttlecock) Reset() {
	s.X, s.Y = s.ServePoint()
	s.VX = (s.rng.Float64()*2 - 1) * s.court.Width * s.cfg.ServeJitterRatio
	s.VY = -s.court.Height * s.cfg.ServeLiftRatio
	s.Misdirection = false
	s.State = ShuttleServing
}

// Update 积分一帧
//
// 重力 → 迷踪扰动（低概率，避免轨迹抖动得不连贯）→ 位移 → 阻力
func (s *Shuttlecock) Update(dt float64) {
	if s.State == ShuttleLanded {
		return
	}

	s.VY += s.Gravity * dt

	if s.Misdirection && s.rng.Float64() < s.cfg.ErraticChance {
		s.VX += (s.rng.Float64() - 0.5) * s.court.Width * s.cfg.ErraticImpulseRatio * dt
		s.VY += (s.rng.Float64() - 0.5) * s.court.Height * s.cfg.ErraticImpulseRatio * dt
	}

	s.X += s.VX * dt
	s.Y += s.VY * dt

	s.VX *= s.cfg.Drag
	s.VY *= s.cfg.Drag

	s.State = ShuttleFlying
}

// Hit 击球，重新计算球速
//
// 参数:
//   - fromX, fromY: 击球者位置
//   - power: 是否为重击
//   - byAI: 是否由电脑击出
//
// 方向从击球者指向球；电脑击球时方向被强制打向玩家半场。
// 力度随击球距离衰减（有下限），重击再乘以倍率，最后叠加一个小的随机扰动。
func (s *Shuttlecock) Hit(fromX, fromY float64, power, byAI bool) {
	w, h := s.court.Width, s.court.Height

	dx := s.X - fromX
	dy := s.Y - fromY
	distance := math.Hypot(dx, dy)

	// 距离为零时没有方向，按竖直向上处理
	dirX, dirY := 0.0, -1.0
	if distance > 0 {
		dirX = dx / distance
		dirY = dy / distance
	}

	if byAI {
		dirX = -math.Abs(dirX) * aiDirXScale
		dirY = aiDirY
		dirX -= s.rng.Float64() * aiDirXSpread
	}

	force := math.Max(s.cfg.MinForce, 1-distance/(w*s.cfg.SweetSpotRatio))
	speed := w * s.cfg.HitSpeedRatio * force
	if power {
		speed *= s.cfg.PowerMultiplier
	}

	lift, jitter := -s.cfg.HumanLift, s.cfg.HumanJitter
	if byAI {
		lift, jitter = -s.cfg.AILift, s.cfg.AIJitter
	}

	s.VX = dirX * speed
	s.VY = dirY*speed + lift*h
	s.VX += (s.rng.Float64() - 0.5) * w * jitter
	s.VY += (s.rng.Float64() - 0.5) * h * jitter

	s.State = ShuttleStruck
}

// MarkLanded 标记落地
func (s *Shuttlecock) MarkLanded() {
	s.State = ShuttleLanded
}

// Resize 球场尺寸变化后保持相对位置，并按新尺寸重算重力和半径
func (s *Shuttlecock) Resize() {
	if s.width > 0 && s.height > 0 {
		s.X = s.X / s.width * s.court.Width
		s.Y = s.Y / s.height * s.court.Height
	}
	s.width, s.height = s.court.Width, s.court.Height
	s.updateScale()
}

func (s *Shuttlecock) updateScale() {
	s.Gravity = s.court.Height * s.cfg.GravityRatio
	s.Size = s.court.Width * s.cfg.SizeRatio
}
