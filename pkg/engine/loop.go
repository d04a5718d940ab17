// Package engine 实现模拟循环：拥有球场、双方角色、羽毛球、道具管理器和输入归一化器，
// 每帧按固定顺序推进它们，处理击球、边界与得分，并向外部观察者发出通知。
package engine

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/decker502/shuttlerally/pkg/config"
	"github.com/decker502/shuttlerally/pkg/entities"
	"github.com/decker502/shuttlerally/pkg/input"
	"github.com/decker502/shuttlerally/pkg/powerup"
	"github.com/decker502/shuttlerally/pkg/types"
)

var (
	// ErrNoRenderer 没有提供渲染器（绘制上下文不可用），无法启动
	ErrNoRenderer = errors.New("engine: renderer is required")
	// ErrNoScheduler 没有提供帧调度器
	ErrNoScheduler = errors.New("engine: frame scheduler is required")
	// ErrInvalidDimensions 画布尺寸必须为正
	ErrInvalidDimensions = errors.New("engine: dimensions must be positive")
)

// Renderer 绘制一帧快照
// 模拟循环不创建绘制表面，渲染器由外部注入
type Renderer interface {
	Render(f *Frame)
}

// State 模拟循环的生命周期状态
type State int

const (
	StateStopped State = iota
	StateRunning
	StatePaused
)

// String 返回状态名
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Options 构造参数
type Options struct {
	Width  float64 // 画布宽度
	Height float64 // 画布高度

	// CharacterIndex 玩家角色外观，只影响绘制
	CharacterIndex int
	// Difficulty 电脑难度 (0,1]，为 0 时使用配置值
	Difficulty float64

	// Config 玩法配置，为 nil 时使用内置默认值
	Config *config.GameplayConfig

	Renderer  Renderer
	Scheduler FrameScheduler
	// Input 设备事件源，可选；为 nil 时只能通过 Input() 直接注入事件
	Input input.Source
	// Rand 随机源，为 nil 时按当前时间播种
	Rand *rand.Rand
}

// Loop 模拟循环
//
// 单线程协作式：所有子系统只在帧回调中推进，设备事件只写入 Normalizer 的缓冲。
// 击球方（lastHitter）归循环所有，不属于羽毛球。
type Loop struct {
	cfg *config.GameplayConfig
	rng *rand.Rand

	court    *entities.Court
	player   *entities.Player
	opponent *entities.Opponent
	shuttle  *entities.Shuttlecock
	powerups *powerup.Manager
	input    *input.Normalizer
	source   input.Source

	renderer  Renderer
	scheduler FrameScheduler

	state         State
	pending       FrameHandle
	lastTimestamp time.Duration
	hasTimestamp  bool

	humanScore   int
	aiScore      int
	lastHitter   types.Hitter
	lastNotified types.PowerupType
	matchOver    bool
	winner       types.Hitter

	scoreObservers     observers[func(human, ai int)]
	powerupObservers   observers[func(kind types.PowerupType)]
	matchOverObservers observers[func(winner types.Hitter)]
}

// New 创建模拟循环
//
// 返回:
//   - *Loop: 处于 Stopped 状态的模拟循环，调用 Start 开始调度
//   - error: 缺少渲染器、调度器，尺寸非法或配置无效时返回错误
func New(opts Options) (*Loop, error) {
	if opts.Renderer == nil {
		return nil, ErrNoRenderer
	}
	if opts.Scheduler == nil {
		return nil, ErrNoScheduler
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: %.1fx%.1f", ErrInvalidDimensions, opts.Width, opts.Height)
	}

	cfg := config.DefaultGameplayConfig()
	if opts.Config != nil {
		copied := *opts.Config
		cfg = &copied
	}
	if opts.Difficulty > 0 {
		cfg.Opponent.Difficulty = opts.Difficulty
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	rng := opts.Rand
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}

	court := entities.NewCourt(cfg.Court, opts.Width, opts.Height)
	l := &Loop{
		cfg:       cfg,
		rng:       rng,
		court:     court,
		player:    entities.NewPlayer(cfg, court, opts.CharacterIndex),
		opponent:  entities.NewOpponent(cfg, court, rng),
		shuttle:   entities.NewShuttlecock(cfg, court, rng),
		powerups:  powerup.NewManager(cfg.Powerups, rng),
		source:    opts.Input,
		renderer:  opts.Renderer,
		scheduler: opts.Scheduler,
		state:     StateStopped,
	}
	l.attachInput()
	l.resetPositions()

	log.Printf("[Engine] Created %.0fx%.0f court (character=%d, difficulty=%.2f)",
		opts.Width, opts.Height, opts.CharacterIndex, l.opponent.Difficulty)
	return l, nil
}

func (l *Loop) attachInput() {
	l.input = input.NewNormalizer(l.cfg.Input)
	if l.source != nil {
		l.input.Attach(l.source)
	}
}

// Start 开始帧调度；已在运行或暂停时不做任何事
func (l *Loop) Start() {
	if l.state != StateStopped {
		return
	}
	if l.input == nil {
		l.attachInput()
	}
	l.state = StateRunning
	l.hasTimestamp = false
	l.requestFrame()
	log.Printf("[Engine] Started")
}

// Pause 暂停更新和绘制，帧调度保持不变；重复调用无副作用
func (l *Loop) Pause() {
	if l.state != StateRunning {
		return
	}
	l.state = StatePaused
	log.Printf("[Engine] Paused")
}

// Resume 从暂停恢复；只有在没有待触发的帧时才重新请求
func (l *Loop) Resume() {
	if l.state != StatePaused {
		return
	}
	l.state = StateRunning
	// 暂停期间的时间不计入下一帧
	l.hasTimestamp = false
	if l.pending == 0 {
		l.requestFrame()
	}
	log.Printf("[Engine] Resumed")
}

// Stop 取消帧调度并释放输入归一化器（定时器与设备订阅）
func (l *Loop) Stop() {
	if l.state == StateStopped {
		return
	}
	if l.pending != 0 {
		l.scheduler.CancelFrame(l.pending)
		l.pending = 0
	}
	l.state = StateStopped
	if l.input != nil {
		l.input.Dispose()
		l.input = nil
	}
	log.Printf("[Engine] Stopped")
}

// Restart 比分清零、角色和球回到发球位、清空道具，并重新通知比分与道具状态
func (l *Loop) Restart() {
	l.humanScore = 0
	l.aiScore = 0
	l.matchOver = false
	l.winner = types.HitterNone
	l.resetPositions()
	l.notifyScore()
	l.powerups.Clear()
	l.applyModifier(types.PowerupNone)
	l.lastNotified = types.PowerupNone
	l.notifyPowerup(types.PowerupNone)
	log.Printf("[Engine] Restarted")
}

// Resize 更新画布尺寸，所有实体重新夹紧到新的边界内
func (l *Loop) Resize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %.1fx%.1f", ErrInvalidDimensions, width, height)
	}
	l.court.Resize(width, height)
	l.player.Resize()
	l.opponent.Resize()
	l.shuttle.Resize()
	return nil
}

// SetDifficulty 调整电脑难度
func (l *Loop) SetDifficulty(d float64) {
	l.opponent.SetDifficulty(d)
}

// OnScoreUpdate 订阅比分变化，返回取消订阅函数
func (l *Loop) OnScoreUpdate(fn func(human, ai int)) func() {
	return l.scoreObservers.add(fn)
}

// OnPowerupChange 订阅当前生效道具的变化（PowerupNone 表示没有道具），返回取消订阅函数
func (l *Loop) OnPowerupChange(fn func(kind types.PowerupType)) func() {
	return l.powerupObservers.add(fn)
}

// OnMatchOver 订阅比赛结束，返回取消订阅函数
func (l *Loop) OnMatchOver(fn func(winner types.Hitter)) func() {
	return l.matchOverObservers.add(fn)
}

// State 当前生命周期状态
func (l *Loop) State() State {
	return l.state
}

// Score 当前比分（玩家, 电脑）
func (l *Loop) Score() (int, int) {
	return l.humanScore, l.aiScore
}

// LastHitter 最后击球方
func (l *Loop) LastHitter() types.Hitter {
	return l.lastHitter
}

// MatchOver 比赛是否结束以及胜者
func (l *Loop) MatchOver() (bool, types.Hitter) {
	return l.matchOver, l.winner
}

// Input 当前的输入归一化器；Stop 之后为 nil，下次 Start 时重新创建
func (l *Loop) Input() *input.Normalizer {
	return l.input
}

func (l *Loop) requestFrame() {
	l.pending = l.scheduler.RequestFrame(l.onFrame)
}

func (l *Loop) resetPositions() {
	l.player.Reset()
	l.opponent.Reset()
	l.shuttle.Reset()
	l.lastHitter = types.HitterNone
}

func (l *Loop) notifyScore() {
	human, ai := l.humanScore, l.aiScore
	l.scoreObservers.each(func(fn func(int, int)) { fn(human, ai) })
}

func (l *Loop) notifyPowerup(kind types.PowerupType) {
	l.powerupObservers.each(func(fn func(types.PowerupType)) { fn(kind) })
}

func (l *Loop) notifyMatchOver(winner types.Hitter) {
	l.matchOverObservers.each(func(fn func(types.Hitter)) { fn(winner) })
}
