package main

import (
	"math"
	"time"

	"github.com/decker502/shuttlerally/pkg/components"
	"github.com/decker502/shuttlerally/pkg/engine"
	"github.com/decker502/shuttlerally/pkg/input"
	"github.com/decker502/shuttlerally/pkg/physics"
	"github.com/decker502/shuttlerally/pkg/types"
)

const (
	// deadZone 与目标的水平距离小于该值时停止移动
	deadZone = 8.0
	// strikeReach 球与玩家中心的距离小于 宽度×该倍数 时挥拍
	strikeReach = 2.0
	// tapLength 触摸模式下单击的按住时长
	tapLength = 80 * time.Millisecond
)

// autopilot 脚本化的玩家：追向预测落点，球进入范围时挥拍
//
// 键盘模式通过 Space 击球；触摸模式通过短按（单击）击球，验证手势合成。
type autopilot struct {
	sink  input.EventSink
	drag  float64
	touch bool

	keys    map[input.Key]bool
	tapEnds time.Duration
	tapping bool

	strikes int
}

func newAutopilot(sink input.EventSink, drag float64, touch bool) *autopilot {
	return &autopilot{
		sink:  sink,
		drag:  drag,
		touch: touch,
		keys:  make(map[input.Key]bool),
	}
}

// drive 根据上一帧快照决定本帧的按键
func (p *autopilot) drive(f *engine.Frame, now time.Duration) {
	if f == nil {
		return
	}

	cx, cy := f.Player.Bounds.Center()
	targetX := p.targetX(f)
	p.setKey(input.KeyArrowLeft, targetX < cx-deadZone)
	p.setKey(input.KeyArrowRight, targetX > cx+deadZone)

	// 球高于头顶时起跳
	p.setKey(input.KeyArrowUp, f.Shuttle.Y < f.Player.Bounds.Y && f.Shuttle.X < f.MidX)

	reach := math.Hypot(f.Shuttle.X-cx, f.Shuttle.Y-cy) < f.Player.Bounds.Width*strikeReach
	swing := reach && f.LastHitter != types.HitterHuman

	if p.touch {
		p.driveTouch(swing, cx, cy, now)
		return
	}
	if swing && !p.keys[input.KeySpace] {
		p.strikes++
	}
	p.setKey(input.KeySpace, swing)
}

// targetX 球飞向玩家半场时追预测落点，否则回到半场中间；
// 场上有未拾取的道具且球在对方半场时去拾取道具
func (p *autopilot) targetX(f *engine.Frame) float64 {
	s := f.Shuttle
	if s.VX < 0 || s.X < f.MidX {
		landing := physics.PredictLandingX(s.Body, s.Gravity, f.FloorY, p.drag)
		return min(landing, f.MidX)
	}
	for _, pu := range f.Powerups {
		if pu.State == components.PowerupInactive {
			return pu.X
		}
	}
	return f.MidX / 2
}

func (p *autopilot) driveTouch(swing bool, x, y float64, now time.Duration) {
	if p.tapping && now >= p.tapEnds {
		p.sink.TouchEnd(now)
		p.tapping = false
	}
	if swing && !p.tapping {
		p.sink.TouchStart(x, y, now)
		p.tapEnds = now + tapLength
		p.tapping = true
		p.strikes++
	}
}

func (p *autopilot) setKey(k input.Key, down bool) {
	if p.keys[k] == down {
		return
	}
	p.keys[k] = down
	if down {
		p.sink.KeyDown(k)
	} else {
		p.sink.KeyUp(k)
	}
}

// release 抬起所有按键
func (p *autopilot) release(now time.Duration) {
	for k, down := range p.keys {
		if down {
			p.setKey(k, false)
		}
	}
	if p.tapping {
		p.sink.TouchEnd(now)
		p.tapping = false
	}
}
