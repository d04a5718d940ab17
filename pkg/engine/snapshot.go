package engine

import (
	"slices"

	"github.com/decker502/shuttlerally/pkg/components"
	"github.com/decker502/shuttlerally/pkg/entities"
	"github.com/decker502/shuttlerally/pkg/physics"
	"github.com/decker502/shuttlerally/pkg/powerup"
	"github.com/decker502/shuttlerally/pkg/types"
)

// Frame 一帧的只读快照，供渲染器和测试使用
type Frame struct {
	Width     float64
	Height    float64
	FloorY    float64
	MidX      float64
	NetHeight float64

	Player   ActorView
	Opponent ActorView
	Shuttle  ShuttleView
	Powerups []powerup.Instance

	// Trajectory 预测轨迹，只有在有人击球后才提供
	Trajectory []physics.Point

	HumanScore    int
	AIScore       int
	LastHitter    types.Hitter
	ActivePowerup types.PowerupType

	State     State
	MatchOver bool
	Winner    types.Hitter
}

// ActorView 角色快照
type ActorView struct {
	Bounds         components.Rect
	Facing         float64
	CharacterIndex int
	SpeedBoost     bool
	PowerHit       bool
	// Difficulty 仅电脑对手有值
	Difficulty float64
}

// ShuttleView 羽毛球快照
type ShuttleView struct {
	physics.Body
	Gravity      float64
	Size         float64
	State        entities.ShuttleState
	Misdirection bool
}

// Snapshot 生成当前状态的快照
func (l *Loop) Snapshot() *Frame {
	f := &Frame{
		Width:     l.court.Width,
		Height:    l.court.Height,
		FloorY:    l.court.FloorY,
		MidX:      l.court.MidX(),
		NetHeight: l.court.NetHeight,
		Player: ActorView{
			Bounds:         l.player.Bounds(),
			Facing:         l.player.Facing(),
			CharacterIndex: l.player.CharacterIndex,
			SpeedBoost:     l.player.SpeedBoost,
			PowerHit:       l.player.PowerHit,
		},
		Opponent: ActorView{
			Bounds:     l.opponent.Bounds(),
			Facing:     l.opponent.Facing(),
			Difficulty: l.opponent.Difficulty,
		},
		Shuttle: ShuttleView{
			Body:         l.shuttle.Body,
			Gravity:      l.shuttle.Gravity,
			Size:         l.shuttle.Size,
			State:        l.shuttle.State,
			Misdirection: l.shuttle.Misdirection,
		},
		Powerups:      l.powerups.Instances(),
		HumanScore:    l.humanScore,
		AIScore:       l.aiScore,
		LastHitter:    l.lastHitter,
		ActivePowerup: l.lastNotified,
		State:         l.state,
		MatchOver:     l.matchOver,
		Winner:        l.winner,
	}

	if l.lastHitter != types.HitterNone {
		s := l.shuttle
		f.Trajectory = slices.Collect(physics.PredictTrajectory(s.X, s.Y, s.VX, s.VY, s.Gravity, l.court.FloorY))
	}
	return f
}
