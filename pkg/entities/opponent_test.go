package entities

import (
	"testing"

	"github.com/decker502/shuttlerally/pkg/input"
	"github.com/decker502/shuttlerally/pkg/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpponent(t *testing.T, difficulty float64, seed uint64) (*Opponent, *Court) {
	t.Helper()
	cfg, court, rng := newTestWorld(seed)
	cfg.Opponent.Difficulty = difficulty
	return NewOpponent(cfg, court, rng), court
}

func TestOpponentDifficulty(t *testing.T) {
	tests := []struct {
		name      string
		input     float64
		wantD     float64
		wantDelay float64
		wantSpeed float64
	}{
		{"满难度无延迟", 1, 1, 0, 320},
		{"默认难度", 0.75, 0.75, 0.075, 240},
		{"半难度", 0.5, 0.5, 0.15, 160},
		{"超过上限", 2, 1, 0, 320},
		{"非正值夹紧到下限", 0, MinDifficulty, 0.3 * (1 - MinDifficulty), 320 * MinDifficulty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, _ := newTestOpponent(t, tt.input, 1)
			assert.InDelta(t, tt.wantD, o.Difficulty, 1e-9)
			assert.InDelta(t, tt.wantDelay, o.ReactionDelay, 1e-9)
			assert.InDelta(t, tt.wantSpeed, o.Speed(), 1e-9)
		})
	}
}

func TestOpponentReset(t *testing.T) {
	o, _ := newTestOpponent(t, 0.75, 1)
	assert.InDelta(t, 600, o.X, 1e-9)
	assert.InDelta(t, 337.5, o.Y, 1e-9)
	assert.False(t, o.Moving)
	assert.Equal(t, BranchNone, o.LastBranch())
	assert.Equal(t, -1.0, o.Facing())

	bounds := o.Bounds()
	assert.InDelta(t, 560, bounds.X, 1e-9, "锚点在碰撞盒右边缘")
}

func TestOpponentInterceptWithoutErrorAtFullDifficulty(t *testing.T) {
	for seed := range uint64(20) {
		o, _ := newTestOpponent(t, 1, seed)

		// 高球下落：t 夹到 0.1，x = 500 + 100*0.1
		o.Update(Frame{DT: 0, Shuttle: physics.Body{X: 500, Y: 100, VX: 100, VY: 50}, Gravity: 180})

		require.Equal(t, BranchIntercept, o.LastBranch())
		assert.Zero(t, o.LastAimError(), "难度为 1 时没有瞄准误差")
		assert.InDelta(t, 510, o.TargetX, 1e-9)
		assert.InDelta(t, 328.5, o.TargetY, 1e-9, "高球时起跳到 floor-1.2h")
		assert.True(t, o.Moving)
	}
}

func TestOpponentInterceptErrorScalesWithDifficulty(t *testing.T) {
	for seed := range uint64(50) {
		o, _ := newTestOpponent(t, 0.5, seed)
		o.Update(Frame{DT: 0, Shuttle: physics.Body{X: 500, Y: 100, VX: 100, VY: 50}, Gravity: 180})

		require.Equal(t, BranchIntercept, o.LastBranch())
		// (1-0.5) * 800 * 0.1 * [-0.5, 0.5)
		assert.LessOrEqual(t, o.LastAimError(), 20.0)
		assert.GreaterOrEqual(t, o.LastAimError(), -20.0)
	}
}

func TestOpponentInterceptClampedAwayFromNet(t *testing.T) {
	o, _ := newTestOpponent(t, 1, 1)
	o.Update(Frame{DT: 0, Shuttle: physics.Body{X: 410, Y: 100, VX: 10, VY: 50}, Gravity: 180})

	assert.InDelta(t, 480, o.TargetX, 1e-9, "拦截点离中线至少 2w")
}

func TestOpponentLandingPrediction(t *testing.T) {
	o, court := newTestOpponent(t, 1, 1)
	shuttle := physics.Body{X: 600, Y: 300, VX: 50, VY: 100}

	o.Update(Frame{DT: 0, Shuttle: shuttle, Gravity: 180})

	want := physics.PredictLandingX(shuttle, 180, court.FloorY, 0.995)
	require.Equal(t, BranchLanding, o.LastBranch())
	assert.InDelta(t, want, o.TargetX, 1e-9)
	assert.InDelta(t, 337.5, o.TargetY, 1e-9)
	assert.Zero(t, o.LastAimError())
}

func TestOpponentReadyPosition(t *testing.T) {
	o, _ := newTestOpponent(t, 1, 1)

	// 球还在玩家半场但正飞向电脑半场，且正在上升
	o.Update(Frame{DT: 0, Shuttle: physics.Body{X: 300, Y: 200, VX: 10, VY: -10}, Gravity: 180})

	assert.Equal(t, BranchReady, o.LastBranch())
	assert.InDelta(t, 520, o.TargetX, 1e-9)
	assert.InDelta(t, 337.5, o.TargetY, 1e-9)
}

func TestOpponentNeutralDrift(t *testing.T) {
	o, _ := newTestOpponent(t, 1, 1)
	o.X = o.MinX()
	away := Frame{DT: 0, Shuttle: physics.Body{X: 300, Y: 200, VX: -10, VY: 10}, Gravity: 180}

	o.Update(away)
	require.Equal(t, BranchNeutral, o.LastBranch())
	assert.GreaterOrEqual(t, o.TargetX, 560.0)
	assert.LessOrEqual(t, o.TargetX, 640.0)
	assert.True(t, o.Moving)

	// 已经在移动时不会重新选择回中位置
	target := o.TargetX
	o.Update(away)
	assert.Equal(t, target, o.TargetX)
}

func TestOpponentMovesAndStops(t *testing.T) {
	o, _ := newTestOpponent(t, 1, 1)
	ready := Frame{DT: 0.1, Shuttle: physics.Body{X: 300, Y: 200, VX: 10, VY: -10}, Gravity: 180}

	// 从 600 向 520 移动，速度 320
	o.Update(ready)
	assert.InDelta(t, 568, o.X, 1e-9)
	assert.True(t, o.Moving)

	for range 10 {
		o.Update(ready)
	}
	assert.InDelta(t, 520, o.X, 5, "停在目标附近")

	// 走到目标附近后，只有重新决策才会再次移动
	o.TargetX = o.X + 1
	o.Moving = true
	o.move(0.1)
	assert.False(t, o.Moving, "距离目标不足 5 时停止")
}

func TestOpponentReactionDelayThrottlesPlanning(t *testing.T) {
	o, _ := newTestOpponent(t, 0.5, 1)
	require.InDelta(t, 0.15, o.ReactionDelay, 1e-9)

	ready := physics.Body{X: 300, Y: 200, VX: 10, VY: -10}
	landing := physics.Body{X: 600, Y: 300, VX: 50, VY: 100}

	o.Update(Frame{DT: 0.1, Shuttle: ready, Gravity: 180})
	assert.Equal(t, BranchReady, o.LastBranch())

	o.Update(Frame{DT: 0.1, Shuttle: landing, Gravity: 180})
	assert.Equal(t, BranchReady, o.LastBranch(), "反应延迟内不重新决策")

	o.Update(Frame{DT: 0.1, Shuttle: landing, Gravity: 180})
	assert.Equal(t, BranchLanding, o.LastBranch())
}

func TestActorsStayInBounds(t *testing.T) {
	cfg, court, rng := newTestWorld(42)
	cfg.Opponent.Difficulty = 1
	player := NewPlayer(cfg, court, 0)
	opponent := NewOpponent(cfg, court, newTestRand(43))

	for i := range 5000 {
		if i%1000 == 999 {
			// 中途改变画布尺寸
			court.Resize(testWidth*(0.5+rng.Float64()), testHeight*(0.5+rng.Float64()))
			player.Resize()
			opponent.Resize()
		}

		f := Frame{
			DT: rng.Float64() * 0.1,
			Intent: input.Intent{
				Left:  rng.IntN(2) == 0,
				Right: rng.IntN(2) == 0,
				Up:    rng.IntN(2) == 0,
				Down:  rng.IntN(2) == 0,
			},
			Shuttle: physics.Body{
				X:  rng.Float64() * court.Width,
				Y:  rng.Float64() * court.FloorY,
				VX: (rng.Float64() - 0.5) * 1000,
				VY: (rng.Float64() - 0.5) * 1000,
			},
			Gravity: court.Height * cfg.Shuttle.GravityRatio,
		}
		player.SpeedBoost = rng.IntN(2) == 0
		player.Update(f)
		opponent.Update(f)

		floor := court.FloorY
		require.GreaterOrEqual(t, player.X, 0.0)
		require.LessOrEqual(t, player.X, court.MidX()-player.Width/2)
		require.GreaterOrEqual(t, player.Y, floor-2*player.Height-1e-9)
		require.LessOrEqual(t, player.Y, floor-player.Height+1e-9)

		require.GreaterOrEqual(t, opponent.X, court.MidX()+opponent.Width/2)
		require.LessOrEqual(t, opponent.X, court.Width-opponent.Width)
		require.GreaterOrEqual(t, opponent.Y, floor-2*opponent.Height-1e-9)
		require.LessOrEqual(t, opponent.Y, floor-opponent.Height+1e-9)
	}
}
