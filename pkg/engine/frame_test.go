package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/decker502/shuttlerally/pkg/components"
	"github.com/decker502/shuttlerally/pkg/config"
	"github.com/decker502/shuttlerally/pkg/entities"
	"github.com/decker502/shuttlerally/pkg/input"
	"github.com/decker502/shuttlerally/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoringSide(t *testing.T) {
	tests := []struct {
		name        string
		onHumanSide bool
		lastHitter  types.Hitter
		want        types.Hitter
	}{
		{"human side, human hit last", true, types.HitterHuman, types.HitterAI},
		{"human side, ai hit last", true, types.HitterAI, types.HitterHuman},
		{"human side, nobody hit", true, types.HitterNone, types.HitterAI},
		{"ai side, human hit last", false, types.HitterHuman, types.HitterHuman},
		{"ai side, ai hit last", false, types.HitterAI, types.HitterHuman},
		{"ai side, nobody hit", false, types.HitterNone, types.HitterHuman},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoringSide(tt.onHumanSide, tt.lastHitter))
		})
	}
}

// dropShuttle 把球放到地面线以下的指定位置
func dropShuttle(l *Loop, x float64) {
	l.shuttle.X = x
	l.shuttle.Y = l.court.FloorY + 1
	l.shuttle.VX, l.shuttle.VY = 0, 0
}

func TestLandingOnHumanSideAfterHumanHit(t *testing.T) {
	rig := newTestRig(t).started()
	l := rig.loop

	var scores [][2]int
	l.OnScoreUpdate(func(human, ai int) { scores = append(scores, [2]int{human, ai}) })

	dropShuttle(l, 100)
	l.lastHitter = types.HitterHuman
	rig.step()

	human, ai := l.Score()
	assert.Equal(t, 0, human)
	assert.Equal(t, 1, ai)
	assert.Equal(t, [][2]int{{0, 1}}, scores)

	// 得分后重新发球
	serveX, serveY := l.shuttle.ServePoint()
	assert.Equal(t, serveX, l.shuttle.X)
	assert.Equal(t, serveY, l.shuttle.Y)
	assert.Equal(t, entities.ShuttleServing, l.shuttle.State)
	assert.Equal(t, types.HitterNone, l.LastHitter())
	assert.Equal(t, 1, rig.renderer.last().AIScore)
}

func TestLandingOnAISideScoresForHuman(t *testing.T) {
	rig := newTestRig(t).started()
	l := rig.loop

	dropShuttle(l, 700)
	l.lastHitter = types.HitterAI
	rig.step()

	human, ai := l.Score()
	assert.Equal(t, 1, human)
	assert.Equal(t, 0, ai)
}

func TestMatchOverFreezesSimulation(t *testing.T) {
	rig := newTestRig(t).started()
	l := rig.loop
	l.aiScore = l.cfg.Match.WinningScore - 1

	var winners []types.Hitter
	l.OnMatchOver(func(winner types.Hitter) { winners = append(winners, winner) })

	dropShuttle(l, 100)
	rig.step()

	over, winner := l.MatchOver()
	require.True(t, over)
	assert.Equal(t, types.HitterAI, winner)
	assert.Equal(t, []types.Hitter{types.HitterAI}, winners)

	x, y := l.shuttle.X, l.shuttle.Y
	rendered := len(rig.renderer.frames)
	rig.steps(30)
	assert.Equal(t, x, l.shuttle.X)
	assert.Equal(t, y, l.shuttle.Y)
	assert.Len(t, rig.renderer.frames, rendered+30)
	assert.True(t, rig.renderer.last().MatchOver)
	assert.Equal(t, types.HitterAI, rig.renderer.last().Winner)

	l.Restart()
	rig.step()
	over, _ = l.MatchOver()
	assert.False(t, over)
	assert.NotEqual(t, y, l.shuttle.Y)
}

func TestHumanStrikeSendsShuttleTowardOpponent(t *testing.T) {
	rig := newTestRig(t).started()
	l := rig.loop
	assert.Empty(t, rig.renderer.last().Trajectory)

	cx, cy := l.player.Bounds().Center()
	l.shuttle.X, l.shuttle.Y = cx+60, cy-30
	l.shuttle.VX, l.shuttle.VY = 0, 0

	rig.sink(t).KeyDown(input.KeySpace)
	rig.step()

	assert.Equal(t, types.HitterHuman, l.LastHitter())
	assert.Equal(t, entities.ShuttleStruck, l.shuttle.State)
	assert.Greater(t, l.shuttle.VX, 0.0)
	assert.Less(t, l.shuttle.VY, 0.0)

	f := rig.renderer.last()
	assert.Equal(t, types.HitterHuman, f.LastHitter)
	assert.NotEmpty(t, f.Trajectory)

	// 同一方不能连续击球
	vx := l.shuttle.VX
	l.shuttle.X, l.shuttle.Y = cx+60, cy-30
	l.shuttle.VX, l.shuttle.VY = 0, 0
	rig.step()
	assert.NotEqual(t, vx, l.shuttle.VX)
	assert.InDelta(t, 0, l.shuttle.VX, 1e-9)
}

func TestStrikeOutOfRangeMisses(t *testing.T) {
	rig := newTestRig(t).started()
	l := rig.loop
	cx, cy := l.player.Bounds().Center()
	l.shuttle.X, l.shuttle.Y = cx+150, cy-30
	l.shuttle.VX, l.shuttle.VY = 0, 0

	rig.sink(t).KeyDown(input.KeySpace)
	rig.step()

	assert.Equal(t, types.HitterNone, l.LastHitter())
	assert.InDelta(t, 0, l.shuttle.VX, 1e-9)
}

func TestOpponentReturnsShuttleInRange(t *testing.T) {
	rig := newTestRig(t).started()
	l := rig.loop
	l.lastHitter = types.HitterHuman

	cx, cy := l.opponent.Bounds().Center()
	l.shuttle.X, l.shuttle.Y = cx-20, cy-30
	l.shuttle.VX, l.shuttle.VY = 0, 0
	rig.step()

	assert.Equal(t, types.HitterAI, l.LastHitter())
	assert.Less(t, l.shuttle.VX, 0.0)
	assert.Less(t, l.shuttle.VY, 0.0)
}

func TestCollectedPowerupNotifiesAndExpires(t *testing.T) {
	rig := newTestRig(t, func(cfg *config.GameplayConfig) {
		cfg.Powerups.Types = []config.PowerupTypeConfig{{Name: "speedBoost", Duration: 0.1, Color: "#87CEEB"}}
	}).started()
	l := rig.loop

	var kinds []types.PowerupType
	l.OnPowerupChange(func(kind types.PowerupType) { kinds = append(kinds, kind) })

	cx, cy := l.player.Bounds().Center()
	l.powerups.Place(types.PowerupSpeedBoost, cx, cy)
	rig.step()

	assert.True(t, l.player.SpeedBoost)
	assert.Equal(t, []types.PowerupType{types.PowerupSpeedBoost}, kinds)
	assert.Equal(t, types.PowerupSpeedBoost, rig.renderer.last().ActivePowerup)
	assert.InDelta(t, l.player.Speed(), 800*0.5*l.cfg.Player.BoostMultiplier, 1e-9)

	// 持续期间不重复通知
	rig.steps(3)
	assert.Len(t, kinds, 1)

	rig.steps(10)
	assert.False(t, l.player.SpeedBoost)
	assert.Equal(t, []types.PowerupType{types.PowerupSpeedBoost, types.PowerupNone}, kinds)
	assert.Empty(t, l.Snapshot().Powerups)
}

func TestPowerHitPowerupSetsOnlyItsFlag(t *testing.T) {
	rig := newTestRig(t).started()
	l := rig.loop

	cx, cy := l.player.Bounds().Center()
	l.powerups.Place(types.PowerupMisdirection, cx, cy)
	rig.step()
	assert.True(t, l.shuttle.Misdirection)
	assert.False(t, l.player.SpeedBoost)
	assert.False(t, l.player.PowerHit)

	l.powerups.Place(types.PowerupPowerHit, cx, cy)
	rig.step()
	assert.True(t, l.player.PowerHit)
	assert.False(t, l.shuttle.Misdirection)
	assert.Equal(t, types.PowerupPowerHit, rig.renderer.last().ActivePowerup)
}

func TestRandomRallyKeepsEntitiesInBounds(t *testing.T) {
	rig := newTestRig(t, func(cfg *config.GameplayConfig) {
		cfg.Powerups.SpawnChance = 0.02
	}).started()
	l := rig.loop
	sink := rig.sink(t)
	rng := rand.New(rand.NewPCG(7, 11))

	keys := []input.Key{input.KeyArrowLeft, input.KeyArrowRight, input.KeyArrowUp, input.KeyArrowDown, input.KeySpace, input.KeyShiftLeft}
	lastTotal := 0
	for i := range 5000 {
		k := keys[rng.IntN(len(keys))]
		if rng.IntN(2) == 0 {
			sink.KeyDown(k)
		} else {
			sink.KeyUp(k)
		}
		if i%1000 == 999 {
			require.NoError(t, l.Resize(600+rng.Float64()*600, 300+rng.Float64()*400))
		}
		rig.step()

		f := rig.renderer.last()
		require.GreaterOrEqual(t, l.player.X, 0.0)
		require.LessOrEqual(t, l.player.X, l.player.MaxX()+1e-9)
		require.GreaterOrEqual(t, l.player.Y, l.player.MinY()-1e-9)
		require.LessOrEqual(t, l.player.Y, l.player.MaxY()+1e-9)
		require.GreaterOrEqual(t, l.opponent.X, l.opponent.MinX()-1e-9)
		require.LessOrEqual(t, l.opponent.X, l.opponent.MaxX()+1e-9)
		require.GreaterOrEqual(t, f.Shuttle.X, 0.0)
		require.LessOrEqual(t, f.Shuttle.X, f.Width)
		require.GreaterOrEqual(t, f.Shuttle.Y, 0.0)
		require.LessOrEqual(t, l.powerups.Count(components.PowerupInactive)+l.powerups.Count(components.PowerupActive), 2)

		total := f.HumanScore + f.AIScore
		require.GreaterOrEqual(t, total, lastTotal)
		lastTotal = total
	}
}
