package engine

import (
	"log"
	"time"

	"github.com/decker502/shuttlerally/pkg/entities"
	"github.com/decker502/shuttlerally/pkg/input"
	"github.com/decker502/shuttlerally/pkg/physics"
	"github.com/decker502/shuttlerally/pkg/types"
)

// onFrame 帧回调
//
// 暂停时只维持调度，不更新也不绘制；停止后到达的旧回调直接丢弃。
func (l *Loop) onFrame(now time.Duration) {
	l.pending = 0
	if l.state == StateStopped {
		return
	}

	dt := 0.0
	if l.hasTimestamp {
		dt = (now - l.lastTimestamp).Seconds()
	}
	l.lastTimestamp = now
	l.hasTimestamp = true

	// 切后台等原因造成的大跳帧按上限处理
	dt = max(0, min(dt, l.cfg.Match.MaxDeltaTime))

	if l.state == StateRunning {
		l.update(now, dt)
		l.renderer.Render(l.Snapshot())
	}

	l.requestFrame()
}

// update 推进一帧，顺序不可调整：
// 输入 → 玩家 → 电脑（读取上一帧的球）→ 球 → 击球 → 拾取道具 → 墙/天花板
// → 道具计时与通知 → 应用道具效果 → 得分 → 偶发生成道具
func (l *Loop) update(now time.Duration, dt float64) {
	if l.matchOver {
		// 比赛结束后冻结，直到 Restart
		return
	}

	l.input.Advance(now)
	intent := l.input.Sample()

	f := entities.Frame{
		DT:      dt,
		Intent:  intent,
		Shuttle: l.shuttle.Body,
		Gravity: l.shuttle.Gravity,
	}
	l.player.Update(f)
	l.opponent.Update(f)
	l.shuttle.Update(dt)

	l.resolveHits(intent)

	if got, ok := l.powerups.CheckCollisions(l.player.Bounds()); ok {
		log.Printf("[Engine] Player collected %s at (%.1f, %.1f)", got.Type, got.X, got.Y)
	}

	physics.ReflectBounds(&l.shuttle.Body, l.court.Width, l.court.Top(), l.court.WallDamping())

	active, _ := l.powerups.Update(dt)
	if active != l.lastNotified {
		l.lastNotified = active
		l.notifyPowerup(active)
	}
	l.applyModifier(active)

	l.checkScoring()

	l.powerups.MaybeSpawn(l.player.MaxX(), l.player.MinY(), l.player.MaxY(), l.court.Width)
}

// resolveHits 处理双方击球
//
// 同一方不能连续击球；玩家需要击球输入，电脑进入范围即击球。
// 重击输入或重击道具都会让玩家打出重击。
func (l *Loop) resolveHits(intent input.Intent) {
	strike := intent.Hit || intent.PowerHit
	if strike && l.lastHitter != types.HitterHuman &&
		physics.EntityHit(l.player.Bounds(), l.shuttle.X, l.shuttle.Y) {
		power := l.player.PowerHit || intent.PowerHit
		l.shuttle.Hit(l.player.X, l.player.Y, power, false)
		l.lastHitter = types.HitterHuman
	}

	if l.lastHitter != types.HitterAI &&
		physics.EntityHit(l.opponent.Bounds(), l.shuttle.X, l.shuttle.Y) {
		l.shuttle.Hit(l.opponent.X, l.opponent.Y, false, true)
		l.lastHitter = types.HitterAI
	}
}

// applyModifier 把当前道具效果写入能力标志，没有道具时全部清除
func (l *Loop) applyModifier(active types.PowerupType) {
	l.player.SpeedBoost = active == types.PowerupSpeedBoost
	l.player.PowerHit = active == types.PowerupPowerHit
	l.shuttle.Misdirection = active == types.PowerupMisdirection
}

// checkScoring 球越过地面线时判分并重新发球，返回是否发生了得分
//
// 落在玩家半场：玩家最后击球则电脑得分，电脑最后击球则玩家得分，无人击球算电脑得分；
// 落在电脑半场：一律玩家得分。
func (l *Loop) checkScoring() bool {
	if l.shuttle.Y <= l.court.FloorY {
		return false
	}
	l.shuttle.MarkLanded()

	scorer := ScoringSide(l.court.OnHumanSide(l.shuttle.X), l.lastHitter)
	if scorer == types.HitterHuman {
		l.humanScore++
	} else {
		l.aiScore++
	}
	log.Printf("[Engine] Rally over: landed at x=%.1f, last hitter %s, point to %s (%d:%d)",
		l.shuttle.X, l.lastHitter, scorer, l.humanScore, l.aiScore)

	l.notifyScore()
	l.resetPositions()

	if winning := l.cfg.Match.WinningScore; l.humanScore >= winning || l.aiScore >= winning {
		l.matchOver = true
		l.winner = scorer
		log.Printf("[Engine] Match over, winner: %s", scorer)
		l.notifyMatchOver(scorer)
	}
	return true
}

// ScoringSide 根据落点半场和最后击球方决定得分方
func ScoringSide(onHumanSide bool, lastHitter types.Hitter) types.Hitter {
	if !onHumanSide {
		return types.HitterHuman
	}
	if lastHitter == types.HitterAI {
		return types.HitterHuman
	}
	return types.HitterAI
}
