// Package powerup 管理道具的生成、拾取、生效与到期
//
// 每个道具实例是 ECS 中的一个实体，挂载 PowerupComponent、PositionComponent
// 和 CollisionComponent。查询结果按实体ID升序，即生成顺序。
package powerup

import (
	"log"
	"math"
	"math/rand/v2"

	"github.com/decker502/shuttlerally/pkg/components"
	"github.com/decker502/shuttlerally/pkg/config"
	"github.com/decker502/shuttlerally/pkg/ecs"
	"github.com/decker502/shuttlerally/pkg/types"
)

// Collected 被拾取的道具信息，用于拾取特效
type Collected struct {
	ID   ecs.EntityID
	Type types.PowerupType
	X, Y float64
}

// Instance 道具实例快照，供渲染和测试读取
type Instance struct {
	ID            ecs.EntityID
	Type          types.PowerupType
	State         components.PowerupState
	X, Y          float64
	Radius        float64
	Duration      float64
	RemainingTime float64
	Color         string
}

// Manager 道具生命周期管理器
//
// 不变量：
//   - 同一时刻最多一个未拾取（Inactive）的道具
//   - 同一时刻最多一个生效中（Active）的道具
//
// 生成区域由调用方以参数传入，管理器不读取任何全局状态。
type Manager struct {
	em  *ecs.EntityManager
	cfg config.PowerupConfig
	rng *rand.Rand
}

// NewManager 创建道具管理器
func NewManager(cfg config.PowerupConfig, rng *rand.Rand) *Manager {
	return &Manager{
		em:  ecs.NewEntityManager(),
		cfg: cfg,
		rng: rng,
	}
}

// MaybeSpawn 按每帧生成概率尝试生成道具
func (m *Manager) MaybeSpawn(maxX, minY, maxY, width float64) bool {
	if m.rng.Float64() >= m.cfg.SpawnChance {
		return false
	}
	return m.SpawnInPlayerRange(maxX, minY, maxY, width)
}

// SpawnInPlayerRange 在玩家可到达的范围内生成一个随机类型的道具
//
// 参数:
//   - maxX: 玩家水平活动上限
//   - minY, maxY: 玩家垂直活动范围
//   - width: 画布宽度
//
// 返回:
//   - bool: 是否生成了新道具；已有未拾取的道具时不生成
func (m *Manager) SpawnInPlayerRange(maxX, minY, maxY, width float64) bool {
	if m.countState(components.PowerupInactive) > 0 {
		return false
	}

	kinds := m.cfg.EnabledTypes()
	if len(kinds) == 0 {
		return false
	}
	kind := kinds[m.rng.IntN(len(kinds))]

	// 避开边缘：两侧各留出 EdgeMargin 比例
	margin := m.cfg.EdgeMargin
	span := 1 - 2*margin
	rangeX := math.Min(maxX, width)
	x := rangeX * (margin + m.rng.Float64()*span)
	y := minY + (maxY-minY)*(margin+m.rng.Float64()*span)

	m.add(kind, x, y)
	log.Printf("[Powerup] Spawned %s at (%.1f, %.1f)", kind, x, y)
	return true
}

// Place 在指定位置放置一个未拾取的道具
// 已有未拾取的道具时先移除它，场上始终最多一个未拾取道具
func (m *Manager) Place(kind types.PowerupType, x, y float64) ecs.EntityID {
	m.removeState(components.PowerupInactive)
	id := m.add(kind, x, y)
	log.Printf("[Powerup] Placed %s at (%.1f, %.1f)", kind, x, y)
	return id
}

// add 创建一个未拾取的道具实体
func (m *Manager) add(kind types.PowerupType, x, y float64) ecs.EntityID {
	duration := m.cfg.PowerupDuration(kind)
	id := m.em.CreateEntity()
	m.em.AddComponent(id, &components.PositionComponent{X: x, Y: y})
	m.em.AddComponent(id, &components.CollisionComponent{Radius: m.cfg.PickupRadius})
	m.em.AddComponent(id, &components.PowerupComponent{
		Type:          kind,
		State:         components.PowerupInactive,
		Duration:      duration,
		RemainingTime: duration,
	})
	return id
}

// CheckCollisions 检测玩家碰撞盒与未拾取道具的碰撞
//
// 道具按圆形处理：与碰撞盒中心的距离小于 拾取半径 + min(宽,高)/2 即拾取。
// 每次调用最多拾取一个，按生成顺序取第一个命中的。
// 拾取时若已有生效中的道具，旧道具被移除，保证同一时刻只有一个生效。
func (m *Manager) CheckCollisions(bounds components.Rect) (Collected, bool) {
	cx, cy := bounds.Center()
	reach := math.Min(bounds.Width, bounds.Height) / 2

	for _, id := range m.instanceIDs() {
		pc, pos, radius := m.parts(id)
		if pc.State != components.PowerupInactive {
			continue
		}
		if math.Hypot(pos.X-cx, pos.Y-cy) >= radius+reach {
			continue
		}

		m.removeState(components.PowerupActive)
		pc.State = components.PowerupActive
		pc.RemainingTime = pc.Duration

		log.Printf("[Powerup] Collected %s (%.1fs)", pc.Type, pc.Duration)
		return Collected{ID: id, Type: pc.Type, X: pos.X, Y: pos.Y}, true
	}
	return Collected{}, false
}

// Update 推进生效中道具的倒计时
//
// 返回:
//   - types.PowerupType: 当前生效的道具类型
//   - bool: 是否有道具生效
func (m *Manager) Update(dt float64) (types.PowerupType, bool) {
	for _, id := range m.instanceIDs() {
		pc, _, _ := m.parts(id)
		if pc.State != components.PowerupActive {
			continue
		}
		pc.RemainingTime -= dt
		if pc.RemainingTime <= 0 {
			pc.RemainingTime = 0
			pc.State = components.PowerupRemoved
			m.em.DestroyEntity(id)
			log.Printf("[Powerup] %s expired", pc.Type)
		}
	}
	m.em.RemoveMarkedEntities()

	return m.Active()
}

// Active 返回当前生效的道具类型（不推进时间）
func (m *Manager) Active() (types.PowerupType, bool) {
	for _, id := range m.instanceIDs() {
		if pc, _, _ := m.parts(id); pc.State == components.PowerupActive {
			return pc.Type, true
		}
	}
	return types.PowerupNone, false
}

// Clear 移除所有道具（重新开始时调用）
func (m *Manager) Clear() {
	if n := m.em.EntityCount(); n > 0 {
		log.Printf("[Powerup] Cleared %d instances", n)
	}
	m.em.Clear()
}

// Instances 返回所有道具实例的快照（按生成顺序）
func (m *Manager) Instances() []Instance {
	ids := m.instanceIDs()
	result := make([]Instance, 0, len(ids))
	for _, id := range ids {
		pc, pos, radius := m.parts(id)
		result = append(result, Instance{
			ID:            id,
			Type:          pc.Type,
			State:         pc.State,
			X:             pos.X,
			Y:             pos.Y,
			Radius:        radius,
			Duration:      pc.Duration,
			RemainingTime: pc.RemainingTime,
			Color:         m.cfg.ColorOf(pc.Type),
		})
	}
	return result
}

// Count 返回指定状态的道具数量
func (m *Manager) Count(state components.PowerupState) int {
	return m.countState(state)
}

func (m *Manager) countState(state components.PowerupState) int {
	n := 0
	for _, id := range m.instanceIDs() {
		if pc, _, _ := m.parts(id); pc.State == state {
			n++
		}
	}
	return n
}

// removeState 立即移除处于指定状态的道具
func (m *Manager) removeState(state components.PowerupState) {
	for _, id := range m.instanceIDs() {
		if pc, _, _ := m.parts(id); pc.State == state {
			pc.State = components.PowerupRemoved
			m.em.DestroyEntity(id)
			log.Printf("[Powerup] %s replaced", pc.Type)
		}
	}
	m.em.RemoveMarkedEntities()
}

func (m *Manager) instanceIDs() []ecs.EntityID {
	return ecs.GetEntitiesWith2[*components.PowerupComponent, *components.PositionComponent](m.em)
}

// parts 取出道具实体的组件；instanceIDs 已保证两个组件都存在
func (m *Manager) parts(id ecs.EntityID) (*components.PowerupComponent, *components.PositionComponent, float64) {
	pc, _ := ecs.GetComponent[*components.PowerupComponent](m.em, id)
	pos, _ := ecs.GetComponent[*components.PositionComponent](m.em, id)
	radius := m.cfg.PickupRadius
	if col, ok := ecs.GetComponent[*components.CollisionComponent](m.em, id); ok {
		radius = col.Radius
	}
	return pc, pos, radius
}
