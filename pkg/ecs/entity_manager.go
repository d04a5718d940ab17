// Package ecs 提供轻量的实体-组件存储
//
// 实体只是一个递增的ID，组件按具体类型挂在实体上。
// 查询结果按实体ID升序返回，因此与创建（插入）顺序一致。
package ecs

import (
	"maps"
	"reflect"
	"slices"
)

// EntityID 是实体的唯一标识符，0 保留为无效ID
type EntityID uint64

// componentSet 单个实体上按类型索引的组件
type componentSet map[reflect.Type]any

// EntityManager 管理实体与组件
//
// 销毁分两步：DestroyEntity 只做标记，RemoveMarkedEntities 统一清理，
// 遍历查询结果时销毁实体不会影响当前遍历。
type EntityManager struct {
	lastID   EntityID
	entities map[EntityID]componentSet
	doomed   []EntityID
}

// NewEntityManager 创建空的实体存储
func NewEntityManager() *EntityManager {
	return &EntityManager{
		entities: make(map[EntityID]componentSet),
	}
}

// CreateEntity 创建新实体并返回唯一ID（从 1 开始）
func (em *EntityManager) CreateEntity() EntityID {
	em.lastID++
	em.entities[em.lastID] = make(componentSet)
	return em.lastID
}

// DestroyEntity 标记实体待删除
func (em *EntityManager) DestroyEntity(id EntityID) {
	em.doomed = append(em.doomed, id)
}

// AddComponent 为实体挂载组件，同类型组件会被覆盖；实体不存在时忽略
func (em *EntityManager) AddComponent(id EntityID, component any) {
	if set, ok := em.entities[id]; ok {
		set[reflect.TypeOf(component)] = component
	}
}

// GetComponent 按类型取组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (any, bool) {
	comp, ok := em.entities[id][componentType]
	return comp, ok
}

// EntityCount 当前存活的实体数量（包括已标记但尚未清理的实体）
func (em *EntityManager) EntityCount() int {
	return len(em.entities)
}

// RemoveMarkedEntities 清理所有标记删除的实体
func (em *EntityManager) RemoveMarkedEntities() {
	for _, id := range em.doomed {
		delete(em.entities, id)
	}
	em.doomed = em.doomed[:0]
}

// Clear 立即删除所有实体
// ID 计数器不回退，重开后的实体ID仍然唯一
func (em *EntityManager) Clear() {
	clear(em.entities)
	em.doomed = em.doomed[:0]
}

// GetEntitiesWith 查询同时拥有全部指定组件类型的实体，按ID升序
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	var result []EntityID
	for _, id := range slices.Sorted(maps.Keys(em.entities)) {
		set := em.entities[id]
		if !slices.ContainsFunc(componentTypes, func(ct reflect.Type) bool {
			_, found := set[ct]
			return !found
		}) {
			result = append(result, id)
		}
	}
	return result
}
