package components

import "github.com/decker502/shuttlerally/pkg/types"

// PowerupState 表示道具实例的生命周期状态
type PowerupState int

const (
	PowerupInactive PowerupState = iota // 已生成，等待玩家拾取
	PowerupActive                       // 已拾取，倒计时生效中
	PowerupRemoved                      // 已失效，待清理
)

// String 返回道具状态的字符串表示
func (s PowerupState) String() string {
	switch s {
	case PowerupInactive:
		return "inactive"
	case PowerupActive:
		return "active"
	case PowerupRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// PowerupComponent 标记实体为道具实例
//
// 生命周期：Inactive（生成）→ Active（拾取）→ Removed（到期）
// 位置存放在同一实体的 PositionComponent 中
type PowerupComponent struct {
	Type          types.PowerupType
	State         PowerupState
	Duration      float64 // 生效总时长（秒）
	RemainingTime float64 // 剩余生效时间（秒），仅 Active 状态递减
}
