package input

import "time"

// Timestamp 宿主提供的单调时钟读数
type Timestamp = time.Duration

// GestureState 触摸手势状态
//
// 状态流转: Idle → Down → {Moving | Held | Tap} → Idle
type GestureState int

const (
	GestureIdle   GestureState = iota // 无触摸
	GestureDown                       // 刚按下，尚未分类
	GestureMoving                     // 移动超过阈值，作为方向输入
	GestureHeld                       // 长按计时器已触发（重击）
	GestureTap                        // 抬起时判定为单击/双击
)

// String 返回手势状态的字符串表示
func (g GestureState) String() string {
	switch g {
	case GestureIdle:
		return "idle"
	case GestureDown:
		return "down"
	case GestureMoving:
		return "moving"
	case GestureHeld:
		return "held"
	case GestureTap:
		return "tap"
	default:
		return "unknown"
	}
}

// synthFlags 触摸手势合成的按键
// 与真实按键分开存放，Sample 时再做逻辑或，避免抬起清理时误伤键盘按键
type synthFlags struct {
	left, right, up, down bool
	hit                   bool
	power                 bool
}

func (s *synthFlags) clearDirections() {
	s.left, s.right, s.up, s.down = false, false, false, false
}

func (s *synthFlags) reset() {
	*s = synthFlags{}
}
